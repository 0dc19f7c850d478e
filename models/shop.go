package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

type ShopOrderItem struct {
	Name   string  `json:"name" validate:"required"`
	Amount int     `json:"amount" validate:"required,gt=0"`
	Price  float64 `json:"price" validate:"gte=0"`
}

type ShopOrderItems []ShopOrderItem

func (s ShopOrderItems) Value() (driver.Value, error) { return jsonValue(s) }
func (s *ShopOrderItems) Scan(src any) error { return jsonScan(src, s) }

type ShippingAddress struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

func (s ShippingAddress) Value() (driver.Value, error) { return jsonValue(s) }
func (s *ShippingAddress) Scan(src any) error { return jsonScan(src, s) }

// ShopOrder is an order placed through the simplified checkout.
type ShopOrder struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	OrderItems      ShopOrderItems  `db:"order_items" json:"orderItems"`
	ShippingAddress ShippingAddress `db:"shipping_address" json:"shippingAddress"`
	PaymentMethod   string          `db:"payment_method" json:"paymentMethod"`
	TaxPrice        float64         `db:"tax_price" json:"taxPrice"`
	ShippingPrice   float64         `db:"shipping_price" json:"shippingPrice"`
	TotalPrice      float64         `db:"total_price" json:"totalPrice"`
	FinalPrice      float64         `db:"final_price" json:"finalPrice"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
}

// ItemOrders groups shop orders by the name of an item they contain.
type ItemOrders struct {
	Name     string      `json:"name"`
	Products []ShopOrder `json:"products"`
}
