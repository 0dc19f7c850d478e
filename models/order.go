package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out-for-delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCompleted      OrderStatus = "completed"
	StatusCancelled      OrderStatus = "cancelled"
)

// statusRank orders the lifecycle; delivered and completed share the last step.
var statusRank = map[OrderStatus]int{
	StatusPending:        0,
	StatusConfirmed:      1,
	StatusPreparing:      2,
	StatusReady:          3,
	StatusOutForDelivery: 4,
	StatusDelivered:      5,
	StatusCompleted:      5,
}

func (s OrderStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok || s == StatusCancelled
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCompleted || s == StatusCancelled
}

// Rank returns the lifecycle position, -1 for cancelled or unknown values.
func (s OrderStatus) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit-card"
	PaymentPaypal     PaymentMethod = "paypal"
	PaymentStripe     PaymentMethod = "stripe"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

type DeliveryAddress struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

func (a DeliveryAddress) Value() (driver.Value, error) { return jsonValue(a) }
func (a *DeliveryAddress) Scan(src any) error { return jsonScan(src, a) }

type SelectedCustomization struct {
	Name       string  `json:"name" validate:"required"`
	Option     string  `json:"option" validate:"required"`
	ExtraPrice float64 `json:"extraPrice"`
}

type Customizations []SelectedCustomization

func (c Customizations) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return jsonValue(c)
}

func (c *Customizations) Scan(src any) error { return jsonScan(src, c) }

// OrderItem is a snapshot of a menu item taken when the order was placed.
type OrderItem struct {
	MenuItemID     uuid.UUID      `db:"menu_item_id" json:"menuItem"`
	Name           string         `db:"name" json:"name"`
	Price          float64        `db:"price" json:"price"`
	Quantity       int            `db:"quantity" json:"quantity"`
	Customizations Customizations `db:"customizations" json:"customizations"`
}

type StatusEntry struct {
	Status    OrderStatus `db:"status" json:"status"`
	Timestamp time.Time   `db:"timestamp" json:"timestamp"`
	UpdatedBy uuid.UUID   `db:"updated_by" json:"updatedBy"`
}

type Order struct {
	ID                    uuid.UUID        `db:"id" json:"id"`
	UserID                uuid.UUID        `db:"user_id" json:"user"`
	UserName              string           `db:"-" json:"userName,omitempty"`
	UserEmail             string           `db:"-" json:"userEmail,omitempty"`
	Items                 []OrderItem      `db:"-" json:"items"`
	Status                OrderStatus      `db:"status" json:"status"`
	Subtotal              float64          `db:"subtotal" json:"subtotal"`
	Tax                   float64          `db:"tax" json:"tax"`
	DeliveryFee           float64          `db:"delivery_fee" json:"deliveryFee"`
	Discount              float64          `db:"discount" json:"discount"`
	Total                 float64          `db:"total" json:"total"`
	CouponCode            string           `db:"coupon_code" json:"couponCode,omitempty"`
	PaymentMethod         PaymentMethod    `db:"payment_method" json:"paymentMethod"`
	PaymentStatus         PaymentStatus    `db:"payment_status" json:"paymentStatus"`
	PaymentID             string           `db:"payment_id" json:"paymentId,omitempty"`
	DeliveryType          DeliveryType     `db:"delivery_type" json:"deliveryType"`
	DeliveryAddress       *DeliveryAddress `db:"delivery_address" json:"deliveryAddress,omitempty"`
	DeliveryInstructions  string           `db:"delivery_instructions" json:"deliveryInstructions,omitempty"`
	SpecialInstructions   string           `db:"special_instructions" json:"specialInstructions,omitempty"`
	EstimatedDeliveryTime time.Time        `db:"estimated_delivery_time" json:"estimatedDeliveryTime"`
	ActualDeliveryTime    *time.Time       `db:"actual_delivery_time" json:"actualDeliveryTime,omitempty"`
	StatusHistory         []StatusEntry    `db:"-" json:"statusHistory"`
	CreatedAt             time.Time        `db:"created_at" json:"createdAt"`
}

func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}
