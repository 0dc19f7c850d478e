package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name" validate:"required,max=50"`
	Description  string    `db:"description" json:"description" validate:"max=500"`
	Image        string    `db:"image" json:"image"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	DisplayOrder int       `db:"display_order" json:"order"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type NutritionalInfo struct {
	Calories  float64  `json:"calories,omitempty"`
	Protein   float64  `json:"protein,omitempty"`
	Carbs     float64  `json:"carbs,omitempty"`
	Fat       float64  `json:"fat,omitempty"`
	Allergens []string `json:"allergens,omitempty"`
}

func (n NutritionalInfo) Value() (driver.Value, error) { return jsonValue(n) }
func (n *NutritionalInfo) Scan(src any) error { return jsonScan(src, n) }

type CustomizationChoice struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
}

type CustomizationOption struct {
	Name    string                `json:"name" validate:"required"`
	Options []CustomizationChoice `json:"options" validate:"dive"`
}

type CustomizationOptions []CustomizationOption

func (c CustomizationOptions) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return jsonValue(c)
}

func (c *CustomizationOptions) Scan(src any) error { return jsonScan(src, c) }

// MenuItem is a catalog entry. AverageRating and NumberOfRatings are derived
// from reviews and never taken from client input.
type MenuItem struct {
	ID                   uuid.UUID            `db:"id" json:"id"`
	Name                 string               `db:"name" json:"name" validate:"required,max=100"`
	Description          string               `db:"description" json:"description" validate:"required,max=1000"`
	Price                float64              `db:"price" json:"price" validate:"gte=0"`
	DiscountPrice        *float64             `db:"discount_price" json:"discountPrice,omitempty" validate:"omitempty,gte=0"`
	Image                string               `db:"image" json:"image"`
	CategoryID           uuid.UUID            `db:"category_id" json:"category" validate:"required"`
	CategoryName         string               `db:"-" json:"categoryName,omitempty"`
	PreparationTime      int                  `db:"preparation_time" json:"preparationTime" validate:"gte=0"`
	Ingredients          []string             `db:"ingredients" json:"ingredients"`
	NutritionalInfo      NutritionalInfo      `db:"nutritional_info" json:"nutritionalInfo"`
	IsAvailable          bool                 `db:"is_available" json:"isAvailable"`
	IsVegetarian         bool                 `db:"is_vegetarian" json:"isVegetarian"`
	IsVegan              bool                 `db:"is_vegan" json:"isVegan"`
	IsGlutenFree         bool                 `db:"is_gluten_free" json:"isGlutenFree"`
	SpicyLevel           int                  `db:"spicy_level" json:"spicyLevel" validate:"gte=0,lte=3"`
	CustomizationOptions CustomizationOptions `db:"customization_options" json:"customizationOptions" validate:"dive"`
	Tags                 []string             `db:"tags" json:"tags"`
	AverageRating        float64              `db:"average_rating" json:"averageRating"`
	NumberOfRatings      int                  `db:"number_of_ratings" json:"numberOfRatings"`
	CreatedAt            time.Time            `db:"created_at" json:"createdAt"`
}

// UnitPrice is the discount price when one is set, otherwise the base price.
func (m *MenuItem) UnitPrice() float64 {
	if m.DiscountPrice != nil {
		return *m.DiscountPrice
	}
	return m.Price
}

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(src, dest any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dest)
	}
}
