package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	UserID     uuid.UUID  `db:"user_id" json:"user"`
	UserName   string     `db:"-" json:"userName,omitempty"`
	MenuItemID uuid.UUID  `db:"menu_item_id" json:"menuItem"`
	OrderID    *uuid.UUID `db:"order_id" json:"order,omitempty"`
	Rating     int        `db:"rating" json:"rating" validate:"required,min=1,max=5"`
	Comment    string     `db:"comment" json:"comment" validate:"max=500"`
	Images     []string   `db:"images" json:"images"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}

// RatingSummary is the derived rating aggregate of a menu item.
type RatingSummary struct {
	Average float64 `json:"averageRating"`
	Count   int     `json:"numberOfRatings"`
}
