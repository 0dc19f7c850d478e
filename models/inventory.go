package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

type StockAction string

const (
	StockAdded    StockAction = "added"
	StockRemoved  StockAction = "removed"
	StockAdjusted StockAction = "adjusted"
)

func (a StockAction) IsValid() bool {
	return a == StockAdded || a == StockRemoved || a == StockAdjusted
}

type Supplier struct {
	Name    string `json:"name,omitempty"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
}

func (s Supplier) Value() (driver.Value, error) { return jsonValue(s) }
func (s *Supplier) Scan(src any) error { return jsonScan(src, s) }

type StockEntry struct {
	Action   StockAction `db:"action" json:"action"`
	Quantity float64     `db:"quantity" json:"quantity"`
	Date     time.Time   `db:"date" json:"date"`
	UserID   uuid.UUID   `db:"user_id" json:"user"`
	Notes    string      `db:"notes" json:"notes,omitempty"`
}

// InventoryItem is stock of one ingredient or supply. CurrentStock only
// changes through recorded StockEntry actions once the item exists.
type InventoryItem struct {
	ID                uuid.UUID    `db:"id" json:"id"`
	Name              string       `db:"name" json:"name" validate:"required,max=100"`
	CurrentStock      float64      `db:"current_stock" json:"currentStock" validate:"gte=0"`
	Unit              string       `db:"unit" json:"unit" validate:"required,oneof=kg g l ml pieces packets"`
	MinStockLevel     float64      `db:"min_stock_level" json:"minStockLevel" validate:"gte=0"`
	Category          string       `db:"category" json:"category" validate:"required,oneof=ingredients packaging beverages misc"`
	Cost              float64      `db:"cost" json:"cost" validate:"gte=0"`
	Supplier          Supplier     `db:"supplier" json:"supplier"`
	AffectedMenuItems []uuid.UUID  `db:"affected_menu_items" json:"affectedMenuItems"`
	ExpirationDate    *time.Time   `db:"expiration_date" json:"expirationDate,omitempty"`
	Location          string       `db:"location" json:"location,omitempty"`
	IsActive          bool         `db:"is_active" json:"isActive"`
	StockHistory      []StockEntry `db:"-" json:"stockHistory,omitempty"`
	CreatedAt         time.Time    `db:"created_at" json:"createdAt"`
}

func (i *InventoryItem) IsLow() bool {
	return i.CurrentStock <= i.MinStockLevel
}
