package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStaff || r == RoleCustomer
}

// RoleAllowed reports whether role is one of allowed.
func RoleAllowed(role Role, allowed []Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

type User struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	Password    string    `db:"password" json:"-"`
	Role        Role      `db:"role" json:"role"`
	PhoneNumber string    `db:"phone_number" json:"phoneNumber,omitempty"`
	Addresses   []Address `db:"-" json:"addresses"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type Address struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"-"`
	Street    string    `db:"street" json:"street" validate:"required"`
	City      string    `db:"city" json:"city" validate:"required"`
	State     string    `db:"state" json:"state"`
	ZipCode   string    `db:"zip_code" json:"zipCode"`
	IsDefault bool      `db:"is_default" json:"isDefault"`
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

func (i Identity) IsStaff() bool {
	return i.Role == RoleStaff || i.Role == RoleAdmin
}
