package model

import "time"

// Role defines what a user may do in the storefront.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSupplier Role = "supplier"
	RoleAdmin    Role = "admin"
)

// Valid reports whether role is known.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleSupplier || r == RoleAdmin
}

// User represents a registered storefront account.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Principal is the authenticated caller extracted from an access token.
type Principal struct {
	UserID int64
	Role   Role
}
