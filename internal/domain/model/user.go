package model

import (
	"strings"
	"time"
)

// Role controls which parts of the storefront a user may access.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

// Address is a postal address used for shipping and saved on the user profile.
type Address struct {
	HouseNo  string `json:"houseNo"`
	Landmark string `json:"landmark,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	PinCode  string `json:"pinCode"`
}

// IsZero reports whether no address field is set.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Equal compares two addresses ignoring surrounding whitespace and letter case.
func (a Address) Equal(other Address) bool {
	eq := func(x, y string) bool {
		return strings.EqualFold(strings.TrimSpace(x), strings.TrimSpace(y))
	}
	return eq(a.HouseNo, other.HouseNo) &&
		eq(a.Landmark, other.Landmark) &&
		eq(a.City, other.City) &&
		eq(a.State, other.State) &&
		eq(a.PinCode, other.PinCode)
}

// User represents a registered storefront account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Address      *Address
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Registration carries the fields of a sign-up.
type Registration struct {
	Name     string
	Email    string
	Password string
	Role     Role
}
