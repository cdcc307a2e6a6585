package domain

import "strings"

// Role is the closed set of actor roles. Authorization goes through Can,
// never through raw string comparison.
type Role string

const (
	RoleClient    Role = "client"
	RoleMerchant  Role = "commercant"
	RoleDeliverer Role = "livreur"
)

// Capability is an action gated by role.
type Capability int

const (
	CapSell Capability = iota + 1
	CapOrder
	CapDeliver
)

func (c Capability) String() string {
	switch c {
	case CapSell:
		return "sell"
	case CapOrder:
		return "order"
	case CapDeliver:
		return "deliver"
	}
	return "unknown"
}

// ParseRole accepts the wire spelling of a role, case-insensitively.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if r.Valid() {
		return r, true
	}
	return "", false
}

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleMerchant, RoleDeliverer:
		return true
	}
	return false
}

// Can reports whether the role holds the capability.
func (r Role) Can(c Capability) bool {
	switch r {
	case RoleClient:
		return c == CapOrder
	case RoleMerchant:
		return c == CapSell
	case RoleDeliverer:
		return c == CapDeliver
	}
	return false
}

type User struct {
	ID        string `db:"id" json:"id"`
	FullName  string `db:"full_name" json:"full_name"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone"`
	Hash      string `db:"password_hash" json:"-"`
	Role      Role   `db:"role" json:"role"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// Claims is the identity carried by a bearer token.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) Claims() Claims {
	return Claims{ID: u.ID, Email: u.Email, Role: u.Role}
}
