package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the kind of authenticated principal.
type Role string

const (
	RoleClient     Role = "client"
	RoleEnterprise Role = "enterprise"
)

// Caller is the identity resolved from a bearer token.
type Caller struct {
	ID   uuid.UUID
	Role Role
}

// Client is a customer account that places orders.
type Client struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Address is the physical location of an enterprise.
type Address struct {
	Street string `json:"street"`
	Number int    `json:"number"`
	City   string `json:"city"`
	State  string `json:"state"`
}

// Enterprise is a restaurant account that owns a catalog and receives orders.
type Enterprise struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Address      Address   `json:"address"`
	IsOpen       bool      `json:"is_open"`
	OpeningHours string    `json:"opening_hours"`
	LogoURL      string    `json:"logo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
