package model

import "time"

// User represents a customer. The password hash never leaves the server.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// UserSummary is a user joined with aggregates over the orders it owns.
type UserSummary struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	CreatedAt       time.Time  `json:"createdAt"`
	TotalOrders     int        `json:"totalOrders"`
	LifetimeValue   int64      `json:"lifetimeValue"`
	LastOrderStatus string     `json:"lastOrderStatus"`
	LastOrderAt     *time.Time `json:"lastOrderAt"`
}

// UsersResponse wraps the admin user listing.
type UsersResponse struct {
	Success bool          `json:"success"`
	Users   []UserSummary `json:"users"`
}
