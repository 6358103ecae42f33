package domain

import "time"

// Staff is an employee account allowed to act on bookings through the admin
// endpoints. Only the fields the API surface needs are carried here.
type Staff struct {
	ID           int32     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
