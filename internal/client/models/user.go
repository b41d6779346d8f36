package models

import "time"

// User is the session identity reported by the account provider.
// Only DisplayName is mutable, via an explicit profile update; everything
// else is fixed at registration time.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
