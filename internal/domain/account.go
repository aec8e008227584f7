package domain

import "time"

// Account is an identity-provider record. Anonymous accounts carry no
// credentials and cannot place orders.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name,omitempty"`
	Anonymous    bool      `json:"anonymous"`
	CreatedAt    time.Time `json:"created_at"`
}
