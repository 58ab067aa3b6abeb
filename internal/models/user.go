package models

import "time"

type User struct {
	ID    string `gorm:"primaryKey"`
	Name  string `gorm:"not null"`
	Email string `gorm:"uniqueIndex;not null"`
	// Password is nil for accounts that never set a credential.
	Password  *string
	Image     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the caller as seen by the access token. It is attached to
// every authenticated request by the auth middleware.
type Identity struct {
	UserID    string
	SessionID string
	Name      string
	Email     string
	Image     *string
}
