package models

import "time"

type Session struct {
	ID           string `gorm:"primaryKey"`
	UserID       string `gorm:"index;not null"`
	Fingerprint  string
	RefreshToken string    `gorm:"uniqueIndex;not null"`
	ExpiresAt    time.Time `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
