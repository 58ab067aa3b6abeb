package models

import "time"

// Category groups tasks of one user. Tasks only reference it, so deleting
// a category detaches its tasks instead of removing them.
type Category struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index;not null"`
	Name      string `gorm:"not null"`
	Color     *string
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}
