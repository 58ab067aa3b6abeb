package models

import "time"

type Task struct {
	ID          string     `gorm:"primaryKey"`
	UserID      string     `gorm:"index;not null"`
	CategoryID  *string    `gorm:"index"`
	Title       string     `gorm:"not null"`
	Description string     `gorm:"not null"`
	Completed   bool       `gorm:"not null"`
	Priority    Priority   `gorm:"not null"`
	DueDate     *time.Time `gorm:"index"`
	CreatedAt   time.Time  `gorm:"index"`
	UpdatedAt   time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
	Subtasks []Subtask `gorm:"foreignKey:TaskID"`
}

type Subtask struct {
	ID        string `gorm:"primaryKey"`
	TaskID    string `gorm:"index;not null"`
	Title     string `gorm:"not null"`
	Completed bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
