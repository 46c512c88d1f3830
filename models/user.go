package models

import "time"

// Staff account. Role gates what the routes allow.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	FullName     string    `json:"full_name" gorm:"size:100;not null"`
	Email        string    `json:"email" gorm:"size:100"`
	Role         string    `json:"role" gorm:"size:20;not null"`   // manager | reception | trainer
	Status       string    `json:"status" gorm:"size:20;not null;default:active"` // active | inactive
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
