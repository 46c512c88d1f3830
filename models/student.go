package models

import "time"

type Student struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:100;not null"`
	NationalID  string `json:"national_id" gorm:"size:20;index"` // optional; unique among active students (checked in code)
	Phone       string `json:"phone" gorm:"size:20"`
	ParentPhone string `json:"parent_phone" gorm:"size:20"`
	Email       string `json:"email" gorm:"size:100"`
	StartDate   string `json:"start_date" gorm:"size:10;not null"` // YYYY-MM-DD

	CurrentLevel string `json:"current_level" gorm:"size:20;not null;default:'Level One';index"`
	Status       string `json:"status" gorm:"size:20;not null;default:active"` // active | inactive | graduated
	Instrument   string `json:"instrument" gorm:"size:50"`
	AgeGroup     string `json:"age_group" gorm:"size:20"` // kids | teenagers | adults

	DateOfBirth      string `json:"date_of_birth" gorm:"size:10"`
	Address          string `json:"address" gorm:"type:text"`
	EmergencyContact string `json:"emergency_contact" gorm:"size:100"`
	EmergencyPhone   string `json:"emergency_phone" gorm:"size:20"`
	Notes            string `json:"notes" gorm:"type:text"`

	TrainerID *uint `json:"trainer_id,omitempty" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
