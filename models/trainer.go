package models

type Trainer struct {
	ID             uint    `json:"id" gorm:"primaryKey"`
	UserID         uint    `json:"user_id" gorm:"index;not null"`
	Specialization string  `json:"specialization" gorm:"size:100"`
	HourlyRate     float64 `json:"hourly_rate"`
	HireDate       string  `json:"hire_date" gorm:"size:10"` // YYYY-MM-DD
	Status         string  `json:"status" gorm:"size:20;not null;default:active"` // active | inactive
}
