package models

import "time"

type Class struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"size:100;not null"`
	Level           string    `json:"level" gorm:"size:20;not null"`
	TrainerID       *uint     `json:"trainer_id,omitempty" gorm:"index"`
	ScheduleDay     string    `json:"schedule_day" gorm:"size:10"` // Sunday..Saturday
	ScheduleTime    string    `json:"schedule_time" gorm:"size:5"` // HH:MM
	DurationMinutes int       `json:"duration_minutes" gorm:"default:60"`
	MaxStudents     int       `json:"max_students" gorm:"default:10"`
	Status          string    `json:"status" gorm:"size:20;not null;default:active"` // active | inactive
	CreatedAt       time.Time `json:"created_at"`
}

// Enrollment of a student into a class.
type StudentClass struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	StudentID      uint   `json:"student_id" gorm:"uniqueIndex:idx_student_class;not null"`
	ClassID        uint   `json:"class_id" gorm:"uniqueIndex:idx_student_class;not null"`
	EnrollmentDate string `json:"enrollment_date" gorm:"size:10;not null"`
	Status         string `json:"status" gorm:"size:20;not null;default:active"` // active | completed | dropped
}
