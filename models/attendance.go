package models

import "time"

// One mark per (student, session). The unique index backs the writer's
// replace-on-write guarantee; concurrent double inserts fail loudly
// instead of duplicating.
type Attendance struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StudentID uint      `json:"student_id" gorm:"uniqueIndex:idx_student_session;not null"`
	SessionID uint      `json:"session_id" gorm:"uniqueIndex:idx_student_session;not null;index"`
	Status    string    `json:"status" gorm:"size:20;not null"` // present | absent | late | excused
	Notes     string    `json:"notes" gorm:"type:text"`
	MarkedBy  uint      `json:"marked_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (Attendance) TableName() string { return "attendance" }
