package models

import "time"

// Session is one of the four fixed attendance slots of a level. It is
// shared by every student currently at that level; session_date stays
// empty until attendance is first recorded for it.
type Session struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Level         string    `json:"level" gorm:"size:20;not null;uniqueIndex:idx_level_session"`
	SessionNumber int       `json:"session_number" gorm:"not null;uniqueIndex:idx_level_session"` // 1..4
	SessionDate   string    `json:"session_date" gorm:"size:10"`                                  // YYYY-MM-DD, set lazily
	SessionName   string    `json:"session_name" gorm:"size:100"`
	Description   string    `json:"description" gorm:"type:text"`
	Status        string    `json:"status" gorm:"size:20;not null;default:scheduled"` // scheduled | completed | cancelled
	CreatedAt     time.Time `json:"created_at"`
}
