package academy

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/omarhassan900/wattar-academy/models"
)

// BatchEntry is one cell of a submitted attendance grid.
type BatchEntry struct {
	StudentID uint
	SessionID uint
	Outcome   string
	Notes     string
}

// Batch is a grid submission covering one or more sessions.
//
// Every session a batch touches is fully replaced by the batch: all of
// its existing marks are deleted, then the submitted entries inserted.
// Submitting a partial batch therefore drops the marks not resubmitted —
// that is the system's defined behavior, inherited from the grid UI
// which always posts a session's complete column.
type Batch struct {
	Entries []BatchEntry

	// TouchedSessionIDs adds sessions to the replaced set beyond those
	// referenced by Entries. This is how an empty resubmission clears a
	// session's column.
	TouchedSessionIDs []uint

	// SessionDates, when non-nil, marks the batch as a backdated
	// correction: only the listed sessions get their date set, to the
	// given YYYY-MM-DD values. When nil the batch is a live marking and
	// every touched session is stamped with today's date.
	SessionDates map[uint]string

	MarkedBy uint
}

// SaveBatch applies a batch atomically. On any failure nothing is
// applied: the whole delete+insert+stamp sequence runs in one
// transaction, and writes are serialized per touched session.
func (s *Service) SaveBatch(ctx context.Context, b Batch) error {
	entries := make([]models.Attendance, 0, len(b.Entries))
	for _, e := range b.Entries {
		// id 0 would slip past the IN-clause existence check below
		if e.StudentID == 0 || e.SessionID == 0 {
			return fmt.Errorf("%w: entry with zero student or session id", ErrNotFound)
		}
		status, err := NormalizeOutcome(e.Outcome)
		if err != nil {
			return err
		}
		entries = append(entries, models.Attendance{
			StudentID: e.StudentID,
			SessionID: e.SessionID,
			Status:    status,
			Notes:     e.Notes,
			MarkedBy:  b.MarkedBy,
		})
	}
	for id, d := range b.SessionDates {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fmt.Errorf("%w: bad session date %q for session %d", ErrInvalidArgument, d, id)
		}
	}

	touched := touchedSessions(b)
	if len(touched) == 0 {
		return nil
	}

	unlock := s.locks.lockAll(touched)
	defer unlock()

	return s.translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkAllExist(tx, &models.Session{}, touched, "session"); err != nil {
			return err
		}
		if err := checkAllExist(tx, &models.Student{}, studentIDs(b.Entries), "student"); err != nil {
			return err
		}

		if err := tx.Where("session_id IN ?", touched).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return err
			}
		}

		return stampSessionDates(tx, touched, b.SessionDates)
	}))
}

func touchedSessions(b Batch) []uint {
	seen := make(map[uint]bool)
	var out []uint
	add := func(id uint) {
		if id != 0 && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, e := range b.Entries {
		add(e.SessionID)
	}
	for _, id := range b.TouchedSessionIDs {
		add(id)
	}
	return out
}

func studentIDs(entries []BatchEntry) []uint {
	seen := make(map[uint]bool)
	var out []uint
	for _, e := range entries {
		if !seen[e.StudentID] {
			seen[e.StudentID] = true
			out = append(out, e.StudentID)
		}
	}
	return out
}

func checkAllExist(tx *gorm.DB, model interface{}, ids []uint, kind string) error {
	if len(ids) == 0 {
		return nil
	}
	var n int64
	if err := tx.Model(model).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return fmt.Errorf("%w: one or more %ss in batch", ErrNotFound, kind)
	}
	return nil
}

func stampSessionDates(tx *gorm.DB, touched []uint, dates map[uint]string) error {
	if dates == nil {
		today := time.Now().Format("2006-01-02")
		return tx.Model(&models.Session{}).
			Where("id IN ?", touched).
			Update("session_date", today).Error
	}
	for id, d := range dates {
		err := tx.Model(&models.Session{}).
			Where("id = ?", id).
			Update("session_date", d).Error
		if err != nil {
			return err
		}
	}
	return nil
}
