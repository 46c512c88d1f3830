package academy

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/omarhassan900/wattar-academy/models"
)

// Attendance outcomes as stored. The UI historically posts "attended";
// it is normalized to present on the way in.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusExcused = "excused"
)

// Service answers "what sessions exist for a student, and what is their
// mark in each" and owns the one-mark-per-(student, session) invariant.
// It holds the DB handle explicitly so tests can run it against a
// fixture store.
type Service struct {
	db    *gorm.DB
	locks sessionLocks
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, locks: sessionLocks{m: map[uint]*sync.Mutex{}}}
}

// PairKey identifies one cell of the attendance grid.
type PairKey struct {
	StudentID uint
	SessionID uint
}

// Mark is the recorded outcome for a pair. A pair with no Mark means
// "not yet recorded", which is distinct from an explicit absent.
type Mark struct {
	Status   string `json:"status"`
	Notes    string `json:"notes"`
	MarkedBy uint   `json:"marked_by"`
}

// NormalizeOutcome maps UI aliases onto stored statuses and rejects
// anything outside the known set.
func NormalizeOutcome(s string) (string, error) {
	switch s {
	case "attended":
		return StatusPresent, nil
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown attendance outcome %q", ErrInvalidArgument, s)
}

// SessionsForLevel returns the level's sessions ordered by session
// number. An unseeded level yields an empty slice; seeding happens at
// setup time, never here.
func (s *Service) SessionsForLevel(ctx context.Context, level string) ([]models.Session, error) {
	if err := CheckLevel(level); err != nil {
		return nil, err
	}
	var sessions []models.Session
	err := s.db.WithContext(ctx).
		Where("level = ?", level).
		Order("session_number ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return sessions, nil
}

// AttendanceFor bulk-loads marks for the given students x sessions.
// Pairs with no record are simply missing from the map.
func (s *Service) AttendanceFor(ctx context.Context, studentIDs, sessionIDs []uint) (map[PairKey]Mark, error) {
	out := make(map[PairKey]Mark)
	if len(studentIDs) == 0 || len(sessionIDs) == 0 {
		return out, nil
	}
	var recs []models.Attendance
	err := s.db.WithContext(ctx).
		Where("student_id IN ? AND session_id IN ?", studentIDs, sessionIDs).
		Find(&recs).Error
	if err != nil {
		return nil, storageErr(err)
	}
	for _, r := range recs {
		out[PairKey{StudentID: r.StudentID, SessionID: r.SessionID}] = Mark{
			Status:   r.Status,
			Notes:    r.Notes,
			MarkedBy: r.MarkedBy,
		}
	}
	return out, nil
}

// SetMark records an outcome for one pair, replacing any existing mark
// wholesale. Writes on the same session are serialized with the bulk
// writer.
func (s *Service) SetMark(ctx context.Context, studentID, sessionID uint, outcome, notes string, markedBy uint) error {
	status, err := NormalizeOutcome(outcome)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	return s.translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkExists(tx, &models.Student{}, studentID, "student"); err != nil {
			return err
		}
		if err := checkExists(tx, &models.Session{}, sessionID, "session"); err != nil {
			return err
		}
		rec := models.Attendance{
			StudentID: studentID,
			SessionID: sessionID,
			Status:    status,
			Notes:     notes,
			MarkedBy:  markedBy,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "marked_by"}),
		}).Create(&rec).Error
	}))
}

// ClearMark removes the record for a pair. Clearing a pair that has no
// mark is success, not an error.
func (s *Service) ClearMark(ctx context.Context, studentID, sessionID uint) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	err := s.db.WithContext(ctx).
		Where("student_id = ? AND session_id = ?", studentID, sessionID).
		Delete(&models.Attendance{}).Error
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// SetStudentLevel moves a student to another level. Reads from then on
// resolve against the new level's sessions; marks recorded under the old
// level's sessions stay in storage untouched and are no longer surfaced
// for the student. They are deliberately not migrated.
func (s *Service) SetStudentLevel(ctx context.Context, studentID uint, level string) ([]models.Session, error) {
	if err := CheckLevel(level); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if err := checkExists(db, &models.Student{}, studentID, "student"); err != nil {
		return nil, s.translate(err)
	}
	err := db.Model(&models.Student{}).
		Where("id = ?", studentID).
		Update("current_level", level).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return s.SessionsForLevel(ctx, level)
}

func checkExists(tx *gorm.DB, model interface{}, id uint, kind string) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
	}
	return nil
}

// translate keeps typed failures as-is and wraps anything else as a
// storage failure.
func (s *Service) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrStorage):
		return err
	default:
		return storageErr(err)
	}
}

// sessionLocks serializes writers per session id so two batches touching
// the same session cannot interleave their delete/insert sequences.
type sessionLocks struct {
	mu sync.Mutex
	m  map[uint]*sync.Mutex
}

func (l *sessionLocks) get(id uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	mu, ok := l.m[id]
	if !ok {
		mu = &sync.Mutex{}
		l.m[id] = mu
	}
	return mu
}

func (l *sessionLocks) lock(id uint) func() {
	mu := l.get(id)
	mu.Lock()
	return mu.Unlock
}

// lockAll acquires session locks in ascending id order to avoid
// deadlocking against another batch.
func (l *sessionLocks) lockAll(ids []uint) func() {
	sorted := make([]uint, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	mus := make([]*sync.Mutex, 0, len(sorted))
	for _, id := range sorted {
		mu := l.get(id)
		mu.Lock()
		mus = append(mus, mu)
	}
	return func() {
		for i := len(mus) - 1; i >= 0; i-- {
			mus[i].Unlock()
		}
	}
}
