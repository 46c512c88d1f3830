package academy_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarhassan900/wattar-academy/academy"
	"github.com/omarhassan900/wattar-academy/models"
)

func TestSaveBatchReplacesTouchedSessions(t *testing.T) {
	db := openTestDB(t)
	svc := academy.NewService(db)
	ctx := context.Background()

	a := newStudent(t, db, "Amira", "Level One")
	b := newStudent(t, db, "Bassem", "Level One")
	ses := sessionID(t, db, "Level One", 1)

	// both students marked
	require.NoError(t, svc.SaveBatch(ctx, academy.Batch{
		Entries: []academy.BatchEntry{
			{StudentID: a.ID, SessionID: ses, Outcome: "present"},
			{StudentID: b.ID, SessionID: ses, Outcome: "absent"},
		},
		MarkedBy: 1,
	}))

	// resubmitting only one student drops the other's mark
	require.NoError(t, svc.SaveBatch(ctx, academy.Batch{
		Entries: []academy.BatchEntry{
			{StudentID: a.ID, SessionID: ses, Outcome: "late"},
		},
		MarkedBy: 1,
	}))

	marks, err := svc.AttendanceFor(ctx, []uint{a.ID, b.ID}, []uint{ses})
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, "late", marks[academy.PairKey{StudentID: a.ID, SessionID: ses}].Status)
}

func TestSaveBatchEmptyClearsSession(t *testing.T) {
	db := openTestDB(t)
	svc := academy.NewService(db)
	ctx := context.Background()

	st := newStudent(t, db, "Dina", "Level One")
	ses := sessionID(t, db, "Level One", 1)

	require.NoError(t, svc.SetMark(ctx, st.ID, ses, "present", "", 1))

	// no entries, but the session is named as touched: its column clears
	require.NoError(t, svc.SaveBatch(ctx, academy.Batch{
		TouchedSessionIDs: []uint{ses},
		MarkedBy:          1,
	}))

	marks, err := svc.AttendanceFor(ctx, []uint{st.ID}, []uint{ses})
	require.NoError(t, err)
	assert.Empty(t, marks)
}

func TestSaveBatchLeavesOtherSessionsAlone(t *testing.T) {
	db := openTestDB(t)
	svc := academy.NewService(db)
	ctx := context.Background()

	st := newStudent(t, db, "Fadi", "Level One")
	ses1 := sessionID(t, db, "Level One", 1)
	ses2 := sessionID(t, db, "Level One", 2)

	require.NoError(t, svc.SetMark(ctx, st.ID, ses2, "excused", "", 1))

	require.NoError(t, svc.SaveBatch(ctx, academy.Batch{
		Entries: []academy.BatchEntry{
			{StudentID: st.ID, SessionID: ses1, Outcome: "present"},
		},
		MarkedBy: 1,
	}))

	marks, err := svc.AttendanceFor(ctx, []uint{st.ID}, []uint{ses1, ses2})
	require.NoError(t, err)
	require.Len(t, marks, 2)
	assert.Equal(t, "excused", marks[academy.PairKey{StudentID: st.ID, SessionID: ses2}].Status)
}

func TestSaveBatchStampsDates(t *testing.T) {
	db := openTestDB(t)
	svc := academy.NewService(db)
	ctx := context.Background()

	st := newStudent(t, db, "Ghada", "Level One")
	ses1 := sessionID(t, db, "Level One", 1)
	ses2 := sessionID(t, db, "Level One", 2)

	// live save: every touched session stamped with today
	require.NoError(t, svc.SaveBatch(ctx, academy.Batch{
		Entries: []academy.BatchEntry{
			{StudentID: st.ID, SessionID: ses1, Outcome: "present"},
		},
		MarkedBy: 1,
	}))
	today := time.Now().Format("2006-01-02")
	var s1 models.Session
	require.NoError(t, db.First(&s1, ses1).Error)
	assert.Equal(t, today, s1.SessionDate)

	// backdated save: only the listed session gets its date set
	require.NoError(t, svc.SaveBatch(ctx, academy.Batch{
		Entries: []academy.BatchEntry{
			{StudentID: st.ID, SessionID: ses2, Outcome: "present"},
		},
		SessionDates: map[uint]string{ses2: "2026-03-15"},
		MarkedBy:     1,
	}))
	var s2 models.Session
	require.NoError(t, db.First(&s2, ses2).Error)
	assert.Equal(t, "2026-03-15", s2.SessionDate)

	require.NoError(t, db.First(&s1, ses1).Error)
	assert.Equal(t, today, s1.SessionDate)
}

func TestSaveBatchValidation(t *testing.T) {
	db := openTestDB(t)
	svc := academy.NewService(db)
	ctx := context.Background()

	st := newStudent(t, db, "Hadi", "Level One")
	ses := sessionID(t, db, "Level One", 1)

	err := svc.SaveBatch(ctx, academy.Batch{
		Entries: []academy.BatchEntry{{StudentID: st.ID, SessionID: ses, Outcome: "partied"}},
	})
	assert.ErrorIs(t, err, academy.ErrInvalidArgument)

	err = svc.SaveBatch(ctx, academy.Batch{
		Entries: []academy.BatchEntry{{StudentID: 9999, SessionID: ses, Outcome: "present"}},
	})
	assert.ErrorIs(t, err, academy.ErrNotFound)

	err = svc.SaveBatch(ctx, academy.Batch{
		Entries: []academy.BatchEntry{{StudentID: st.ID, SessionID: 9999, Outcome: "present"}},
	})
	assert.ErrorIs(t, err, academy.ErrNotFound)

	err = svc.SaveBatch(ctx, academy.Batch{
		Entries:      []academy.BatchEntry{{StudentID: st.ID, SessionID: ses, Outcome: "present"}},
		SessionDates: map[uint]string{ses: "15/03/2026"},
	})
	assert.ErrorIs(t, err, academy.ErrInvalidArgument)

	// nothing was applied by the failed batches
	marks, err := svc.AttendanceFor(ctx, []uint{st.ID}, []uint{ses})
	require.NoError(t, err)
	assert.Empty(t, marks)
}

func TestSaveBatchRejectsZeroIDs(t *testing.T) {
	db := openTestDB(t)
	svc := academy.NewService(db)
	ctx := context.Background()

	st := newStudent(t, db, "Karim", "Level One")
	ses := sessionID(t, db, "Level One", 1)

	// a zero session id alongside valid entries fails the whole batch
	err := svc.SaveBatch(ctx, academy.Batch{
		Entries: []academy.BatchEntry{
			{StudentID: st.ID, SessionID: ses, Outcome: "present"},
			{StudentID: st.ID, SessionID: 0, Outcome: "present"},
		},
	})
	assert.ErrorIs(t, err, academy.ErrNotFound)

	// a batch holding only zero-id entries is rejected, not a no-op
	err = svc.SaveBatch(ctx, academy.Batch{
		Entries: []academy.BatchEntry{
			{StudentID: st.ID, SessionID: 0, Outcome: "present"},
		},
	})
	assert.ErrorIs(t, err, academy.ErrNotFound)

	err = svc.SaveBatch(ctx, academy.Batch{
		Entries: []academy.BatchEntry{
			{StudentID: 0, SessionID: ses, Outcome: "present"},
		},
	})
	assert.ErrorIs(t, err, academy.ErrNotFound)

	// nothing was written, for session 0 or anything else
	var total int64
	require.NoError(t, db.Model(&models.Attendance{}).Count(&total).Error)
	assert.Equal(t, int64(0), total)
}

func TestSaveBatchNothingTouched(t *testing.T) {
	db := openTestDB(t)
	svc := academy.NewService(db)

	require.NoError(t, svc.SaveBatch(context.Background(), academy.Batch{}))
}
