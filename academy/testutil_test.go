package academy_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/omarhassan900/wattar-academy/database"
	"github.com/omarhassan900/wattar-academy/models"
)

// openTestDB gives each test its own in-memory database with the full
// schema applied and sessions/categories seeded.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newStudent(t *testing.T, db *gorm.DB, name, level string) models.Student {
	t.Helper()
	s := models.Student{
		Name:         name,
		StartDate:    "2026-01-10",
		CurrentLevel: level,
		Status:       "active",
		Instrument:   "Oud",
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func sessionID(t *testing.T, db *gorm.DB, level string, number int) uint {
	t.Helper()
	var s models.Session
	require.NoError(t, db.Where("level = ? AND session_number = ?", level, number).First(&s).Error)
	return s.ID
}
