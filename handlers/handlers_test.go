package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/omarhassan900/wattar-academy/database"
	"github.com/omarhassan900/wattar-academy/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// newRequest builds an echo context carrying an authenticated manager,
// the way the auth middleware would have left it.
func newRequest(t *testing.T, method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", uint(1))
	c.Set("role", "manager")
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func seedStudent(t *testing.T, db *gorm.DB, name, level string) models.Student {
	t.Helper()
	s := models.Student{
		Name:         name,
		StartDate:    "2026-01-10",
		CurrentLevel: level,
		Status:       "active",
		Instrument:   "Piano",
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func firstSession(t *testing.T, db *gorm.DB, level string, number int) models.Session {
	t.Helper()
	var s models.Session
	require.NoError(t, db.Where("level = ? AND session_number = ?", level, number).First(&s).Error)
	return s
}

func itoa(n uint) string {
	return fmt.Sprintf("%d", n)
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	return he.Code
}
