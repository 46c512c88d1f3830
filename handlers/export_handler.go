package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/omarhassan900/wattar-academy/academy"
	"github.com/omarhassan900/wattar-academy/models"
)

type ExportHandler struct {
	db  *gorm.DB
	svc *academy.Service
}

func NewExportHandler(db *gorm.DB, svc *academy.Service) *ExportHandler {
	return &ExportHandler{db: db, svc: svc}
}

// GET /export/attendance.csv
//
// One row per active student: identity columns, then one outcome column
// per session number 1..4 (TRUE/FALSE/empty), then one date column per
// session number — the same order the marking grid shows. A session date
// only appears on rows where the student actually has a mark.
func (h *ExportHandler) AttendanceCSV(c echo.Context) error {
	var students []models.Student
	err := h.db.Where("status = ?", "active").
		Order("current_level, name").
		Find(&students).Error
	if err != nil {
		return domainError(c, err)
	}

	var sessions []models.Session
	if err := h.db.Order("level, session_number").Find(&sessions).Error; err != nil {
		return domainError(c, err)
	}
	sessionsByLevel := map[string][]models.Session{}
	for _, s := range sessions {
		sessionsByLevel[s.Level] = append(sessionsByLevel[s.Level], s)
	}

	var studentIDs, sessionIDs []uint
	for _, s := range students {
		studentIDs = append(studentIDs, s.ID)
	}
	for _, s := range sessions {
		sessionIDs = append(sessionIDs, s.ID)
	}
	marks, err := h.svc.AttendanceFor(c.Request().Context(), studentIDs, sessionIDs)
	if err != nil {
		return domainError(c, err)
	}

	var buf bytes.Buffer
	buf.WriteString("\uFEFF") // BOM so Excel opens it as UTF-8
	w := csv.NewWriter(&buf)

	header := []string{"Student Name", "Phone", "Level", "Instrument", "Status"}
	for n := 1; n <= academy.SessionsPerLevel; n++ {
		header = append(header, fmt.Sprintf("Session %d", n))
	}
	for n := 1; n <= academy.SessionsPerLevel; n++ {
		header = append(header, fmt.Sprintf("Session %d Date", n))
	}
	if err := w.Write(header); err != nil {
		return domainError(c, err)
	}

	for _, s := range students {
		row := []string{s.Name, s.Phone, s.CurrentLevel, s.Instrument, s.Status}
		outcomes := make([]string, academy.SessionsPerLevel)
		dates := make([]string, academy.SessionsPerLevel)

		for _, sess := range sessionsByLevel[s.CurrentLevel] {
			idx := sess.SessionNumber - 1
			if idx < 0 || idx >= academy.SessionsPerLevel {
				continue
			}
			m, ok := marks[academy.PairKey{StudentID: s.ID, SessionID: sess.ID}]
			if !ok {
				continue
			}
			switch m.Status {
			case academy.StatusPresent:
				outcomes[idx] = "TRUE"
			case academy.StatusAbsent:
				outcomes[idx] = "FALSE"
			}
			if outcomes[idx] != "" && sess.SessionDate != "" {
				dates[idx] = sess.SessionDate
			}
		}

		row = append(row, outcomes...)
		row = append(row, dates...)
		if err := w.Write(row); err != nil {
			return domainError(c, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return domainError(c, err)
	}

	filename := fmt.Sprintf("attendance_export_%s.csv", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
