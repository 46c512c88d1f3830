package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/omarhassan900/wattar-academy/academy"
	"github.com/omarhassan900/wattar-academy/models"
)

type AttendanceHandler struct {
	db  *gorm.DB
	svc *academy.Service
}

func NewAttendanceHandler(db *gorm.DB, svc *academy.Service) *AttendanceHandler {
	return &AttendanceHandler{db: db, svc: svc}
}

type gridSession struct {
	SessionID     uint   `json:"session_id"`
	SessionNumber int    `json:"session_number"`
	SessionDate   string `json:"session_date"`
	Status        string `json:"attendance_status"`
	Notes         string `json:"notes"`
}

type gridStudent struct {
	ID           uint          `json:"id"`
	Name         string        `json:"name"`
	Phone        string        `json:"phone"`
	CurrentLevel string        `json:"current_level"`
	Instrument   string        `json:"instrument"`
	Status       string        `json:"status"`
	Sessions     []gridSession `json:"sessions"`
}

// GET /attendance/grid?search=&level=&instrument=&status=&page=
// The marking grid: a page of students, each with their current level's
// sessions and any recorded marks.
func (h *AttendanceHandler) Grid(c echo.Context) error {
	page := atoiOr(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := 20
	offset := (page - 1) * limit

	tx := h.db.Model(&models.Student{}).Where("status = ?", "active")
	if s := strings.TrimSpace(c.QueryParam("search")); s != "" {
		tx = tx.Where("name LIKE ?", "%"+s+"%")
	}
	if lvl := strings.TrimSpace(c.QueryParam("level")); lvl != "" {
		tx = tx.Where("current_level = ?", lvl)
	}
	if ins := strings.TrimSpace(c.QueryParam("instrument")); ins != "" {
		tx = tx.Where("instrument = ?", ins)
	}
	if currentRole(c) == "trainer" {
		tx = tx.Where("trainer_id = ?", currentUserID(c))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return domainError(c, err)
	}
	var students []models.Student
	if err := tx.Order("current_level, name").Limit(limit).Offset(offset).Find(&students).Error; err != nil {
		return domainError(c, err)
	}

	ctx := c.Request().Context()

	// sessions for every level present on this page
	sessionsByLevel := map[string][]models.Session{}
	var studentIDs, sessionIDs []uint
	for _, s := range students {
		studentIDs = append(studentIDs, s.ID)
		if _, ok := sessionsByLevel[s.CurrentLevel]; ok {
			continue
		}
		sessions, err := h.svc.SessionsForLevel(ctx, s.CurrentLevel)
		if err != nil {
			return domainError(c, err)
		}
		sessionsByLevel[s.CurrentLevel] = sessions
		for _, sess := range sessions {
			sessionIDs = append(sessionIDs, sess.ID)
		}
	}

	marks, err := h.svc.AttendanceFor(ctx, studentIDs, sessionIDs)
	if err != nil {
		return domainError(c, err)
	}

	rows := make([]gridStudent, 0, len(students))
	for _, s := range students {
		row := gridStudent{
			ID:           s.ID,
			Name:         s.Name,
			Phone:        s.Phone,
			CurrentLevel: s.CurrentLevel,
			Instrument:   s.Instrument,
			Status:       s.Status,
		}
		for _, sess := range sessionsByLevel[s.CurrentLevel] {
			gs := gridSession{
				SessionID:     sess.ID,
				SessionNumber: sess.SessionNumber,
				SessionDate:   sess.SessionDate,
			}
			if m, ok := marks[academy.PairKey{StudentID: s.ID, SessionID: sess.ID}]; ok {
				gs.Status = m.Status
				gs.Notes = m.Notes
			}
			row.Sessions = append(row.Sessions, gs)
		}
		rows = append(rows, row)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"students":    rows,
		"total":       total,
		"page":        page,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
	})
}

type saveAllReq struct {
	Attendance []struct {
		StudentID uint   `json:"student_id"`
		SessionID uint   `json:"session_id"`
		Status    string `json:"status"`
		Notes     string `json:"notes"`
	} `json:"attendance"`
	// Sessions to replace even when no rows were submitted for them;
	// an empty column clears the session.
	SessionIDs []uint `json:"session_ids"`
	// Backdated corrections carry explicit dates keyed by session id.
	// Absent → live marking, touched sessions stamped with today.
	SessionDates map[string]string `json:"session_dates"`
}

// POST /attendance/save-all
func (h *AttendanceHandler) SaveAll(c echo.Context) error {
	var req saveAllReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if len(req.Attendance) == 0 && len(req.SessionIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "EMPTY_BATCH"})
	}

	batch := academy.Batch{
		TouchedSessionIDs: req.SessionIDs,
		MarkedBy:          currentUserID(c),
	}
	for _, a := range req.Attendance {
		batch.Entries = append(batch.Entries, academy.BatchEntry{
			StudentID: a.StudentID,
			SessionID: a.SessionID,
			Outcome:   a.Status,
			Notes:     a.Notes,
		})
	}
	if req.SessionDates != nil {
		batch.SessionDates = map[uint]string{}
		for k, v := range req.SessionDates {
			id, err := strconv.ParseUint(k, 10, 32)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_SESSION_ID"})
			}
			batch.SessionDates[uint(id)] = v
		}
	}

	if err := h.svc.SaveBatch(c.Request().Context(), batch); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Attendance saved successfully"})
}

type markReq struct {
	StudentID uint   `json:"student_id" validate:"required"`
	SessionID uint   `json:"session_id" validate:"required"`
	Status    string `json:"status" validate:"required"`
	Notes     string `json:"notes"`
}

// POST /attendance/mark — single-cell upsert.
func (h *AttendanceHandler) Mark(c echo.Context) error {
	var req markReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if fields := validatePayload(&req); fields != nil {
		return validationError(c, fields)
	}
	err := h.svc.SetMark(c.Request().Context(), req.StudentID, req.SessionID, req.Status, req.Notes, currentUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

type clearReq struct {
	StudentID uint `json:"student_id" validate:"required"`
	SessionID uint `json:"session_id" validate:"required"`
}

// POST /attendance/clear — clearing an unmarked pair is still success.
func (h *AttendanceHandler) Clear(c echo.Context) error {
	var req clearReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if fields := validatePayload(&req); fields != nil {
		return validationError(c, fields)
	}
	if err := h.svc.ClearMark(c.Request().Context(), req.StudentID, req.SessionID); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Attendance cleared successfully"})
}

// GET /attendance/summary?level=
// Per-session progress per level: marked/present/absent counts against
// the level's active student body.
func (h *AttendanceHandler) Summary(c echo.Context) error {
	selected := strings.TrimSpace(c.QueryParam("level"))

	type sessionStat struct {
		Level         string `json:"level"`
		SessionID     uint   `json:"session_id"`
		SessionNumber int    `json:"session_number"`
		SessionDate   string `json:"session_date"`
		TotalStudents int64  `json:"total_students"`
		MarkedCount   int64  `json:"marked_count"`
		PresentCount  int64  `json:"present_count"`
		AbsentCount   int64  `json:"absent_count"`
	}

	tx := h.db.Table("sessions s").
		Select(`s.level, s.id AS session_id, s.session_number, s.session_date,
			(SELECT COUNT(*) FROM students st WHERE st.current_level = s.level AND st.status = 'active') AS total_students,
			COUNT(a.id) AS marked_count,
			COUNT(CASE WHEN a.status = 'present' THEN 1 END) AS present_count,
			COUNT(CASE WHEN a.status = 'absent' THEN 1 END) AS absent_count`).
		Joins("LEFT JOIN attendance a ON a.session_id = s.id").
		Group("s.id, s.level, s.session_number, s.session_date").
		Order("s.level, s.session_number")
	if selected != "" {
		tx = tx.Where("s.level = ?", selected)
	}

	var stats []sessionStat
	if err := tx.Scan(&stats).Error; err != nil {
		return domainError(c, err)
	}

	byLevel := map[string][]sessionStat{}
	for _, st := range stats {
		byLevel[st.Level] = append(byLevel[st.Level], st)
	}

	type levelSummary struct {
		Level    string        `json:"level"`
		Sessions []sessionStat `json:"sessions"`
	}
	summary := make([]levelSummary, 0, len(byLevel))
	for _, lvl := range academy.Levels {
		if sessions, ok := byLevel[lvl]; ok {
			summary = append(summary, levelSummary{Level: lvl, Sessions: sessions})
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"levels":         summary,
		"selected_level": selected,
	})
}
