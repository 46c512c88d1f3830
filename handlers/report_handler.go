package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/omarhassan900/wattar-academy/models"
)

type ReportHandler struct {
	db *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{db: db}
}

// GET /reports/attendance
// Per-student attendance totals over the sessions of their current
// level, best rate first.
func (h *ReportHandler) Attendance(c echo.Context) error {
	type studentStat struct {
		ID              uint    `json:"id"`
		Name            string  `json:"name"`
		CurrentLevel    string  `json:"current_level"`
		Instrument      string  `json:"instrument"`
		StartDate       string  `json:"start_date"`
		TotalSessions   int64   `json:"total_sessions"`
		PresentSessions int64   `json:"present_sessions"`
		AbsentSessions  int64   `json:"absent_sessions"`
		AttendanceRate  float64 `json:"attendance_rate"`
	}

	var stats []studentStat
	err := h.db.Table("students st").
		Select(`st.id, st.name, st.current_level, st.instrument, st.start_date,
			COUNT(DISTINCT s.id) AS total_sessions,
			COUNT(CASE WHEN a.status = 'present' THEN 1 END) AS present_sessions,
			COUNT(CASE WHEN a.status = 'absent' THEN 1 END) AS absent_sessions`).
		Joins("LEFT JOIN sessions s ON s.level = st.current_level").
		Joins("LEFT JOIN attendance a ON a.student_id = st.id AND a.session_id = s.id").
		Where("st.status = ?", "active").
		Group("st.id, st.name, st.current_level, st.instrument, st.start_date").
		Scan(&stats).Error
	if err != nil {
		return domainError(c, err)
	}

	var totalMarked, totalPresent int64
	for i := range stats {
		marked := stats[i].PresentSessions + stats[i].AbsentSessions
		if marked > 0 {
			stats[i].AttendanceRate = float64(stats[i].PresentSessions) * 100 / float64(marked)
		}
		totalMarked += marked
		totalPresent += stats[i].PresentSessions
	}

	return c.JSON(http.StatusOK, map[string]any{
		"students":      stats,
		"total_marked":  totalMarked,
		"total_present": totalPresent,
	})
}

// GET /reports/dashboard
// Headline numbers the landing page shows: body counts, distribution by
// level and instrument, a 30-day attendance rate and the ledger totals.
func (h *ReportHandler) Dashboard(c echo.Context) error {
	counts := map[string]int64{}
	countInto := func(key string, tx *gorm.DB) error {
		var n int64
		if err := tx.Count(&n).Error; err != nil {
			return err
		}
		counts[key] = n
		return nil
	}

	if err := countInto("total_students", h.db.Model(&models.Student{}).Where("status = ?", "active")); err != nil {
		return domainError(c, err)
	}
	if err := countInto("inactive_students", h.db.Model(&models.Student{}).Where("status = ?", "inactive")); err != nil {
		return domainError(c, err)
	}
	if err := countInto("graduated_students", h.db.Model(&models.Student{}).Where("status = ?", "graduated")); err != nil {
		return domainError(c, err)
	}
	if err := countInto("total_classes", h.db.Model(&models.Class{}).Where("status = ?", "active")); err != nil {
		return domainError(c, err)
	}
	if err := countInto("total_trainers", h.db.Model(&models.Trainer{}).Where("status = ?", "active")); err != nil {
		return domainError(c, err)
	}

	type levelCount struct {
		CurrentLevel string `json:"current_level"`
		Count        int64  `json:"count"`
	}
	var byLevel []levelCount
	err := h.db.Model(&models.Student{}).
		Select("current_level, COUNT(*) AS count").
		Where("status = ?", "active").
		Group("current_level").
		Order("current_level").
		Scan(&byLevel).Error
	if err != nil {
		return domainError(c, err)
	}

	type instrumentCount struct {
		Instrument string `json:"instrument"`
		Count      int64  `json:"count"`
	}
	var byInstrument []instrumentCount
	err = h.db.Model(&models.Student{}).
		Select("instrument, COUNT(*) AS count").
		Where("status = ? AND instrument <> ''", "active").
		Group("instrument").
		Order("count DESC").
		Limit(5).
		Scan(&byInstrument).Error
	if err != nil {
		return domainError(c, err)
	}

	// attendance rate over sessions dated in the last 30 days;
	// YYYY-MM-DD strings compare correctly
	cutoff := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	type rateRow struct {
		PresentCount int64
		TotalRecords int64
	}
	var rate rateRow
	err = h.db.Table("attendance a").
		Select(`COUNT(CASE WHEN a.status = 'present' THEN 1 END) AS present_count,
			COUNT(*) AS total_records`).
		Joins("JOIN sessions s ON a.session_id = s.id").
		Where("s.session_date >= ?", cutoff).
		Scan(&rate).Error
	if err != nil {
		return domainError(c, err)
	}
	attendancePct := 0
	if rate.TotalRecords > 0 {
		attendancePct = int(rate.PresentCount * 100 / rate.TotalRecords)
	}

	type financeRow struct {
		Type  string
		Total float64
	}
	var finance []financeRow
	err = h.db.Model(&models.CashTransaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Group("type").
		Scan(&finance).Error
	if err != nil {
		return domainError(c, err)
	}
	var income, expense float64
	for _, f := range finance {
		switch f.Type {
		case "income":
			income = f.Total
		case "expense":
			expense = f.Total
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"stats":                  counts,
		"students_by_level":      byLevel,
		"students_by_instrument": byInstrument,
		"attendance_percentage":  attendancePct,
		"total_income":           income,
		"total_expense":          expense,
		"balance":                income - expense,
	})
}
