package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/omarhassan900/wattar-academy/academy"
	"github.com/omarhassan900/wattar-academy/models"
)

type StudentHandler struct {
	db  *gorm.DB
	svc *academy.Service
}

func NewStudentHandler(db *gorm.DB, svc *academy.Service) *StudentHandler {
	return &StudentHandler{db: db, svc: svc}
}

type studentPayload struct {
	Name         string `json:"name" validate:"required,max=100"`
	NationalID   string `json:"national_id" validate:"omitempty,max=20"`
	Phone        string `json:"phone" validate:"omitempty,max=20"`
	ParentPhone  string `json:"parent_phone" validate:"omitempty,max=20"`
	Email        string `json:"email" validate:"omitempty,email,max=100"`
	StartDate    string `json:"start_date" validate:"required,datetime=2006-01-02"`
	CurrentLevel string `json:"current_level" validate:"omitempty"`
	Status       string `json:"status" validate:"omitempty,oneof=active inactive graduated"`
	Instrument   string `json:"instrument" validate:"omitempty,max=50"`
	AgeGroup     string `json:"age_group" validate:"omitempty,oneof=kids teenagers adults"`

	DateOfBirth      string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact" validate:"omitempty,max=100"`
	EmergencyPhone   string `json:"emergency_phone" validate:"omitempty,max=20"`
	Notes            string `json:"notes"`

	TrainerID *uint `json:"trainer_id"`
}

func (p *studentPayload) normalize() {
	trim := strings.TrimSpace
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.NationalID = trim(p.NationalID)
	p.Phone = trim(p.Phone)
	p.ParentPhone = trim(p.ParentPhone)
	p.Email = strings.ToLower(trim(p.Email))
	p.StartDate = trim(p.StartDate)
	p.CurrentLevel = trim(p.CurrentLevel)
	p.Status = trim(p.Status)
	p.Instrument = trim(p.Instrument)
	p.AgeGroup = trim(p.AgeGroup)
	p.DateOfBirth = trim(p.DateOfBirth)
	p.EmergencyContact = trim(p.EmergencyContact)
	p.EmergencyPhone = trim(p.EmergencyPhone)
}

// checkNationalID rejects a national id already held by another active
// student. Empty ids never collide.
func (h *StudentHandler) checkNationalID(nationalID string, excludeID uint) error {
	if nationalID == "" {
		return nil
	}
	var n int64
	err := h.db.Model(&models.Student{}).
		Where("national_id = ? AND status = ? AND id <> ?", nationalID, "active", excludeID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return academy.ErrConflict
	}
	return nil
}

// GET /students?search=&level=&instrument=&status=&page=
// Trainers only see students assigned to them.
func (h *StudentHandler) List(c echo.Context) error {
	page := atoiOr(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := 20
	offset := (page - 1) * limit

	tx := h.db.Model(&models.Student{})
	if s := strings.TrimSpace(c.QueryParam("search")); s != "" {
		tx = tx.Where("name LIKE ?", "%"+s+"%")
	}
	if lvl := strings.TrimSpace(c.QueryParam("level")); lvl != "" {
		tx = tx.Where("current_level = ?", lvl)
	}
	if ins := strings.TrimSpace(c.QueryParam("instrument")); ins != "" {
		tx = tx.Where("instrument = ?", ins)
	}
	if st := strings.TrimSpace(c.QueryParam("status")); st != "" {
		tx = tx.Where("status = ?", st)
	} else {
		tx = tx.Where("status = ?", "active")
	}
	// students.trainer_id holds the assigned trainer's user id
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

	return c.JSON(http.StatusOK, map[string]any{
		"students":    students,
		"total":       total,
		"page":        page,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
	})
}

// GET /students/:id
func (h *StudentHandler) Get(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	tx := h.db
	if currentRole(c) == "trainer" {
		tx = tx.Where("trainer_id = ?", currentUserID(c))
	}
	var s models.Student
	if err := tx.First(&s, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, s)
}

// POST /students
func (h *StudentHandler) Create(c echo.Context) error {
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if fields := validatePayload(&p); fields != nil {
		return validationError(c, fields)
	}
	if p.CurrentLevel == "" {
		p.CurrentLevel = academy.Levels[0]
	}
	if err := academy.CheckLevel(p.CurrentLevel); err != nil {
		return domainError(c, err)
	}
	if err := h.checkNationalID(p.NationalID, 0); err != nil {
		return domainError(c, err)
	}
	if p.Status == "" {
		p.Status = "active"
	}

	s := models.Student{
		Name:             p.Name,
		NationalID:       p.NationalID,
		Phone:            p.Phone,
		ParentPhone:      p.ParentPhone,
		Email:            p.Email,
		StartDate:        p.StartDate,
		CurrentLevel:     p.CurrentLevel,
		Status:           p.Status,
		Instrument:       p.Instrument,
		AgeGroup:         p.AgeGroup,
		DateOfBirth:      p.DateOfBirth,
		Address:          p.Address,
		EmergencyContact: p.EmergencyContact,
		EmergencyPhone:   p.EmergencyPhone,
		Notes:            p.Notes,
		TrainerID:        p.TrainerID,
	}
	if err := h.db.Create(&s).Error; err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// PUT /students/:id
func (h *StudentHandler) Update(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var s models.Student
	if err := h.db.First(&s, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}

	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if fields := validatePayload(&p); fields != nil {
		return validationError(c, fields)
	}
	if p.CurrentLevel == "" {
		p.CurrentLevel = s.CurrentLevel
	}
	if err := academy.CheckLevel(p.CurrentLevel); err != nil {
		return domainError(c, err)
	}
	if err := h.checkNationalID(p.NationalID, id); err != nil {
		return domainError(c, err)
	}
	if p.Status == "" {
		p.Status = s.Status
	}

	s.Name = p.Name
	s.NationalID = p.NationalID
	s.Phone = p.Phone
	s.ParentPhone = p.ParentPhone
	s.Email = p.Email
	s.StartDate = p.StartDate
	s.CurrentLevel = p.CurrentLevel
	s.Status = p.Status
	s.Instrument = p.Instrument
	s.AgeGroup = p.AgeGroup
	s.DateOfBirth = p.DateOfBirth
	s.Address = p.Address
	s.EmergencyContact = p.EmergencyContact
	s.EmergencyPhone = p.EmergencyPhone
	s.Notes = p.Notes
	s.TrainerID = p.TrainerID

	if err := h.db.Save(&s).Error; err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// DELETE /students/:id — soft delete; the row stays for attendance and
// ledger history.
func (h *StudentHandler) Delete(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	res := h.db.Model(&models.Student{}).Where("id = ?", id).Update("status", "inactive")
	if res.Error != nil {
		return domainError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

type setLevelReq struct {
	Level string `json:"level" validate:"required"`
}

// PUT /students/:id/level — moves the student to another level and
// returns the new level's sessions with the student's (typically empty)
// marks. Marks recorded under the old level are left alone.
func (h *StudentHandler) SetLevel(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var req setLevelReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if fields := validatePayload(&req); fields != nil {
		return validationError(c, fields)
	}

	ctx := c.Request().Context()
	sessions, err := h.svc.SetStudentLevel(ctx, id, strings.TrimSpace(req.Level))
	if err != nil {
		return domainError(c, err)
	}

	sessionIDs := make([]uint, len(sessions))
	for i, s := range sessions {
		sessionIDs[i] = s.ID
	}
	marks, err := h.svc.AttendanceFor(ctx, []uint{id}, sessionIDs)
	if err != nil {
		return domainError(c, err)
	}

	type sessRow struct {
		SessionID     uint   `json:"session_id"`
		SessionNumber int    `json:"session_number"`
		SessionDate   string `json:"session_date"`
		Status        string `json:"attendance_status"`
	}
	rows := make([]sessRow, len(sessions))
	for i, s := range sessions {
		row := sessRow{SessionID: s.ID, SessionNumber: s.SessionNumber, SessionDate: s.SessionDate}
		if m, ok := marks[academy.PairKey{StudentID: id, SessionID: s.ID}]; ok {
			row.Status = m.Status
		}
		rows[i] = row
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "sessions": rows})
}
