package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/omarhassan900/wattar-academy/academy"
	"github.com/omarhassan900/wattar-academy/models"
)

type ClassHandler struct {
	db *gorm.DB
}

func NewClassHandler(db *gorm.DB) *ClassHandler {
	return &ClassHandler{db: db}
}

type classPayload struct {
	Name            string `json:"name" validate:"required,max=100"`
	Level           string `json:"level" validate:"required"`
	TrainerID       *uint  `json:"trainer_id"`
	ScheduleDay     string `json:"schedule_day" validate:"omitempty,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	ScheduleTime    string `json:"schedule_time" validate:"omitempty,datetime=15:04"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,gte=15,lte=240"`
	MaxStudents     int    `json:"max_students" validate:"omitempty,gte=1,lte=50"`
	Status          string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (p *classPayload) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Level = strings.TrimSpace(p.Level)
	p.ScheduleDay = strings.TrimSpace(p.ScheduleDay)
	p.ScheduleTime = strings.TrimSpace(p.ScheduleTime)
}

// GET /classes
func (h *ClassHandler) List(c echo.Context) error {
	type classRow struct {
		models.Class
		TrainerName  string `json:"trainer_name"`
		StudentCount int64  `json:"student_count"`
	}
	var rows []classRow
	err := h.db.Table("classes cl").
		Select(`cl.*, COALESCE(u.full_name, '') AS trainer_name,
			(SELECT COUNT(*) FROM student_classes sc WHERE sc.class_id = cl.id AND sc.status = 'active') AS student_count`).
		Joins("LEFT JOIN trainers t ON t.id = cl.trainer_id").
		Joins("LEFT JOIN users u ON u.id = t.user_id").
		Where("cl.status = ?", "active").
		Order("cl.level, cl.name").
		Scan(&rows).Error
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /classes/:id
func (h *ClassHandler) Get(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var class models.Class
	if err := h.db.First(&class, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	var students []models.Student
	err = h.db.Table("students s").
		Select("s.*").
		Joins("JOIN student_classes sc ON sc.student_id = s.id").
		Where("sc.class_id = ? AND sc.status = ?", id, "active").
		Order("s.name").
		Scan(&students).Error
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"class": class, "students": students})
}

// POST /classes
func (h *ClassHandler) Create(c echo.Context) error {
	var p classPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if fields := validatePayload(&p); fields != nil {
		return validationError(c, fields)
	}
	if err := academy.CheckLevel(p.Level); err != nil {
		return domainError(c, err)
	}
	if p.TrainerID != nil {
		var trainer models.Trainer
		if err := h.db.First(&trainer, *p.TrainerID).Error; err != nil {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "TRAINER_NOT_FOUND"})
		}
	}

	if p.Status == "" {
		p.Status = "active"
	}
	if p.DurationMinutes == 0 {
		p.DurationMinutes = 60
	}
	if p.MaxStudents == 0 {
		p.MaxStudents = 10
	}
	class := models.Class{
		Name:            p.Name,
		Level:           p.Level,
		TrainerID:       p.TrainerID,
		ScheduleDay:     p.ScheduleDay,
		ScheduleTime:    p.ScheduleTime,
		DurationMinutes: p.DurationMinutes,
		MaxStudents:     p.MaxStudents,
		Status:          p.Status,
	}
	if err := h.db.Create(&class).Error; err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, class)
}

// PUT /classes/:id
func (h *ClassHandler) Update(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var class models.Class
	if err := h.db.First(&class, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}

	var p classPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if fields := validatePayload(&p); fields != nil {
		return validationError(c, fields)
	}
	if err := academy.CheckLevel(p.Level); err != nil {
		return domainError(c, err)
	}
	if p.TrainerID != nil {
		var trainer models.Trainer
		if err := h.db.First(&trainer, *p.TrainerID).Error; err != nil {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "TRAINER_NOT_FOUND"})
		}
	}

	class.Name = p.Name
	class.Level = p.Level
	class.TrainerID = p.TrainerID
	class.ScheduleDay = p.ScheduleDay
	class.ScheduleTime = p.ScheduleTime
	if p.DurationMinutes != 0 {
		class.DurationMinutes = p.DurationMinutes
	}
	if p.MaxStudents != 0 {
		class.MaxStudents = p.MaxStudents
	}
	if p.Status != "" {
		class.Status = p.Status
	}

	if err := h.db.Save(&class).Error; err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, class)
}

// DELETE /classes/:id — deactivates and drops active enrollments.
func (h *ClassHandler) Delete(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	err = h.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Class{}).Where("id = ?", id).Update("status", "inactive")
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.StudentClass{}).
			Where("class_id = ? AND status = ?", id, "active").
			Update("status", "dropped").Error
	})
	if err == gorm.ErrRecordNotFound {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

type enrollPayload struct {
	StudentID uint `json:"student_id" validate:"required"`
}

// POST /classes/:id/students
func (h *ClassHandler) Enroll(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var p enrollPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if fields := validatePayload(&p); fields != nil {
		return validationError(c, fields)
	}

	var class models.Class
	if err := h.db.First(&class, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	var student models.Student
	if err := h.db.First(&student, p.StudentID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}

	var dup models.StudentClass
	if err := h.db.Where("student_id = ? AND class_id = ?", p.StudentID, id).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "ALREADY_ENROLLED"})
	}

	var enrolled int64
	if err := h.db.Model(&models.StudentClass{}).
		Where("class_id = ? AND status = ?", id, "active").
		Count(&enrolled).Error; err != nil {
		return domainError(c, err)
	}
	if int(enrolled) >= class.MaxStudents {
		return c.JSON(http.StatusConflict, map[string]any{"error": "CLASS_FULL"})
	}

	enrollment := models.StudentClass{
		StudentID:      p.StudentID,
		ClassID:        id,
		EnrollmentDate: time.Now().Format("2006-01-02"),
		Status:         "active",
	}
	if err := h.db.Create(&enrollment).Error; err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, enrollment)
}

// DELETE /classes/:id/students/:studentID
func (h *ClassHandler) Unenroll(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	studentID, err := uintParam(c, "studentID")
	if err != nil {
		return err
	}
	res := h.db.Model(&models.StudentClass{}).
		Where("class_id = ? AND student_id = ? AND status = ?", id, studentID, "active").
		Update("status", "dropped")
	if res.Error != nil {
		return domainError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
