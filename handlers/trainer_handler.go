package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/omarhassan900/wattar-academy/models"
)

type TrainerHandler struct {
	db *gorm.DB
}

func NewTrainerHandler(db *gorm.DB) *TrainerHandler {
	return &TrainerHandler{db: db}
}

type trainerPayload struct {
	UserID         uint    `json:"user_id" validate:"required"`
	Specialization string  `json:"specialization" validate:"required,max=100"`
	HourlyRate     float64 `json:"hourly_rate" validate:"omitempty,gte=0"`
	HireDate       string  `json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
	Status         string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

// GET /trainers
func (h *TrainerHandler) List(c echo.Context) error {
	type trainerRow struct {
		models.Trainer
		Name         string `json:"name"`
		Username     string `json:"username"`
		StudentCount int64  `json:"student_count"`
	}
	var rows []trainerRow
	err := h.db.Table("trainers t").
		Select(`t.*, u.full_name AS name, u.username,
			(SELECT COUNT(*) FROM students s WHERE s.trainer_id = t.user_id AND s.status = 'active') AS student_count`).
		Joins("JOIN users u ON u.id = t.user_id").
		Order("u.full_name").
		Scan(&rows).Error
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /trainers/:id
func (h *TrainerHandler) Get(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var trainer models.Trainer
	if err := h.db.First(&trainer, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	var user models.User
	if err := h.db.First(&user, trainer.UserID).Error; err != nil {
		return domainError(c, err)
	}
	var students []models.Student
	if err := h.db.Where("trainer_id = ? AND status = ?", trainer.UserID, "active").
		Order("name").Find(&students).Error; err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"trainer":  trainer,
		"name":     user.FullName,
		"username": user.Username,
		"students": students,
	})
}

// POST /trainers — attach a trainer profile to an existing trainer-role user.
func (h *TrainerHandler) Create(c echo.Context) error {
	var p trainerPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.Specialization = strings.TrimSpace(p.Specialization)
	if fields := validatePayload(&p); fields != nil {
		return validationError(c, fields)
	}

	var user models.User
	if err := h.db.First(&user, p.UserID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "USER_NOT_FOUND"})
	}
	if user.Role != "trainer" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "NOT_A_TRAINER_USER"})
	}
	var dup models.Trainer
	if err := h.db.Where("user_id = ?", p.UserID).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "TRAINER_EXISTS"})
	}

	if p.Status == "" {
		p.Status = "active"
	}
	trainer := models.Trainer{
		UserID:         p.UserID,
		Specialization: p.Specialization,
		HourlyRate:     p.HourlyRate,
		HireDate:       p.HireDate,
		Status:         p.Status,
	}
	if err := h.db.Create(&trainer).Error; err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, trainer)
}

// PUT /trainers/:id
func (h *TrainerHandler) Update(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var trainer models.Trainer
	if err := h.db.First(&trainer, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}

	var p trainerPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.UserID = trainer.UserID // binding may not carry it; the link is immutable
	p.Specialization = strings.TrimSpace(p.Specialization)
	if fields := validatePayload(&p); fields != nil {
		return validationError(c, fields)
	}

	trainer.Specialization = p.Specialization
	trainer.HourlyRate = p.HourlyRate
	trainer.HireDate = p.HireDate
	if p.Status != "" {
		trainer.Status = p.Status
	}

	if err := h.db.Save(&trainer).Error; err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, trainer)
}

// DELETE /trainers/:id — deactivates; assigned students keep their link.
func (h *TrainerHandler) Delete(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	res := h.db.Model(&models.Trainer{}).Where("id = ?", id).Update("status", "inactive")
	if res.Error != nil {
		return domainError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
