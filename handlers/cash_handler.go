package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/omarhassan900/wattar-academy/models"
)

type CashHandler struct {
	db *gorm.DB
}

func NewCashHandler(db *gorm.DB) *CashHandler {
	return &CashHandler{db: db}
}

type cashPayload struct {
	TransactionDate string  `json:"transaction_date" validate:"required,datetime=2006-01-02"`
	Type            string  `json:"type" validate:"required,oneof=income expense"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	CategoryCode    string  `json:"category_code" validate:"required,max=10"`
	Description     string  `json:"description"`
	PaymentMethod   string  `json:"payment_method" validate:"omitempty,oneof=cash card bank_transfer other"`
	ReferenceNumber string  `json:"reference_number" validate:"omitempty,max=40"`
}

func (p *cashPayload) normalize() {
	trim := strings.TrimSpace
	p.TransactionDate = trim(p.TransactionDate)
	p.Type = trim(p.Type)
	p.CategoryCode = strings.ToUpper(trim(p.CategoryCode))
	p.PaymentMethod = trim(p.PaymentMethod)
	p.ReferenceNumber = trim(p.ReferenceNumber)
}

func (h *CashHandler) checkCategory(code string) error {
	var n int64
	err := h.db.Model(&models.CashCategory{}).
		Where("code = ? AND is_active = ?", code, true).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "UNKNOWN_CATEGORY"})
	}
	return nil
}

// GET /cash — all transactions, newest first, with running totals.
func (h *CashHandler) List(c echo.Context) error {
	type txRow struct {
		models.CashTransaction
		CategoryName string `json:"category_name"`
		CategoryType string `json:"category_type"`
	}
	var rows []txRow
	err := h.db.Table("cash_transactions ct").
		Select("ct.*, cc.name AS category_name, cc.type AS category_type").
		Joins("LEFT JOIN cash_categories cc ON ct.category_code = cc.code").
		Order("ct.transaction_date DESC, ct.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return domainError(c, err)
	}

	var income, expense float64
	for _, r := range rows {
		switch r.Type {
		case "income":
			income += r.Amount
		case "expense":
			expense += r.Amount
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"transactions":  rows,
		"total_income":  income,
		"total_expense": expense,
		"balance":       income - expense,
	})
}

// POST /cash
func (h *CashHandler) Create(c echo.Context) error {
	var p cashPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if fields := validatePayload(&p); fields != nil {
		return validationError(c, fields)
	}
	if err := h.checkCategory(p.CategoryCode); err != nil {
		return err
	}
	if p.ReferenceNumber == "" {
		p.ReferenceNumber = uuid.NewString()
	}

	rec := models.CashTransaction{
		TransactionDate: p.TransactionDate,
		Type:            p.Type,
		Amount:          p.Amount,
		CategoryCode:    p.CategoryCode,
		Description:     p.Description,
		PaymentMethod:   p.PaymentMethod,
		ReferenceNumber: p.ReferenceNumber,
		CreatedBy:       currentUserID(c),
	}
	if err := h.db.Create(&rec).Error; err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// PUT /cash/:id
func (h *CashHandler) Update(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var rec models.CashTransaction
	if err := h.db.First(&rec, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}

	var p cashPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if fields := validatePayload(&p); fields != nil {
		return validationError(c, fields)
	}
	if err := h.checkCategory(p.CategoryCode); err != nil {
		return err
	}

	rec.TransactionDate = p.TransactionDate
	rec.Type = p.Type
	rec.Amount = p.Amount
	rec.CategoryCode = p.CategoryCode
	rec.Description = p.Description
	rec.PaymentMethod = p.PaymentMethod
	if p.ReferenceNumber != "" {
		rec.ReferenceNumber = p.ReferenceNumber
	}

	if err := h.db.Save(&rec).Error; err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// DELETE /cash/:id
func (h *CashHandler) Delete(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	res := h.db.Delete(&models.CashTransaction{}, id)
	if res.Error != nil {
		return domainError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// GET /cash/categories
func (h *CashHandler) Categories(c echo.Context) error {
	var cats []models.CashCategory
	err := h.db.Where("is_active = ?", true).
		Order("type, name").
		Find(&cats).Error
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, cats)
}

type categoryPayload struct {
	Code string `json:"code" validate:"required,max=10"`
	Name string `json:"name" validate:"required,max=100"`
	Type string `json:"type" validate:"required,oneof=income expense"`
}

// POST /cash/categories
func (h *CashHandler) CreateCategory(c echo.Context) error {
	var p categoryPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	p.Name = strings.TrimSpace(p.Name)
	if fields := validatePayload(&p); fields != nil {
		return validationError(c, fields)
	}

	var dup models.CashCategory
	if err := h.db.Where("code = ?", p.Code).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "CODE_EXISTS"})
	}

	cat := models.CashCategory{Code: p.Code, Name: p.Name, Type: p.Type, IsActive: true}
	if err := h.db.Create(&cat).Error; err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, cat)
}
