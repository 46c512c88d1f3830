package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/omarhassan900/wattar-academy/models"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

type userView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

func toUserView(u models.User) userView {
	return userView{ID: u.ID, Username: u.Username, FullName: u.FullName, Role: u.Role, Status: u.Status}
}

// GET /users
func (h *UserHandler) List(c echo.Context) error {
	var users []models.User
	if err := h.db.Order("username").Find(&users).Error; err != nil {
		return domainError(c, err)
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	return c.JSON(http.StatusOK, views)
}

type createUserPayload struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Role     string `json:"role" validate:"required,oneof=manager reception trainer"`
}

// POST /users
func (h *UserHandler) Create(c echo.Context) error {
	var p createUserPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.Username = strings.ToLower(strings.TrimSpace(p.Username))
	p.FullName = strings.TrimSpace(p.FullName)
	if fields := validatePayload(&p); fields != nil {
		return validationError(c, fields)
	}

	var dup models.User
	if err := h.db.Where("username = ?", p.Username).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "USERNAME_EXISTS"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return domainError(c, err)
	}

	user := models.User{
		Username:     p.Username,
		PasswordHash: string(hash),
		FullName:     p.FullName,
		Role:         p.Role,
		Status:       "active",
	}
	if err := h.db.Create(&user).Error; err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, toUserView(user))
}

type updateUserPayload struct {
	Password string `json:"password" validate:"omitempty,min=6,max=72"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Role     string `json:"role" validate:"required,oneof=manager reception trainer"`
	Status   string `json:"status" validate:"required,oneof=active inactive"`
}

// PUT /users/:id
func (h *UserHandler) Update(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}

	var p updateUserPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.FullName = strings.TrimSpace(p.FullName)
	if fields := validatePayload(&p); fields != nil {
		return validationError(c, fields)
	}

	user.FullName = p.FullName
	user.Role = p.Role
	user.Status = p.Status
	if p.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
		if err != nil {
			return domainError(c, err)
		}
		user.PasswordHash = string(hash)
	}

	if err := h.db.Save(&user).Error; err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, toUserView(user))
}

// DELETE /users/:id — the seeded admin account cannot be removed.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	if id == 1 {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "PROTECTED_USER"})
	}
	res := h.db.Delete(&models.User{}, id)
	if res.Error != nil {
		return domainError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
