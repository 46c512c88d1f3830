package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/omarhassan900/wattar-academy/academy"
	"github.com/omarhassan900/wattar-academy/models"
)

type SessionHandler struct {
	db  *gorm.DB
	svc *academy.Service
}

func NewSessionHandler(db *gorm.DB, svc *academy.Service) *SessionHandler {
	return &SessionHandler{db: db, svc: svc}
}

// GET /sessions?level=Level%20One — defaults to all levels in order.
func (h *SessionHandler) List(c echo.Context) error {
	level := strings.TrimSpace(c.QueryParam("level"))
	if level != "" {
		sessions, err := h.svc.SessionsForLevel(c.Request().Context(), level)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(http.StatusOK, sessions)
	}

	out := map[string][]models.Session{}
	for _, lvl := range academy.Levels {
		sessions, err := h.svc.SessionsForLevel(c.Request().Context(), lvl)
		if err != nil {
			return domainError(c, err)
		}
		out[lvl] = sessions
	}
	return c.JSON(http.StatusOK, out)
}

type sessionDateReq struct {
	SessionDate string `json:"session_date" validate:"required,datetime=2006-01-02"`
}

// PUT /sessions/:id/date — set or correct a session's calendar date.
func (h *SessionHandler) SetDate(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var req sessionDateReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if fields := validatePayload(&req); fields != nil {
		return validationError(c, fields)
	}

	var session models.Session
	if err := h.db.First(&session, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	session.SessionDate = req.SessionDate
	if err := h.db.Save(&session).Error; err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

type sessionStatusReq struct {
	Status string `json:"status" validate:"required,oneof=scheduled completed cancelled"`
}

// PUT /sessions/:id/status
func (h *SessionHandler) SetStatus(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var req sessionStatusReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if fields := validatePayload(&req); fields != nil {
		return validationError(c, fields)
	}

	res := h.db.Model(&models.Session{}).Where("id = ?", id).Update("status", req.Status)
	if res.Error != nil {
		return domainError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
