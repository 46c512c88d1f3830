package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/omarhassan900/wattar-academy/academy"
)

var validate = validator.New()

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func uintParam(c echo.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || n == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	return uint(n), nil
}

func currentUserID(c echo.Context) uint {
	id, _ := c.Get("user_id").(uint)
	return id
}

func currentRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

// validatePayload runs struct-tag validation and shapes failures the way
// the API reports them: {"error": "VALIDATION", "fields": {...}}.
func validatePayload(p any) map[string]string {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = "failed " + fe.Tag()
		}
	} else {
		fields["_"] = err.Error()
	}
	return fields
}

func validationError(c echo.Context, fields map[string]string) error {
	return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION", "fields": fields})
}

// domainError translates the attendance core's failure taxonomy into
// HTTP responses.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, academy.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	case errors.Is(err, academy.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ARGUMENT"})
	case errors.Is(err, academy.ErrConflict):
		return c.JSON(http.StatusConflict, map[string]any{"error": "CONFLICT"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORAGE_ERROR"})
	}
}
