package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	db := setupDB(t)
	h := NewAuthHandler(db, "test-secret")

	// seeded admin account
	c, rec := newRequest(t, http.MethodPost, "/auth/login", map[string]any{
		"username": "admin",
		"password": "admin123",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "manager", user["role"])
}

func TestLoginBadPassword(t *testing.T) {
	db := setupDB(t)
	h := NewAuthHandler(db, "test-secret")

	c, _ := newRequest(t, http.MethodPost, "/auth/login", map[string]any{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, h.Login(c)))
}

func TestLoginUnknownUser(t *testing.T) {
	db := setupDB(t)
	h := NewAuthHandler(db, "test-secret")

	c, _ := newRequest(t, http.MethodPost, "/auth/login", map[string]any{
		"username": "ghost",
		"password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, h.Login(c)))
}
