package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, role string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  uint(7),
		"role": role,
		"name": "Test Staff",
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func runWith(t *testing.T, token string, mws ...echo.MiddlewareFunc) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	return handler(c)
}

func TestRequireAuth(t *testing.T) {
	mw := RequireAuth(testSecret)

	assert.NoError(t, runWith(t, signTestToken(t, testSecret, "manager", time.Hour), mw))

	err := runWith(t, "", mw)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)

	err = runWith(t, "not-a-jwt", mw)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)

	err = runWith(t, signTestToken(t, "other-secret", "manager", time.Hour), mw)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)

	err = runWith(t, signTestToken(t, testSecret, "manager", -time.Hour), mw)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
}

func TestRequireAuthSetsContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, testSecret, "reception", time.Hour))
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	var gotID uint
	var gotRole string
	next := func(c echo.Context) error {
		gotID, _ = c.Get("user_id").(uint)
		gotRole, _ = c.Get("role").(string)
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, RequireAuth(testSecret)(next)(c))
	assert.Equal(t, uint(7), gotID)
	assert.Equal(t, "reception", gotRole)
}

func TestRequireRole(t *testing.T) {
	auth := RequireAuth(testSecret)

	assert.NoError(t, runWith(t, signTestToken(t, testSecret, "manager", time.Hour),
		auth, RequireRole("manager")))

	assert.NoError(t, runWith(t, signTestToken(t, testSecret, "reception", time.Hour),
		auth, RequireRole("manager", "reception")))

	err := runWith(t, signTestToken(t, testSecret, "trainer", time.Hour),
		auth, RequireRole("manager"))
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)
}
