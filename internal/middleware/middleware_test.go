package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/lab-reservation/internal/utils"
)

func echoCtx(t *testing.T, header string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestJWTAuthMissingHeader(t *testing.T) {
	c, rec := echoCtx(t, "")
	err := JWTAuth("secret")(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInvalidToken(t *testing.T) {
	c, rec := echoCtx(t, "Bearer not-a-jwt")
	err := JWTAuth("secret")(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", "S123", "Jane Doe", "student", 5)
	require.NoError(t, err)

	c, rec := echoCtx(t, "Bearer "+at.Token)
	require.NoError(t, JWTAuth("secret")(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInjectsClaims(t *testing.T) {
	at, err := utils.NewAccessToken("secret", "S123", "Jane Doe", "student", 5)
	require.NoError(t, err)

	c, rec := echoCtx(t, "Bearer "+at.Token)
	called := false
	next := func(c echo.Context) error {
		called = true
		assert.Equal(t, "S123", c.Get("user_id"))
		assert.Equal(t, "student", c.Get("role"))
		assert.Equal(t, "Jane Doe", c.Get("name"))
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, JWTAuth("secret")(next)(c))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole("admin", "lab_assistant")

	c, rec := echoCtx(t, "")
	c.Set("role", "student")
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = echoCtx(t, "")
	c.Set("role", "lab_assistant")
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Missing role claim is treated the same as a wrong one.
	c, rec = echoCtx(t, "")
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
