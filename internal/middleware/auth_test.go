package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"plm-connector/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(skipAuth bool) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", AuthMiddleware(skipAuth), func(c *fiber.Ctx) error {
		return c.SendString(utils.ActorFromContext(c.UserContext()))
	})
	app.Get("/admin", AuthMiddleware(skipAuth), AdminMiddleware(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	resp, err := newProtectedApp(false).Test(httptest.NewRequest("GET", "/whoami", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_BadScheme(t *testing.T) {
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Token abc")

	resp, err := newProtectedApp(false).Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	utils.SetSecret("middleware-secret")
	token, err := utils.GenerateToken("op-42", []string{"operator"}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	app := newProtectedApp(false)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "op-42", string(body))

	// operator role is not enough for admin routes
	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAuthMiddleware_SkipAuthGrantsAdmin(t *testing.T) {
	resp, err := newProtectedApp(true).Test(httptest.NewRequest("GET", "/admin", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
