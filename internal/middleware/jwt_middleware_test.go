package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"realestatecrm/internal/attachments"
	"realestatecrm/internal/logging"
	"realestatecrm/internal/models"
	"realestatecrm/internal/repositories"
	"realestatecrm/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()
	log := logging.Discard()
	files := attachments.NewManager(attachments.NewMemoryStore(), nil, log)
	authService := services.NewAuthService(repositories.NewMockUserRepository(), files, nil, log, services.AuthOptions{
		JWTSecret: "middleware_secret",
		TokenTTL:  time.Hour,
	})

	app := fiber.New()
	app.Get("/private", AuthRequired(authService, log), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id"), "role": c.Locals("role")})
	})
	return app, authService
}

func TestAuthRequired(t *testing.T) {
	app, authService := setupApp(t)
	token, _, err := authService.IssueToken(&models.User{ID: "u-1", Email: "a@agency.ua", Role: models.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
