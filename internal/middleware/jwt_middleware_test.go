package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patlouis/e-commerce-bookstore/internal/middleware"
	"github.com/patlouis/e-commerce-bookstore/internal/models"
	"github.com/patlouis/e-commerce-bookstore/internal/services"
)

func setupApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()
	authService := services.NewAuthService(nil, "test_jwt_secret", time.Hour)

	app := fiber.New()
	whoami := func(c *fiber.Ctx) error {
		identity, ok := middleware.IdentityFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(identity)
	}
	app.Get("/any", middleware.AuthRequired(authService), whoami)
	app.Get("/admin", middleware.AuthRequired(authService, models.RoleAdmin), whoami)
	app.Get("/customer", middleware.AuthRequired(authService, models.RoleCustomer), whoami)
	return app, authService
}

func call(t *testing.T, app *fiber.App, path, authorization string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestAuthRequired(t *testing.T) {
	app, authService := setupApp(t)
	adminToken, err := authService.IssueToken("admin-1", models.RoleAdmin)
	require.NoError(t, err)
	customerToken, err := authService.IssueToken("customer-1", models.RoleCustomer)
	require.NoError(t, err)

	tests := []struct {
		name          string
		path          string
		authorization string
		status        int
		message       string
	}{
		{"NoHeader", "/any", "", fiber.StatusUnauthorized, "Authorization header is required"},
		{"NotBearer", "/any", "Basic abc", fiber.StatusUnauthorized, "Authorization header format must be 'Bearer <token>'"},
		{"BadToken", "/any", "Bearer nonsense", fiber.StatusUnauthorized, "Invalid or expired token"},
		{"CustomerOnAdminRoute", "/admin", "Bearer " + customerToken, fiber.StatusForbidden, "Forbidden"},
		{"AdminOnCustomerRoute", "/customer", "Bearer " + adminToken, fiber.StatusForbidden, "Forbidden"},
		{"NoHeaderOnAdminRoute", "/admin", "", fiber.StatusUnauthorized, "Authorization header is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, app, tt.path, tt.authorization)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, body["message"])
		})
	}

	t.Run("Admitted", func(t *testing.T) {
		status, body := call(t, app, "/admin", "Bearer "+adminToken)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "admin-1", body["id"])
		assert.Equal(t, float64(models.RoleAdmin), body["role"])

		status, body = call(t, app, "/customer", "Bearer "+customerToken)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "customer-1", body["id"])

		status, _ = call(t, app, "/any", "Bearer "+customerToken)
		assert.Equal(t, fiber.StatusOK, status)
	})
}

func TestAuthRequired_ExpiredToken(t *testing.T) {
	authService := services.NewAuthService(nil, "test_jwt_secret", -time.Minute)
	token, err := authService.IssueToken("customer-1", models.RoleCustomer)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/any", middleware.AuthRequired(authService), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	status, body := call(t, app, "/any", "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid or expired token", body["message"])
}
