package middlewares

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestMain(m *testing.M) {
	// The secret is read once per process; set it before any handler runs.
	os.Setenv("JWT_SECRET", "segredo-de-teste")
	os.Exit(m.Run())
}

func newAuthTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/protegido", IsAuthenticated(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": c.Locals("userID")})
	})
	app.Get("/admin", IsAuthenticated(), RequirePermission("usuarios"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestIsAuthenticated_ValidToken(t *testing.T) {
	app := newAuthTestApp()

	token, err := GenerateJWT("user-1", []string{"estoque"})
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	req := httptest.NewRequest("GET", "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	var out map[string]string
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if out["userID"] != "user-1" {
		t.Fatalf("userID local = %q, want user-1", out["userID"])
	}
}

func TestIsAuthenticated_Rejections(t *testing.T) {
	app := newAuthTestApp()

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic abc123"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer nao.e.um.jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protegido", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != fiber.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", resp.StatusCode)
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	app := newAuthTestApp()

	granted, err := GenerateJWT("user-2", []string{"usuarios", "financeiro"})
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+granted)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("status with permission = %d, want 204", resp.StatusCode)
	}

	denied, err := GenerateJWT("user-3", []string{"estoque"})
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+denied)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status without permission = %d, want 403", resp.StatusCode)
	}
}
