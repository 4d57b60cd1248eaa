package controllers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campaignfox/CampaignFox/internal/pkg/gate"
)

func TestParamUint(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": paramUint(c, "id")})
	})

	tests := []struct {
		path string
		want float64
	}{
		{path: "/items/42", want: 42},
		{path: "/items/abc", want: 0},
		{path: "/items/-1", want: 0},
	}

	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil), -1)
		require.NoError(t, err)
		var body map[string]float64
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, tt.want, body["id"], tt.path)
	}
}

func TestRespondDeniedStatusMapping(t *testing.T) {
	tests := []struct {
		reason gate.Reason
		status int
	}{
		{reason: gate.ReasonNoAccess, status: fiber.StatusForbidden},
		{reason: gate.ReasonLimitReached, status: fiber.StatusPaymentRequired},
		{reason: gate.ReasonFeatureLocked, status: fiber.StatusPaymentRequired},
	}

	for _, tt := range tests {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			return respondDenied(c, gate.Decision{Allowed: false, Reason: tt.reason, Message: "denied"})
		})

		resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, tt.status, resp.StatusCode, string(tt.reason))

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, string(tt.reason), body["error"])
	}
}
