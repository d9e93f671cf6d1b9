package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/features"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedAsker struct{ answer services.Answer }

func (a cannedAsker) Ask(context.Context, string, string, string) services.Answer {
	return a.answer
}

func TestGenerateSaveFailureHidesDBError(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "h.db")}
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	svc := services.NewPrescriptionService(services.NewRecordStore(db), cannedAsker{answer: services.Answer{Text: "Rest.", OK: true}})
	h := NewPrescriptionHandler(svc, features.NewFlags("companion", features.PrescriptionHistory))

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	// "ghost" has no users row, so the insert trips the foreign key.
	app.Use(func(c *fiber.Ctx) error {
		middleware.GetSession(c).Login("ghost")
		return c.Next()
	})
	app.Post("/prescriptions", h.Generate)

	req := httptest.NewRequest(http.MethodPost, "/prescriptions", strings.NewReader(`{"symptoms":"cough"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Failed to save prescription", out.Message)
	assert.NotContains(t, strings.ToLower(string(body)), "foreign key")
}
