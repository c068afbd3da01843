package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"invoiceforge-backend/controllers"
	"invoiceforge-backend/database"
	"invoiceforge-backend/mailers"
	"invoiceforge-backend/middlewares"
	"invoiceforge-backend/models"
	"invoiceforge-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// captureSender records outgoing mail instead of delivering it.
type captureSender struct {
	msgs []mailers.Message
}

func (s *captureSender) Send(msg mailers.Message) error {
	s.msgs = append(s.msgs, msg)
	return nil
}

type harness struct {
	app    *fiber.App
	db     *gorm.DB
	token  string
	sender *captureSender
}

func setup(t *testing.T) *harness {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	database.DB = db

	sender := &captureSender{}
	prevMailer := controllers.Mailer
	controllers.Mailer = mailers.New(sender, "http://test.local")
	prevNow := controllers.Now
	t.Cleanup(func() {
		controllers.Mailer = prevMailer
		controllers.Now = prevNow
	})

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	routes.Register(app)

	token, err := middlewares.GenerateJWT("user-1")
	require.NoError(t, err)

	return &harness{app: app, db: db, token: token, sender: sender}
}

func (h *harness) setToday(t *testing.T, day string) {
	t.Helper()
	d, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	controllers.Now = func() time.Time { return d }
}

func (h *harness) request(t *testing.T, method, path string, body any, authed bool) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func (h *harness) createClient(t *testing.T) uint {
	t.Helper()
	resp := h.request(t, fiber.MethodPost, "/api/client", fiber.Map{
		"name":  "Acme Corp",
		"email": "billing@acme.test",
	}, true)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var client models.Client
	decodeBody(t, resp, &client)
	return client.ID
}

func standardLines() []fiber.Map {
	return []fiber.Map{
		{"type": "item", "description": "Design work", "quantity": "40", "unit_type": "hours", "unit_price": "150", "position": 1},
		{"type": "section", "description": "Adjustments", "position": 2},
		{"type": "discount", "description": "Loyalty discount", "unit_price": "320", "position": 3},
	}
}

func (h *harness) createInvoice(t *testing.T, clientID uint, number string, lines []fiber.Map) models.Invoice {
	t.Helper()
	resp := h.request(t, fiber.MethodPost, "/api/invoice", fiber.Map{
		"invoice_number": number,
		"client_id":      clientID,
		"issue_date":     "2026-03-01",
		"due_date":       "2026-03-31",
		"line_items":     lines,
	}, true)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var inv models.Invoice
	decodeBody(t, resp, &inv)
	return inv
}
