package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"invoiceforge-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyedRequest(t *testing.T, h *harness, key string, body fiber.Map) ([]byte, int) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, "/api/client", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.token)
	req.Header.Set("Idempotency-Key", key)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return out, resp.StatusCode
}

func TestIdempotentCreateReplaysFirstResponse(t *testing.T) {
	h := setup(t)
	body := fiber.Map{"name": "Acme Corp", "email": "billing@acme.test"}

	first, status := keyedRequest(t, h, "create-acme-1", body)
	require.Equal(t, fiber.StatusCreated, status)

	second, status := keyedRequest(t, h, "create-acme-1", body)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, string(first), string(second))

	var n int64
	require.NoError(t, h.db.Model(&models.Client{}).Count(&n).Error)
	assert.EqualValues(t, 1, n, "retry must not create a second client")
}

func TestIdempotencyKeyReuseWithDifferentBody(t *testing.T) {
	h := setup(t)

	_, status := keyedRequest(t, h, "key-1", fiber.Map{"name": "Acme", "email": "a@acme.test"})
	require.Equal(t, fiber.StatusCreated, status)

	_, status = keyedRequest(t, h, "key-1", fiber.Map{"name": "Other", "email": "b@other.test"})
	assert.Equal(t, fiber.StatusConflict, status)
}
