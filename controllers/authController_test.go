package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	h := setup(t)

	resp := h.request(t, fiber.MethodPost, "/api/registration", fiber.Map{
		"first_name":       "Jamie",
		"last_name":        "Doe",
		"email":            "jamie@example.test",
		"password":         "supersecret",
		"password_confirm": "supersecret",
	}, false)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Duplicate email rejected.
	resp = h.request(t, fiber.MethodPost, "/api/registration", fiber.Map{
		"first_name":       "Jamie",
		"last_name":        "Doe",
		"email":            "jamie@example.test",
		"password":         "supersecret",
		"password_confirm": "supersecret",
	}, false)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = h.request(t, fiber.MethodPost, "/api/login", fiber.Map{
		"email":    "jamie@example.test",
		"password": "supersecret",
	}, false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeBody(t, resp, &out)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, "jamie@example.test", out.User.Email)

	// The issued token works against protected routes.
	h.token = out.Token
	resp = h.request(t, fiber.MethodGet, "/api/invoices", nil, true)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	h := setup(t)
	resp := h.request(t, fiber.MethodPost, "/api/registration", fiber.Map{
		"first_name":       "Jamie",
		"last_name":        "Doe",
		"email":            "jamie@example.test",
		"password":         "supersecret",
		"password_confirm": "different",
	}, false)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	h := setup(t)
	h.request(t, fiber.MethodPost, "/api/registration", fiber.Map{
		"first_name":       "Jamie",
		"last_name":        "Doe",
		"email":            "jamie@example.test",
		"password":         "supersecret",
		"password_confirm": "supersecret",
	}, false)

	resp := h.request(t, fiber.MethodPost, "/api/login", fiber.Map{
		"email":    "jamie@example.test",
		"password": "wrong-password",
	}, false)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
