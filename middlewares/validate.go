package middlewares

import (
	"invoiceforge-backend/engine"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Domain enums usable as struct tags on request DTOs.
	_ = v.RegisterValidation("linetype", func(fl validator.FieldLevel) bool {
		return engine.LineType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("unittype", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || engine.UnitType(s).Valid()
	})
	return v
}

// BindAndValidate parses the request body into dst and validates it.
// Returns fiber.ErrBadRequest for parse errors and a validator.ValidationErrors for validation issues.
func BindAndValidate(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	// NOTE: For slices/arrays, call ValidateStruct per-element in the controller.
	return validate.Struct(dst)
}

// ValidateStruct validates any struct value using the shared validator instance.
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}
