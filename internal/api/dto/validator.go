package dto

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/pegasus-hq/support-core/pkg/util"
)

var validate = validator.New()

// Validate runs struct tag validation and converts failures into a
// VALIDATION_FAILED domain error with per-field details.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := map[string]any{}
	for _, fieldError := range fieldErrors {
		details[fieldError.Field()] = fieldError.Tag()
	}
	return apperrors.NewValidationError("invalid payload", details)
}
