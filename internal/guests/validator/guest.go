package validator

import (
	"errors"
	"fmt"

	"innkeep/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

type GuestValidator struct {
	validate *validator.Validate
}

func NewGuestValidator() *GuestValidator {
	return &GuestValidator{
		validate: validator.New(),
	}
}

func (v *GuestValidator) Validate(guest *model.Guest) error {
	if guest == nil {
		return ValidationErrors{
			ValidationError{Field: "guest", Message: "guest is required"},
		}
	}

	if err := v.validate.Struct(guest); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *GuestValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		var message string
		switch err.Tag() {
		case "required":
			message = "is required"
		case "min":
			message = fmt.Sprintf("must be at least %s", err.Param())
		case "max":
			message = fmt.Sprintf("must be at most %s", err.Param())
		case "uuid4":
			message = "must be a valid UUID"
		case "email":
			message = "must be a valid email address"
		case "e164":
			message = "must be a valid phone number in E.164 format"
		default:
			message = fmt.Sprintf("failed %s validation", err.Tag())
		}
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
