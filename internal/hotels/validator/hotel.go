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

type HotelValidator struct {
	validate *validator.Validate
}

func NewHotelValidator() *HotelValidator {
	return &HotelValidator{
		validate: validator.New(),
	}
}

func (v *HotelValidator) Validate(hotel *model.Hotel) error {
	if hotel == nil {
		return ValidationErrors{
			ValidationError{Field: "hotel", Message: "hotel is required"},
		}
	}

	if err := v.validate.Struct(hotel); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *HotelValidator) ValidateRegistration(reg *model.RoomRegistration) error {
	if reg == nil {
		return ValidationErrors{
			ValidationError{Field: "registration", Message: "room registration is required"},
		}
	}

	if err := v.validate.Struct(reg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if model.Day(reg.EndDate).Before(model.Day(reg.StartDate)) {
		return ValidationErrors{
			ValidationError{Field: "end_date", Message: "end date must not precede start date"},
		}
	}

	return nil
}

func (v *HotelValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
