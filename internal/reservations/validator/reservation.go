package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

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
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// ReservationValidator checks a booking request is structurally complete
// before the booking flow touches the store. Pure; no side effects.
type ReservationValidator struct {
	validate      *validator.Validate
	maxStayNights int
}

func NewReservationValidator(maxStayNights int) *ReservationValidator {
	return &ReservationValidator{
		validate:      validator.New(),
		maxStayNights: maxStayNights,
	}
}

// Validate reports the first failure encountered: the nil request, then each
// required field in declaration order, then the date-range rules.
func (v *ReservationValidator) Validate(req *model.BookingRequest) error {
	if req == nil {
		return ValidationErrors{
			ValidationError{Field: "request", Message: "booking request is required"},
		}
	}

	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !req.StartDate.Before(req.EndDate) {
		return ValidationErrors{
			ValidationError{Field: "StartDate", Message: "start date must precede end date"},
		}
	}

	if !req.EndDate.After(time.Now()) {
		return ValidationErrors{
			ValidationError{Field: "EndDate", Message: "end date must be in the future"},
		}
	}

	if nights := int(model.Day(req.EndDate).Sub(model.Day(req.StartDate)).Hours() / 24); nights > v.maxStayNights {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: fmt.Sprintf("stay length (%d nights) exceeds the maximum of %d", nights, v.maxStayNights),
			},
		}
	}

	return nil
}

// translateValidationErrors reports the first failed field check; each field
// is validated independently and the earliest one wins.
func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	if len(errs) == 0 {
		return nil
	}

	first := errs[0]
	message := first.Error()

	switch first.Tag() {
	case "required":
		message = fmt.Sprintf("%s is required", first.Field())
	case "min":
		message = fmt.Sprintf("%s must be at least %s", first.Field(), first.Param())
	}

	return ValidationErrors{
		ValidationError{Field: first.Field(), Message: message},
	}
}
