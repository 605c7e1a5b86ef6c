package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestConstructorsSetCodeAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("hotel"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("guest", "g-1"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad booking", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("missing guest id"), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("room already booked"), CodeConflict, http.StatusConflict},
		{"internal", Internal("store write failed", errors.New("boom")), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("store timed out"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("view store"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestErrorIncludesCause(t *testing.T) {
	cause := errors.New("connection reset")
	appErr := Internal("store unreachable", cause)

	if !errors.Is(appErr, cause) {
		t.Error("expected errors.Is to unwrap to the cause")
	}

	msg := appErr.Error()
	if msg != "INTERNAL_ERROR: store unreachable (caused by: connection reset)" {
		t.Errorf("unexpected Error() output: %s", msg)
	}
}

func TestAsAppErrorWrapsUnknownErrors(t *testing.T) {
	plain := errors.New("something odd")
	appErr := AsAppError(plain)

	if appErr.Code != CodeInternal {
		t.Errorf("expected %s, got %s", CodeInternal, appErr.Code)
	}
	if !errors.Is(appErr, plain) {
		t.Error("expected the original error to be preserved as cause")
	}
}

func TestIsCode(t *testing.T) {
	err := Conflict("slot taken")
	if !IsCode(err, CodeConflict) {
		t.Error("expected IsCode to match CONFLICT")
	}
	if IsCode(err, CodeNotFound) {
		t.Error("did not expect IsCode to match NOT_FOUND")
	}
	if IsCode(errors.New("plain"), CodeConflict) {
		t.Error("plain errors must not match any code")
	}
}
