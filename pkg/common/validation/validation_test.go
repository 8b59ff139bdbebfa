package validation

import (
	"testing"
	"time"

	"github.com/vnykmshr/gobounce/pkg/common/errors"
)

func TestValidateNonNegativeDuration(t *testing.T) {
	tests := []struct {
		name      string
		value     time.Duration
		wantError bool
	}{
		{"positive value", 30 * time.Millisecond, false},
		{"zero value", 0, false},
		{"negative value", -time.Millisecond, true},
		{"large positive", time.Hour, false},
		{"smallest negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNonNegativeDuration("throttle", "delay", tt.value)

			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				if !errors.IsValidationError(err) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			} else {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			}
		})
	}
}

func TestValidatePositiveDuration(t *testing.T) {
	tests := []struct {
		name      string
		value     time.Duration
		wantError bool
	}{
		{"positive value", time.Second, false},
		{"one nanosecond", 1, false},
		{"zero value", 0, true},
		{"negative value", -time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositiveDuration("scheduler", "interval", tt.value)

			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				if !errors.IsValidationError(err) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateNotEmpty(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{"non-empty", "search", false},
		{"whitespace", " ", false},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNotEmpty("config", "profile", tt.value)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateNotEmpty(%q) error = %v, wantError %v", tt.value, err, tt.wantError)
			}
		})
	}
}

func TestValidateOneOf(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{"first option", "throttle", false},
		{"second option", "debounce", false},
		{"unknown", "batch", true},
		{"case sensitive", "Throttle", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOneOf("config", "mode", tt.value, "throttle", "debounce")
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateOneOf(%q) error = %v, wantError %v", tt.value, err, tt.wantError)
			}
		})
	}
}

func TestValidationErrorDetails(t *testing.T) {
	t.Run("ValidateNonNegativeDuration error details", func(t *testing.T) {
		err := ValidateNonNegativeDuration("debounce", "timeout", -5*time.Millisecond)
		if err == nil {
			t.Fatal("expected error")
		}

		valErr, ok := err.(*errors.ValidationError)
		if !ok {
			t.Fatal("could not cast to ValidationError")
		}

		if valErr.Module != "debounce" {
			t.Errorf("Module = %q, want %q", valErr.Module, "debounce")
		}
		if valErr.Field != "timeout" {
			t.Errorf("Field = %q, want %q", valErr.Field, "timeout")
		}
		if valErr.Value != -5*time.Millisecond {
			t.Errorf("Value = %v, want %v", valErr.Value, -5*time.Millisecond)
		}
		if valErr.Reason != "cannot be negative" {
			t.Errorf("Reason = %q, want %q", valErr.Reason, "cannot be negative")
		}
	})

	t.Run("ValidateOneOf error details", func(t *testing.T) {
		err := ValidateOneOf("config", "mode", "batch", "throttle", "debounce")

		valErr, ok := err.(*errors.ValidationError)
		if !ok {
			t.Fatal("could not cast to ValidationError")
		}

		if valErr.Hint != "use one of: throttle, debounce" {
			t.Errorf("Hint = %q, want %q", valErr.Hint, "use one of: throttle, debounce")
		}
	})

	t.Run("ValidateNotEmpty error details", func(t *testing.T) {
		err := ValidateNotEmpty("config", "key", "")

		valErr, ok := err.(*errors.ValidationError)
		if !ok {
			t.Fatal("could not cast to ValidationError")
		}

		if valErr.Hint != "provide a non-empty key" {
			t.Errorf("Hint = %q, want contains 'key'", valErr.Hint)
		}
	})
}

func TestValidationErrorWrapping(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{"ValidateNonNegativeDuration", ValidateNonNegativeDuration("test", "field", -1)},
		{"ValidatePositiveDuration", ValidatePositiveDuration("test", "field", 0)},
		{"ValidateNotEmpty", ValidateNotEmpty("test", "field", "")},
		{"ValidateOneOf", ValidateOneOf("test", "field", "x", "y")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err == nil {
				t.Fatal("expected error")
			}
			valErr, ok := tc.err.(*errors.ValidationError)
			if !ok {
				t.Fatal("error should be a ValidationError")
			}
			if wrapped := valErr.Unwrap(); wrapped != errors.ErrInvalidConfiguration {
				t.Errorf("should unwrap to ErrInvalidConfiguration, got %v", wrapped)
			}
		})
	}
}
