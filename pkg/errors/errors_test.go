package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("unexpected EOF")
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"new", New(ErrCodeStructural, "duplicate lane id %q", "A"), `STRUCTURAL: duplicate lane id "A"`},
		{"wrap", Wrap(ErrCodeInvalidFormat, cause, "decode %s", "pool.json"), "INVALID_FORMAT: decode pool.json: unexpected EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidFormat, cause, "decode pool.json")

	if errors.Unwrap(err) != cause || !errors.Is(err, cause) {
		t.Error("wrapped error does not expose its cause")
	}
}

func TestCodeAsSentinel(t *testing.T) {
	err := fmt.Errorf("load: %w", Wrap(ErrCodeInvalidInput, New(ErrCodeStructural, "bad lane"), "pool.json"))

	if !errors.Is(err, ErrCodeInvalidInput) || !errors.Is(err, ErrCodeStructural) {
		t.Error("errors.Is should match every code in the chain")
	}
	if errors.Is(err, ErrCodeNotFound) {
		t.Error("errors.Is matched an absent code")
	}
	// The package-level Is looks only at the outermost coded error.
	if Is(err, ErrCodeStructural) {
		t.Error("Is() matched an inner code")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeStructural, "test"),
			code:     ErrCodeStructural,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeStructural, "test"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("rebuild: %w", New(ErrCodeStructural, "inner")),
			code:     ErrCodeStructural,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeStructural,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeStructural,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNotFound, "x")); got != ErrCodeNotFound {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeNotFound)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := fmt.Errorf("rebuild: %w", New(ErrCodeStructural, "duplicate lane id %q", "A"))
	if got := UserMessage(err); got != `duplicate lane id "A"` {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
