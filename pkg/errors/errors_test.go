package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidData, "test message: %s", "value")

	if err.Code != ErrCodeInvalidData {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidData)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_DATA: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNoSurface, cause, "canvas unavailable")

	if err.Code != ErrCodeNoSurface {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNoSurface)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
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
			err:      New(ErrCodeInvalidData, "test"),
			code:     ErrCodeInvalidData,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidData, "test"),
			code:     ErrCodeNoSurface,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeNoSurface, New(ErrCodeInvalidData, "inner"), "outer"),
			code:     ErrCodeNoSurface,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidData,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidData,
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
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidKey, "test"),
			expected: ErrCodeInvalidKey,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidData, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound("A")
	if err.Code != ErrCodeNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNotFound)
	}
	if !Is(err, ErrCodeNotFound) {
		t.Error("Is(NotFound, ErrCodeNotFound) = false, want true")
	}
	if UserMessage(err) != `unknown node "A"` {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
}

func TestDataError(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		err := &DataError{}
		if !err.Empty() {
			t.Error("Empty() = false, want true")
		}
	})

	t.Run("message", func(t *testing.T) {
		err := &DataError{DroppedEdges: 3, DuplicateNodes: 1}
		expected := "INVALID_DATA: dropped 3 edges, 1 duplicate nodes, 0 invalid nodes"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
		if err.Empty() {
			t.Error("Empty() = true, want false")
		}
	})

	t.Run("code method", func(t *testing.T) {
		err := &DataError{}
		if err.Code() != ErrCodeInvalidData {
			t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeInvalidData)
		}
	})
}
