package errors

import (
	"math"
	"strings"
	"testing"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "00640854737", "00640854737", false},
		{"trimmed", "  REAG INVESTIMENTOS \t", "REAG INVESTIMENTOS", false},
		{"unicode", "Sócio-Gerente", "Sócio-Gerente", false},

		{"empty", "", "", true},
		{"blank", "   ", "", true},
		{"too long", strings.Repeat("x", MaxKeyLength+1), "", true},
		{"null byte", "foo\x00bar", "", true},
		{"control char", "foo\x01bar", "", true},
		{"inner newline", "foo\nbar", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidKey) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidKey)
			}
			if got != tt.want {
				t.Errorf("NormalizeKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name    string
		v       float64
		wantErr bool
	}{
		{"low edge", 0, false},
		{"high edge", 1, false},
		{"inside", 0.3, false},
		{"below", -0.1, true},
		{"above", 1.1, true},
		{"nan", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange("link_strength", tt.v, 0, 1)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRange(%v) error = %v, wantErr %v", tt.v, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}
