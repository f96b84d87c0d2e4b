package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"e164 passthrough", "+919876543210", "+919876543210"},
		{"domestic with spaces", "98765 43210", "+919876543210"},
		{"domestic with leading zero", "09876543210", "+919876543210"},
		{"formatted international", "+91 98765-43210", "+919876543210"},
		{"us number", "+1 415 555 2671", "+14155552671"},
		{"garbage", "call me maybe", ""},
		{"too short", "12345", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhoneIsIdempotent(t *testing.T) {
	once := NormalizePhone("98765 43210")
	twice := NormalizePhone(once)
	if once != twice {
		t.Errorf("normalization not idempotent: %q vs %q", once, twice)
	}
}
