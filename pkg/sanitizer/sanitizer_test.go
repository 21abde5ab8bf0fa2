package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Jane Doe", "Jane Doe"},
		{"surrounding whitespace", "  Jane Doe  ", "Jane Doe"},
		{"internal runs collapse", "Jane \t  Doe", "Jane Doe"},
		{"newlines collapse", "Jane\nDoe", "Jane Doe"},
		{"empty", "", ""},
		{"only whitespace", "   \t\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTrimAndNormalizeIdempotent(t *testing.T) {
	inputs := []string{"  Jane   Doe ", "already normal", ""}
	for _, in := range inputs {
		once := TrimAndNormalize(in)
		if twice := TrimAndNormalize(once); twice != once {
			t.Errorf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jane.Doe@Example.COM "); got != "jane.doe@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already e164 german", "+4915123456789", "+4915123456789"},
		{"already e164 us", "+14155552671", "+14155552671"},
		{"national german", "0151 23456789", "+4915123456789"},
		{"international prefix german", "0049 151 23456789", "+4915123456789"},
		{"us with formatting", "(415) 555-2671", "+14155552671"},
		{"us plain", "415 555 2671", "+14155552671"},
		{"empty", "", ""},
		{"garbage", "not-a-phone", ""},
		{"too short", "+1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.expected {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
