package loans

import "testing"

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  Method
		expectErr bool
	}{
		{"Annuity", "annuity", MethodAnnuity, false},
		{"Flat", "flat", MethodFlat, false},
		{"Unknown", "bullet", 0, true},
		{"Empty", "", 0, true},
		{"Case sensitive", "Annuity", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseMethod(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("ParseMethod(%q) expected error, got %v", tt.input, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMethod(%q) unexpected error: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ParseMethod(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestMethodRoundTrip(t *testing.T) {
	for _, method := range []Method{MethodAnnuity, MethodFlat} {
		text, err := method.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) unexpected error: %v", method, err)
		}
		var parsed Method
		if err := parsed.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) unexpected error: %v", text, err)
		}
		if parsed != method {
			t.Errorf("round trip of %v yielded %v", method, parsed)
		}
	}
}

func TestMethodMarshalUnknown(t *testing.T) {
	if _, err := Method(42).MarshalText(); err == nil {
		t.Fatal("expected error marshaling unknown method, got nil")
	}
}
