package money

import "testing"

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents uint32
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{50, "0.50"},
		{2000, "20.00"},
		{2050, "20.50"},
		{199999, "1999.99"},
	}
	for _, tt := range tests {
		if got := FormatCents(tt.cents); got != tt.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"20.00", 2000, false},
		{"20.5", 2050, false},
		{"20", 2000, false},
		{"0.05", 5, false},
		{" 12.30 ", 1230, false},
		{"", 0, true},
		{"-1.00", 0, true},
		{"1.234", 0, true},
		{".50", 0, true},
		{"abc", 0, true},
		{"1.x", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q) expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, cents := range []uint32{0, 1, 99, 100, 2000, 123456} {
		got, err := ParseAmount(FormatCents(cents))
		if err != nil {
			t.Fatalf("round trip %d: %v", cents, err)
		}
		if got != cents {
			t.Errorf("round trip %d came back as %d", cents, got)
		}
	}
}
