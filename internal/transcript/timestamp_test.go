package transcript

import "testing"

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"minutes and seconds", "1:23", 83},
		{"hours minutes seconds", "1:02:30", 3750},
		{"zero", "0:00", 0},
		{"ten minutes", "10:00", 600},
		{"bare seconds", "45", 45},
		{"malformed word", "bad", 0},
		{"malformed component", "1:xx", 0},
		{"negative component", "-1:30", 0},
		{"empty", "", 0},
		{"trailing colon", "1:", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTimestamp(tt.input); got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{"minutes and seconds", 83, "1:23"},
		{"hour boundary", 3600, "1:00:00"},
		{"over an hour", 3722, "1:02:02"},
		{"zero", 0, "0:00"},
		{"under a minute", 59, "0:59"},
		{"floors fractions", 83.9, "1:23"},
		{"negative clamps to zero", -5, "0:00"},
		{"just under an hour", 3599, "59:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(tt.input); got != tt.want {
				t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Round-trip: for non-negative integer seconds, parsing the formatted value
// yields the original.
func TestTimestampRoundTrip(t *testing.T) {
	for _, s := range []int{0, 1, 59, 60, 61, 599, 600, 3599, 3600, 3661, 7322, 86399} {
		formatted := FormatTimestamp(float64(s))
		if got := ParseTimestamp(formatted); got != float64(s) {
			t.Errorf("ParseTimestamp(FormatTimestamp(%d)) = %v via %q, want %d", s, got, formatted, s)
		}
	}
}
