package transcript

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

// ParseTimestamp converts a "M:SS" or "H:MM:SS" timestamp into seconds.
// Components are split on ":" and parsed as non-negative integers,
// accumulated base 60. Malformed input is swallowed to 0 with a logged
// warning, never an error: scraped timestamps cannot be trusted to be
// well-formed and a bad one must not take down ingestion.
func ParseTimestamp(text string) float64 {
	total := 0
	for _, part := range strings.Split(text, ":") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			log.Printf("transcript: malformed timestamp %q, defaulting to 0", text)
			return 0
		}
		total = total*60 + n
	}
	return float64(total)
}

// FormatTimestamp renders seconds as "M:SS", or "H:MM:SS" once the value
// reaches an hour. Fractional seconds are floored. Minutes and seconds are
// zero-padded to two digits; the leading unit never is.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
