package validate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date layouts. Dates are stored as ISODate and displayed as DisplayDate.
const (
	ISODate     = "2006-01-02"
	DisplayDate = "02/01/2006"
)

// CalendarDate builds the date y-m-d and reports whether it exists. The
// components are round-tripped through time.Date so 2023-02-30 is rejected
// rather than normalized to March.
func CalendarDate(y, m, d int) (time.Time, bool) {
	if y < 1000 || y > 9999 || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// SplitDate reads YYYY-MM-DD or DD/MM/YYYY into its components.
func SplitDate(raw string) (y, m, d int, err error) {
	s := strings.TrimSpace(raw)
	var parts []string
	iso := false
	switch {
	case strings.Count(s, "-") == 2:
		parts = strings.Split(s, "-")
		iso = true
	case strings.Count(s, "/") == 2:
		parts = strings.Split(s, "/")
	default:
		return 0, 0, 0, fmt.Errorf("unrecognized date %q", raw)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, convErr := strconv.Atoi(strings.TrimSpace(p))
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("unrecognized date %q: %w", raw, convErr)
		}
		nums[i] = n
	}

	if iso {
		return nums[0], nums[1], nums[2], nil
	}
	return nums[2], nums[1], nums[0], nil
}

// ParseDate parses YYYY-MM-DD or DD/MM/YYYY into a calendar-checked date.
func ParseDate(raw string) (time.Time, error) {
	y, m, d, err := SplitDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	t, ok := CalendarDate(y, m, d)
	if !ok {
		return time.Time{}, fmt.Errorf("date %q does not exist", raw)
	}
	return t, nil
}
