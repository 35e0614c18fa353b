package ingest

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseHours converts "H:M:S" or "M:S" to hours rounded to three decimals.
func ParseHours(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		nums[i] = n
	}
	switch len(nums) {
	case 3:
		return roundTo(float64(nums[0])+float64(nums[1])/60+float64(nums[2])/3600, 3), nil
	case 2:
		return roundTo(float64(nums[0])/60+float64(nums[1])/3600, 3), nil
	default:
		return 0, fmt.Errorf("invalid duration %q", s)
	}
}

// FormatClock shortens "H:MM:SS" to "H:MM". Other forms are returned as given.
func FormatClock(s string) string {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return s
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return s
	}
	return fmt.Sprintf("%d:%s", h, parts[1])
}
