package converter

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Round2 rounds to two decimal places. Halves round away from zero on the
// binary product v*100, so 1.005 becomes 1 and 2.675 becomes 2.68.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

// ToNumber coerces a number-or-text value to a number rounded with Round2.
// Text that is not a finite number, NaN, and unsupported shapes give 0.
func ToNumber(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return Round2(n)
	case float32:
		return Round2(float64(n))
	case int:
		return Round2(float64(n))
	case int8:
		return Round2(float64(n))
	case int16:
		return Round2(float64(n))
	case int32:
		return Round2(float64(n))
	case int64:
		return Round2(float64(n))
	case uint:
		return Round2(float64(n))
	case uint8:
		return Round2(float64(n))
	case uint16:
		return Round2(float64(n))
	case uint32:
		return Round2(float64(n))
	case uint64:
		return Round2(float64(n))
	case json.Number:
		return parseText(string(n))
	case string:
		return parseText(n)
	default:
		return 0
	}
}

// leadingNumber matches the decimal number a text value starts with, so
// "12g" reads as 12. Special values such as "Infinity" never match.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

func parseText(s string) float64 {
	match := leadingNumber.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return Round2(f)
}
