package securesql

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// SanitizeValue normalizes a value before it is bound to a placeholder.
// Strings are stripped of null bytes and control characters, numbers must be
// finite, times must be valid instants; booleans and nil pass through. Any
// other type is stringified and sanitized the same way.
func SanitizeValue(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool:
		return v, nil
	case string:
		return stripControlCharacters(v), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return v, nil
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, fmt.Errorf("numeric value must be finite")
		}
		return v, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("numeric value must be finite")
		}
		return v, nil
	case time.Time:
		if v.IsZero() {
			return nil, fmt.Errorf("time value must be a valid instant")
		}
		return v, nil
	default:
		return stripControlCharacters(fmt.Sprintf("%v", v)), nil
	}
}

func stripControlCharacters(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0x00 || (r >= 0x01 && r <= 0x1F) || r == 0x7F {
			return -1
		}
		return r
	}, s)
}
