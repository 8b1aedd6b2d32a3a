package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToString converts various types to string.
// Floats are rendered without exponent so numeric JSON ids stay readable.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool converts various types to bool.
// It handles bool, numeric types (exactly 1 is true), and strings ("1", "true").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case float64:
		return v == 1
	case float32:
		return v == 1
	case int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		return fmt.Sprint(v) == "1"
	case string:
		return isTrueText(v)
	case []byte:
		return isTrueText(string(v))
	default:
		return false
	}
}

func isTrueText(s string) bool {
	s = strings.TrimSpace(s)
	return s == "1" || strings.EqualFold(s, "true")
}
