package table

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidFormat reports a non-empty value that failed numeric
// canonicalization. The caller decides whether to reject the edit or keep
// the raw value with a visual error marker.
var ErrInvalidFormat = errors.New("invalid format")

// numberWidth is the fixed width of a federation player number.
const numberWidth = 6

// Normalize canonicalizes a user-entered field value before it is committed.
// Surrounding whitespace is trimmed for every field. The handicap index is
// rendered with exactly two decimal places and a period separator, the player
// number is zero-padded, and percent values are rendered as the shortest
// plain decimal. Normalize is pure and idempotent; on ErrInvalidFormat the
// trimmed input is returned unchanged.
func Normalize(field, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", nil
	}

	switch field {
	case FieldHI:
		f, err := parseDecimal(value)
		if err != nil {
			return value, ErrInvalidFormat
		}
		return strconv.FormatFloat(f, 'f', 2, 64), nil
	case FieldNumber:
		if len(value) >= numberWidth {
			return value, nil
		}
		return strings.Repeat("0", numberWidth-len(value)) + value, nil
	case FieldPercent:
		f, err := parseDecimal(value)
		if err != nil {
			return value, ErrInvalidFormat
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return value, nil
}

// parseDecimal accepts both comma and period decimal separators.
func parseDecimal(value string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
}
