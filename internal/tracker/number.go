package tracker

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Number is a form value that may not be numeric.
// An invalid Number propagates through arithmetic and compares false,
// so a bad field entry flows into state instead of being rejected.
type Number struct {
	Value float64
	Valid bool
}

// Int returns a valid Number holding v.
func Int(v int) Number {
	return Number{Value: float64(v), Valid: true}
}

// Float returns a valid Number holding v. NaN and ±Inf are not numbers a
// form can show or JSON can carry, so they come back invalid.
func Float(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Invalid()
	}
	return Number{Value: v, Valid: true}
}

// Invalid returns the non-numeric Number.
func Invalid() Number {
	return Number{}
}

// ParseNumber reads integer text the way a number form field is read:
// leading whitespace is skipped, an optional sign is accepted, then the
// longest run of decimal digits is taken and the rest ignored.
// "12abc" is 12, "3.7" is 3, "" and "abc" are invalid.
func ParseNumber(s string) Number {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return Invalid()
	}
	// digits only: the sole possible error is ErrRange with v = +Inf,
	// which Float turns into an invalid Number
	v, _ := strconv.ParseFloat(s[:end], 64)
	if neg {
		v = -v
	}
	return Float(v)
}

func (n Number) Add(o Number) Number {
	if !n.Valid || !o.Valid {
		return Invalid()
	}
	return Float(n.Value + o.Value)
}

func (n Number) Mul(o Number) Number {
	if !n.Valid || !o.Valid {
		return Invalid()
	}
	return Float(n.Value * o.Value)
}

// Div returns an invalid Number when o is zero.
func (n Number) Div(o Number) Number {
	if !n.Valid || !o.Valid || o.Value == 0 {
		return Invalid()
	}
	return Float(n.Value / o.Value)
}

// GreaterOrEqual is false when either side is invalid.
func (n Number) GreaterOrEqual(o Number) bool {
	return n.Valid && o.Valid && n.Value >= o.Value
}

// LessOrEqual is false when either side is invalid.
func (n Number) LessOrEqual(o Number) bool {
	return n.Valid && o.Valid && n.Value <= o.Value
}

func (n Number) String() string {
	if !n.Valid {
		return "NaN"
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// MarshalJSON encodes an invalid Number as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts a JSON number, a string holding form text, or null.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Invalid()
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = ParseNumber(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Float(v)
	return nil
}
