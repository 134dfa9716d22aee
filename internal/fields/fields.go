package fields

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies the scalar class of a token.
type Kind int

const (
	KindNull Kind = iota
	KindDecimal
	KindInteger
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindDecimal:
		return "decimal"
	case KindInteger:
		return "integer"
	default:
		return "text"
	}
}

var (
	decimalPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+$`)
	integerPattern = regexp.MustCompile(`^[0-9]+$`)
)

// Value is a classified token.
type Value struct {
	Kind    Kind
	Text    string
	Integer int64
	Decimal float64
}

// Classify assigns a token to null, decimal, integer, or text in that order.
func Classify(token string) Value {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return Value{Kind: KindNull}
	}
	if decimalPattern.MatchString(trimmed) {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return Value{Kind: KindDecimal, Text: trimmed, Decimal: f}
		}
	}
	if integerPattern.MatchString(trimmed) {
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return Value{Kind: KindInteger, Text: trimmed, Integer: n, Decimal: float64(n)}
		}
	}
	return Value{Kind: KindText, Text: trimmed}
}

// IsInteger reports whether token is a bare run of digits.
func IsInteger(token string) bool {
	return Classify(token).Kind == KindInteger
}

// Int returns the integer value of a strict-integer token.
func Int(token string) (int, bool) {
	v := Classify(token)
	if v.Kind != KindInteger {
		return 0, false
	}
	return int(v.Integer), true
}

// Number returns the numeric value of a decimal or integer token.
func Number(token string) (float64, bool) {
	v := Classify(token)
	switch v.Kind {
	case KindDecimal, KindInteger:
		return v.Decimal, true
	default:
		return 0, false
	}
}

var currencyReplacer = strings.NewReplacer("$", "", ",", "")

// Currency strips "$" and thousands separators and parses the remainder.
func Currency(token string) (float64, bool) {
	return Number(currencyReplacer.Replace(token))
}

// Text returns the trimmed token, or "" when it is blank.
func Text(token string) string {
	return strings.TrimSpace(token)
}
