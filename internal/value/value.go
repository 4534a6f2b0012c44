package value

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrMalformedValue is returned for value strings that are not "num/den".
	ErrMalformedValue = errors.New("malformed value")
	// ErrMalformedDate is returned for timestamps not starting with YYYY-MM-DD.
	ErrMalformedDate = errors.New("malformed date")
)

const dateFormat = "2006-01-02"

// ParseValue parses a "<numerator>/<denominator>" string into an exact Amount.
// "4990/100" -> 49.9
func ParseValue(raw string) (Amount, error) {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 2 {
		return Amount{}, fmt.Errorf("%w: %q", ErrMalformedValue, raw)
	}

	num, ok := new(big.Int).SetString(parts[0], 10)
	if !ok {
		return Amount{}, fmt.Errorf("%w: numerator %q", ErrMalformedValue, parts[0])
	}
	den, ok := new(big.Int).SetString(parts[1], 10)
	if !ok {
		return Amount{}, fmt.Errorf("%w: denominator %q", ErrMalformedValue, parts[1])
	}
	if den.Sign() == 0 {
		return Amount{}, fmt.Errorf("%w: zero denominator in %q", ErrMalformedValue, raw)
	}

	return Amount{r: new(big.Rat).SetFrac(num, den)}, nil
}

// ParseExact parses an amount written by Amount.Exact: either a decimal
// such as "0.015" or a "num/den" fraction.
func ParseExact(raw string) (Amount, error) {
	if strings.Contains(raw, "/") {
		return ParseValue(raw)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrMalformedValue, raw)
	}
	return FromDecimal(d), nil
}

// ParseDate parses the leading YYYY-MM-DD token of a timestamp.
// "2023-01-05 10:59:00 +0000" -> 2023-01-05 00:00 UTC
func ParseDate(raw string) (time.Time, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrMalformedDate)
	}
	d, err := time.Parse(dateFormat, fields[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, raw)
	}
	return d, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateFormat)
}
