package shared

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberScheme describes one custom-number series: a fixed prefix followed by
// a zero-padded integer suffix, e.g. "BK000042" for {Prefix: "BK", Width: 6}.
// Each entity type that carries a custom number declares its own scheme as an
// explicit configuration value; the allocator and validators receive it as a
// parameter instead of discovering per-type constants by reflection.
type NumberScheme struct {
	Prefix string
	Width  int
}

// Format renders the number n in this series.
func (s NumberScheme) Format(n int64) string {
	return fmt.Sprintf("%s%0*d", s.Prefix, s.Width, n)
}

// Parse extracts the integer suffix of number. It returns false when the
// prefix does not match or the suffix is not a plain positive integer, so
// malformed historical identifiers can be skipped instead of failing an
// allocation.
func (s NumberScheme) Parse(number string) (int64, bool) {
	suffix, ok := strings.CutPrefix(number, s.Prefix)
	if !ok || suffix == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Pattern returns the SQL LIKE pattern matching every number in the series.
func (s NumberScheme) Pattern() string {
	return s.Prefix + "%"
}

// Max returns the largest parseable suffix among the given numbers.
// Malformed entries count as 0. Returns 0 for an empty series.
func (s NumberScheme) Max(numbers []string) int64 {
	var max int64
	for _, number := range numbers {
		if n, ok := s.Parse(number); ok && n > max {
			max = n
		}
	}
	return max
}

// Next computes the next number in the series given every existing number.
// The caller must hold the series lock from this computation until the new
// number is committed; see the persistence layer.
func (s NumberScheme) Next(numbers []string) (string, error) {
	next := s.Max(numbers) + 1
	formatted := s.Format(next)
	// A suffix wider than the configured width would break lexicographic
	// ordering of the series.
	if len(formatted) > len(s.Prefix)+s.Width {
		return "", ErrNumberRangeExhausted
	}
	return formatted, nil
}
