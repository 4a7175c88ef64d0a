package readers

import (
	"fmt"
	"strconv"
	"strings"
)

// CommaFloat parses a float that may use a comma as its decimal separator, as
// some locales export. A value holding both a comma and a dot is ambiguous
// and rejected.
func CommaFloat(s string) (float64, error) {
	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		return 0, fmt.Errorf("cannot parse %q: contains both commas and dots", s)
	case hasComma:
		s = strings.Replace(s, ",", ".", -1)
	}

	return strconv.ParseFloat(s, 64)
}
