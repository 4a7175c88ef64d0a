package lookup

import (
	"fmt"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// QueryResult holds the alleles of one rsID. RefIsMinor is invalid (null)
// when the database carries no minor allele for the variant.
type QueryResult struct {
	Ref        string
	Alt        []string
	RefIsMinor null.Bool
}

// Serialize renders the result as REF:ALT1,ALT2:T|F|U.
func (q QueryResult) Serialize() string {
	minor := "U"
	if q.RefIsMinor.Valid {
		if q.RefIsMinor.Bool {
			minor = "T"
		} else {
			minor = "F"
		}
	}

	return fmt.Sprintf("%s:%s:%s", q.Ref, strings.Join(q.Alt, ","), minor)
}

// Deserialize is the inverse of Serialize. An empty ALT part yields a nil Alt.
func Deserialize(s string) (QueryResult, error) {
	items := strings.Split(s, ":")
	if len(items) != 3 {
		return QueryResult{}, fmt.Errorf("%w: cannot deserialize %q", ErrMalformedEntry, s)
	}

	out := QueryResult{Ref: items[0]}
	if items[1] != "" {
		out.Alt = strings.Split(items[1], ",")
	}

	switch items[2] {
	case "T":
		out.RefIsMinor = null.BoolFrom(true)
	case "F":
		out.RefIsMinor = null.BoolFrom(false)
	case "U":
		out.RefIsMinor = null.Bool{}
	default:
		return QueryResult{}, fmt.Errorf("%w: minor allele flag %q in %q is not one of T, F, U", ErrMalformedEntry, items[2], s)
	}

	return out, nil
}
