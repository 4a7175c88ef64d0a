package lookup

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means Ensembl answered but has no usable mapping for the
	// rsID.
	ErrNotFound = errors.New("rsID not found")

	// ErrTransport covers timeouts, connection failures and unexpected HTTP
	// statuses.
	ErrTransport = errors.New("request failed")

	// ErrOffline is returned for unknown rsIDs when remote lookups are
	// disabled.
	ErrOffline = errors.New("rsID not in lookup table and remote lookup is disabled")

	// ErrUndetermined marks rsIDs that are present in a loaded table with a
	// null value.
	ErrUndetermined = errors.New("rsID is recorded as undetermined")

	ErrUnsupportedBuild = errors.New("unsupported genome build")
	ErrMalformedEntry   = errors.New("malformed lookup table entry")
)

// Failure is returned by Table.Get when an rsID cannot be resolved. Nothing
// is cached for the rsID, so a later Get starts over.
type Failure struct {
	RSID     string
	Attempts int
	Err      error
}

func (f *Failure) Error() string {
	if f.Attempts > 0 {
		return fmt.Sprintf("lookup of %s failed after %d attempt(s): %v", f.RSID, f.Attempts, f.Err)
	}

	return fmt.Sprintf("lookup of %s failed: %v", f.RSID, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// IsFailure reports whether err is (or wraps) a lookup Failure.
func IsFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f)
}
