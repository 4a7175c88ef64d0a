package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRequestTimeout = 120 * time.Second
	DefaultRequestTries   = 1
)

// Fetcher resolves a single rsID against a remote variant database.
type Fetcher interface {
	Fetch(ctx context.Context, rsID string, build Build) (QueryResult, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, rsID string, build Build) (QueryResult, error)

func (f FetcherFunc) Fetch(ctx context.Context, rsID string, build Build) (QueryResult, error) {
	return f(ctx, rsID, build)
}

// Table is the allele lookup cache. Results are memoized per rsID; failures
// are not. A Table is safe for concurrent use, and concurrent Gets of the same
// missing rsID share a single fetch.
type Table struct {
	build      Build
	fetcher    Fetcher
	tries      int
	timeout    time.Duration
	remote     bool
	newBackOff func() backoff.BackOff

	mu      sync.Mutex
	entries map[string]*QueryResult
	flight  singleflight.Group
}

type Option func(*Table)

// WithFetcher replaces the default Ensembl client.
func WithFetcher(f Fetcher) Option {
	return func(t *Table) { t.fetcher = f }
}

// WithRequestTries bounds the number of fetch attempts per rsID. Values below
// one are treated as one.
func WithRequestTries(n int) Option {
	return func(t *Table) { t.tries = n }
}

// WithRequestTimeout bounds each individual fetch attempt.
func WithRequestTimeout(d time.Duration) Option {
	return func(t *Table) { t.timeout = d }
}

// WithoutRemoteLookup makes every rsID that is not already in the table fail
// immediately.
func WithoutRemoteLookup() Option {
	return func(t *Table) { t.remote = false }
}

// WithRemoteLookup toggles remote lookups.
func WithRemoteLookup(enabled bool) Option {
	return func(t *Table) { t.remote = enabled }
}

// WithBackOff sets the pause policy between attempts. The factory is called
// once per lookup.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(t *Table) { t.newBackOff = newBackOff }
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	// The number of tries bounds the retries, not the elapsed time.
	b.MaxElapsedTime = 0
	return b
}

// New creates an empty table for the given build.
func New(build Build, opts ...Option) (*Table, error) {
	return newTable(build, make(map[string]*QueryResult), opts...)
}

func newTable(build Build, entries map[string]*QueryResult, opts ...Option) (*Table, error) {
	build, err := ParseBuild(string(build))
	if err != nil {
		return nil, err
	}

	t := &Table{
		build:      build,
		tries:      DefaultRequestTries,
		timeout:    DefaultRequestTimeout,
		remote:     true,
		newBackOff: defaultBackOff,
		entries:    entries,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.fetcher == nil {
		t.fetcher = NewEnsemblClient(nil)
	}

	if t.tries < 1 {
		t.tries = 1
	}

	return t, nil
}

// Load builds a table pre-populated from a JSON object mapping rsID to a
// serialized QueryResult or null. Any malformed entry aborts the load.
func Load(r io.Reader, build Build, opts ...Option) (*Table, error) {
	raw := make(map[string]*string)
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}

	entries := make(map[string]*QueryResult, len(raw))
	for rsID, serialized := range raw {
		if serialized == nil {
			entries[rsID] = nil
			continue
		}

		q, err := Deserialize(*serialized)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rsID, err)
		}
		entries[rsID] = &q
	}

	return newTable(build, entries, opts...)
}

// Build returns the assembly the table resolves against.
func (t *Table) Build() Build {
	return t.build
}

// Len is the number of cached entries, including undetermined ones.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}

func (t *Table) cached(rsID string) (*QueryResult, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	q, ok := t.entries[rsID]
	return q, ok
}

// Get returns the alleles of rsID, fetching them on first use. Any error is a
// *Failure.
func (t *Table) Get(ctx context.Context, rsID string) (QueryResult, error) {
	if q, ok := t.cached(rsID); ok {
		if q == nil {
			return QueryResult{}, &Failure{RSID: rsID, Err: ErrUndetermined}
		}
		return *q, nil
	}

	if !t.remote {
		return QueryResult{}, &Failure{RSID: rsID, Err: ErrOffline}
	}

	v, err, _ := t.flight.Do(rsID, func() (interface{}, error) {
		// Another caller may have finished the same fetch between our cache
		// check and joining the flight.
		if q, ok := t.cached(rsID); ok && q != nil {
			return *q, nil
		}

		q, err := t.fetch(ctx, rsID)
		if err != nil {
			return nil, err
		}

		t.mu.Lock()
		t.entries[rsID] = &q
		t.mu.Unlock()

		return q, nil
	})
	if err != nil {
		return QueryResult{}, err
	}

	return v.(QueryResult), nil
}

func (t *Table) fetch(ctx context.Context, rsID string) (QueryResult, error) {
	var (
		result   QueryResult
		attempts int
	)

	operation := func() error {
		attempts++

		attemptCtx, cancel := context.WithTimeout(ctx, t.timeout)
		defer cancel()

		q, err := t.fetcher.Fetch(attemptCtx, rsID, t.build)
		if err == nil {
			result = q
			return nil
		}

		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if errors.Is(err, ErrUnsupportedBuild) {
			return backoff.Permanent(err)
		}

		log.WithFields(log.Fields{
			"rsid":    rsID,
			"attempt": attempts,
			"tries":   t.tries,
		}).Debugln("Lookup attempt failed:", err)

		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(t.newBackOff(), uint64(t.tries-1)), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return QueryResult{}, &Failure{RSID: rsID, Attempts: attempts, Err: err}
	}

	return result, nil
}

// Dump serializes every entry, undetermined ones as null.
func (t *Table) Dump() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]*string, len(t.entries))
	for rsID, q := range t.entries {
		if q == nil {
			out[rsID] = nil
			continue
		}
		s := q.Serialize()
		out[rsID] = &s
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// DumpTo writes the output of Dump to w.
func (t *Table) DumpTo(w io.Writer) error {
	s, err := t.Dump()
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, s)
	return err
}
