// Package readers turns vendor array exports into VCF variants.
package readers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/carbocation/array2vcf/lookup"
	"github.com/carbocation/array2vcf/variation"
	"gopkg.in/guregu/null.v3"
)

// DefaultQuality is written to QUAL for formats that carry no per-call
// confidence.
const DefaultQuality = 100

var (
	ErrUnknownFormat   = errors.New("unknown array format")
	ErrTruncatedHeader = errors.New("file ends inside its header")
	ErrMissingColumn   = errors.New("required column missing from header")
	ErrNoLookup        = errors.New("no allele lookup configured")
)

// Reader produces variants from one array export, one row at a time. Read
// returns nil when the input is exhausted or an error occurred; check Err
// afterwards, like a bufio.Scanner.
type Reader interface {
	Read() *variation.Variant
	Err() error
	Header(sample string) string
	Format() Format
	Skipped() int
}

// Lookup resolves rsIDs to their alleles. *lookup.Table satisfies it.
type Lookup interface {
	Get(ctx context.Context, rsID string) (lookup.QueryResult, error)
}

type Options struct {
	Lookup Lookup

	// ChrPrefix is prepended to every emitted chromosome, e.g. "chr".
	ChrPrefix string

	// Quality overrides DefaultQuality for formats without a confidence
	// column.
	Quality null.Float

	// Sample restricts OpenArray rows to one sample ID. Empty keeps every
	// row.
	Sample string

	// ExcludeAssays lists OpenArray assay IDs whose rows are dropped.
	ExcludeAssays []string

	// Context bounds the allele lookups. Defaults to context.Background.
	Context context.Context
}

func (o Options) quality() float64 {
	if o.Quality.Valid {
		return o.Quality.Float64
	}
	return DefaultQuality
}

// New builds the reader for format over r. The format's header lines are
// consumed before New returns.
func New(format Format, r io.Reader, opts Options) (Reader, error) {
	if opts.Lookup == nil {
		return nil, ErrNoLookup
	}

	var (
		rd  Reader
		err error
	)

	switch format {
	case Affy:
		var a *AffyReader
		a, err = NewAffyReader(r, opts)
		rd = a
	case CytoScan:
		var c *CytoScanReader
		c, err = NewCytoScanReader(r, opts)
		rd = c
	case Lumi317k, Lumi370k:
		layout := Lumi317kLayout
		if format == Lumi370k {
			layout = Lumi370kLayout
		}
		var l *LumiReader
		l, err = NewLumiReader(r, layout, opts)
		rd = l
	case OpenArray:
		var o *OpenArrayReader
		o, err = NewOpenArrayReader(r, opts)
		rd = o
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}

	// Keep a nil concrete reader from becoming a non-nil Reader
	if err != nil {
		return nil, err
	}

	return rd, nil
}
