package readers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/carbocation/array2vcf/lookup"
	"github.com/carbocation/array2vcf/variation"
	log "github.com/sirupsen/logrus"
)

// Lines longer than this are treated as a read error.
const maxLineBytes = 16 * 1024 * 1024

// base holds what every reader shares: the row scanner, the consumed header
// lines, the VCF header declarations and the skip counter.
type base struct {
	format  Format
	opts    Options
	ctx     context.Context
	scanner *bufio.Scanner
	line    int
	err     error
	skipped int

	headerLines  []string
	headerFields []string
}

func newBase(format Format, r io.Reader, opts Options) (*base, error) {
	b := &base{
		format:       format,
		opts:         opts,
		ctx:          opts.Context,
		scanner:      bufio.NewScanner(r),
		headerFields: variation.DefaultHeader(time.Now()),
	}
	if b.ctx == nil {
		b.ctx = context.Background()
	}
	b.scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for i := 0; i < format.HeaderLines(); i++ {
		if !b.scanner.Scan() {
			if err := b.scanner.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%v: %w after %d of %d lines", format, ErrTruncatedHeader, i, format.HeaderLines())
		}
		b.line++
		b.headerLines = append(b.headerLines, b.scanner.Text())
	}

	return b, nil
}

func (b *base) addInfo(id string, number variation.InfoNumber, typ variation.InfoType) {
	b.headerFields = append(b.headerFields, variation.InfoHeader(id, number, typ, ""))
}

func (b *base) addFilter(id, description string) {
	b.headerFields = append(b.headerFields, variation.FilterHeader(id, description))
}

func (b *base) Header(sample string) string {
	var sb strings.Builder
	for _, field := range b.headerFields {
		sb.WriteString(field)
		sb.WriteByte('\n')
	}
	sb.WriteString(variation.ChromHeader(sample))
	sb.WriteByte('\n')

	return sb.String()
}

func (b *base) Format() Format {
	return b.format
}

func (b *base) Skipped() int {
	return b.skipped
}

func (b *base) Err() error {
	if b.err != nil {
		return b.err
	}

	return b.scanner.Err()
}

// nextRow returns the next non-blank row split on tabs, each cell trimmed, or
// false once the input is exhausted or reading failed. Empty leading and
// trailing cells are kept so that columns stay in place.
func (b *base) nextRow() ([]string, bool) {
	if b.err != nil {
		return nil, false
	}

	for b.scanner.Scan() {
		b.line++
		text := strings.TrimRight(b.scanner.Text(), "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		return splitRow(text), true
	}

	return nil, false
}

func splitRow(text string) []string {
	cells := strings.Split(text, "\t")
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(cell)
	}
	return cells
}

func (b *base) chrom(raw string) string {
	return b.opts.ChrPrefix + raw
}

// skip drops the current row.
func (b *base) skip(reason string, err error) {
	b.skipped++

	entry := log.WithFields(log.Fields{
		"format": b.format.String(),
		"line":   b.line,
		"reason": reason,
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Debugln("Skipping row")
}

// resolve looks up rsID. When it fails the row is skipped and false is
// returned. A cancelled context ends the whole read instead.
func (b *base) resolve(rsID string) (lookup.QueryResult, bool) {
	q, err := b.opts.Lookup.Get(b.ctx, rsID)
	if err == nil {
		return q, true
	}

	if ctxErr := b.ctx.Err(); ctxErr != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		b.err = ctxErr
		return q, false
	}

	b.skip("unresolved rsID "+rsID, err)
	return q, false
}

// rowInfo collects the INFO fields of one row and keeps the first
// construction error.
type rowInfo struct {
	fields []variation.InfoField
	err    error
}

func (ri *rowInfo) add(name string, value interface{}, number variation.InfoNumber) {
	if ri.err != nil {
		return
	}

	f, err := variation.NewInfoField(name, value, number, false)
	if err != nil {
		ri.err = err
		return
	}
	ri.fields = append(ri.fields, f)
}

// byMinor picks the genotype for a homozygous call whose meaning depends on
// whether the reference is the minor allele. An unknown flag counts as not
// minor.
func byMinor(q lookup.QueryResult, refNotMinor, refMinor variation.Genotype) variation.Genotype {
	if q.RefIsMinor.Valid && q.RefIsMinor.Bool {
		return refMinor
	}
	return refNotMinor
}

// distinctLetters returns the distinct upper-cased letters of s in order of
// first appearance.
func distinctLetters(s string) []string {
	var out []string
	seen := make(map[rune]bool)
	for _, r := range strings.ToUpper(s) {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, string(r))
	}

	return out
}
