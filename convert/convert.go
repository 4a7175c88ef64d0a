package convert

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/carbocation/array2vcf"
	"github.com/carbocation/array2vcf/lookup"
	"github.com/carbocation/array2vcf/readers"
	"github.com/carbocation/array2vcf/variation"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
)

// Summary reports what a run did.
type Summary struct {
	Format        readers.Format
	Written       int
	Skipped       int
	LookupEntries int
}

// Run converts the array export described by cfg and writes the VCF to w.
// Variants are buffered and sorted by (chromosome, position) before anything
// but the header is written.
func Run(ctx context.Context, cfg Config, w io.Writer) (Summary, error) {
	var summary Summary

	if err := cfg.validate(); err != nil {
		return summary, err
	}

	var client *storage.Client
	if array2vcf.NeedsStorageClient(cfg.Path, cfg.LookupTable, cfg.Dump) {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			return summary, pfx.Err(err)
		}
		defer client.Close()
	}

	table, err := openTable(ctx, cfg, client)
	if err != nil {
		return summary, err
	}

	in, err := array2vcf.OpenInput(ctx, cfg.Path, cfg.Encoding, client)
	if err != nil {
		return summary, err
	}
	defer in.Close()

	format, src := cfg.Format, io.Reader(in)
	if format == readers.FormatUnknown {
		format, src, err = readers.Autodetect(in)
		if err != nil {
			if d := array2vcf.DetermineDelimiter(src); d != '\t' {
				err = fmt.Errorf("%w (input looks %q-delimited, not tab-delimited)", err, d)
			}
			return summary, pfx.Err(fmt.Errorf("%s: %w", cfg.Path, err))
		}
	}
	summary.Format = format
	log.Printf("Reading %s as %s\n", cfg.Path, format)

	reader, err := readers.New(format, src, readers.Options{
		Lookup:        table,
		ChrPrefix:     cfg.ChrPrefix,
		Sample:        cfg.SampleName,
		ExcludeAssays: cfg.ExcludeAssays,
		Context:       ctx,
	})
	if err != nil {
		return summary, pfx.Err(err)
	}

	var variants []*variation.Variant
	for v := reader.Read(); v != nil; v = reader.Read() {
		variants = append(variants, v)
	}
	readErr := reader.Err()

	summary.Skipped = reader.Skipped()
	summary.LookupEntries = table.Len()

	// Lookups made so far are worth keeping even if reading failed
	if cfg.Dump != "" {
		if err := dumpTable(ctx, table, cfg.Dump, client); err != nil {
			if readErr == nil {
				return summary, err
			}
			log.Errorln(err)
		}
	}

	if readErr != nil {
		return summary, pfx.Err(readErr)
	}

	variation.Sort(variants)

	bw := bufio.NewWriter(w)
	if _, err := io.WriteString(bw, reader.Header(cfg.SampleName)); err != nil {
		return summary, pfx.Err(err)
	}
	for _, v := range variants {
		if _, err := fmt.Fprintln(bw, v.VCFLine()); err != nil {
			return summary, pfx.Err(err)
		}
		summary.Written++
	}
	if err := bw.Flush(); err != nil {
		return summary, pfx.Err(err)
	}

	log.Printf("Wrote %d variants; skipped %d rows; lookup table holds %d entries\n", summary.Written, summary.Skipped, summary.LookupEntries)

	return summary, nil
}

func openTable(ctx context.Context, cfg Config, client *storage.Client) (*lookup.Table, error) {
	if cfg.LookupTable == "" {
		return lookup.New(cfg.Build, cfg.tableOptions()...)
	}

	// Tables may be stored compressed
	f, err := array2vcf.OpenInput(ctx, cfg.LookupTable, "", client)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := lookup.Load(f, cfg.Build, cfg.tableOptions()...)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", cfg.LookupTable, err))
	}
	log.Printf("Loaded %d lookup entries from %s\n", table.Len(), cfg.LookupTable)

	return table, nil
}

func dumpTable(ctx context.Context, table *lookup.Table, path string, client *storage.Client) error {
	w, err := array2vcf.MaybeCreateOnGoogleStorage(ctx, path, client)
	if err != nil {
		return err
	}

	if err := table.DumpTo(w); err != nil {
		w.Close()
		return pfx.Err(err)
	}
	if err := w.Close(); err != nil {
		return pfx.Err(err)
	}
	log.Printf("Dumped %d lookup entries to %s\n", table.Len(), path)

	return nil
}
