package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/carbocation/array2vcf/compileinfoprint"
	"github.com/carbocation/array2vcf/convert"
	"github.com/carbocation/array2vcf/lookup"
	"github.com/carbocation/array2vcf/readers"
	log "github.com/sirupsen/logrus"
)

func main() {
	var path, sampleName, build, chrPrefix, lookupTable, dump, encoding, format, logLevel string
	var excludeAssays flagSlice
	var noEnsemblLookup bool

	flag.StringVar(&path, "path", "", "Path to the array export. Optionally, may be a google storage URL (gs://) and may be compressed.")
	flag.StringVar(&sampleName, "sample-name", "", "Name of the sample in the VCF. For OpenArray files, only rows of this Sample ID are kept.")
	flag.StringVar(&build, "build", string(lookup.GRCh37), "Genome build used for rsID lookups: GRCh37 or GRCh38")
	flag.StringVar(&chrPrefix, "chr-prefix", "", "Prefix prepended to every chromosome name, e.g. 'chr'")
	flag.StringVar(&lookupTable, "lookup-table", "", "Optional path to a lookup table dumped by a previous run (gs:// allowed)")
	flag.StringVar(&dump, "dump", "", "Optional path where the updated lookup table is written at the end of the run (gs:// allowed)")
	flag.StringVar(&encoding, "encoding", "UTF-8", "Text encoding of the array export, e.g. windows-1252")
	flag.StringVar(&format, "format", "", "Array format. Autodetected if empty. One of: Affymetrix, CytoScan, Lumi317k, Lumi370k, OpenArray")
	flag.Var(&excludeAssays, "exclude-assays", "OpenArray assay IDs to drop. Pass more than once or as a comma-separated list.")
	flag.BoolVar(&noEnsemblLookup, "no-ensembl-lookup", false, "Never query Ensembl. rsIDs missing from -lookup-table are skipped.")
	flag.StringVar(&logLevel, "log-level", "INFO", "Log verbosity: DEBUG, INFO, WARNING or ERROR")
	flag.Parse()

	level, err := log.ParseLevel(logLevel)
	if err != nil {
		flag.Usage()
		log.Fatalln(err)
	}
	log.SetLevel(level)

	if path == "" {
		flag.Usage()
		log.Fatalln("Must specify a --path")
	}

	if sampleName == "" {
		flag.Usage()
		log.Fatalln("Must specify a --sample-name")
	}

	b, err := lookup.ParseBuild(build)
	if err != nil {
		flag.Usage()
		log.Fatalln(err)
	}

	cfg := convert.Config{
		Path:           path,
		SampleName:     sampleName,
		Build:          b,
		ChrPrefix:      chrPrefix,
		Encoding:       encoding,
		ExcludeAssays:  excludeAssays,
		LookupTable:    lookupTable,
		Dump:           dump,
		NoRemoteLookup: noEnsemblLookup,
	}

	if format != "" {
		cfg.Format, err = readers.ParseFormat(format)
		if err != nil {
			flag.Usage()
			log.Fatalln(err)
		}
	}

	cfg.Tuning, err = convert.LoadTuning()
	if err != nil {
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bw := bufio.NewWriter(os.Stdout)
	defer bw.Flush()

	summary, err := convert.Run(ctx, cfg, bw)
	if err != nil {
		bw.Flush()
		log.Fatalln(err)
	}

	log.WithFields(log.Fields{
		"format":  summary.Format,
		"written": summary.Written,
		"skipped": summary.Skipped,
		"lookups": summary.LookupEntries,
	}).Infoln("Conversion complete")
}
