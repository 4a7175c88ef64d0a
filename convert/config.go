package convert

import (
	"errors"
	"net/http"
	"time"

	"github.com/carbocation/array2vcf/lookup"
	"github.com/carbocation/array2vcf/readers"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces the environment variables read by LoadTuning, e.g.
// ARRAY2VCF_REQUEST_TRIES.
const EnvPrefix = "ARRAY2VCF"

var (
	ErrNoPath   = errors.New("an input path is required")
	ErrNoSample = errors.New("a sample name is required")
)

// Tuning controls remote allele lookups. It is read from the environment
// rather than from flags.
type Tuning struct {
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"120s"`
	RequestTries   int           `envconfig:"REQUEST_TRIES" default:"1"`
	GRCh37URL      string        `envconfig:"GRCH37_URL"`
	GRCh38URL      string        `envconfig:"GRCH38_URL"`
}

func LoadTuning() (Tuning, error) {
	var t Tuning
	err := envconfig.Process(EnvPrefix, &t)
	return t, err
}

// Config describes one conversion run.
type Config struct {
	Path       string
	SampleName string
	Build      lookup.Build

	// Format skips autodetection when set.
	Format readers.Format

	ChrPrefix     string
	Encoding      string
	ExcludeAssays []string

	// LookupTable is an optional previously dumped table to start from, and
	// Dump is where the table is written after the run. Either may be a gs://
	// path.
	LookupTable string
	Dump        string

	NoRemoteLookup bool
	Tuning         Tuning

	// HTTPClient is used for Ensembl requests. Nil means http.DefaultClient.
	HTTPClient *http.Client
}

// validate checks the required settings and normalizes the build name.
func (c *Config) validate() error {
	if c.Path == "" {
		return ErrNoPath
	}
	if c.SampleName == "" {
		return ErrNoSample
	}

	build, err := lookup.ParseBuild(string(c.Build))
	if err != nil {
		return err
	}
	c.Build = build

	return nil
}

func (c Config) tableOptions() []lookup.Option {
	client := lookup.NewEnsemblClient(c.HTTPClient)
	if c.Tuning.GRCh37URL != "" {
		client.URLs[lookup.GRCh37] = c.Tuning.GRCh37URL
	}
	if c.Tuning.GRCh38URL != "" {
		client.URLs[lookup.GRCh38] = c.Tuning.GRCh38URL
	}

	opts := []lookup.Option{
		lookup.WithFetcher(client),
		lookup.WithRemoteLookup(!c.NoRemoteLookup),
	}
	if c.Tuning.RequestTries > 0 {
		opts = append(opts, lookup.WithRequestTries(c.Tuning.RequestTries))
	}
	if c.Tuning.RequestTimeout > 0 {
		opts = append(opts, lookup.WithRequestTimeout(c.Tuning.RequestTimeout))
	}

	return opts
}
