package convert

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/carbocation/array2vcf/lookup"
	"github.com/carbocation/array2vcf/readers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tableJSON = `{"rs1":"A:G:F","rs2":"G:C:F","rs3":"C:T:F","rs4":"T:C:U"}`

func writeFile(t *testing.T, dir, name string, data []byte) string {
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, data, 0644))
	return path
}

func tsv(rows ...[]string) []byte {
	var b bytes.Buffer
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	return b.Bytes()
}

func affyInput() []byte {
	return tsv(
		[]string{"ID", "AffymetrixSNPsID", "rsID", "Chromosome", "Position", "log2ratio_AB", "N_AB", "Call_test", "LOH_likelihood"},
		[]string{"ID1", "AFFY1", "rs2", "2", "300", "0.1", "2", "2", "0.5"},
		[]string{"ID2", "AFFY2", "rs1", "1", "200", "0.1", "1", "1", "0.5"},
		[]string{"ID3", "AFFY3", "rs3", "1", "100", "0.1", "1", "3", "0.5"},
		[]string{"ID4", "AFFY4", "rs4", "23", "50", "0.1", "2", "2", "0.5"},
		[]string{"ID5", "AFFY5", "rs5", "1", "150", "0.1", "2", "2", "0.5"},
	)
}

// records returns the non-header lines of a VCF.
func records(vcf string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSuffix(vcf, "\n"), "\n") {
		if !strings.HasPrefix(line, "#") {
			out = append(out, line)
		}
	}
	return out
}

func TestRunOfflineSortsAndDumps(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Path:           writeFile(t, dir, "affy.txt", affyInput()),
		SampleName:     "NA12878",
		Build:          "grch37",
		ChrPrefix:      "chr",
		LookupTable:    writeFile(t, dir, "table.json", []byte(tableJSON)),
		Dump:           filepath.Join(dir, "dump.json"),
		NoRemoteLookup: true,
	}

	var out bytes.Buffer
	summary, err := Run(context.Background(), cfg, &out)
	require.NoError(t, err)

	assert.Equal(t, readers.Affy, summary.Format)
	assert.Equal(t, 4, summary.Written)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 4, summary.LookupEntries)

	vcf := out.String()
	assert.True(t, strings.HasPrefix(vcf, "##fileformat=VCFv4.2\n"))
	assert.Contains(t, vcf, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tNA12878\n")

	lines := records(vcf)
	require.Len(t, lines, 4)
	assert.Equal(t, "chr1\t100\trs3\tC\tT\t100\tPASS\tID=ID3;AffymetrixSNPsID=AFFY3;log2ratio_AB=0.1;N_AB=1;LOH_likelihood=0.5\tGT\t1/1", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "chr1\t200\trs1\tA\tG\t"))
	assert.True(t, strings.HasSuffix(lines[1], "\tGT\t0/0"))
	assert.True(t, strings.HasPrefix(lines[2], "chr2\t300\trs2\t"))
	assert.True(t, strings.HasPrefix(lines[3], "chrX\t50\trs4\tT\tC\t"))

	dumped, err := ioutil.ReadFile(cfg.Dump)
	require.NoError(t, err)

	var want, got map[string]*string
	require.NoError(t, json.Unmarshal([]byte(tableJSON), &want))
	require.NoError(t, json.Unmarshal(dumped, &got))
	assert.Equal(t, want, got)
}

func TestRunGzipInput(t *testing.T) {
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err := zw.Write(tsv(
		[]string{"Chr", "Name", "Position", "GType", "Log R Ratio", "CNV Value", "B Allele Freq"},
		[]string{"1", "rs1", "200", "AB", "0,25", "2", "0,5"},
		[]string{"2", "rs2", "300", "AA", "0.1", "2", "0.01"},
	))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	dir := t.TempDir()
	cfg := Config{
		Path:           writeFile(t, dir, "lumi.txt.gz", gz.Bytes()),
		SampleName:     "S",
		Build:          lookup.GRCh37,
		LookupTable:    writeFile(t, dir, "table.json", []byte(tableJSON)),
		NoRemoteLookup: true,
	}

	var out bytes.Buffer
	summary, err := Run(context.Background(), cfg, &out)
	require.NoError(t, err)
	assert.Equal(t, readers.Lumi370k, summary.Format)

	assert.Equal(t, []string{
		"1\t200\trs1\tA\tG\t100\tPASS\tLog_R_Ratio=0.25;CNV_Value=2;Allele_Freq=0.5\tGT\t0/1",
		"2\t300\trs2\tG\tC\t100\tPASS\tLog_R_Ratio=0.1;CNV_Value=2;Allele_Freq=0.01\tGT\t0/0",
	}, records(out.String()))
}

func TestRunWindows1252OpenArray(t *testing.T) {
	var in bytes.Buffer
	for i := 0; i < 17; i++ {
		fmt.Fprintf(&in, "* Setting %d = value\n", i)
	}
	in.Write(tsv(
		[]string{"Assay Name", "Assay ID", "Gene Symbol", "NCBI SNP Reference", "Sample ID", "Call", "Chromosome #", "Position"},
		[]string{"Caf\xe9", "C_1", "G\xc9NE", "rs1", "S1", "A/G", "1", "1000"},
		[]string{"Other", "C_2", "", "rs1", "S2", "A/G", "1", "2000"},
		[]string{"Excluded", "C_3", "", "rs1", "S1", "A/G", "1", "3000"},
	))

	dir := t.TempDir()
	cfg := Config{
		Path:           writeFile(t, dir, "openarray.txt", in.Bytes()),
		SampleName:     "S1",
		Build:          lookup.GRCh38,
		Encoding:       "windows-1252",
		ExcludeAssays:  []string{"C_3"},
		LookupTable:    writeFile(t, dir, "table.json", []byte(tableJSON)),
		NoRemoteLookup: true,
	}

	var out bytes.Buffer
	summary, err := Run(context.Background(), cfg, &out)
	require.NoError(t, err)
	assert.Equal(t, readers.OpenArray, summary.Format)
	assert.Equal(t, 2, summary.Skipped)

	assert.Equal(t, []string{
		"1\t1000\trs1\tA\tG\t100\tPASS\tAssay_Name=Café;Assay_ID=C_1;Gene_Symbol=GÉNE\tGT\t0/1",
	}, records(out.String()))
}

func TestRunRemoteLookup(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if strings.HasSuffix(r.URL.Path, "/rs5") {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"rs5 not found for human"}`)
			return
		}
		fmt.Fprint(w, `{"minor_allele":"G","mappings":[{"allele_string":"A/G"}]}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := Config{
		Path:       writeFile(t, dir, "affy.txt", affyInput()),
		SampleName: "S",
		Build:      lookup.GRCh37,
		Dump:       filepath.Join(dir, "dump.json"),
		HTTPClient: srv.Client(),
		Tuning: Tuning{
			RequestTimeout: 5 * time.Second,
			RequestTries:   2,
			GRCh37URL:      srv.URL,
		},
	}

	var out bytes.Buffer
	summary, err := Run(context.Background(), cfg, &out)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Written)
	assert.Equal(t, 1, summary.Skipped)

	// Four rsIDs resolved once each, rs5 tried twice
	assert.Equal(t, 6, hits)

	dumped, err := ioutil.ReadFile(cfg.Dump)
	require.NoError(t, err)
	assert.Equal(t, `{"rs1":"A:G:F","rs2":"A:G:F","rs3":"A:G:F","rs4":"A:G:F"}`, string(dumped))
}

func TestRunConfigurationErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "affy.txt", affyInput())

	_, err := Run(context.Background(), Config{SampleName: "S", Build: lookup.GRCh37}, ioutil.Discard)
	assert.True(t, errors.Is(err, ErrNoPath))

	_, err = Run(context.Background(), Config{Path: path, Build: lookup.GRCh37}, ioutil.Discard)
	assert.True(t, errors.Is(err, ErrNoSample))

	_, err = Run(context.Background(), Config{Path: path, SampleName: "S", Build: "hg19"}, ioutil.Discard)
	assert.True(t, errors.Is(err, lookup.ErrUnsupportedBuild))

	unknown := writeFile(t, dir, "unknown.txt", []byte("this\nis\nnot\nan\narray\n"))
	_, err = Run(context.Background(), Config{Path: unknown, SampleName: "S", Build: lookup.GRCh37, NoRemoteLookup: true}, ioutil.Discard)
	assert.Error(t, err)

	corrupt := writeFile(t, dir, "corrupt.json", []byte(`{"rs1":"A:G:maybe"}`))
	_, err = Run(context.Background(), Config{Path: path, SampleName: "S", Build: lookup.GRCh37, LookupTable: corrupt}, ioutil.Discard)
	assert.Error(t, err)
}

func TestLoadTuning(t *testing.T) {
	tuning, err := LoadTuning()
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, tuning.RequestTimeout)
	assert.Equal(t, 1, tuning.RequestTries)

	t.Setenv("ARRAY2VCF_REQUEST_TIMEOUT", "5s")
	t.Setenv("ARRAY2VCF_REQUEST_TRIES", "3")
	t.Setenv("ARRAY2VCF_GRCH38_URL", "http://mirror.example")

	tuning, err = LoadTuning()
	require.NoError(t, err)
	assert.Equal(t, Tuning{
		RequestTimeout: 5 * time.Second,
		RequestTries:   3,
		GRCh38URL:      "http://mirror.example",
	}, tuning)
}
