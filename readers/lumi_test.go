package readers

import (
	"testing"

	"github.com/carbocation/array2vcf/lookup"
	"github.com/carbocation/array2vcf/variation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func TestLumi317kFixture(t *testing.T) {
	r, err := New(Lumi317k, openFixture(t, "lumi317k.txt"), Options{Lookup: offlineTable(t)})
	require.NoError(t, err)

	variants := readAll(t, r)
	require.Len(t, variants, 4)

	assert.Equal(t, "1", variants[0].Chrom)
	assert.Equal(t, "rs123", variants[0].ID)
	assert.Equal(t, variation.Het, variants[0].Genotype)
	assert.Equal(t, "1\t1000\trs123\tA\tG\t100\tPASS\tLog_R_Ratio=0.12;CNV_Value=2;Allele_Freq=0.5\tGT\t0/1", variants[0].VCFLine())

	// Reference is minor for rs456
	assert.Equal(t, variation.HomAlt, variants[1].Genotype)
	assert.Equal(t, -0.1, variants[1].Info[0].Value)

	// Minor allele unknown for rs789, so BB counts as hom alt
	assert.Equal(t, variation.HomAlt, variants[2].Genotype)

	// NC
	assert.Equal(t, 1001, variants[3].Pos)
	assert.Equal(t, variation.GenotypeUnknown, variants[3].Genotype)

	// Mixed decimal separators
	assert.Equal(t, 1, r.Skipped())
}

func TestLumi370kFixture(t *testing.T) {
	r, err := New(Lumi370k, openFixture(t, "lumi370k.txt"), Options{Lookup: offlineTable(t), ChrPrefix: "chr"})
	require.NoError(t, err)
	assert.Equal(t, Lumi370k, r.Format())

	variants := readAll(t, r)
	require.Len(t, variants, 2)

	assert.Equal(t, "chr1", variants[0].Chrom)
	assert.Equal(t, "rs123", variants[0].ID)
	assert.Equal(t, variation.Het, variants[0].Genotype)

	assert.Equal(t, "chr2", variants[1].Chrom)
	assert.Equal(t, variation.HomRef, variants[1].Genotype)
	assert.Equal(t, []variation.InfoField{
		{Name: "Log_R_Ratio", Value: -0.1, Number: variation.NumberOne},
		{Name: "CNV_Value", Value: 1, Number: variation.NumberOne},
		{Name: "Allele_Freq", Value: 0.99, Number: variation.NumberOne},
	}, variants[1].Info)

	assert.Equal(t, 1, r.Skipped())
}

func TestLumiGenotype(t *testing.T) {
	notMinor := lookup.QueryResult{RefIsMinor: null.BoolFrom(false)}
	minor := lookup.QueryResult{RefIsMinor: null.BoolFrom(true)}

	assert.Equal(t, variation.GenotypeUnknown, lumiGenotype("NC", notMinor))
	assert.Equal(t, variation.Het, lumiGenotype("AB", notMinor))
	assert.Equal(t, variation.Het, lumiGenotype("BA", lookup.QueryResult{}))
	assert.Equal(t, variation.HomRef, lumiGenotype("AA", notMinor))
	assert.Equal(t, variation.HomAlt, lumiGenotype("AA", minor))
	assert.Equal(t, variation.HomAlt, lumiGenotype("BB", notMinor))
	assert.Equal(t, variation.HomRef, lumiGenotype("BB", minor))
	assert.Equal(t, variation.HomAlt, lumiGenotype("BB", lookup.QueryResult{}))
	assert.Equal(t, variation.HomRef, lumiGenotype("AA", lookup.QueryResult{Ref: "A"}))
	assert.Equal(t, variation.GenotypeUnknown, lumiGenotype("--", minor))
}
