package readers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/array2vcf/lookup"
	"github.com/carbocation/array2vcf/variation"
)

// OpenArray column names, as they appear on the last header line.
const (
	oaChrom      = "Chromosome #"
	oaPosition   = "Position"
	oaSample     = "Sample ID"
	oaRSID       = "NCBI SNP Reference"
	oaAssayName  = "Assay Name"
	oaAssayID    = "Assay ID"
	oaGeneSymbol = "Gene Symbol"
	oaCall       = "Call"
)

var oaRequired = []string{oaChrom, oaPosition, oaSample, oaRSID, oaAssayName, oaAssayID, oaCall}

// FilterNonRefHet marks heterozygous calls in which neither allele is the
// reference. Their GT of 0/1 does not hold and should be read as 1/2.
const FilterNonRefHet = "NonRefHet"

// Rows with fewer fields than this are dropped.
const oaMinFields = 8

// Calls that mean the assay produced no genotype.
var noCalls = map[string]struct{}{
	"NOAMP":  {},
	"UND":    {},
	"INV":    {},
	"NOCALL": {},
	"-":      {},
	"":       {},
}

// OpenArrayReader reads OpenArray exports. Columns are located by name on the
// last of the 18 header lines, so their order may vary between files.
type OpenArrayReader struct {
	*base
	cols     map[string]int
	excluded map[string]struct{}
}

func NewOpenArrayReader(r io.Reader, opts Options) (*OpenArrayReader, error) {
	b, err := newBase(OpenArray, r, opts)
	if err != nil {
		return nil, err
	}

	cols := make(map[string]int)
	for i, name := range splitRow(strings.TrimRight(b.headerLines[len(b.headerLines)-1], "\r\n")) {
		if name == "" {
			continue
		}
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, name := range oaRequired {
		if _, ok := cols[name]; !ok {
			missing = append(missing, strconv.Quote(name))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	excluded := make(map[string]struct{}, len(opts.ExcludeAssays))
	for _, id := range opts.ExcludeAssays {
		excluded[strings.TrimSpace(id)] = struct{}{}
	}

	b.addInfo("Assay_Name", variation.NumberOne, variation.TypeString)
	b.addInfo("Assay_ID", variation.NumberOne, variation.TypeString)
	b.addInfo("Gene_Symbol", variation.NumberUnknown, variation.TypeString)
	b.addFilter(FilterNonRefHet, "Heterozygous call without the reference allele")

	return &OpenArrayReader{
		base:     b,
		cols:     cols,
		excluded: excluded,
	}, nil
}

// field returns the trimmed value of the named column, or "" when the row is
// too short to hold it.
func (o *OpenArrayReader) field(row []string, name string) string {
	i, ok := o.cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (o *OpenArrayReader) Read() *variation.Variant {
	for {
		row, ok := o.nextRow()
		if !ok {
			return nil
		}

		if len(row) < oaMinFields {
			o.skip("too few fields", nil)
			continue
		}

		assayID := o.field(row, oaAssayID)
		if _, excluded := o.excluded[assayID]; excluded {
			o.skip("excluded assay "+assayID, nil)
			continue
		}

		if o.opts.Sample != "" && o.field(row, oaSample) != o.opts.Sample {
			o.skip("other sample", nil)
			continue
		}

		chrom, rawPos, rsID := o.field(row, oaChrom), o.field(row, oaPosition), o.field(row, oaRSID)
		if chrom == "" || rawPos == "" || rsID == "" {
			o.skip("empty chromosome, position or rsID", nil)
			continue
		}

		pos, err := strconv.Atoi(rawPos)
		if err != nil {
			o.skip("bad position", err)
			continue
		}

		var info rowInfo
		info.add("Assay_Name", o.field(row, oaAssayName), variation.NumberOne)
		info.add("Assay_ID", assayID, variation.NumberOne)
		if genes := geneSymbols(o.field(row, oaGeneSymbol)); len(genes) > 0 {
			info.add("Gene_Symbol", genes, variation.NumberUnknown)
		}
		if info.err != nil {
			o.skip("bad INFO field", info.err)
			continue
		}

		q, ok := o.resolve(rsID)
		if !ok {
			if o.err != nil {
				return nil
			}
			continue
		}

		gt, alt := openArrayCall(o.field(row, oaCall), q)

		var filters []string
		if gt == variation.Het && len(alt) > 1 {
			filters = append(filters, FilterNonRefHet)
		}

		return &variation.Variant{
			Chrom:    o.chrom(chrom),
			Pos:      pos,
			ID:       rsID,
			Ref:      q.Ref,
			Alt:      alt,
			Qual:     o.opts.quality(),
			Filters:  filters,
			Info:     info.fields,
			Genotype: gt,
		}
	}
}

// openArrayCall derives the genotype and ALT alleles from an OpenArray call
// such as "A/G", given the looked up reference.
func openArrayCall(call string, q lookup.QueryResult) (variation.Genotype, []string) {
	noCall := []string{"."}

	call = strings.ToUpper(strings.TrimSpace(call))
	if _, ok := noCalls[call]; ok {
		return variation.GenotypeUnknown, noCall
	}

	for _, r := range call {
		if !strings.ContainsRune("ACGTN/", r) {
			return variation.GenotypeUnknown, noCall
		}
	}

	var alleles []string
	for _, allele := range strings.Split(call, "/") {
		if allele == "" || contains(alleles, allele) {
			continue
		}
		alleles = append(alleles, allele)
	}

	switch len(alleles) {
	case 2:
		var alt []string
		for _, allele := range alleles {
			if allele != q.Ref {
				alt = append(alt, allele)
			}
		}
		return variation.Het, alt
	case 1:
		if alleles[0] == q.Ref {
			return variation.HomRef, q.Alt
		}
		return variation.HomAlt, alleles
	}

	return variation.GenotypeUnknown, noCall
}

func geneSymbols(s string) []string {
	var out []string
	for _, gene := range strings.Split(s, ";") {
		if gene = strings.TrimSpace(gene); gene != "" {
			out = append(out, gene)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
