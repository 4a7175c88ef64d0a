package variation

import (
	"strconv"
	"strings"
)

// Variant is one normalized call at a genomic site, for a single sample.
type Variant struct {
	Chrom    string
	Pos      int
	ID       string
	Ref      string
	Alt      []string
	Qual     float64
	Filters  []string
	Info     []InfoField
	Genotype Genotype
}

// VCFLine renders the variant as a tab-delimited VCF record, without the
// trailing newline. The FORMAT and sample columns are only written when the
// variant carries a genotype.
func (v *Variant) VCFLine() string {
	var b strings.Builder

	b.WriteString(v.Chrom)
	b.WriteByte('\t')
	b.WriteString(strconv.Itoa(v.Pos))
	b.WriteByte('\t')
	b.WriteString(orDot(v.ID))
	b.WriteByte('\t')
	b.WriteString(orDot(v.Ref))
	b.WriteByte('\t')
	b.WriteString(orDot(strings.Join(v.Alt, ",")))
	b.WriteByte('\t')
	b.WriteString(strconv.FormatFloat(v.Qual, 'g', -1, 64))
	b.WriteByte('\t')
	if len(v.Filters) > 0 {
		b.WriteString(strings.Join(v.Filters, ","))
	} else {
		b.WriteString("PASS")
	}

	if len(v.Info) > 0 || v.Genotype != GenotypeNone {
		b.WriteByte('\t')
		b.WriteString(orDot(v.infoColumn()))
	}

	if v.Genotype != GenotypeNone {
		b.WriteString("\tGT\t")
		b.WriteString(v.Genotype.String())
	}

	return b.String()
}

func (v *Variant) infoColumn() string {
	fields := make([]string, 0, len(v.Info))
	for _, f := range v.Info {
		if s := f.String(); s != "" {
			fields = append(fields, s)
		}
	}

	return strings.Join(fields, ";")
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}
