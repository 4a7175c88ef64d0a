package readers

import (
	"io"
	"strconv"

	"github.com/carbocation/array2vcf/lookup"
	"github.com/carbocation/array2vcf/variation"
)

// LumiLayout locates the columns of an Illumina export. The two chips differ
// only in the order of the first two columns.
type LumiLayout struct {
	Format      Format
	ColRSID     int
	ColChrom    int
	ColPosition int
	ColCall     int
	ColLogR     int
	ColCNV      int
	ColFreq     int
}

var (
	Lumi317kLayout = LumiLayout{
		Format:      Lumi317k,
		ColRSID:     0,
		ColChrom:    1,
		ColPosition: 2,
		ColCall:     3,
		ColLogR:     4,
		ColCNV:      5,
		ColFreq:     6,
	}

	Lumi370kLayout = LumiLayout{
		Format:      Lumi370k,
		ColRSID:     1,
		ColChrom:    0,
		ColPosition: 2,
		ColCall:     3,
		ColLogR:     4,
		ColCNV:      5,
		ColFreq:     6,
	}
)

func (l LumiLayout) minCols() int {
	max := 0
	for _, col := range []int{l.ColRSID, l.ColChrom, l.ColPosition, l.ColCall, l.ColLogR, l.ColCNV, l.ColFreq} {
		if col > max {
			max = col
		}
	}
	return max + 1
}

// LumiReader reads Illumina 317k and 370k exports.
type LumiReader struct {
	*base
	layout LumiLayout
}

func NewLumiReader(r io.Reader, layout LumiLayout, opts Options) (*LumiReader, error) {
	b, err := newBase(layout.Format, r, opts)
	if err != nil {
		return nil, err
	}

	b.addInfo("Log_R_Ratio", variation.NumberOne, variation.TypeFloat)
	b.addInfo("CNV_Value", variation.NumberOne, variation.TypeInteger)
	b.addInfo("Allele_Freq", variation.NumberOne, variation.TypeFloat)

	return &LumiReader{base: b, layout: layout}, nil
}

func (l *LumiReader) Read() *variation.Variant {
	for {
		cols, ok := l.nextRow()
		if !ok {
			return nil
		}

		if len(cols) < l.layout.minCols() {
			l.skip("too few columns", nil)
			continue
		}

		pos, err := strconv.Atoi(cols[l.layout.ColPosition])
		if err != nil {
			l.skip("bad position", err)
			continue
		}

		logR, err := CommaFloat(cols[l.layout.ColLogR])
		if err != nil {
			l.skip("bad Log_R_Ratio", err)
			continue
		}

		cnv, err := strconv.Atoi(cols[l.layout.ColCNV])
		if err != nil {
			l.skip("bad CNV value", err)
			continue
		}

		freq, err := CommaFloat(cols[l.layout.ColFreq])
		if err != nil {
			l.skip("bad Allele_Freq", err)
			continue
		}

		var info rowInfo
		info.add("Log_R_Ratio", logR, variation.NumberOne)
		info.add("CNV_Value", cnv, variation.NumberOne)
		info.add("Allele_Freq", freq, variation.NumberOne)
		if info.err != nil {
			l.skip("bad INFO field", info.err)
			continue
		}

		rsID := cols[l.layout.ColRSID]
		q, ok := l.resolve(rsID)
		if !ok {
			if l.err != nil {
				return nil
			}
			continue
		}

		return &variation.Variant{
			Chrom:    l.chrom(cols[l.layout.ColChrom]),
			Pos:      pos,
			ID:       rsID,
			Ref:      q.Ref,
			Alt:      q.Alt,
			Qual:     l.opts.quality(),
			Info:     info.fields,
			Genotype: lumiGenotype(cols[l.layout.ColCall], q),
		}
	}
}

func lumiGenotype(call string, q lookup.QueryResult) variation.Genotype {
	switch {
	case call == "NC":
		return variation.GenotypeUnknown
	case len(distinctLetters(call)) == 2:
		return variation.Het
	case call == "AA":
		return byMinor(q, variation.HomRef, variation.HomAlt)
	case call == "BB":
		return byMinor(q, variation.HomAlt, variation.HomRef)
	}

	return variation.GenotypeUnknown
}
