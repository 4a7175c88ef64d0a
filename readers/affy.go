package readers

import (
	"io"
	"strconv"

	"github.com/carbocation/array2vcf/lookup"
	"github.com/carbocation/array2vcf/variation"
)

// Affymetrix column positions.
const (
	affyID = iota
	affySNPID
	affyRSID
	affyChrom
	affyPos
	affyLog2Ratio
	affyNAB
	affyCall
	affyLOH
	affyCols
)

// AffyReader reads Affymetrix genotype exports with the columns
//
//	ID AffymetrixSNPsID rsID Chromosome Position log2ratio_AB N_AB Call_test LOH_likelihood
//
// where Call_test is 0 (no call), 1 (AA), 2 (AB) or 3 (BB).
type AffyReader struct {
	*base
}

func NewAffyReader(r io.Reader, opts Options) (*AffyReader, error) {
	b, err := newBase(Affy, r, opts)
	if err != nil {
		return nil, err
	}

	b.addInfo("ID", variation.NumberOne, variation.TypeString)
	b.addInfo("AffymetrixSNPsID", variation.NumberOne, variation.TypeString)
	b.addInfo("log2ratio_AB", variation.NumberOne, variation.TypeFloat)
	b.addInfo("N_AB", variation.NumberOne, variation.TypeInteger)
	b.addInfo("LOH_likelihood", variation.NumberOne, variation.TypeFloat)

	return &AffyReader{base: b}, nil
}

func (a *AffyReader) Read() *variation.Variant {
	for {
		cols, ok := a.nextRow()
		if !ok {
			return nil
		}

		if len(cols) < affyCols {
			a.skip("too few columns", nil)
			continue
		}

		pos, err := strconv.Atoi(cols[affyPos])
		if err != nil {
			a.skip("bad position", err)
			continue
		}

		call, err := strconv.Atoi(cols[affyCall])
		if err != nil {
			a.skip("bad call code", err)
			continue
		}

		var info rowInfo
		info.add("ID", cols[affyID], variation.NumberOne)
		info.add("AffymetrixSNPsID", cols[affySNPID], variation.NumberOne)
		info.add("log2ratio_AB", cols[affyLog2Ratio], variation.NumberOne)
		info.add("N_AB", cols[affyNAB], variation.NumberOne)
		info.add("LOH_likelihood", cols[affyLOH], variation.NumberOne)
		if info.err != nil {
			a.skip("bad INFO field", info.err)
			continue
		}

		q, ok := a.resolve(cols[affyRSID])
		if !ok {
			if a.err != nil {
				return nil
			}
			continue
		}

		return &variation.Variant{
			Chrom:    a.affyChrom(cols[affyChrom]),
			Pos:      pos,
			ID:       cols[affyRSID],
			Ref:      q.Ref,
			Alt:      q.Alt,
			Qual:     a.opts.quality(),
			Info:     info.fields,
			Genotype: affyGenotype(call, q),
		}
	}
}

// Affymetrix numbers chromosome X as 23.
func (a *AffyReader) affyChrom(raw string) string {
	if raw == "23" {
		raw = "X"
	}
	return a.chrom(raw)
}

func affyGenotype(call int, q lookup.QueryResult) variation.Genotype {
	switch call {
	case 1:
		return byMinor(q, variation.HomRef, variation.HomAlt)
	case 2:
		return variation.Het
	case 3:
		return byMinor(q, variation.HomAlt, variation.HomRef)
	}

	return variation.GenotypeUnknown
}
