package readers

import (
	"io"
	"math"
	"strconv"

	"github.com/carbocation/array2vcf/lookup"
	"github.com/carbocation/array2vcf/variation"
)

// CytoScan column positions.
const (
	cytoProbeSetID = iota
	cytoCallCodes
	cytoConfidence
	cytoSignalA
	cytoSignalB
	cytoBaseCalls
	cytoRSID
	cytoChrom
	cytoPos
	cytoCols
)

// CytoScanReader reads CytoScan exports: 12 header lines, then
//
//	Probe Set ID, Call Codes, Confidence, Signal A, Signal B, Forward Strand Base Calls, dbSNP RS ID, Chromosome, Chromosomal Position
type CytoScanReader struct {
	*base
}

func NewCytoScanReader(r io.Reader, opts Options) (*CytoScanReader, error) {
	b, err := newBase(CytoScan, r, opts)
	if err != nil {
		return nil, err
	}

	b.addInfo("Probe_Set_ID", variation.NumberOne, variation.TypeString)
	b.addInfo("Signal_A", variation.NumberOne, variation.TypeFloat)
	b.addInfo("Signal_B", variation.NumberOne, variation.TypeFloat)

	return &CytoScanReader{base: b}, nil
}

func (c *CytoScanReader) Read() *variation.Variant {
	for {
		cols, ok := c.nextRow()
		if !ok {
			return nil
		}

		if len(cols) < cytoCols {
			c.skip("too few columns", nil)
			continue
		}

		pos, err := strconv.Atoi(cols[cytoPos])
		if err != nil {
			c.skip("bad position", err)
			continue
		}

		confidence, err := strconv.ParseFloat(cols[cytoConfidence], 64)
		if err != nil || confidence < 0 {
			c.skip("bad confidence", err)
			continue
		}

		var info rowInfo
		info.add("Probe_Set_ID", cols[cytoProbeSetID], variation.NumberOne)
		info.add("Signal_A", cols[cytoSignalA], variation.NumberOne)
		info.add("Signal_B", cols[cytoSignalB], variation.NumberOne)
		if info.err != nil {
			c.skip("bad INFO field", info.err)
			continue
		}

		q, ok := c.resolve(cols[cytoRSID])
		if !ok {
			if c.err != nil {
				return nil
			}
			continue
		}

		return &variation.Variant{
			Chrom:    c.chrom(cols[cytoChrom]),
			Pos:      pos,
			ID:       cols[cytoRSID],
			Ref:      q.Ref,
			Alt:      q.Alt,
			Qual:     cytoQuality(confidence),
			Info:     info.fields,
			Genotype: baseCallGenotype(cols[cytoBaseCalls], q),
		}
	}
}

// cytoQuality is the Phred-scaled confidence. A confidence of zero gives a
// quality of zero rather than infinity.
func cytoQuality(confidence float64) float64 {
	if confidence == 0 {
		return 0
	}

	q := -10 * math.Log10(confidence)
	if q == 0 {
		// Avoid -0
		return 0
	}
	return q
}

func baseCallGenotype(calls string, q lookup.QueryResult) variation.Genotype {
	letters := distinctLetters(calls)

	switch len(letters) {
	case 2:
		return variation.Het
	case 1:
		if letters[0] == q.Ref {
			return variation.HomRef
		}
		for _, alt := range q.Alt {
			if letters[0] == alt {
				return variation.HomAlt
			}
		}
	}

	return variation.GenotypeUnknown
}
