package variation

import "sort"

// Less orders variants by chromosome (lexicographically), then position.
func Less(a, b *Variant) bool {
	if a.Chrom != b.Chrom {
		return a.Chrom < b.Chrom
	}
	return a.Pos < b.Pos
}

// Sort orders variants in place by (chromosome, position). Variants at the
// same site keep their input order.
func Sort(variants []*Variant) {
	sort.SliceStable(variants, func(i, j int) bool {
		return Less(variants[i], variants[j])
	})
}
