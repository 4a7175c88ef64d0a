package variation

// Genotype is the single sample's call at a site. The zero value means the
// variant carries no genotype at all, so no FORMAT/sample columns are written.
type Genotype int

const (
	GenotypeNone Genotype = iota
	GenotypeUnknown
	HomRef
	Het
	HomAlt
)

// String renders the genotype as an unphased VCF GT value.
func (g Genotype) String() string {
	switch g {
	case HomRef:
		return "0/0"
	case Het:
		return "0/1"
	case HomAlt:
		return "1/1"
	case GenotypeUnknown:
		return "./."
	}

	return ""
}
