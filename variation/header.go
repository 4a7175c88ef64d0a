package variation

import (
	"fmt"
	"strings"
	"time"

	"github.com/brentp/vcfgo"
	"github.com/carbocation/array2vcf/compileinfo"
)

const FileFormat = "VCFv4.2"

// DefaultDescription is used for INFO and FORMAT declarations that do not
// come with their own description.
const DefaultDescription = "A field"

var descriptionEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// MetaLine renders a ##key=value header line.
func MetaLine(key, value string) string {
	return fmt.Sprintf("##%s=%s", key, value)
}

// InfoHeader renders a ##INFO declaration. Flags are always declared with
// Number=0, whatever number is passed.
func InfoHeader(id string, number InfoNumber, typ InfoType, description string) string {
	info := vcfgo.Info{
		Id:          id,
		Number:      declaredNumber(number, typ),
		Type:        string(typ),
		Description: escapeDescription(description),
	}

	return info.String()
}

// FormatHeader renders a ##FORMAT declaration.
func FormatHeader(id string, number InfoNumber, typ InfoType, description string) string {
	format := vcfgo.SampleFormat{
		Id:          id,
		Number:      declaredNumber(number, typ),
		Type:        string(typ),
		Description: escapeDescription(description),
	}

	return format.String()
}

// FilterHeader renders a ##FILTER declaration in the form vcfgo writes it.
func FilterHeader(id, description string) string {
	return fmt.Sprintf(`##FILTER=<ID=%s,Description="%s">`, id, escapeDescription(description))
}

func declaredNumber(number InfoNumber, typ InfoType) string {
	if typ == TypeFlag {
		return "0"
	}
	return string(number)
}

func escapeDescription(description string) string {
	if description == "" {
		return DefaultDescription
	}
	return descriptionEscaper.Replace(description)
}

// DefaultHeader is the boilerplate every file starts with: format version,
// creation date, producing program and the GT format declaration.
func DefaultHeader(today time.Time) []string {
	return []string{
		MetaLine("fileformat", FileFormat),
		MetaLine("fileDate", today.Format("2006-01-02")),
		MetaLine("source", compileinfo.Source()),
		FormatHeader("GT", NumberOne, TypeString, "Genotype"),
	}
}

// ChromHeader is the final, column-naming header line for a single sample.
func ChromHeader(sample string) string {
	return "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\t" + sample
}
