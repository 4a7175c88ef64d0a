package array2vcf

import (
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader. Array exports are tab-delimited, so this is only used
// to explain why a file could not be recognized.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 && delimiters[0] != "" {
		return rune(delimiters[0][0])
	}

	return '\t'
}
