package readers

import (
	"fmt"
	"strings"
)

// Format identifies one vendor export layout.
type Format int

const (
	FormatUnknown Format = iota
	Affy
	CytoScan
	Lumi317k
	Lumi370k
	OpenArray
)

var formatNames = map[Format]string{
	FormatUnknown: "unknown",
	Affy:          "Affymetrix",
	CytoScan:      "CytoScan",
	Lumi317k:      "Lumi317k",
	Lumi370k:      "Lumi370k",
	OpenArray:     "OpenArray",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// HeaderLines is the number of leading lines that precede the first data row.
func (f Format) HeaderLines() int {
	switch f {
	case Affy, Lumi317k, Lumi370k:
		return 1
	case CytoScan:
		return 12
	case OpenArray:
		return 18
	}

	return 0
}

// ParseFormat accepts the names printed by Format.String, ignoring case.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if f != FormatUnknown && strings.EqualFold(name, s) {
			return f, nil
		}
	}

	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}
