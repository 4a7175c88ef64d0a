package readers

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// autodetectLines is how many leading lines Autodetect may inspect. The
// OpenArray signature sits on the last of them.
const autodetectLines = 18

// Autodetect inspects the first lines of r to determine its format. The
// returned reader replays everything that was inspected, so it can be handed
// to New as if r had never been touched.
func Autodetect(r io.Reader) (Format, io.Reader, error) {
	br := bufio.NewReader(r)

	var peeked bytes.Buffer
	format := FormatUnknown
	affyCandidate := false

	for i := 0; i < autodetectLines; i++ {
		line, err := br.ReadString('\n')
		peeked.WriteString(line)
		if line == "" && err != nil {
			if err != io.EOF {
				return FormatUnknown, nil, err
			}
			break
		}

		if f := matchLine(i, line, affyCandidate); f != FormatUnknown {
			format = f
			break
		}
		if i == 0 && strings.Contains(line, "Affymetrix") {
			affyCandidate = true
		}

		if err == io.EOF {
			break
		} else if err != nil {
			return FormatUnknown, nil, err
		}
	}

	// A short file whose first line named Affymetrix
	if format == FormatUnknown && affyCandidate {
		format = Affy
	}

	replay := io.MultiReader(bytes.NewReader(peeked.Bytes()), br)
	if format == FormatUnknown {
		return format, replay, ErrUnknownFormat
	}

	return format, replay, nil
}

// matchLine checks the signature of line number i (0-based).
func matchLine(i int, line string, affyCandidate bool) Format {
	if i == 0 {
		line = strings.TrimPrefix(line, "\ufeff")
	}

	switch {
	case i == 0 && strings.Contains(line, "Affymetrix"):
		// Confirmed later, once no other signature matched
		return FormatUnknown
	case i == 0 && strings.HasPrefix(line, "Name"):
		return Lumi317k
	case i == 0 && strings.HasPrefix(line, "Chr"):
		return Lumi370k
	case i == 11 && strings.HasPrefix(line, "Probe"):
		return CytoScan
	case i == 12 && affyCandidate:
		return Affy
	case i == 17 && strings.HasPrefix(line, "Assay Name"):
		return OpenArray
	}

	return FormatUnknown
}
