package lookup

import (
	"fmt"
	"strings"
)

// Build is a human reference assembly understood by the Ensembl REST API.
type Build string

const (
	GRCh37 Build = "GRCh37"
	GRCh38 Build = "GRCh38"
)

// Builds lists the supported assemblies.
var Builds = []Build{GRCh37, GRCh38}

// ParseBuild accepts a build name case-insensitively.
func ParseBuild(name string) (Build, error) {
	for _, b := range Builds {
		if strings.EqualFold(name, string(b)) {
			return b, nil
		}
	}

	return "", fmt.Errorf("%w: %q (valid builds: %s, %s)", ErrUnsupportedBuild, name, GRCh37, GRCh38)
}
