package compileinfo

import (
	"fmt"
	"runtime/debug"
)

// Version is the release of array2vcf. It is written into the ##source line
// of every VCF this module produces.
const Version = "1.0.0"

type CompileInfo struct {
	Package    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.GoVersion == "" {
		return fmt.Sprintf("array2vcf %s (no build info available)", Version)
	}

	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	return fmt.Sprintf("This %s binary (v%s) was built with %s at commit %v at time %v.%s", c.Package, Version, c.GoVersion, c.Commit, c.CommitTime, mod)
}

// Source is the value of the VCF ##source meta line.
func Source() string {
	return "array2vcf_v" + Version
}

func Get() CompileInfo {
	out := CompileInfo{}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Package = z.Path
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}
