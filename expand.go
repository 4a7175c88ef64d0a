package array2vcf

import (
	"os/user"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ExpandHome expands ~ to its proper path, where appropriate. If the current
// user cannot be determined the path is returned unchanged.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		usr, err := user.Current()
		if err != nil {
			log.Warnln("Could not expand", path, err)
			return path
		}
		path = filepath.Join(usr.HomeDir, path[2:])
	}

	return path
}
