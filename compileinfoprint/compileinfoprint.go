// compileinfoprint is imported for the side effect of logging the compileinfo
// to os.Stderr
package compileinfoprint

import (
	"github.com/carbocation/array2vcf/compileinfo"
	log "github.com/sirupsen/logrus"
)

func init() {
	log.Infoln(compileinfo.Get())
}
