package core

import (
	"fmt"

	"go.uber.org/zap"
)

var Version string

const NoVersion = "no_version_info"

// SetVersion prefers the build flag, then the configured version.
func SetVersion(c *Conf, versionByBuildFlag string) {
	switch {
	case versionByBuildFlag != "":
		Version = versionByBuildFlag
	case c != nil && c.Version != "":
		Version = c.Version
	default:
		Version = NoVersion
	}
	zap.L().Info(fmt.Sprintf("niso engine version is %s", Version))
}
