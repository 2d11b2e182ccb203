package log

import (
	"github.com/oqtopus-team/niso-engine/core"
	"go.uber.org/zap"
)

const VersionLogTaskName = "version_log"

type VersionLogTaskImpl struct {
	core.DefaultTaskImpl
}

func (v *VersionLogTaskImpl) Task() {
	zap.L().Debug("niso engine version:" + core.Version)
}
