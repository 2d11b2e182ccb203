package main

import (
	"fmt"

	"github.com/oqtopus-team/niso-engine/core"
)

type versionCmd struct {
	Verbose bool `long:"verbose" description:"also print the effective configuration"`
}

func (c *versionCmd) Execute(args []string) error {
	niso.Conf.DisableStdoutLog = true
	logger := setZap(niso.Conf)
	defer logger.Sync()
	core.SetVersion(niso.Conf, versionByBuildFlag)
	if !c.Verbose {
		fmt.Println(core.Version)
		return nil
	}
	core.SetInfo(niso.Conf)
	fmt.Println(core.CurrentInfo.String())
	return nil
}
