package core

// NonSecretConf is the part of Conf that is safe to print.
type NonSecretConf struct {
	DevMode              bool   `json:"dev_mode"`
	LogLevel             string `json:"log_level"`
	EnableFileLog        bool   `json:"enable_file_log"`
	LogDir               string `json:"log_dir"`
	SettingPath          string `json:"setting_path"`
	CalibrationPath      string `json:"calibration_path"`
	CalibrationTTLSecond int    `json:"calibration_ttl"`
	BatchWorkers         int    `json:"batch_workers"`
}

type Info struct {
	Version string         `json:"version"`
	Conf    *NonSecretConf `json:"conf"`
}

var CurrentInfo *Info

func SetInfo(c *Conf) {
	CurrentInfo = &Info{
		Version: Version,
		Conf: &NonSecretConf{
			DevMode:              c.DevMode,
			LogLevel:             c.LogLevel,
			EnableFileLog:        c.EnableFileLog,
			LogDir:               c.LogDir,
			SettingPath:          c.SettingPath,
			CalibrationPath:      c.CalibrationPath,
			CalibrationTTLSecond: c.CalibrationTTLSecond,
			BatchWorkers:         c.BatchWorkers,
		},
	}
}

func (i *Info) String() string {
	return ToPrettyJSON(i)
}
