package core

type Conf struct {
	Version              string `long:"version" description:"version of niso engine" env:"NISO_VERSION"`
	DevMode              bool   `long:"dev-mode" description:"run in dev mode" env:"NISO_DEV_MODE"`
	DisableStdoutLog     bool   `long:"disable-stdout-log" description:"do not log to the console" env:"NISO_DISABLE_STDOUT_LOG"`
	EnableFileLog        bool   `long:"enable-file-log" description:"enable log in file" env:"NISO_ENABLE_FILE_LOG"`
	LogDir               string `long:"log-dir" description:"rotating log file dir" default:"./shares/logs" env:"NISO_LOG_DIR"`
	LogLevel             string `long:"log-level" description:"log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" env:"NISO_LOG_LEVEL"`
	LogRotationMaxDays   int    `long:"log-rotation-max-days" description:"max days of log rotation" default:"7" env:"NISO_LOG_ROTATION_MAX_DAYS"`
	SettingPath          string `long:"setting-path" description:"setting file path" default:"./setting/setting.toml" env:"NISO_SETTING_PATH"`
	CalibrationPath      string `long:"calibration-path" description:"calibration snapshot (toml); empty means none" env:"NISO_CALIBRATION_PATH"`
	CalibrationTTLSecond int    `long:"calibration-ttl" description:"calibration cache ttl in seconds" default:"3600" env:"NISO_CALIBRATION_TTL"`
	BatchWorkers         int    `long:"batch-workers" description:"number of workers for batch execution; 1 runs sequentially" default:"1" env:"NISO_BATCH_WORKERS"`
}
