package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/massn/envordot"

	"github.com/oqtopus-team/niso-engine/calibration"
	"github.com/oqtopus-team/niso-engine/core"
	"github.com/oqtopus-team/niso-engine/log"
	"github.com/oqtopus-team/niso-engine/optimizer"
	"github.com/oqtopus-team/niso-engine/scheduler"

	"go.uber.org/dig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	rotate "github.com/lestrrat-go/file-rotatelogs"
)

var versionByBuildFlag string
var parser *flags.Parser
var niso *Niso

func init() {
	if err := envordot.Load(false, ".env"); err != nil {
		fmt.Printf("Not found \".env\" file. Use only environment variables. Reason:%s\n", err.Error())
	} else {
		fmt.Println("Found \".env\" file. Environment variables are preferred, " +
			"but non-conflicting variables are those in the \".env\" file.")
	}
	niso = &Niso{}
	setParser(niso)
}

type Niso struct {
	Conf *core.Conf
}

func setParser(n *Niso) {
	parser = flags.NewParser(n, flags.Default)
	parser.ShortDescription = "niso engine"
	parser.LongDescription = "noise-aware TQQC phase optimization on a simulated quantum device."
	parser.AddCommand("optimize", "run tqqc optimization", "search the phase correction that maximizes parity", &optimizeCmd{})
	parser.AddCommand("execute", "execute a circuit", "run a qasm file or a generated circuit and print the counts", &executeCmd{})
	parser.AddCommand("schedule", "show asap schedule", "place the gates of a circuit on a time axis", &scheduleCmd{})
	parser.AddCommand("sweep", "sweep noise levels", "run the optimization at several noise levels", &sweepCmd{})
	parser.AddCommand("version", "show version", "show the engine version and effective configuration", &versionCmd{})
}

func parse() {
	if _, err := parser.Parse(); err != nil {
		code := 1
		if fe, ok := err.(*flags.Error); ok {
			if fe.Type == flags.ErrHelp {
				code = 0
			}
		}
		if code == 1 {
			fmt.Printf("failed to parse flags, because %s\n", err)
		}
		os.Exit(code)
	}
}

// provideDIContainer wires the calibration snapshot, its cache, the
// scheduler and the progress tracker shared by the commands.
func (n *Niso) provideDIContainer() (*dig.Container, error) {
	c := dig.New()
	if err := c.Provide(func() *calibration.Cache {
		return calibration.NewCache(time.Duration(n.Conf.CalibrationTTLSecond) * time.Second)
	}); err != nil {
		return nil, err
	}
	if err := c.Provide(func(cache *calibration.Cache) (*calibration.Info, error) {
		if n.Conf.CalibrationPath == "" {
			return nil, nil
		}
		info, err := calibration.LoadFile(n.Conf.CalibrationPath)
		if err != nil {
			return nil, err
		}
		cache.Set(info.BackendName, info)
		return info, nil
	}); err != nil {
		return nil, err
	}
	if err := c.Provide(func(info *calibration.Info) *scheduler.Scheduler {
		if info == nil {
			return scheduler.NewDefaultScheduler()
		}
		return scheduler.NewScheduler(info.GateTimes())
	}); err != nil {
		return nil, err
	}
	if err := c.Provide(log.NewProgress); err != nil {
		return nil, err
	}
	return c, nil
}

// setup starts the logger, reads the settings file and builds the container.
// A missing settings file leaves every component on its defaults.
func setup() (*zap.Logger, *dig.Container, error) {
	logger := setZap(niso.Conf)
	core.SetVersion(niso.Conf, versionByBuildFlag)
	core.SetInfo(niso.Conf)

	core.ResetSetting()
	registerSetting()
	if _, err := os.Stat(niso.Conf.SettingPath); err == nil {
		if err := core.ParseSettingFromPath(niso.Conf.SettingPath); err != nil {
			zap.L().Error(fmt.Sprintf("failed to parse settings/reason:%s", err))
			return logger, nil, err
		}
	} else {
		zap.L().Debug(fmt.Sprintf("no setting file/path:%s", niso.Conf.SettingPath))
	}

	container, err := niso.provideDIContainer()
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to set up DI container/reason:%s", err))
		return logger, nil, err
	}
	return logger, container, nil
}

func registerSetting() {
	core.RegisterSetting(optimizer.SettingName, optimizer.NewSetting())
	core.RegisterSetting(log.MetricsLogTaskName, log.NewMetricsLogTask(nil))
}

func optimizerSetting() *optimizer.Setting {
	if v, ok := core.GetComponentSetting(optimizer.SettingName); ok {
		if s, ok := v.(*optimizer.Setting); ok {
			return s
		}
	}
	return optimizer.NewSetting()
}

func metricsLogTask() *log.MetricsLogTaskImpl {
	if v, ok := core.GetComponentSetting(log.MetricsLogTaskName); ok {
		if t, ok := v.(*log.MetricsLogTaskImpl); ok {
			return t
		}
	}
	return log.NewMetricsLogTask(nil)
}

func zapLogger(conf *core.Conf) (*zap.Logger, error) {
	var encoder zapcore.Encoder
	if conf.DevMode {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		c := zap.NewProductionEncoderConfig()
		c.EncodeTime = zapcore.ISO8601TimeEncoder
		c.TimeKey = "timestamp"
		encoder = zapcore.NewJSONEncoder(c)
	}
	var level zap.AtomicLevel
	switch conf.LogLevel {
	case "debug":
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cores := []zapcore.Core{}
	if conf.EnableFileLog {
		rotater, err := makeRotator(conf.LogDir, conf.LogRotationMaxDays)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotater), level))
	}
	if !conf.DisableStdoutLog {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func makeRotator(dirPath string, rotationMaxDays int) (*rotate.RotateLogs, error) {
	info, err := os.Stat(dirPath)
	if err != nil {
		return nil, fmt.Errorf("directory:%s is not found", dirPath)
	}
	if info.Mode().Perm()&(1<<uint(7)) == 0 {
		return nil, fmt.Errorf("%s is not a writable directory", dirPath)
	}
	return rotate.New(
		filepath.Join(dirPath, "niso-%Y-%m-%d.log"),
		rotate.WithMaxAge(time.Duration(rotationMaxDays)*24*time.Hour),
		rotate.WithRotationTime(time.Hour))
}

func setZap(conf *core.Conf) *zap.Logger {
	logger, err := zapLogger(conf)
	if err != nil {
		fmt.Printf("Failed to setup logger. Reason:%s\n", err)
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	zap.L().Debug(fmt.Sprintf("DevMode is %t", conf.DevMode))
	return logger
}

func main() {
	parse()
}
