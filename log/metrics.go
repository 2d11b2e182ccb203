package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oqtopus-team/niso-engine/common"
	"github.com/oqtopus-team/niso-engine/core"
	"go.uber.org/zap"
)

const MetricsLogTaskName = "metrics_log"

const defaultMetricsPeriodSecond = 5

// MetricsLogTaskImpl writes the progress of the running optimization to a
// daily JSON log file on every tick.
type MetricsLogTaskImpl struct {
	FileDir      string `toml:"file_dir"`
	PeriodSecond int    `toml:"period_second"`

	dl       *dailyLogger
	logger   *slog.Logger
	progress *Progress

	core.DefaultTaskImpl
}

func NewMetricsLogTask(p *Progress) *MetricsLogTaskImpl {
	return &MetricsLogTaskImpl{
		FileDir:      "./shares/metrics",
		PeriodSecond: defaultMetricsPeriodSecond,
		progress:     p,
	}
}

func (m *MetricsLogTaskImpl) SetProgress(p *Progress) {
	m.progress = p
}

func (m *MetricsLogTaskImpl) Period() time.Duration {
	if m.PeriodSecond <= 0 {
		return defaultMetricsPeriodSecond * time.Second
	}
	return time.Duration(m.PeriodSecond) * time.Second
}

func setupMetricsLogTask(fileDir string) (*dailyLogger, error) {
	if err := common.IsDirWritable(fileDir); err != nil {
		return nil, fmt.Errorf("failed to write to %s: %w", fileDir, err)
	}
	return newDailyLogger(fileDir), nil
}

func (m *MetricsLogTaskImpl) Setup() error {
	dl, err := setupMetricsLogTask(m.FileDir)
	if err != nil {
		zap.L().Error("failed to set up metrics log task", zap.Error(err))
		return err
	}
	m.dl = dl
	m.logger = slog.New(slog.NewJSONHandler(dl, nil))
	if m.progress == nil {
		m.progress = NewProgress()
	}
	return nil
}

func (m *MetricsLogTaskImpl) Task() {
	s := m.progress.Snapshot()
	m.logger.Info(
		"Metrics",
		slog.Int("iterations", s.Iterations),
		slog.Int("inner_iterations", s.InnerIterations),
		slog.Float64("delta", s.Delta),
		slog.Float64("parity", s.Parity),
		slog.Float64("best_parity", s.BestParity),
		slog.Float64("improvement", s.LastImprovement),
		slog.Int("significant_moves", s.SignificantMoves),
	)
}

func (m *MetricsLogTaskImpl) Cleanup() {
	if m.dl != nil {
		m.dl.Close()
	}
}

type dailyLogger struct {
	mu              sync.Mutex
	fileDir         string
	currentFileName string
	file            *os.File
	now             func() time.Time
}

func newDailyLogger(fileDir string) *dailyLogger {
	return &dailyLogger{
		fileDir: fileDir,
		now:     time.Now,
	}
}

func (dl *dailyLogger) Write(p []byte) (n int, err error) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	fileName := fmt.Sprintf("metrics-%s.log", dl.now().Format("2006-01-02"))
	if dl.file == nil || dl.currentFileName != fileName {
		if dl.file != nil {
			dl.file.Close()
		}
		var err error
		dl.file, err = os.OpenFile(filepath.Join(dl.fileDir, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return 0, err
		}
		dl.currentFileName = fileName
	}

	return dl.file.Write(p)
}

func (dl *dailyLogger) Close() error {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file != nil {
		err := dl.file.Close()
		dl.file = nil
		return err
	}
	return nil
}
