package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ zapcore.WriteSyncer = (*LogFile)(nil)

// LogFile is the session log destination. It opens its first file on the
// first entry and switches to a new file, named after the current time,
// once the size limit would be exceeded. It is safe for concurrent use.
type LogFile struct {
	mu     sync.Mutex
	clock  Clocker
	folder string
	isProd bool
	limit  int64
	file   *os.File
	size   int64
}

func NewLogFile(config *Config, clock Clocker) *LogFile {
	return &LogFile{
		clock:  clock,
		folder: config.LogFolder,
		isProd: config.IsProduction,
		limit:  int64(config.LogMaxSize) << 20,
	}
}

func (lf *LogFile) Write(p []byte) (int, error) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if int64(len(p)) > lf.limit {
		return 0, fmt.Errorf("logging: entry of %d bytes exceeds the %d MiB file limit", len(p), lf.limit>>20)
	}
	if lf.file == nil || lf.size+int64(len(p)) > lf.limit {
		if err := lf.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := lf.file.Write(p)
	lf.size += int64(n)
	return n, err
}

// rotate closes the current file if any and opens the next one.
func (lf *LogFile) rotate() error {
	if lf.file != nil {
		if err := lf.file.Close(); err != nil {
			return err
		}
		lf.file = nil
	}
	if err := os.MkdirAll(lf.folder, 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(CreateLogFilePath(lf.folder, lf.isProd, lf.clock.Now()), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	lf.file, lf.size = f, info.Size()
	return nil
}

func (lf *LogFile) Sync() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	if lf.file == nil {
		return nil
	}
	return lf.file.Sync()
}

func (lf *LogFile) Close() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	if lf.file == nil {
		return nil
	}
	err := lf.file.Close()
	lf.file = nil
	return err
}

// consoleSyncer skips Sync, which fails on terminals.
type consoleSyncer struct {
	io.Writer
}

func (consoleSyncer) Sync() error {
	return nil
}

// SetupLogging builds the session logger. Entries are written as json to w.
// Outside production warnings are echoed to stderr, never to the shell output.
// Every entry carries the build and session identifiers.
func SetupLogging(config *Config, w zapcore.WriteSyncer, clock Clocker, sessionID string) (*zap.Logger, func() error) {
	encoding := zap.NewProductionEncoderConfig()
	if !config.IsProduction {
		encoding = zap.NewDevelopmentEncoderConfig()
	}
	encoding.TimeKey = "ts"
	encoding.LevelKey = "lvl"
	encoding.NameKey = "logger"
	encoding.CallerKey = "caller"
	encoding.MessageKey = "msg"
	encoding.StacktraceKey = "skt"
	encoding.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoding), w, config.LogLevel),
	}
	if !config.IsProduction {
		stderr := zapcore.Lock(consoleSyncer{os.Stderr})
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoding), stderr, zapcore.WarnLevel))
	}

	logger := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.FatalLevel),
		zap.WithClock(zapClock{clock}),
	).With(
		zap.String("app.commit", config.GitCommit),
		zap.String("app.tag", config.GitTag),
		zap.String("app.built", config.BuildTime),
		zap.String("session.id", sessionID),
	)

	flusher := func() error {
		if err := logger.Sync(); err != nil {
			return fmt.Errorf("[flush logs]: %w", err)
		}
		return nil
	}
	return logger, flusher
}

// CreateLogFilePath names a log file after its opening time and environment.
func CreateLogFilePath(folder string, isProd bool, t time.Time) string {
	env := "dev"
	if isProd {
		env = "prod"
	}
	return filepath.Join(folder, t.Format("20060102.150405")+"."+env+".log")
}
