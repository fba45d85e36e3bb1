package platform

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nats-io/nats-server/v2/server"
)

// InitLogger sets the default slog logger to JSON on stdout at level.
func InitLogger(level slog.Level) {
	slog.SetDefault(newLogger(os.Stdout, level))
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{AddSource: level <= slog.LevelDebug, Level: level})
	return slog.New(h).With("service", "kpterm")
}

// natsLogger forwards nats-server log lines onto slog. Notices are chatty
// at startup so they go to debug.
type natsLogger struct {
	logger *slog.Logger
}

func NewNATSServerLogger(logger *slog.Logger) server.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &natsLogger{logger: logger.With("component", "nats")}
}

func (l *natsLogger) Noticef(format string, v ...any) { l.logger.Debug(fmt.Sprintf(format, v...)) }
func (l *natsLogger) Warnf(format string, v ...any)   { l.logger.Warn(fmt.Sprintf(format, v...)) }
func (l *natsLogger) Errorf(format string, v ...any)  { l.logger.Error(fmt.Sprintf(format, v...)) }
func (l *natsLogger) Debugf(format string, v ...any)  { l.logger.Debug(fmt.Sprintf(format, v...)) }

func (l *natsLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...), "fatal", true)
}

func (l *natsLogger) Tracef(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "trace", true)
}
