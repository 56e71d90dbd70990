package bootstrap

import (
	"log/slog"
	"os"

	"github.com/osse101/armorsmith/internal/metrics"
)

// ShutdownComponents holds everything that needs releasing on exit
type ShutdownComponents struct {
	Storage         *Storage
	MetricsTextfile string
	LogFile         *os.File
}

// GracefulShutdown exports metrics, closes the store and finally the log
// file. Errors are logged but do not stop the sequence.
func GracefulShutdown(components ShutdownComponents) {
	slog.Debug(LogMsgShuttingDown)

	if components.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(components.MetricsTextfile); err != nil {
			slog.Error(LogMsgMetricsWriteFailed, "path", components.MetricsTextfile, "error", err)
		} else {
			slog.Debug(LogMsgMetricsWritten, "path", components.MetricsTextfile)
		}
	}

	if components.Storage != nil {
		if err := components.Storage.Close(); err != nil {
			slog.Error(LogMsgStoreCloseFailed, "error", err)
		}
	}

	slog.Debug(LogMsgShutdownComplete)

	if components.LogFile != nil {
		if err := components.LogFile.Close(); err != nil {
			slog.Error(LogMsgLogFileCloseFailed, "error", err)
		}
	}
}
