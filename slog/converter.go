package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/coursenotes"
)

// Ensure LoggingConverter implements coursenotes.Converter.
var _ coursenotes.Converter = (*LoggingConverter)(nil)

// LoggingConverter wraps a Converter with debug logging.
type LoggingConverter struct {
	next   coursenotes.Converter
	name   string
	logger *slog.Logger
}

// NewLoggingConverter creates a new LoggingConverter. The name identifies
// the target format in log records.
func NewLoggingConverter(next coursenotes.Converter, name string, logger *slog.Logger) *LoggingConverter {
	return &LoggingConverter{next: next, name: name, logger: logger}
}

// Convert delegates to the wrapped converter and logs the operation.
func (c *LoggingConverter) Convert(html string) (out string, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("convert",
			"format", c.name,
			"input_bytes", len(html),
			"output_bytes", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Convert(html)
}
