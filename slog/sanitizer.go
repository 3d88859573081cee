package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/coursenotes"
)

// Ensure LoggingSanitizer implements coursenotes.Sanitizer.
var _ coursenotes.Sanitizer = (*LoggingSanitizer)(nil)

// LoggingSanitizer wraps a Sanitizer and logs every call at debug level.
// Skipped stages are logged at error level, one record per stage.
type LoggingSanitizer struct {
	next   coursenotes.Sanitizer
	logger *slog.Logger
}

// NewLoggingSanitizer creates a new LoggingSanitizer.
func NewLoggingSanitizer(next coursenotes.Sanitizer, logger *slog.Logger) *LoggingSanitizer {
	return &LoggingSanitizer{next: next, logger: logger}
}

// Sanitize delegates to the wrapped sanitizer and logs the outcome.
func (s *LoggingSanitizer) Sanitize(html, token string) *coursenotes.SanitizeResult {
	begin := time.Now()
	res := s.next.Sanitize(html, token)

	for _, skipped := range res.Skipped {
		s.logger.Error("sanitize stage skipped",
			"stage", skipped.Stage,
			"err", skipped.Err,
		)
	}
	s.logger.Debug("sanitize",
		"input_bytes", len(html),
		"output_bytes", len(res.HTML),
		"removed", removedTotal(res.Removed),
		"duration", time.Since(begin),
	)
	return res
}

func removedTotal(m map[string]int) int {
	var n int
	for _, v := range m {
		n += v
	}
	return n
}
