package interview

import (
	"time"

	"go.uber.org/zap"

	"github.com/pders01/interview/internal/logging"
)

// Option configures an Engine.
type Option func(*Engine)

// WithDescriber sets the optional questionnaire description source.
func WithDescriber(d Describer) Option {
	return func(e *Engine) {
		e.describer = d
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logging.OrNop(l)
	}
}

// WithClock sets the clock used for age annotations in the summary.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithSkipText sets the transcript text recorded for skipped questions.
func WithSkipText(text string) Option {
	return func(e *Engine) {
		e.skipText = text
	}
}
