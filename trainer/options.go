package trainer

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Defaults used by New when no option overrides them.
const (
	// DefaultAutomatedDelay is the pause before each automated move.
	DefaultAutomatedDelay = 150 * time.Millisecond
	// DefaultHintDelay is the pause before the expected move is revealed.
	DefaultHintDelay = 300 * time.Millisecond
	// DefaultMistakesBeforeHint is the number of wrong moves in one turn
	// after which the expected move is revealed.
	DefaultMistakesBeforeHint = 3
)

// An Option configures a Session in New.
type Option func(*Session)

// WithAutomatedDelay sets the pause before each automated move.
func WithAutomatedDelay(d time.Duration) Option {
	return func(s *Session) { s.automatedDelay = d }
}

// WithHintDelay sets the pause before the expected move is revealed.
func WithHintDelay(d time.Duration) Option {
	return func(s *Session) { s.hintDelay = d }
}

// WithMistakesBeforeHint sets how many wrong moves in a row reveal the
// expected move. Values below 1 are ignored.
func WithMistakesBeforeHint(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.mistakesBeforeHint = n
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRand sets the source used to draw lines.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) {
		if r != nil {
			s.rand = r
		}
	}
}

// WithExplore starts the session in exploration mode.
func WithExplore(on bool) Option {
	return func(s *Session) { s.explore = on }
}
