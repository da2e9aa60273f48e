// Package trainer drills the lines of a repertoire. The automated side plays
// one side of a randomly drawn line, the user has to find the replies of the
// other side, and control actions restart the line, draw a new one or switch
// to exploration mode where any move known to the repertoire is accepted.
//
// Example usage:
//
//	s, err := trainer.New(mt, ui, trainer.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	return s.Run(ctx)
package trainer

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/corentings/repertoire"
	"github.com/corentings/repertoire/internal/pace"
)

// ErrEmptyRepertoire is returned when a tree holds no line to train.
var ErrEmptyRepertoire = errors.New("trainer: repertoire has no lines")

// A Session trains one user on one repertoire.
//
// The iterator, the exploration flag and the UI are only touched by the
// running turn task or, between two tasks, by the supervisor. A turn task is
// always cancelled and waited for before the supervisor changes anything.
type Session struct {
	id  string
	ui  UI
	log *zap.Logger

	automatedDelay     time.Duration
	hintDelay          time.Duration
	mistakesBeforeHint int
	rand               *rand.Rand

	mu   sync.Mutex
	tree *repertoire.MoveTree

	it      *repertoire.VariationIterator
	explore bool
}

// New returns a session on a line drawn at random from t.
func New(t *repertoire.MoveTree, ui UI, options ...Option) (*Session, error) {
	s := &Session{
		id:                 uuid.NewString(),
		ui:                 ui,
		log:                zap.NewNop(),
		automatedDelay:     DefaultAutomatedDelay,
		hintDelay:          DefaultHintDelay,
		mistakesBeforeHint: DefaultMistakesBeforeHint,
		rand:               rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		tree:               t,
	}
	for _, f := range options {
		f(s)
	}
	s.log = s.log.With(zap.String("session", s.id))

	if err := s.draw(); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the session identifier used in its log lines.
func (s *Session) ID() string {
	return s.id
}

// Line returns the moves of the line being trained. It must not be called
// while Run is in progress.
func (s *Session) Line() []string {
	return s.it.Moves()
}

// Reload replaces the repertoire. The line being trained is kept; the new
// tree is used from the next NextLevel action.
func (s *Session) Reload(t *repertoire.MoveTree) error {
	if len(t.Lines()) == 0 {
		return ErrEmptyRepertoire
	}
	s.mu.Lock()
	s.tree = t
	s.mu.Unlock()
	s.log.Info("repertoire reloaded", zap.Int("lines", len(t.Lines())))
	return nil
}

// Run trains until ctx is done, in which case it returns nil. A corpus fault
// met while replaying the line, or a UI failure, ends the session with that
// error.
func (s *Session) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	actions := make(chan Action)

	g.Go(func() error {
		return s.listen(ctx, actions)
	})
	g.Go(func() error {
		return s.supervise(ctx, actions)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// listen forwards control actions to the supervisor.
func (s *Session) listen(ctx context.Context, actions chan<- Action) error {
	for {
		a, err := s.ui.AwaitUserAction(ctx)
		if err != nil {
			return err
		}
		select {
		case actions <- a:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// supervise owns the turn task. It restarts it after every control action
// and idles once the line is over.
func (s *Session) supervise(ctx context.Context, actions <-chan Action) error {
	s.ui.Reset(s.it.Position())
	task := pace.Go(ctx, s.play)
	done := task.Done()

	for {
		select {
		case <-ctx.Done():
			task.Cancel()
			_ = task.Wait()
			return ctx.Err()
		case <-done:
			if err := task.Err(); err != nil {
				return err
			}
			s.log.Debug("line complete", zap.Strings("line", s.it.Moves()))
			done = nil
		case a := <-actions:
			task.Cancel()
			if err := task.Wait(); err != nil {
				return err
			}
			if err := s.apply(a); err != nil {
				return err
			}
			task = pace.Go(ctx, s.play)
			done = task.Done()
		}
	}
}

func (s *Session) apply(a Action) error {
	s.log.Debug("control action", zap.Stringer("action", a), zap.Int("depth", s.it.Depth()))
	switch a {
	case Restart:
		s.it.Reset()
		s.ui.Reset(s.it.Position())
	case NextLevel:
		if err := s.draw(); err != nil {
			return err
		}
		s.ui.Reset(s.it.Position())
	case ToggleExplore:
		s.explore = !s.explore
		s.ui.UpdateArrows(nil)
	}
	return nil
}

// draw replaces the iterator with one over a random line of the latest tree.
func (s *Session) draw() error {
	s.mu.Lock()
	t := s.tree
	s.mu.Unlock()

	line, ok := t.Choose(s.rand)
	if !ok {
		return ErrEmptyRepertoire
	}
	s.it = t.Iterate(line)
	s.log.Info("line drawn", zap.Strings("line", s.it.Moves()))
	return nil
}

// play runs turns until the end of the line. The automated side moves at
// even depths, so it always opens the line.
//
// The side to move comes from the depth, not from the action that started
// the task: after Restart or NextLevel the depth is zero and the automated
// side moves, while leaving exploration mode mid-line resumes with whichever
// side is to move in the current position.
func (s *Session) play(ctx context.Context) error {
	for !s.it.AtEnd() {
		var err error
		switch {
		case s.explore:
			err = s.exploreTurn(ctx)
		case s.it.Depth()%2 == 0:
			err = s.automatedTurn(ctx)
		default:
			err = s.studentTurn(ctx)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) automatedTurn(ctx context.Context) error {
	if err := pace.Sleep(ctx, s.automatedDelay); err != nil {
		return err
	}
	m, err := s.it.Next()
	if err != nil {
		return err
	}
	arrows := []Arrow{ArrowFor(m)}
	if s.ui.ShowHints() {
		hint, err := s.it.Peek()
		if err != nil {
			return err
		}
		if hint != nil {
			arrows = append(arrows, ArrowFor(hint))
		}
	}
	s.ui.PlayMove(s.it.Position(), m, arrows)
	return nil
}

func (s *Session) studentTurn(ctx context.Context) error {
	expected, err := s.it.Peek()
	if err != nil {
		return err
	}

	mistakes := 0
	for {
		m, err := s.ui.AwaitUserMove(ctx)
		if err != nil {
			return err
		}
		if repertoire.SameMove(m, expected) {
			break
		}
		s.ui.Shake()
		mistakes++
		s.log.Debug("wrong move", zap.Int("depth", s.it.Depth()), zap.Int("mistakes", mistakes))
		if mistakes < s.mistakesBeforeHint {
			continue
		}
		if err := pace.Sleep(ctx, s.hintDelay); err != nil {
			return err
		}
		s.ui.UpdateArrows([]Arrow{ArrowFor(expected)})
	}

	m, err := s.it.Next()
	if err != nil {
		return err
	}
	s.ui.PlayMove(s.it.Position(), m, nil)
	return nil
}

func (s *Session) exploreTurn(ctx context.Context) error {
	known, err := s.it.PeekAll()
	if err != nil {
		return err
	}
	s.ui.UpdateArrows(arrowsFor(known))

	for {
		m, err := s.ui.AwaitUserMove(ctx)
		if err != nil {
			return err
		}
		ok, err := s.it.TrySwitch(m)
		if err != nil {
			return err
		}
		if ok {
			break
		}
		s.ui.Shake()
	}

	m, err := s.it.Next()
	if err != nil {
		return err
	}
	s.log.Debug("explored", zap.Strings("line", s.it.Moves()), zap.Int("depth", s.it.Depth()))
	s.ui.PlayMove(s.it.Position(), m, nil)
	return nil
}
