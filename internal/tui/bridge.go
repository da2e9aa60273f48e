// Package tui is the terminal front end of the trainer. A Bridge implements
// trainer.UI by forwarding session events to a bubbletea program and user
// input from the program back to the session.
package tui

import (
	"context"
	"os"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/corentings/chess/v2"
	"go.uber.org/zap"

	"github.com/corentings/repertoire/internal/board"
	"github.com/corentings/repertoire/trainer"
)

// Bridge connects a trainer.Session to the terminal.
type Bridge struct {
	log     *zap.Logger
	program *tea.Program
	moves   chan *chess.Move
	actions chan trainer.Action
	hints   atomic.Bool
	flipped atomic.Bool
	last    atomic.Pointer[chess.Position]
	svgPath string
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithSnapshot writes an SVG image of the board to path after every change.
func WithSnapshot(path string) BridgeOption {
	return func(b *Bridge) { b.svgPath = path }
}

// WithHints sets whether hint arrows start enabled.
func WithHints(on bool) BridgeOption {
	return func(b *Bridge) { b.hints.Store(on) }
}

// NewBridge returns a bridge and its program. The program must be run by
// the caller; session events sent before it starts block until it does.
func NewBridge(log *zap.Logger, options ...BridgeOption) (*Bridge, *tea.Program) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Bridge{
		log:     log,
		moves:   make(chan *chess.Move),
		actions: make(chan trainer.Action, 1),
	}
	// the student answers as Black, so the board is shown from Black
	b.flipped.Store(true)
	for _, f := range options {
		f(b)
	}
	b.program = tea.NewProgram(newModel(b), tea.WithAltScreen())
	return b, b.program
}

// Reset shows pos as the start of a line.
func (b *Bridge) Reset(pos *chess.Position) {
	b.snapshot(pos, nil)
	b.program.Send(resetMsg{pos: pos})
}

// PlayMove shows m played, leading to pos, with the given arrows.
func (b *Bridge) PlayMove(pos *chess.Position, m *chess.Move, arrows []trainer.Arrow) {
	b.snapshot(pos, arrows)
	b.program.Send(playMsg{pos: pos, move: m, arrows: arrows})
}

// UpdateArrows replaces the arrows drawn on the current position.
func (b *Bridge) UpdateArrows(arrows []trainer.Arrow) {
	if pos := b.last.Load(); pos != nil {
		b.snapshot(pos, arrows)
	}
	b.program.Send(arrowsMsg{arrows: arrows})
}

// Shake signals a wrong move.
func (b *Bridge) Shake() {
	b.program.Send(shakeMsg{})
}

// AwaitUserMove blocks until the user enters a legal move or ctx is done.
func (b *Bridge) AwaitUserMove(ctx context.Context) (*chess.Move, error) {
	select {
	case m := <-b.moves:
		return m, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AwaitUserAction blocks until the user picks a control action or ctx is
// done.
func (b *Bridge) AwaitUserAction(ctx context.Context) (trainer.Action, error) {
	select {
	case a := <-b.actions:
		return a, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// ShowHints reports whether hint arrows are enabled, toggled with ctrl+t.
func (b *Bridge) ShowHints() bool {
	return b.hints.Load()
}

// submitMove hands a move to the session. Moves are unbuffered: it reports
// false unless the session is waiting for a move right now, so nothing typed
// during the automated side's turn or before a control action is kept.
func (b *Bridge) submitMove(m *chess.Move) bool {
	select {
	case b.moves <- m:
		return true
	default:
		return false
	}
}

func (b *Bridge) submitAction(a trainer.Action) bool {
	select {
	case b.actions <- a:
		return true
	default:
		return false
	}
}

func (b *Bridge) snapshot(pos *chess.Position, arrows []trainer.Arrow) {
	b.last.Store(pos)
	if b.svgPath == "" {
		return
	}
	f, err := os.Create(b.svgPath)
	if err != nil {
		b.log.Warn("board snapshot", zap.Error(err))
		return
	}
	defer f.Close()
	if err := board.WriteSVG(f, pos, arrows, b.flipped.Load()); err != nil {
		b.log.Warn("board snapshot", zap.String("file", b.svgPath), zap.Error(err))
	}
}
