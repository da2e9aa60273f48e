package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/corentings/chess/v2"

	"github.com/corentings/repertoire/internal/board"
	"github.com/corentings/repertoire/trainer"
)

type (
	resetMsg  struct{ pos *chess.Position }
	arrowsMsg struct{ arrows []trainer.Arrow }
	shakeMsg  struct{}
	shakeTick struct{}
	playMsg   struct {
		pos    *chess.Position
		move   *chess.Move
		arrows []trainer.Arrow
	}
)

const shakeFrames = 6

var (
	lightSquare = lipgloss.NewStyle().Background(lipgloss.Color("180")).Foreground(lipgloss.Color("0"))
	darkSquare  = lipgloss.NewStyle().Background(lipgloss.Color("137")).Foreground(lipgloss.Color("0"))
	fromSquare  = lipgloss.NewStyle().Background(lipgloss.Color("108")).Foreground(lipgloss.Color("0"))
	toSquare    = lipgloss.NewStyle().Background(lipgloss.Color("71")).Foreground(lipgloss.Color("0"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

type model struct {
	bridge *Bridge
	input  textinput.Model

	pos    *chess.Position
	arrows []trainer.Arrow
	moves  []string
	status string
	failed bool
	shake  int
}

func newModel(b *Bridge) model {
	in := textinput.New()
	in.Placeholder = "your move, e.g. Nf6"
	in.Prompt = "> "
	in.CharLimit = 10
	in.Focus()
	return model{
		bridge: b,
		input:  in,
		pos:    chess.NewGame().Position(),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case resetMsg:
		m.pos = msg.pos
		m.arrows = nil
		m.moves = nil
		m.setStatus("new line", false)
		return m, nil

	case playMsg:
		m.moves = append(m.moves, chess.AlgebraicNotation{}.Encode(m.pos, msg.move))
		m.pos = msg.pos
		m.arrows = msg.arrows
		m.setStatus("", false)
		return m, nil

	case arrowsMsg:
		m.arrows = msg.arrows
		return m, nil

	case shakeMsg:
		m.setStatus("not the move", true)
		m.shake = shakeFrames
		return m, shakeStep()

	case shakeTick:
		if m.shake > 0 {
			m.shake--
			return m, shakeStep()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func shakeStep() tea.Cmd {
	return tea.Tick(40*time.Millisecond, func(time.Time) tea.Msg { return shakeTick{} })
}

func (m *model) setStatus(s string, failed bool) {
	m.status = s
	m.failed = failed
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyCtrlR:
		m.action(trainer.Restart)
		return m, nil
	case tea.KeyCtrlN:
		m.action(trainer.NextLevel)
		return m, nil
	case tea.KeyCtrlE:
		m.action(trainer.ToggleExplore)
		return m, nil
	case tea.KeyCtrlT:
		on := !m.bridge.hints.Load()
		m.bridge.hints.Store(on)
		m.setStatus(fmt.Sprintf("hints %s", onOff(on)), false)
		return m, nil
	case tea.KeyCtrlF:
		m.bridge.flipped.Store(!m.bridge.flipped.Load())
		return m, nil
	case tea.KeyEnter:
		m.submit()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) action(a trainer.Action) {
	if !m.bridge.submitAction(a) {
		m.setStatus("busy, try again", true)
		return
	}
	m.setStatus(a.String(), false)
}

// submit decodes the typed move against the board. Text that is not a legal
// move is refused here and never reaches the session.
func (m *model) submit() {
	text := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if text == "" {
		return
	}
	mv, err := chess.AlgebraicNotation{}.Decode(m.pos, text)
	if err != nil {
		m.setStatus(fmt.Sprintf("%q is not a legal move", text), true)
		return
	}
	if !m.bridge.submitMove(mv) {
		m.setStatus("wait for your turn", true)
		return
	}
	m.setStatus("", false)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func (m model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("repertoire trainer"))
	sb.WriteString("\n\n")

	indent := strings.Repeat(" ", (m.shake%2)*2)
	for _, row := range board.Grid(m.pos, m.arrows, m.bridge.flipped.Load()) {
		sb.WriteString(indent)
		sb.WriteString(fmt.Sprintf("%d ", int(row[0].Square.Rank())+1))
		for _, cell := range row {
			sb.WriteString(renderCell(cell))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(indent)
	sb.WriteString("  ")
	for _, cell := range board.Grid(m.pos, nil, m.bridge.flipped.Load())[7] {
		sb.WriteString(" " + cell.Square.File().String() + " ")
	}
	sb.WriteString("\n\n")

	sb.WriteString(moveList(m.moves))
	sb.WriteString("\n")
	if m.failed {
		sb.WriteString(errorStyle.Render(m.status))
	} else {
		sb.WriteString(m.status)
	}
	sb.WriteString("\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render(fmt.Sprintf(
		"ctrl+r restart  ctrl+n next line  ctrl+e explore  ctrl+t hints (%s)  ctrl+f flip  esc quit",
		onOff(m.bridge.hints.Load()))))
	return sb.String()
}

func renderCell(c board.Cell) string {
	glyph := " "
	if c.Piece != chess.NoPiece {
		glyph = c.Piece.String()
	}
	style := darkSquare
	switch {
	case c.To:
		style = toSquare
	case c.From:
		style = fromSquare
	case c.Light:
		style = lightSquare
	}
	return style.Render(" " + glyph + " ")
}

func moveList(moves []string) string {
	var sb strings.Builder
	for i, mv := range moves {
		if i%2 == 0 {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(fmt.Sprintf("%d. ", i/2+1))
		} else {
			sb.WriteString(" ")
		}
		sb.WriteString(mv)
	}
	return sb.String()
}
