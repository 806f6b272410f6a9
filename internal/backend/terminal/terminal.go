// Package terminal runs the viewer inside a terminal using bubbletea,
// drawing the cube with colored half-block characters.
package terminal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SeamusWaldron/cubeview/internal/input"
	"github.com/SeamusWaldron/cubeview/internal/render"
	"github.com/SeamusWaldron/cubeview/internal/viewer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

const frameInterval = time.Second / 30

// Viewer is the terminal backend.
type Viewer struct {
	*viewer.Engine

	fps int
	log zerolog.Logger
}

// Option configures the terminal viewer.
type Option func(*Viewer)

// WithFPS sets the frame rate.
func WithFPS(fps int) Option {
	return func(v *Viewer) {
		if fps > 0 {
			v.fps = fps
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(v *Viewer) { v.log = l }
}

// New creates a terminal viewer around e.
func New(e *viewer.Engine, opts ...Option) *Viewer {
	v := &Viewer{
		Engine: e,
		fps:    int(time.Second / frameInterval),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Init has nothing to prepare; the terminal is taken over by Run.
func (v *Viewer) Init() error {
	return nil
}

// Run takes over the terminal until quit or ctx cancellation.
func (v *Viewer) Run(ctx context.Context) error {
	m := &model{v: v, ctx: ctx, interval: time.Second / time.Duration(v.fps)}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	v.log.Info().Int("fps", v.fps).Msg("starting terminal viewer")
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("terminal: %w", err)
	}
	if fm, ok := final.(*model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

type frameMsg time.Time

type model struct {
	v        *Viewer
	ctx      context.Context
	interval time.Duration
	width    int
	height   int
	dragging bool
	err      error
}

func (m *model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *model) Init() tea.Cmd {
	return m.tick()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	events := m.v.Events()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			events.Push(input.QuitEvent())
			break
		}
		if k := mapKey(msg.String()); k != input.KeyNone {
			events.Push(input.KeyEvent(k))
		}

	case tea.MouseMsg:
		if ev, ok := m.mouseEvent(msg); ok {
			events.Push(ev)
		}

	case frameMsg:
		if _, err := m.v.Step(m.ctx); err != nil {
			m.err = err
			return m, tea.Quit
		}
		if m.v.Done() {
			return m, tea.Quit
		}
		return m, m.tick()
	}

	return m, nil
}

// mouseEvent converts a terminal mouse message. Pixels are half cells, so
// y is scaled to the raster height.
func (m *model) mouseEvent(msg tea.MouseMsg) (input.Event, bool) {
	w, h := float64(m.width), float64(m.rasterRows())
	x, y := float64(msg.X)+0.5, float64(msg.Y)+0.5

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		return input.WheelEvent(1), true
	case msg.Button == tea.MouseButtonWheelDown:
		return input.WheelEvent(-1), true
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging = true
		return input.PointerEvent(input.PointerDown, x, y, w, h), true
	case msg.Action == tea.MouseActionMotion && m.dragging:
		return input.PointerEvent(input.PointerMove, x, y, w, h), true
	case msg.Action == tea.MouseActionRelease && m.dragging:
		m.dragging = false
		return input.PointerEvent(input.PointerUp, x, y, w, h), true
	}
	return input.Event{}, false
}

func (m *model) rasterRows() int {
	rows := m.height - 3
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *model) View() string {
	if m.width == 0 {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("cubeview"))
	b.WriteString("\n")

	r := newRaster(m.width, 2*m.rasterRows())
	render.Draw(r, m.v.Scene(), render.Viewport{
		Width:       float64(r.w),
		Height:      float64(r.h),
		PixelAspect: 1,
	})
	b.WriteString(r.String())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
	} else {
		b.WriteString(statusStyle.Render(m.v.Status().String()))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("1-6 turn · arrows orbit · +/- zoom · drag rotate · enter scramble · space solve · esc quit"))
	return b.String()
}

func mapKey(s string) input.Key {
	switch s {
	case "1":
		return input.Key1
	case "2":
		return input.Key2
	case "3":
		return input.Key3
	case "4":
		return input.Key4
	case "5":
		return input.Key5
	case "6":
		return input.Key6
	case "up":
		return input.KeyUp
	case "down":
		return input.KeyDown
	case "left":
		return input.KeyLeft
	case "right":
		return input.KeyRight
	case "+", "=":
		return input.KeyPlus
	case "-":
		return input.KeyMinus
	case "enter":
		return input.KeyEnter
	case " ", "space":
		return input.KeySpace
	case "esc":
		return input.KeyEscape
	default:
		return input.KeyNone
	}
}
