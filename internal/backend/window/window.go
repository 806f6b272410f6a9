// Package window runs the viewer in a desktop window using ebiten.
package window

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/SeamusWaldron/cubeview/internal/input"
	"github.com/SeamusWaldron/cubeview/internal/render"
	"github.com/SeamusWaldron/cubeview/internal/viewer"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"
)

// ErrInvalidSize is returned by Init for a non-positive window size.
var ErrInvalidSize = errors.New("window: invalid window size")

var background = color.RGBA{0x20, 0x20, 0x28, 0xff}

// Viewer is the windowed backend.
type Viewer struct {
	*viewer.Engine

	title         string
	width, height int
	log           zerolog.Logger

	ctx     context.Context
	white   *ebiten.Image
	keys    []ebiten.Key
	lastX   int
	lastY   int
	pressed bool
}

// Option configures the window.
type Option func(*Viewer)

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(v *Viewer) { v.title = title }
}

// WithSize sets the initial window size in pixels.
func WithSize(w, h int) Option {
	return func(v *Viewer) {
		v.width = w
		v.height = h
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(v *Viewer) { v.log = l }
}

// New creates a windowed viewer around e.
func New(e *viewer.Engine, opts ...Option) *Viewer {
	v := &Viewer{
		Engine: e,
		title:  "cubeview",
		width:  800,
		height: 800,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Init configures the window.
func (v *Viewer) Init() error {
	if v.width <= 0 || v.height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, v.width, v.height)
	}
	ebiten.SetWindowTitle(v.title)
	ebiten.SetWindowSize(v.width, v.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	v.white = ebiten.NewImage(3, 3)
	v.white.Fill(color.White)
	return nil
}

// Run opens the window and blocks until quit, window close or ctx
// cancellation.
func (v *Viewer) Run(ctx context.Context) error {
	if v.white == nil {
		if err := v.Init(); err != nil {
			return err
		}
	}
	v.ctx = ctx
	v.log.Info().Int("width", v.width).Int("height", v.height).Msg("opening window")

	if err := ebiten.RunGame(&game{v: v}); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}

type game struct {
	v *Viewer
}

func (g *game) Update() error {
	v := g.v
	if v.ctx.Err() != nil {
		return ebiten.Termination
	}
	v.poll()
	if _, err := v.Step(v.ctx); err != nil {
		return err
	}
	if v.Done() {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	v := g.v
	screen.Fill(background)

	b := screen.Bounds()
	cv := &canvas{dst: screen, src: v.white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)}
	render.Draw(cv, v.Scene(), render.Viewport{
		Width:       float64(b.Dx()),
		Height:      float64(b.Dy()),
		PixelAspect: 1,
	})

	ebitenutil.DebugPrint(screen, v.Status().String()+"\n1-6 turn  arrows orbit  +/- zoom  enter scramble  space solve  esc quit")
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.v.width, g.v.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// poll pushes this tick's keyboard and mouse input to the event queue.
func (v *Viewer) poll() {
	events := v.Events()

	v.keys = inpututil.AppendJustPressedKeys(v.keys[:0])
	for _, k := range v.keys {
		if key := mapKey(k); key != input.KeyNone && !isArrow(key) {
			events.Push(input.KeyEvent(key))
		}
	}
	for _, k := range []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowLeft, ebiten.KeyArrowRight} {
		if repeating(k) {
			events.Push(input.KeyEvent(mapKey(k)))
		}
	}

	w, h := float64(v.width), float64(v.height)
	x, y := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		v.pressed = true
		events.Push(input.PointerEvent(input.PointerDown, float64(x), float64(y), w, h))
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		v.pressed = false
		events.Push(input.PointerEvent(input.PointerUp, float64(x), float64(y), w, h))
	case v.pressed && (x != v.lastX || y != v.lastY):
		events.Push(input.PointerEvent(input.PointerMove, float64(x), float64(y), w, h))
	}
	v.lastX, v.lastY = x, y

	if _, dy := ebiten.Wheel(); dy != 0 {
		events.Push(input.WheelEvent(dy))
	}
}

// repeating reports a key press on the first tick and then at a fixed
// rate while held.
func repeating(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	return d == 1 || (d >= 15 && d%3 == 0)
}

func isArrow(k input.Key) bool {
	return k == input.KeyUp || k == input.KeyDown || k == input.KeyLeft || k == input.KeyRight
}

func mapKey(k ebiten.Key) input.Key {
	switch k {
	case ebiten.KeyDigit1, ebiten.KeyNumpad1:
		return input.Key1
	case ebiten.KeyDigit2, ebiten.KeyNumpad2:
		return input.Key2
	case ebiten.KeyDigit3, ebiten.KeyNumpad3:
		return input.Key3
	case ebiten.KeyDigit4, ebiten.KeyNumpad4:
		return input.Key4
	case ebiten.KeyDigit5, ebiten.KeyNumpad5:
		return input.Key5
	case ebiten.KeyDigit6, ebiten.KeyNumpad6:
		return input.Key6
	case ebiten.KeyArrowUp:
		return input.KeyUp
	case ebiten.KeyArrowDown:
		return input.KeyDown
	case ebiten.KeyArrowLeft:
		return input.KeyLeft
	case ebiten.KeyArrowRight:
		return input.KeyRight
	case ebiten.KeyEqual, ebiten.KeyNumpadAdd:
		return input.KeyPlus
	case ebiten.KeyMinus, ebiten.KeyNumpadSubtract:
		return input.KeyMinus
	case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
		return input.KeyEnter
	case ebiten.KeySpace:
		return input.KeySpace
	case ebiten.KeyEscape:
		return input.KeyEscape
	default:
		return input.KeyNone
	}
}
