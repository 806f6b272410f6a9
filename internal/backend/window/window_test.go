package window

import (
	"errors"
	"testing"

	"github.com/SeamusWaldron/cubeview"
	"github.com/SeamusWaldron/cubeview/internal/input"
	"github.com/SeamusWaldron/cubeview/internal/viewer"
	"github.com/hajimehoshi/ebiten/v2"
)

func TestMapKey(t *testing.T) {
	cases := map[ebiten.Key]input.Key{
		ebiten.KeyDigit1:         input.Key1,
		ebiten.KeyNumpad6:        input.Key6,
		ebiten.KeyArrowLeft:      input.KeyLeft,
		ebiten.KeyEqual:          input.KeyPlus,
		ebiten.KeyNumpadSubtract: input.KeyMinus,
		ebiten.KeyEnter:          input.KeyEnter,
		ebiten.KeySpace:          input.KeySpace,
		ebiten.KeyEscape:         input.KeyEscape,
		ebiten.KeyQ:              input.KeyNone,
	}
	for k, want := range cases {
		if got := mapKey(k); got != want {
			t.Errorf("mapKey(%v) = %v, want %v", k, got, want)
		}
	}
}

func TestArrowsAreRepeatedSeparately(t *testing.T) {
	for _, k := range []input.Key{input.KeyUp, input.KeyDown, input.KeyLeft, input.KeyRight} {
		if !isArrow(k) {
			t.Errorf("%v should be an arrow", k)
		}
	}
	if isArrow(input.Key1) {
		t.Error("digit keys are not arrows")
	}
}

func TestInitRejectsEmptyWindow(t *testing.T) {
	v := New(viewer.NewEngine(cubeview.NewCube(3), nil), WithSize(0, 600))
	if err := v.Init(); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}
