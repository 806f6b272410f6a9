package device

import (
	"testing"

	"github.com/SeamusWaldron/cubeview"
	"github.com/SeamusWaldron/cubeview/internal/anim"
	"github.com/SeamusWaldron/cubeview/internal/input"
	"github.com/SeamusWaldron/cubeview/internal/protocol"
	"github.com/rs/zerolog"
)

type sliceSink struct {
	events []input.Event
	limit  int
}

func (s *sliceSink) Push(ev input.Event) bool {
	if s.limit > 0 && len(s.events) >= s.limit {
		return false
	}
	s.events = append(s.events, ev)
	return true
}

func TestRotationMove(t *testing.T) {
	cases := []struct {
		color     cubeview.Color
		clockwise bool
		want      cubeview.Move
	}{
		{cubeview.White, true, cubeview.M(cubeview.Top, 1)},
		{cubeview.Yellow, false, cubeview.M(cubeview.Bottom, -1)},
		{cubeview.Green, true, cubeview.M(cubeview.Front, 1)},
		{cubeview.Blue, true, cubeview.M(cubeview.Back, 1)},
		{cubeview.Red, false, cubeview.M(cubeview.Right, -1)},
		{cubeview.Orange, true, cubeview.M(cubeview.Left, 1)},
	}
	for _, tc := range cases {
		got := RotationMove(protocol.Rotation{Color: tc.color, Clockwise: tc.clockwise})
		if got != tc.want {
			t.Errorf("%v clockwise=%v: got %v, want %v", tc.color, tc.clockwise, got, tc.want)
		}
	}
}

func TestHandleRotationMessage(t *testing.T) {
	sink := &sliceSink{}
	m := NewMirror(sink, zerolog.Nop())

	// red clockwise, white counter-clockwise
	m.HandleMessage(&protocol.Message{Type: protocol.MsgTypeRotation, Payload: []byte{0x08, 0x00, 0x05, 0x00}})

	if len(sink.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(sink.events))
	}
	first := sink.events[0]
	if first.Kind != input.ExternalMove || first.Source != anim.SourceDevice {
		t.Errorf("unexpected event %+v", first)
	}
	if first.Move != cubeview.M(cubeview.Right, 1) {
		t.Errorf("first move %v", first.Move)
	}
	if sink.events[1].Move != cubeview.M(cubeview.Top, -1) {
		t.Errorf("second move %v", sink.events[1].Move)
	}
	if m.Moves() != 2 {
		t.Errorf("expected 2 forwarded moves, got %d", m.Moves())
	}
}

func TestHandleBatteryMessage(t *testing.T) {
	m := NewMirror(&sliceSink{}, zerolog.Nop())
	if m.Battery() != -1 {
		t.Error("battery should start unknown")
	}
	m.HandleMessage(&protocol.Message{Type: protocol.MsgTypeBattery, Payload: []byte{64}})
	if m.Battery() != 64 {
		t.Errorf("battery = %d", m.Battery())
	}
}

func TestFullSinkDropsMoves(t *testing.T) {
	sink := &sliceSink{limit: 1}
	m := NewMirror(sink, zerolog.Nop())
	m.HandleMessage(&protocol.Message{Type: protocol.MsgTypeRotation, Payload: []byte{0x00, 0x00, 0x02, 0x00}})
	if m.Moves() != 1 || len(sink.events) != 1 {
		t.Errorf("expected one forwarded move, got %d", m.Moves())
	}
	if m.Dropped() != 1 {
		t.Errorf("expected one dropped move, got %d", m.Dropped())
	}
}
