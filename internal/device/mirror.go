// Package device mirrors the turns of a physical GoCube onto the viewer.
package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SeamusWaldron/cubeview"
	"github.com/SeamusWaldron/cubeview/internal/anim"
	"github.com/SeamusWaldron/cubeview/internal/ble"
	"github.com/SeamusWaldron/cubeview/internal/input"
	"github.com/SeamusWaldron/cubeview/internal/protocol"
	"github.com/rs/zerolog"
)

// Sink receives mirrored moves. *input.Queue satisfies it.
type Sink interface {
	Push(ev input.Event) bool
}

// Mirror turns cube notifications into external move events.
type Mirror struct {
	sink Sink
	log  zerolog.Logger

	mu      sync.Mutex
	battery int
	moves   int
	dropped int
}

// NewMirror creates a Mirror feeding sink.
func NewMirror(sink Sink, log zerolog.Logger) *Mirror {
	return &Mirror{sink: sink, log: log, battery: -1}
}

// HandleMessage processes one notification.
func (m *Mirror) HandleMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgTypeRotation:
		m.handleRotation(msg)
	case protocol.MsgTypeBattery:
		level, err := protocol.DecodeBattery(msg.Payload)
		if err != nil {
			m.log.Debug().Err(err).Msg("bad battery payload")
			return
		}
		m.mu.Lock()
		m.battery = level
		m.mu.Unlock()
		m.log.Info().Int("battery", level).Msg("cube battery")
	default:
		m.log.Trace().Str("type", protocol.TypeName(msg.Type)).Msg("ignoring notification")
	}
}

func (m *Mirror) handleRotation(msg *protocol.Message) {
	rotations, err := protocol.DecodeRotation(msg.Payload)
	if err != nil {
		m.log.Warn().Err(err).Str("raw", msg.RawBase64()).Msg("bad rotation payload")
		return
	}

	for _, rot := range rotations {
		move := RotationMove(rot)
		ok := m.sink.Push(input.MoveEvent(move, anim.SourceDevice))

		m.mu.Lock()
		if ok {
			m.moves++
		} else {
			m.dropped++
		}
		m.mu.Unlock()

		if !ok {
			m.log.Warn().Str("move", move.Notation()).Msg("event queue full, device move dropped")
		}
	}
}

// Battery returns the last reported level, or -1.
func (m *Mirror) Battery() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.battery
}

// Moves returns the number of moves forwarded.
func (m *Mirror) Moves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.moves
}

// Dropped returns the number of moves lost to a full event queue.
func (m *Mirror) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

// RotationMove maps a reported rotation to an outer layer quarter turn.
// The face is the one whose solved color matches the turned center.
func RotationMove(rot protocol.Rotation) cubeview.Move {
	face := faceOf(rot.Color)
	turns := -1
	if rot.Clockwise {
		turns = 1
	}
	return cubeview.M(face, turns)
}

func faceOf(c cubeview.Color) cubeview.Face {
	for _, f := range cubeview.Faces {
		if f.SolvedColor() == c {
			return f
		}
	}
	return cubeview.Face(-1)
}

// Connect connects to a cube, or the first one found when address is
// empty, and forwards its turns to sink until the returned client is
// disconnected.
func Connect(ctx context.Context, address string, timeout time.Duration, sink Sink, log zerolog.Logger) (*ble.Client, *Mirror, error) {
	client, err := ble.NewClient(log)
	if err != nil {
		return nil, nil, err
	}

	mirror := NewMirror(sink, log)
	client.OnMessage(mirror.HandleMessage)

	if err := client.Connect(ctx, address, timeout); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to cube: %w", err)
	}
	return client, mirror, nil
}
