package protocol

import (
	"fmt"

	"github.com/SeamusWaldron/cubeview"
)

// Rotation is one face turn reported by the cube. Face is given by its
// center color.
type Rotation struct {
	Color     cubeview.Color
	Clockwise bool
	Center    byte
}

// wireColors maps the color index of a rotation code to a face color.
var wireColors = [...]cubeview.Color{
	cubeview.Blue,
	cubeview.Green,
	cubeview.White,
	cubeview.Yellow,
	cubeview.Red,
	cubeview.Orange,
}

// DecodeRotation decodes a rotation payload of (code, center) byte pairs.
// Even codes are clockwise turns.
func DecodeRotation(payload []byte) ([]Rotation, error) {
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("rotation payload must have even length, got %d", len(payload))
	}

	out := make([]Rotation, 0, len(payload)/2)
	for i := 0; i < len(payload); i += 2 {
		code := payload[i]
		idx := int(code / 2)
		if idx >= len(wireColors) {
			return nil, fmt.Errorf("unknown rotation code 0x%02X", code)
		}
		out = append(out, Rotation{
			Color:     wireColors[idx],
			Clockwise: code%2 == 0,
			Center:    payload[i+1],
		})
	}
	return out, nil
}

// DecodeBattery returns the battery level in percent.
func DecodeBattery(payload []byte) (int, error) {
	if len(payload) < 1 {
		return 0, fmt.Errorf("battery payload too short")
	}
	return int(payload[0]), nil
}

// DecodeCubeType reports whether the cube is the edge variant.
func DecodeCubeType(payload []byte) (string, error) {
	if len(payload) < 1 {
		return "", fmt.Errorf("cube type payload too short")
	}
	if payload[0] == 0x01 {
		return "edge", nil
	}
	return "standard", nil
}
