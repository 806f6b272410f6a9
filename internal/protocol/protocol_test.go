package protocol

import (
	"errors"
	"testing"

	"github.com/SeamusWaldron/cubeview"
)

func frame(msgType byte, payload ...byte) []byte {
	b := []byte{framePrefix, byte(len(payload) + 4), msgType}
	b = append(b, payload...)
	b = append(b, checksum(b))
	return append(b, frameCR, frameLF)
}

func TestParse(t *testing.T) {
	data := frame(MsgTypeRotation, 0x00, 0x03, 0x09, 0x06)
	msg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if msg.Type != MsgTypeRotation {
		t.Errorf("type = 0x%02X", msg.Type)
	}
	if len(msg.Payload) != 4 || msg.Payload[2] != 0x09 {
		t.Errorf("payload = % X", msg.Payload)
	}
	if msg.RawBase64() == "" {
		t.Error("raw frame missing")
	}
}

func TestParseIgnoresTrailingBytes(t *testing.T) {
	data := append(frame(MsgTypeBattery, 77), 0xFF, 0xFF)
	msg, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(msg.Raw) != len(data)-2 {
		t.Errorf("raw length %d", len(msg.Raw))
	}
}

func TestParseErrors(t *testing.T) {
	good := frame(MsgTypeBattery, 50)

	badPrefix := append([]byte(nil), good...)
	badPrefix[0] = 0x00

	badSum := append([]byte(nil), good...)
	badSum[4]++

	badSuffix := append([]byte(nil), good...)
	badSuffix[len(badSuffix)-1] = 0x00

	cases := []struct {
		name string
		data []byte
		want error
	}{
		{"short", good[:4], ErrMessageTooShort},
		{"prefix", badPrefix, ErrInvalidPrefix},
		{"truncated", good[:len(good)-1], ErrInvalidLength},
		{"checksum", badSum, ErrInvalidChecksum},
		{"suffix", badSuffix, ErrInvalidSuffix},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.data); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCommandParses(t *testing.T) {
	msg, err := Parse(Command(CmdRequestBattery))
	if err != nil {
		t.Fatalf("command frame does not parse: %v", err)
	}
	if msg.Type != CmdRequestBattery || len(msg.Payload) != 0 {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestDecodeRotation(t *testing.T) {
	rots, err := DecodeRotation([]byte{0x04, 0x00, 0x09, 0x03})
	if err != nil {
		t.Fatal(err)
	}
	if len(rots) != 2 {
		t.Fatalf("expected 2 rotations, got %d", len(rots))
	}
	if rots[0].Color != cubeview.White || !rots[0].Clockwise {
		t.Errorf("first rotation %+v", rots[0])
	}
	if rots[1].Color != cubeview.Red || rots[1].Clockwise || rots[1].Center != 0x03 {
		t.Errorf("second rotation %+v", rots[1])
	}

	if _, err := DecodeRotation([]byte{0x01}); err == nil {
		t.Error("odd payload should fail")
	}
	if _, err := DecodeRotation([]byte{0x0C, 0x00}); err == nil {
		t.Error("unknown code should fail")
	}
}

func TestDecodeBattery(t *testing.T) {
	level, err := DecodeBattery([]byte{88})
	if err != nil || level != 88 {
		t.Errorf("got %d, %v", level, err)
	}
	if _, err := DecodeBattery(nil); err == nil {
		t.Error("empty payload should fail")
	}
}
