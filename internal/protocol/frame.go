// Package protocol implements the GoCube smart cube BLE wire format:
// message framing, commands and payload decoding.
package protocol

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// GoCube BLE service and characteristic UUIDs
const (
	ServiceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	TxCharUUID  = "6e400003-b5a3-f393-e0a9-e50e24dcca9e" // notify
	RxCharUUID  = "6e400002-b5a3-f393-e0a9-e50e24dcca9e" // write
)

// Message types
const (
	MsgTypeRotation     byte = 0x01
	MsgTypeState        byte = 0x02
	MsgTypeOrientation  byte = 0x03
	MsgTypeBattery      byte = 0x05
	MsgTypeOfflineStats byte = 0x07
	MsgTypeCubeType     byte = 0x08
)

// Commands written to the RX characteristic
const (
	CmdRequestBattery     byte = 0x32
	CmdRequestState       byte = 0x33
	CmdResetSolved        byte = 0x35
	CmdDisableOrientation byte = 0x37
	CmdEnableOrientation  byte = 0x38
	CmdFlashBacklight     byte = 0x41
	CmdRequestCubeType    byte = 0x56
)

const (
	framePrefix byte = 0x2A
	frameCR     byte = 0x0D
	frameLF     byte = 0x0A
)

var (
	ErrMessageTooShort = errors.New("protocol: message too short")
	ErrInvalidPrefix   = errors.New("protocol: invalid message prefix")
	ErrInvalidLength   = errors.New("protocol: invalid message length")
	ErrInvalidSuffix   = errors.New("protocol: invalid message suffix")
	ErrInvalidChecksum = errors.New("protocol: invalid checksum")
)

// Message is one framed notification.
type Message struct {
	Type    byte
	Payload []byte
	Raw     []byte
}

// RawBase64 returns the frame encoded for logging.
func (m *Message) RawBase64() string {
	return base64.StdEncoding.EncodeToString(m.Raw)
}

// Parse decodes one frame:
//
//	0x2A | len | type | payload... | sum | 0x0D 0x0A
//
// len counts everything after itself. sum is the byte sum of all bytes
// before it.
func Parse(data []byte) (*Message, error) {
	if len(data) < 6 {
		return nil, ErrMessageTooShort
	}
	if data[0] != framePrefix {
		return nil, ErrInvalidPrefix
	}

	end := 2 + int(data[1])
	if end < 6 {
		return nil, ErrMessageTooShort
	}
	if len(data) < end {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrInvalidLength, end, len(data))
	}
	if data[end-2] != frameCR || data[end-1] != frameLF {
		return nil, ErrInvalidSuffix
	}

	sumIdx := end - 3
	if got := checksum(data[:sumIdx]); got != data[sumIdx] {
		return nil, fmt.Errorf("%w: frame says 0x%02X, computed 0x%02X", ErrInvalidChecksum, data[sumIdx], got)
	}

	raw := make([]byte, end)
	copy(raw, data[:end])
	return &Message{
		Type:    raw[2],
		Payload: raw[3:sumIdx],
		Raw:     raw,
	}, nil
}

// Command frames a payload-less command.
func Command(cmd byte) []byte {
	frame := []byte{framePrefix, 0x04, cmd, 0, frameCR, frameLF}
	frame[3] = checksum(frame[:3])
	return frame
}

func checksum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return sum
}

// TypeName returns a readable name for a message type.
func TypeName(t byte) string {
	switch t {
	case MsgTypeRotation:
		return "rotation"
	case MsgTypeState:
		return "state"
	case MsgTypeOrientation:
		return "orientation"
	case MsgTypeBattery:
		return "battery"
	case MsgTypeOfflineStats:
		return "offline_stats"
	case MsgTypeCubeType:
		return "cube_type"
	default:
		return fmt.Sprintf("unknown_0x%02X", t)
	}
}
