// Package recorder journals the moves of a viewer session to storage.
package recorder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Remembered is what survives between runs: a session that was still open
// when the process died, and the cube last connected or scanned.
type Remembered struct {
	OpenSession string     `json:"open_session,omitempty"`
	Device      DeviceInfo `json:"device,omitzero"`
}

// DeviceInfo identifies a GoCube.
type DeviceInfo struct {
	Address string `json:"address,omitempty"`
	Name    string `json:"name,omitempty"`
}

// StateFile is a small JSON document next to the journal database.
type StateFile struct {
	path string

	mu  sync.Mutex
	mem Remembered
}

// NewStateFile opens the state file at path. A missing file starts empty.
func NewStateFile(path string) (*StateFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	sf := &StateFile{path: path}
	if err := sf.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return sf, nil
}

// Load replaces the in-memory state with the file contents.
func (sf *StateFile) Load() error {
	raw, err := os.ReadFile(sf.path)
	if err != nil {
		return err
	}
	var mem Remembered
	if err := json.Unmarshal(raw, &mem); err != nil {
		return fmt.Errorf("failed to parse state file %s: %w", sf.path, err)
	}

	sf.mu.Lock()
	sf.mem = mem
	sf.mu.Unlock()
	return nil
}

// Save writes the state through a temporary file so a crash mid-write
// leaves the previous contents.
func (sf *StateFile) Save() error {
	sf.mu.Lock()
	raw, err := json.MarshalIndent(sf.mem, "", "  ")
	sf.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp := sf.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, sf.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// State returns a copy of the remembered state.
func (sf *StateFile) State() Remembered {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.mem
}

func (sf *StateFile) update(fn func(*Remembered)) error {
	sf.mu.Lock()
	fn(&sf.mem)
	sf.mu.Unlock()
	return sf.Save()
}

// SetActiveSession marks id as open.
func (sf *StateFile) SetActiveSession(id string) error {
	return sf.update(func(m *Remembered) { m.OpenSession = id })
}

// ClearActiveSession forgets the open session.
func (sf *StateFile) ClearActiveSession() error {
	return sf.update(func(m *Remembered) { m.OpenSession = "" })
}

// HasActiveSession reports whether a session was left open.
func (sf *StateFile) HasActiveSession() bool {
	return sf.ActiveSessionID() != ""
}

// ActiveSessionID returns the open session, or "".
func (sf *StateFile) ActiveSessionID() string {
	return sf.State().OpenSession
}

// SetLastDevice remembers the cube at address.
func (sf *StateFile) SetLastDevice(address, name string) error {
	return sf.update(func(m *Remembered) {
		m.Device = DeviceInfo{Address: address, Name: name}
	})
}

// LastDeviceID returns the remembered cube address, or "".
func (sf *StateFile) LastDeviceID() string {
	return sf.State().Device.Address
}
