// Package ble talks to GoCube smart cubes over Bluetooth Low Energy.
package ble

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/SeamusWaldron/cubeview/internal/protocol"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"tinygo.org/x/bluetooth"
)

var (
	ErrNotConnected     = errors.New("ble: not connected to device")
	ErrAlreadyConnected = errors.New("ble: already connected to a device")
	ErrDeviceNotFound   = errors.New("ble: device not found")
	ErrServiceNotFound  = errors.New("ble: cube service not found")
)

var (
	serviceUUID = bleUUID(protocol.ServiceUUID)
	txCharUUID  = bleUUID(protocol.TxCharUUID)
	rxCharUUID  = bleUUID(protocol.RxCharUUID)
)

func bleUUID(s string) bluetooth.UUID {
	return bluetooth.NewUUID([16]byte(uuid.MustParse(s)))
}

// ScanResult is a discovered cube.
type ScanResult struct {
	Name    string
	Address string
	RSSI    int16

	addr bluetooth.Address
}

// Client manages the connection to one cube.
type Client struct {
	adapter *bluetooth.Adapter
	log     zerolog.Logger

	mu        sync.RWMutex
	device    bluetooth.Device
	rxChar    bluetooth.DeviceCharacteristic
	connected bool
	name      string
	address   string
	battery   int

	onMessage func(*protocol.Message)
}

// NewClient enables the default adapter.
func NewClient(log zerolog.Logger) (*Client, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable BLE adapter: %w", err)
	}
	return &Client{adapter: adapter, log: log, battery: -1}, nil
}

// OnMessage sets the callback for parsed notifications. It runs on the
// BLE stack's goroutine.
func (c *Client) OnMessage(cb func(*protocol.Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = cb
}

// Scan collects cubes advertising within timeout.
func (c *Client) Scan(ctx context.Context, timeout time.Duration) ([]ScanResult, error) {
	return c.scan(ctx, timeout, func(ScanResult) bool { return false })
}

// scan runs until timeout, ctx cancellation or stop returns true for a
// result.
func (c *Client) scan(ctx context.Context, timeout time.Duration, stop func(ScanResult) bool) ([]ScanResult, error) {
	if c.IsConnected() {
		return nil, ErrAlreadyConnected
	}

	var (
		mu      sync.Mutex
		results []ScanResult
		seen    = map[string]bool{}
		found   = make(chan struct{})
		once    sync.Once
		done    = make(chan error, 1)
	)

	go func() {
		done <- c.adapter.Scan(func(_ *bluetooth.Adapter, r bluetooth.ScanResult) {
			name := r.LocalName()
			if !strings.HasPrefix(strings.ToLower(name), "gocube") {
				return
			}
			res := ScanResult{Name: name, Address: r.Address.String(), RSSI: r.RSSI, addr: r.Address}

			mu.Lock()
			if !seen[res.Address] {
				seen[res.Address] = true
				results = append(results, res)
				c.log.Debug().Str("name", name).Str("address", res.Address).Int16("rssi", r.RSSI).Msg("found cube")
			}
			mu.Unlock()

			if stop(res) {
				once.Do(func() { close(found) })
			}
		})
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-found:
	case <-ctx.Done():
	}

	if err := c.adapter.StopScan(); err != nil {
		c.log.Debug().Err(err).Msg("stop scan")
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return results, nil
}

// Connect scans for the cube at address, or the first cube seen when
// address is empty, and connects to it.
func (c *Client) Connect(ctx context.Context, address string, timeout time.Duration) error {
	results, err := c.scan(ctx, timeout, func(r ScanResult) bool {
		return address == "" || strings.EqualFold(r.Address, address)
	})
	if err != nil {
		return err
	}
	for _, r := range results {
		if address == "" || strings.EqualFold(r.Address, address) {
			return c.ConnectTo(r)
		}
	}
	return ErrDeviceNotFound
}

// ConnectTo connects to a scanned cube and subscribes to notifications.
func (c *Client) ConnectTo(r ScanResult) error {
	if c.IsConnected() {
		return ErrAlreadyConnected
	}

	device, err := c.adapter.Connect(r.addr, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	rx, err := c.subscribe(device)
	if err != nil {
		device.Disconnect()
		return err
	}

	c.mu.Lock()
	c.device = device
	c.rxChar = rx
	c.connected = true
	c.name = r.Name
	c.address = r.Address
	c.mu.Unlock()

	c.log.Info().Str("name", r.Name).Str("address", r.Address).Msg("connected to cube")

	if err := c.SendCommand(protocol.CmdRequestBattery); err != nil {
		c.log.Warn().Err(err).Msg("battery request failed")
	}
	return nil
}

func (c *Client) subscribe(device bluetooth.Device) (bluetooth.DeviceCharacteristic, error) {
	var rx bluetooth.DeviceCharacteristic

	services, err := device.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil {
		return rx, fmt.Errorf("failed to discover services: %w", err)
	}
	if len(services) == 0 {
		return rx, ErrServiceNotFound
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{txCharUUID, rxCharUUID})
	if err != nil {
		return rx, fmt.Errorf("failed to discover characteristics: %w", err)
	}

	var tx bluetooth.DeviceCharacteristic
	for _, ch := range chars {
		switch ch.UUID() {
		case txCharUUID:
			tx = ch
		case rxCharUUID:
			rx = ch
		}
	}

	if err := tx.EnableNotifications(c.handleNotification); err != nil {
		return rx, fmt.Errorf("failed to enable notifications: %w", err)
	}
	return rx, nil
}

// Disconnect disconnects from the current cube.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}

	err := c.device.Disconnect()
	c.connected = false
	c.name = ""
	c.address = ""
	c.battery = -1
	return err
}

// IsConnected returns true if connected to a cube.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Name returns the connected cube's advertised name.
func (c *Client) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// Address returns the connected cube's address.
func (c *Client) Address() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.address
}

// Battery returns the last reported battery level, or -1.
func (c *Client) Battery() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.battery
}

// SendCommand writes a command frame to the cube.
func (c *Client) SendCommand(cmd byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected {
		return ErrNotConnected
	}

	data := protocol.Command(cmd)
	if _, err := c.rxChar.WriteWithoutResponse(data); err != nil {
		_, err = c.rxChar.Write(data)
		return err
	}
	return nil
}

func (c *Client) handleNotification(data []byte) {
	msg, err := protocol.Parse(data)
	if err != nil {
		c.log.Debug().Err(err).Hex("data", data).Msg("dropping malformed notification")
		return
	}

	if msg.Type == protocol.MsgTypeBattery {
		if level, err := protocol.DecodeBattery(msg.Payload); err == nil {
			c.mu.Lock()
			c.battery = level
			c.mu.Unlock()
		}
	}

	c.mu.RLock()
	cb := c.onMessage
	c.mu.RUnlock()

	if cb != nil {
		cb(msg)
	}
}
