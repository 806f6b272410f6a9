package cli

import (
	"fmt"
	"io"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/SeamusWaldron/cubeview"
	"github.com/SeamusWaldron/cubeview/internal/ble"
	"github.com/SeamusWaldron/cubeview/internal/device"
	"github.com/SeamusWaldron/cubeview/internal/protocol"
	"github.com/spf13/cobra"
)

var (
	monitorRaw     bool
	monitorTimeout time.Duration
)

var monitorCmd = &cobra.Command{
	Use:   "monitor [address]",
	Short: "Print the notifications of a connected GoCube",
	Long: `Connect to a GoCube and print every notification it sends. Turns are
shown in notation and tracked on a 3x3x3 model that starts solved.

Press Ctrl+C to exit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().BoolVar(&monitorRaw, "raw", false, "Also print raw frames")
	monitorCmd.Flags().DurationVar(&monitorTimeout, "timeout", 10*time.Second, "How long to look for the cube")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	address := ""
	if len(args) > 0 {
		address = args[0]
	} else if sf := openStateFile(log); sf != nil {
		address = sf.LastDeviceID()
	}

	client, err := ble.NewClient(log)
	if err != nil {
		return fmt.Errorf("BLE not available: %w", err)
	}

	out := cmd.OutOrStdout()
	mon := &monitor{out: out, raw: monitorRaw, cube: cubeview.NewCube(3)}
	client.OnMessage(mon.handle)

	fmt.Fprintln(out, "Scanning for GoCube...")
	if err := client.Connect(ctx, address, monitorTimeout); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer client.Disconnect()

	fmt.Fprintf(out, "Connected to: %s (%s)\n", client.Name(), client.Address())
	fmt.Fprintln(out, strings.Repeat("-", 70))
	if err := client.SendCommand(protocol.CmdRequestCubeType); err != nil {
		log.Warn().Err(err).Msg("cube type request failed")
	}

	<-ctx.Done()
	fmt.Fprintln(out, "\nDisconnecting...")
	return nil
}

// monitor prints notifications and tracks the cube they describe.
type monitor struct {
	out io.Writer
	raw bool

	mu   sync.Mutex
	cube *cubeview.Cube
}

func (m *monitor) handle(msg *protocol.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ts := time.Now().Format("15:04:05.000")
	if m.raw {
		fmt.Fprintf(m.out, "[%s] RAW %-13s %s\n", ts, protocol.TypeName(msg.Type), msg.RawBase64())
	}

	switch msg.Type {
	case protocol.MsgTypeRotation:
		rotations, err := protocol.DecodeRotation(msg.Payload)
		if err != nil {
			fmt.Fprintf(m.out, "[%s] ROTATION ERROR: %v\n", ts, err)
			return
		}
		moves := make([]cubeview.Move, len(rotations))
		for i, r := range rotations {
			moves[i] = device.RotationMove(r)
		}
		m.cube.Apply(moves...)
		fmt.Fprintf(m.out, "[%s] MOVE: %-8s | Solved: %v\n", ts, cubeview.FormatMoves(moves), m.cube.IsSolved())

	case protocol.MsgTypeBattery:
		level, err := protocol.DecodeBattery(msg.Payload)
		if err != nil {
			fmt.Fprintf(m.out, "[%s] BATTERY ERROR: %v\n", ts, err)
			return
		}
		fmt.Fprintf(m.out, "[%s] BATTERY: %d%%\n", ts, level)

	case protocol.MsgTypeCubeType:
		name, err := protocol.DecodeCubeType(msg.Payload)
		if err != nil {
			fmt.Fprintf(m.out, "[%s] CUBE_TYPE ERROR: %v\n", ts, err)
			return
		}
		fmt.Fprintf(m.out, "[%s] CUBE_TYPE: %s\n", ts, name)

	default:
		fmt.Fprintf(m.out, "[%s] %s: %d bytes - %X\n", ts, strings.ToUpper(protocol.TypeName(msg.Type)), len(msg.Payload), msg.Payload)
	}
}
