package cli

import (
	"fmt"
	"time"

	"github.com/SeamusWaldron/cubeview/internal/ble"
	"github.com/spf13/cobra"
)

var scanTimeout time.Duration

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for GoCube smart cubes",
	Long: `Scan for nearby GoCube devices over Bluetooth. The strongest cube found
is remembered and used by --device when no address is given.

Note: on macOS scanning sometimes needs more than one attempt. Make sure
the cube is not connected to another device.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 5*time.Second, "How long to scan")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Scanning for GoCube devices...")

	client, err := ble.NewClient(log)
	if err != nil {
		return fmt.Errorf("BLE not available: %w", err)
	}

	results, err := client.Scan(cmd.Context(), scanTimeout)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "No GoCube found")
		return nil
	}

	best := results[0]
	for _, r := range results {
		fmt.Fprintf(out, "  %-20s  %-20s  %d dBm\n", r.Name, r.Address, r.RSSI)
		if r.RSSI > best.RSSI {
			best = r
		}
	}

	if sf := openStateFile(log); sf != nil {
		if err := sf.SetLastDevice(best.Address, best.Name); err != nil {
			return err
		}
		fmt.Fprintf(out, "Using %s for --device\n", best.Name)
	}
	return nil
}
