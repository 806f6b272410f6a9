package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/SeamusWaldron/cubeview/internal/solver"
	"github.com/spf13/cobra"
)

var tableForce bool

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Manage solver tables",
}

var tableBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the solver table for a cube size",
	Long: `Build the solver lookup table and save it to --table
(default cubeview-<size>.tbl). An existing table is kept unless --force
is given.`,
	Args: cobra.NoArgs,
	RunE: runTableBuild,
}

func init() {
	rootCmd.AddCommand(tableCmd)
	tableCmd.AddCommand(tableBuildCmd)
	tableBuildCmd.Flags().BoolVar(&tableForce, "force", false, "Rebuild even if the table file exists")
}

func runTableBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	path := cfg.TablePath()
	if tableForce {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove old table: %w", err)
		}
	}

	table := solver.New(cfg.Size,
		solver.WithDepth(cfg.Solver.Depth),
		solver.WithThreads(cfg.Threads),
		solver.WithLogger(log),
	)

	start := time.Now()
	if err := table.InitFrom(cmd.Context(), path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Table %s: %dx%dx%d, depth %d, %d states (%s)\n",
		path, table.Size(), table.Size(), table.Size(), table.Depth(), table.Len(),
		formatDuration(time.Since(start)))
	return nil
}
