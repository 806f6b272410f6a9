// Package cli implements the cubeview command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/SeamusWaldron/cubeview/internal/config"
	"github.com/SeamusWaldron/cubeview/internal/logging"
	"github.com/SeamusWaldron/cubeview/internal/recorder"
	"github.com/SeamusWaldron/cubeview/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const version = "0.1.0"

var (
	cfgFile string
	v       = viper.New()
)

// rootCmd opens the viewer.
var rootCmd = &cobra.Command{
	Use:   "cubeview",
	Short: "Animated N-layer cube viewer",
	Long: `cubeview - an interactive, animated twisty cube viewer.

Turn faces with 1-6 (U D F B L R), orbit with the arrow keys, zoom with
+/- or the wheel and rotate freely by dragging. Enter scrambles the cube,
space solves it.

Cubes from 2x2x2 to 7x7x7 are supported. Sessions are journaled to a local
database and can be listed and replayed later.`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runView,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	config.SetDefaults(v)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ~/.cubeview/config.yaml)")
	pf.String("db", "", "Database file path (default: ~/.cubeview/cubeview.db)")
	pf.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	pf.String("log-file", "", "Write logs to this file")

	pf.IntP("size", "n", 3, "Cube size (2-7)")
	pf.Float64P("duration", "d", 0.5, "Seconds per animated move, 0 for instant")
	pf.Int("scramble", 20, "Scramble length (0-100)")
	pf.Int("threads", 4, "Solver table build workers (1-32)")
	pf.Int64("seed", 0, "Scramble seed, 0 for time based")
	pf.StringP("backend", "b", config.BackendWindow, "Display backend: window or terminal")
	pf.Int("width", 800, "Window width")
	pf.Int("height", 800, "Window height")
	pf.String("table", "", "Solver table file (default: cubeview-<size>.tbl)")
	pf.Int("depth", 0, "Solver table depth, 0 for the size default")
	pf.Bool("record", true, "Journal committed moves to the database")

	f := rootCmd.Flags()
	f.StringP("moves", "m", "", "Moves to play at start, e.g. \"R U R' U'\"")
	f.Bool("device", false, "Mirror a connected GoCube")
	f.String("device-address", "", "GoCube address (default: last scanned cube)")
	f.Duration("device-timeout", 0, "How long to look for the GoCube (default 10s)")

	bind := func(key string, fs *pflag.FlagSet, name string) {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}
	bind("db", pf, "db")
	bind("log.level", pf, "log-level")
	bind("log.file", pf, "log-file")
	bind("size", pf, "size")
	bind("duration", pf, "duration")
	bind("scramble", pf, "scramble")
	bind("threads", pf, "threads")
	bind("seed", pf, "seed")
	bind("backend", pf, "backend")
	bind("width", pf, "width")
	bind("height", pf, "height")
	bind("solver.table", pf, "table")
	bind("solver.depth", pf, "depth")
	bind("record", pf, "record")
	bind("moves", f, "moves")
	bind("device.enabled", f, "device")
	bind("device.address", f, "device-address")

	// Only an explicit --device-timeout overrides the default.
	rootCmd.PreRun = func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("device-timeout") {
			d, _ := cmd.Flags().GetDuration("device-timeout")
			v.Set("device.timeout", d)
		}
	}
}

// dataDir returns ~/.cubeview, or "" when it cannot be created.
func dataDir() string {
	dir, err := storage.DefaultDir()
	if err != nil {
		return ""
	}
	return dir
}

// loadConfig reads the config file and validates the merged settings.
func loadConfig() (config.Config, error) {
	if err := config.ReadFile(v, cfgFile, dataDir()); err != nil {
		return config.Config{}, err
	}
	return config.Load(v)
}

// setupLogger logs to stderr, or to a file when one is configured or the
// terminal backend owns the screen.
func setupLogger(cfg config.Config) (zerolog.Logger, func(), error) {
	path := cfg.Log.File
	if path == "" && cfg.Backend == config.BackendTerminal {
		if dir := dataDir(); dir != "" {
			path = filepath.Join(dir, "cubeview.log")
		}
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if path != "" {
		f, err := logging.OpenFile(path)
		if err != nil {
			return zerolog.Nop(), closeFn, err
		}
		w = f
		closeFn = func() { f.Close() }
	} else if cfg.Backend == config.BackendTerminal {
		w = io.Discard
	}

	log, err := logging.Setup(cfg.Log.Level, w)
	if err != nil {
		closeFn()
		return zerolog.Nop(), func() {}, err
	}
	return log, closeFn, nil
}

func openDB(cfg config.Config) (*storage.DB, error) {
	path := cfg.DB
	if path == "" {
		var err error
		if path, err = storage.DefaultDBPath(); err != nil {
			return nil, err
		}
	}

	db, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// openStateFile returns the state file, or nil when it is unavailable.
func openStateFile(log zerolog.Logger) *recorder.StateFile {
	dir := dataDir()
	if dir == "" {
		return nil
	}
	sf, err := recorder.NewStateFile(filepath.Join(dir, "state.json"))
	if err != nil {
		log.Warn().Err(err).Msg("state file unavailable")
		return nil
	}
	return sf
}
