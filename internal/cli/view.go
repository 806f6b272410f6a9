package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/SeamusWaldron/cubeview"
	"github.com/SeamusWaldron/cubeview/internal/anim"
	"github.com/SeamusWaldron/cubeview/internal/backend/terminal"
	"github.com/SeamusWaldron/cubeview/internal/backend/window"
	"github.com/SeamusWaldron/cubeview/internal/config"
	"github.com/SeamusWaldron/cubeview/internal/device"
	"github.com/SeamusWaldron/cubeview/internal/recorder"
	"github.com/SeamusWaldron/cubeview/internal/solver"
	"github.com/SeamusWaldron/cubeview/internal/viewer"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	moves, err := cubeview.ParseMoves(cfg.Moves)
	if err != nil {
		return fmt.Errorf("invalid --moves: %w", err)
	}

	return launch(cmd.Context(), cfg, log, play{moves: moves, source: anim.SourceManual})
}

// play is what a launch enqueues before the frame loop starts.
type play struct {
	moves  []cubeview.Move
	source anim.Source
}

// launch builds the solver, engine, journal, device mirror and backend,
// then runs the frame loop until quit.
func launch(parent context.Context, cfg config.Config, log zerolog.Logger, p play) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	table := solver.New(cfg.Size,
		solver.WithDepth(cfg.Solver.Depth),
		solver.WithThreads(cfg.Threads),
		solver.WithLogger(log),
	)
	if err := table.InitFrom(ctx, cfg.TablePath()); err != nil {
		return fmt.Errorf("failed to prepare solver: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Debug().Int64("seed", seed).Msg("scramble seed")

	engine := viewer.NewEngine(cubeview.NewCube(cfg.Size), table,
		viewer.WithDuration(cfg.RotateDuration()),
		viewer.WithRand(rand.New(rand.NewSource(seed))),
		viewer.WithScrambleLength(cfg.Scramble),
		viewer.WithLogger(log),
	)

	sf := openStateFile(log)

	if cfg.Record {
		end, err := startJournal(cfg, log, sf, engine, p.moves)
		if err != nil {
			return err
		}
		defer end()
	}

	if cfg.Device.Enabled {
		address := cfg.Device.Address
		if address == "" && sf != nil {
			address = sf.LastDeviceID()
		}
		client, _, err := device.Connect(ctx, address, cfg.Device.Timeout, engine.Events(), log)
		if err != nil {
			return err
		}
		defer client.Disconnect()
		if sf != nil {
			if err := sf.SetLastDevice(client.Address(), client.Name()); err != nil {
				log.Warn().Err(err).Msg("failed to remember device")
			}
		}
	}

	for _, m := range p.moves {
		if !m.Valid(cfg.Size) {
			log.Warn().Str("move", m.Notation()).Int("size", cfg.Size).Msg("ignoring move outside the cube")
		}
	}
	engine.Enqueue(p.source, p.moves...)

	vw := newBackend(cfg, engine, log)
	if err := vw.Init(); err != nil {
		return fmt.Errorf("failed to initialize %s backend: %w", cfg.Backend, err)
	}

	log.Info().Int("size", cfg.Size).Str("backend", cfg.Backend).Int("queued", len(p.moves)).Msg("viewer started")
	err := vw.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Info().Err(err).Msg("viewer stopped")
	return err
}

func newBackend(cfg config.Config, e *viewer.Engine, log zerolog.Logger) viewer.Viewer {
	if cfg.Backend == config.BackendTerminal {
		return terminal.New(e, terminal.WithLogger(log))
	}
	return window.New(e,
		window.WithTitle(fmt.Sprintf("cubeview %dx%dx%d", cfg.Size, cfg.Size, cfg.Size)),
		window.WithSize(cfg.Width, cfg.Height),
		window.WithLogger(log),
	)
}

// startJournal opens a recording session fed by engine commits. The
// returned func ends it.
func startJournal(cfg config.Config, log zerolog.Logger, sf *recorder.StateFile, engine *viewer.Engine, initial []cubeview.Move) (func(), error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	opts := []recorder.Option{recorder.WithLogger(log)}
	if sf != nil {
		opts = append(opts, recorder.WithStateFile(sf))
	}
	session := recorder.NewSession(db, opts...)

	if id, err := session.RecoverInterrupted(); err != nil {
		log.Warn().Err(err).Msg("failed to recover interrupted session")
	} else if id != "" {
		log.Info().Str("session_id", id).Msg("recovered interrupted session")
	}

	if _, err := session.Start(cfg.Size, cfg.Backend, cubeview.FormatMoves(initial)); err != nil {
		db.Close()
		return nil, err
	}
	engine.OnCommit(session.Record)

	return func() {
		if err := session.End(); err != nil {
			log.Error().Err(err).Msg("failed to end session")
		}
		db.Close()
	}, nil
}
