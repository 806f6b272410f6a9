package cli

import (
	"fmt"

	"github.com/SeamusWaldron/cubeview/internal/anim"
	"github.com/SeamusWaldron/cubeview/internal/storage"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <session-id|last>",
	Short: "Replay a recorded session in the viewer",
	Long: `Open the viewer on a solved cube of the session's size and animate the
session's committed moves in order. The viewer stays interactive, so
playback can be followed by manual turns, a scramble or a solve.

Usage:
  cubeview replay last              # Replay the most recent session
  cubeview replay 3f2a              # Replay by ID prefix
  cubeview replay last -d 0.2       # Faster playback`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	s, err := findSession(storage.NewSessionRepository(db), args[0])
	if err != nil {
		db.Close()
		return err
	}
	records, err := storage.NewMoveRepository(db).GetBySession(s.SessionID)
	db.Close()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("session %s has no moves", s.SessionID)
	}

	cfg.Size = s.CubeSize
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Info().Str("session_id", s.SessionID).Int("moves", len(records)).Msg("replaying session")
	return launch(cmd.Context(), cfg, log, play{moves: storage.ToMoves(records), source: anim.SourceReplay})
}
