package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/SeamusWaldron/cubeview"
	"github.com/SeamusWaldron/cubeview/internal/analysis"
	"github.com/SeamusWaldron/cubeview/internal/anim"
	"github.com/SeamusWaldron/cubeview/internal/storage"
	"github.com/spf13/cobra"
)

var (
	listLimit int
	showLast  bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded viewer sessions",
	Long:  `Display recent viewer sessions with their cube size, duration and move count.`,
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show the moves of a session",
	Long: `Display a session's metadata and its committed moves in notation.

Use --last to show the most recent session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionsShow,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its moves",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of sessions to display")

	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsShowCmd.Flags().BoolVar(&showLast, "last", false, "Show the most recent session")

	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := storage.NewSessionRepository(db).List(listLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions recorded yet")
		fmt.Fprintln(out, "Start the viewer with: cubeview")
		return nil
	}

	fmt.Fprintf(out, "Recent sessions (showing %d):\n\n", len(sessions))
	fmt.Fprintf(out, "%-36s  %-19s  %-5s  %-8s  %-10s  %s\n", "ID", "Started", "Size", "Backend", "Duration", "Moves")
	fmt.Fprintln(out, "------------------------------------  -------------------  -----  --------  ----------  -----")

	for _, s := range sessions {
		duration := "(active)"
		if s.DurationMs != nil {
			duration = formatDuration(time.Duration(*s.DurationMs) * time.Millisecond)
		}
		fmt.Fprintf(out, "%-36s  %-19s  %-5s  %-8s  %-10s  %d\n",
			s.SessionID,
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%dx%d", s.CubeSize, s.CubeSize),
			s.Backend,
			duration,
			s.MoveCount,
		)
	}
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !showLast {
		return fmt.Errorf("specify a session ID or use --last")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	id := "last"
	if len(args) > 0 {
		id = args[0]
	}
	s, err := findSession(storage.NewSessionRepository(db), id)
	if err != nil {
		return err
	}

	records, err := storage.NewMoveRepository(db).GetBySession(s.SessionID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Session:  %s\n", s.SessionID)
	fmt.Fprintf(out, "Started:  %s\n", s.StartedAt.Local().Format(time.RFC3339))
	if s.DurationMs != nil {
		fmt.Fprintf(out, "Duration: %s\n", formatDuration(time.Duration(*s.DurationMs)*time.Millisecond))
	}
	fmt.Fprintf(out, "Cube:     %dx%dx%d\n", s.CubeSize, s.CubeSize, s.CubeSize)
	fmt.Fprintf(out, "Backend:  %s\n", s.Backend)
	fmt.Fprintf(out, "Moves:    %d\n", len(records))

	if len(records) > 0 {
		timed := make([]analysis.TimedMove, len(records))
		for i, r := range records {
			timed[i] = analysis.TimedMove{Move: r.Move(), TsMs: r.TsMs, Source: r.Source}
		}
		sum := analysis.Summarize(timed)
		fmt.Fprintf(out, "Simplified: %d (%.0f%%)\n", sum.SimplifiedMoves, sum.Efficiency*100)
		fmt.Fprintf(out, "TPS:      %.2f\n", sum.TPS)
		fmt.Fprintf(out, "Longest pause: %s, %d over %s\n",
			formatDuration(time.Duration(sum.LongestPauseMs)*time.Millisecond),
			sum.PausesOverLimit,
			formatDuration(analysis.PauseThresholdMs*time.Millisecond))
		fmt.Fprintf(out, "Cancellations: %d\n", sum.Cancellations)
		var counts []string
		for _, src := range []anim.Source{anim.SourceManual, anim.SourceScramble, anim.SourceSolve, anim.SourceReplay, anim.SourceDevice} {
			if n := sum.BySource[string(src)]; n > 0 {
				counts = append(counts, fmt.Sprintf("%s %d", src, n))
			}
		}
		fmt.Fprintf(out, "By source: %s\n", strings.Join(counts, ", "))
		fmt.Fprintf(out, "Most used face: %s (%d)\n", sum.MostUsedFace.Name(), sum.FaceCounts[sum.MostUsedFace])
	}

	// Group consecutive moves by source.
	var (
		group  []cubeview.Move
		source string
	)
	flush := func() {
		if len(group) > 0 {
			fmt.Fprintf(out, "  %-8s %s\n", source+":", cubeview.FormatMoves(group))
		}
		group = group[:0]
	}
	if len(records) > 0 {
		fmt.Fprintln(out)
	}
	for _, r := range records {
		if r.Source != source {
			flush()
			source = r.Source
		}
		group = append(group, r.Move())
	}
	flush()

	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := storage.NewSessionRepository(db)
	s, err := findSession(repo, args[0])
	if err != nil {
		return err
	}
	if err := repo.Delete(s.SessionID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", s.SessionID)
	return nil
}

// findSession resolves "last", a full ID or a unique ID prefix.
func findSession(repo *storage.SessionRepository, id string) (*storage.Session, error) {
	if id == "last" {
		s, err := repo.GetLast()
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("no sessions recorded")
		}
		return s, nil
	}

	s, err := repo.Get(id)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return s, nil
	}

	all, err := repo.List(1000)
	if err != nil {
		return nil, err
	}
	var match *storage.Session
	for i := range all {
		if strings.HasPrefix(all[i].SessionID, id) {
			if match != nil {
				return nil, fmt.Errorf("session prefix %q is ambiguous", id)
			}
			match = &all[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return match, nil
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}
