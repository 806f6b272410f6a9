package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Session is one run of the viewer.
type Session struct {
	SessionID    string
	StartedAt    time.Time
	EndedAt      *time.Time
	DurationMs   *int64
	CubeSize     int
	Backend      string
	InitialMoves *string
	MoveCount    int
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db  *DB
	now func() time.Time
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// Create starts a session and returns its ID. initialMoves is the notation
// applied to the cube before the session began, if any.
func (r *SessionRepository) Create(cubeSize int, backend, initialMoves string) (string, error) {
	id := uuid.New().String()
	startedAt := r.now().UTC()

	var initialPtr *string
	if initialMoves != "" {
		initialPtr = &initialMoves
	}

	_, err := r.db.Exec(`
		INSERT INTO sessions (session_id, started_at, cube_size, backend, initial_moves)
		VALUES (?, ?, ?, ?, ?)
	`, id, startedAt.Format(timeLayout), cubeSize, backend, initialPtr)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return id, nil
}

// End marks a session as finished.
func (r *SessionRepository) End(sessionID string) error {
	endedAt := r.now().UTC()

	var startedAtStr string
	err := r.db.QueryRow("SELECT started_at FROM sessions WHERE session_id = ?", sessionID).Scan(&startedAtStr)
	if err != nil {
		return fmt.Errorf("failed to get session start time: %w", err)
	}

	startedAt, err := time.Parse(timeLayout, startedAtStr)
	if err != nil {
		return fmt.Errorf("failed to parse start time: %w", err)
	}

	durationMs := endedAt.Sub(startedAt).Milliseconds()

	_, err = r.db.Exec(`
		UPDATE sessions
		SET ended_at = ?, duration_ms = ?
		WHERE session_id = ?
	`, endedAt.Format(timeLayout), durationMs, sessionID)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	return nil
}

const sessionColumns = `
	s.session_id, s.started_at, s.ended_at, s.duration_ms, s.cube_size, s.backend, s.initial_moves,
	(SELECT COUNT(*) FROM moves m WHERE m.session_id = s.session_id)
`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var s Session
	var startedAtStr string
	var endedAtStr sql.NullString

	err := row.Scan(
		&s.SessionID, &startedAtStr, &endedAtStr, &s.DurationMs,
		&s.CubeSize, &s.Backend, &s.InitialMoves, &s.MoveCount,
	)
	if err != nil {
		return nil, err
	}

	s.StartedAt, _ = time.Parse(timeLayout, startedAtStr)
	if endedAtStr.Valid {
		t, _ := time.Parse(timeLayout, endedAtStr.String)
		s.EndedAt = &t
	}
	return &s, nil
}

// Get retrieves a session by ID. It returns nil when there is no such
// session.
func (r *SessionRepository) Get(sessionID string) (*Session, error) {
	row := r.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions s WHERE s.session_id = ?`, sessionID)

	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// GetLast retrieves the most recent session.
func (r *SessionRepository) GetLast() (*Session, error) {
	row := r.db.QueryRow(`SELECT ` + sessionColumns + ` FROM sessions s ORDER BY s.started_at DESC LIMIT 1`)

	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last session: %w", err)
	}
	return s, nil
}

// List retrieves recent sessions, newest first.
func (r *SessionRepository) List(limit int) ([]Session, error) {
	rows, err := r.db.Query(`SELECT `+sessionColumns+` FROM sessions s ORDER BY s.started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// Delete deletes a session and its moves.
func (r *SessionRepository) Delete(sessionID string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
