package recorder

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SeamusWaldron/cubeview/internal/anim"
	"github.com/SeamusWaldron/cubeview/internal/storage"
	"github.com/rs/zerolog"
)

var (
	// ErrAlreadyRecording is returned by Start while a session is open.
	ErrAlreadyRecording = errors.New("session already in progress")
	// ErrNotRecording is returned by End without an open session.
	ErrNotRecording = errors.New("no session in progress")
)

// DefaultBuffer is the number of committed moves that may wait for the
// writer before further moves are dropped.
const DefaultBuffer = 256

const maxBatch = 64

// SessionState represents the current state of a recording session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Session journals committed moves to the database. Record never blocks
// the frame loop; a background writer stores moves in batches.
type Session struct {
	sessionRepo *storage.SessionRepository
	moveRepo    *storage.MoveRepository
	stateFile   *StateFile
	log         zerolog.Logger
	now         func() time.Time
	buffer      int

	mu        sync.RWMutex
	state     SessionState
	sessionID string
	moveIndex int
	dropped   int

	records chan storage.MoveRecord
	done    chan struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithStateFile records the open session in sf so an interrupted run can be
// closed on the next start.
func WithStateFile(sf *StateFile) Option {
	return func(s *Session) { s.stateFile = sf }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithBuffer sets the writer queue size.
func WithBuffer(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.buffer = n
		}
	}
}

// NewSession creates a new session manager.
func NewSession(db *storage.DB, opts ...Option) *Session {
	s := &Session{
		sessionRepo: storage.NewSessionRepository(db),
		moveRepo:    storage.NewMoveRepository(db),
		log:         zerolog.Nop(),
		now:         time.Now,
		buffer:      DefaultBuffer,
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SessionID returns the current session ID.
func (s *Session) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// MoveCount returns the number of moves accepted for writing.
func (s *Session) MoveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moveIndex
}

// Dropped returns the number of moves lost to a full writer queue.
func (s *Session) Dropped() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dropped
}

// Start opens a new session and its writer.
func (s *Session) Start(cubeSize int, backend, initialMoves string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return "", ErrAlreadyRecording
	}

	id, err := s.sessionRepo.Create(cubeSize, backend, initialMoves)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.sessionID = id
	s.moveIndex = 0
	s.dropped = 0
	s.state = StateRecording
	s.records = make(chan storage.MoveRecord, s.buffer)
	s.done = make(chan struct{})
	go s.write(s.records, s.done)

	if s.stateFile != nil {
		if err := s.stateFile.SetActiveSession(id); err != nil {
			s.log.Warn().Err(err).Msg("failed to update state file")
		}
	}

	s.log.Info().Str("session_id", id).Int("size", cubeSize).Str("backend", backend).Msg("session started")
	return id, nil
}

// Record queues a committed move. It is a no-op unless recording.
func (s *Session) Record(e anim.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return
	}

	rec := storage.MoveRecord{
		SessionID: s.sessionID,
		MoveIndex: s.moveIndex,
		TsMs:      s.now().UnixMilli(),
		Face:      e.Move.Face.String(),
		Depth:     e.Move.Depth,
		Turns:     e.Move.Turns,
		Notation:  e.Move.Notation(),
		Source:    string(e.Source),
	}

	select {
	case s.records <- rec:
		s.moveIndex++
	default:
		s.dropped++
		s.log.Warn().Str("move", rec.Notation).Msg("journal queue full, move not recorded")
	}
}

// End flushes queued moves and closes the session.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNotRecording
	}

	close(s.records)
	<-s.done

	if err := s.sessionRepo.End(s.sessionID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	s.state = StateEnded

	if s.stateFile != nil {
		if err := s.stateFile.ClearActiveSession(); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear state file")
		}
	}

	s.log.Info().Str("session_id", s.sessionID).Int("moves", s.moveIndex).Int("dropped", s.dropped).Msg("session ended")
	return nil
}

// write stores records until the channel is closed.
func (s *Session) write(records <-chan storage.MoveRecord, done chan<- struct{}) {
	defer close(done)

	batch := make([]storage.MoveRecord, 0, maxBatch)
	for rec := range records {
		batch = append(batch[:0], rec)
	fill:
		for len(batch) < maxBatch {
			select {
			case more, ok := <-records:
				if !ok {
					break fill
				}
				batch = append(batch, more)
			default:
				break fill
			}
		}

		if err := s.moveRepo.CreateBatch(batch); err != nil {
			s.log.Error().Err(err).Int("count", len(batch)).Msg("failed to store moves")
		}
	}
}

// RecoverInterrupted closes a session left open by a previous run that did
// not exit cleanly. It returns the recovered session ID, or "".
func (s *Session) RecoverInterrupted() (string, error) {
	if s.stateFile == nil || !s.stateFile.HasActiveSession() {
		return "", nil
	}
	id := s.stateFile.ActiveSessionID()

	prev, err := s.sessionRepo.Get(id)
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	if prev != nil && prev.EndedAt == nil {
		if err := s.sessionRepo.End(id); err != nil {
			return "", fmt.Errorf("failed to end session: %w", err)
		}
		s.log.Warn().Str("session_id", id).Msg("closed interrupted session")
	}

	if err := s.stateFile.ClearActiveSession(); err != nil {
		return "", err
	}
	return id, nil
}
