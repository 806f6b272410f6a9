package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SeamusWaldron/cubeview"
)

// MoveRecord is a committed move in the database.
type MoveRecord struct {
	MoveID    int64
	SessionID string
	MoveIndex int
	TsMs      int64
	Face      string
	Depth     int
	Turns     int
	Notation  string
	Source    string
}

// Move returns the cube move the record describes.
func (r MoveRecord) Move() cubeview.Move {
	return cubeview.Move{Face: faceFromLetter(r.Face), Depth: r.Depth, Turns: r.Turns}
}

func faceFromLetter(s string) cubeview.Face {
	for _, f := range cubeview.Faces {
		if f.String() == s {
			return f
		}
	}
	return cubeview.Face(-1)
}

// MoveRepository provides CRUD operations for moves.
type MoveRepository struct {
	db *DB
}

// NewMoveRepository creates a new move repository.
func NewMoveRepository(db *DB) *MoveRepository {
	return &MoveRepository{db: db}
}

const insertMove = `
	INSERT INTO moves (session_id, move_index, ts_ms, face, depth, turns, notation, source)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

// Create stores a move and returns its ID.
func (r *MoveRepository) Create(sessionID string, moveIndex int, ts time.Time, move cubeview.Move, source string) (int64, error) {
	result, err := r.db.Exec(insertMove,
		sessionID, moveIndex, ts.UnixMilli(), move.Face.String(), move.Depth, move.Turns, move.Notation(), source)
	if err != nil {
		return 0, fmt.Errorf("failed to create move: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get move ID: %w", err)
	}
	return id, nil
}

// CreateBatch stores several records in one transaction. MoveID is ignored.
func (r *MoveRepository) CreateBatch(records []MoveRecord) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		for _, m := range records {
			_, err := tx.Exec(insertMove,
				m.SessionID, m.MoveIndex, m.TsMs, m.Face, m.Depth, m.Turns, m.Notation, m.Source)
			if err != nil {
				return fmt.Errorf("failed to create move %d: %w", m.MoveIndex, err)
			}
		}
		return nil
	})
}

// GetBySession retrieves all moves of a session in order.
func (r *MoveRepository) GetBySession(sessionID string) ([]MoveRecord, error) {
	rows, err := r.db.Query(`
		SELECT move_id, session_id, move_index, ts_ms, face, depth, turns, notation, source
		FROM moves
		WHERE session_id = ?
		ORDER BY move_index
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(&m.MoveID, &m.SessionID, &m.MoveIndex, &m.TsMs, &m.Face, &m.Depth, &m.Turns, &m.Notation, &m.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// GetNextIndex returns the next move index for a session.
func (r *MoveRepository) GetNextIndex(sessionID string) (int, error) {
	var maxIndex int
	err := r.db.QueryRow(`
		SELECT COALESCE(MAX(move_index), -1) FROM moves WHERE session_id = ?
	`, sessionID).Scan(&maxIndex)
	if err != nil {
		return 0, fmt.Errorf("failed to get max move index: %w", err)
	}
	return maxIndex + 1, nil
}

// ToMoves converts records to cube moves.
func ToMoves(records []MoveRecord) []cubeview.Move {
	moves := make([]cubeview.Move, len(records))
	for i, r := range records {
		moves[i] = r.Move()
	}
	return moves
}
