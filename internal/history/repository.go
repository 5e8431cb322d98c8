package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Roles accepted on a stored turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one stored conversation turn.
type Turn struct {
	ID           string
	Conversation string

	// Role is "user" or "assistant".
	Role string

	// Content is the turn text, carrying the timestamp prefix the model
	// uses for time context.
	Content string

	CreatedAt time.Time
}

// Repository defines the persistence contract for chat history.
// The abstraction enables unit testing without database dependencies.
type Repository interface {
	// Append stores a turn. A missing ID is filled with a new UUID.
	Append(ctx context.Context, turn *Turn) error

	// Recent returns the most recent turns of a conversation in
	// chronological order, at most limit entries.
	Recent(ctx context.Context, conversation string, limit int) ([]Turn, error)

	// Reset deletes all turns of a conversation.
	Reset(ctx context.Context, conversation string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection with the history
// migration applied.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Append stores a turn.
func (r *SQLiteRepository) Append(ctx context.Context, turn *Turn) error {
	if turn.Role != RoleUser && turn.Role != RoleAssistant {
		return fmt.Errorf("%w: %q", ErrInvalidRole, turn.Role)
	}
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO history (id, conversation, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		turn.ID, turn.Conversation, turn.Role, turn.Content, turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting history turn: %w", err)
	}
	return nil
}

// Recent returns the newest turns in chronological order.
func (r *SQLiteRepository) Recent(ctx context.Context, conversation string, limit int) ([]Turn, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, conversation, role, content, created_at
		FROM history
		WHERE conversation = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		conversation, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.Conversation, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning history turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}

	// Newest-first from the query; the model wants oldest-first.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// Reset deletes all turns of a conversation.
func (r *SQLiteRepository) Reset(ctx context.Context, conversation string) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM history WHERE conversation = ?", conversation); err != nil {
		return fmt.Errorf("resetting history: %w", err)
	}
	return nil
}
