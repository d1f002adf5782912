// ABOUTME: SQLite-backed audit log of dispatched commands using modernc.org/sqlite.
// ABOUTME: Records lifecycle transitions; the registry never reads this back.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/2389/robot-admin/internal/command"
)

// SQLiteStore persists command lifecycle events. It implements
// command.AuditLog.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the audit database at the given path.
// The schema is created if it doesn't exist and parent directories are
// created as needed. Use ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("audit store initialized", "path", path)
	return s, nil
}

// createSchema creates the audit tables if they don't exist.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS commands (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL,
			command TEXT NOT NULL,
			parameters TEXT NOT NULL DEFAULT '{}',
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			delivered_at TIMESTAMP,
			completed_at TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_commands_client_id ON commands(client_id);
		CREATE INDEX IF NOT EXISTS idx_commands_created_at ON commands(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordDispatch inserts a row for a newly dispatched command.
func (s *SQLiteStore) RecordDispatch(ctx context.Context, cmd *command.Command) error {
	params, err := json.Marshal(cmd.Parameters)
	if err != nil {
		return fmt.Errorf("encoding parameters: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO commands (id, client_id, command, parameters, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, cmd.ID, cmd.ClientID, cmd.Name, string(params), cmd.Status.String(), cmd.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("inserting command: %w", err)
	}
	return nil
}

// RecordDelivered marks a command row delivered. The status guard keeps the
// row monotone even if events arrive twice.
func (s *SQLiteStore) RecordDelivered(ctx context.Context, commandID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE commands SET status = ?, delivered_at = ? WHERE id = ? AND status = ?
	`, command.StatusDelivered.String(), at.UTC(), commandID, command.StatusPending.String())
	if err != nil {
		return fmt.Errorf("marking delivered: %w", err)
	}
	return nil
}

// RecordCompleted marks a command row completed.
func (s *SQLiteStore) RecordCompleted(ctx context.Context, commandID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE commands SET status = ?, completed_at = ? WHERE id = ?
	`, command.StatusCompleted.String(), at.UTC(), commandID)
	if err != nil {
		return fmt.Errorf("marking completed: %w", err)
	}
	return nil
}

// AuditEntry is one row of command history.
type AuditEntry struct {
	ID          string
	ClientID    string
	Command     string
	Parameters  map[string]string
	Status      string
	CreatedAt   time.Time
	DeliveredAt *time.Time
	CompletedAt *time.Time
}

// ListCommands returns up to limit most recent commands, newest first. An
// empty clientID lists across all clients.
func (s *SQLiteStore) ListCommands(ctx context.Context, clientID string, limit int) ([]*AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, client_id, command, parameters, status, created_at, delivered_at, completed_at
		FROM commands
	`
	args := []any{}
	if clientID != "" {
		query += " WHERE client_id = ?"
		args = append(args, clientID)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying commands: %w", err)
	}
	defer rows.Close()

	var entries []*AuditEntry
	for rows.Next() {
		var e AuditEntry
		var params string
		var delivered, completed sql.NullTime
		if err := rows.Scan(&e.ID, &e.ClientID, &e.Command, &params, &e.Status, &e.CreatedAt, &delivered, &completed); err != nil {
			return nil, fmt.Errorf("scanning command row: %w", err)
		}
		if err := json.Unmarshal([]byte(params), &e.Parameters); err != nil {
			s.logger.Warn("bad parameters JSON in audit row", "command_id", e.ID, "error", err)
			e.Parameters = map[string]string{}
		}
		if delivered.Valid {
			t := delivered.Time
			e.DeliveredAt = &t
		}
		if completed.Valid {
			t := completed.Time
			e.CompletedAt = &t
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
