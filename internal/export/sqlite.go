package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		last_activity DATETIME NOT NULL,
		message_count INTEGER NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS messages (
		session_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		feedback TEXT,
		table_json TEXT,
		PRIMARY KEY (session_id, id),
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);`,
}

// WriteSQLite upserts sessions into the database at path, creating the schema if needed.
// Re-exporting a session replaces its previous rows.
func WriteSQLite(ctx context.Context, path string, sessions []domain.SessionDetail) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertSession, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO sessions (id, title, created_at, last_activity, message_count)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare session insert: %w", err)
	}
	defer insertSession.Close()

	insertMessage, err := tx.PrepareContext(ctx, `
		INSERT INTO messages (session_id, id, role, content, timestamp, feedback, table_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare message insert: %w", err)
	}
	defer insertMessage.Close()

	for _, s := range sessions {
		if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, string(s.ID)); err != nil {
			return fmt.Errorf("clear messages of %s: %w", s.ID, err)
		}
		if _, err := insertSession.ExecContext(ctx,
			string(s.ID), s.Title, s.CreatedAt.UTC().Format(time.RFC3339Nano),
			s.LastActivity.UTC().Format(time.RFC3339Nano), s.MessageCount,
		); err != nil {
			return fmt.Errorf("insert session %s: %w", s.ID, err)
		}

		for _, m := range s.Messages {
			var tableJSON sql.NullString
			if m.TableData != nil {
				buf, err := json.Marshal(m.TableData)
				if err != nil {
					return fmt.Errorf("encode table of message %d: %w", m.ID, err)
				}
				tableJSON = sql.NullString{String: string(buf), Valid: true}
			}
			feedback := sql.NullString{String: string(m.Feedback), Valid: m.Feedback != domain.FeedbackUnset}

			if _, err := insertMessage.ExecContext(ctx,
				string(s.ID), int(m.ID), string(m.Role), m.Content,
				m.Timestamp.UTC().Format(time.RFC3339Nano), feedback, tableJSON,
			); err != nil {
				return fmt.Errorf("insert message %s/%d: %w", s.ID, m.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
