// Package export writes fetched sessions to Markdown transcripts or a SQLite snapshot.
// Exports are one-way: the server never reads them back.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatSQLite   Format = "sqlite"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want markdown or sqlite)", s)
	}
}

// Source is where sessions are read from, typically the REST client.
type Source interface {
	AllSessions(ctx context.Context) ([]domain.SessionSummary, error)
	GetSession(ctx context.Context, id domain.SessionID) (domain.SessionDetail, error)
}

// Collect fetches the full detail of one session, or of every session when id is empty.
func Collect(ctx context.Context, src Source, id domain.SessionID) ([]domain.SessionDetail, error) {
	if id != "" {
		d, err := src.GetSession(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetch session %s: %w", id, err)
		}
		return []domain.SessionDetail{d}, nil
	}

	summaries, err := src.AllSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]domain.SessionDetail, 0, len(summaries))
	for _, s := range summaries {
		d, err := src.GetSession(ctx, s.ID)
		if err != nil {
			// deleted between list and fetch
			if domain.IsNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("fetch session %s: %w", s.ID, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// Write exports sessions to path in the given format.
func Write(ctx context.Context, format Format, path string, sessions []domain.SessionDetail) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	switch format {
	case FormatMarkdown:
		md := BuildMarkdown(sessions, time.Now().UTC())
		if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write export file: %w", err)
		}
		return nil
	case FormatSQLite:
		return WriteSQLite(ctx, path, sessions)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
