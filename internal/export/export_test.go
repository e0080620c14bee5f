package export

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
)

func sampleSessions() []domain.SessionDetail {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	sales := domain.NewSession("session-1", "Sales Data Analysis", now)
	sales.AddMessage(domain.NewMessage{Role: domain.RoleUser, Content: "Can you show me sales data?"}, now)
	sales.AddMessage(domain.NewMessage{
		Role:      domain.RoleAssistant,
		Content:   "Here is the sales data:",
		TableData: domain.MockTable(domain.TableSales),
	}, now.Add(time.Second))
	sales.UpdateMessageFeedback(1, domain.FeedbackLike)

	empty := domain.NewSession("session-2", "Empty", now)

	return []domain.SessionDetail{sales.Detail(), empty.Detail()}
}

type fakeSource struct {
	details map[domain.SessionID]domain.SessionDetail
	order   []domain.SessionID
}

func newFakeSource(details []domain.SessionDetail) *fakeSource {
	f := &fakeSource{details: make(map[domain.SessionID]domain.SessionDetail)}
	for _, d := range details {
		f.details[d.ID] = d
		f.order = append(f.order, d.ID)
	}
	return f
}

func (f *fakeSource) AllSessions(context.Context) ([]domain.SessionSummary, error) {
	out := make([]domain.SessionSummary, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.details[id].SessionSummary)
	}
	return out, nil
}

func (f *fakeSource) GetSession(_ context.Context, id domain.SessionID) (domain.SessionDetail, error) {
	d, ok := f.details[id]
	if !ok {
		return domain.SessionDetail{}, domain.SessionNotFound(id)
	}
	return d, nil
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("MD")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	f, err = ParseFormat("sqlite")
	require.NoError(t, err)
	assert.Equal(t, FormatSQLite, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestCollect(t *testing.T) {
	src := newFakeSource(sampleSessions())

	all, err := Collect(context.Background(), src, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := Collect(context.Background(), src, "session-2")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "Empty", one[0].Title)

	_, err = Collect(context.Background(), src, "session-9")
	assert.True(t, domain.IsNotFound(err))
}

func TestBuildMarkdown(t *testing.T) {
	md := BuildMarkdown(sampleSessions(), time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))

	assert.True(t, strings.HasPrefix(md, "# Sales Data Analysis\n"))
	assert.Contains(t, md, "- Session: `session-1`")
	assert.Contains(t, md, "## You (like)")
	assert.Contains(t, md, "## Assistant")
	assert.Contains(t, md, "**Profit Analysis by Product Category (Q2 2024)**")
	assert.Contains(t, md, "| Product Category | Revenue | Costs | Profit | Profit Margin | QoQ Growth |")
	assert.Contains(t, md, "| Laptop Pro | $1,500,000 | $900,000 | $600,000 | 40% | +25% |")
	assert.Contains(t, md, "_Total Profit: $2,420,000 | Average Margin: 40% | Overall Growth: +19.6%_")
	assert.Contains(t, md, "\n---\n\n# Empty\n")
}

func TestRowEscapesPipes(t *testing.T) {
	assert.Equal(t, "| a\\|b | c |\n", row([]string{"a|b", "c"}))
}

func TestWrite_Markdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "chats.md")

	require.NoError(t, Write(context.Background(), FormatMarkdown, path, sampleSessions()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Sales Data Analysis")
}

func TestWriteSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chats.db")
	sessions := sampleSessions()

	require.NoError(t, Write(ctx, FormatSQLite, path, sessions))
	// exporting twice replaces rows instead of duplicating them
	require.NoError(t, Write(ctx, FormatSQLite, path, sessions))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var sessionCount, messageCount, tables int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&sessionCount))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&messageCount))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM messages WHERE table_json IS NOT NULL`).Scan(&tables))
	assert.Equal(t, 2, sessionCount)
	assert.Equal(t, 2, messageCount)
	assert.Equal(t, 1, tables)

	var feedback sql.NullString
	require.NoError(t, db.QueryRow(`SELECT feedback FROM messages WHERE session_id = ? AND id = 1`, "session-1").Scan(&feedback))
	assert.Equal(t, "like", feedback.String)
}
