package sessions_test

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/adapters/storage/memory"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/app/sessions"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/observability"
)

// tickingClock advances one second per call so every write gets a distinct timestamp.
func tickingClock() func() time.Time {
	t := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newStore(t *testing.T) *memory.SessionStore {
	t.Helper()
	return memory.NewSessionStore(memory.WithClock(tickingClock()))
}

func TestListSessions_Pagination(t *testing.T) {
	store := newStore(t)
	for i := 0; i < 3; i++ {
		store.CreateSession("")
	}
	svc := sessions.NewService(store)

	page, err := svc.ListSessions(context.Background(), sessions.DefaultListParams().WithPage(2).WithLimit(2))
	require.NoError(t, err)

	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)
}

func TestListSessions_Normalization(t *testing.T) {
	store := newStore(t)
	store.CreateSession("")
	svc := sessions.NewService(store)

	tests := []struct {
		name      string
		params    sessions.ListParams
		wantPage  int
		wantLimit int
	}{
		{"zero values", sessions.ListParams{}, 1, 10},
		{"negative page", sessions.ListParams{Page: -3, Limit: 5}, 1, 5},
		{"limit above max", sessions.ListParams{Limit: 500}, 1, 50},
		{"negative limit", sessions.ListParams{Limit: -2}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.ListSessions(context.Background(), tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantLimit, page.Limit)
		})
	}
}

func TestListSessions_InvalidSort(t *testing.T) {
	svc := sessions.NewService(newStore(t))

	_, err := svc.ListSessions(context.Background(), sessions.ListParams{SortBy: "size"})
	assert.True(t, domain.IsInvalidInput(err))

	_, err = svc.ListSessions(context.Background(), sessions.ListParams{SortOrder: "sideways"})
	assert.True(t, domain.IsInvalidInput(err))
}

func TestListSessions_PastLastPage(t *testing.T) {
	store := memory.NewSessionStore(memory.WithDemoData())
	svc := sessions.NewService(store)

	tests := []struct {
		name   string
		params sessions.ListParams
	}{
		{"one past the end", sessions.ListParams{Page: 2}},
		{"far past the end", sessions.ListParams{Page: 9}},
		{"max page", sessions.ListParams{Page: math.MaxInt, Limit: sessions.MaxLimit}},
		{"max page and limit", sessions.ListParams{Page: math.MaxInt, Limit: math.MaxInt}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.ListSessions(context.Background(), tt.params)
			require.NoError(t, err)
			assert.Empty(t, page.Items)
			assert.Equal(t, 3, page.Total)
			assert.Equal(t, 1, page.TotalPages)
			assert.False(t, page.HasNext)
			assert.True(t, page.HasPrev)
		})
	}
}

func TestListSessions_Sorting(t *testing.T) {
	store := newStore(t)
	banana := store.CreateSession("banana")
	apple := store.CreateSession("Apple")
	cherry := store.CreateSession("cherry")
	store.AddMessage(banana.ID, domain.NewMessage{Role: domain.RoleUser, Content: "one"})
	store.AddMessage(banana.ID, domain.NewMessage{Role: domain.RoleUser, Content: "two"})
	store.AddMessage(cherry.ID, domain.NewMessage{Role: domain.RoleUser, Content: "one"})

	svc := sessions.NewService(store)

	ids := func(p sessions.Page) []domain.SessionID {
		out := make([]domain.SessionID, len(p.Items))
		for i, item := range p.Items {
			out[i] = item.ID
		}
		return out
	}

	tests := []struct {
		name  string
		field sessions.SortField
		order sessions.SortOrder
		want  []domain.SessionID
	}{
		{"title asc ignores case", sessions.SortByTitle, sessions.SortAsc, []domain.SessionID{apple.ID, banana.ID, cherry.ID}},
		{"createdAt desc", sessions.SortByCreatedAt, sessions.SortDesc, []domain.SessionID{cherry.ID, apple.ID, banana.ID}},
		{"messageCount desc", sessions.SortByMessageCount, sessions.SortDesc, []domain.SessionID{banana.ID, cherry.ID, apple.ID}},
		{"lastActivity default", "", "", []domain.SessionID{cherry.ID, banana.ID, apple.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.ListSessions(context.Background(), sessions.DefaultListParams().WithSort(tt.field, tt.order))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(page))
		})
	}
}

func TestGetSession(t *testing.T) {
	store := newStore(t)
	sess := store.CreateSession("")
	store.AddMessage(sess.ID, domain.NewMessage{Role: domain.RoleUser, Content: "hello"})
	svc := sessions.NewService(store)

	detail, err := svc.GetSession(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.MessageCount)
	require.NotNil(t, detail.LastMessage)
	assert.Equal(t, "hello", detail.LastMessage.Content)
	assert.Len(t, detail.Messages, 1)

	_, err = svc.GetSession(context.Background(), "session-missing")
	assert.True(t, domain.IsNotFound(err))
}

func TestDeleteSession_Twice(t *testing.T) {
	store := newStore(t)
	sess := store.CreateSession("")
	svc := sessions.NewService(store)

	assert.True(t, svc.DeleteSession(context.Background(), sess.ID))
	assert.False(t, svc.DeleteSession(context.Background(), sess.ID))
}

func TestDeleteSession_LogsOnce(t *testing.T) {
	prev := observability.Logger()
	t.Cleanup(func() { observability.SetLogger(prev) })

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	observability.SetLogger(logger)

	store := memory.NewSessionStore(memory.WithLogger(logger))
	sess := store.CreateSession("")
	svc := sessions.NewService(store)

	ctx := observability.WithRequestID(context.Background(), "req-1")
	require.True(t, svc.DeleteSession(ctx, sess.ID))

	assert.Equal(t, 1, strings.Count(buf.String(), `"msg":"session deleted"`))
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}

func TestRenameSession(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	sess := store.CreateSession("")
	svc := sessions.NewService(store)

	summary, err := svc.RenameSession(ctx, sess.ID, "  Quarterly review  ")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly review", summary.Title)
	assert.True(t, summary.LastActivity.After(sess.LastActivity))

	// explicit title stops derivation
	store.AddMessage(sess.ID, domain.NewMessage{Role: domain.RoleUser, Content: "first question"})
	got, _ := store.GetSessionByID(sess.ID)
	assert.Equal(t, "Quarterly review", got.Title)

	_, err = svc.RenameSession(ctx, sess.ID, "   ")
	assert.True(t, domain.IsInvalidInput(err))

	_, err = svc.RenameSession(ctx, sess.ID, strings.Repeat("x", domain.MaxTitleLength+1))
	assert.True(t, domain.IsInvalidInput(err))

	_, err = svc.RenameSession(ctx, "session-missing", "fine")
	assert.True(t, domain.IsNotFound(err))
}

func TestHealth(t *testing.T) {
	store := memory.NewSessionStore(memory.WithDemoData())
	svc := sessions.NewService(store)

	h := svc.Health(context.Background())

	assert.Equal(t, "healthy", h.Status)
	assert.GreaterOrEqual(t, h.Uptime, 0.0)
	assert.Equal(t, 3, h.Statistics.TotalSessions)
	assert.Equal(t, 6, h.Statistics.TotalMessages)
	assert.InDelta(t, 2.0, h.Statistics.AverageMessagesPerSession, 1e-9)
}

func TestGetStatistics_Empty(t *testing.T) {
	svc := sessions.NewService(newStore(t))

	stats := svc.GetStatistics(context.Background())

	assert.Zero(t, stats.TotalSessions)
	assert.Zero(t, stats.AverageMessagesPerSession)
	assert.Nil(t, stats.LastActivity)
}
