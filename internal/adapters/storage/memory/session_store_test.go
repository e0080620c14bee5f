package memory

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
)

func tickingClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestCreateSession(t *testing.T) {
	s := NewSessionStore()

	sess := s.CreateSession("")

	assert.Equal(t, domain.DefaultSessionTitle, sess.Title)
	assert.True(t, strings.HasPrefix(string(sess.ID), "session-"))
	assert.Len(t, string(sess.ID), len("session-")+8)
	assert.True(t, domain.ValidSessionID(sess.ID))
	assert.Empty(t, sess.Messages)
	assert.Equal(t, sess.CreatedAt, sess.LastActivity)
}

func TestCreateSession_RetriesOnCollision(t *testing.T) {
	ids := []string{"aaaa1111", "aaaa1111", "bbbb2222"}
	next := 0
	s := NewSessionStore(WithIDGenerator(func() string {
		id := ids[next]
		next++
		return id
	}))

	first := s.CreateSession("")
	second := s.CreateSession("")

	assert.Equal(t, domain.SessionID("session-aaaa1111"), first.ID)
	assert.Equal(t, domain.SessionID("session-bbbb2222"), second.ID)
}

func TestAddMessage_AssignsSequentialIDs(t *testing.T) {
	s := NewSessionStore(WithClock(tickingClock()))
	sess := s.CreateSession("")

	for i := 1; i <= 5; i++ {
		msg, ok := s.AddMessage(sess.ID, domain.NewMessage{Role: domain.RoleUser, Content: fmt.Sprint("q", i)})
		require.True(t, ok)
		assert.Equal(t, domain.MessageID(i), msg.ID)
	}

	got, _ := s.GetSessionByID(sess.ID)
	assert.Len(t, got.Messages, 5)
	assert.True(t, got.LastActivity.After(got.CreatedAt))
}

func TestAddMessage_UnknownSession(t *testing.T) {
	s := NewSessionStore()

	_, ok := s.AddMessage("session-missing", domain.NewMessage{Role: domain.RoleUser, Content: "hi"})

	assert.False(t, ok)
}

func TestAddMessage_DerivesTitleOnce(t *testing.T) {
	s := NewSessionStore()
	sess := s.CreateSession("")

	s.AddMessage(sess.ID, domain.NewMessage{Role: domain.RoleAssistant, Content: "assistant first"})
	got, _ := s.GetSessionByID(sess.ID)
	assert.Equal(t, domain.DefaultSessionTitle, got.Title)

	long := "Explain quantum computing in simple terms for beginners please"
	s.AddMessage(sess.ID, domain.NewMessage{Role: domain.RoleUser, Content: long})
	got, _ = s.GetSessionByID(sess.ID)
	assert.Equal(t, "Explain quantum computing in simple terms for begi...", got.Title)

	s.AddMessage(sess.ID, domain.NewMessage{Role: domain.RoleUser, Content: "second question"})
	got, _ = s.GetSessionByID(sess.ID)
	assert.Equal(t, "Explain quantum computing in simple terms for begi...", got.Title)
}

func TestUpdateSessionTitle_SuppressesDerivation(t *testing.T) {
	s := NewSessionStore()
	sess := s.CreateSession("")

	require.True(t, s.UpdateSessionTitle(sess.ID, "Budget"))
	s.AddMessage(sess.ID, domain.NewMessage{Role: domain.RoleUser, Content: "first"})

	got, _ := s.GetSessionByID(sess.ID)
	assert.Equal(t, "Budget", got.Title)
	assert.False(t, s.UpdateSessionTitle("session-missing", "x"))
}

func TestGetSessionByID_ReturnsSnapshot(t *testing.T) {
	s := NewSessionStore()
	sess := s.CreateSession("")
	s.AddMessage(sess.ID, domain.NewMessage{
		Role:      domain.RoleAssistant,
		Content:   "table",
		TableData: domain.MockTable(domain.TableUsers),
	})

	snap, _ := s.GetSessionByID(sess.ID)
	snap.Title = "mutated"
	snap.Messages[0].Content = "mutated"
	snap.Messages[0].TableData.Rows[0][0] = "mutated"

	got, _ := s.GetSessionByID(sess.ID)
	assert.Equal(t, domain.DefaultSessionTitle, got.Title)
	assert.Equal(t, "table", got.Messages[0].Content)
	assert.Equal(t, "North America", got.Messages[0].TableData.Rows[0][0])
}

func TestGetAllSessions_OrderedByLastActivity(t *testing.T) {
	s := NewSessionStore(WithClock(tickingClock()))
	a := s.CreateSession("a")
	b := s.CreateSession("b")
	c := s.CreateSession("c")
	s.AddMessage(a.ID, domain.NewMessage{Role: domain.RoleUser, Content: "bump"})

	all := s.GetAllSessions()

	require.Len(t, all, 3)
	assert.Equal(t, []domain.SessionID{a.ID, c.ID, b.ID}, []domain.SessionID{all[0].ID, all[1].ID, all[2].ID})
}

func TestDeleteSession(t *testing.T) {
	s := NewSessionStore()
	sess := s.CreateSession("")

	assert.True(t, s.DeleteSession(sess.ID))
	assert.False(t, s.DeleteSession(sess.ID))

	_, ok := s.GetSessionByID(sess.ID)
	assert.False(t, ok)
}

func TestUpdateMessageFeedback(t *testing.T) {
	s := NewSessionStore()
	sess := s.CreateSession("")
	s.AddMessage(sess.ID, domain.NewMessage{Role: domain.RoleUser, Content: "hi"})

	msg, ok := s.UpdateMessageFeedback(sess.ID, 1, domain.FeedbackLike)
	require.True(t, ok)
	assert.Equal(t, domain.FeedbackLike, msg.Feedback)

	msg, ok = s.UpdateMessageFeedback(sess.ID, 1, domain.FeedbackDislike)
	require.True(t, ok)
	assert.Equal(t, domain.FeedbackDislike, msg.Feedback)

	_, ok = s.UpdateMessageFeedback(sess.ID, 2, domain.FeedbackLike)
	assert.False(t, ok)

	_, ok = s.UpdateMessageFeedback("session-missing", 1, domain.FeedbackLike)
	assert.False(t, ok)
}

func TestGetStatistics(t *testing.T) {
	s := NewSessionStore(WithClock(tickingClock()))

	empty := s.GetStatistics()
	assert.Zero(t, empty.TotalSessions)
	assert.Zero(t, empty.TotalMessages)
	assert.Zero(t, empty.AverageMessagesPerSession)
	assert.Nil(t, empty.LastActivity)

	a := s.CreateSession("")
	s.CreateSession("")
	s.AddMessage(a.ID, domain.NewMessage{Role: domain.RoleUser, Content: "one"})
	msg, _ := s.AddMessage(a.ID, domain.NewMessage{Role: domain.RoleAssistant, Content: "two"})
	s.AddMessage(a.ID, domain.NewMessage{Role: domain.RoleUser, Content: "three"})

	stats := s.GetStatistics()
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 3, stats.TotalMessages)
	assert.InDelta(t, 1.5, stats.AverageMessagesPerSession, 1e-9)
	require.NotNil(t, stats.LastActivity)
	assert.True(t, stats.LastActivity.After(msg.Timestamp))
}

func TestDemoData(t *testing.T) {
	s := NewSessionStore(WithDemoData())

	tests := []struct {
		id           domain.SessionID
		title        string
		firstContent string
		feedback     domain.Feedback
		tableCaption string
	}{
		{"session-1", "Sales Data Analysis", "Can you show me sales data for Q1 2024?", domain.FeedbackLike, "Profit Analysis by Product Category (Q2 2024)"},
		{"session-2", "Technical Discussion", "Explain the MVC architecture pattern", domain.FeedbackLike, ""},
		{"session-3", "User Analytics Report", "Show me user engagement metrics", domain.FeedbackDislike, "User Metrics by Region (Last 30 Days)"},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			sess, ok := s.GetSessionByID(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.title, sess.Title)
			require.Len(t, sess.Messages, 2)

			user, assistant := sess.Messages[0], sess.Messages[1]
			assert.Equal(t, domain.MessageID(1), user.ID)
			assert.Equal(t, tt.firstContent, user.Content)
			assert.Equal(t, tt.feedback, user.Feedback)
			assert.Equal(t, domain.MessageID(2), assistant.ID)
			assert.Equal(t, domain.RoleAssistant, assistant.Role)

			if tt.tableCaption == "" {
				assert.Nil(t, assistant.TableData)
				return
			}
			require.NotNil(t, assistant.TableData)
			assert.Equal(t, tt.tableCaption, assistant.TableData.Caption)
		})
	}
}

func TestNoDemoDataByDefault(t *testing.T) {
	assert.Empty(t, NewSessionStore().GetAllSessions())
}
