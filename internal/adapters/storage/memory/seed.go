package memory

import "github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"

type seedMessage struct {
	role     domain.Role
	content  string
	feedback domain.Feedback
	table    domain.TableKind
}

type seedSession struct {
	id       domain.SessionID
	title    string
	messages []seedMessage
}

var demoSessions = []seedSession{
	{
		id:    "session-1",
		title: "Sales Data Analysis",
		messages: []seedMessage{
			{role: domain.RoleUser, content: "Can you show me sales data for Q1 2024?", feedback: domain.FeedbackLike},
			{role: domain.RoleAssistant, content: "Here is the sales data for Q1 2024:", table: domain.TableSales},
		},
	},
	{
		id:    "session-2",
		title: "Technical Discussion",
		messages: []seedMessage{
			{role: domain.RoleUser, content: "Explain the MVC architecture pattern", feedback: domain.FeedbackLike},
			{role: domain.RoleAssistant, content: "MVC (Model-View-Controller) is a software design pattern..."},
		},
	},
	{
		id:    "session-3",
		title: "User Analytics Report",
		messages: []seedMessage{
			{role: domain.RoleUser, content: "Show me user engagement metrics", feedback: domain.FeedbackDislike},
			{role: domain.RoleAssistant, content: "Here are the user engagement metrics:", table: domain.TableUsers},
		},
	},
}

// seed registers the demo sessions. Titles are explicit, so no auto-derivation happens.
func (s *SessionStore) seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, fixture := range demoSessions {
		now := s.now()
		sess := domain.NewSession(fixture.id, fixture.title, now)

		for _, m := range fixture.messages {
			in := domain.NewMessage{Role: m.role, Content: m.content}
			if m.table != "" {
				in.TableData = domain.MockTable(m.table)
			}
			msg := sess.AddMessage(in, now)
			if m.feedback != domain.FeedbackUnset {
				sess.UpdateMessageFeedback(msg.ID, m.feedback)
			}
		}

		s.sessions[sess.ID] = sess
	}

	s.logger.Info("demo sessions seeded", "count", len(demoSessions))
}
