package domain

import "time"

// TableData is the tabular payload attached to some assistant replies.
type TableData struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	Caption string     `json:"caption,omitempty"`
	Summary string     `json:"summary,omitempty"`
}

// Clone returns a deep copy so fixtures and stored payloads never share backing arrays.
func (t *TableData) Clone() *TableData {
	if t == nil {
		return nil
	}
	out := &TableData{
		Headers: append([]string(nil), t.Headers...),
		Rows:    make([][]string, len(t.Rows)),
		Caption: t.Caption,
		Summary: t.Summary,
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// Message is one turn in a session timeline (user or assistant).
type Message struct {
	ID        MessageID  `json:"id"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Timestamp Timestamp  `json:"timestamp"`
	TableData *TableData `json:"tableData,omitempty"`
	Feedback  Feedback   `json:"feedback,omitempty"`
}

func (m Message) clone() Message {
	m.TableData = m.TableData.Clone()
	return m
}

// NewMessage is the input for appending a message; id and timestamp are assigned by the session.
type NewMessage struct {
	Role      Role
	Content   string
	TableData *TableData
}

// Session is a conversation thread. Messages are append-only and kept in display order.
type Session struct {
	ID           SessionID
	Title        string
	CreatedAt    Timestamp
	LastActivity Timestamp
	Messages     []Message
}

func NewSession(id SessionID, title string, now time.Time) *Session {
	if title == "" {
		title = DefaultSessionTitle
	}
	return &Session{
		ID:           id,
		Title:        title,
		CreatedAt:    now,
		LastActivity: now,
		Messages:     []Message{},
	}
}

// AddMessage appends a message with id len(Messages)+1. The first user message names a
// session that still carries the default title.
func (s *Session) AddMessage(in NewMessage, now time.Time) Message {
	msg := Message{
		ID:        MessageID(len(s.Messages) + 1),
		Role:      in.Role,
		Content:   in.Content,
		Timestamp: now,
		TableData: in.TableData.Clone(),
	}

	s.Messages = append(s.Messages, msg)
	s.touch(now)

	if s.Title == DefaultSessionTitle && in.Role == RoleUser {
		s.UpdateTitle(DeriveTitle(in.Content), now)
	}

	return msg.clone()
}

// UpdateMessageFeedback sets feedback on the message with the given id.
func (s *Session) UpdateMessageFeedback(id MessageID, feedback Feedback) (Message, bool) {
	for i := range s.Messages {
		if s.Messages[i].ID == id {
			s.Messages[i].Feedback = feedback
			return s.Messages[i].clone(), true
		}
	}
	return Message{}, false
}

func (s *Session) UpdateTitle(title string, now time.Time) {
	s.Title = title
	s.touch(now)
}

func (s *Session) touch(now time.Time) {
	if now.After(s.LastActivity) {
		s.LastActivity = now
	}
}

// Clone returns a snapshot that shares no mutable state with s.
func (s *Session) Clone() Session {
	out := *s
	out.Messages = make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		out.Messages[i] = m.clone()
	}
	return out
}

// DeriveTitle truncates content to 50 characters and marks the cut with "...".
func DeriveTitle(content string) string {
	r := []rune(content)
	if len(r) <= titleDerivationLength {
		return content
	}
	return string(r[:titleDerivationLength]) + "..."
}

// SessionSummary is the list-view projection of a session.
type SessionSummary struct {
	ID           SessionID `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    Timestamp `json:"createdAt"`
	LastActivity Timestamp `json:"lastActivity"`
	MessageCount int       `json:"messageCount"`
	LastMessage  *Message  `json:"lastMessage"`
}

// SessionDetail is a summary plus the full ordered timeline.
type SessionDetail struct {
	SessionSummary
	Messages []Message `json:"messages"`
}

func (s Session) Summary() SessionSummary {
	sum := SessionSummary{
		ID:           s.ID,
		Title:        s.Title,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
		MessageCount: len(s.Messages),
	}
	if n := len(s.Messages); n > 0 {
		last := s.Messages[n-1].clone()
		sum.LastMessage = &last
	}
	return sum
}

func (s Session) Detail() SessionDetail {
	msgs := make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		msgs[i] = m.clone()
	}
	return SessionDetail{
		SessionSummary: s.Summary(),
		Messages:       msgs,
	}
}

// Statistics aggregates counts over every stored session.
type Statistics struct {
	TotalSessions             int        `json:"totalSessions"`
	TotalMessages             int        `json:"totalMessages"`
	AverageMessagesPerSession float64    `json:"averageMessagesPerSession"`
	LastActivity              *Timestamp `json:"lastActivity"`
}

// Reply is what the response generator produces for a question.
type Reply struct {
	Content   string
	TableData *TableData
}
