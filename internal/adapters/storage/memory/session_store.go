package memory

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
)

// SessionStore is the in-memory registry of chat sessions.
// It is NOT persistent; everything is lost when the process exits.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session

	now      func() time.Time
	newID    func() string
	logger   *slog.Logger
	seedDemo bool
}

var _ domain.SessionStore = (*SessionStore)(nil)

type Option func(*SessionStore)

// WithClock overrides time.Now, mostly for tests that need ordered timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SessionStore) { s.now = now }
}

// WithIDGenerator overrides the random suffix used for new session ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *SessionStore) { s.newID = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *SessionStore) { s.logger = l }
}

// WithDemoData registers the demo fixture sessions at construction.
func WithDemoData() Option {
	return func(s *SessionStore) { s.seedDemo = true }
}

func NewSessionStore(opts ...Option) *SessionStore {
	s := &SessionStore{
		sessions: make(map[domain.SessionID]*domain.Session),
		now:      time.Now,
		newID:    shortUUID,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	// seeding needs the final clock, so it runs after every option
	if s.seedDemo {
		s.seed()
	}
	return s
}

func shortUUID() string {
	return uuid.New().String()[:8]
}

func (s *SessionStore) CreateSession(title string) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := domain.SessionID(domain.SessionIDPrefix + s.newID())
	for {
		if _, exists := s.sessions[id]; !exists {
			break
		}
		id = domain.SessionID(domain.SessionIDPrefix + s.newID())
	}

	sess := domain.NewSession(id, title, s.now())
	s.sessions[id] = sess

	s.logger.Debug("session created", "session_id", id, "title", sess.Title)
	return sess.Clone()
}

func (s *SessionStore) GetSessionByID(id domain.SessionID) (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, false
	}
	return sess.Clone(), true
}

// GetAllSessions returns every session, most recently active first.
func (s *SessionStore) GetAllSessions() []domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.LastActivity.Equal(b.LastActivity) {
			return a.LastActivity.After(b.LastActivity)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

func (s *SessionStore) DeleteSession(id domain.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; !exists {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *SessionStore) UpdateSessionTitle(id domain.SessionID, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.UpdateTitle(title, s.now())
	return true
}

func (s *SessionStore) AddMessage(id domain.SessionID, msg domain.NewMessage) (domain.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.Message{}, false
	}
	return sess.AddMessage(msg, s.now()), true
}

func (s *SessionStore) UpdateMessageFeedback(
	id domain.SessionID,
	messageID domain.MessageID,
	feedback domain.Feedback,
) (domain.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.Message{}, false
	}

	msg, found := sess.UpdateMessageFeedback(messageID, feedback)
	if found {
		s.logger.Info("feedback updated", "session_id", id, "message_id", messageID, "feedback", feedback)
	} else {
		s.logger.Info("message not found for feedback", "session_id", id, "message_id", messageID)
	}
	return msg, found
}

// GetStatistics aggregates over all sessions. Average is 0 when the store is empty.
func (s *SessionStore) GetStatistics() domain.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats domain.Statistics
	for _, sess := range s.sessions {
		stats.TotalSessions++
		stats.TotalMessages += len(sess.Messages)
		if stats.LastActivity == nil || sess.LastActivity.After(*stats.LastActivity) {
			last := sess.LastActivity
			stats.LastActivity = &last
		}
	}
	if stats.TotalSessions > 0 {
		stats.AverageMessagesPerSession = float64(stats.TotalMessages) / float64(stats.TotalSessions)
	}
	return stats
}
