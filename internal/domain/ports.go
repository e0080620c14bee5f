package domain

// ResponseGenerator maps a question to reply text and an optional table.
type ResponseGenerator interface {
	Generate(question string) Reply
}

// SessionStore owns every Session. Lookups on unknown ids report ok=false instead of failing.
// Returned values are snapshots; mutating them does not affect the store.
type SessionStore interface {
	CreateSession(title string) Session
	GetSessionByID(id SessionID) (Session, bool)
	GetAllSessions() []Session
	DeleteSession(id SessionID) bool
	UpdateSessionTitle(id SessionID, title string) bool
	AddMessage(id SessionID, msg NewMessage) (Message, bool)
	UpdateMessageFeedback(id SessionID, messageID MessageID, feedback Feedback) (Message, bool)
	GetStatistics() Statistics
}
