package domain

import (
	"regexp"
	"time"
)

type SessionID string
type MessageID int

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Feedback string

const (
	FeedbackUnset   Feedback = ""
	FeedbackLike    Feedback = "like"
	FeedbackDislike Feedback = "dislike"
)

// Valid reports whether f is a value a caller may assign (like or dislike).
func (f Feedback) Valid() bool {
	return f == FeedbackLike || f == FeedbackDislike
}

const (
	DefaultSessionTitle = "New Chat"
	SessionIDPrefix     = "session-"

	MaxQuestionLength = 1000
	MaxTitleLength    = 100

	// titleDerivationLength is how many characters of the first user message become the title.
	titleDerivationLength = 50
)

var sessionIDPattern = regexp.MustCompile(`^session-[a-zA-Z0-9-]+$`)

// ValidSessionID reports whether id has the session-<alnum> shape.
func ValidSessionID(id SessionID) bool {
	return sessionIDPattern.MatchString(string(id))
}

type Timestamp = time.Time
