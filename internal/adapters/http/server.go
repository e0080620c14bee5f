package httpadapter

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/app/conversation"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/app/sessions"
)

// Options configures routing and CORS.
type Options struct {
	// APIPrefix is prepended to every chat and session route. Defaults to "/api".
	APIPrefix string
	// CORSOrigin is the allowed browser origin; "*" allows any.
	CORSOrigin string
}

type Server struct {
	chat     *conversation.Service
	sessions *sessions.Service

	prefix     string
	corsOrigin string
	startedAt  time.Time
	upgrader   websocket.Upgrader
}

func NewServer(chat *conversation.Service, sess *sessions.Service, opts Options) http.Handler {
	prefix := "/" + strings.Trim(opts.APIPrefix, "/")
	if prefix == "/" {
		prefix = "/api"
	}

	s := &Server{
		chat:       chat,
		sessions:   sess,
		prefix:     prefix,
		corsOrigin: opts.CORSOrigin,
		startedAt:  time.Now(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.allowedOrigin,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	// chat
	mux.HandleFunc("POST "+prefix+"/chat/start", s.handleStartChat)
	mux.HandleFunc("POST "+prefix+"/chat/{sessionId}/message", s.handleSendMessage)
	mux.HandleFunc("PUT "+prefix+"/chat/{sessionId}/message/{messageId}/feedback", s.handleUpdateFeedback)
	mux.HandleFunc("GET "+prefix+"/chat/health", s.handleChatHealth)
	mux.HandleFunc("GET "+prefix+"/chat/{sessionId}/ws", s.handleChatSocket)

	// sessions
	mux.HandleFunc("GET "+prefix+"/sessions", s.handleListSessions)
	mux.HandleFunc("GET "+prefix+"/sessions/statistics", s.handleStatistics)
	mux.HandleFunc("GET "+prefix+"/sessions/{sessionId}", s.handleGetSession)
	mux.HandleFunc("DELETE "+prefix+"/sessions/{sessionId}", s.handleDeleteSession)
	mux.HandleFunc("PUT "+prefix+"/sessions/{sessionId}/title", s.handleRenameSession)

	mux.HandleFunc("GET "+prefix+"/docs", s.handleDocs)

	mux.HandleFunc("/", s.handleNotFound)

	return chainMiddlewares(mux,
		withRecovery,
		withLogging,
		withCORS(opts.CORSOrigin),
		withRequestID,
	)
}

func (s *Server) allowedOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || s.corsOrigin == "*" || origin == s.corsOrigin
}
