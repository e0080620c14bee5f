package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/app/sessions"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/observability"
)

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

// envelope wraps every JSON response.
type envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *pagination `json:"pagination,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

type pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type sendMessageRequest struct {
	Question string `json:"question"`
}

type updateFeedbackRequest struct {
	Feedback string `json:"feedback"`
}

type renameSessionRequest struct {
	Title string `json:"title"`
}

type healthResponse struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime"`
}

// ─────────────────────────────────────────────
// Chat handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: time.Since(s.startedAt).Seconds(),
	}, "Server is running")
}

func (s *Server) handleStartChat(w http.ResponseWriter, r *http.Request) {
	out := s.chat.StartNewChat(r.Context())
	writeOK(w, http.StatusCreated, out, "New chat session created successfully")
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req sendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	msg, err := s.chat.ProcessQuestion(r.Context(), id, req.Question)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, msg, "Response generated successfully")
}

func (s *Server) handleUpdateFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	messageID, err := parseMessageID(r.PathValue("messageId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateFeedbackRequest
	if !decodeBody(w, r, &req) {
		return
	}

	msg, err := s.chat.UpdateMessageFeedback(r.Context(), id, messageID, domain.Feedback(req.Feedback))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, msg, "Feedback updated successfully")
}

func (s *Server) handleChatHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, s.sessions.Health(r.Context()), "Chat service is healthy")
}

// ─────────────────────────────────────────────
// Session handlers
// ─────────────────────────────────────────────

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := sessions.ListParams{
		Page:      queryInt(q.Get("page")),
		Limit:     queryInt(q.Get("limit")),
		SortBy:    sessions.SortField(q.Get("sortBy")),
		SortOrder: sessions.SortOrder(q.Get("sortOrder")),
	}

	page, err := s.sessions.ListSessions(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    page.Items,
		Message: "Sessions retrieved successfully",
		Pagination: &pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
			HasNext:    page.HasNext,
			HasPrev:    page.HasPrev,
		},
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, s.sessions.GetStatistics(r.Context()), "Statistics retrieved successfully")
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	detail, err := s.sessions.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, detail, "Session retrieved successfully")
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	if !s.sessions.DeleteSession(r.Context(), id) {
		writeError(w, r, domain.SessionNotFound(id))
		return
	}
	writeOK(w, http.StatusOK, nil, "Session deleted successfully")
}

func (s *Server) handleRenameSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req renameSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	summary, err := s.sessions.RenameSession(r.Context(), id, req.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, summary, "Session title updated successfully")
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, map[string]any{
		"version": "1.0.0",
		"prefix":  s.prefix,
		"endpoints": map[string]map[string]string{
			"chat": {
				"POST /chat/start":                                 "Start a new chat session",
				"POST /chat/:sessionId/message":                    "Send a message in a session",
				"PUT /chat/:sessionId/message/:messageId/feedback": "Update message feedback",
				"GET /chat/health":                                 "Get chat service health",
				"GET /chat/:sessionId/ws":                          "Chat over a WebSocket",
			},
			"sessions": {
				"GET /sessions":                  "Get all sessions (with pagination)",
				"GET /sessions/:sessionId":       "Get session details",
				"DELETE /sessions/:sessionId":    "Delete a session",
				"PUT /sessions/:sessionId/title": "Update session title",
				"GET /sessions/statistics":       "Get session statistics",
			},
		},
	}, "Chat API Documentation")
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, envelope{
		Success:   false,
		Error:     "Route not found",
		Message:   fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path),
		Timestamp: time.Now().UTC(),
	})
}

// ─────────────────────────────────────────────
// Request helpers
// ─────────────────────────────────────────────

// sessionIDParam validates the {sessionId} path value and writes a 400 when it is malformed.
func sessionIDParam(w http.ResponseWriter, r *http.Request) (domain.SessionID, bool) {
	id := domain.SessionID(r.PathValue("sessionId"))
	if !domain.ValidSessionID(id) {
		writeError(w, r, domain.InvalidInput("invalid session id %q", id))
		return "", false
	}
	return id, true
}

func parseMessageID(raw string) (domain.MessageID, error) {
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0, domain.InvalidInput("invalid message id %q", raw)
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, domain.InvalidInput("invalid message id %q", raw)
	}
	return domain.MessageID(n), nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, domain.InvalidInput("invalid JSON body"))
		return false
	}
	return true
}

// queryInt returns 0 for missing or malformed values so the service applies its default.
func queryInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case domain.IsInvalidInput(err):
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// errorText hides internal error details from clients.
func errorText(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
	}
	writeJSON(w, status, envelope{
		Success:   false,
		Error:     errorText(err, status),
		Message:   "An error occurred",
		Timestamp: time.Now().UTC(),
	})
}
