package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/observability"
)

const maxSocketMessageBytes = 16 << 10

type socketRequest struct {
	Question string `json:"question"`
}

// socketEvent is one server frame: either the assistant reply or an error.
type socketEvent struct {
	Type    string          `json:"type"`
	Message *domain.Message `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Code    int             `json:"code,omitempty"`
}

// handleChatSocket upgrades to a WebSocket and answers each {"question"} frame with the
// assistant reply. The session must exist before the upgrade.
func (s *Server) handleChatSocket(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	if _, err := s.sessions.GetSession(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxSocketMessageBytes)

	ctx := r.Context()
	log := observability.LoggerFromContext(ctx).With("session_id", id)
	log.Info("websocket connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read failed", "error", err)
			}
			log.Info("websocket closed")
			return
		}

		var req socketRequest
		if err := json.Unmarshal(data, &req); err != nil {
			if err := conn.WriteJSON(errorEvent(domain.InvalidInput("invalid JSON frame"))); err != nil {
				return
			}
			continue
		}

		msg, err := s.chat.ProcessQuestion(ctx, id, req.Question)
		if err != nil {
			if err := conn.WriteJSON(errorEvent(err)); err != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(socketEvent{Type: "message", Message: &msg}); err != nil {
			log.Warn("websocket write failed", "error", err)
			return
		}
	}
}

func errorEvent(err error) socketEvent {
	status := statusFor(err)
	return socketEvent{
		Type:  "error",
		Error: errorText(err, status),
		Code:  status,
	}
}
