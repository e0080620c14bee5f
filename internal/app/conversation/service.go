// Package conversation runs the ask-a-question transaction against the session store.
package conversation

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/observability"
)

// DefaultThinkDelay is the pause between storing the question and generating the reply.
const DefaultThinkDelay = 500 * time.Millisecond

type Service struct {
	store     domain.SessionStore
	responder domain.ResponseGenerator

	thinkDelay time.Duration
	sleep      func(time.Duration)
	now        func() time.Time
	tel        *observability.Telemetry

	locks *sessionLocks
}

type Option func(*Service)

func WithThinkDelay(d time.Duration) Option {
	return func(s *Service) { s.thinkDelay = d }
}

func WithTelemetry(t *observability.Telemetry) Option {
	return func(s *Service) {
		if t != nil {
			s.tel = t
		}
	}
}

// WithSleep replaces time.Sleep for the think delay.
func WithSleep(fn func(time.Duration)) Option {
	return func(s *Service) { s.sleep = fn }
}

func NewService(store domain.SessionStore, gen domain.ResponseGenerator, opts ...Option) *Service {
	s := &Service{
		store:      store,
		responder:  gen,
		thinkDelay: DefaultThinkDelay,
		sleep:      time.Sleep,
		now:        time.Now,
		tel:        observability.NoopTelemetry(),
		locks:      newSessionLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type StartChatResult struct {
	SessionID domain.SessionID `json:"sessionId"`
	Title     string           `json:"title"`
	CreatedAt domain.Timestamp `json:"createdAt"`
}

// StartNewChat creates an empty session titled "New Chat".
func (s *Service) StartNewChat(ctx context.Context) StartChatResult {
	ctx, span := s.tel.Tracer.Start(ctx, "conversation.StartNewChat")
	defer span.End()

	sess := s.store.CreateSession(domain.DefaultSessionTitle)
	s.tel.SessionsCreated.Add(ctx, 1)
	span.SetAttributes(attribute.String("chat.session_id", string(sess.ID)))

	observability.LoggerFromContext(ctx).Info("session started", "session_id", sess.ID)

	return StartChatResult{
		SessionID: sess.ID,
		Title:     sess.Title,
		CreatedAt: sess.CreatedAt,
	}
}

// ProcessQuestion stores the question, waits the think delay, then stores and returns the
// generated assistant reply. Calls for the same session never interleave.
func (s *Service) ProcessQuestion(
	ctx context.Context,
	sessionID domain.SessionID,
	question string,
) (msg domain.Message, err error) {
	start := s.now()

	ctx, span := s.tel.Tracer.Start(ctx, "conversation.ProcessQuestion",
		trace.WithAttributes(attribute.String("chat.session_id", string(sessionID))))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	text := strings.TrimSpace(question)
	if text == "" {
		return domain.Message{}, domain.InvalidInput("question is required")
	}
	if utf8.RuneCountInString(text) > domain.MaxQuestionLength {
		return domain.Message{}, domain.InvalidInput("question must be at most %d characters", domain.MaxQuestionLength)
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	if _, ok := s.store.GetSessionByID(sessionID); !ok {
		return domain.Message{}, domain.SessionNotFound(sessionID)
	}

	userMsg, ok := s.store.AddMessage(sessionID, domain.NewMessage{
		Role:    domain.RoleUser,
		Content: text,
	})
	if !ok {
		return domain.Message{}, domain.SessionNotFound(sessionID)
	}
	s.tel.Messages.Add(ctx, 1, metric.WithAttributes(attribute.String("chat.role", string(domain.RoleUser))))
	log.Info("question received", "message_id", userMsg.ID, "length", utf8.RuneCountInString(text))

	if s.thinkDelay > 0 {
		s.sleep(s.thinkDelay)
	}

	reply := s.responder.Generate(text)

	assistantMsg, ok := s.store.AddMessage(sessionID, domain.NewMessage{
		Role:      domain.RoleAssistant,
		Content:   reply.Content,
		TableData: reply.TableData,
	})
	if !ok {
		log.Error("session disappeared before the reply was stored")
		return domain.Message{}, domain.ErrInternal
	}
	s.tel.Messages.Add(ctx, 1, metric.WithAttributes(attribute.String("chat.role", string(domain.RoleAssistant))))

	elapsed := s.now().Sub(start)
	s.tel.ResponseDuration.Record(ctx, float64(elapsed.Microseconds())/1000)
	span.SetAttributes(attribute.Bool("chat.has_table", assistantMsg.TableData != nil))

	log.Info("reply stored",
		"message_id", assistantMsg.ID,
		"has_table", assistantMsg.TableData != nil,
		"duration_ms", elapsed.Milliseconds(),
	)
	return assistantMsg, nil
}

// UpdateMessageFeedback records like or dislike on any message of the session.
func (s *Service) UpdateMessageFeedback(
	ctx context.Context,
	sessionID domain.SessionID,
	messageID domain.MessageID,
	feedback domain.Feedback,
) (msg domain.Message, err error) {
	ctx, span := s.tel.Tracer.Start(ctx, "conversation.UpdateMessageFeedback",
		trace.WithAttributes(
			attribute.String("chat.session_id", string(sessionID)),
			attribute.Int("chat.message_id", int(messageID)),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if !feedback.Valid() {
		return domain.Message{}, domain.InvalidInput("feedback must be like or dislike")
	}
	if messageID <= 0 {
		return domain.Message{}, domain.InvalidInput("message id must be a positive integer")
	}

	if _, ok := s.store.GetSessionByID(sessionID); !ok {
		return domain.Message{}, domain.SessionNotFound(sessionID)
	}

	updated, ok := s.store.UpdateMessageFeedback(sessionID, messageID, feedback)
	if !ok {
		return domain.Message{}, domain.MessageNotFound(messageID)
	}

	observability.LoggerFromContext(ctx).Info("feedback recorded",
		"session_id", sessionID,
		"message_id", messageID,
		"feedback", feedback,
	)
	return updated, nil
}
