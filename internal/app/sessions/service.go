// Package sessions holds the read and housekeeping operations on stored sessions:
// paginated listing, detail lookup, deletion, rename, statistics and health.
package sessions

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/observability"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

type SortField string

const (
	SortByTitle        SortField = "title"
	SortByCreatedAt    SortField = "createdAt"
	SortByMessageCount SortField = "messageCount"
	SortByLastActivity SortField = "lastActivity"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListParams are the query parameters of ListSessions. Zero values pick the defaults.
type ListParams struct {
	Page      int
	Limit     int
	SortBy    SortField
	SortOrder SortOrder
}

// DefaultListParams returns page 1 of 10, most recently active first.
func DefaultListParams() ListParams {
	return ListParams{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    SortByLastActivity,
		SortOrder: SortDesc,
	}
}

func (p ListParams) WithPage(n int) ListParams {
	p.Page = n
	return p
}

func (p ListParams) WithLimit(n int) ListParams {
	p.Limit = n
	return p
}

func (p ListParams) WithSort(field SortField, order SortOrder) ListParams {
	p.SortBy = field
	p.SortOrder = order
	return p
}

// normalize applies defaults and clamps; unknown sort values are rejected.
func (p ListParams) normalize() (ListParams, error) {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	switch {
	case p.Limit == 0:
		p.Limit = DefaultLimit
	case p.Limit < 1:
		p.Limit = 1
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}

	switch p.SortBy {
	case "":
		p.SortBy = SortByLastActivity
	case SortByTitle, SortByCreatedAt, SortByMessageCount, SortByLastActivity:
	default:
		return p, domain.InvalidInput("sortBy must be one of title, createdAt, messageCount, lastActivity")
	}

	switch p.SortOrder {
	case "":
		p.SortOrder = SortDesc
	case SortAsc, SortDesc:
	default:
		return p, domain.InvalidInput("sortOrder must be asc or desc")
	}
	return p, nil
}

// Page is one page of session summaries.
type Page struct {
	Items      []domain.SessionSummary `json:"sessions"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	Total      int                     `json:"total"`
	TotalPages int                     `json:"totalPages"`
	HasNext    bool                    `json:"hasNext"`
	HasPrev    bool                    `json:"hasPrev"`
}

// Health is the liveness report with store statistics.
type Health struct {
	Status     string            `json:"status"`
	Uptime     float64           `json:"uptime"`
	Timestamp  domain.Timestamp  `json:"timestamp"`
	Statistics domain.Statistics `json:"statistics"`
}

// Service exposes session queries over a SessionStore.
type Service struct {
	store     domain.SessionStore
	now       func() time.Time
	startedAt time.Time
}

func NewService(store domain.SessionStore) *Service {
	return &Service{
		store:     store,
		now:       time.Now,
		startedAt: time.Now(),
	}
}

// ListSessions sorts every session by the requested field and slices out one page.
// Requests past the last page return an empty page with the real totals.
func (s *Service) ListSessions(ctx context.Context, params ListParams) (Page, error) {
	p, err := params.normalize()
	if err != nil {
		return Page{}, err
	}

	all := s.store.GetAllSessions()
	summaries := make([]domain.SessionSummary, len(all))
	for i, sess := range all {
		summaries[i] = sess.Summary()
	}
	sortSummaries(summaries, p.SortBy, p.SortOrder)

	total := len(summaries)
	totalPages := (total + p.Limit - 1) / p.Limit

	// pages past the end are checked before multiplying, so huge page numbers cannot overflow
	start, end := total, total
	if p.Page <= totalPages {
		start = (p.Page - 1) * p.Limit
		end = min(start+p.Limit, total)
	}

	observability.LoggerFromContext(ctx).Debug("sessions listed",
		"page", p.Page, "limit", p.Limit, "sort_by", p.SortBy, "sort_order", p.SortOrder, "total", total)

	return Page{
		Items:      summaries[start:end],
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}, nil
}

// sortSummaries is stable, so equal keys keep the store's lastActivity-desc order.
func sortSummaries(items []domain.SessionSummary, field SortField, order SortOrder) {
	compare := func(a, b domain.SessionSummary) int {
		switch field {
		case SortByTitle:
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case SortByCreatedAt:
			return a.CreatedAt.Compare(b.CreatedAt)
		case SortByMessageCount:
			return a.MessageCount - b.MessageCount
		default:
			return a.LastActivity.Compare(b.LastActivity)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := compare(items[i], items[j])
		if order == SortAsc {
			return c < 0
		}
		return c > 0
	})
}

func (s *Service) GetSession(ctx context.Context, id domain.SessionID) (domain.SessionDetail, error) {
	sess, ok := s.store.GetSessionByID(id)
	if !ok {
		return domain.SessionDetail{}, domain.SessionNotFound(id)
	}
	return sess.Detail(), nil
}

// DeleteSession reports whether a session was removed.
func (s *Service) DeleteSession(ctx context.Context, id domain.SessionID) bool {
	deleted := s.store.DeleteSession(id)
	if deleted {
		observability.LoggerFromContext(ctx).Info("session deleted", "session_id", id)
	}
	return deleted
}

// RenameSession sets an explicit title, which also stops title derivation.
func (s *Service) RenameSession(ctx context.Context, id domain.SessionID, title string) (domain.SessionSummary, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.SessionSummary{}, domain.InvalidInput("title is required")
	}
	if utf8.RuneCountInString(title) > domain.MaxTitleLength {
		return domain.SessionSummary{}, domain.InvalidInput("title must be at most %d characters", domain.MaxTitleLength)
	}

	if !s.store.UpdateSessionTitle(id, title) {
		return domain.SessionSummary{}, domain.SessionNotFound(id)
	}

	sess, ok := s.store.GetSessionByID(id)
	if !ok {
		return domain.SessionSummary{}, domain.SessionNotFound(id)
	}

	observability.LoggerFromContext(ctx).Info("session renamed", "session_id", id, "title", title)
	return sess.Summary(), nil
}

func (s *Service) GetStatistics(ctx context.Context) domain.Statistics {
	return s.store.GetStatistics()
}

func (s *Service) Health(ctx context.Context) Health {
	now := s.now()
	return Health{
		Status:     "healthy",
		Uptime:     now.Sub(s.startedAt).Seconds(),
		Timestamp:  now,
		Statistics: s.store.GetStatistics(),
	}
}
