// Package responder produces canned assistant replies from keyword matching.
package responder

import (
	"math/rand/v2"
	"strings"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
)

// Selector returns an index in [0, n).
type Selector func(n int) int

type rule struct {
	category category
	keywords []string
}

// rules pick the reply text. They are checked in order; the first rule with a matching
// keyword wins.
var rules = []rule{
	{categoryProfit, []string{"profit", "margin"}},
	{categorySales, []string{"sales", "revenue"}},
	{categoryUsers, []string{"user", "customer"}},
	{categoryGreeting, []string{"hello", "hi"}},
	{categoryThanks, []string{"thank"}},
	{categoryHelp, []string{"help"}},
}

// topicRules only run when no rule matched. They choose a table fixture for questions
// answered with the default templates.
var topicRules = []rule{
	{categoryFinancial, []string{"budget", "financial", "cost", "expense", "spending", "expenditure"}},
	{categoryPerformance, []string{"performance", "metrics", "kpi", "analytics", "statistics"}},
}

var tableTriggers = []string{"show", "display", "table", "data", "metrics", "statistics"}

var tableFixtures = map[category]domain.TableKind{
	categoryProfit:      domain.TableProfit,
	categorySales:       domain.TableSales,
	categoryUsers:       domain.TableUsers,
	categoryFinancial:   domain.TableFinancial,
	categoryPerformance: domain.TablePerformance,
}

// Generator implements domain.ResponseGenerator by running a fixed sequence of stages.
// It holds no state besides the selector, so one instance is safe to share between goroutines.
type Generator struct {
	pick   Selector
	stages []stage
}

var _ domain.ResponseGenerator = (*Generator)(nil)

type Option func(*Generator)

// WithSelector replaces the random template choice, e.g. with a fixed index in tests.
func WithSelector(sel Selector) Option {
	return func(g *Generator) { g.pick = sel }
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{pick: rand.IntN}
	for _, opt := range opts {
		opt(g)
	}
	g.stages = []stage{
		classifyStage{},
		composeStage{pick: g.pick},
		followUpStage{},
		tableStage{},
	}
	return g
}

// Generate runs the stages in order; each one extends the draft left by the previous.
func (g *Generator) Generate(question string) domain.Reply {
	d := draft{question: question, lower: strings.ToLower(question)}
	for _, st := range g.stages {
		d = st.Run(d)
	}
	return domain.Reply{Content: d.content, TableData: d.table}
}

func classify(lower string) category {
	if c, ok := firstMatch(rules, lower); ok {
		return c
	}
	return categoryDefault
}

// topicFor names the subject used for the table and follow-up. Matched categories are their
// own topic; default replies may still carry a financial or performance topic.
func topicFor(c category, lower string) category {
	if c != categoryDefault {
		return c
	}
	if t, ok := firstMatch(topicRules, lower); ok {
		return t
	}
	return categoryDefault
}

func firstMatch(rs []rule, lower string) (category, bool) {
	for _, r := range rs {
		if containsAny(lower, r.keywords) {
			return r.category, true
		}
	}
	return "", false
}

func wantsTable(lower string) bool {
	switch {
	case containsAny(lower, tableTriggers):
		return true
	case strings.Contains(lower, "what") && strings.Contains(lower, "is"):
		return true
	case strings.Contains(lower, "how much"), strings.Contains(lower, "compare"):
		return true
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
