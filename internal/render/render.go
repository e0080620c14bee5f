// Package render formats chat messages, tables and session listings for the terminal.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
)

const (
	DefaultGlamourStyle = "dark"
	DefaultWordWrap     = 100
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	captionStyle = lipgloss.NewStyle().Bold(true)
	summaryStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
)

// Renderer handles output formatting. Pretty mode runs message bodies through glamour.
type Renderer struct {
	pretty bool
	wrap   int
}

func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty, wrap: DefaultWordWrap}
}

// Message renders one chat turn: a role label, the body, then its table if any.
func (r *Renderer) Message(m domain.Message) string {
	var sb strings.Builder

	label := color.GreenString("Assistant")
	if m.Role == domain.RoleUser {
		label = color.CyanString("You")
	}
	fmt.Fprintf(&sb, "%s  #%d  %s%s\n", label, m.ID, m.Timestamp.Format("15:04:05"), feedbackMark(m.Feedback))

	sb.WriteString(r.markdown(m.Content))
	if !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteString("\n")
	}

	if m.TableData != nil {
		sb.WriteString("\n")
		sb.WriteString(Table(m.TableData))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Transcript renders a whole session, oldest message first.
func (r *Renderer) Transcript(d domain.SessionDetail) string {
	var sb strings.Builder
	sb.WriteString(color.New(color.Bold).Sprint(d.Title))
	fmt.Fprintf(&sb, "  (%s, %d messages)\n", d.ID, d.MessageCount)
	sb.WriteString(strings.Repeat("─", 60) + "\n")

	for _, m := range d.Messages {
		sb.WriteString(r.Message(m))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *Renderer) markdown(md string) string {
	if !r.pretty {
		return md
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(DefaultGlamourStyle),
		glamour.WithWordWrap(r.wrap),
	)
	if err != nil {
		return md
	}
	out, err := tr.Render(md)
	if err != nil {
		return md
	}
	return out
}

// Table draws the caption, a bordered grid, and the summary line.
func Table(t *domain.TableData) string {
	if t == nil {
		return ""
	}

	var sb strings.Builder
	if t.Caption != "" {
		sb.WriteString(captionStyle.Render(t.Caption))
		sb.WriteString("\n")
	}

	sb.WriteString(grid(t.Headers, t.Rows))

	if t.Summary != "" {
		sb.WriteString("\n")
		sb.WriteString(summaryStyle.Render(t.Summary))
	}
	return sb.String()
}

func grid(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// Sessions renders a page of session summaries.
func Sessions(items []domain.SessionSummary) string {
	if len(items) == 0 {
		return "No sessions found"
	}

	rows := make([][]string, 0, len(items))
	for _, s := range items {
		rows = append(rows, []string{
			string(s.ID),
			s.Title,
			strconv.Itoa(s.MessageCount),
			s.LastActivity.Format("2006-01-02 15:04:05"),
		})
	}
	return grid([]string{"ID", "Title", "Messages", "Last activity"}, rows)
}

// Statistics renders the store totals as aligned key/value lines.
func Statistics(s domain.Statistics) string {
	last := "never"
	if s.LastActivity != nil {
		last = s.LastActivity.Format("2006-01-02 15:04:05")
	}

	var sb strings.Builder
	sb.WriteString(color.CyanString("Chat statistics\n"))
	fmt.Fprintf(&sb, "  Sessions:      %d\n", s.TotalSessions)
	fmt.Fprintf(&sb, "  Messages:      %d\n", s.TotalMessages)
	fmt.Fprintf(&sb, "  Avg/session:   %.2f\n", s.AverageMessagesPerSession)
	fmt.Fprintf(&sb, "  Last activity: %s\n", last)
	return sb.String()
}

func feedbackMark(f domain.Feedback) string {
	switch f {
	case domain.FeedbackLike:
		return "  " + color.GreenString("👍")
	case domain.FeedbackDislike:
		return "  " + color.RedString("👎")
	default:
		return ""
	}
}
