package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
)

// BuildMarkdown renders every session, separated by horizontal rules.
func BuildMarkdown(sessions []domain.SessionDetail, exportedAt time.Time) string {
	parts := make([]string, 0, len(sessions))
	for _, s := range sessions {
		parts = append(parts, BuildSessionMarkdown(s, exportedAt))
	}
	return strings.Join(parts, "\n---\n\n")
}

func BuildSessionMarkdown(s domain.SessionDetail, exportedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title)
	fmt.Fprintf(&b, "- Session: `%s`\n", s.ID)
	fmt.Fprintf(&b, "- Created: %s\n", s.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Last activity: %s\n", s.LastActivity.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Messages: %d\n", s.MessageCount)
	fmt.Fprintf(&b, "- Exported: %s\n\n", exportedAt.UTC().Format(time.RFC3339))
	b.WriteString(BuildTranscriptMarkdown(s.Messages))
	return b.String()
}

func BuildTranscriptMarkdown(messages []domain.Message) string {
	var b strings.Builder
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)

		header := "## Assistant"
		if m.Role == domain.RoleUser {
			header = "## You"
		}
		if m.Feedback != domain.FeedbackUnset {
			header += " (" + string(m.Feedback) + ")"
		}
		b.WriteString(header + "\n\n")
		if content != "" {
			b.WriteString(content + "\n\n")
		}
		if m.TableData != nil {
			b.WriteString(tableMarkdown(m.TableData))
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String()) + "\n"
}

func tableMarkdown(t *domain.TableData) string {
	var b strings.Builder
	if t.Caption != "" {
		fmt.Fprintf(&b, "**%s**\n\n", t.Caption)
	}

	b.WriteString(row(t.Headers))
	sep := make([]string, len(t.Headers))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString(row(sep))
	for _, r := range t.Rows {
		b.WriteString(row(r))
	}

	if t.Summary != "" {
		fmt.Fprintf(&b, "\n_%s_\n", t.Summary)
	}
	return b.String()
}

func row(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return "| " + strings.Join(escaped, " | ") + " |\n"
}
