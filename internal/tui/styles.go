package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mpataki/agentbuilder/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	typeAnswer    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	typeKnowledge = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	typeWorkflow  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func formatType(t models.AgentType) string {
	switch t {
	case models.AgentTypeAnswer:
		return typeAnswer.Render("answer")
	case models.AgentTypeKnowledge:
		return typeKnowledge.Render("knowledge")
	case models.AgentTypeWorkflow:
		return typeWorkflow.Render("workflow")
	default:
		return dimStyle.Render("unset")
	}
}

// markdown renders assistant messages. It falls back to plain text when
// glamour cannot build a renderer.
type markdown struct {
	width    int
	renderer *glamour.TermRenderer
}

func (m *markdown) resize(width int) {
	if width <= 0 || width == m.width {
		return
	}
	m.width = width
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.renderer = nil
		return
	}
	m.renderer = r
}

func (m *markdown) render(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

func (m *markdown) transcript(msgs []models.Message) string {
	var b strings.Builder
	for _, msg := range msgs {
		if msg.Role == models.RoleUser {
			fmt.Fprintf(&b, "%s %s\n\n", userStyle.Render("you ›"), msg.Content)
			continue
		}
		b.WriteString(m.render(msg.Content))
		b.WriteString("\n\n")
	}
	return b.String()
}

func formatAge(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
