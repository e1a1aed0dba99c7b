package inference

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mpataki/agentbuilder/internal/models"
)

const (
	defaultAgentName = "My Agent"
	maxNameWords     = 4
)

var leadingArticles = map[string]bool{"a": true, "an": true, "the": true}

// SuggestName derives a display name from the role: leading article dropped,
// at most four words, each capitalized. Words already containing an upper
// case letter ("IT", "HR") are kept as written.
func SuggestName(cfg *models.AgentConfig) string {
	words := strings.Fields(cfg.Role)
	if len(words) > 0 && leadingArticles[strings.ToLower(words[0])] {
		words = words[1:]
	}
	if len(words) == 0 {
		return defaultAgentName
	}
	if len(words) > maxNameWords {
		words = words[:maxNameWords]
	}

	parts := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimFunc(w, unicode.IsPunct)
		if w == "" {
			continue
		}
		if !hasUpper(w) {
			w = upperFirst(w)
		}
		parts = append(parts, w)
	}

	if len(parts) == 0 {
		return defaultAgentName
	}
	return strings.Join(parts, " ")
}

// ComposeInstructions renders the instruction block stored on the config once
// the wizard completes.
func ComposeInstructions(cfg *models.AgentConfig) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s.", roleOrDefault(cfg))
	if resp := strings.TrimSpace(cfg.Responsibilities); resp != "" {
		fmt.Fprintf(&b, "\n\nResponsibilities:\n%s", resp)
	}
	if done := strings.TrimSpace(cfg.CompletionCriteria); done != "" {
		fmt.Fprintf(&b, "\n\nA conversation is complete when: %s", done)
	}

	switch cfg.Type {
	case models.AgentTypeKnowledge:
		b.WriteString("\n\nAnswer strictly from the connected knowledge sources")
		if len(cfg.KnowledgeSources) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(cfg.KnowledgeSources, ", "))
		}
		b.WriteString(". If the answer is not in them, say so.")
	case models.AgentTypeWorkflow:
		b.WriteString("\n\nUse the available workflows to complete requests")
		if len(cfg.Workflows) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(cfg.Workflows, ", "))
		}
		b.WriteString(" and confirm the outcome with the user.")
	case models.AgentTypeAnswer:
		b.WriteString("\n\nAnswer questions directly and concisely.")
	}

	if len(cfg.Guardrails) > 0 {
		fmt.Fprintf(&b, "\n\nDo not discuss: %s.", strings.Join(cfg.Guardrails, ", "))
	}
	return b.String()
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
