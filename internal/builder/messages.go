package builder

import (
	"fmt"
	"strings"

	"github.com/mpataki/agentbuilder/internal/models"
)

const greeting = "Hi! I'll help you build an AI agent. I'll ask a few questions about what it should do, " +
	"then suggest a setup you can refine.\n\nReady to get started? You can also just tell me what you'd like your agent to help with."

func askRole(description string) string {
	if description != "" {
		return "Sounds useful. First, what role should your agent play? For example: \"an IT helpdesk assistant\" or \"an HR benefits specialist\"."
	}
	return "Great! First, what role should your agent play? For example: \"an IT helpdesk assistant\" or \"an HR benefits specialist\"."
}

func askResponsibilities(role string) string {
	return fmt.Sprintf("Got it: **%s**. What are its main responsibilities? What kinds of requests should it handle?", role)
}

const askCompletion = "How will you know the agent has done its job? Describe what a successful conversation looks like."

func typeBlurb(t models.AgentType) string {
	switch t {
	case models.AgentTypeKnowledge:
		return "Knowledge agents answer strictly from the documents and sources you connect. You'll need at least one knowledge source."
	case models.AgentTypeWorkflow:
		return "Workflow agents take action by running workflows and skills. You'll need at least one workflow."
	default:
		return "Answer agents respond using general knowledge and your instructions. Connecting sources is optional."
	}
}

func suggestType(inferred models.AgentType) string {
	return fmt.Sprintf("Thanks! Based on what you've described, I'd suggest a **%s**. %s\n\nPick the type that fits best.",
		inferred.Label(), typeBlurb(inferred))
}

const reselectType = "No problem. Which type should it be instead?"

func confirmType(t models.AgentType) string {
	return fmt.Sprintf("You picked a **%s**. %s\n\nShall we continue with this type?", t.Label(), typeBlurb(t))
}

func showPhrases(phrases []string) string {
	var b strings.Builder
	b.WriteString("Here are some things people might ask your agent:\n\n")
	for i, p := range phrases {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	fmt.Fprintf(&b, "\nI've added the first %d as conversation starters. Keep them, or type your own (one per line).",
		min(len(phrases), models.MaxConversationStarters))
	return b.String()
}

func askGuardrails(starters []string) string {
	return fmt.Sprintf("Saved %d conversation starters. Are there any topics your agent should refuse to discuss? "+
		"List them separated by commas, or say \"none\".", len(starters))
}

func askSources(cfg *models.AgentConfig, suggested []string) string {
	var ack string
	if len(cfg.Guardrails) > 0 {
		ack = fmt.Sprintf("Got it, I'll steer clear of: %s. ", strings.Join(cfg.Guardrails, ", "))
	} else {
		ack = "No guardrails, noted. "
	}

	switch cfg.Type {
	case models.AgentTypeWorkflow:
		return ack + "Now pick the workflows this agent can run. Select at least one."
	case models.AgentTypeKnowledge:
		if len(suggested) > 0 {
			return ack + fmt.Sprintf("Now let's connect knowledge. Based on your description I'd suggest: %s. Select at least one source.",
				strings.Join(suggested, ", "))
		}
		return ack + "Now let's connect knowledge. Select at least one source."
	default:
		if len(suggested) > 0 {
			return ack + fmt.Sprintf("Would you like to connect any knowledge sources? These look relevant: %s. This is optional, so feel free to skip.",
				strings.Join(suggested, ", "))
		}
		return ack + "Would you like to connect any knowledge sources? This is optional, so feel free to skip."
	}
}

func doneSummary(cfg *models.AgentConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** is ready!\n\n", cfg.Name)
	fmt.Fprintf(&b, "- Type: %s\n", cfg.Type.Label())
	fmt.Fprintf(&b, "- Knowledge: %s\n", listOrNone(cfg.KnowledgeSources))
	fmt.Fprintf(&b, "- Workflows: %s\n", listOrNone(cfg.Workflows))
	fmt.Fprintf(&b, "- Conversation starters: %d\n", len(cfg.ConversationStarters))
	fmt.Fprintf(&b, "- Guardrails: %s\n", listOrNone(cfg.Guardrails))
	b.WriteString("\nYou can keep refining it by telling me what to change, for example \"rename to ...\", " +
		"\"add starter ...\" or \"enable web search\". Publish when you're happy.")
	return b.String()
}

func resumeGreeting(cfg *models.AgentConfig) string {
	return fmt.Sprintf("You're editing **%s**. Tell me what to change, for example \"add guardrail salary\" or \"disable web search\".", cfg.Name)
}

func changesApplied(changes []Change) string {
	var b strings.Builder
	if anyApplied(changes) {
		b.WriteString("Done! Here's what I changed:\n")
	} else {
		b.WriteString("I couldn't make that change:\n")
	}
	for _, c := range changes {
		fmt.Fprintf(&b, "\n- %s", c.Summary)
	}
	return b.String()
}

func anyApplied(changes []Change) bool {
	for _, c := range changes {
		if c.Applied {
			return true
		}
	}
	return false
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
