package inference

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mpataki/agentbuilder/internal/models"
)

type topic int

const (
	topicNone topic = iota
	topicPassword
	topicAccess
	topicTimeOff
	topicBirthday
	topicBenefits
	topicOnboarding
)

var topicKeywords = []struct {
	topic    topic
	label    string
	keywords []string
}{
	{topicPassword, "passwords", []string{"password", "reset"}},
	{topicAccess, "account access", []string{"unlock", "locked", "access"}},
	{topicTimeOff, "time off", []string{"pto", "time off", "vacation", "leave"}},
	{topicBirthday, "birthdays", []string{"birthday"}},
	{topicBenefits, "benefits", []string{"benefit", "insurance", "401k", "401(k)"}},
	{topicOnboarding, "onboarding", []string{"onboard", "first day", "new hire"}},
}

func detectTopic(lower string) (topic, string) {
	for _, t := range topicKeywords {
		if containsAny(lower, t.keywords) {
			return t.topic, t.label
		}
	}
	return topicNone, ""
}

// MatchGuardrail returns the first configured guardrail contained in input.
// Matching is case-insensitive; blank guardrails never match.
func MatchGuardrail(input string, guardrails []string) (string, bool) {
	lower := strings.ToLower(input)
	for _, g := range guardrails {
		g = strings.TrimSpace(g)
		if g != "" && strings.Contains(lower, strings.ToLower(g)) {
			return g, true
		}
	}
	return "", false
}

// Refusal is the fixed reply for input touching a guardrail.
func Refusal(guardrail string) string {
	return fmt.Sprintf("I'm sorry, but I can't help with questions about %s. "+
		"That topic is outside what I'm allowed to discuss. Is there something else I can help you with?", guardrail)
}

type request struct {
	input string
	lower string
	topic topic
	label string
	cfg   *models.AgentConfig
}

type responseRule struct {
	match  func(r *request) bool
	render func(r *request) string
}

// Rules are evaluated top to bottom; the first match wins.
var responseRules = []responseRule{
	{
		match: func(r *request) bool { _, ok := mentionedWorkflow(r); return ok },
		render: func(r *request) string {
			wf, _ := mentionedWorkflow(r)
			return fmt.Sprintf("I'll run the **%s** workflow for you.\n\n✓ %s completed successfully (simulated). "+
				"Is there anything else I can help with?", wf, wf)
		},
	},
	{
		match: func(r *request) bool {
			return r.cfg.Type == models.AgentTypeWorkflow && r.topic == topicPassword
		},
		render: func(r *request) string {
			wf := preferWorkflow(r.cfg.Workflows, "password")
			if wf == "" {
				return "I can help reset your password once a password workflow is connected to me."
			}
			return fmt.Sprintf("I can help you reset your password. Starting the **%s** workflow...\n\n"+
				"✓ A temporary password has been sent to your registered email (simulated).", wf)
		},
	},
	{
		match: func(r *request) bool {
			return r.cfg.Type == models.AgentTypeWorkflow && r.topic == topicAccess
		},
		render: func(r *request) string {
			wf := preferWorkflow(r.cfg.Workflows, "unlock", "access")
			if wf == "" {
				return "I can help restore your access once an access workflow is connected to me."
			}
			return fmt.Sprintf("I've started the **%s** workflow to restore your access (simulated). "+
				"You should be able to sign in within a few minutes.", wf)
		},
	},
	{
		match: func(r *request) bool {
			return r.cfg.Type == models.AgentTypeWorkflow && len(r.cfg.Workflows) > 0
		},
		render: func(r *request) string {
			return fmt.Sprintf("I can take care of that with one of my workflows: %s. Which one should I run?",
				joinBold(r.cfg.Workflows))
		},
	},
	{
		match: func(r *request) bool {
			return r.cfg.Type == models.AgentTypeKnowledge && len(r.cfg.KnowledgeSources) > 0 && r.topic == topicTimeOff
		},
		render: func(r *request) string {
			return fmt.Sprintf("According to **%s**, full-time employees accrue paid time off every pay period, "+
				"and requests should be submitted at least two weeks in advance. (Simulated answer.)",
				preferSource(r.cfg.KnowledgeSources, "hr", "polic", "handbook"))
		},
	},
	{
		match: func(r *request) bool {
			return r.cfg.Type == models.AgentTypeKnowledge && len(r.cfg.KnowledgeSources) > 0 && r.topic == topicBirthday
		},
		render: func(r *request) string {
			return fmt.Sprintf("According to **%s**, team birthdays are celebrated on the first Friday of each month "+
				"with a card and treats. (Simulated answer.)",
				preferSource(r.cfg.KnowledgeSources, "handbook", "culture"))
		},
	},
	{
		match: func(r *request) bool {
			return r.cfg.Type == models.AgentTypeKnowledge && len(r.cfg.KnowledgeSources) > 0 && r.topic == topicBenefits
		},
		render: func(r *request) string {
			return fmt.Sprintf("According to **%s**, you can review and change your benefit elections during open "+
				"enrollment or within 30 days of a qualifying life event. (Simulated answer.)",
				preferSource(r.cfg.KnowledgeSources, "benefit", "hr"))
		},
	},
	{
		match: func(r *request) bool {
			return r.cfg.Type == models.AgentTypeKnowledge && len(r.cfg.KnowledgeSources) > 0
		},
		render: func(r *request) string {
			return fmt.Sprintf("Based on %s, here's what I found about \"%s\": this is a simulated answer drawn from "+
				"your connected knowledge sources. As %s, I'd point you to the relevant section for the full details.",
				joinBold(r.cfg.KnowledgeSources), r.input, roleOrDefault(r.cfg))
		},
	},
	{
		match: func(r *request) bool { return r.cfg.Type == models.AgentTypeKnowledge },
		render: func(r *request) string {
			return fmt.Sprintf("I don't have any knowledge sources connected yet, so I can't answer questions about "+
				"\"%s\". Add a knowledge source to get grounded answers.", r.input)
		},
	},
	{
		match: func(r *request) bool {
			return r.cfg.Type == models.AgentTypeAnswer && r.topic != topicNone
		},
		render: func(r *request) string {
			return fmt.Sprintf("Good question about %s! As %s, here's a general answer: check the usual self-service "+
				"resources first, and reach out to the responsible team if that doesn't resolve it. (Simulated answer.)",
				r.label, roleOrDefault(r.cfg))
		},
	},
	{
		match: func(r *request) bool { return r.cfg.Type == models.AgentTypeAnswer },
		render: func(r *request) string {
			reply := fmt.Sprintf("As %s, I'm happy to help.", roleOrDefault(r.cfg))
			if resp := strings.TrimSpace(r.cfg.Responsibilities); resp != "" {
				reply += fmt.Sprintf(" I'm here to %s.", strings.TrimSuffix(lowerFirst(resp), "."))
			}
			return reply + fmt.Sprintf("\n\nYou asked: \"%s\". (Simulated answer.)", r.input)
		},
	},
}

// SynthesizeResponse produces the simulated reply of an agent configured as
// cfg. Guardrails are checked before anything else. The same input and
// config always produce the same reply.
func SynthesizeResponse(input string, cfg *models.AgentConfig) string {
	if g, ok := MatchGuardrail(input, cfg.Guardrails); ok {
		return Refusal(g)
	}

	lower := strings.ToLower(input)
	t, label := detectTopic(lower)
	r := &request{input: strings.TrimSpace(input), lower: lower, topic: t, label: label, cfg: cfg}

	for _, rule := range responseRules {
		if rule.match(r) {
			return rule.render(r)
		}
	}

	return fmt.Sprintf("Thanks for your message! You said: \"%s\". I'm a preview of %s, so my answers are simulated.",
		r.input, nameOrDefault(cfg))
}

func mentionedWorkflow(r *request) (string, bool) {
	for _, wf := range r.cfg.Workflows {
		name := strings.ToLower(strings.TrimSpace(wf))
		if name != "" && strings.Contains(r.lower, name) {
			return wf, true
		}
	}
	return "", false
}

// preferWorkflow returns the first workflow whose name contains the earliest
// possible hint, else the first workflow, else "".
func preferWorkflow(workflows []string, hints ...string) string {
	for _, hint := range hints {
		for _, wf := range workflows {
			if strings.Contains(strings.ToLower(wf), hint) {
				return wf
			}
		}
	}
	if len(workflows) > 0 {
		return workflows[0]
	}
	return ""
}

func preferSource(sources []string, hints ...string) string {
	return preferWorkflow(sources, hints...)
}

func joinBold(names []string) string {
	bold := make([]string, len(names))
	for i, n := range names {
		bold[i] = "**" + n + "**"
	}
	return strings.Join(bold, ", ")
}

func roleOrDefault(cfg *models.AgentConfig) string {
	if role := strings.TrimSpace(cfg.Role); role != "" {
		return role
	}
	return "your assistant"
}

func nameOrDefault(cfg *models.AgentConfig) string {
	if name := strings.TrimSpace(cfg.Name); name != "" {
		return name
	}
	return "your agent"
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
