package builder

import (
	"regexp"
	"strings"

	"github.com/mpataki/agentbuilder/internal/models"
)

// The command parser is literal pattern matching over anchors such as
// "rename to" or "enable web search". It does not try to understand intent.
// Values run to the end of their clause; clauses are separated by ";",
// newlines, or " and " followed by another command verb.

type commandPattern struct {
	re    *regexp.Regexp
	build func(m []string) Edit
}

var commandPatterns = []commandPattern{
	{
		re: regexp.MustCompile(`(?i)\b(?:rename(?: it| the agent)?(?: to)?|call it|name it|change (?:the )?name to)\s+(.+)$`),
		build: func(m []string) Edit { return Rename{Name: cleanValue(m[1])} },
	},
	{
		re:    regexp.MustCompile(`(?i)\bset (?:the )?description to:?\s+(.+)$`),
		build: func(m []string) Edit { return SetDescription{Text: cleanValue(m[1])} },
	},
	{
		re:    regexp.MustCompile(`(?i)\b(?:append|add) to (?:the )?description:?\s+(.+)$`),
		build: func(m []string) Edit { return AppendDescription{Text: cleanValue(m[1])} },
	},
	{
		re:    regexp.MustCompile(`(?i)\badd (?:a )?(?:conversation )?starter:?\s+(.+)$`),
		build: func(m []string) Edit { return AddStarter{Text: cleanValue(m[1])} },
	},
	{
		re:    regexp.MustCompile(`(?i)\b(?:remove|delete) (?:the )?(?:conversation )?starter:?\s+(.+)$`),
		build: func(m []string) Edit { return RemoveStarter{Match: cleanValue(m[1])} },
	},
	{
		re:    regexp.MustCompile(`(?i)\b(?:add (?:a )?guardrail(?: for)?|block topic):?\s+(.+)$`),
		build: func(m []string) Edit { return AddGuardrail{Topic: cleanValue(m[1])} },
	},
	capabilityPattern("web search", CapabilityWebSearch),
	capabilityPattern("image generation", CapabilityImageGeneration),
	capabilityPattern("workspace content", CapabilityWorkspaceContent),
	{
		re: regexp.MustCompile(`(?i)\b(?:change (?:the )?type to|make it|switch to)\s+(?:an?\s+)?(answer|knowledge|workflow)\b`),
		build: func(m []string) Edit {
			t, _ := models.ParseAgentType(m[1])
			return ChangeType{Type: t}
		},
	},
}

func capabilityPattern(phrase string, c Capability) commandPattern {
	return commandPattern{
		re: regexp.MustCompile(`(?i)\b(enable|disable|turn on|turn off)\s+(?:the\s+)?` + phrase + `\b`),
		build: func(m []string) Edit {
			verb := strings.ToLower(m[1])
			return SetCapability{Capability: c, Enabled: verb == "enable" || verb == "turn on"}
		},
	}
}

var commandVerbs = []string{
	"rename", "call", "name", "change", "set", "append", "add", "remove",
	"delete", "block", "enable", "disable", "turn", "make", "switch",
}

// ParseCommands returns at most one edit per pattern, in pattern order.
// Each clause yields at most one edit: the pattern matching earliest in the
// clause owns it, so a captured value is never read again as a command.
func ParseCommands(text string) []Edit {
	found := make([]Edit, len(commandPatterns))
	for _, clause := range splitClauses(text) {
		best, bestAt := -1, len(clause)+1
		var match []string
		for i, p := range commandPatterns {
			if found[i] != nil {
				continue
			}
			loc := p.re.FindStringSubmatchIndex(clause)
			if loc == nil || loc[0] >= bestAt {
				continue
			}
			best, bestAt = i, loc[0]
			match = submatches(clause, loc)
		}
		if best >= 0 {
			found[best] = commandPatterns[best].build(match)
		}
	}

	var edits []Edit
	for _, e := range found {
		if e != nil {
			edits = append(edits, e)
		}
	}
	return edits
}

func submatches(s string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return m
}

const HelpMessage = "I didn't catch a change there. I can update your agent with commands like:\n" +
	"- rename to <name>\n" +
	"- set description to <text> / append to description <text>\n" +
	"- add starter <text> / remove starter <text>\n" +
	"- add guardrail <topic>\n" +
	"- enable or disable web search, image generation or workspace content\n" +
	"- change type to answer, knowledge or workflow"

func splitClauses(text string) []string {
	var clauses []string
	for _, part := range strings.FieldsFunc(text, func(r rune) bool { return r == ';' || r == '\n' }) {
		segments := strings.Split(part, " and ")
		current := segments[0]
		for _, seg := range segments[1:] {
			if startsWithVerb(seg) {
				clauses = append(clauses, strings.TrimSpace(current))
				current = seg
				continue
			}
			current += " and " + seg
		}
		clauses = append(clauses, strings.TrimSpace(current))
	}
	return clauses
}

func startsWithVerb(s string) bool {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return false
	}
	for _, v := range commandVerbs {
		if fields[0] == v {
			return true
		}
	}
	return false
}

func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".!")
	return strings.Trim(strings.TrimSpace(s), `"'`)
}
