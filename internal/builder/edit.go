package builder

import (
	"fmt"
	"strings"

	"github.com/mpataki/agentbuilder/internal/models"
)

type Capability int

const (
	CapabilityWebSearch Capability = iota
	CapabilityImageGeneration
	CapabilityWorkspaceContent
)

func (c Capability) String() string {
	switch c {
	case CapabilityWebSearch:
		return "web search"
	case CapabilityImageGeneration:
		return "image generation"
	case CapabilityWorkspaceContent:
		return "workspace content"
	default:
		return "unknown capability"
	}
}

// Edit is one direct change to the config. Form edits and the post-setup
// command parser both produce Edits, so the two paths cannot diverge.
type Edit interface {
	apply(e *editor) Change
}

// Change reports the outcome of one Edit.
type Change struct {
	Summary string
	Applied bool
}

type (
	Rename            struct{ Name string }
	SetDescription    struct{ Text string }
	AppendDescription struct{ Text string }
	SetInstructions   struct{ Text string }
	AddStarter        struct{ Text string }
	// RemoveStarter removes the first starter containing Match.
	RemoveStarter   struct{ Match string }
	AddGuardrail    struct{ Topic string }
	RemoveGuardrail struct{ Topic string }
	SetCapability   struct {
		Capability Capability
		Enabled    bool
	}
	ChangeType      struct{ Type models.AgentType }
	AttachKnowledge struct{ ID string }
	DetachKnowledge struct{ Name string }
	AttachWorkflow  struct {
		ID       string
		Reassign bool
	}
	DetachWorkflow struct{ Name string }
	SetIcon        struct{ IconID, ColorID string }
)

type editor struct {
	cfg  *models.AgentConfig
	cats Catalogs
}

func applied(format string, args ...any) Change {
	return Change{Summary: fmt.Sprintf(format, args...), Applied: true}
}

func skipped(format string, args ...any) Change {
	return Change{Summary: fmt.Sprintf(format, args...)}
}

func (r Rename) apply(e *editor) Change {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return skipped("Couldn't rename: the new name is empty")
	}
	e.cfg.Name = name
	return applied("Renamed the agent to **%s**", name)
}

func (s SetDescription) apply(e *editor) Change {
	e.cfg.Description = strings.TrimSpace(s.Text)
	return applied("Set the description to \"%s\"", e.cfg.Description)
}

func (a AppendDescription) apply(e *editor) Change {
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return skipped("Couldn't update the description: nothing to add")
	}
	if e.cfg.Description == "" {
		e.cfg.Description = text
	} else {
		e.cfg.Description = strings.TrimSpace(e.cfg.Description) + " " + text
	}
	return applied("Added \"%s\" to the description", text)
}

func (s SetInstructions) apply(e *editor) Change {
	e.cfg.Instructions = strings.TrimSpace(s.Text)
	return applied("Updated the instructions")
}

func (a AddStarter) apply(e *editor) Change {
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return skipped("Couldn't add a starter: it is empty")
	}
	if len(e.cfg.ConversationStarters) >= models.MaxConversationStarters {
		return skipped("Couldn't add \"%s\": the agent already has %d conversation starters", text, models.MaxConversationStarters)
	}
	if indexFold(e.cfg.ConversationStarters, text) >= 0 {
		return skipped("\"%s\" is already a conversation starter", text)
	}
	e.cfg.ConversationStarters = append(e.cfg.ConversationStarters, text)
	return applied("Added the conversation starter \"%s\"", text)
}

func (r RemoveStarter) apply(e *editor) Change {
	match := strings.ToLower(strings.TrimSpace(r.Match))
	if match == "" {
		return skipped("Couldn't remove a starter: nothing to match")
	}
	for i, s := range e.cfg.ConversationStarters {
		if strings.Contains(strings.ToLower(s), match) {
			e.cfg.ConversationStarters = removeAt(e.cfg.ConversationStarters, i)
			return applied("Removed the conversation starter \"%s\"", s)
		}
	}
	return skipped("No conversation starter matches \"%s\"", r.Match)
}

func (a AddGuardrail) apply(e *editor) Change {
	topic := strings.TrimSpace(a.Topic)
	if topic == "" {
		return skipped("Couldn't add a guardrail: the topic is empty")
	}
	if indexFold(e.cfg.Guardrails, topic) >= 0 {
		return skipped("\"%s\" is already a guardrail", topic)
	}
	e.cfg.Guardrails = append(e.cfg.Guardrails, topic)
	return applied("Added a guardrail for \"%s\"", topic)
}

func (r RemoveGuardrail) apply(e *editor) Change {
	i := indexFold(e.cfg.Guardrails, strings.TrimSpace(r.Topic))
	if i < 0 {
		return skipped("\"%s\" is not a guardrail", r.Topic)
	}
	topic := e.cfg.Guardrails[i]
	e.cfg.Guardrails = removeAt(e.cfg.Guardrails, i)
	return applied("Removed the guardrail for \"%s\"", topic)
}

func (s SetCapability) apply(e *editor) Change {
	switch s.Capability {
	case CapabilityWebSearch:
		e.cfg.WebSearch = s.Enabled
	case CapabilityImageGeneration:
		e.cfg.ImageGeneration = s.Enabled
	case CapabilityWorkspaceContent:
		e.cfg.UseAllWorkspaceContent = s.Enabled
	default:
		return skipped("Unknown capability")
	}
	if s.Enabled {
		return applied("Enabled %s", s.Capability)
	}
	return applied("Disabled %s", s.Capability)
}

func (c ChangeType) apply(e *editor) Change {
	if c.Type == models.AgentTypeUnset {
		return skipped("Couldn't change the type: no type given")
	}
	e.cfg.Type = c.Type
	e.cfg.RefreshReadiness()
	ch := applied("Changed the type to **%s**", c.Type.Label())
	if !e.cfg.HasRequiredConnections {
		switch c.Type {
		case models.AgentTypeKnowledge:
			ch.Summary += " (connect a knowledge source before publishing)"
		case models.AgentTypeWorkflow:
			ch.Summary += " (add a workflow before publishing)"
		}
	}
	return ch
}

func (a AttachKnowledge) apply(e *editor) Change {
	if e.cats.Sources == nil {
		return skipped("No knowledge catalog is available")
	}
	src, ok := e.cats.Sources.Source(a.ID)
	if !ok {
		return skipped("Knowledge source %q was not found", a.ID)
	}
	if indexFold(e.cfg.KnowledgeSources, src.Name) >= 0 {
		return skipped("**%s** is already connected", src.Name)
	}
	e.cfg.KnowledgeSources = append(e.cfg.KnowledgeSources, src.Name)
	e.cfg.RefreshReadiness()
	return applied("Connected the knowledge source **%s**", src.Name)
}

func (d DetachKnowledge) apply(e *editor) Change {
	i := indexFold(e.cfg.KnowledgeSources, strings.TrimSpace(d.Name))
	if i < 0 {
		return skipped("**%s** is not connected", d.Name)
	}
	name := e.cfg.KnowledgeSources[i]
	e.cfg.KnowledgeSources = removeAt(e.cfg.KnowledgeSources, i)
	e.cfg.RefreshReadiness()
	return applied("Disconnected the knowledge source **%s**", name)
}

func (a AttachWorkflow) apply(e *editor) Change {
	if e.cats.Workflows == nil {
		return skipped("No workflow catalog is available")
	}
	wf, ok := e.cats.Workflows.Workflow(a.ID)
	if !ok {
		return skipped("Workflow %q was not found", a.ID)
	}
	if linkedElsewhere(wf, e.cfg.Name) && !a.Reassign {
		return skipped("**%s** is linked to %s; confirm the reassignment first", wf.Name, wf.LinkedAgent)
	}
	if indexFold(e.cfg.Workflows, wf.Name) >= 0 {
		return skipped("**%s** is already added", wf.Name)
	}
	e.cfg.Workflows = append(e.cfg.Workflows, wf.Name)
	e.cfg.RefreshReadiness()
	return applied("Added the workflow **%s**", wf.Name)
}

func (d DetachWorkflow) apply(e *editor) Change {
	i := indexFold(e.cfg.Workflows, strings.TrimSpace(d.Name))
	if i < 0 {
		return skipped("**%s** is not added", d.Name)
	}
	name := e.cfg.Workflows[i]
	e.cfg.Workflows = removeAt(e.cfg.Workflows, i)
	e.cfg.RefreshReadiness()
	return applied("Removed the workflow **%s**", name)
}

func (s SetIcon) apply(e *editor) Change {
	if e.cats.Icons == nil {
		return skipped("No icon catalog is available")
	}
	icon, ok := e.cats.Icons.Icon(s.IconID)
	if !ok {
		return skipped("Icon %q was not found", s.IconID)
	}
	e.cfg.IconID = icon.ID
	if s.ColorID != "" {
		if color, ok := e.cats.Icons.Color(s.ColorID); ok {
			e.cfg.IconColorID = color.ID
		}
	}
	return applied("Changed the icon to %s", icon.Name)
}

func linkedElsewhere(wf models.Workflow, agentName string) bool {
	return wf.LinkedAgent != "" && !strings.EqualFold(wf.LinkedAgent, strings.TrimSpace(agentName))
}

func indexFold(list []string, s string) int {
	for i, item := range list {
		if strings.EqualFold(item, s) {
			return i
		}
	}
	return -1
}

func removeAt(list []string, i int) []string {
	out := make([]string, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}
