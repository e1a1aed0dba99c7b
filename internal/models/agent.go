package models

import (
	"fmt"
	"strings"
	"time"
)

type AgentType int

const (
	AgentTypeUnset AgentType = iota
	AgentTypeAnswer
	AgentTypeKnowledge
	AgentTypeWorkflow
)

// AgentTypes lists the selectable types in selector order.
var AgentTypes = []AgentType{AgentTypeAnswer, AgentTypeKnowledge, AgentTypeWorkflow}

func (t AgentType) String() string {
	switch t {
	case AgentTypeAnswer:
		return "answer"
	case AgentTypeKnowledge:
		return "knowledge"
	case AgentTypeWorkflow:
		return "workflow"
	default:
		return ""
	}
}

// Label is the display name used in assistant messages.
func (t AgentType) Label() string {
	switch t {
	case AgentTypeAnswer:
		return "Answer agent"
	case AgentTypeKnowledge:
		return "Knowledge agent"
	case AgentTypeWorkflow:
		return "Workflow agent"
	default:
		return "Unassigned"
	}
}

func (t AgentType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *AgentType) UnmarshalText(text []byte) error {
	parsed, err := ParseAgentType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseAgentType accepts the text form of a type. The empty string is Unset.
func ParseAgentType(s string) (AgentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return AgentTypeUnset, nil
	case "answer":
		return AgentTypeAnswer, nil
	case "knowledge":
		return AgentTypeKnowledge, nil
	case "workflow":
		return AgentTypeWorkflow, nil
	}
	return AgentTypeUnset, fmt.Errorf("unknown agent type %q", s)
}

const MaxConversationStarters = 6

type AgentConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	Role               string `json:"role"`
	Responsibilities   string `json:"responsibilities"`
	CompletionCriteria string `json:"completion_criteria"`

	Type AgentType `json:"agent_type"`

	KnowledgeSources []string `json:"knowledge_sources"`
	Workflows        []string `json:"workflows"`

	Instructions         string   `json:"instructions"`
	ConversationStarters []string `json:"conversation_starters"`
	Guardrails           []string `json:"guardrails"`

	IconID      string `json:"icon_id"`
	IconColorID string `json:"icon_color_id"`

	WebSearch              bool `json:"web_search"`
	ImageGeneration        bool `json:"image_generation"`
	UseAllWorkspaceContent bool `json:"use_all_workspace_content"`

	HasRequiredConnections bool `json:"has_required_connections"`
}

// Clone returns a deep copy so snapshots never share slices with the live config.
func (c *AgentConfig) Clone() *AgentConfig {
	out := *c
	out.KnowledgeSources = cloneStrings(c.KnowledgeSources)
	out.Workflows = cloneStrings(c.Workflows)
	out.ConversationStarters = cloneStrings(c.ConversationStarters)
	out.Guardrails = cloneStrings(c.Guardrails)
	return &out
}

// RequirementMet reports whether the type-specific binding is present.
// Answer agents have no required binding.
func (c *AgentConfig) RequirementMet() bool {
	switch c.Type {
	case AgentTypeKnowledge:
		return len(c.KnowledgeSources) > 0
	case AgentTypeWorkflow:
		return len(c.Workflows) > 0
	default:
		return true
	}
}

// RefreshReadiness recomputes HasRequiredConnections after a binding change.
func (c *AgentConfig) RefreshReadiness() {
	c.HasRequiredConnections = c.RequirementMet()
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

type PublishedAgent struct {
	ID         string
	Config     *AgentConfig
	Transcript []Message
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
