package builder

import (
	"strings"

	"github.com/mpataki/agentbuilder/internal/models"
)

type Requirement string

const (
	RequireName             Requirement = "name"
	RequireKnowledgeSources Requirement = "knowledge_sources"
	RequireWorkflows        Requirement = "workflows"
)

// Noun is the human form used in prompts and errors.
func (r Requirement) Noun() string {
	switch r {
	case RequireKnowledgeSources:
		return "knowledge source"
	case RequireWorkflows:
		return "workflow"
	default:
		return string(r)
	}
}

// ValidationError names every requirement a config is missing for publish.
type ValidationError struct {
	Missing []Requirement
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Missing))
	for i, r := range e.Missing {
		names[i] = string(r)
	}
	return "agent is not ready to publish: missing " + strings.Join(names, ", ")
}

func (e *ValidationError) Has(r Requirement) bool {
	for _, m := range e.Missing {
		if m == r {
			return true
		}
	}
	return false
}

// PublishableAgent is a config that passed Finalize.
type PublishableAgent struct {
	Config *models.AgentConfig
}

// Finalize re-checks the readiness rules. On success the returned config
// is a copy with HasRequiredConnections set.
func Finalize(cfg *models.AgentConfig) (*PublishableAgent, error) {
	var missing []Requirement
	if strings.TrimSpace(cfg.Name) == "" {
		missing = append(missing, RequireName)
	}
	switch cfg.Type {
	case models.AgentTypeKnowledge:
		if len(cfg.KnowledgeSources) == 0 {
			missing = append(missing, RequireKnowledgeSources)
		}
	case models.AgentTypeWorkflow:
		if len(cfg.Workflows) == 0 {
			missing = append(missing, RequireWorkflows)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	out := cfg.Clone()
	out.RefreshReadiness()
	return &PublishableAgent{Config: out}, nil
}
