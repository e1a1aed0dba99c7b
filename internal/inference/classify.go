package inference

import (
	"strings"

	"github.com/mpataki/agentbuilder/internal/models"
)

// Workflow signals are checked before knowledge signals.
var (
	workflowKeywords = []string{
		"automate", "run", "execute", "trigger", "action", "task", "process",
		"workflow", "reset password", "create ticket", "submit", "update system",
	}
	knowledgeKeywords = []string{
		"document", "specific", "policy", "compliance", "handbook", "manual",
		"only from", "based on", "according to", "strictly",
	}
)

// ClassifyAgentType scans role, responsibilities and completion criteria
// jointly. "run" matching "running" or "brunch" is accepted behavior.
func ClassifyAgentType(cfg *models.AgentConfig) models.AgentType {
	text := strings.ToLower(cfg.Role + " " + cfg.Responsibilities + " " + cfg.CompletionCriteria)

	if containsAny(text, workflowKeywords) {
		return models.AgentTypeWorkflow
	}
	if containsAny(text, knowledgeKeywords) {
		return models.AgentTypeKnowledge
	}
	return models.AgentTypeAnswer
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
