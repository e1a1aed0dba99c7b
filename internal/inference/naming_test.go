package inference

import (
	"testing"

	"github.com/mpataki/agentbuilder/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSuggestName(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"a policy compliance officer", "Policy Compliance Officer"},
		{"the IT helpdesk assistant", "IT Helpdesk Assistant"},
		{"friendly onboarding buddy for new hires", "Friendly Onboarding Buddy For"},
		{"", "My Agent"},
		{"an", "My Agent"},
		{"coach!", "Coach"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SuggestName(&models.AgentConfig{Role: tt.role}), tt.role)
	}
}

func TestComposeInstructions(t *testing.T) {
	cfg := &models.AgentConfig{
		Role:               "an HR assistant",
		Responsibilities:   "Answer leave questions",
		CompletionCriteria: "the question is answered",
		Type:               models.AgentTypeKnowledge,
		KnowledgeSources:   []string{"HR Policies", "Employee Handbook"},
		Guardrails:         []string{"salary", "lawsuits"},
	}

	got := ComposeInstructions(cfg)
	assert.Contains(t, got, "You are an HR assistant.")
	assert.Contains(t, got, "Responsibilities:\nAnswer leave questions")
	assert.Contains(t, got, "complete when: the question is answered")
	assert.Contains(t, got, "(HR Policies, Employee Handbook)")
	assert.Contains(t, got, "Do not discuss: salary, lawsuits.")

	assert.Equal(t, "You are your assistant.", ComposeInstructions(&models.AgentConfig{}))
}
