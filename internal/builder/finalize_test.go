package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpataki/agentbuilder/internal/models"
)

func TestFinalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     models.AgentConfig
		missing []Requirement
	}{
		{
			name: "answer agent needs only a name",
			cfg:  models.AgentConfig{Name: "Trivia", Type: models.AgentTypeAnswer},
		},
		{
			name:    "blank name",
			cfg:     models.AgentConfig{Name: "  ", Type: models.AgentTypeAnswer},
			missing: []Requirement{RequireName},
		},
		{
			name:    "knowledge without sources",
			cfg:     models.AgentConfig{Name: "HR", Type: models.AgentTypeKnowledge},
			missing: []Requirement{RequireKnowledgeSources},
		},
		{
			name:    "workflow without workflows or name",
			cfg:     models.AgentConfig{Type: models.AgentTypeWorkflow, KnowledgeSources: []string{"HR Policies"}},
			missing: []Requirement{RequireName, RequireWorkflows},
		},
		{
			name: "workflow with workflows",
			cfg:  models.AgentConfig{Name: "IT", Type: models.AgentTypeWorkflow, Workflows: []string{"Reset Password"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent, err := Finalize(&tt.cfg)
			if tt.missing == nil {
				require.NoError(t, err)
				assert.True(t, agent.Config.HasRequiredConnections)
				assert.NotSame(t, &tt.cfg, agent.Config)
				return
			}

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.missing, vErr.Missing)
			for _, r := range tt.missing {
				assert.True(t, vErr.Has(r))
			}
			assert.Contains(t, vErr.Error(), string(tt.missing[0]))
		})
	}
}
