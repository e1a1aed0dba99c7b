package builder

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpataki/agentbuilder/internal/catalog"
	"github.com/mpataki/agentbuilder/internal/models"
)

func applyOne(t *testing.T, cfg *models.AgentConfig, ed Edit) Change {
	t.Helper()
	e := &editor{cfg: cfg, cats: CatalogsFrom(catalog.Builtin())}
	return ed.apply(e)
}

func TestStarterLimit(t *testing.T) {
	cfg := &models.AgentConfig{}
	for i := 0; i < models.MaxConversationStarters; i++ {
		require.True(t, applyOne(t, cfg, AddStarter{Text: fmt.Sprintf("starter %d", i)}).Applied)
	}

	ch := applyOne(t, cfg, AddStarter{Text: "one too many"})
	assert.False(t, ch.Applied)
	assert.Len(t, cfg.ConversationStarters, models.MaxConversationStarters)

	assert.False(t, applyOne(t, cfg, AddStarter{Text: "STARTER 1"}).Applied)
	assert.True(t, applyOne(t, cfg, RemoveStarter{Match: "starter 1"}).Applied)
	assert.NotContains(t, cfg.ConversationStarters, "starter 1")
}

func TestGuardrailEdits(t *testing.T) {
	cfg := &models.AgentConfig{}
	assert.True(t, applyOne(t, cfg, AddGuardrail{Topic: "Salary"}).Applied)
	assert.False(t, applyOne(t, cfg, AddGuardrail{Topic: "salary"}).Applied)
	assert.False(t, applyOne(t, cfg, AddGuardrail{Topic: " "}).Applied)

	assert.True(t, applyOne(t, cfg, RemoveGuardrail{Topic: "SALARY"}).Applied)
	assert.Empty(t, cfg.Guardrails)
	assert.False(t, applyOne(t, cfg, RemoveGuardrail{Topic: "salary"}).Applied)
}

func TestBindingEditsRefreshReadiness(t *testing.T) {
	cfg := &models.AgentConfig{Name: "HR Helper", Type: models.AgentTypeKnowledge}

	assert.False(t, applyOne(t, cfg, AttachKnowledge{ID: "ks-nope"}).Applied)
	assert.True(t, applyOne(t, cfg, AttachKnowledge{ID: "ks-hr-policies"}).Applied)
	assert.Equal(t, []string{"HR Policies"}, cfg.KnowledgeSources)
	assert.True(t, cfg.HasRequiredConnections)
	assert.False(t, applyOne(t, cfg, AttachKnowledge{ID: "ks-hr-policies"}).Applied)

	assert.True(t, applyOne(t, cfg, DetachKnowledge{Name: "hr policies"}).Applied)
	assert.False(t, cfg.HasRequiredConnections)

	ch := applyOne(t, cfg, ChangeType{Type: models.AgentTypeWorkflow})
	assert.True(t, ch.Applied)
	assert.Contains(t, ch.Summary, "add a workflow")

	assert.False(t, applyOne(t, cfg, AttachWorkflow{ID: "wf-submit-pto"}).Applied)
	assert.True(t, applyOne(t, cfg, AttachWorkflow{ID: "wf-submit-pto", Reassign: true}).Applied)
	assert.True(t, cfg.HasRequiredConnections)

	assert.True(t, applyOne(t, cfg, DetachWorkflow{Name: "Submit PTO Request"}).Applied)
	assert.False(t, cfg.HasRequiredConnections)
}

func TestWorkflowLinkedToSameAgent(t *testing.T) {
	cfg := &models.AgentConfig{Name: "HR Assistant", Type: models.AgentTypeWorkflow}
	assert.True(t, applyOne(t, cfg, AttachWorkflow{ID: "wf-submit-pto"}).Applied)
}

func TestCapabilityAndIconEdits(t *testing.T) {
	cfg := &models.AgentConfig{IconID: "bot", IconColorID: "blue"}

	assert.True(t, applyOne(t, cfg, SetCapability{Capability: CapabilityImageGeneration, Enabled: true}).Applied)
	assert.True(t, cfg.ImageGeneration)
	assert.True(t, applyOne(t, cfg, SetCapability{Capability: CapabilityWorkspaceContent, Enabled: true}).Applied)
	assert.True(t, cfg.UseAllWorkspaceContent)

	assert.True(t, applyOne(t, cfg, SetIcon{IconID: "shield", ColorID: "green"}).Applied)
	assert.Equal(t, "shield", cfg.IconID)
	assert.Equal(t, "green", cfg.IconColorID)

	assert.False(t, applyOne(t, cfg, SetIcon{IconID: "unicorn"}).Applied)
	assert.Equal(t, "shield", cfg.IconID)
}

func TestDescriptionEdits(t *testing.T) {
	cfg := &models.AgentConfig{}
	assert.True(t, applyOne(t, cfg, AppendDescription{Text: "Helps with IT."}).Applied)
	assert.True(t, applyOne(t, cfg, AppendDescription{Text: "Available 24/7."}).Applied)
	assert.Equal(t, "Helps with IT. Available 24/7.", cfg.Description)

	assert.False(t, applyOne(t, cfg, Rename{Name: " "}).Applied)
	assert.True(t, applyOne(t, cfg, Rename{Name: "Helpy"}).Applied)
	assert.Equal(t, "Helpy", cfg.Name)
}
