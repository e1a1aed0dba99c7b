package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpataki/agentbuilder/internal/models"
)

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"IT Helpdesk Assistant": "it-helpdesk-assistant",
		"  HR -- Buddy! ":       "hr-buddy",
		"Café Bot":              "café-bot",
		"???":                   "agent",
		"":                      "agent",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestWriteBundle(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	agent := &models.PublishedAgent{
		ID: "a1",
		Config: &models.AgentConfig{
			Name:                 "IT Helpdesk",
			Description:          "Fixes laptops.",
			Type:                 models.AgentTypeWorkflow,
			Workflows:            []string{"Reset Password"},
			Instructions:         "You are an IT helpdesk assistant.",
			ConversationStarters: []string{"I forgot my password"},
			WebSearch:            true,
		},
		Transcript: []models.Message{{ID: "m1", Role: models.RoleAssistant, Content: "Hi!"}},
		CreatedAt:  created,
		UpdatedAt:  created,
	}

	dir := t.TempDir()
	b, err := Write(dir, agent)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "it-helpdesk"), b.Dir)

	fm, body, err := ReadAgentDoc(b.AgentPath)
	require.NoError(t, err)
	assert.Equal(t, "a1", fm.ID)
	assert.Equal(t, "workflow", fm.Type)
	assert.Equal(t, []string{"Reset Password"}, fm.Workflows)
	assert.True(t, fm.WebSearch)
	assert.True(t, created.Equal(fm.CreatedAt))
	assert.Contains(t, body, "# IT Helpdesk")
	assert.Contains(t, body, "You are an IT helpdesk assistant.")

	data, err := os.ReadFile(b.ConfigPath)
	require.NoError(t, err)
	var cfg models.AgentConfig
	require.NoError(t, json.Unmarshal(data, &cfg))
	assert.Equal(t, *agent.Config, cfg)

	data, err = os.ReadFile(b.TranscriptPath)
	require.NoError(t, err)
	var msgs []models.Message
	require.NoError(t, json.Unmarshal(data, &msgs))
	assert.Equal(t, agent.Transcript, msgs)
}

func TestReadAgentDocWithoutFrontMatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), AgentFile)
	require.NoError(t, os.WriteFile(path, []byte("# just markdown\n"), 0644))

	_, _, err := ReadAgentDoc(path)
	assert.ErrorIs(t, err, ErrNoFrontMatter)
}
