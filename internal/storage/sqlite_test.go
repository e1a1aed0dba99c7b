package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpataki/agentbuilder/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleAgent() *models.PublishedAgent {
	return &models.PublishedAgent{
		Config: &models.AgentConfig{
			Name:                   "HR Helper",
			Role:                   "an HR benefits specialist",
			Type:                   models.AgentTypeKnowledge,
			KnowledgeSources:       []string{"HR Policies"},
			Guardrails:             []string{},
			ConversationStarters:   []string{"How much PTO do I have left?"},
			HasRequiredConnections: true,
		},
		Transcript: []models.Message{
			{ID: "m1", Role: models.RoleAssistant, Content: "Hi!"},
			{ID: "m2", Role: models.RoleUser, Content: "Let's get started"},
		},
	}
}

func TestCreateAndGetAgent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	agent := sampleAgent()
	require.NoError(t, s.CreateAgent(ctx, agent))
	require.NotEmpty(t, agent.ID)

	got, err := s.GetAgent(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, agent.Config, got.Config)
	assert.Equal(t, agent.Transcript, got.Transcript)
	assert.True(t, agent.CreatedAt.Equal(got.CreatedAt))
}

func TestGetAgentNotFound(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.GetAgent(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAgentReplacesTranscript(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	agent := sampleAgent()
	require.NoError(t, s.CreateAgent(ctx, agent))

	agent.Config.Name = "Benefits Buddy"
	agent.Transcript = append(agent.Transcript, models.Message{ID: "m3", Role: models.RoleAssistant, Content: "Done!"})
	require.NoError(t, s.UpdateAgent(ctx, agent))

	got, err := s.GetAgent(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "Benefits Buddy", got.Config.Name)
	assert.Len(t, got.Transcript, 3)

	assert.ErrorIs(t, s.UpdateAgent(ctx, &models.PublishedAgent{ID: "nope", Config: &models.AgentConfig{}}), ErrNotFound)
}

func TestListAgentsNewestFirst(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, second := sampleAgent(), sampleAgent()
	second.Config.Name = "Second"
	require.NoError(t, s.CreateAgent(ctx, first))
	require.NoError(t, s.CreateAgent(ctx, second))

	agents, err := s.ListAgents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, second.ID, agents[0].ID)
	assert.Nil(t, agents[0].Transcript)

	agents, err = s.ListAgents(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, agents, 1)
}

func TestDeleteAgent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	agent := sampleAgent()
	require.NoError(t, s.CreateAgent(ctx, agent))
	require.NoError(t, s.DeleteAgent(ctx, agent.ID))

	_, err := s.GetAgent(ctx, agent.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	msgs, err := s.GetTranscript(ctx, agent.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	assert.ErrorIs(t, s.DeleteAgent(ctx, agent.ID), ErrNotFound)
}

func TestResolveID(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	a, b := sampleAgent(), sampleAgent()
	a.ID, b.ID = "abc123", "abd456"
	require.NoError(t, s.CreateAgent(ctx, a))
	require.NoError(t, s.CreateAgent(ctx, b))

	id, err := s.ResolveID(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	_, err = s.ResolveID(ctx, "ab")
	assert.ErrorIs(t, err, ErrAmbiguous)
	_, err = s.ResolveID(ctx, "zz")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, blank := range []string{"", "   "} {
		_, err = s.ResolveID(ctx, blank)
		assert.ErrorIs(t, err, ErrNotFound, "prefix %q", blank)
	}
}

func TestMessageIDsScopedToAgent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	a, b := sampleAgent(), sampleAgent()
	require.NoError(t, s.CreateAgent(ctx, a))
	require.NoError(t, s.CreateAgent(ctx, b))

	for _, agent := range []*models.PublishedAgent{a, b} {
		msgs, err := s.GetTranscript(ctx, agent.ID)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "m1", msgs[0].ID)
		assert.Equal(t, "m2", msgs[1].ID)
	}
}
