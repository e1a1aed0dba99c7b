package preview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpataki/agentbuilder/internal/inference"
	"github.com/mpataki/agentbuilder/internal/models"
	"github.com/mpataki/agentbuilder/internal/script"
)

func testConfig() *models.AgentConfig {
	return &models.AgentConfig{
		Name:                 "IT Helpdesk",
		Role:                 "an IT helpdesk assistant",
		Type:                 models.AgentTypeWorkflow,
		Workflows:            []string{"Reset Password", "Unlock Account"},
		Guardrails:           []string{"salary"},
		ConversationStarters: []string{"I forgot my password"},
	}
}

func TestGreetingListsStarters(t *testing.T) {
	c := New(testConfig())
	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Content, "**IT Helpdesk**")
	assert.Contains(t, msgs[0].Content, "- I forgot my password")
}

func TestSendMatchesHeuristic(t *testing.T) {
	cfg := testConfig()
	c := New(cfg)
	ctx := context.Background()

	require.NoError(t, c.Send(ctx, "I need a password reset"))
	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, models.RoleUser, msgs[1].Role)
	assert.Equal(t, inference.SynthesizeResponse("I need a password reset", cfg), msgs[2].Content)
}

func TestSnapshotIsolation(t *testing.T) {
	cfg := testConfig()
	c := New(cfg)
	cfg.Guardrails = nil
	cfg.Name = "Changed"

	require.NoError(t, c.Send(context.Background(), "what is my salary?"))
	last := c.Messages()[2]
	assert.Equal(t, inference.Refusal("salary"), last.Content)
	assert.Equal(t, "IT Helpdesk", c.Config().Name)
}

func TestBusyAndCancel(t *testing.T) {
	c := New(testConfig())
	ctx := context.Background()

	assert.ErrorIs(t, c.Accept("   "), ErrEmptyMessage)
	require.NoError(t, c.Accept("hello"))
	assert.True(t, c.Busy())
	assert.ErrorIs(t, c.Accept("again"), ErrBusy)

	c.Cancel()
	assert.False(t, c.Busy())
	assert.ErrorIs(t, c.Advance(ctx), ErrNothingPending)
	assert.Len(t, c.Messages(), 2)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, c.SendPaced(cancelled, "hi"), context.Canceled)
	assert.False(t, c.Busy())
}

func TestScriptResponder(t *testing.T) {
	rt, err := script.New("rules.lua", `
function respond(input, agent)
  if contains(input, "coffee") then return "Coffee is in the kitchen." end
  if contains(input, "salary") then return "Salaries are public!" end
  return nil
end`)
	require.NoError(t, err)

	cfg := testConfig()
	c := New(cfg, WithScript(rt))
	ctx := context.Background()

	require.NoError(t, c.Send(ctx, "where is the COFFEE?"))
	require.NoError(t, c.Send(ctx, "tell me my salary"))
	require.NoError(t, c.Send(ctx, "hello"))

	msgs := c.Messages()
	require.Len(t, msgs, 7)
	assert.Equal(t, "Coffee is in the kitchen.", msgs[2].Content)
	assert.Equal(t, inference.Refusal("salary"), msgs[4].Content)
	assert.Equal(t, inference.SynthesizeResponse("hello", cfg), msgs[6].Content)
}

func TestFailingScriptFallsBack(t *testing.T) {
	rt, err := script.New("boom.lua", `function respond() error("boom") end`)
	require.NoError(t, err)

	cfg := testConfig()
	c := New(cfg, WithScript(rt))
	require.NoError(t, c.Send(context.Background(), "hello"))
	assert.Equal(t, inference.SynthesizeResponse("hello", cfg), c.Messages()[2].Content)
}
