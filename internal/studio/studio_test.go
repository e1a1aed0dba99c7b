package studio

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpataki/agentbuilder/internal/builder"
	"github.com/mpataki/agentbuilder/internal/catalog"
	"github.com/mpataki/agentbuilder/internal/models"
	"github.com/mpataki/agentbuilder/internal/script"
	"github.com/mpataki/agentbuilder/internal/storage"
)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "studio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store, builder.CatalogsFrom(catalog.Builtin()), opts...)
}

func buildHelpdesk(t *testing.T, s *Service) *builder.Controller {
	t.Helper()
	c := s.NewSession()
	for _, in := range []builder.Input{
		builder.Begin{},
		builder.Text{Value: "an IT helpdesk assistant"},
		builder.Text{Value: "reset password requests and unlock accounts"},
		builder.Text{Value: "the issue is resolved"},
		builder.ChooseType{Type: models.AgentTypeWorkflow},
		builder.ConfirmType{},
		builder.AcceptPhrases{},
		builder.Text{Value: "salary"},
		builder.SelectSources{IDs: []string{"wf-reset-password", "wf-unlock-account"}},
	} {
		require.NoError(t, c.Submit(in))
	}
	return c
}

func TestPublishAndGet(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Publish(ctx, s.NewSession())
	assert.ErrorIs(t, err, builder.ErrNotDone)

	c := buildHelpdesk(t, s)
	agent, err := s.Publish(ctx, c)
	require.NoError(t, err)
	assert.True(t, agent.Config.HasRequiredConnections)

	got, err := s.Get(ctx, agent.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, agent.Config, got.Config)
	assert.Equal(t, c.Messages(), got.Transcript)

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCommandUpdatesAgent(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	agent, err := s.Publish(ctx, buildHelpdesk(t, s))
	require.NoError(t, err)
	before := len(agent.Transcript)

	updated, reply, err := s.Command(ctx, agent.ID, "rename to Fixit and enable web search")
	require.NoError(t, err)
	assert.Contains(t, reply, "Fixit")
	assert.Equal(t, "Fixit", updated.Config.Name)
	assert.True(t, updated.Config.WebSearch)

	got, err := s.Get(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fixit", got.Config.Name)
	assert.Len(t, got.Transcript, before+2)
}

func TestUpdateRejectsUnpublishableEdits(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	agent, err := s.Publish(ctx, buildHelpdesk(t, s))
	require.NoError(t, err)

	_, _, err = s.Update(ctx, agent.ID,
		builder.DetachWorkflow{Name: "Reset Password"},
		builder.DetachWorkflow{Name: "Unlock Account"},
	)
	var vErr *builder.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.True(t, vErr.Has(builder.RequireWorkflows))

	got, err := s.Get(ctx, agent.ID)
	require.NoError(t, err)
	assert.Len(t, got.Config.Workflows, 2)

	updated, changes, err := s.Update(ctx, agent.ID, builder.AttachWorkflow{ID: "wf-request-access"})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.True(t, changes[0].Applied)
	assert.Contains(t, updated.Config.Workflows, "Request Access")
}

func TestDelete(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	agent, err := s.Publish(ctx, buildHelpdesk(t, s))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, agent.ID))

	_, err = s.Get(ctx, agent.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	s := newTestService(t, WithExportDir(dir))
	ctx := context.Background()

	agent, err := s.Publish(ctx, buildHelpdesk(t, s))
	require.NoError(t, err)

	b, err := s.Export(ctx, agent.ID, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "it-helpdesk-assistant"), b.Dir)
	assert.FileExists(t, b.AgentPath)
	assert.FileExists(t, b.ConfigPath)
	assert.FileExists(t, b.TranscriptPath)
}

func TestPreviewUsesScriptAndGuardrails(t *testing.T) {
	rt, err := script.New("rules.lua", `
function respond(input, agent)
  if contains(input, "hello") then return "Hello from " .. agent.name end
  return nil
end`)
	require.NoError(t, err)

	s := newTestService(t, WithScript(rt))
	ctx := context.Background()

	agent, err := s.Publish(ctx, buildHelpdesk(t, s))
	require.NoError(t, err)

	chat, err := s.Preview(ctx, agent.ID)
	require.NoError(t, err)
	require.NoError(t, chat.Send(ctx, "hello"))
	require.NoError(t, chat.Send(ctx, "hello, what's my salary?"))

	msgs := chat.Messages()
	assert.Equal(t, "Hello from IT Helpdesk Assistant", msgs[2].Content)
	assert.Contains(t, msgs[4].Content, "salary")
	assert.NotContains(t, msgs[4].Content, "Hello from")
}
