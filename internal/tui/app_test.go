package tui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mpataki/agentbuilder/internal/builder"
	"github.com/mpataki/agentbuilder/internal/catalog"
	"github.com/mpataki/agentbuilder/internal/models"
	"github.com/mpataki/agentbuilder/internal/storage"
	"github.com/mpataki/agentbuilder/internal/studio"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "tui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	svc := studio.New(store, builder.CatalogsFrom(catalog.Builtin()))
	return NewApp(svc, zap.NewNop())
}

func press(t *testing.T, a *App, key tea.KeyMsg) tea.Cmd {
	t.Helper()
	_, cmd := a.Update(key)
	return cmd
}

// deliver runs cmd and feeds its message back, as the bubbletea loop would.
func deliver(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	a.Update(cmd())
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func typeText(t *testing.T, a *App, text string) {
	t.Helper()
	a.input.SetValue(text)
	deliver(t, a, press(t, a, enter()))
}

func TestBuilderFlowThroughKeys(t *testing.T) {
	a := newTestApp(t)
	press(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	require.Equal(t, ViewBuilder, a.view)

	cmd := press(t, a, enter())
	assert.True(t, a.session.Busy(), "reply is pending until the tick lands")
	deliver(t, a, cmd)
	assert.Equal(t, builder.StepRole, a.session.Step())

	typeText(t, a, "a friendly trivia host")
	typeText(t, a, "answers general questions")
	typeText(t, a, "the user is happy")
	require.Equal(t, builder.StepSelectType, a.session.Step())
	assert.Equal(t, models.AgentTypes[a.selector.cursor], models.AgentTypeAnswer)

	deliver(t, a, press(t, a, enter()))
	require.Equal(t, builder.StepConfirmType, a.session.Step())
	deliver(t, a, press(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}))
	require.Equal(t, builder.StepTriggerPhrases, a.session.Step())

	deliver(t, a, press(t, a, enter()))
	require.Equal(t, builder.StepGuardrails, a.session.Step())
	deliver(t, a, press(t, a, tea.KeyMsg{Type: tea.KeyCtrlS}))
	require.Equal(t, builder.StepSelectSources, a.session.Step())
	deliver(t, a, press(t, a, tea.KeyMsg{Type: tea.KeyCtrlS}))
	require.Equal(t, builder.StepDone, a.session.Step())

	deliver(t, a, press(t, a, tea.KeyMsg{Type: tea.KeyCtrlP}))
	assert.NoError(t, a.err)
	assert.Equal(t, ViewAgentDetail, a.view)
	require.NotNil(t, a.selected)
	assert.Equal(t, "Friendly Trivia Host", a.selected.Config.Name)
}

func TestPublishIgnoresKeysUntilSaved(t *testing.T) {
	a := newTestApp(t)
	a.startSession(a.studio.NewSession(), nil)

	deliver(t, a, press(t, a, enter()))
	typeText(t, a, "a friendly trivia host")
	typeText(t, a, "answers general questions")
	typeText(t, a, "the user is happy")
	deliver(t, a, press(t, a, enter()))
	deliver(t, a, press(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}))
	deliver(t, a, press(t, a, enter()))
	deliver(t, a, press(t, a, tea.KeyMsg{Type: tea.KeyCtrlS}))
	deliver(t, a, press(t, a, tea.KeyMsg{Type: tea.KeyCtrlS}))
	require.Equal(t, builder.StepDone, a.session.Step())

	cmd := press(t, a, tea.KeyMsg{Type: tea.KeyCtrlP})
	require.NotNil(t, cmd)
	assert.True(t, a.saving)
	assert.Nil(t, press(t, a, tea.KeyMsg{Type: tea.KeyCtrlP}))
	assert.Nil(t, press(t, a, tea.KeyMsg{Type: tea.KeyEsc}))
	assert.Equal(t, ViewBuilder, a.view)

	deliver(t, a, cmd)
	assert.False(t, a.saving)
	assert.NoError(t, a.err)
	assert.Equal(t, ViewAgentDetail, a.view)

	agents, err := a.studio.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, agents, 1)
}

func TestBusyIgnoresKeys(t *testing.T) {
	a := newTestApp(t)
	a.startSession(a.studio.NewSession(), nil)

	cmd := press(t, a, enter())
	require.True(t, a.session.Busy())
	assert.Nil(t, press(t, a, enter()))
	assert.Len(t, a.session.Messages(), 2)

	deliver(t, a, cmd)
	assert.False(t, a.session.Busy())
}

func TestSelectorFor(t *testing.T) {
	cats := builder.CatalogsFrom(catalog.Builtin())

	s := selectorFor(builder.Affordance{
		Widget:             builder.WidgetSourceSelector,
		Selector:           builder.SelectorKnowledge,
		SuggestedSourceIDs: []string{"ks-hr-policies"},
	}, cats)
	assert.Len(t, s.options, len(cats.Sources.Sources()))
	assert.Equal(t, []string{"ks-hr-policies"}, s.pickedIDs())

	s.move(1)
	s.toggle()
	assert.Equal(t, []string{"ks-hr-policies", "ks-employee-handbook"}, s.pickedIDs())

	s.move(-1)
	s.toggle()
	assert.Equal(t, []string{"ks-employee-handbook"}, s.pickedIDs())

	s.move(-1)
	s.toggle()
	assert.Equal(t, []string{"ks-employee-handbook", "ks-facilities-faq"}, s.pickedIDs())

	ts := selectorFor(builder.Affordance{Widget: builder.WidgetTypeSelector, PreselectedType: models.AgentTypeWorkflow}, cats)
	assert.Equal(t, models.AgentTypeWorkflow, models.AgentTypes[ts.cursor])

	ps := selectorFor(builder.Affordance{Widget: builder.WidgetPhrasePicker, Phrases: []string{"a", "b"}}, cats)
	assert.Equal(t, []string{"a", "b"}, ps.pickedIDs())
}

func TestPreviewFromList(t *testing.T) {
	a := newTestApp(t)
	a.startChat(a.studio.PreviewConfig(&models.AgentConfig{Name: "Trivia", Guardrails: []string{"politics"}}), ViewAgentList)

	a.input.SetValue("talk politics")
	deliver(t, a, press(t, a, enter()))
	msgs := a.chat.Messages()
	require.Len(t, msgs, 3)
	assert.Contains(t, msgs[2].Content, "politics")

	press(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewAgentList, a.view)
	assert.Nil(t, a.chat)
}
