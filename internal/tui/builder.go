package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mpataki/agentbuilder/internal/builder"
	"github.com/mpataki/agentbuilder/internal/models"
)

type option struct {
	id     string
	label  string
	detail string
}

// selector is the cursor and checkbox state behind the list widgets.
type selector struct {
	options []option
	cursor  int
	picked  map[string]bool
}

func newSelector(opts []option, preselect []string) selector {
	s := selector{options: opts, picked: make(map[string]bool)}
	for _, id := range preselect {
		s.picked[id] = true
	}
	return s
}

func (s *selector) move(delta int) {
	if len(s.options) == 0 {
		return
	}
	s.cursor = (s.cursor + delta + len(s.options)) % len(s.options)
}

func (s *selector) toggle() {
	if len(s.options) == 0 {
		return
	}
	id := s.options[s.cursor].id
	s.picked[id] = !s.picked[id]
}

func (s *selector) pickedIDs() []string {
	var ids []string
	for _, o := range s.options {
		if s.picked[o.id] {
			ids = append(ids, o.id)
		}
	}
	return ids
}

// selectorFor builds the list widget state for an affordance.
func selectorFor(aff builder.Affordance, cats builder.Catalogs) selector {
	switch aff.Widget {
	case builder.WidgetTypeSelector:
		var opts []option
		cursor := 0
		for i, t := range models.AgentTypes {
			opts = append(opts, option{id: t.String(), label: t.Label()})
			if t == aff.PreselectedType {
				cursor = i
			}
		}
		s := newSelector(opts, nil)
		s.cursor = cursor
		return s

	case builder.WidgetConfirmType:
		return newSelector([]option{
			{id: "confirm", label: "Looks good"},
			{id: "adjust", label: "Pick a different type"},
		}, nil)

	case builder.WidgetPhrasePicker:
		opts := make([]option, 0, len(aff.Phrases))
		for _, p := range aff.Phrases {
			opts = append(opts, option{id: p, label: p})
		}
		return newSelector(opts, aff.Phrases[:min(len(aff.Phrases), models.MaxConversationStarters)])

	case builder.WidgetSourceSelector:
		var opts []option
		switch aff.Selector {
		case builder.SelectorWorkflows:
			if cats.Workflows != nil {
				for _, wf := range cats.Workflows.Workflows() {
					o := option{id: wf.ID, label: wf.Name, detail: wf.Description}
					if wf.LinkedAgent != "" {
						o.detail = fmt.Sprintf("linked to %s", wf.LinkedAgent)
					}
					opts = append(opts, o)
				}
			}
		default:
			if cats.Sources != nil {
				for _, src := range cats.Sources.Sources() {
					opts = append(opts, option{id: src.ID, label: src.Name, detail: src.Description})
				}
			}
		}
		return newSelector(opts, aff.SuggestedSourceIDs)
	}
	return newSelector(nil, nil)
}

func (a *App) startSession(c *builder.Controller, editing *models.PublishedAgent) {
	a.session = c
	a.editing = editing
	a.linked = nil
	a.saving = false
	a.err = nil
	a.status = ""
	a.view = ViewBuilder
	a.input.Reset()
	a.input.Focus()
	a.resetSelector()
	a.refreshViewport()
}

func (a *App) resetSelector() {
	a.selector = selectorFor(a.session.Affordance(), a.studio.Catalogs())
}

func (a *App) leaveBuilder() {
	a.session = nil
	a.linked = nil
	a.input.Blur()
	if a.editing != nil {
		a.editing = nil
		a.view = ViewAgentDetail
		return
	}
	a.view = ViewAgentList
}

func (a *App) handleBuilderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	aff := a.session.Affordance()

	if a.saving {
		return a, nil
	}
	if key == "esc" {
		a.leaveBuilder()
		return a, a.loadAgents
	}
	if aff.Busy {
		return a, nil
	}

	if len(a.linked) > 0 {
		switch key {
		case "y":
			a.linked = nil
			return a.submit(builder.SelectSources{IDs: a.selector.pickedIDs(), Reassign: true})
		case "n":
			a.linked = nil
		}
		return a, nil
	}

	switch key {
	case "pgup", "pgdown":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	case "ctrl+p":
		if a.session.Step() == builder.StepDone {
			a.saving = true
			return a, a.publish()
		}
		return a, nil
	case "ctrl+o":
		if a.session.Step() == builder.StepDone {
			a.startChat(a.studio.PreviewConfig(a.session.Config()), ViewBuilder)
		}
		return a, nil
	case "ctrl+s":
		switch {
		case aff.Widget == builder.WidgetGuardrailInput:
			return a.submit(builder.SkipGuardrails{})
		case aff.Widget == builder.WidgetSourceSelector && aff.CanSkip:
			return a.submit(builder.SkipSources{})
		}
		return a, nil
	}

	switch aff.Widget {
	case builder.WidgetTypeSelector:
		switch key {
		case "up", "k", "left":
			a.selector.move(-1)
		case "down", "j", "right":
			a.selector.move(1)
		case "enter":
			return a.submit(builder.ChooseType{Type: models.AgentTypes[a.selector.cursor]})
		}
		return a, nil

	case builder.WidgetConfirmType:
		switch key {
		case "up", "k", "down", "j":
			a.selector.move(1)
		case "y":
			return a.submit(builder.ConfirmType{})
		case "n":
			return a.submit(builder.AdjustType{})
		case "enter":
			if a.selector.cursor == 0 {
				return a.submit(builder.ConfirmType{})
			}
			return a.submit(builder.AdjustType{})
		}
		return a, nil

	case builder.WidgetSourceSelector:
		switch key {
		case "up", "k":
			a.selector.move(-1)
		case "down", "j":
			a.selector.move(1)
		case " ":
			a.selector.toggle()
		case "enter":
			return a.submit(builder.SelectSources{IDs: a.selector.pickedIDs()})
		}
		return a, nil

	case builder.WidgetPhrasePicker:
		switch key {
		case "up":
			a.selector.move(-1)
			return a, nil
		case "down":
			a.selector.move(1)
			return a, nil
		case "tab":
			a.selector.toggle()
			return a, nil
		case "enter":
			if text := strings.TrimSpace(a.input.Value()); text != "" {
				return a.submit(builder.Text{Value: text})
			}
			return a.submit(builder.AcceptPhrases{Selected: a.selector.pickedIDs()})
		}
	}

	if key == "enter" {
		text := a.input.Value()
		if aff.Widget == builder.WidgetBeginButton && strings.TrimSpace(text) == "" {
			return a.submit(builder.Begin{})
		}
		return a.submit(builder.Text{Value: text})
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit echoes the input now and schedules the reply after the pacing delay.
func (a *App) submit(in builder.Input) (tea.Model, tea.Cmd) {
	err := a.session.Accept(in)

	var linkErr *builder.LinkedWorkflowError
	switch {
	case errors.As(err, &linkErr):
		a.linked = linkErr.Workflows
		a.err = nil
		return a, nil
	case err != nil:
		a.err = err
		return a, nil
	}

	a.err = nil
	a.input.Reset()
	a.refreshViewport()
	return a, tick(a.session.NextDelay(), replyDueMsg{})
}

func (a *App) advanceBuilder() (tea.Model, tea.Cmd) {
	if a.session == nil {
		return a, nil
	}
	if err := a.session.Advance(); err != nil {
		a.err = err
		return a, nil
	}
	a.resetSelector()
	a.refreshViewport()
	return a, nil
}

// publish runs off the event loop, so it saves a copy of the agent being
// edited. Keys are ignored until agentSavedMsg arrives.
func (a *App) publish() tea.Cmd {
	session := a.session
	var draft *models.PublishedAgent
	if a.editing != nil {
		d := *a.editing
		d.Config = a.editing.Config.Clone()
		d.Transcript = append([]models.Message(nil), a.editing.Transcript...)
		draft = &d
	}
	return func() tea.Msg {
		ctx := context.Background()
		if draft != nil {
			err := a.studio.Save(ctx, draft, session)
			return agentSavedMsg{agent: draft, err: err}
		}
		agent, err := a.studio.Publish(ctx, session)
		return agentSavedMsg{agent: agent, err: err}
	}
}

func (a *App) viewBuilder() string {
	title := "New agent"
	if a.editing != nil {
		title = "Editing " + a.editing.Config.Name
	}
	step := a.session.Step()
	s := titleStyle.Render(title) + "  " + dimStyle.Render(step.String()) + "\n\n"
	s += a.viewport.View() + "\n\n"

	aff := a.session.Affordance()
	switch {
	case a.saving:
		s += dimStyle.Render("saving...") + "\n"
	case aff.Busy:
		s += dimStyle.Render("typing...") + "\n"
	case len(a.linked) > 0:
		s += a.viewLinkedConfirm()
	default:
		s += a.viewWidget(aff)
	}

	s += "\n" + a.statusLine()
	s += helpStyle.Render(builderHelp(aff, step))
	return s
}

func (a *App) viewLinkedConfirm() string {
	var names []string
	for _, wf := range a.linked {
		names = append(names, fmt.Sprintf("%s (linked to %s)", wf.Name, wf.LinkedAgent))
	}
	return warnStyle.Render("Already linked: "+strings.Join(names, ", ")) + "\n" +
		"Reassign to this agent? [y/n]\n"
}

func (a *App) viewWidget(aff builder.Affordance) string {
	switch aff.Widget {
	case builder.WidgetTypeSelector, builder.WidgetConfirmType:
		return a.viewOptions(false)
	case builder.WidgetSourceSelector:
		s := a.viewOptions(true)
		if aff.SelectionRequired {
			s += dimStyle.Render("Select at least one.") + "\n"
		}
		return s
	case builder.WidgetPhrasePicker:
		return a.viewOptions(true) + "\n" + a.inputView(aff)
	default:
		return a.inputView(aff)
	}
}

func (a *App) inputView(aff builder.Affordance) string {
	a.input.Placeholder = aff.Placeholder
	return a.input.View() + "\n"
}

func (a *App) viewOptions(checkboxes bool) string {
	var b strings.Builder
	for i, o := range a.selector.options {
		mark := ""
		if checkboxes {
			mark = "[ ] "
			if a.selector.picked[o.id] {
				mark = "[x] "
			}
		}
		line := mark + o.label
		if o.detail != "" {
			line += "  " + dimStyle.Render(truncate(o.detail, 50))
		}
		if i == a.selector.cursor {
			line = selectedStyle.Render("▶ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func builderHelp(aff builder.Affordance, step builder.Step) string {
	switch aff.Widget {
	case builder.WidgetBeginButton:
		return "[enter] get started  [esc] cancel"
	case builder.WidgetTypeSelector:
		return "[↑/↓] choose  [enter] select  [esc] cancel"
	case builder.WidgetConfirmType:
		return "[y] looks good  [n] different type  [esc] cancel"
	case builder.WidgetPhrasePicker:
		return "[↑/↓] move  [tab] toggle  [enter] use selected or typed starters  [esc] cancel"
	case builder.WidgetGuardrailInput:
		return "[enter] submit  [ctrl+s] skip  [esc] cancel"
	case builder.WidgetSourceSelector:
		if aff.CanSkip {
			return "[↑/↓] move  [space] toggle  [enter] confirm  [ctrl+s] skip  [esc] cancel"
		}
		return "[↑/↓] move  [space] toggle  [enter] confirm  [esc] cancel"
	}
	if step == builder.StepDone {
		return "[enter] apply change  [ctrl+p] publish  [ctrl+o] preview  [pgup/pgdown] scroll  [esc] discard"
	}
	return "[enter] send  [esc] cancel"
}
