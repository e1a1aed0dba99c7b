package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/mpataki/agentbuilder/internal/builder"
	"github.com/mpataki/agentbuilder/internal/models"
	"github.com/mpataki/agentbuilder/internal/preview"
	"github.com/mpataki/agentbuilder/internal/studio"
)

type View int

const (
	ViewAgentList View = iota
	ViewAgentDetail
	ViewBuilder
	ViewPreview
)

const listLimit = 50

type App struct {
	studio *studio.Service
	log    *zap.Logger

	view        View
	agents      []*models.PublishedAgent
	selectedIdx int
	selected    *models.PublishedAgent

	// builder session; editing is set when a published agent was resumed
	session  *builder.Controller
	editing  *models.PublishedAgent
	selector selector
	linked   []models.Workflow
	saving   bool

	// preview chat and the view to return to
	chat       *preview.Chat
	chatReturn View

	input    textinput.Model
	viewport viewport.Model
	md       markdown

	width  int
	height int
	status string
	err    error
}

func NewApp(svc *studio.Service, log *zap.Logger) *App {
	in := textinput.New()
	in.CharLimit = 500
	in.Prompt = "› "

	return &App{
		studio:   svc,
		log:      log,
		view:     ViewAgentList,
		input:    in,
		viewport: viewport.New(80, 20),
	}
}

func (a *App) Init() tea.Cmd {
	return a.loadAgents
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = max(msg.Height-12, 5)
		a.input.Width = max(msg.Width-4, 10)
		a.md.resize(max(msg.Width-4, 20))
		a.refreshViewport()
		return a, nil

	case agentsLoadedMsg:
		a.agents = msg.agents
		a.err = msg.err
		if a.selectedIdx >= len(a.agents) {
			a.selectedIdx = max(len(a.agents)-1, 0)
		}
		return a, nil

	case replyDueMsg:
		return a.advanceBuilder()

	case chatReplyDueMsg:
		if a.chat != nil {
			a.err = a.chat.Advance(context.Background())
			a.refreshViewport()
		}
		return a, nil

	case agentSavedMsg:
		a.saving = false
		a.err = msg.err
		if msg.err != nil {
			a.log.Warn("save failed", zap.Error(msg.err))
			return a, nil
		}
		a.status = okStyle.Render(fmt.Sprintf("Saved %s", msg.agent.Config.Name))
		a.session, a.editing = nil, nil
		a.selected = msg.agent
		a.view = ViewAgentDetail
		return a, a.loadAgents

	case agentDeletedMsg:
		a.err = msg.err
		if msg.err == nil {
			a.status = "Deleted agent"
		}
		return a, a.loadAgents

	case agentExportedMsg:
		a.err = msg.err
		if msg.err == nil {
			a.status = okStyle.Render("Exported to " + msg.dir)
		}
		return a, nil

	case sessionResumedMsg:
		a.err = msg.err
		if msg.err == nil {
			a.startSession(msg.session, msg.agent)
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.view {
	case ViewAgentList:
		return a.handleListKey(msg)
	case ViewAgentDetail:
		return a.handleDetailKey(msg)
	case ViewBuilder:
		return a.handleBuilderKey(msg)
	case ViewPreview:
		return a.handlePreviewKey(msg)
	}
	return a, nil
}

func (a *App) current() *models.PublishedAgent {
	if len(a.agents) == 0 || a.selectedIdx >= len(a.agents) {
		return nil
	}
	return a.agents[a.selectedIdx]
}

func (a *App) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.status = ""

	switch msg.String() {
	case "q":
		return a, tea.Quit

	case "up", "k":
		if a.selectedIdx > 0 {
			a.selectedIdx--
		}

	case "down", "j":
		if a.selectedIdx < len(a.agents)-1 {
			a.selectedIdx++
		}

	case "enter":
		if agent := a.current(); agent != nil {
			a.selected = agent
			a.view = ViewAgentDetail
		}

	case "n":
		a.startSession(a.studio.NewSession(), nil)

	case "e":
		if agent := a.current(); agent != nil {
			return a, a.resumeAgent(agent.ID)
		}

	case "p":
		if agent := a.current(); agent != nil {
			a.startChat(a.studio.PreviewConfig(agent.Config), ViewAgentList)
		}

	case "x":
		if agent := a.current(); agent != nil {
			return a, a.exportAgent(agent.ID)
		}

	case "d":
		if agent := a.current(); agent != nil {
			return a, a.deleteAgent(agent.ID)
		}

	case "r":
		return a, a.loadAgents
	}

	return a, nil
}

func (a *App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		a.view = ViewAgentList
		a.selected = nil
		a.status = ""

	case "e":
		return a, a.resumeAgent(a.selected.ID)

	case "p":
		a.startChat(a.studio.PreviewConfig(a.selected.Config), ViewAgentDetail)

	case "x":
		return a, a.exportAgent(a.selected.ID)
	}

	return a, nil
}

func (a *App) View() string {
	var s string
	switch a.view {
	case ViewAgentList:
		s = a.viewAgentList()
	case ViewAgentDetail:
		s = a.viewAgentDetail()
	case ViewBuilder:
		s = a.viewBuilder()
	case ViewPreview:
		s = a.viewPreview()
	}
	return s
}

func (a *App) statusLine() string {
	switch {
	case a.err != nil:
		return errorStyle.Render("Error: "+a.err.Error()) + "\n"
	case a.status != "":
		return a.status + "\n"
	}
	return ""
}

func (a *App) viewAgentList() string {
	s := titleStyle.Render("Agent Builder") + "\n\n"
	s += a.statusLine()

	if len(a.agents) == 0 {
		s += "No agents yet. Press 'n' to build one.\n"
	} else {
		s += "Agents\n"
		s += "──────\n"

		for i, agent := range a.agents {
			line := formatAgentLine(agent)
			if i == a.selectedIdx {
				line = selectedStyle.Render("▶ " + line)
			} else {
				line = "  " + line
			}
			s += line + "\n"
		}
	}

	s += "\n" + helpStyle.Render("[n] new  [enter] view  [e] edit  [p] preview  [x] export  [d] delete  [r] refresh  [q] quit")
	return s
}

func formatAgentLine(agent *models.PublishedAgent) string {
	cfg := agent.Config
	return fmt.Sprintf("%-8s %-24s %-9s %-5s %s",
		agent.ID[:min(8, len(agent.ID))],
		truncate(cfg.Name, 24),
		formatType(cfg.Type),
		formatAge(agent.UpdatedAt),
		dimStyle.Render(truncate(cfg.Description, 40)))
}

func (a *App) viewAgentDetail() string {
	agent := a.selected
	if agent == nil {
		return "No agent selected"
	}
	cfg := agent.Config

	s := titleStyle.Render(cfg.Name) + "  " + formatType(cfg.Type) + "\n\n"
	s += a.statusLine()
	if cfg.Description != "" {
		s += cfg.Description + "\n\n"
	}

	field := func(label, value string) {
		s += labelStyle.Render(fmt.Sprintf("%-12s", label)) + value + "\n"
	}
	field("ID", agent.ID)
	field("Role", cfg.Role)
	field("Knowledge", listOrDash(cfg.KnowledgeSources))
	field("Workflows", listOrDash(cfg.Workflows))
	field("Guardrails", listOrDash(cfg.Guardrails))
	field("Capabilities", capabilities(cfg))
	field("Updated", agent.UpdatedAt.Local().Format(time.DateTime))

	if len(cfg.ConversationStarters) > 0 {
		s += "\nConversation starters\n"
		for _, st := range cfg.ConversationStarters {
			s += "  • " + st + "\n"
		}
	}
	if cfg.Instructions != "" {
		s += "\n" + a.md.render("## Instructions\n\n"+cfg.Instructions) + "\n"
	}

	s += "\n" + helpStyle.Render("[e] edit  [p] preview  [x] export  [esc] back")
	return s
}

func listOrDash(items []string) string {
	if len(items) == 0 {
		return dimStyle.Render("-")
	}
	return strings.Join(items, ", ")
}

func capabilities(cfg *models.AgentConfig) string {
	var caps []string
	if cfg.WebSearch {
		caps = append(caps, "web search")
	}
	if cfg.ImageGeneration {
		caps = append(caps, "image generation")
	}
	if cfg.UseAllWorkspaceContent {
		caps = append(caps, "workspace content")
	}
	return listOrDash(caps)
}

func (a *App) refreshViewport() {
	switch {
	case a.view == ViewBuilder && a.session != nil:
		a.viewport.SetContent(a.md.transcript(a.session.Messages()))
	case a.view == ViewPreview && a.chat != nil:
		a.viewport.SetContent(a.md.transcript(a.chat.Messages()))
	default:
		return
	}
	a.viewport.GotoBottom()
}

// Messages

type agentsLoadedMsg struct {
	agents []*models.PublishedAgent
	err    error
}

type replyDueMsg struct{}

type chatReplyDueMsg struct{}

type agentSavedMsg struct {
	agent *models.PublishedAgent
	err   error
}

type agentDeletedMsg struct {
	err error
}

type agentExportedMsg struct {
	dir string
	err error
}

type sessionResumedMsg struct {
	session *builder.Controller
	agent   *models.PublishedAgent
	err     error
}

// Commands

func (a *App) loadAgents() tea.Msg {
	agents, err := a.studio.List(context.Background(), listLimit)
	return agentsLoadedMsg{agents: agents, err: err}
}

func (a *App) resumeAgent(id string) tea.Cmd {
	return func() tea.Msg {
		c, agent, err := a.studio.Resume(context.Background(), id)
		return sessionResumedMsg{session: c, agent: agent, err: err}
	}
}

func (a *App) deleteAgent(id string) tea.Cmd {
	return func() tea.Msg {
		return agentDeletedMsg{err: a.studio.Delete(context.Background(), id)}
	}
}

func (a *App) exportAgent(id string) tea.Cmd {
	return func() tea.Msg {
		b, err := a.studio.Export(context.Background(), id, "")
		if err != nil {
			return agentExportedMsg{err: err}
		}
		return agentExportedMsg{dir: b.Dir}
	}
}

// tick waits out the reply pacing before msg is delivered.
func tick(d time.Duration, msg tea.Msg) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}
