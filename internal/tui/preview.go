package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mpataki/agentbuilder/internal/preview"
)

func (a *App) startChat(chat *preview.Chat, from View) {
	a.chat = chat
	a.chatReturn = from
	a.err = nil
	a.view = ViewPreview
	a.input.Reset()
	a.input.Placeholder = "Message the agent..."
	a.input.Focus()
	a.refreshViewport()
}

// Leaving the preview discards the chat.
func (a *App) leaveChat() {
	a.chat = nil
	a.view = a.chatReturn
	a.input.Reset()
	if a.view == ViewBuilder && a.session != nil {
		a.refreshViewport()
		return
	}
	a.input.Blur()
}

func (a *App) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.leaveChat()
		return a, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	case "enter":
		if err := a.chat.Accept(a.input.Value()); err != nil {
			a.err = err
			return a, nil
		}
		a.err = nil
		a.input.Reset()
		a.refreshViewport()
		return a, tick(a.chat.NextDelay(), chatReplyDueMsg{})
	}

	if a.chat.Busy() {
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) viewPreview() string {
	cfg := a.chat.Config()
	s := titleStyle.Render("Preview: "+cfg.Name) + "  " + formatType(cfg.Type) + "\n\n"
	s += a.viewport.View() + "\n\n"

	if a.chat.Busy() {
		s += dimStyle.Render(cfg.Name+" is typing...") + "\n"
	} else {
		s += a.input.View() + "\n"
	}

	s += "\n" + a.statusLine()
	s += helpStyle.Render("[enter] send  [pgup/pgdown] scroll  [esc] back")
	return s
}
