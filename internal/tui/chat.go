package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"omnidesk/internal/workflow"
)

func (a *App) handleChatKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.String() == "enter" {
		text := a.chatIn.Value()
		if strings.TrimSpace(text) == "" {
			return a, nil
		}
		a.chatIn.Reset()
		return a, tea.Batch(a.spinner.Tick, a.sendChatCmd(text))
	}

	var cmd tea.Cmd
	a.chatIn, cmd = a.chatIn.Update(m)
	return a, cmd
}

func (a *App) sendChatCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return chatDoneMsg{err: a.controllers.Chat.Send(a.ctx, text)}
	}
}

// refreshChatView rebuilds the transcript from the controller snapshot.
func (a *App) refreshChatView() {
	snap := a.controllers.Chat.Snapshot()
	if len(snap.Messages) == 0 {
		a.chatView.SetContent(hintStyle.Render("Start a conversation with your assistant."))
		return
	}

	var b strings.Builder
	for _, msg := range snap.Messages {
		stamp := timeStyle.Render(msg.Timestamp.Format("15:04:05"))
		if msg.Sender == workflow.SenderUser {
			b.WriteString(userMsgStyle.Render("You ") + stamp + "\n")
			b.WriteString(msg.Text + "\n\n")
			continue
		}
		b.WriteString(asstMsgStyle.Render("Assistant ") + stamp + "\n")
		b.WriteString(a.renderMarkdown(msg.Text))
		b.WriteString("\n")
	}
	a.chatView.SetContent(b.String())
}

func (a *App) renderMarkdown(text string) string {
	if a.renderer == nil {
		return text + "\n"
	}
	out, err := a.renderer.Render(text)
	if err != nil {
		return text + "\n"
	}
	return strings.TrimRight(out, "\n") + "\n"
}

func (a *App) viewChat() string {
	snap := a.controllers.Chat.Snapshot()

	var b strings.Builder
	b.WriteString(a.chatView.View())
	b.WriteString("\n")
	if snap.Sending {
		b.WriteString(statusStyle.Render(fmt.Sprintf("%s thinking...", a.spinner.View())))
		b.WriteString("\n")
	}
	if snap.Err != "" {
		b.WriteString(errorStyle.Render("error: " + snap.Err))
		b.WriteString("\n")
	}
	b.WriteString(a.chatIn.View())
	return b.String()
}
