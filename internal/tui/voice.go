package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"omnidesk/internal/workflow"
)

func (a *App) handleVoiceKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "enter":
		a.selectFile(tabVoice, a.voicePath.Value())
		return a, nil
	case "ctrl+u":
		return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
			return uploadDoneMsg{tab: tabVoice, err: a.controllers.Voice.Upload(a.ctx)}
		})
	}

	var cmd tea.Cmd
	a.voicePath, cmd = a.voicePath.Update(m)
	return a, cmd
}

func (a *App) viewVoice() string {
	snap := a.controllers.Voice.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Voice Assistant"))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("Upload a recording to get a summary and a spoken reply."))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Audio file") + "\n")
	b.WriteString(a.voicePath.View() + "\n\n")
	b.WriteString(a.gatePanel(snap.State, snap.File))

	if snap.State == workflow.StateUploading {
		b.WriteString(statusStyle.Render(fmt.Sprintf("%s transcribing...", a.spinner.View())) + "\n")
	}
	if snap.Summary != "" {
		b.WriteString("\n" + labelStyle.Render("Summary") + "\n")
		b.WriteString(panelStyle.Render(snap.Summary) + "\n")
		if snap.AudioURL != "" {
			b.WriteString(labelStyle.Render("Response audio: ") + snap.AudioURL + "\n")
		}
	}
	a.writeErrors(&b, tabVoice, snap.Err)
	return b.String()
}
