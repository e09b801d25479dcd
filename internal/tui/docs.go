package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"omnidesk/internal/api"
	"omnidesk/internal/workflow"
)

func (a *App) handleDocsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "enter":
		a.selectFile(tabDocs, a.docPath.Value())
		return a, nil
	case "ctrl+u":
		return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
			return uploadDoneMsg{tab: tabDocs, err: a.controllers.Document.Upload(a.ctx)}
		})
	}

	var cmd tea.Cmd
	a.docPath, cmd = a.docPath.Update(m)
	return a, cmd
}

// selectFile resolves a typed path into a file handle and hands it to the
// tab's controller. Unreadable paths stay a presentation-level error.
func (a *App) selectFile(tab tabID, path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	a.localErr[tab] = ""

	ref, err := api.NewFileRef(path)
	if err != nil {
		a.localErr[tab] = err.Error()
		return
	}

	switch tab {
	case tabDocs:
		_ = a.controllers.Document.Select(ref)
	case tabVoice:
		_ = a.controllers.Voice.Select(ref)
	case tabData:
		_ = a.controllers.Data.Select(ref)
	}
}

func (a *App) viewDocs() string {
	snap := a.controllers.Document.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Document Chat"))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("Upload a PDF, then ask questions about it in the Chat tab."))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("PDF file") + "\n")
	b.WriteString(a.docPath.View() + "\n\n")
	b.WriteString(a.gatePanel(snap.State, snap.File))

	if snap.State == workflow.StateUploading {
		b.WriteString(statusStyle.Render(fmt.Sprintf("%s uploading...", a.spinner.View())) + "\n")
	}
	if snap.Message != "" {
		b.WriteString(successStyle.Render(snap.Message) + "\n")
	}
	if snap.AskViaChat {
		b.WriteString(panelStyle.Render(
			"Next step: switch to the "+titleStyle.Render("Chat")+" tab and ask about your document,\n"+
				"e.g. \"Can you summarize the key points from the document?\"") + "\n")
	}
	a.writeErrors(&b, tabDocs, snap.Err)
	return b.String()
}

// gatePanel renders the selected-file summary shared by the upload tabs.
func (a *App) gatePanel(state workflow.UploadState, file api.FileRef) string {
	if state == workflow.StateEmpty {
		return hintStyle.Render("no file selected") + "\n"
	}
	size := float64(file.Size) / 1024.0
	return fmt.Sprintf("%s %s (%.2f KB) — %s\n",
		labelStyle.Render("Selected:"), file.Name, size, statusStyle.Render(string(state)))
}

func (a *App) writeErrors(b *strings.Builder, tab tabID, gateErr string) {
	if gateErr != "" {
		b.WriteString(errorStyle.Render("error: " + gateErr) + "\n")
	}
	if a.localErr[tab] != "" {
		b.WriteString(errorStyle.Render("error: " + a.localErr[tab]) + "\n")
	}
}
