package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"omnidesk/internal/workflow"
)

func (a *App) handleDataKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "enter":
		if a.dataQuery.Focused() {
			question := a.dataQuery.Value()
			if strings.TrimSpace(question) == "" {
				return a, nil
			}
			return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
				return queryDoneMsg{err: a.controllers.Data.Query(a.ctx, question)}
			})
		}
		a.selectFile(tabData, a.dataPath.Value())
		return a, nil
	case "ctrl+u":
		return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
			return uploadDoneMsg{tab: tabData, err: a.controllers.Data.Upload(a.ctx)}
		})
	}

	var cmd tea.Cmd
	if a.dataQuery.Focused() {
		a.dataQuery, cmd = a.dataQuery.Update(m)
	} else {
		a.dataPath, cmd = a.dataPath.Update(m)
	}
	return a, cmd
}

func (a *App) viewData() string {
	snap := a.controllers.Data.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Data Analyzer"))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("Upload a CSV file, then ask questions about your data."))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("1. CSV file") + "\n")
	b.WriteString(a.dataPath.View() + "\n\n")
	b.WriteString(a.gatePanel(snap.State, snap.File))

	if snap.State == workflow.StateUploading {
		b.WriteString(statusStyle.Render(fmt.Sprintf("%s uploading...", a.spinner.View())) + "\n")
	}
	if snap.Message != "" {
		b.WriteString(successStyle.Render(snap.Message) + "\n")
	}

	b.WriteString("\n" + labelStyle.Render("2. Analyze your data") + "\n")
	if snap.State != workflow.StateReady {
		b.WriteString(hintStyle.Render("(upload a CSV file first)") + "\n")
	} else {
		b.WriteString(a.dataQuery.View() + "\n")
	}
	if snap.Querying {
		b.WriteString(statusStyle.Render(fmt.Sprintf("%s analyzing...", a.spinner.View())) + "\n")
	}
	if snap.Answer != "" {
		b.WriteString("\n" + labelStyle.Render("Result") + "\n")
		b.WriteString(panelStyle.Render(snap.Answer) + "\n")
	}
	a.writeErrors(&b, tabData, snap.Err)
	return b.String()
}
