package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"omnidesk/internal/workflow"
)

// draftTimeLayout is how start/end are typed in the form.
const draftTimeLayout = "2006-01-02 15:04"

func (a *App) handleCalendarKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "tab", "down", "enter":
		return a, a.focusCalField((a.calFocus + 1) % len(a.calInputs))
	case "up":
		return a, a.focusCalField((a.calFocus + len(a.calInputs) - 1) % len(a.calInputs))
	case "ctrl+s":
		a.syncDraft()
		return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
			return submitDoneMsg{err: a.controllers.Calendar.Submit(a.ctx)}
		})
	}

	var cmd tea.Cmd
	a.calInputs[a.calFocus], cmd = a.calInputs[a.calFocus].Update(m)
	return a, cmd
}

func (a *App) focusCalField(i int) tea.Cmd {
	a.calInputs[a.calFocus].Blur()
	a.calFocus = i
	return a.calInputs[i].Focus()
}

// syncDraft pushes the form fields into the controller. Unparseable times
// become zero instants, which the controller rejects as missing fields.
func (a *App) syncDraft() {
	parse := func(v string) time.Time {
		t, err := time.ParseInLocation(draftTimeLayout, strings.TrimSpace(v), time.Local)
		if err != nil {
			return time.Time{}
		}
		return t
	}
	a.controllers.Calendar.SetDraft(workflow.EventDraft{
		Title:       a.calInputs[0].Value(),
		Description: a.calInputs[1].Value(),
		Start:       parse(a.calInputs[2].Value()),
		End:         parse(a.calInputs[3].Value()),
	})
}

func (a *App) viewCalendar() string {
	snap := a.controllers.Calendar.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Calendar Event"))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("Create a new event in your calendar."))
	b.WriteString("\n\n")

	labels := [4]string{"Title *", "Description", "Start *", "End *"}
	for i, in := range a.calInputs {
		b.WriteString(labelStyle.Render(labels[i]) + "\n")
		b.WriteString(in.View() + "\n")
	}

	if snap.Submitting {
		b.WriteString(statusStyle.Render(fmt.Sprintf("%s creating event...", a.spinner.View())) + "\n")
	}
	if snap.Confirmation != "" {
		b.WriteString("\n" + successStyle.Render(snap.Confirmation) + "\n")
		if snap.EventLink != "" {
			b.WriteString(labelStyle.Render("Event link: ") + snap.EventLink + "\n")
		}
	}
	if snap.Err != "" {
		b.WriteString(errorStyle.Render("error: " + snap.Err) + "\n")
	}
	return b.String()
}
