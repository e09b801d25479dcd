package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"omnidesk/internal/config"
	"omnidesk/internal/workflow"
)

// Controllers groups the five workflow controllers the UI renders.
type Controllers struct {
	Chat     *workflow.ChatController
	Document *workflow.DocumentController
	Voice    *workflow.AudioController
	Data     *workflow.TabularController
	Calendar *workflow.CalendarController
}

type tabID int

const (
	tabChat tabID = iota
	tabDocs
	tabVoice
	tabData
	tabCalendar
	tabCount
)

var tabNames = [tabCount]string{"Chat", "Docs", "Voice", "Data", "Calendar"}

// App renders the controller snapshots and forwards user actions. Every
// invariant lives in the controllers; the UI never guards state itself.
type App struct {
	ctx         context.Context
	cfg         config.Config
	controllers Controllers

	tab    tabID
	width  int
	height int

	spinner  spinner.Model
	chatView viewport.Model
	chatIn   textarea.Model
	renderer *glamour.TermRenderer

	docPath   textinput.Model
	voicePath textinput.Model
	dataPath  textinput.Model
	dataQuery textinput.Model

	calInputs [4]textinput.Model // title, description, start, end
	calFocus  int

	// localErr holds per-tab presentation errors (unreadable path etc.)
	// that never reach a controller.
	localErr [tabCount]string
}

// Controller call results. The controllers own all the state; these messages
// only tell the UI to re-read snapshots.
type chatDoneMsg struct{ err error }
type uploadDoneMsg struct {
	tab tabID
	err error
}
type queryDoneMsg struct{ err error }
type submitDoneMsg struct{ err error }

func New(ctx context.Context, cfg config.Config, controllers Controllers) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Points

	chatIn := textarea.New()
	chatIn.Placeholder = "Type your message..."
	chatIn.SetHeight(2)
	chatIn.CharLimit = 2000
	chatIn.Focus()

	vp := viewport.New(60, 20)
	vp.SetContent(hintStyle.Render("Start a conversation with your assistant."))

	newInput := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 512
		return ti
	}

	a := &App{
		ctx:         ctx,
		cfg:         cfg,
		controllers: controllers,
		spinner:     sp,
		chatView:    vp,
		chatIn:      chatIn,
		docPath:     newInput("path to a PDF file"),
		voicePath:   newInput("path to an audio file"),
		dataPath:    newInput("path to a CSV file"),
		dataQuery:   newInput("ask a question about your data"),
	}

	placeholders := [4]string{"event title", "description (optional)", "start (2006-01-02 15:04)", "end (2006-01-02 15:04)"}
	for i := range a.calInputs {
		a.calInputs[i] = newInput(placeholders[i])
	}

	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(cfg.UI.GlamourStyle),
		glamour.WithWordWrap(76),
	); err == nil {
		a.renderer = r
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return textarea.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.height = m.Height
		a.chatView.Width = m.Width - 4
		a.chatView.Height = m.Height - 10
		a.chatIn.SetWidth(m.Width - 6)
		if r, err := glamour.NewTermRenderer(
			glamour.WithStylePath(a.cfg.UI.GlamourStyle),
			glamour.WithWordWrap(min(m.Width-8, 100)),
		); err == nil {
			a.renderer = r
		}
		a.refreshChatView()
		return a, nil

	case tea.KeyMsg:
		switch m.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "tab":
			if a.tab != tabCalendar {
				a.tab = (a.tab + 1) % tabCount
				return a, a.focusTab()
			}
		case "shift+tab":
			a.tab = (a.tab + tabCount - 1) % tabCount
			return a, a.focusTab()
		}
		return a.handleTabKey(m)

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		if a.controllers.Chat.Snapshot().Sending {
			// pick up the optimistic user message while the call runs
			a.refreshChatView()
			a.chatView.GotoBottom()
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd

	case chatDoneMsg:
		a.refreshChatView()
		a.chatView.GotoBottom()
		return a, nil

	case uploadDoneMsg:
		if m.tab == tabData && m.err == nil {
			a.dataPath.Blur()
			return a, a.dataQuery.Focus()
		}
		return a, nil

	case queryDoneMsg:
		return a, nil

	case submitDoneMsg:
		if m.err == nil {
			// draft was reset by the controller; mirror that in the inputs
			for i := range a.calInputs {
				a.calInputs[i].SetValue("")
			}
		}
		return a, nil
	}

	return a.updateFocused(msg)
}

// handleTabKey routes a key press to the active tab.
func (a *App) handleTabKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.tab {
	case tabChat:
		return a.handleChatKey(m)
	case tabDocs:
		return a.handleDocsKey(m)
	case tabVoice:
		return a.handleVoiceKey(m)
	case tabData:
		return a.handleDataKey(m)
	case tabCalendar:
		return a.handleCalendarKey(m)
	}
	return a, nil
}

// updateFocused forwards non-key messages (blink ticks) to the focused input.
func (a *App) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.tab {
	case tabChat:
		a.chatIn, cmd = a.chatIn.Update(msg)
	case tabDocs:
		a.docPath, cmd = a.docPath.Update(msg)
	case tabVoice:
		a.voicePath, cmd = a.voicePath.Update(msg)
	case tabData:
		if a.dataQuery.Focused() {
			a.dataQuery, cmd = a.dataQuery.Update(msg)
		} else {
			a.dataPath, cmd = a.dataPath.Update(msg)
		}
	case tabCalendar:
		a.calInputs[a.calFocus], cmd = a.calInputs[a.calFocus].Update(msg)
	}
	return a, cmd
}

// focusTab moves keyboard focus to the active tab's primary input.
func (a *App) focusTab() tea.Cmd {
	a.chatIn.Blur()
	a.docPath.Blur()
	a.voicePath.Blur()
	a.dataPath.Blur()
	a.dataQuery.Blur()
	for i := range a.calInputs {
		a.calInputs[i].Blur()
	}

	switch a.tab {
	case tabChat:
		return a.chatIn.Focus()
	case tabDocs:
		return a.docPath.Focus()
	case tabVoice:
		return a.voicePath.Focus()
	case tabData:
		if a.controllers.Data.Snapshot().State == workflow.StateReady {
			return a.dataQuery.Focus()
		}
		return a.dataPath.Focus()
	case tabCalendar:
		return a.calInputs[a.calFocus].Focus()
	}
	return nil
}

// busy reports whether any workflow has a call in flight.
func (a *App) busy() bool {
	return a.controllers.Chat.Snapshot().Sending ||
		a.controllers.Document.Snapshot().State == workflow.StateUploading ||
		a.controllers.Voice.Snapshot().State == workflow.StateUploading ||
		a.controllers.Data.Snapshot().State == workflow.StateUploading ||
		a.controllers.Data.Snapshot().Querying ||
		a.controllers.Calendar.Snapshot().Submitting
}

func (a *App) View() string {
	var b strings.Builder

	tabs := make([]string, 0, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		style := tabStyle
		if i == a.tab {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(tabNames[i]))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	switch a.tab {
	case tabChat:
		b.WriteString(a.viewChat())
	case tabDocs:
		b.WriteString(a.viewDocs())
	case tabVoice:
		b.WriteString(a.viewVoice())
	case tabData:
		b.WriteString(a.viewData())
	case tabCalendar:
		b.WriteString(a.viewCalendar())
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render(a.footerHint()))
	return b.String()
}

func (a *App) footerHint() string {
	base := "shift+tab/tab: switch view | ctrl+c: quit"
	switch a.tab {
	case tabChat:
		return "enter: send | " + base
	case tabDocs, tabVoice:
		return "enter: select file | ctrl+u: upload | " + base
	case tabData:
		return "enter: select/ask | ctrl+u: upload | " + base
	case tabCalendar:
		return "tab/down: next field | ctrl+s: create event | " + base
	}
	return base
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
