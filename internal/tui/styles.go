package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("241"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("62"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	userMsgStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	asstMsgStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	timeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236")).Padding(0, 1)
)
