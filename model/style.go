package model

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	chipStyle       = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252"))
	activeChipStyle = chipStyle.Background(lipgloss.Color("12")).Foreground(lipgloss.Color("0")).Bold(true)
	labelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	fieldStyle      = lipgloss.NewStyle().Bold(true)
	confirmStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("11")).Padding(1, 2)
)
