// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal user interface for VaultPass.
// This file defines the shared lipgloss styles used across the different
// screens to ensure a consistent look and feel.
package tui // import "github.com/toeirei/vaultpass/internal/tui"

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/vaultpass/internal/notify"
)

// colorPalette defines the core colors used in the TUI.
const (
	colorSubtle    = lipgloss.Color("240") // Muted gray
	colorHighlight = lipgloss.Color("81")  // Teal/cyan
	colorSpecial   = lipgloss.Color("208") // Orange for warnings
	colorError     = lipgloss.Color("196") // Bright red
	colorSuccess   = lipgloss.Color("40")  // Green
	colorWhite     = lipgloss.Color("231")
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	helpStyle = lipgloss.NewStyle().Foreground(colorSubtle)

	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	specialStyle = lipgloss.NewStyle().Foreground(colorSpecial)
	infoStyle    = lipgloss.NewStyle().Foreground(colorHighlight)

	mainTitleStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true).
			Padding(1, 3)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true).
			Padding(0, 0, 1, 0)

	// Lists
	itemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	selectedItemStyle = lipgloss.NewStyle().Foreground(colorHighlight).Bold(true)
	detailLabelStyle  = lipgloss.NewStyle().Foreground(colorSubtle).Width(10)
	detailStyle       = lipgloss.NewStyle().PaddingLeft(4)

	// Form elements
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	formItemStyle = lipgloss.NewStyle()
	formSelected  = lipgloss.NewStyle().Foreground(colorHighlight)

	// Modal dialogs
	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorHighlight).
			Padding(1, 2).
			Width(60)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.Color("237")). // Dark gray
			Padding(0, 3).
			MarginTop(1)

	activeButtonStyle = buttonStyle.
				Background(colorHighlight).
				Foreground(colorWhite).
				Underline(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Italic(true)

	toastStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder())
)

// toastStyleFor colors a notification by severity.
func toastStyleFor(s notify.Severity) lipgloss.Style {
	switch s {
	case notify.Success:
		return toastStyle.BorderForeground(colorSuccess).Inherit(successStyle)
	case notify.Warning:
		return toastStyle.BorderForeground(colorSpecial).Inherit(specialStyle)
	case notify.Danger:
		return toastStyle.BorderForeground(colorError).Inherit(errorStyle)
	default:
		return toastStyle.BorderForeground(colorHighlight).Inherit(infoStyle)
	}
}
