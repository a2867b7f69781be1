package tui

import (
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e2e8f0")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fbbf24"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80"))

	selectedRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f172a")).Background(lipgloss.Color("#4ade80"))
	headerRowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8")).Bold(true).Underline(true)

	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80")).Bold(true).Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(1, 2)
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 200

// editRune processes a keystroke for inline text editing. Handles
// backspace and single printable characters, returning the text unchanged
// for non-printable keys.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "approved":
		return okStyle
	case "rejected", "cancelled":
		return errorStyle
	default:
		return warnStyle
	}
}
