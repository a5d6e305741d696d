package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/noema/dashboard/internal/domain"
)

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg is sent to a screen when it becomes active again
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// ShowNotificationMsg raises a toast
type ShowNotificationMsg struct {
	Notification domain.Notification
}

// dismissNotificationMsg hides the toast with the matching sequence number
type dismissNotificationMsg struct {
	seq int
}

// reportError surfaces err below the active screen; nil clears it
func reportError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

func notify(n domain.Notification) tea.Cmd {
	return func() tea.Msg {
		return ShowNotificationMsg{Notification: n}
	}
}
