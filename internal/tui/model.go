package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noema/dashboard/internal/app"
	"github.com/noema/dashboard/internal/domain"
)

// toastDuration is how long a notification stays on screen
const toastDuration = 5 * time.Second

// Screen represents the current active screen
type Screen int

const (
	ScreenHome Screen = iota
	ScreenRequest
	ScreenCalendar
)

// sidebarItems lists the screens in sidebar order
var sidebarItems = []Screen{ScreenHome, ScreenRequest, ScreenCalendar}

// String returns the sidebar label
func (s Screen) String() string {
	switch s {
	case ScreenHome:
		return "Home"
	case ScreenRequest:
		return "Submit Request"
	case ScreenCalendar:
		return "Calendar"
	default:
		return "Unknown"
	}
}

// Title returns the header title for the screen
func (s Screen) Title() string {
	switch s {
	case ScreenHome:
		return "Home"
	case ScreenRequest:
		return "Submit Financing Request"
	default:
		return "Dashboard"
	}
}

func (s Screen) icon() string {
	switch s {
	case ScreenHome:
		return "⌂"
	case ScreenRequest:
		return "+"
	case ScreenCalendar:
		return "▦"
	default:
		return " "
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models (lazy initialized)
	home     tea.Model
	request  tea.Model
	calendar tea.Model

	// Toast state
	toast    *domain.Notification
	toastSeq int

	err error
}

// New creates a new root model
func New(a *app.App) Model {
	return Model{
		app:           a,
		currentScreen: ScreenHome,
		home:          NewHomeModel(a),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.home != nil {
		return m.home.Init()
	}
	return nil
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	switch screen {
	case ScreenHome:
		if m.home == nil {
			m.home = NewHomeModel(m.app)
			return m.home.Init()
		}
	case ScreenRequest:
		if m.request == nil {
			m.request = NewRequestModel(m.app)
			return m.request.Init()
		}
	case ScreenCalendar:
		if m.calendar == nil {
			m.calendar = NewCalendarModel(m.app)
			return m.calendar.Init()
		}
	}
	return func() tea.Msg { return RefreshDataMsg{} }
}

func (m *Model) switchTo(screen Screen) tea.Cmd {
	m.currentScreen = screen
	m.err = nil
	return m.initScreen(screen)
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

func (m *Model) activeScreen() tea.Model {
	switch m.currentScreen {
	case ScreenHome:
		return m.home
	case ScreenRequest:
		return m.request
	case ScreenCalendar:
		return m.calendar
	}
	return nil
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.activeScreen().(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return m, tea.Quit
			case key.Matches(msg, DefaultKeyMap.Home):
				return m, m.switchTo(ScreenHome)
			case key.Matches(msg, DefaultKeyMap.Request):
				return m, m.switchTo(ScreenRequest)
			case key.Matches(msg, DefaultKeyMap.Calendar):
				return m, m.switchTo(ScreenCalendar)
			case key.Matches(msg, DefaultKeyMap.NextItem):
				return m, m.switchTo(sidebarItems[(int(m.currentScreen)+1)%len(sidebarItems)])
			case key.Matches(msg, DefaultKeyMap.PrevItem):
				return m, m.switchTo(sidebarItems[(int(m.currentScreen)-1+len(sidebarItems))%len(sidebarItems)])
			}
		}

	case SwitchScreenMsg:
		return m, m.switchTo(msg.Screen)

	case ShowNotificationMsg:
		n := msg.Notification
		m.toast = &n
		m.toastSeq++
		seq := m.toastSeq
		return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return dismissNotificationMsg{seq: seq}
		})

	case dismissNotificationMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case submitResultMsg:
		// Submissions finish even if the user navigated away
		if m.request != nil {
			var cmd tea.Cmd
			m.request, cmd = m.request.Update(msg)
			return m, cmd
		}
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	switch m.currentScreen {
	case ScreenHome:
		if m.home != nil {
			m.home, cmd = m.home.Update(msg)
		}
	case ScreenRequest:
		if m.request != nil {
			m.request, cmd = m.request.Update(msg)
		}
	case ScreenCalendar:
		if m.calendar != nil {
			m.calendar, cmd = m.calendar.Update(msg)
		}
	}

	return m, cmd
}

// View implements tea.Model - renders sidebar + header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render(m.currentScreen.Title())
	footer := footerStyle.Render("[H]ome  [R]equest  [C]alendar  tab: next  [Q]uit")

	content := "Loading..."
	if screen := m.activeScreen(); screen != nil {
		content = screen.View()
	}

	errorDisplay := ""
	if m.err != nil {
		errorDisplay = errorStyle.Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 40 {
		innerWidth = 40
	}
	mainWidth := innerWidth - lipgloss.Width(m.sidebarView()) - 2
	if mainWidth < 20 {
		mainWidth = 20
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(strings.Repeat("─", mainWidth))

	main := fmt.Sprintf("%s\n%s\n\n%s%s", header, divider, content, errorDisplay)
	if m.toast != nil {
		main += "\n\n" + renderToast(*m.toast, mainWidth)
	}
	main += fmt.Sprintf("\n\n%s\n%s", divider, footer)

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), "  ", lipgloss.NewStyle().Width(mainWidth).Render(main))

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

func (m Model) sidebarView() string {
	s := titleStyle.Render("Dashboard") + "\n\n"
	for _, item := range sidebarItems {
		label := fmt.Sprintf("%s %s", item.icon(), item.String())
		if item == m.currentScreen {
			s += selectedStyle.Inherit(sidebarItemStyle).Render(label) + "\n"
			continue
		}
		s += sidebarItemStyle.Render(label) + "\n"
	}
	return sidebarStyle.Render(s)
}

func renderToast(n domain.Notification, width int) string {
	color := successColor
	if n.Kind == domain.NotificationFailure {
		color = errorColor
	}
	icon := lipgloss.NewStyle().Bold(true).Foreground(color).Render(n.Icon())
	w := width - 4
	if w < 20 {
		w = 20
	}
	return toastStyle.BorderForeground(color).Width(w).Render(n.Title + "\n\n" + icon)
}

// Run starts the TUI
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
