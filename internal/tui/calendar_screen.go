package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/noema/dashboard/internal/app"
	"github.com/noema/dashboard/internal/constraint"
	"github.com/noema/dashboard/internal/domain"
)

// CalendarModel shows a month grid marking which days can start a request
type CalendarModel struct {
	app   *app.App
	month time.Time // first day of the displayed month
	now   func() time.Time
}

// NewCalendarModel creates the calendar screen at the current month
func NewCalendarModel(a *app.App) tea.Model {
	m := &CalendarModel{app: a, now: time.Now}
	m.month = firstOfMonth(m.now())
	return m
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func (m *CalendarModel) Init() tea.Cmd {
	return nil
}

func (m *CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Left):
			m.month = m.month.AddDate(0, -1, 0)
		case key.Matches(msg, DefaultKeyMap.Right):
			m.month = m.month.AddDate(0, 1, 0)
		case msg.String() == "t":
			m.month = firstOfMonth(m.now())
		}
	}
	return m, nil
}

func (m *CalendarModel) View() string {
	now := m.now()
	policy := m.app.RequestService.Policy()
	today := domain.Day(now)

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.month.Format("January 2006")) + "\n\n")
	b.WriteString("  Mo Tu We Th Fr Sa Su\n  ")

	// Monday-first offset
	offset := (int(m.month.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("   ", offset))

	for d := m.month; d.Month() == m.month.Month(); d = d.AddDate(0, 0, 1) {
		cell := fmt.Sprintf("%2d", d.Day())
		switch {
		case d.Equal(today):
			cell = todayStyle.Render(cell)
		case constraint.StartSelectable(d, now, policy):
			cell = openDayStyle.Render(cell)
		default:
			cell = disabledStyle.Render(cell)
		}
		b.WriteString(cell + " ")
		if d.Weekday() == time.Sunday {
			b.WriteString("\n  ")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("  Requests can start from %s.",
		domain.FormatDay(constraint.EarliestStart(now, policy.LeadDays)))) + "\n\n")
	b.WriteString(helpStyle.Render("  ←/→: month  t: this month"))
	return b.String()
}
