package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/noema/dashboard/internal/app"
)

// HomeModel is the landing screen
type HomeModel struct {
	app   *app.App
	rules string // rendered once, the policy does not change at runtime
}

// NewHomeModel creates the home screen
func NewHomeModel(a *app.App) tea.Model {
	m := &HomeModel{app: a}
	m.rules = m.renderRules()
	return m
}

func (m *HomeModel) rulesMarkdown() string {
	policy := m.app.RequestService.Policy()

	var b strings.Builder
	b.WriteString("## Request rules\n\n")
	fmt.Fprintf(&b, "- Start date at least **%d days** from today\n", policy.LeadDays)
	fmt.Fprintf(&b, "- End date **%d to %d years** after the start date\n", policy.MinTermYears, policy.MaxTermYears)
	fmt.Fprintf(&b, "- OPEC member countries are financed in **%s**\n", policy.LockCurrency)
	b.WriteString("- Project codes look like `ABCD-1234`\n")
	return b.String()
}

// renderRules falls back to the raw markdown if glamour cannot render it
func (m *HomeModel) renderRules() string {
	md := m.rulesMarkdown()
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(72),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (m *HomeModel) Init() tea.Cmd {
	return nil
}

func (m *HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, DefaultKeyMap.Select) {
		return m, func() tea.Msg { return SwitchScreenMsg{Screen: ScreenRequest} }
	}
	return m, nil
}

func (m *HomeModel) View() string {
	opec := 0
	countries := m.app.Catalog.Countries()
	for _, c := range countries {
		if c.IsOPEC {
			opec++
		}
	}

	var s string
	s += titleStyle.Render("Welcome to Noema") + "\n"
	s += subtitleStyle.Render("  Submit financing requests for your projects.") + "\n\n"

	s += m.rules + "\n"

	s += subtitleStyle.Render(fmt.Sprintf("  %d countries (%d OPEC members), %d currencies available",
		len(countries), opec, len(m.app.Catalog.Currencies()))) + "\n"
	s += subtitleStyle.Render("  Requests are sent to "+m.app.Client.Endpoint()) + "\n\n"

	s += helpStyle.Render("  enter/r: submit a request  c: calendar  q: quit")
	return s
}
