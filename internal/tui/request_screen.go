package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noema/dashboard/internal/app"
	"github.com/noema/dashboard/internal/constraint"
	"github.com/noema/dashboard/internal/domain"
	"github.com/noema/dashboard/internal/service"
	"github.com/noema/dashboard/internal/validator"
)

// fieldKind decides how a form row takes input
type fieldKind int

const (
	kindText fieldKind = iota
	kindDate
	kindPicker
)

func kindOf(f domain.Field) fieldKind {
	switch f {
	case domain.FieldStartDate, domain.FieldEndDate:
		return kindDate
	case domain.FieldCountry, domain.FieldCurrency:
		return kindPicker
	default:
		return kindText
	}
}

// submitResultMsg carries the outcome of the asynchronous submission
type submitResultMsg struct {
	outcome service.Outcome
	err     error
}

// RequestModel is the financing request form
type RequestModel struct {
	app   *app.App
	draft *domain.Draft

	inputs     map[domain.Field]*textinput.Model
	fieldFocus int
	editing    bool

	countries  []domain.Country
	currencies []domain.Currency

	// Validation state; messages are shown once the user has tried to submit
	submitted  bool
	result     validator.Result
	submitting bool
}

// NewRequestModel creates the request form with an empty draft
func NewRequestModel(a *app.App) tea.Model {
	m := &RequestModel{
		app:        a,
		draft:      domain.NewDraft(),
		countries:  a.Catalog.Countries(),
		currencies: a.Catalog.Currencies(),
		editing:    true,
	}
	m.initForm()
	return m
}

// IsCapturingInput returns true while the form owns the keyboard
func (m *RequestModel) IsCapturingInput() bool {
	return m.editing
}

// Draft exposes the current draft, for tests
func (m *RequestModel) Draft() *domain.Draft {
	return m.draft
}

func (m *RequestModel) Init() tea.Cmd {
	return m.focusCurrent()
}

func (m *RequestModel) initForm() {
	newInput := func(placeholder string, limit, width int) *textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Width = width
		return &ti
	}

	m.inputs = map[domain.Field]*textinput.Model{
		domain.FieldFirstName:          newInput("First Name", 100, 40),
		domain.FieldLastName:           newInput("Last Name", 100, 40),
		domain.FieldAmount:             newInput("Enter amount", 18, 20),
		domain.FieldProjectCode:        newInput("ABCD-1234", 9, 12),
		domain.FieldProjectDescription: newInput("Describe the project.", 150, 60),
	}
	m.fieldFocus = 0
	m.submitted = false
	m.result = nil
}

func (m *RequestModel) currentField() domain.Field {
	return domain.Fields[m.fieldFocus]
}

func (m *RequestModel) focusCurrent() tea.Cmd {
	for f, in := range m.inputs {
		if f != m.currentField() {
			in.Blur()
		}
	}
	if in, ok := m.inputs[m.currentField()]; ok && m.editing {
		return in.Focus()
	}
	return nil
}

func (m *RequestModel) moveFocus(delta int) tea.Cmd {
	n := len(domain.Fields)
	m.fieldFocus = (m.fieldFocus + delta + n) % n
	return m.focusCurrent()
}

func (m *RequestModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		return m, m.focusCurrent()

	case submitResultMsg:
		return m, m.handleResult(msg)

	case tea.KeyMsg:
		if !m.editing {
			if key.Matches(msg, DefaultKeyMap.Select) || msg.String() == "i" {
				m.editing = true
				return m, m.focusCurrent()
			}
			return m, nil
		}
		return m.updateForm(msg)
	}

	return m, nil
}

func (m *RequestModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, DefaultKeyMap.Back) {
		// Leave the form so global navigation keys work again
		m.editing = false
		for _, in := range m.inputs {
			in.Blur()
		}
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		return m, m.moveFocus(1)

	case "shift+tab", "up":
		return m, m.moveFocus(-1)

	case "ctrl+s":
		return m, m.submit()

	case "enter":
		if m.fieldFocus == len(domain.Fields)-1 {
			return m, m.submit()
		}
		return m, m.moveFocus(1)
	}

	field := m.currentField()
	var cmd tea.Cmd
	switch kindOf(field) {
	case kindDate:
		m.updateDate(field, msg)
	case kindPicker:
		m.updatePicker(field, msg)
	default:
		cmd = m.updateText(field, msg)
	}
	m.revalidate()
	return m, cmd
}

func (m *RequestModel) updateText(field domain.Field, msg tea.KeyMsg) tea.Cmd {
	in := m.inputs[field]
	updated, cmd := in.Update(msg)
	*in = updated

	value := in.Value()
	switch field {
	case domain.FieldFirstName:
		m.draft.FirstName = value
	case domain.FieldLastName:
		m.draft.LastName = value
	case domain.FieldProjectCode:
		m.draft.ProjectCode = value
	case domain.FieldProjectDescription:
		m.draft.ProjectDescription = value
	case domain.FieldAmount:
		amount, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			amount = 0
		}
		m.draft.Amount = amount
	}
	return cmd
}

// updateDate moves the selected day. Days outside the allowed range are
// never selectable: every move lands on the nearest allowed day.
func (m *RequestModel) updateDate(field domain.Field, msg tea.KeyMsg) {
	now := time.Now()
	policy := m.app.RequestService.Policy()
	state := m.app.RequestService.Derive(m.draft)

	var current time.Time
	var window constraint.Window
	if field == domain.FieldStartDate {
		current = m.draft.StartDate
		window = constraint.Window{From: state.StartFloor, To: state.StartFloor.AddDate(100, 0, 0)}
	} else {
		current = m.draft.EndDate
		window = state.EndWindow
	}

	var next time.Time
	switch msg.String() {
	case "right", "l", "+":
		next = stepDay(current, window.From, 0, 0, 1)
	case "left", "h", "-":
		next = stepDay(current, window.From, 0, 0, -1)
	case "pgdown", "]":
		next = stepDay(current, window.From, 0, 1, 0)
	case "pgup", "[":
		next = stepDay(current, window.From, 0, -1, 0)
	case "t":
		next = window.From
	case "backspace", "delete":
		m.setDate(field, time.Time{})
		return
	default:
		return
	}

	next = window.Clamp(next)
	if field == domain.FieldStartDate && !constraint.StartSelectable(next, now, policy) {
		return
	}
	m.setDate(field, next)
}

func stepDay(current, basis time.Time, years, months, days int) time.Time {
	if current.IsZero() {
		return basis
	}
	return current.AddDate(years, months, days)
}

func (m *RequestModel) setDate(field domain.Field, t time.Time) {
	if field == domain.FieldStartDate {
		m.draft.SetStartDate(t)
		return
	}
	m.draft.SetEndDate(t)
}

func (m *RequestModel) updatePicker(field domain.Field, msg tea.KeyMsg) {
	delta := 0
	switch msg.String() {
	case "right", "l":
		delta = 1
	case "left", "h":
		delta = -1
	}

	if field == domain.FieldCountry {
		idx := m.countryIndex()
		switch {
		case delta != 0:
			idx = cycle(idx, delta, len(m.countries))
		case msg.Type == tea.KeyRunes && len(msg.Runes) == 1:
			idx = m.countryStartingWith(msg.Runes[0], idx)
		default:
			return
		}
		if idx >= 0 && idx < len(m.countries) {
			country := m.countries[idx]
			m.app.RequestService.SetCountry(m.draft, &country)
		}
		return
	}

	if delta == 0 || len(m.currencies) == 0 {
		return
	}
	idx := cycle(m.currencyIndex(), delta, len(m.currencies))
	// Locked currencies ignore the change
	m.app.RequestService.SetCurrency(m.draft, m.currencies[idx].Code)
}

func cycle(idx, delta, n int) int {
	if n == 0 {
		return -1
	}
	if idx < 0 {
		if delta > 0 {
			return 0
		}
		return n - 1
	}
	return (idx + delta + n) % n
}

func (m *RequestModel) countryIndex() int {
	for i := range m.countries {
		if domain.SameCountry(&m.countries[i], m.draft.Country) {
			return i
		}
	}
	return -1
}

// countryStartingWith jumps to the next country whose name starts with r
func (m *RequestModel) countryStartingWith(r rune, from int) int {
	prefix := strings.ToLower(string(r))
	n := len(m.countries)
	for step := 1; step <= n; step++ {
		i := (from + step + n) % n
		if strings.HasPrefix(strings.ToLower(m.countries[i].Name), prefix) {
			return i
		}
	}
	return from
}

func (m *RequestModel) currencyIndex() int {
	for i, c := range m.currencies {
		if c.Code == m.draft.Currency {
			return i
		}
	}
	return -1
}

func (m *RequestModel) revalidate() {
	if m.submitted {
		m.result = m.app.RequestService.Validate(m.draft)
	}
}

func (m *RequestModel) submit() tea.Cmd {
	if m.submitting {
		return nil
	}

	m.submitted = true
	m.result = m.app.RequestService.Validate(m.draft)
	if !m.result.Valid() {
		for i, f := range domain.Fields {
			if !m.result[f].Valid {
				m.fieldFocus = i
				break
			}
		}
		return m.focusCurrent()
	}

	m.submitting = true
	snapshot := m.draft.Clone()
	svc := m.app.RequestService
	return func() tea.Msg {
		outcome, err := svc.Submit(context.Background(), snapshot)
		return submitResultMsg{outcome: outcome, err: err}
	}
}

func (m *RequestModel) handleResult(msg submitResultMsg) tea.Cmd {
	m.submitting = false

	var verr *service.ValidationError
	if errors.As(msg.err, &verr) {
		m.result = verr.Result
		return nil
	}

	if msg.outcome.Succeeded() {
		m.draft.Reset()
		m.initForm()
		return tea.Batch(notify(msg.outcome.Notification), m.focusCurrent(), reportError(nil))
	}

	return tea.Batch(notify(msg.outcome.Notification), reportError(msg.err))
}

func (m *RequestModel) View() string {
	var s string
	s += titleStyle.Render("Financing Request") + "\n"
	s += subtitleStyle.Render("  Fill in the request and press ctrl+s to submit.") + "\n\n"

	state := m.app.RequestService.Derive(m.draft)

	for i, f := range domain.Fields {
		focused := i == m.fieldFocus && m.editing

		indicator := "  "
		labelStyle := subtitleStyle
		if focused {
			indicator = "> "
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}

		s += fmt.Sprintf("%s%s\n  %s\n", indicator, labelStyle.Render(f.Label()), m.fieldView(f, state))
		if hint := m.fieldHint(f, state); hint != "" {
			s += subtitleStyle.Render("  "+hint) + "\n"
		}
		if m.submitted {
			if msg := m.result.Message(f); msg != "" {
				s += errorStyle.Render("  "+msg) + "\n"
			}
		}
		s += "\n"
	}

	if m.submitting {
		s += lipgloss.NewStyle().Foreground(warningColor).Render("  Submitting...") + "\n\n"
	}

	if m.editing {
		s += helpStyle.Render("  tab/shift+tab: fields  ←/→: change date or selection  [/]: month  ctrl+s: submit  esc: leave form")
	} else {
		s += helpStyle.Render("  enter: edit form  h: home  c: calendar  q: quit")
	}
	return s
}

func (m *RequestModel) fieldView(f domain.Field, state constraint.State) string {
	switch kindOf(f) {
	case kindDate:
		value := m.draft.StartDate
		placeholder := "Pick validity start date"
		if f == domain.FieldEndDate {
			value = m.draft.EndDate
			placeholder = "Pick validity end date"
		}
		if value.IsZero() {
			return subtitleStyle.Render("◇ " + placeholder)
		}
		return "◆ " + value.Format("January 2, 2006")

	case kindPicker:
		if f == domain.FieldCountry {
			if m.draft.Country == nil {
				return subtitleStyle.Render("‹ Select a country ›")
			}
			return "‹ " + m.draft.Country.Label() + " ›"
		}
		label := subtitleStyle.Render("‹ Select a currency ›")
		if c, err := m.app.Catalog.Currency(m.draft.Currency); err == nil {
			label = "‹ " + c.Label() + " ›"
		}
		if state.Currency.Locked {
			return lockedStyle.Render(strings.Trim(label, "‹› ") + "  (locked)")
		}
		return label

	default:
		return m.inputs[f].View()
	}
}

func (m *RequestModel) fieldHint(f domain.Field, state constraint.State) string {
	switch f {
	case domain.FieldStartDate:
		return "Earliest: " + domain.FormatDay(state.StartFloor)
	case domain.FieldEndDate:
		return fmt.Sprintf("Between %s and %s", domain.FormatDay(state.EndWindow.From), domain.FormatDay(state.EndWindow.To))
	case domain.FieldCountry:
		return "OPEC countries are indicated with an oil barrel (" + domain.OPECMarker + ")."
	case domain.FieldCurrency:
		if state.Currency.Locked {
			return fmt.Sprintf("%s is required for OPEC countries.", state.Currency.Code)
		}
	case domain.FieldProjectDescription:
		return "Should not exceed 150 characters."
	}
	return ""
}
