package tui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noema/dashboard/internal/app"
	"github.com/noema/dashboard/internal/config"
	"github.com/noema/dashboard/internal/domain"
	"github.com/noema/dashboard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	status int32
	calls  int32
}

func newTestApp(t *testing.T, api *fakeAPI) *app.App {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&api.calls, 1)
		w.WriteHeader(int(atomic.LoadInt32(&api.status)))
	}))
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = srv.URL
	cfg.Log.Level = "error"
	a, err := app.NewWithConfig(context.Background(), cfg, app.Options{})
	require.NoError(t, err)
	return a
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tea.Model, msgs ...tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		m, cmd = m.Update(msg)
	}
	return m, cmd
}

func newRequestForm(t *testing.T, api *fakeAPI) *RequestModel {
	m := NewRequestModel(newTestApp(t, api)).(*RequestModel)
	m.Init()
	return m
}

// fillForm completes every field through key presses
func fillForm(m *RequestModel) {
	press(m,
		keyRunes("Ada"), tea.KeyMsg{Type: tea.KeyTab},
		keyRunes("Lovelace"), tea.KeyMsg{Type: tea.KeyTab},
		keyRunes("t"), tea.KeyMsg{Type: tea.KeyTab},
		keyRunes("t"), tea.KeyMsg{Type: tea.KeyTab},
		keyRunes("f"), tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyTab},
		keyRunes("5000"), tea.KeyMsg{Type: tea.KeyTab},
		keyRunes("ABCD-1234"), tea.KeyMsg{Type: tea.KeyTab},
		keyRunes("Community solar installation."),
	)
}

func TestScreenTitles(t *testing.T) {
	assert.Equal(t, "Home", ScreenHome.Title())
	assert.Equal(t, "Submit Financing Request", ScreenRequest.Title())
	assert.Equal(t, "Dashboard", ScreenCalendar.Title())
}

func TestRootNavigation(t *testing.T) {
	m := New(newTestApp(t, &fakeAPI{status: 201}))
	tm, _ := press(m, tea.WindowSizeMsg{Width: 200, Height: 60})

	tm, _ = press(tm, keyRunes("r"))
	root := tm.(Model)
	assert.Equal(t, ScreenRequest, root.currentScreen)
	assert.Contains(t, root.View(), "Submit Financing Request")

	// The form captures input, so "c" is typed rather than navigating
	tm, _ = press(tm, keyRunes("c"))
	assert.Equal(t, ScreenRequest, tm.(Model).currentScreen)

	tm, _ = press(tm, tea.KeyMsg{Type: tea.KeyEsc}, keyRunes("c"))
	root = tm.(Model)
	assert.Equal(t, ScreenCalendar, root.currentScreen)
	assert.Contains(t, root.View(), "Mo Tu We Th Fr Sa Su")

	tm, _ = press(tm, keyRunes("h"))
	assert.Equal(t, ScreenHome, tm.(Model).currentScreen)
	assert.Contains(t, tm.View(), "Welcome to Noema")
}

func TestRootToastLifecycle(t *testing.T) {
	m := New(newTestApp(t, &fakeAPI{status: 201}))
	tm, _ := press(m, tea.WindowSizeMsg{Width: 200, Height: 60})

	tm, cmd := press(tm, ShowNotificationMsg{Notification: domain.NewFailureNotification()})
	require.NotNil(t, cmd)
	assert.Contains(t, tm.View(), domain.SubmitFailureTitle)
	seq := tm.(Model).toastSeq

	// A stale dismissal leaves a newer toast alone
	tm, _ = press(tm, ShowNotificationMsg{Notification: domain.NewSuccessNotification()}, dismissNotificationMsg{seq: seq})
	assert.NotNil(t, tm.(Model).toast)

	tm, _ = press(tm, dismissNotificationMsg{seq: tm.(Model).toastSeq})
	assert.Nil(t, tm.(Model).toast)
}

func TestRequest_SubmitEmptyShowsErrors(t *testing.T) {
	api := &fakeAPI{status: 201}
	m := newRequestForm(t, api)

	press(m, tea.KeyMsg{Type: tea.KeyCtrlS})

	view := m.View()
	assert.Contains(t, view, "First name must be at least 2 characters.")
	assert.Contains(t, view, "Must be in the format ABCD-1234.")
	assert.False(t, m.submitting)
	assert.Equal(t, int32(0), atomic.LoadInt32(&api.calls))
}

func TestRequest_OPECCountryLocksCurrency(t *testing.T) {
	m := newRequestForm(t, &fakeAPI{status: 201})
	m.fieldFocus = indexOf(domain.FieldCountry)

	press(m, keyRunes("s"))
	require.NotNil(t, m.draft.Country)
	assert.Equal(t, "Saudi Arabia", m.draft.Country.Name)
	assert.Equal(t, "USD", m.draft.Currency)

	press(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "USD", m.draft.Currency, "currency is not editable for OPEC countries")
	assert.Contains(t, m.View(), "(locked)")

	// Switching to a non-member unlocks the input
	m.fieldFocus = indexOf(domain.FieldCountry)
	press(m, keyRunes("f"), tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyRight})
	assert.False(t, m.draft.Country.IsOPEC)
	assert.NotEqual(t, "USD", m.draft.Currency)
}

func TestRequest_EndDateStaysInsideWindow(t *testing.T) {
	m := newRequestForm(t, &fakeAPI{status: 201})
	m.fieldFocus = indexOf(domain.FieldStartDate)
	press(m, keyRunes("t"))
	start := m.draft.StartDate

	m.fieldFocus = indexOf(domain.FieldEndDate)
	press(m, keyRunes("t"), tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, start.AddDate(1, 0, 0), m.draft.EndDate, "days before the window are not selectable")

	for i := 0; i < 40; i++ {
		press(m, keyRunes("]"))
	}
	assert.Equal(t, start.AddDate(3, 0, 0), m.draft.EndDate, "days after the window are not selectable")

	m.fieldFocus = indexOf(domain.FieldStartDate)
	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, start, m.draft.StartDate, "start cannot move before the lead time")
}

func TestRequest_SuccessfulSubmissionResetsForm(t *testing.T) {
	api := &fakeAPI{status: 201}
	m := newRequestForm(t, api)
	fillForm(m)

	_, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.True(t, m.submitting)

	// A second submit while in flight is ignored
	_, again := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, again)

	result, ok := cmd().(submitResultMsg)
	require.True(t, ok)
	require.NoError(t, result.err)

	_, cmd = press(m, result)
	assert.False(t, m.submitting)
	assert.True(t, m.draft.IsEmpty())
	assert.Equal(t, "", m.inputs[domain.FieldFirstName].Value())
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.calls))

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	shown, ok := batch[0]().(ShowNotificationMsg)
	require.True(t, ok)
	assert.Equal(t, domain.NotificationSuccess, shown.Notification.Kind)
}

func TestRequest_FailedSubmissionKeepsDraft(t *testing.T) {
	api := &fakeAPI{status: 500}
	m := newRequestForm(t, api)
	fillForm(m)
	before := m.draft.Clone()

	_, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	result := cmd().(submitResultMsg)
	require.Error(t, result.err)

	_, cmd = press(m, result)
	assert.Equal(t, before, m.draft)
	assert.Equal(t, "Ada", m.inputs[domain.FieldFirstName].Value())

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)
	shown, ok := batch[0]().(ShowNotificationMsg)
	require.True(t, ok)
	assert.Equal(t, domain.SubmitFailureTitle, shown.Notification.Title)
	reported, ok := batch[1]().(ErrorMsg)
	require.True(t, ok)
	assert.ErrorIs(t, reported.Err, result.err)
}

func TestRoot_SubmitResultReachesFormAfterNavigation(t *testing.T) {
	m := New(newTestApp(t, &fakeAPI{status: 201}))
	tm, _ := press(m, tea.WindowSizeMsg{Width: 200, Height: 60}, keyRunes("r"))
	form := tm.(Model).request.(*RequestModel)
	form.draft.FirstName = "Ada"

	tm, _ = press(tm, tea.KeyMsg{Type: tea.KeyEsc}, keyRunes("h"))
	require.Equal(t, ScreenHome, tm.(Model).currentScreen)

	form.submitting = true
	press(tm, submitResultMsg{outcome: successOutcome()})
	assert.False(t, form.submitting)
	assert.True(t, form.draft.IsEmpty())
}

func TestCalendar_MonthNavigation(t *testing.T) {
	m := NewCalendarModel(newTestApp(t, &fakeAPI{status: 201})).(*CalendarModel)
	start := m.month

	press(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, start.AddDate(0, 2, 0), m.month)

	press(m, keyRunes("t"))
	assert.Equal(t, start, m.month)
	assert.True(t, strings.Contains(m.View(), "Requests can start from"))
}

func indexOf(f domain.Field) int {
	for i, field := range domain.Fields {
		if field == f {
			return i
		}
	}
	return -1
}

func successOutcome() service.Outcome {
	return service.Outcome{Notification: domain.NewSuccessNotification()}
}

func TestHome_RulesFollowPolicy(t *testing.T) {
	m := NewHomeModel(newTestApp(t, &fakeAPI{status: 201})).(*HomeModel)

	md := m.rulesMarkdown()
	assert.Contains(t, md, "**15 days**")
	assert.Contains(t, md, "**1 to 3 years**")
	assert.Contains(t, md, "**USD**")
	assert.NotEmpty(t, m.rules)
}

func TestRoot_ErrorMsgShownUntilCleared(t *testing.T) {
	m := New(newTestApp(t, &fakeAPI{status: 201}))
	tm, _ := press(m, tea.WindowSizeMsg{Width: 200, Height: 60})

	tm, _ = press(tm, ErrorMsg{Err: errors.New("connection refused")})
	assert.Contains(t, tm.View(), "Error: connection refused")

	tm, _ = press(tm, reportError(nil)())
	assert.NotContains(t, tm.View(), "connection refused")
}

func TestHome_EnterOpensRequestForm(t *testing.T) {
	m := New(newTestApp(t, &fakeAPI{status: 201}))
	tm, _ := press(m, tea.WindowSizeMsg{Width: 200, Height: 60})

	tm, cmd := press(tm, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(SwitchScreenMsg)
	require.True(t, ok)

	tm, _ = press(tm, msg)
	assert.Equal(t, ScreenRequest, tm.(Model).currentScreen)
}

func TestRequest_BackLeavesForm(t *testing.T) {
	m := newRequestForm(t, &fakeAPI{status: 201})
	require.True(t, m.IsCapturingInput())

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.IsCapturingInput())

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.IsCapturingInput())
}
