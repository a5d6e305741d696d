package constraint

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/noema/dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
)

var (
	saudiArabia = &domain.Country{Code: "SA", Name: "Saudi Arabia", IsOPEC: true}
	france      = &domain.Country{Code: "FR", Name: "France"}
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrencyLock(t *testing.T) {
	assert.Equal(t, Lock{Locked: true, Code: "USD"}, CurrencyLock(saudiArabia, "USD"))
	assert.Equal(t, Lock{}, CurrencyLock(france, "USD"))
	assert.Equal(t, Lock{}, CurrencyLock(nil, "USD"))
}

func TestSetCountry_OPECForcesCurrency(t *testing.T) {
	p := DefaultPolicy()
	d := domain.NewDraft()
	d.Currency = "EUR"

	lock := SetCountry(d, saudiArabia, p)
	assert.True(t, lock.Locked)
	assert.Equal(t, "USD", d.Currency)

	assert.False(t, SetCurrency(d, "EUR", p), "locked currency must not be editable")
	assert.Equal(t, "USD", d.Currency)
}

func TestSetCountry_NonMemberLeavesCurrency(t *testing.T) {
	p := DefaultPolicy()
	d := domain.NewDraft()
	d.Currency = "EUR"

	lock := SetCountry(d, france, p)
	assert.False(t, lock.Locked)
	assert.Equal(t, "EUR", d.Currency)

	assert.True(t, SetCurrency(d, "CHF", p))
	assert.Equal(t, "CHF", d.Currency)
}

func TestSetCountry_SwitchingAwayUnlocks(t *testing.T) {
	p := DefaultPolicy()
	d := domain.NewDraft()

	SetCountry(d, saudiArabia, p)
	SetCountry(d, france, p)
	assert.Equal(t, "USD", d.Currency)
	assert.True(t, SetCurrency(d, "EUR", p))
}

func TestEndWindow_Boundaries(t *testing.T) {
	p := DefaultPolicy()
	now := day(2026, 1, 1)
	start := day(2026, 3, 10)
	w := EndWindow(start, now, p)

	tests := []struct {
		name string
		end  time.Time
		want bool
	}{
		{"one year minus a day", day(2027, 3, 9), false},
		{"one year", day(2027, 3, 10), true},
		{"two years", day(2028, 3, 10), true},
		{"three years", day(2029, 3, 10), true},
		{"three years plus a day", day(2029, 3, 11), false},
		{"unset", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Contains(tt.end))
			assert.Equal(t, tt.want, EndSelectable(tt.end, start, now, p))
		})
	}
}

func TestEndWindow_IgnoresTimeOfDay(t *testing.T) {
	p := DefaultPolicy()
	start := time.Date(2026, 3, 10, 17, 45, 0, 0, time.UTC)
	w := EndWindow(start, day(2026, 1, 1), p)

	assert.True(t, w.Contains(time.Date(2029, 3, 10, 23, 59, 0, 0, time.UTC)))
}

func TestEndWindow_UnsetStartFallsBackToEarliestStart(t *testing.T) {
	p := DefaultPolicy()
	now := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	w := EndWindow(time.Time{}, now, p)
	want := Window{From: day(2027, 11, 1), To: day(2029, 11, 1)}
	if diff := cmp.Diff(want, w); diff != "" {
		t.Fatalf("window mismatch (-want +got):\n%s", diff)
	}
}

func TestEndWindow_FollowsStart(t *testing.T) {
	p := DefaultPolicy()
	now := day(2026, 1, 1)
	d := domain.NewDraft()

	d.SetStartDate(day(2026, 6, 1))
	first := Derive(d, now, p).EndWindow

	d.SetStartDate(day(2027, 6, 1))
	second := Derive(d, now, p).EndWindow

	assert.Equal(t, day(2027, 6, 1), first.From)
	assert.Equal(t, day(2028, 6, 1), second.From)
	assert.Equal(t, day(2030, 6, 1), second.To)
}

func TestStartSelectable(t *testing.T) {
	p := DefaultPolicy()
	now := time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)

	assert.False(t, StartSelectable(day(2026, 10, 31), now, p))
	assert.True(t, StartSelectable(day(2026, 11, 1), now, p))
	assert.True(t, StartSelectable(day(2027, 1, 1), now, p))
	assert.False(t, StartSelectable(time.Time{}, now, p))
}

func TestWindow_Clamp(t *testing.T) {
	w := Window{From: day(2027, 1, 1), To: day(2029, 1, 1)}

	assert.Equal(t, w.From, w.Clamp(day(2026, 5, 5)))
	assert.Equal(t, w.To, w.Clamp(day(2030, 5, 5)))
	assert.Equal(t, day(2028, 2, 2), w.Clamp(day(2028, 2, 2)))
}

func TestApply(t *testing.T) {
	p := DefaultPolicy()
	d := domain.NewDraft()
	d.Country = saudiArabia
	d.Currency = "SAR"

	Apply(d, Derive(d, day(2026, 1, 1), p))
	assert.Equal(t, "USD", d.Currency)

	d.Country = france
	d.Currency = "EUR"
	Apply(d, Derive(d, day(2026, 1, 1), p))
	assert.Equal(t, "EUR", d.Currency)
}

func TestSetCurrency_NormalizesCode(t *testing.T) {
	d := domain.NewDraft()
	SetCountry(d, france, DefaultPolicy())

	assert.True(t, SetCurrency(d, " eur", DefaultPolicy()))
	assert.Equal(t, "EUR", d.Currency)

	p := DefaultPolicy()
	p.LockCurrency = "usd"
	assert.Equal(t, Lock{Locked: true, Code: "USD"}, SetCountry(d, saudiArabia, p))
	assert.Equal(t, "USD", d.Currency)
}
