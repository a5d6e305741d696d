package reference

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/noema/dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	c, err := Load("", "")
	require.NoError(t, err)

	assert.NotEmpty(t, c.Countries())
	assert.NotEmpty(t, c.Currencies())

	sa, err := c.Country("sa")
	require.NoError(t, err)
	assert.Equal(t, "Saudi Arabia", sa.Name)
	assert.True(t, sa.IsOPEC)

	fr, err := c.CountryByName("france")
	require.NoError(t, err)
	assert.False(t, fr.IsOPEC)

	usd, err := c.Currency("USD")
	require.NoError(t, err)
	assert.Equal(t, 2, usd.DecimalDigits)
}

func TestCountries_SortedByName(t *testing.T) {
	countries := MustDefault().Countries()
	for i := 1; i < len(countries); i++ {
		assert.LessOrEqual(t, countries[i-1].Name, countries[i].Name)
	}
}

func TestCountry_NotFound(t *testing.T) {
	_, err := MustDefault().Country("XX")
	assert.ErrorIs(t, err, ErrCountryNotFound)

	_, err = MustDefault().Currency("XXX")
	assert.ErrorIs(t, err, ErrCurrencyNotFound)
}

func TestFindCountry_CodeOrName(t *testing.T) {
	c := MustDefault()

	byCode, err := FindCountry(c, "NG")
	require.NoError(t, err)
	byName, err := FindCountry(c, "Nigeria")
	require.NoError(t, err)
	assert.Equal(t, byCode, byName)
}

func TestNew_RejectsDuplicates(t *testing.T) {
	_, err := New([]domain.Country{{Code: "FR", Name: "France"}, {Code: "fr", Name: "France again"}}, nil)
	assert.Error(t, err)

	_, err = New(nil, []domain.Currency{{Code: "EUR"}, {Code: "EUR"}})
	assert.Error(t, err)
}

func TestLoad_OverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "countries.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"code":"QA","name":"Qatar","isOPEC":false}]`), 0644))

	c, err := Load(path, "")
	require.NoError(t, err)
	require.Len(t, c.Countries(), 1)
	assert.Equal(t, "Qatar", c.Countries()[0].Name)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "currencies.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load("", path)
	assert.Error(t, err)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := MustDefault()
	countries := c.Countries()
	countries[0].Name = "mutated"
	assert.NotEqual(t, "mutated", c.Countries()[0].Name)
}
