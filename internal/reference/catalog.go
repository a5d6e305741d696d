// Package reference serves the static country and currency lookup tables
// consumed by the request form.
package reference

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/noema/dashboard/internal/domain"
)

//go:embed data/countries.json data/currencies.json
var embedded embed.FS

var (
	ErrCountryNotFound  = errors.New("country not found")
	ErrCurrencyNotFound = errors.New("currency not found")
)

// Catalog provides read-only access to the reference tables
type Catalog interface {
	Countries() []domain.Country
	Currencies() []domain.Currency
	Country(code string) (*domain.Country, error)
	CountryByName(name string) (*domain.Country, error)
	Currency(code string) (*domain.Currency, error)
	CurrencyCodes() []string
}

type catalog struct {
	countries  []domain.Country
	currencies []domain.Currency
	byCode     map[string]int
	byName     map[string]int
	currByCode map[string]int
}

// Load builds a catalog from the embedded tables. Non-empty paths replace the
// corresponding embedded table with the file's contents.
func Load(countriesFile, currenciesFile string) (Catalog, error) {
	countriesData, err := readTable(countriesFile, "data/countries.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read countries: %w", err)
	}
	currenciesData, err := readTable(currenciesFile, "data/currencies.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read currencies: %w", err)
	}

	var countries []domain.Country
	if err := json.Unmarshal(countriesData, &countries); err != nil {
		return nil, fmt.Errorf("failed to parse countries: %w", err)
	}
	var currencies []domain.Currency
	if err := json.Unmarshal(currenciesData, &currencies); err != nil {
		return nil, fmt.Errorf("failed to parse currencies: %w", err)
	}

	return New(countries, currencies)
}

// MustDefault returns the embedded catalog and panics if it is malformed
func MustDefault() Catalog {
	c, err := Load("", "")
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a catalog from in-memory tables
func New(countries []domain.Country, currencies []domain.Currency) (Catalog, error) {
	c := &catalog{
		countries:  append([]domain.Country(nil), countries...),
		currencies: append([]domain.Currency(nil), currencies...),
		byCode:     make(map[string]int, len(countries)),
		byName:     make(map[string]int, len(countries)),
		currByCode: make(map[string]int, len(currencies)),
	}

	sort.SliceStable(c.countries, func(i, j int) bool {
		return c.countries[i].Name < c.countries[j].Name
	})

	for i, country := range c.countries {
		if country.Code == "" || country.Name == "" {
			return nil, fmt.Errorf("country %d: code and name are required", i)
		}
		code := strings.ToUpper(country.Code)
		if _, dup := c.byCode[code]; dup {
			return nil, fmt.Errorf("duplicate country code %q", country.Code)
		}
		c.byCode[code] = i
		c.byName[strings.ToLower(country.Name)] = i
	}
	for i, currency := range c.currencies {
		if currency.Code == "" {
			return nil, fmt.Errorf("currency %d: code is required", i)
		}
		code := strings.ToUpper(currency.Code)
		if _, dup := c.currByCode[code]; dup {
			return nil, fmt.Errorf("duplicate currency code %q", currency.Code)
		}
		c.currByCode[code] = i
	}

	return c, nil
}

func readTable(path, embeddedName string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return embedded.ReadFile(embeddedName)
}

// Countries returns a copy of the country table sorted by name
func (c *catalog) Countries() []domain.Country {
	return append([]domain.Country(nil), c.countries...)
}

func (c *catalog) Currencies() []domain.Currency {
	return append([]domain.Currency(nil), c.currencies...)
}

// Country looks up a country by its ISO code, case-insensitively
func (c *catalog) Country(code string) (*domain.Country, error) {
	i, ok := c.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCountryNotFound, code)
	}
	country := c.countries[i]
	return &country, nil
}

func (c *catalog) CountryByName(name string) (*domain.Country, error) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCountryNotFound, name)
	}
	country := c.countries[i]
	return &country, nil
}

func (c *catalog) Currency(code string) (*domain.Currency, error) {
	i, ok := c.currByCode[domain.NormalizeCurrencyCode(code)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCurrencyNotFound, code)
	}
	currency := c.currencies[i]
	return &currency, nil
}

// CurrencyCodes returns the known currency codes in table order
func (c *catalog) CurrencyCodes() []string {
	codes := make([]string, len(c.currencies))
	for i, currency := range c.currencies {
		codes[i] = currency.Code
	}
	return codes
}

// FindCountry resolves user input that may be either a code or a name
func FindCountry(c Catalog, query string) (*domain.Country, error) {
	if country, err := c.Country(query); err == nil {
		return country, nil
	}
	return c.CountryByName(query)
}
