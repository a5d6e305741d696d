package domain

import (
	"fmt"
	"strings"
)

// Currency is a selectable currency from the reference catalog
type Currency struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	NamePlural    string  `json:"namePlural"`
	Symbol        string  `json:"symbol"`
	SymbolNative  string  `json:"symbolNative"`
	DecimalDigits int     `json:"decimalDigits"`
	Rounding      float64 `json:"rounding"`
}

// Label returns "CODE - Name (symbol)"
func (c Currency) Label() string {
	return fmt.Sprintf("%s - %s (%s)", c.Code, c.Name, c.SymbolNative)
}

// NormalizeCurrencyCode trims and upper-cases an ISO 4217 code
func NormalizeCurrencyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
