package domain

import "strings"

// Country is a selectable country from the reference catalog
type Country struct {
	Code   string `json:"code"` // ISO 3166-1 alpha-2
	Name   string `json:"name"`
	IsOPEC bool   `json:"isOPEC"`
}

// Label returns the display label used by pickers, marking OPEC members
func (c *Country) Label() string {
	if c == nil {
		return ""
	}
	if c.IsOPEC {
		return c.Name + " " + OPECMarker
	}
	return c.Name
}

// OPECMarker flags cartel-member countries in pickers
const OPECMarker = "🛢️"

// SameCountry reports whether two countries share the same identifier
func SameCountry(a, b *Country) bool {
	if a == nil || b == nil {
		return a == b
	}
	return strings.EqualFold(a.Code, b.Code)
}
