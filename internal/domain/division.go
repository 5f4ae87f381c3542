package domain

import (
	"fmt"
	"strings"
)

// Division is a product division a location ships for.
// The set is closed: add new values to AllDivisions and Label together.
type Division string

const (
	DivisionCarbon    Division = "carbon"
	DivisionStainless Division = "stainless"
	DivisionAluminum  Division = "aluminum"
	DivisionAlloy     Division = "alloy"
)

func AllDivisions() []Division {
	return []Division{DivisionCarbon, DivisionStainless, DivisionAluminum, DivisionAlloy}
}

// ParseDivision accepts a division key in any case.
func ParseDivision(s string) (Division, error) {
	d := Division(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := d.Label(); !ok {
		return "", fmt.Errorf("parse division: unknown division %q", s)
	}
	return d, nil
}

// Label returns the display name; ok is false for values outside the closed set.
func (d Division) Label() (string, bool) {
	switch d {
	case DivisionCarbon:
		return "Carbon Steel", true
	case DivisionStainless:
		return "Stainless", true
	case DivisionAluminum:
		return "Aluminum", true
	case DivisionAlloy:
		return "Alloy", true
	}
	return "", false
}
