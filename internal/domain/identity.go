package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// CPFLength is the digit count of a natural-person tax ID
	CPFLength = 11
	// CNPJLength is the digit count of a legal-entity tax ID
	CNPJLength = 14
)

// NormalizeTaxID strips every non-digit character from a raw identifier.
// Source systems format the same ID inconsistently ("12.345.678/0001-99"
// vs "12345678000199"), so all matching happens on the digit form.
func NormalizeTaxID(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ClassifyTaxID returns the entity type implied by the identifier length
func ClassifyTaxID(normalized string) EntityType {
	switch len(normalized) {
	case CNPJLength:
		return EntityTypeCompany
	case CPFLength:
		return EntityTypeIndividual
	default:
		return EntityTypeUnknown
	}
}

// ValidCPF reports whether the normalized ID is a plausible CPF
func ValidCPF(normalized string) bool {
	if len(normalized) != CPFLength {
		return false
	}
	for _, r := range normalized {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeName produces the fuzzy-grouping form of a display name:
// upper-cased, diacritics stripped, runs of whitespace collapsed.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	return strings.Join(strings.Fields(strings.ToUpper(stripped)), " ")
}
