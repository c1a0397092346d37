package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openpolitica/politician-indexer/internal/domain"
)

func TestNormalizeTaxID(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"formatted CNPJ", "12.345.678/0001-99", "12345678000199"},
		{"plain CNPJ", "12345678000199", "12345678000199"},
		{"formatted CPF", "111.222.333-44", "11122233344"},
		{"whitespace and letters", " CPF: 111.222.333-44 ", "11122233344"},
		{"empty", "", ""},
		{"no digits", "N/A", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.NormalizeTaxID(tt.raw))
		})
	}
}

func TestClassifyTaxID(t *testing.T) {
	assert.Equal(t, domain.EntityTypeCompany, domain.ClassifyTaxID("12345678000199"))
	assert.Equal(t, domain.EntityTypeIndividual, domain.ClassifyTaxID("11122233344"))
	assert.Equal(t, domain.EntityTypeUnknown, domain.ClassifyTaxID("123"))
	assert.Equal(t, domain.EntityTypeUnknown, domain.ClassifyTaxID(""))
}

func TestValidCPF(t *testing.T) {
	assert.True(t, domain.ValidCPF("11122233344"))
	assert.False(t, domain.ValidCPF("1112223334"))
	assert.False(t, domain.ValidCPF("111222333445"))
	assert.False(t, domain.ValidCPF("1112223334a"))
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"José da Silva", "JOSE DA SILVA"},
		{"MARIA   CONCEIÇÃO", "MARIA CONCEICAO"},
		{"João Ângelo Três", "JOAO ANGELO TRES"},
		{"  padaria ltda ", "PADARIA LTDA"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, domain.NormalizeName(tt.raw))
	}
}
