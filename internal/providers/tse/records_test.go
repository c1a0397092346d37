package tse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRow(values map[string]string) Row {
	header := make(map[string]int, len(values))
	fields := make([]string, 0, len(values))
	i := 0
	for k, v := range values {
		header[k] = i
		fields = append(fields, v)
		i++
	}
	return Row{header: header, fields: fields}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
	}{
		{"1.234,56", 1234.56},
		{"250,00", 250.0},
		{"0,01", 0.01},
		{"1.000.000,99", 1000000.99},
	}

	for _, tt := range tests {
		got, err := ParseDecimal(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.InDelta(t, tt.expected, got, 1e-9)
	}

	_, err := ParseDecimal("")
	assert.Error(t, err)
	_, err = ParseDecimal("abc")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("12/04/2022")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 4, 12, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("2022-04-12")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestCandidateFromRow(t *testing.T) {
	row := makeRow(map[string]string{
		"ANO_ELEICAO":             "2022",
		"SQ_CANDIDATO":            "250001234567",
		"NR_CPF_CANDIDATO":        "11122233344",
		"NM_CANDIDATO":            "JOSE DA SILVA",
		"DS_CARGO":                "DEPUTADO FEDERAL",
		"SG_PARTIDO":              "XX",
		"SG_UF":                   "SP",
		"DS_SIT_TOT_TURNO":        "ELEITO",
		"DS_SITUACAO_CANDIDATURA": "APTO",
	})

	rec, ok := candidateFromRow(row)
	require.True(t, ok)
	assert.Equal(t, 2022, rec.Year)
	assert.Equal(t, "11122233344", rec.CPF)
	assert.Equal(t, "ELEITO", rec.Outcome)
	assert.Equal(t, "250001234567", rec.SequenceID)
}

func TestCandidateFromRow_MissingCPF(t *testing.T) {
	row := makeRow(map[string]string{
		"ANO_ELEICAO":      "2022",
		"SQ_CANDIDATO":     "250001234567",
		"NR_CPF_CANDIDATO": "#NULO#",
	})

	_, ok := candidateFromRow(row)
	assert.False(t, ok)
}

func TestDonationFromRow(t *testing.T) {
	row := makeRow(map[string]string{
		"SQ_CANDIDATO":                  "250001234567",
		"NR_CPF_CNPJ_DOADOR":            "12.345.678/0001-99",
		"NM_DOADOR":                     "EMPRESA LTDA",
		"VR_RECEITA":                    "1.500,00",
		"DT_RECEITA":                    "01/09/2022",
		"NR_CPF_CNPJ_DOADOR_ORIGINARIO": "#NULO#",
	})

	rec, ok := donationFromRow(row, 2022)
	require.True(t, ok)
	assert.InDelta(t, 1500.0, rec.Amount, 1e-9)
	assert.Equal(t, "12.345.678/0001-99", rec.DonorTaxID)
	assert.Empty(t, rec.OriginalDonorTaxID)
	assert.Equal(t, 2022, rec.Year)
}

func TestDonationFromRow_BadAmount(t *testing.T) {
	row := makeRow(map[string]string{
		"SQ_CANDIDATO": "250001234567",
		"VR_RECEITA":   "not-a-number",
	})

	_, ok := donationFromRow(row, 2022)
	assert.False(t, ok)
}

func TestExpenseFromRow(t *testing.T) {
	row := makeRow(map[string]string{
		"SQ_CANDIDATO":           "250001234567",
		"NR_CPF_CNPJ_FORNECEDOR": "12345678000199",
		"NM_FORNECEDOR":          "GRAFICA CENTRAL",
		"VR_DESPESA_CONTRATADA":  "320,50",
		"DT_DESPESA":             "15/08/2022",
		"DS_DESPESA":             "Material impresso",
	})

	rec, ok := expenseFromRow(row, 2022)
	require.True(t, ok)
	assert.InDelta(t, 320.50, rec.Amount, 1e-9)
	assert.Equal(t, "GRAFICA CENTRAL", rec.SupplierName)
}

func TestAssetFromRow(t *testing.T) {
	row := makeRow(map[string]string{
		"ANO_ELEICAO":           "2022",
		"SQ_CANDIDATO":          "250001234567",
		"CD_TIPO_BEM_CANDIDATO": "21",
		"DS_TIPO_BEM_CANDIDATO": "VEICULO",
		"DS_BEM_CANDIDATO":      "AUTOMOVEL",
		"VR_BEM_CANDIDATO":      "45.000,00",
	})

	rec, ok := assetFromRow(row)
	require.True(t, ok)
	assert.InDelta(t, 45000.0, rec.Value, 1e-9)
	assert.Equal(t, "21", rec.TypeCode)
}

func TestRowGet_NullMarkers(t *testing.T) {
	row := makeRow(map[string]string{"A": "#NULO#", "B": "#NE#", "C": " x "})
	assert.Empty(t, row.Get("A"))
	assert.Empty(t, row.Get("B"))
	assert.Equal(t, "x", row.Get("C"))
	assert.Empty(t, row.Get("MISSING"))
}
