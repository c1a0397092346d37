package tse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CandidateRecord is one row of the yearly candidate roster dataset
type CandidateRecord struct {
	Year       int
	SequenceID string // SQ_CANDIDATO, the TSE candidacy key
	CPF        string
	Name       string
	BallotName string
	Office     string
	Party      string
	State      string
	Outcome    string // DS_SIT_TOT_TURNO; empty before results are published
	Situation  string
}

// DonationRecord is one row of the campaign donations dataset
type DonationRecord struct {
	Year       int
	SequenceID string
	DonorTaxID string
	DonorName  string
	Amount     float64
	Date       time.Time

	// Original donor fields are set on traced pass-through donations
	OriginalDonorTaxID string
	OriginalDonorName  string
}

// ExpenseRecord is one row of the campaign expenses dataset
type ExpenseRecord struct {
	Year          int
	SequenceID    string
	SupplierTaxID string
	SupplierName  string
	Amount        float64
	Date          time.Time
	Description   string
}

// AssetRecord is one row of the declared-assets dataset
type AssetRecord struct {
	Year        int
	SequenceID  string
	TypeCode    string
	TypeName    string
	Description string
	Value       float64
}

// ParseDecimal normalizes the Brazilian locale convention used by dataset
// numeric fields ("1.234,56") into a float
func ParseDecimal(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty decimal")
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal %q: %w", raw, err)
	}
	return value, nil
}

// ParseDate parses the DD/MM/YYYY convention used by dataset date fields
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return t, nil
}

// candidateFromRow maps a candidate dataset row to the canonical record.
// Returns false when required fields are missing.
func candidateFromRow(row Row) (CandidateRecord, bool) {
	year, err := strconv.Atoi(row.Get("ANO_ELEICAO"))
	if err != nil {
		return CandidateRecord{}, false
	}

	rec := CandidateRecord{
		Year:       year,
		SequenceID: row.Get("SQ_CANDIDATO"),
		CPF:        row.Get("NR_CPF_CANDIDATO"),
		Name:       row.Get("NM_CANDIDATO"),
		BallotName: row.Get("NM_URNA_CANDIDATO"),
		Office:     row.Get("DS_CARGO"),
		Party:      row.Get("SG_PARTIDO"),
		State:      row.Get("SG_UF"),
		Outcome:    row.Get("DS_SIT_TOT_TURNO"),
		Situation:  row.Get("DS_SITUACAO_CANDIDATURA"),
	}
	if rec.CPF == "" || rec.SequenceID == "" {
		return CandidateRecord{}, false
	}
	return rec, true
}

// donationFromRow maps a donations dataset row to the canonical record
func donationFromRow(row Row, year int) (DonationRecord, bool) {
	amount, err := ParseDecimal(row.Get("VR_RECEITA"))
	if err != nil {
		return DonationRecord{}, false
	}

	rec := DonationRecord{
		Year:               year,
		SequenceID:         row.Get("SQ_CANDIDATO"),
		DonorTaxID:         row.Get("NR_CPF_CNPJ_DOADOR"),
		DonorName:          row.Get("NM_DOADOR"),
		Amount:             amount,
		OriginalDonorTaxID: row.Get("NR_CPF_CNPJ_DOADOR_ORIGINARIO"),
		OriginalDonorName:  row.Get("NM_DOADOR_ORIGINARIO"),
	}
	if rec.SequenceID == "" {
		return DonationRecord{}, false
	}
	if date, err := ParseDate(row.Get("DT_RECEITA")); err == nil {
		rec.Date = date
	}
	return rec, true
}

// expenseFromRow maps an expenses dataset row to the canonical record
func expenseFromRow(row Row, year int) (ExpenseRecord, bool) {
	amount, err := ParseDecimal(row.Get("VR_DESPESA_CONTRATADA"))
	if err != nil {
		return ExpenseRecord{}, false
	}

	rec := ExpenseRecord{
		Year:          year,
		SequenceID:    row.Get("SQ_CANDIDATO"),
		SupplierTaxID: row.Get("NR_CPF_CNPJ_FORNECEDOR"),
		SupplierName:  row.Get("NM_FORNECEDOR"),
		Amount:        amount,
		Description:   row.Get("DS_DESPESA"),
	}
	if rec.SequenceID == "" {
		return ExpenseRecord{}, false
	}
	if date, err := ParseDate(row.Get("DT_DESPESA")); err == nil {
		rec.Date = date
	}
	return rec, true
}

// assetFromRow maps an assets dataset row to the canonical record
func assetFromRow(row Row) (AssetRecord, bool) {
	year, err := strconv.Atoi(row.Get("ANO_ELEICAO"))
	if err != nil {
		return AssetRecord{}, false
	}
	value, err := ParseDecimal(row.Get("VR_BEM_CANDIDATO"))
	if err != nil {
		return AssetRecord{}, false
	}

	rec := AssetRecord{
		Year:        year,
		SequenceID:  row.Get("SQ_CANDIDATO"),
		TypeCode:    row.Get("CD_TIPO_BEM_CANDIDATO"),
		TypeName:    row.Get("DS_TIPO_BEM_CANDIDATO"),
		Description: row.Get("DS_BEM_CANDIDATO"),
		Value:       value,
	}
	if rec.SequenceID == "" {
		return AssetRecord{}, false
	}
	return rec, true
}
