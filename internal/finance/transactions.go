package finance

import (
	"fmt"
	"strconv"
	"time"

	"github.com/openpolitica/politician-indexer/internal/domain"
	"github.com/openpolitica/politician-indexer/internal/providers/chamber"
	"github.com/openpolitica/politician-indexer/internal/providers/tse"
)

// Transaction is one money movement between a politician and a counterpart,
// already lifted out of its source system's shape
type Transaction struct {
	PoliticianID     uint
	Source           domain.SourceSystem
	Type             domain.TransactionType
	CounterpartTaxID string
	CounterpartName  string
	Amount           float64
	Date             time.Time
	Year             int
	Description      string
	// ExternalID keys the transaction inside its source system, used for
	// idempotent upserts
	ExternalID string
}

// expenseKey builds a stable identifier for a quota expense. Some
// reimbursements carry no document ID; the month, supplier and value stand
// in for one, as donationKey does for TSE rows.
func expenseKey(e chamber.Expense) string {
	if e.DocumentID != 0 {
		return strconv.FormatInt(e.DocumentID, 10)
	}
	return fmt.Sprintf("%d-%02d:%s:%.2f",
		e.Year,
		e.Month,
		domain.NormalizeTaxID(e.SupplierTaxID),
		e.NetValue,
	)
}

// FromChamberExpense lifts a parliamentary quota expense
func FromChamberExpense(politicianID uint, e chamber.Expense) Transaction {
	date, _ := time.Parse("2006-01-02", e.DocumentDate)
	return Transaction{
		PoliticianID:     politicianID,
		Source:           domain.SourceChamber,
		Type:             domain.TransactionParliamentaryExpense,
		CounterpartTaxID: domain.NormalizeTaxID(e.SupplierTaxID),
		CounterpartName:  e.SupplierName,
		Amount:           e.NetValue,
		Date:             date,
		Year:             e.Year,
		Description:      e.ExpenseType,
		ExternalID:       expenseKey(e),
	}
}

// donationKey builds a stable identifier for a donation row. TSE publishes
// no per-row key, so the candidacy, donor, amount and date stand in for one.
func donationKey(d tse.DonationRecord, original bool) string {
	suffix := ""
	if original {
		suffix = ":orig"
	}
	return fmt.Sprintf("%s:%s:%.2f:%s%s",
		d.SequenceID,
		domain.NormalizeTaxID(d.DonorTaxID),
		d.Amount,
		d.Date.Format("2006-01-02"),
		suffix,
	)
}

// FromDonation lifts a campaign donation. Pass-through donations carry the
// original donor as a second transaction so the true source of the money
// stays visible.
func FromDonation(politicianID uint, d tse.DonationRecord) []Transaction {
	txs := []Transaction{{
		PoliticianID:     politicianID,
		Source:           domain.SourceTSE,
		Type:             domain.TransactionCampaignDonation,
		CounterpartTaxID: domain.NormalizeTaxID(d.DonorTaxID),
		CounterpartName:  d.DonorName,
		Amount:           d.Amount,
		Date:             d.Date,
		Year:             d.Year,
		ExternalID:       donationKey(d, false),
	}}

	if d.OriginalDonorTaxID != "" {
		txs = append(txs, Transaction{
			PoliticianID:     politicianID,
			Source:           domain.SourceTSE,
			Type:             domain.TransactionOriginalDonation,
			CounterpartTaxID: domain.NormalizeTaxID(d.OriginalDonorTaxID),
			CounterpartName:  d.OriginalDonorName,
			Amount:           d.Amount,
			Date:             d.Date,
			Year:             d.Year,
			ExternalID:       donationKey(d, true),
		})
	}

	return txs
}

// FromCampaignExpense lifts a campaign expense
func FromCampaignExpense(politicianID uint, e tse.ExpenseRecord) Transaction {
	return Transaction{
		PoliticianID:     politicianID,
		Source:           domain.SourceTSE,
		Type:             domain.TransactionCampaignExpense,
		CounterpartTaxID: domain.NormalizeTaxID(e.SupplierTaxID),
		CounterpartName:  e.SupplierName,
		Amount:           e.Amount,
		Date:             e.Date,
		Year:             e.Year,
		Description:      e.Description,
		ExternalID: fmt.Sprintf("%s:%s:%.2f:%s",
			e.SequenceID,
			domain.NormalizeTaxID(e.SupplierTaxID),
			e.Amount,
			e.Date.Format("2006-01-02"),
		),
	}
}
