package finance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpolitica/politician-indexer/internal/domain"
	"github.com/openpolitica/politician-indexer/internal/finance"
	"github.com/openpolitica/politician-indexer/internal/providers/chamber"
	"github.com/openpolitica/politician-indexer/internal/providers/tse"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestAggregator_MergesFormattedAndBareTaxIDs(t *testing.T) {
	agg := finance.NewAggregator()

	agg.Observe(finance.Transaction{
		Type:             domain.TransactionParliamentaryExpense,
		CounterpartTaxID: "12.345.678/0001-99",
		CounterpartName:  "POSTO ABC LTDA",
		Amount:           100,
		Date:             day(2022, 3, 1),
	})
	agg.Observe(finance.Transaction{
		Type:             domain.TransactionParliamentaryExpense,
		CounterpartTaxID: "12345678000199",
		Amount:           50,
		Date:             day(2022, 1, 15),
	})

	require.Equal(t, 1, agg.Len())
	cp := agg.Counterparts()[0]
	assert.Equal(t, "12345678000199", cp.TaxID)
	assert.Equal(t, domain.EntityTypeCompany, cp.EntityType)
	assert.Equal(t, "POSTO ABC LTDA", cp.Name)
	assert.Equal(t, 2, cp.TransactionCount)
	assert.InDelta(t, 150, cp.TotalsByType[domain.TransactionParliamentaryExpense], 0.001)
	assert.Equal(t, day(2022, 1, 15), cp.FirstSeen)
	assert.Equal(t, day(2022, 3, 1), cp.LastSeen)
}

func TestAggregator_SplitsTotalsByTransactionType(t *testing.T) {
	agg := finance.NewAggregator()

	agg.Observe(finance.Transaction{
		Type:             domain.TransactionCampaignDonation,
		CounterpartTaxID: "11122233344",
		Amount:           1000,
	})
	agg.Observe(finance.Transaction{
		Type:             domain.TransactionCampaignExpense,
		CounterpartTaxID: "11122233344",
		Amount:           300,
	})

	cp := agg.Counterparts()[0]
	assert.Equal(t, domain.EntityTypeIndividual, cp.EntityType)
	assert.InDelta(t, 1000, cp.TotalsByType[domain.TransactionCampaignDonation], 0.001)
	assert.InDelta(t, 300, cp.TotalsByType[domain.TransactionCampaignExpense], 0.001)
	assert.InDelta(t, 1300, cp.TotalAmount(), 0.001)
}

func TestAggregator_OrderIndependence(t *testing.T) {
	txs := []finance.Transaction{
		{Type: domain.TransactionParliamentaryExpense, CounterpartTaxID: "12345678000199", Amount: 10, Date: day(2021, 5, 1)},
		{Type: domain.TransactionParliamentaryExpense, CounterpartTaxID: "98765432000188", Amount: 20, Date: day(2021, 6, 1)},
		{Type: domain.TransactionParliamentaryExpense, CounterpartTaxID: "12345678000199", Amount: 30, Date: day(2020, 1, 1)},
	}

	forward := finance.NewAggregator()
	for _, tx := range txs {
		forward.Observe(tx)
	}
	backward := finance.NewAggregator()
	for i := len(txs) - 1; i >= 0; i-- {
		backward.Observe(txs[i])
	}

	assert.Equal(t, forward.Counterparts(), backward.Counterparts())
}

func TestAggregator_IgnoresMissingTaxID(t *testing.T) {
	agg := finance.NewAggregator()
	agg.Observe(finance.Transaction{Type: domain.TransactionCampaignDonation, Amount: 500})
	assert.Equal(t, 0, agg.Len())
}

func TestFromChamberExpense(t *testing.T) {
	tx := finance.FromChamberExpense(7, chamber.Expense{
		Year:          2023,
		ExpenseType:   "COMBUSTÍVEIS E LUBRIFICANTES",
		DocumentID:    7459312,
		DocumentDate:  "2023-04-12",
		NetValue:      412.77,
		SupplierName:  "POSTO ABC LTDA",
		SupplierTaxID: "12.345.678/0001-99",
	})

	assert.Equal(t, uint(7), tx.PoliticianID)
	assert.Equal(t, domain.SourceChamber, tx.Source)
	assert.Equal(t, domain.TransactionParliamentaryExpense, tx.Type)
	assert.Equal(t, "12345678000199", tx.CounterpartTaxID)
	assert.Equal(t, "7459312", tx.ExternalID)
	assert.Equal(t, day(2023, 4, 12), tx.Date)
}

// Quota data includes reimbursements without a document ID; their keys must
// stay distinct instead of collapsing onto one row per politician.
func TestFromChamberExpense_DocumentlessRowsKeepDistinctKeys(t *testing.T) {
	base := chamber.Expense{
		Year:          2023,
		Month:         4,
		NetValue:      412.77,
		SupplierName:  "POSTO ABC LTDA",
		SupplierTaxID: "12.345.678/0001-99",
	}

	first := finance.FromChamberExpense(7, base)
	assert.NotEmpty(t, first.ExternalID)
	assert.NotEqual(t, "0", first.ExternalID)

	nextMonth := base
	nextMonth.Month = 5
	assert.NotEqual(t, first.ExternalID, finance.FromChamberExpense(7, nextMonth).ExternalID)

	otherSupplier := base
	otherSupplier.SupplierTaxID = "98.765.432/0001-10"
	assert.NotEqual(t, first.ExternalID, finance.FromChamberExpense(7, otherSupplier).ExternalID)

	// The same expense keeps the same key across runs
	assert.Equal(t, first.ExternalID, finance.FromChamberExpense(7, base).ExternalID)
}

func TestFromDonation_PassThroughEmitsOriginalDonor(t *testing.T) {
	txs := finance.FromDonation(7, tse.DonationRecord{
		Year:               2022,
		SequenceID:         "220001",
		DonorTaxID:         "00.000.000/0001-91",
		DonorName:          "DIRETORIO NACIONAL",
		Amount:             50000,
		Date:               day(2022, 8, 20),
		OriginalDonorTaxID: "11122233344",
		OriginalDonorName:  "JOAO DOADOR",
	})

	require.Len(t, txs, 2)
	assert.Equal(t, domain.TransactionCampaignDonation, txs[0].Type)
	assert.Equal(t, "00000000000191", txs[0].CounterpartTaxID)
	assert.Equal(t, domain.TransactionOriginalDonation, txs[1].Type)
	assert.Equal(t, "11122233344", txs[1].CounterpartTaxID)
	assert.NotEqual(t, txs[0].ExternalID, txs[1].ExternalID)
}

func TestFromDonation_DirectDonation(t *testing.T) {
	txs := finance.FromDonation(7, tse.DonationRecord{
		Year:       2022,
		SequenceID: "220001",
		DonorTaxID: "11122233344",
		DonorName:  "JOAO DOADOR",
		Amount:     200,
		Date:       day(2022, 9, 1),
	})
	require.Len(t, txs, 1)
}
