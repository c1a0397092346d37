package finance

import (
	"sort"
	"time"

	"github.com/openpolitica/politician-indexer/internal/domain"
)

// Counterpart is the aggregated profile of one entity that exchanged money
// with politicians
type Counterpart struct {
	TaxID            string
	Name             string
	EntityType       domain.EntityType
	TransactionCount int
	TotalsByType     map[domain.TransactionType]float64
	FirstSeen        time.Time
	LastSeen         time.Time
}

// TotalAmount sums across all transaction types
func (c *Counterpart) TotalAmount() float64 {
	var total float64
	for _, v := range c.TotalsByType {
		total += v
	}
	return total
}

// Aggregator folds a transaction stream into per-counterpart running
// aggregates. Memory is proportional to the number of distinct
// counterparts, not the number of transactions, so a full run over
// millions of expense rows stays small.
type Aggregator struct {
	byTaxID map[string]*Counterpart
}

// NewAggregator creates an empty aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{byTaxID: make(map[string]*Counterpart)}
}

// Observe folds one transaction into the aggregates. Transactions without
// a counterpart identifier are ignored; there is nothing to key them on.
func (a *Aggregator) Observe(tx Transaction) {
	taxID := domain.NormalizeTaxID(tx.CounterpartTaxID)
	if taxID == "" {
		return
	}

	cp, ok := a.byTaxID[taxID]
	if !ok {
		cp = &Counterpart{
			TaxID:        taxID,
			EntityType:   domain.ClassifyTaxID(taxID),
			TotalsByType: make(map[domain.TransactionType]float64),
		}
		a.byTaxID[taxID] = cp
	}

	cp.TransactionCount++
	cp.TotalsByType[tx.Type] += tx.Amount

	if cp.Name == "" {
		cp.Name = tx.CounterpartName
	}
	if !tx.Date.IsZero() {
		if cp.FirstSeen.IsZero() || tx.Date.Before(cp.FirstSeen) {
			cp.FirstSeen = tx.Date
		}
		if tx.Date.After(cp.LastSeen) {
			cp.LastSeen = tx.Date
		}
	}
}

// Len returns the number of distinct counterparts observed
func (a *Aggregator) Len() int {
	return len(a.byTaxID)
}

// Counterparts returns the aggregates ordered by tax ID for deterministic
// persistence
func (a *Aggregator) Counterparts() []Counterpart {
	out := make([]Counterpart, 0, len(a.byTaxID))
	for _, cp := range a.byTaxID {
		out = append(out, *cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TaxID < out[j].TaxID
	})
	return out
}
