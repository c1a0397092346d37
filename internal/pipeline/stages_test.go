package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpolitica/politician-indexer/internal/domain"
	"github.com/openpolitica/politician-indexer/internal/finance"
	"github.com/openpolitica/politician-indexer/internal/store"
	"github.com/openpolitica/politician-indexer/internal/store/schema"
)

// recordCaptureStore satisfies store.Store for the one method the records
// unit touches; the promoted nil methods are never called
type recordCaptureStore struct {
	store.Store
	inserted []schema.FinancialRecord
}

func (s *recordCaptureStore) UpsertFinancialRecords(_ context.Context, records []schema.FinancialRecord) (int64, error) {
	s.inserted = append(s.inserted, records...)
	return int64(len(records)), nil
}

func TestUnitFinancialRecords_ReleasesCachedTransactions(t *testing.T) {
	st := &recordCaptureStore{}
	o := &Orchestrator{store: st}

	state := &runState{
		transactions: map[uint][]finance.Transaction{7: {{
			PoliticianID: 7,
			Source:       domain.SourceChamber,
			Type:         domain.TransactionParliamentaryExpense,
			Amount:       412.77,
			Year:         2023,
			ExternalID:   "900100",
		}}},
	}

	p := schema.Politician{ChamberID: 42}
	p.ID = 7
	require.NoError(t, o.unitFinancialRecords(state)(context.Background(), &p))

	assert.Len(t, st.inserted, 1)
	assert.Empty(t, state.transactions,
		"persisted transactions must not stay resident for later stages")
}
