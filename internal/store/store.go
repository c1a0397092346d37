package store

import (
	"context"

	"github.com/openpolitica/politician-indexer/internal/store/schema"
)

// Sample is one offending row captured by a validation query
type Sample map[string]any

// Store defines the interface for database operations
type Store interface {
	// UpsertPolitician creates or updates a politician keyed by chamber_id.
	// The politician's ID is populated on return.
	UpsertPolitician(ctx context.Context, p *schema.Politician) error
	// GetPoliticianByChamberID retrieves a politician by roster identifier,
	// nil when absent
	GetPoliticianByChamberID(ctx context.Context, chamberID int64) (*schema.Politician, error)
	// ListPoliticians returns all politicians ordered by chamber_id
	ListPoliticians(ctx context.Context) ([]schema.Politician, error)

	// MergeCounterparts upserts aggregated counterpart rows. Counts, totals
	// and date bounds only ever move forward for the same tax ID.
	MergeCounterparts(ctx context.Context, counterparts []schema.FinancialCounterpart) error
	// UpsertFinancialRecords inserts records, silently skipping rows whose
	// external key already exists. Returns the number actually inserted.
	UpsertFinancialRecords(ctx context.Context, records []schema.FinancialRecord) (int64, error)

	// ReplaceMemberships swaps a politician's memberships of one type
	ReplaceMemberships(ctx context.Context, politicianID uint, membershipType string, memberships []schema.NetworkMembership) error
	// UpsertWealthSnapshots creates or updates per-year wealth totals
	UpsertWealthSnapshots(ctx context.Context, snapshots []schema.WealthSnapshot) error
	// WealthSnapshotYears returns the election years a politician has a
	// wealth snapshot for
	WealthSnapshotYears(ctx context.Context, politicianID uint) (map[int]bool, error)
	// ReplaceAssets swaps a politician's declared assets for one year
	ReplaceAssets(ctx context.Context, politicianID uint, year int, assets []schema.Asset) error
	// UpsertCareerMandates inserts mandates, skipping existing ones
	UpsertCareerMandates(ctx context.Context, mandates []schema.CareerMandate) error
	// UpsertEvents inserts event participations, skipping existing ones
	UpsertEvents(ctx context.Context, events []schema.Event) error
	// UpsertProfessionalRecords inserts records, skipping existing ones
	UpsertProfessionalRecords(ctx context.Context, records []schema.ProfessionalRecord) error

	// AppendProgress journals completed or failed pipeline units
	AppendProgress(ctx context.Context, entries []schema.ProgressLog) error
	// CompletedUnits returns the politician IDs already completed for a
	// run and stage
	CompletedUnits(ctx context.Context, runID, stage string) (map[uint]bool, error)
	// StageCompleted reports whether a stage-level completion entry exists
	StageCompleted(ctx context.Context, runID, stage string) (bool, error)

	// GetValue retrieves a state value, "" when absent
	GetValue(ctx context.Context, key string) (string, error)
	// SetValue stores a state value
	SetValue(ctx context.Context, key, value string) error

	// CountPoliticians returns total and TSE-linked politician counts
	CountPoliticians(ctx context.Context) (total int64, linked int64, err error)
	// MissingCPFs finds politicians without a usable CPF
	MissingCPFs(ctx context.Context, limit int) (int64, []Sample, error)
	// InvalidAmounts finds financial records with non-positive amounts
	InvalidAmounts(ctx context.Context, limit int) (int64, []Sample, error)
	// OrphanRows finds child rows referencing a politician that no longer
	// exists. table must be one of the politician-owned tables.
	OrphanRows(ctx context.Context, table string, limit int) (int64, []Sample, error)
	// CounterpartDrift finds counterparts whose stored totals disagree with
	// the sum of their financial records
	CounterpartDrift(ctx context.Context, limit int) (int64, []Sample, error)
	// WealthMismatches finds wealth snapshots whose total differs from the
	// sum of that year's assets by more than tolerance (a fraction)
	WealthMismatches(ctx context.Context, tolerance float64, limit int) (int64, []Sample, error)
	// AssetsWithoutSnapshot finds asset rows whose politician-year has no
	// wealth snapshot
	AssetsWithoutSnapshot(ctx context.Context, limit int) (int64, []Sample, error)
	// RecomputeCounterpartAggregates rebuilds counterpart totals from the
	// financial records, the auto-fix for counterpart drift
	RecomputeCounterpartAggregates(ctx context.Context) error
	// RecomputeWealthSnapshots rebuilds snapshot totals from the assets
	// table, the auto-fix for wealth mismatches
	RecomputeWealthSnapshots(ctx context.Context) error
	// SaveValidationIssues persists a validation run's findings
	SaveValidationIssues(ctx context.Context, issues []schema.ValidationIssue) error
}
