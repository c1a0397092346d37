package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openpolitica/politician-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates every table the indexer owns
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.Politician{},
		&schema.FinancialCounterpart{},
		&schema.FinancialRecord{},
		&schema.NetworkMembership{},
		&schema.WealthSnapshot{},
		&schema.Asset{},
		&schema.CareerMandate{},
		&schema.Event{},
		&schema.ProfessionalRecord{},
		&schema.ProgressLog{},
		&schema.KeyValueStore{},
		&schema.ValidationIssue{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. It accesses the underlying *sql.DB and sets the pool
// configuration. If any of the pool settings are 0, reasonable defaults are
// used.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings
// into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// calculateSafeBatchSize computes the batch size for bulk inserts that stays
// under PostgreSQL's extended-protocol limit of 65535 parameters per query.
// Each record consumes one parameter per inserted field, and ON CONFLICT
// clauses plus GORM bookkeeping add overhead, covered by a fixed headroom.
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000

	availableParams := maxParams - totalHeadroom
	safeBatchSize := max(availableParams/fieldsPerRecord, 1)

	if safeBatchSize > totalRecords {
		return totalRecords
	}

	return safeBatchSize
}

func (s *pgStore) UpsertPolitician(ctx context.Context, p *schema.Politician) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "chamber_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"cpf", "full_name", "normalized_name", "ballot_name", "party",
			"state", "gender", "birth_date", "education", "email", "photo_url",
			"tse_linked", "tse_sequence_id", "tse_latest_outcome",
			"tse_first_year", "tse_last_year", "tse_total_runs", "updated_at",
		}),
	}).Create(p).Error
	if err != nil {
		return fmt.Errorf("failed to upsert politician: %w", err)
	}

	// The upsert path does not always report the row's key
	if p.ID == 0 {
		var existing schema.Politician
		if err := s.db.WithContext(ctx).
			Where("chamber_id = ?", p.ChamberID).
			First(&existing).Error; err != nil {
			return fmt.Errorf("failed to get upserted politician: %w", err)
		}
		p.ID = existing.ID
	}

	return nil
}

func (s *pgStore) GetPoliticianByChamberID(ctx context.Context, chamberID int64) (*schema.Politician, error) {
	var p schema.Politician
	err := s.db.WithContext(ctx).Where("chamber_id = ?", chamberID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get politician: %w", err)
	}
	return &p, nil
}

func (s *pgStore) ListPoliticians(ctx context.Context) ([]schema.Politician, error) {
	var politicians []schema.Politician
	err := s.db.WithContext(ctx).Order("chamber_id").Find(&politicians).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list politicians: %w", err)
	}
	return politicians, nil
}

func (s *pgStore) MergeCounterparts(ctx context.Context, counterparts []schema.FinancialCounterpart) error {
	if len(counterparts) == 0 {
		return nil
	}

	// Aggregates only ever move forward: a run that saw fewer transactions
	// (filtered or interrupted) must not pull counts or totals back down
	batchSize := calculateSafeBatchSize(len(counterparts), 12)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tax_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"name":                         gorm.Expr("excluded.name"),
			"entity_type":                  gorm.Expr("excluded.entity_type"),
			"transaction_count":            gorm.Expr("GREATEST(financial_counterparts.transaction_count, excluded.transaction_count)"),
			"total_parliamentary_expenses": gorm.Expr("GREATEST(financial_counterparts.total_parliamentary_expenses, excluded.total_parliamentary_expenses)"),
			"total_campaign_donations":     gorm.Expr("GREATEST(financial_counterparts.total_campaign_donations, excluded.total_campaign_donations)"),
			"total_campaign_expenses":      gorm.Expr("GREATEST(financial_counterparts.total_campaign_expenses, excluded.total_campaign_expenses)"),
			"total_original_donations":     gorm.Expr("GREATEST(financial_counterparts.total_original_donations, excluded.total_original_donations)"),
			"first_transaction_date":       gorm.Expr("LEAST(financial_counterparts.first_transaction_date, excluded.first_transaction_date)"),
			"last_transaction_date":        gorm.Expr("GREATEST(financial_counterparts.last_transaction_date, excluded.last_transaction_date)"),
			"updated_at":                   gorm.Expr("excluded.updated_at"),
		}),
	}).CreateInBatches(counterparts, batchSize).Error
	if err != nil {
		return fmt.Errorf("failed to replace counterparts: %w", err)
	}

	return nil
}

func (s *pgStore) UpsertFinancialRecords(ctx context.Context, records []schema.FinancialRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batchSize := calculateSafeBatchSize(len(records), 11)
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "politician_id"}, {Name: "transaction_type"}, {Name: "external_id"}},
		DoNothing: true,
	}).CreateInBatches(records, batchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to upsert financial records: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (s *pgStore) ReplaceMemberships(ctx context.Context, politicianID uint, membershipType string, memberships []schema.NetworkMembership) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("politician_id = ? AND membership_type = ?", politicianID, membershipType).
			Delete(&schema.NetworkMembership{}).Error; err != nil {
			return fmt.Errorf("failed to clear memberships: %w", err)
		}
		if len(memberships) == 0 {
			return nil
		}
		batchSize := calculateSafeBatchSize(len(memberships), 9)
		if err := tx.CreateInBatches(memberships, batchSize).Error; err != nil {
			return fmt.Errorf("failed to insert memberships: %w", err)
		}
		return nil
	})
}

func (s *pgStore) UpsertWealthSnapshots(ctx context.Context, snapshots []schema.WealthSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "politician_id"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_declared", "asset_count", "updated_at"}),
	}).CreateInBatches(snapshots, calculateSafeBatchSize(len(snapshots), 6)).Error
	if err != nil {
		return fmt.Errorf("failed to upsert wealth snapshots: %w", err)
	}

	return nil
}

func (s *pgStore) WealthSnapshotYears(ctx context.Context, politicianID uint) (map[int]bool, error) {
	var years []int
	err := s.db.WithContext(ctx).Model(&schema.WealthSnapshot{}).
		Where("politician_id = ?", politicianID).
		Pluck("year", &years).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot years: %w", err)
	}

	out := make(map[int]bool, len(years))
	for _, year := range years {
		out[year] = true
	}
	return out, nil
}

func (s *pgStore) ReplaceAssets(ctx context.Context, politicianID uint, year int, assets []schema.Asset) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("politician_id = ? AND year = ?", politicianID, year).
			Delete(&schema.Asset{}).Error; err != nil {
			return fmt.Errorf("failed to clear assets: %w", err)
		}
		if len(assets) == 0 {
			return nil
		}
		batchSize := calculateSafeBatchSize(len(assets), 8)
		if err := tx.CreateInBatches(assets, batchSize).Error; err != nil {
			return fmt.Errorf("failed to insert assets: %w", err)
		}
		return nil
	})
}

func (s *pgStore) UpsertCareerMandates(ctx context.Context, mandates []schema.CareerMandate) error {
	if len(mandates) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "politician_id"}, {Name: "office"}, {Name: "start_year"}},
		DoNothing: true,
	}).CreateInBatches(mandates, calculateSafeBatchSize(len(mandates), 8)).Error
	if err != nil {
		return fmt.Errorf("failed to upsert career mandates: %w", err)
	}

	return nil
}

func (s *pgStore) UpsertEvents(ctx context.Context, events []schema.Event) error {
	if len(events) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "politician_id"}, {Name: "chamber_id"}},
		DoNothing: true,
	}).CreateInBatches(events, calculateSafeBatchSize(len(events), 9)).Error
	if err != nil {
		return fmt.Errorf("failed to upsert events: %w", err)
	}

	return nil
}

func (s *pgStore) UpsertProfessionalRecords(ctx context.Context, records []schema.ProfessionalRecord) error {
	if len(records) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "politician_id"}, {Name: "record_type"}, {Name: "title"}},
		DoNothing: true,
	}).CreateInBatches(records, calculateSafeBatchSize(len(records), 8)).Error
	if err != nil {
		return fmt.Errorf("failed to upsert professional records: %w", err)
	}

	return nil
}

func (s *pgStore) AppendProgress(ctx context.Context, entries []schema.ProgressLog) error {
	if len(entries) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).CreateInBatches(entries, calculateSafeBatchSize(len(entries), 6)).Error
	if err != nil {
		return fmt.Errorf("failed to append progress: %w", err)
	}

	return nil
}

func (s *pgStore) CompletedUnits(ctx context.Context, runID, stage string) (map[uint]bool, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&schema.ProgressLog{}).
		Where("run_id = ? AND stage = ? AND status = ? AND politician_id IS NOT NULL",
			runID, stage, schema.ProgressCompleted).
		Pluck("politician_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load completed units: %w", err)
	}

	completed := make(map[uint]bool, len(ids))
	for _, id := range ids {
		completed[id] = true
	}
	return completed, nil
}

func (s *pgStore) StageCompleted(ctx context.Context, runID, stage string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.ProgressLog{}).
		Where("run_id = ? AND stage = ? AND status = ? AND politician_id IS NULL",
			runID, stage, schema.ProgressCompleted).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check stage completion: %w", err)
	}
	return count > 0, nil
}

func (s *pgStore) GetValue(ctx context.Context, key string) (string, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get value: %w", err)
	}
	return kv.Value, nil
}

func (s *pgStore) SetValue(ctx context.Context, key, value string) error {
	kv := schema.KeyValueStore{Key: key, Value: value}
	if err := s.db.WithContext(ctx).Save(&kv).Error; err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}
	return nil
}
