package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/openpolitica/politician-indexer/internal/store/schema"
)

// orphanableTables maps politician-owned tables validated for orphan rows
var orphanableTables = map[string]bool{
	"financial_records":    true,
	"network_memberships":  true,
	"wealth_snapshots":     true,
	"assets":               true,
	"career_mandates":      true,
	"events":               true,
	"professional_records": true,
}

const counterpartDriftQuery = `
SELECT c.tax_id, c.transaction_count AS stored_count, COALESCE(r.cnt, 0) AS actual_count,
       (c.total_parliamentary_expenses + c.total_campaign_donations +
        c.total_campaign_expenses + c.total_original_donations) AS stored_total,
       COALESCE(r.total, 0) AS actual_total
FROM financial_counterparts c
LEFT JOIN (
    SELECT counterpart_tax_id, COUNT(*) AS cnt, SUM(amount) AS total
    FROM financial_records
    GROUP BY counterpart_tax_id
) r ON r.counterpart_tax_id = c.tax_id
WHERE c.transaction_count <> COALESCE(r.cnt, 0)
   OR ABS((c.total_parliamentary_expenses + c.total_campaign_donations +
           c.total_campaign_expenses + c.total_original_donations) - COALESCE(r.total, 0)) > 0.01`

const wealthMismatchQuery = `
SELECT w.politician_id, w.year, w.total_declared, COALESCE(a.total, 0) AS assets_total
FROM wealth_snapshots w
LEFT JOIN (
    SELECT politician_id, year, SUM(value) AS total
    FROM assets
    GROUP BY politician_id, year
) a ON a.politician_id = w.politician_id AND a.year = w.year
WHERE ABS(w.total_declared - COALESCE(a.total, 0)) > ? * GREATEST(ABS(w.total_declared), 1)`

const assetsWithoutSnapshotQuery = `
SELECT a.politician_id, a.year, COUNT(*) AS asset_rows
FROM assets a
LEFT JOIN wealth_snapshots w ON w.politician_id = a.politician_id AND w.year = a.year
WHERE w.id IS NULL
GROUP BY a.politician_id, a.year`

func (s *pgStore) CountPoliticians(ctx context.Context) (int64, int64, error) {
	var total, linked int64
	if err := s.db.WithContext(ctx).Model(&schema.Politician{}).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count politicians: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&schema.Politician{}).
		Where("tse_linked = true").Count(&linked).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count linked politicians: %w", err)
	}
	return total, linked, nil
}

func (s *pgStore) MissingCPFs(ctx context.Context, limit int) (int64, []Sample, error) {
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&schema.Politician{}).
			Where("cpf = '' OR LENGTH(cpf) <> 11")
	}

	var count int64
	if err := base().Count(&count).Error; err != nil {
		return 0, nil, fmt.Errorf("failed to count missing CPFs: %w", err)
	}

	samples, err := s.collectSamples(base().Select("id", "chamber_id", "full_name", "cpf"), limit)
	if err != nil {
		return 0, nil, err
	}
	return count, samples, nil
}

func (s *pgStore) InvalidAmounts(ctx context.Context, limit int) (int64, []Sample, error) {
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&schema.FinancialRecord{}).
			Where("amount <= 0")
	}

	var count int64
	if err := base().Count(&count).Error; err != nil {
		return 0, nil, fmt.Errorf("failed to count invalid amounts: %w", err)
	}

	samples, err := s.collectSamples(base().Select("id", "politician_id", "transaction_type", "amount"), limit)
	if err != nil {
		return 0, nil, err
	}
	return count, samples, nil
}

func (s *pgStore) OrphanRows(ctx context.Context, table string, limit int) (int64, []Sample, error) {
	if !orphanableTables[table] {
		return 0, nil, fmt.Errorf("table %s is not validated for orphans", table)
	}

	// table is whitelisted above, never caller-controlled SQL
	base := fmt.Sprintf(
		"FROM %s t LEFT JOIN politicians p ON p.id = t.politician_id WHERE p.id IS NULL", table)

	var count int64
	if err := s.db.WithContext(ctx).Raw("SELECT COUNT(*) " + base).Scan(&count).Error; err != nil {
		return 0, nil, fmt.Errorf("failed to count orphans in %s: %w", table, err)
	}

	var rows []map[string]interface{}
	err := s.db.WithContext(ctx).
		Raw(fmt.Sprintf("SELECT t.id, t.politician_id %s LIMIT %d", base, limit)).
		Scan(&rows).Error
	if err != nil {
		return 0, nil, fmt.Errorf("failed to sample orphans in %s: %w", table, err)
	}

	return count, toSamples(rows), nil
}

func (s *pgStore) CounterpartDrift(ctx context.Context, limit int) (int64, []Sample, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM (" + counterpartDriftQuery + ") q").
		Scan(&count).Error
	if err != nil {
		return 0, nil, fmt.Errorf("failed to count counterpart drift: %w", err)
	}

	var rows []map[string]interface{}
	err = s.db.WithContext(ctx).
		Raw(fmt.Sprintf("%s LIMIT %d", counterpartDriftQuery, limit)).
		Scan(&rows).Error
	if err != nil {
		return 0, nil, fmt.Errorf("failed to sample counterpart drift: %w", err)
	}

	return count, toSamples(rows), nil
}

func (s *pgStore) WealthMismatches(ctx context.Context, tolerance float64, limit int) (int64, []Sample, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM ("+wealthMismatchQuery+") q", tolerance).
		Scan(&count).Error
	if err != nil {
		return 0, nil, fmt.Errorf("failed to count wealth mismatches: %w", err)
	}

	var rows []map[string]interface{}
	err = s.db.WithContext(ctx).
		Raw(fmt.Sprintf("%s LIMIT %d", wealthMismatchQuery, limit), tolerance).
		Scan(&rows).Error
	if err != nil {
		return 0, nil, fmt.Errorf("failed to sample wealth mismatches: %w", err)
	}

	return count, toSamples(rows), nil
}

func (s *pgStore) AssetsWithoutSnapshot(ctx context.Context, limit int) (int64, []Sample, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM assets a
LEFT JOIN wealth_snapshots w ON w.politician_id = a.politician_id AND w.year = a.year
WHERE w.id IS NULL`).
		Scan(&count).Error
	if err != nil {
		return 0, nil, fmt.Errorf("failed to count assets without snapshot: %w", err)
	}

	var rows []map[string]interface{}
	err = s.db.WithContext(ctx).
		Raw(fmt.Sprintf("%s LIMIT %d", assetsWithoutSnapshotQuery, limit)).
		Scan(&rows).Error
	if err != nil {
		return 0, nil, fmt.Errorf("failed to sample assets without snapshot: %w", err)
	}

	return count, toSamples(rows), nil
}

func (s *pgStore) RecomputeCounterpartAggregates(ctx context.Context) error {
	const query = `
UPDATE financial_counterparts c SET
    transaction_count = q.cnt,
    total_parliamentary_expenses = q.pe,
    total_campaign_donations = q.cd,
    total_campaign_expenses = q.ce,
    total_original_donations = q.od,
    first_transaction_date = q.first_date,
    last_transaction_date = q.last_date,
    updated_at = NOW()
FROM (
    SELECT counterpart_tax_id,
        COUNT(*) AS cnt,
        COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'parliamentary_expense'), 0) AS pe,
        COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'campaign_donation'), 0) AS cd,
        COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'campaign_expense'), 0) AS ce,
        COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'original_donation'), 0) AS od,
        MIN(date) AS first_date,
        MAX(date) AS last_date
    FROM financial_records
    GROUP BY counterpart_tax_id
) q
WHERE q.counterpart_tax_id = c.tax_id`

	if err := s.db.WithContext(ctx).Exec(query).Error; err != nil {
		return fmt.Errorf("failed to recompute counterpart aggregates: %w", err)
	}
	return nil
}

func (s *pgStore) RecomputeWealthSnapshots(ctx context.Context) error {
	const query = `
UPDATE wealth_snapshots w SET
    total_declared = q.total,
    asset_count = q.cnt,
    updated_at = NOW()
FROM (
    SELECT politician_id, year, COALESCE(SUM(value), 0) AS total, COUNT(*) AS cnt
    FROM assets
    GROUP BY politician_id, year
) q
WHERE q.politician_id = w.politician_id AND q.year = w.year`

	if err := s.db.WithContext(ctx).Exec(query).Error; err != nil {
		return fmt.Errorf("failed to recompute wealth snapshots: %w", err)
	}
	return nil
}

func (s *pgStore) SaveValidationIssues(ctx context.Context, issues []schema.ValidationIssue) error {
	if len(issues) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).CreateInBatches(issues, calculateSafeBatchSize(len(issues), 9)).Error
	if err != nil {
		return fmt.Errorf("failed to save validation issues: %w", err)
	}
	return nil
}

// collectSamples runs the prepared query with a row limit and flattens the
// rows into samples
func (s *pgStore) collectSamples(query *gorm.DB, limit int) ([]Sample, error) {
	var rows []map[string]interface{}
	if err := query.Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to collect samples: %w", err)
	}
	return toSamples(rows), nil
}

func toSamples(rows []map[string]interface{}) []Sample {
	samples := make([]Sample, 0, len(rows))
	for _, row := range rows {
		samples = append(samples, Sample(row))
	}
	return samples
}
