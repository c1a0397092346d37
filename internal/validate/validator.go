package validate

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/openpolitica/politician-indexer/internal/adapter"
	"github.com/openpolitica/politician-indexer/internal/config"
	"github.com/openpolitica/politician-indexer/internal/logger"
	"github.com/openpolitica/politician-indexer/internal/store"
	"github.com/openpolitica/politician-indexer/internal/store/schema"
)

// Severity ranks a validation finding
type Severity string

const (
	// SeverityError marks integrity violations that demand attention
	SeverityError Severity = "ERROR"
	// SeverityWarning marks suspicious but tolerable findings
	SeverityWarning Severity = "WARNING"
)

// Issue is one validation finding
type Issue struct {
	ID           string
	Severity     Severity
	Table        string
	Check        string
	AffectedRows int64
	Samples      []store.Sample
	// Fixable reports whether the auto-fix pass can repair this check
	Fixable bool
	// Fixed reports whether the repair ran and the re-check came back clean
	Fixed bool
}

// Report is the outcome of one validation run
type Report struct {
	RunID           string
	Issues          []Issue
	CorrelationRate float64
	FixesApplied    int
	// Healthy means no ERROR-severity issue remains
	Healthy bool
}

// orphanTables are the politician-owned tables checked for orphaned rows
var orphanTables = []string{
	"financial_records",
	"network_memberships",
	"wealth_snapshots",
	"assets",
	"career_mandates",
	"events",
	"professional_records",
}

// Validator runs integrity checks over the populated tables. The auto-fix
// pass is restricted to recomputing derived aggregates; it never touches
// source-of-truth rows.
type Validator struct {
	store store.Store
	cfg   config.ValidationConfig
	clock adapter.Clock
}

// New creates a validator
func New(st store.Store, cfg config.ValidationConfig, clock adapter.Clock) *Validator {
	return &Validator{store: st, cfg: cfg, clock: clock}
}

// Run executes all checks and, when fix is set, repairs the fixable findings
// and re-checks them. Findings are persisted for audit.
func (v *Validator) Run(ctx context.Context, fix bool) (*Report, error) {
	report := &Report{
		RunID: ulid.MustNew(ulid.Timestamp(v.clock.Now()), rand.Reader).String(),
	}

	logger.InfoCtx(ctx, "Starting validation run",
		zap.String("run_id", report.RunID), zap.Bool("fix", fix))

	if err := v.checkPoliticians(ctx, report); err != nil {
		return nil, err
	}
	if err := v.checkAmounts(ctx, report); err != nil {
		return nil, err
	}
	if err := v.checkOrphans(ctx, report); err != nil {
		return nil, err
	}
	if err := v.checkCounterpartDrift(ctx, report, fix); err != nil {
		return nil, err
	}
	if err := v.checkWealth(ctx, report, fix); err != nil {
		return nil, err
	}
	if err := v.checkAssetCoverage(ctx, report); err != nil {
		return nil, err
	}
	if err := v.checkCorrelationHealth(ctx, report); err != nil {
		return nil, err
	}

	report.Healthy = true
	for _, issue := range report.Issues {
		if issue.Severity == SeverityError && !issue.Fixed {
			report.Healthy = false
			break
		}
	}

	if err := v.persist(ctx, report); err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Validation run finished",
		zap.String("run_id", report.RunID),
		zap.Int("issues", len(report.Issues)),
		zap.Int("fixes_applied", report.FixesApplied),
		zap.Bool("healthy", report.Healthy),
	)

	return report, nil
}

func (v *Validator) addIssue(report *Report, severity Severity, table, check string, affected int64, samples []store.Sample, fixable bool) *Issue {
	issue := Issue{
		ID:           uuid.NewString(),
		Severity:     severity,
		Table:        table,
		Check:        check,
		AffectedRows: affected,
		Samples:      samples,
		Fixable:      fixable,
	}
	report.Issues = append(report.Issues, issue)
	return &report.Issues[len(report.Issues)-1]
}

func (v *Validator) checkPoliticians(ctx context.Context, report *Report) error {
	count, samples, err := v.store.MissingCPFs(ctx, v.cfg.IssueSamplesPerCheck)
	if err != nil {
		return fmt.Errorf("missing CPF check: %w", err)
	}
	if count > 0 {
		v.addIssue(report, SeverityWarning, "politicians", "missing_cpf", count, samples, false)
	}
	return nil
}

func (v *Validator) checkAmounts(ctx context.Context, report *Report) error {
	count, samples, err := v.store.InvalidAmounts(ctx, v.cfg.IssueSamplesPerCheck)
	if err != nil {
		return fmt.Errorf("amount check: %w", err)
	}
	if count > 0 {
		v.addIssue(report, SeverityError, "financial_records", "non_positive_amount", count, samples, false)
	}
	return nil
}

func (v *Validator) checkOrphans(ctx context.Context, report *Report) error {
	for _, table := range orphanTables {
		count, samples, err := v.store.OrphanRows(ctx, table, v.cfg.IssueSamplesPerCheck)
		if err != nil {
			return fmt.Errorf("orphan check on %s: %w", table, err)
		}
		if count > 0 {
			v.addIssue(report, SeverityError, table, "orphaned_rows", count, samples, false)
		}
	}
	return nil
}

func (v *Validator) checkCounterpartDrift(ctx context.Context, report *Report, fix bool) error {
	count, samples, err := v.store.CounterpartDrift(ctx, v.cfg.IssueSamplesPerCheck)
	if err != nil {
		return fmt.Errorf("counterpart drift check: %w", err)
	}
	if count == 0 {
		return nil
	}

	issue := v.addIssue(report, SeverityError, "financial_counterparts", "aggregate_drift", count, samples, true)
	if !fix {
		return nil
	}

	if err := v.store.RecomputeCounterpartAggregates(ctx); err != nil {
		return fmt.Errorf("counterpart aggregate fix: %w", err)
	}
	remaining, _, err := v.store.CounterpartDrift(ctx, 1)
	if err != nil {
		return fmt.Errorf("counterpart drift re-check: %w", err)
	}
	if remaining == 0 {
		issue.Fixed = true
		report.FixesApplied++
	}
	return nil
}

func (v *Validator) checkWealth(ctx context.Context, report *Report, fix bool) error {
	count, samples, err := v.store.WealthMismatches(ctx, v.cfg.WealthTolerance, v.cfg.IssueSamplesPerCheck)
	if err != nil {
		return fmt.Errorf("wealth mismatch check: %w", err)
	}
	if count == 0 {
		return nil
	}

	issue := v.addIssue(report, SeverityWarning, "wealth_snapshots", "total_mismatch", count, samples, true)
	if !fix {
		return nil
	}

	if err := v.store.RecomputeWealthSnapshots(ctx); err != nil {
		return fmt.Errorf("wealth snapshot fix: %w", err)
	}
	remaining, _, err := v.store.WealthMismatches(ctx, v.cfg.WealthTolerance, 1)
	if err != nil {
		return fmt.Errorf("wealth mismatch re-check: %w", err)
	}
	if remaining == 0 {
		issue.Fixed = true
		report.FixesApplied++
	}
	return nil
}

// checkAssetCoverage finds asset rows whose politician-year never got a
// wealth snapshot. Assets break a snapshot down, so a row without one means
// the asset stage ran out of order.
func (v *Validator) checkAssetCoverage(ctx context.Context, report *Report) error {
	count, samples, err := v.store.AssetsWithoutSnapshot(ctx, v.cfg.IssueSamplesPerCheck)
	if err != nil {
		return fmt.Errorf("asset coverage check: %w", err)
	}
	if count > 0 {
		v.addIssue(report, SeverityError, "assets", "missing_wealth_snapshot", count, samples, false)
	}
	return nil
}

func (v *Validator) checkCorrelationHealth(ctx context.Context, report *Report) error {
	total, linked, err := v.store.CountPoliticians(ctx)
	if err != nil {
		return fmt.Errorf("correlation health check: %w", err)
	}
	if total == 0 {
		return nil
	}

	report.CorrelationRate = float64(linked) / float64(total)
	if report.CorrelationRate < v.cfg.MinCorrelationRate {
		v.addIssue(report, SeverityWarning, "politicians", "low_correlation_rate", total-linked, nil, false)
	}
	return nil
}

func (v *Validator) persist(ctx context.Context, report *Report) error {
	rows := make([]schema.ValidationIssue, 0, len(report.Issues))
	for _, issue := range report.Issues {
		row := schema.ValidationIssue{
			ID:           issue.ID,
			RunID:        report.RunID,
			Severity:     string(issue.Severity),
			Table:        issue.Table,
			Check:        issue.Check,
			AffectedRows: issue.AffectedRows,
			Fixed:        issue.Fixed,
		}
		if len(issue.Samples) > 0 {
			raw, err := json.Marshal(issue.Samples)
			if err != nil {
				return fmt.Errorf("failed to encode issue samples: %w", err)
			}
			row.Samples = datatypes.JSON(raw)
		}
		rows = append(rows, row)
	}
	return v.store.SaveValidationIssues(ctx, rows)
}
