package pipeline

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/openpolitica/politician-indexer/internal/adapter"
	"github.com/openpolitica/politician-indexer/internal/config"
	"github.com/openpolitica/politician-indexer/internal/correlate"
	"github.com/openpolitica/politician-indexer/internal/domain"
	"github.com/openpolitica/politician-indexer/internal/finance"
	"github.com/openpolitica/politician-indexer/internal/logger"
	"github.com/openpolitica/politician-indexer/internal/providers/chamber"
	"github.com/openpolitica/politician-indexer/internal/providers/tse"
	"github.com/openpolitica/politician-indexer/internal/store"
	"github.com/openpolitica/politician-indexer/internal/store/schema"
)

// lastRunKey is the key_value_store slot holding the resumable run ID
const lastRunKey = "populate:last_run"

// finishedStage is journaled once after the last stage so a completed run
// is never resumed
const finishedStage = "run_finished"

// Correlator matches a politician's CPF against electoral history
type Correlator interface {
	Correlate(ctx context.Context, cpf string, birthYear int) (*correlate.Result, error)
}

// Options narrow a population run
type Options struct {
	// Stages restricts the run to a subset, executed in canonical order.
	// Empty means all stages.
	Stages []string
	// IDs restricts the roster to specific chamber deputy IDs
	IDs []int64
	// YearFrom and YearTo bound the electoral years considered; zero means
	// unbounded
	YearFrom int
	YearTo   int
	// Resume continues the previous interrupted run instead of starting
	// a fresh one
	Resume bool
}

// StageReport counts the outcomes of one stage
type StageReport struct {
	Stage     domain.Stage
	Processed int
	Skipped   int
	Failed    int
	Elapsed   time.Duration
}

// RunReport summarizes a whole population run
type RunReport struct {
	RunID           string
	Stages          []StageReport
	Politicians     int64
	Linked          int64
	CorrelationRate float64
	Elapsed         time.Duration
}

// Orchestrator drives the fixed-order population pipeline. Stages run
// strictly one after another; inside a stage, politicians are processed in
// batches on a worker pool with per-politician error isolation.
type Orchestrator struct {
	cfg        config.PipelineConfig
	store      store.Store
	chamber    chamber.Client
	correlator Correlator
	discovery  tse.Discovery
	datasets   tse.Datasets
	clock      adapter.Clock
}

// NewOrchestrator wires the pipeline's collaborators
func NewOrchestrator(cfg config.PipelineConfig, st store.Store, chamberClient chamber.Client, correlator Correlator, discovery tse.Discovery, datasets tse.Datasets, clock adapter.Clock) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		store:      st,
		chamber:    chamberClient,
		correlator: correlator,
		discovery:  discovery,
		datasets:   datasets,
		clock:      clock,
	}
}

// runState carries per-run caches shared across stages. Correlation and
// transaction extraction are expensive, so each politician pays for them
// once per run no matter how many stages consume the result.
type runState struct {
	runID string
	opts  Options

	mu           sync.Mutex
	correlations map[uint]*correlate.Result
	transactions map[uint][]finance.Transaction
}

// Run executes the pipeline and returns a report. A canceled context stops
// the run between units; journaled progress lets the next invocation resume.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*RunReport, error) {
	started := o.clock.Now()

	// An unreachable catalog would fail every politician identically, so
	// it aborts the run up front. The listing is cached for correlation.
	if _, err := o.discovery.AvailableYears(ctx, domain.DatasetCandidates); err != nil {
		return nil, fmt.Errorf("dataset catalog preflight: %w", err)
	}

	runID, err := o.resolveRunID(ctx, opts.Resume)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Starting population run",
		zap.String("run_id", runID),
		zap.Bool("resume", opts.Resume),
		zap.Int("batch_size", o.cfg.BatchSize),
		zap.Int("worker_pool_size", o.cfg.WorkerPoolSize),
	)

	state := &runState{
		runID:        runID,
		opts:         opts,
		correlations: make(map[uint]*correlate.Result),
		transactions: make(map[uint][]finance.Transaction),
	}

	report := &RunReport{RunID: runID}
	for _, stage := range domain.StageOrder {
		if !stageSelected(opts.Stages, stage) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		done, err := o.store.StageCompleted(ctx, runID, string(stage))
		if err != nil {
			return report, err
		}
		if done {
			logger.InfoCtx(ctx, "Stage already completed, skipping",
				zap.String("run_id", runID), zap.String("stage", string(stage)))
			continue
		}

		stageReport, err := o.runStage(ctx, state, stage)
		report.Stages = append(report.Stages, stageReport)
		if err != nil {
			return report, fmt.Errorf("stage %s: %w", stage, err)
		}

		if err := o.store.AppendProgress(ctx, []schema.ProgressLog{{
			RunID:  runID,
			Stage:  string(stage),
			Status: schema.ProgressCompleted,
		}}); err != nil {
			return report, err
		}

		logger.InfoCtx(ctx, "Stage completed",
			zap.String("run_id", runID),
			zap.String("stage", string(stage)),
			zap.Int("processed", stageReport.Processed),
			zap.Int("skipped", stageReport.Skipped),
			zap.Int("failed", stageReport.Failed),
			zap.Duration("elapsed", stageReport.Elapsed),
		)
	}

	total, linked, err := o.store.CountPoliticians(ctx)
	if err != nil {
		return report, err
	}
	report.Politicians = total
	report.Linked = linked
	if total > 0 {
		report.CorrelationRate = float64(linked) / float64(total)
	}
	report.Elapsed = o.clock.Since(started)

	// Full runs are marked finished so resume starts fresh next time
	if len(opts.Stages) == 0 {
		if err := o.store.AppendProgress(ctx, []schema.ProgressLog{{
			RunID:  runID,
			Stage:  finishedStage,
			Status: schema.ProgressCompleted,
		}}); err != nil {
			return report, err
		}
	}

	logger.InfoCtx(ctx, "Population run finished",
		zap.String("run_id", runID),
		zap.Int64("politicians", total),
		zap.Int64("linked", linked),
		zap.Float64("correlation_rate", report.CorrelationRate),
		zap.Duration("elapsed", report.Elapsed),
	)

	return report, nil
}

// resolveRunID reuses the previous unfinished run when resuming, otherwise
// mints a fresh ULID and records it
func (o *Orchestrator) resolveRunID(ctx context.Context, resume bool) (string, error) {
	if resume {
		previous, err := o.store.GetValue(ctx, lastRunKey)
		if err != nil {
			return "", err
		}
		if previous != "" {
			finished, err := o.store.StageCompleted(ctx, previous, finishedStage)
			if err != nil {
				return "", err
			}
			if !finished {
				return previous, nil
			}
		}
	}

	runID := ulid.MustNew(ulid.Timestamp(o.clock.Now()), rand.Reader).String()
	if err := o.store.SetValue(ctx, lastRunKey, runID); err != nil {
		return "", err
	}
	return runID, nil
}

func (o *Orchestrator) runStage(ctx context.Context, state *runState, stage domain.Stage) (StageReport, error) {
	started := o.clock.Now()

	// Stages that read TSE archives register the correlated candidacies
	// first so the dataset caches retain only rows the run can use
	switch stage {
	case domain.StageCounterparts, domain.StageFinancialRecords,
		domain.StageWealthSnapshots, domain.StageAssets:
		if err := o.trackCandidacies(ctx, state); err != nil {
			return StageReport{Stage: stage}, err
		}
	}

	var report StageReport
	var err error
	switch stage {
	case domain.StagePoliticians:
		report, err = o.stagePoliticians(ctx, state)
	case domain.StageCounterparts:
		report, err = o.stageCounterparts(ctx, state)
	case domain.StageFinancialRecords:
		report, err = o.forEachPolitician(ctx, state, stage, o.unitFinancialRecords(state))
	case domain.StageNetworkMemberships:
		report, err = o.forEachPolitician(ctx, state, stage, o.unitMemberships)
	case domain.StageWealthSnapshots:
		report, err = o.forEachPolitician(ctx, state, stage, o.unitWealthSnapshots(state))
	case domain.StageAssets:
		report, err = o.forEachPolitician(ctx, state, stage, o.unitAssets(state))
	case domain.StageCareerMandates:
		report, err = o.forEachPolitician(ctx, state, stage, o.unitCareerMandates)
	case domain.StageEvents:
		report, err = o.forEachPolitician(ctx, state, stage, o.unitEvents)
	case domain.StageProfessionalRecords:
		report, err = o.forEachPolitician(ctx, state, stage, o.unitProfessionalRecords)
	default:
		return StageReport{Stage: stage}, fmt.Errorf("%w: %s", domain.ErrStageOrder, stage)
	}

	report.Stage = stage
	report.Elapsed = o.clock.Since(started)
	return report, err
}

func stageSelected(selected []string, stage domain.Stage) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == string(stage) {
			return true
		}
	}
	return false
}
