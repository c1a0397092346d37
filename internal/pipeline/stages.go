package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/openpolitica/politician-indexer/internal/correlate"
	"github.com/openpolitica/politician-indexer/internal/domain"
	"github.com/openpolitica/politician-indexer/internal/finance"
	"github.com/openpolitica/politician-indexer/internal/logger"
	"github.com/openpolitica/politician-indexer/internal/providers/chamber"
	"github.com/openpolitica/politician-indexer/internal/providers/tse"
	"github.com/openpolitica/politician-indexer/internal/store/schema"
)

// unitFunc processes one politician inside a stage
type unitFunc func(ctx context.Context, p *schema.Politician) error

// journal buffers progress entries and flushes them every checkpoint
// interval, bounding the work lost to a crash
type journal struct {
	mu       sync.Mutex
	pending  []schema.ProgressLog
	interval int
}

func (j *journal) add(entry schema.ProgressLog) []schema.ProgressLog {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pending = append(j.pending, entry)
	if len(j.pending) < j.interval {
		return nil
	}
	flush := j.pending
	j.pending = nil
	return flush
}

func (j *journal) drain() []schema.ProgressLog {
	j.mu.Lock()
	defer j.mu.Unlock()
	flush := j.pending
	j.pending = nil
	return flush
}

// stagePoliticians fetches the roster, correlates each deputy against
// electoral history by CPF and upserts the merged record
func (o *Orchestrator) stagePoliticians(ctx context.Context, state *runState) (StageReport, error) {
	deputies, err := o.chamber.ListDeputies(ctx)
	if err != nil {
		return StageReport{}, fmt.Errorf("failed to list deputies: %w", err)
	}
	deputies = filterDeputies(deputies, state.opts.IDs)

	// Map already persisted deputies so resumed runs can skip them
	existing, err := o.store.ListPoliticians(ctx)
	if err != nil {
		return StageReport{}, err
	}
	byChamber := make(map[int64]uint, len(existing))
	for _, p := range existing {
		byChamber[p.ChamberID] = p.ID
	}

	completed, err := o.store.CompletedUnits(ctx, state.runID, string(domain.StagePoliticians))
	if err != nil {
		return StageReport{}, err
	}

	var report StageReport
	var mu sync.Mutex
	j := &journal{interval: o.cfg.CheckpointInterval}

	for start := 0; start < len(deputies); start += o.cfg.BatchSize {
		if ctx.Err() != nil {
			break
		}
		end := min(start+o.cfg.BatchSize, len(deputies))

		pool := pond.NewPool(o.cfg.WorkerPoolSize,
			pond.WithQueueSize(o.cfg.BatchSize),
			pond.WithContext(ctx),
		)
		for _, deputy := range deputies[start:end] {
			if id, ok := byChamber[deputy.ID]; ok && completed[id] {
				mu.Lock()
				report.Skipped++
				mu.Unlock()
				continue
			}

			pool.Submit(func() {
				politicianID, err := o.processDeputy(ctx, state, deputy.ID)

				mu.Lock()
				defer mu.Unlock()
				entry := schema.ProgressLog{
					RunID: state.runID,
					Stage: string(domain.StagePoliticians),
				}
				if politicianID != 0 {
					entry.PoliticianID = &politicianID
				}
				if err != nil {
					report.Failed++
					entry.Status = schema.ProgressFailed
					entry.Detail = err.Error()
					logger.ErrorCtx(ctx, fmt.Errorf("failed to process deputy %d: %w", deputy.ID, err))
				} else {
					report.Processed++
					entry.Status = schema.ProgressCompleted
				}
				if flush := j.add(entry); flush != nil {
					if err := o.store.AppendProgress(ctx, flush); err != nil {
						logger.ErrorCtx(ctx, fmt.Errorf("failed to checkpoint progress: %w", err))
					}
				}
			})
		}
		pool.StopAndWait()
	}

	// The drain runs on a detached context so an interrupt still
	// checkpoints the units that finished
	if flush := j.drain(); flush != nil {
		if err := o.store.AppendProgress(context.WithoutCancel(ctx), flush); err != nil {
			return report, err
		}
	}

	return report, ctx.Err()
}

// processDeputy merges one deputy's roster record with its correlated
// electoral history and persists the result
func (o *Orchestrator) processDeputy(ctx context.Context, state *runState, deputyID int64) (uint, error) {
	detail, err := o.chamber.GetDeputy(ctx, deputyID)
	if err != nil {
		return 0, err
	}

	p := &schema.Politician{
		ChamberID:      detail.ID,
		CPF:            domain.NormalizeTaxID(detail.CPF),
		FullName:       detail.CivilName,
		NormalizedName: domain.NormalizeName(detail.CivilName),
		BallotName:     detail.Status.Name,
		Party:          detail.Status.Party,
		State:          detail.Status.State,
		Gender:         detail.Sex,
		Education:      detail.Education,
		Email:          detail.Status.Email,
		PhotoURL:       detail.Status.PhotoURL,
	}
	if birth, err := time.Parse("2006-01-02", detail.BirthDate); err == nil {
		p.BirthDate = &birth
	}

	result, err := o.correlateCPF(ctx, p)
	if err != nil {
		return 0, err
	}

	p.TSELinked = result.TSELinked
	p.TSETotalRuns = result.TotalRuns
	if result.TSELinked {
		p.TSEFirstYear = &result.FirstYear
		p.TSELastYear = &result.LastYear
		p.TSESequenceID = &result.MostRecent.SequenceID
		if result.MostRecent.Outcome != "" {
			p.TSELatestOutcome = &result.MostRecent.Outcome
		}
	}

	if err := o.store.UpsertPolitician(ctx, p); err != nil {
		return 0, err
	}

	state.mu.Lock()
	state.correlations[p.ID] = result
	state.mu.Unlock()

	return p.ID, nil
}

// stageCounterparts folds every politician's transactions into one shared
// aggregator and merges the result into the counterpart table
func (o *Orchestrator) stageCounterparts(ctx context.Context, state *runState) (StageReport, error) {
	agg := finance.NewAggregator()
	var aggMu sync.Mutex

	report, err := o.forEachPolitician(ctx, state, domain.StageCounterparts, func(ctx context.Context, p *schema.Politician) error {
		txs, err := o.transactionsFor(ctx, state, p)
		if err != nil {
			return err
		}
		aggMu.Lock()
		for _, tx := range txs {
			agg.Observe(tx)
		}
		aggMu.Unlock()
		return nil
	})
	if err != nil {
		return report, err
	}

	counterparts := agg.Counterparts()
	rows := make([]schema.FinancialCounterpart, 0, len(counterparts))
	for _, cp := range counterparts {
		rows = append(rows, counterpartRow(cp))
	}
	if err := o.store.MergeCounterparts(ctx, rows); err != nil {
		return report, err
	}

	logger.InfoCtx(ctx, "Merged counterpart aggregates", zap.Int("counterparts", len(rows)))
	return report, nil
}

func counterpartRow(cp finance.Counterpart) schema.FinancialCounterpart {
	row := schema.FinancialCounterpart{
		TaxID:                      cp.TaxID,
		Name:                       cp.Name,
		EntityType:                 schema.EntityType(cp.EntityType),
		TransactionCount:           cp.TransactionCount,
		TotalParliamentaryExpenses: cp.TotalsByType[domain.TransactionParliamentaryExpense],
		TotalCampaignDonations:     cp.TotalsByType[domain.TransactionCampaignDonation],
		TotalCampaignExpenses:      cp.TotalsByType[domain.TransactionCampaignExpense],
		TotalOriginalDonations:     cp.TotalsByType[domain.TransactionOriginalDonation],
	}
	if !cp.FirstSeen.IsZero() {
		first, last := cp.FirstSeen, cp.LastSeen
		row.FirstTransactionDate = &first
		row.LastTransactionDate = &last
	}
	return row
}

// forEachPolitician runs one unit function over every stored politician with
// batching, a worker pool, checkpointing and per-politician error isolation.
// One politician failing never stops the stage.
func (o *Orchestrator) forEachPolitician(ctx context.Context, state *runState, stage domain.Stage, unit unitFunc) (StageReport, error) {
	politicians, err := o.store.ListPoliticians(ctx)
	if err != nil {
		return StageReport{}, err
	}
	politicians = filterPoliticians(politicians, state.opts.IDs)

	completed, err := o.store.CompletedUnits(ctx, state.runID, string(stage))
	if err != nil {
		return StageReport{}, err
	}

	var report StageReport
	var mu sync.Mutex
	j := &journal{interval: o.cfg.CheckpointInterval}

	for start := 0; start < len(politicians); start += o.cfg.BatchSize {
		if ctx.Err() != nil {
			break
		}
		end := min(start+o.cfg.BatchSize, len(politicians))

		pool := pond.NewPool(o.cfg.WorkerPoolSize,
			pond.WithQueueSize(o.cfg.BatchSize),
			pond.WithContext(ctx),
		)
		for i := range politicians[start:end] {
			p := politicians[start+i]
			if completed[p.ID] {
				mu.Lock()
				report.Skipped++
				mu.Unlock()
				continue
			}

			pool.Submit(func() {
				err := unit(ctx, &p)

				mu.Lock()
				defer mu.Unlock()
				entry := schema.ProgressLog{
					RunID:        state.runID,
					Stage:        string(stage),
					PoliticianID: &p.ID,
				}
				if err != nil {
					report.Failed++
					entry.Status = schema.ProgressFailed
					entry.Detail = err.Error()
					logger.ErrorCtx(ctx, fmt.Errorf("stage %s failed for politician %d: %w", stage, p.ID, err))
				} else {
					report.Processed++
					entry.Status = schema.ProgressCompleted
				}
				if flush := j.add(entry); flush != nil {
					if err := o.store.AppendProgress(ctx, flush); err != nil {
						logger.ErrorCtx(ctx, fmt.Errorf("failed to checkpoint progress: %w", err))
					}
				}
			})
		}
		pool.StopAndWait()
	}

	// The drain runs on a detached context so an interrupt still
	// checkpoints the units that finished
	if flush := j.drain(); flush != nil {
		if err := o.store.AppendProgress(context.WithoutCancel(ctx), flush); err != nil {
			return report, err
		}
	}

	return report, ctx.Err()
}

// correlateCPF runs the correlation engine, treating a missing CPF as a
// valid zero-match outcome rather than an error
func (o *Orchestrator) correlateCPF(ctx context.Context, p *schema.Politician) (*correlate.Result, error) {
	if !domain.ValidCPF(p.CPF) {
		return &correlate.Result{}, nil
	}
	birthYear := 0
	if p.BirthDate != nil {
		birthYear = p.BirthDate.Year()
	}
	return o.correlator.Correlate(ctx, p.CPF, birthYear)
}

// correlationFor returns the cached correlation for a politician, computing
// it when a resumed run skipped the politicians stage
func (o *Orchestrator) correlationFor(ctx context.Context, state *runState, p *schema.Politician) (*correlate.Result, error) {
	state.mu.Lock()
	cached, ok := state.correlations[p.ID]
	state.mu.Unlock()
	if ok {
		return cached, nil
	}

	result, err := o.correlateCPF(ctx, p)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	state.correlations[p.ID] = result
	state.mu.Unlock()
	return result, nil
}

// trackCandidacies resolves every selected politician's correlation and
// registers the matched candidacies with the dataset layer. It must run
// before any finance or asset fetch so the per-year caches know which rows
// to keep. A politician whose correlation fails is skipped here; its unit
// surfaces the error with the usual isolation.
func (o *Orchestrator) trackCandidacies(ctx context.Context, state *runState) error {
	politicians, err := o.store.ListPoliticians(ctx)
	if err != nil {
		return err
	}
	politicians = filterPoliticians(politicians, state.opts.IDs)

	var ids []string
	for i := range politicians {
		result, err := o.correlationFor(ctx, state, &politicians[i])
		if err != nil {
			logger.WarnCtx(ctx, "Correlation unavailable while registering candidacies",
				zap.Uint("politician_id", politicians[i].ID),
				zap.Error(err),
			)
			continue
		}
		for _, match := range result.Matches {
			ids = append(ids, match.SequenceID)
		}
	}

	o.datasets.TrackCandidacies(ids)
	return nil
}

// transactionsFor extracts every financial transaction of one politician
// from both source systems, cached for the run
func (o *Orchestrator) transactionsFor(ctx context.Context, state *runState, p *schema.Politician) ([]finance.Transaction, error) {
	state.mu.Lock()
	cached, ok := state.transactions[p.ID]
	state.mu.Unlock()
	if ok {
		return cached, nil
	}

	expenses, err := o.chamber.GetExpenses(ctx, p.ChamberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}

	var txs []finance.Transaction
	for _, e := range expenses {
		if !o.yearSelected(state, e.Year) {
			continue
		}
		txs = append(txs, finance.FromChamberExpense(p.ID, e))
	}

	result, err := o.correlationFor(ctx, state, p)
	if err != nil {
		return nil, err
	}

	for _, match := range result.Matches {
		if !o.yearSelected(state, match.Year) {
			continue
		}
		fin, err := o.datasets.Finance(ctx, match.Year)
		if err != nil {
			return nil, fmt.Errorf("failed to load finance datasets for %d: %w", match.Year, err)
		}
		for _, d := range fin.Donations {
			if d.SequenceID != match.SequenceID {
				continue
			}
			txs = append(txs, finance.FromDonation(p.ID, d)...)
		}
		for _, e := range fin.Expenses {
			if e.SequenceID != match.SequenceID {
				continue
			}
			txs = append(txs, finance.FromCampaignExpense(p.ID, e))
		}
	}

	state.mu.Lock()
	state.transactions[p.ID] = txs
	state.mu.Unlock()
	return txs, nil
}

// unitFinancialRecords persists the politician's individual transactions
func (o *Orchestrator) unitFinancialRecords(state *runState) unitFunc {
	return func(ctx context.Context, p *schema.Politician) error {
		txs, err := o.transactionsFor(ctx, state, p)
		if err != nil {
			return err
		}

		rows := make([]schema.FinancialRecord, 0, len(txs))
		for _, tx := range txs {
			row := schema.FinancialRecord{
				PoliticianID:     tx.PoliticianID,
				TransactionType:  string(tx.Type),
				Source:           string(tx.Source),
				CounterpartTaxID: tx.CounterpartTaxID,
				CounterpartName:  tx.CounterpartName,
				Amount:           tx.Amount,
				Year:             tx.Year,
				Description:      tx.Description,
			}
			if !tx.Date.IsZero() {
				date := tx.Date
				row.Date = &date
			}
			if tx.ExternalID != "" {
				externalID := tx.ExternalID
				row.ExternalID = &externalID
			}
			rows = append(rows, row)
		}

		if _, err := o.store.UpsertFinancialRecords(ctx, rows); err != nil {
			return err
		}

		// This stage is the last consumer of the cached transactions.
		// Dropping the entry keeps resident memory bounded by the
		// counterpart aggregates, not by the transaction count.
		state.mu.Lock()
		delete(state.transactions, p.ID)
		state.mu.Unlock()
		return nil
	}
}

// unitMemberships swaps the politician's committee seats and front
// signatures
func (o *Orchestrator) unitMemberships(ctx context.Context, p *schema.Politician) error {
	committees, err := o.chamber.GetCommittees(ctx, p.ChamberID)
	if err != nil {
		return fmt.Errorf("failed to get committees: %w", err)
	}

	committeeRows := make([]schema.NetworkMembership, 0, len(committees))
	for _, c := range committees {
		row := schema.NetworkMembership{
			PoliticianID:   p.ID,
			MembershipType: "committee",
			OrganID:        c.OrganID,
			Name:           c.Name,
			Acronym:        c.Acronym,
			Role:           c.Role,
		}
		if start, err := time.Parse("2006-01-02", c.StartDate); err == nil {
			row.StartDate = &start
		}
		if end, err := time.Parse("2006-01-02", c.EndDate); err == nil {
			row.EndDate = &end
		}
		committeeRows = append(committeeRows, row)
	}
	if err := o.store.ReplaceMemberships(ctx, p.ID, "committee", committeeRows); err != nil {
		return err
	}

	fronts, err := o.chamber.GetFronts(ctx, p.ChamberID)
	if err != nil {
		return fmt.Errorf("failed to get fronts: %w", err)
	}

	frontRows := make([]schema.NetworkMembership, 0, len(fronts))
	for _, f := range fronts {
		frontRows = append(frontRows, schema.NetworkMembership{
			PoliticianID:   p.ID,
			MembershipType: "front",
			OrganID:        f.ID,
			Name:           f.Title,
		})
	}
	return o.store.ReplaceMemberships(ctx, p.ID, "front", frontRows)
}

// matchedAssets collects the politician's declared assets for every
// correlated election year in the run's range
func (o *Orchestrator) matchedAssets(ctx context.Context, state *runState, p *schema.Politician) (map[int][]tse.AssetRecord, error) {
	result, err := o.correlationFor(ctx, state, p)
	if err != nil {
		return nil, err
	}

	byYear := make(map[int][]tse.AssetRecord)
	for _, match := range result.Matches {
		if !o.yearSelected(state, match.Year) {
			continue
		}
		records, err := o.datasets.Assets(ctx, match.Year)
		if err != nil {
			return nil, fmt.Errorf("failed to load assets for %d: %w", match.Year, err)
		}
		for _, rec := range records {
			if rec.SequenceID == match.SequenceID {
				byYear[match.Year] = append(byYear[match.Year], rec)
			}
		}
	}
	return byYear, nil
}

// unitWealthSnapshots aggregates declared assets into per-election totals
func (o *Orchestrator) unitWealthSnapshots(state *runState) unitFunc {
	return func(ctx context.Context, p *schema.Politician) error {
		byYear, err := o.matchedAssets(ctx, state, p)
		if err != nil {
			return err
		}

		snapshots := make([]schema.WealthSnapshot, 0, len(byYear))
		for year, records := range byYear {
			var total float64
			for _, rec := range records {
				total += rec.Value
			}
			snapshots = append(snapshots, schema.WealthSnapshot{
				PoliticianID:  p.ID,
				Year:          year,
				TotalDeclared: total,
				AssetCount:    len(records),
			})
		}
		return o.store.UpsertWealthSnapshots(ctx, snapshots)
	}
}

// unitAssets persists the individual declared assets behind each snapshot.
// A year with no snapshot row is skipped: assets are the breakdown of a
// snapshot, so writing them first would leave rows nothing links to.
func (o *Orchestrator) unitAssets(state *runState) unitFunc {
	return func(ctx context.Context, p *schema.Politician) error {
		byYear, err := o.matchedAssets(ctx, state, p)
		if err != nil {
			return err
		}
		if len(byYear) == 0 {
			return nil
		}

		snapshotYears, err := o.store.WealthSnapshotYears(ctx, p.ID)
		if err != nil {
			return err
		}

		for year, records := range byYear {
			if !snapshotYears[year] {
				logger.WarnCtx(ctx, "Skipping assets for year with no wealth snapshot",
					zap.Uint("politician_id", p.ID),
					zap.Int("year", year),
				)
				continue
			}
			rows := make([]schema.Asset, 0, len(records))
			for _, rec := range records {
				rows = append(rows, schema.Asset{
					PoliticianID: p.ID,
					Year:         year,
					TypeCode:     rec.TypeCode,
					TypeName:     rec.TypeName,
					Description:  rec.Description,
					Value:        rec.Value,
				})
			}
			if err := o.store.ReplaceAssets(ctx, p.ID, year, rows); err != nil {
				return err
			}
		}
		return nil
	}
}

// unitCareerMandates persists offices held before the chamber mandate
func (o *Orchestrator) unitCareerMandates(ctx context.Context, p *schema.Politician) error {
	mandates, err := o.chamber.GetExternalMandates(ctx, p.ChamberID)
	if err != nil {
		return fmt.Errorf("failed to get external mandates: %w", err)
	}

	rows := make([]schema.CareerMandate, 0, len(mandates))
	for _, m := range mandates {
		startYear, err := strconv.Atoi(m.StartYear)
		if err != nil {
			continue // no usable key without a start year
		}
		row := schema.CareerMandate{
			PoliticianID: p.ID,
			Office:       m.Office,
			StartYear:    startYear,
			State:        m.State,
			Municipality: m.Municipality,
			Party:        m.ElectionParty,
		}
		if endYear, err := strconv.Atoi(m.EndYear); err == nil {
			row.EndYear = &endYear
		}
		rows = append(rows, row)
	}
	return o.store.UpsertCareerMandates(ctx, rows)
}

// unitEvents persists the politician's event participations
func (o *Orchestrator) unitEvents(ctx context.Context, p *schema.Politician) error {
	events, err := o.chamber.GetEvents(ctx, p.ChamberID)
	if err != nil {
		return fmt.Errorf("failed to get events: %w", err)
	}

	rows := make([]schema.Event, 0, len(events))
	for _, e := range events {
		row := schema.Event{
			PoliticianID: p.ID,
			ChamberID:    e.ID,
			EventType:    e.EventType,
			Title:        e.Title,
			Situation:    e.Situation,
			Location:     e.LocalExternal,
		}
		if start, err := time.Parse("2006-01-02T15:04", e.StartsAt); err == nil {
			row.StartTime = &start
		}
		if end, err := time.Parse("2006-01-02T15:04", e.EndsAt); err == nil {
			row.EndTime = &end
		}
		rows = append(rows, row)
	}
	return o.store.UpsertEvents(ctx, rows)
}

// unitProfessionalRecords persists declared professions and pre-office
// occupations
func (o *Orchestrator) unitProfessionalRecords(ctx context.Context, p *schema.Politician) error {
	professions, err := o.chamber.GetProfessions(ctx, p.ChamberID)
	if err != nil {
		return fmt.Errorf("failed to get professions: %w", err)
	}
	occupations, err := o.chamber.GetOccupations(ctx, p.ChamberID)
	if err != nil {
		return fmt.Errorf("failed to get occupations: %w", err)
	}

	rows := make([]schema.ProfessionalRecord, 0, len(professions)+len(occupations))
	for _, pr := range professions {
		if pr.Title == "" {
			continue
		}
		rows = append(rows, schema.ProfessionalRecord{
			PoliticianID: p.ID,
			RecordType:   "profession",
			Title:        pr.Title,
		})
	}
	for _, oc := range occupations {
		if oc.Title == "" {
			continue
		}
		rows = append(rows, schema.ProfessionalRecord{
			PoliticianID: p.ID,
			RecordType:   "occupation",
			Title:        oc.Title,
			Entity:       oc.Entity,
			EntityState:  oc.EntityState,
			StartYear:    oc.StartYear,
			EndYear:      oc.EndYear,
		})
	}
	return o.store.UpsertProfessionalRecords(ctx, rows)
}

func (o *Orchestrator) yearSelected(state *runState, year int) bool {
	if state.opts.YearFrom != 0 && year < state.opts.YearFrom {
		return false
	}
	if state.opts.YearTo != 0 && year > state.opts.YearTo {
		return false
	}
	return true
}

func filterDeputies(deputies []chamber.DeputySummary, ids []int64) []chamber.DeputySummary {
	if len(ids) == 0 {
		return deputies
	}
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	filtered := make([]chamber.DeputySummary, 0, len(ids))
	for _, d := range deputies {
		if wanted[d.ID] {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func filterPoliticians(politicians []schema.Politician, ids []int64) []schema.Politician {
	if len(ids) == 0 {
		return politicians
	}
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	filtered := make([]schema.Politician, 0, len(ids))
	for _, p := range politicians {
		if wanted[p.ChamberID] {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
