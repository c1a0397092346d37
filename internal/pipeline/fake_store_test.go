package pipeline_test

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/openpolitica/politician-indexer/internal/store"
	"github.com/openpolitica/politician-indexer/internal/store/schema"
)

// fakeStore is an in-memory Store for pipeline tests. It keeps enough state
// to verify idempotent upserts and checkpoint replay without a database.
type fakeStore struct {
	mu sync.Mutex

	nextID      uint
	politicians map[int64]*schema.Politician // by chamber ID

	counterparts map[string]schema.FinancialCounterpart
	records      map[string]schema.FinancialRecord // by politician/type/external key
	memberships  map[uint]map[string][]schema.NetworkMembership
	snapshots    map[string]schema.WealthSnapshot // by politician/year
	assets       map[string][]schema.Asset        // by politician/year
	mandates     map[string]schema.CareerMandate
	events       map[string]schema.Event
	professional map[string]schema.ProfessionalRecord

	progress []schema.ProgressLog
	kv       map[string]string
	issues   []schema.ValidationIssue
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		politicians:  make(map[int64]*schema.Politician),
		counterparts: make(map[string]schema.FinancialCounterpart),
		records:      make(map[string]schema.FinancialRecord),
		memberships:  make(map[uint]map[string][]schema.NetworkMembership),
		snapshots:    make(map[string]schema.WealthSnapshot),
		assets:       make(map[string][]schema.Asset),
		mandates:     make(map[string]schema.CareerMandate),
		events:       make(map[string]schema.Event),
		professional: make(map[string]schema.ProfessionalRecord),
		kv:           make(map[string]string),
	}
}

var _ store.Store = (*fakeStore)(nil)

func (f *fakeStore) UpsertPolitician(_ context.Context, p *schema.Politician) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.politicians[p.ChamberID]; ok {
		p.ID = existing.ID
	} else {
		f.nextID++
		p.ID = f.nextID
	}
	clone := *p
	f.politicians[p.ChamberID] = &clone
	return nil
}

func (f *fakeStore) GetPoliticianByChamberID(_ context.Context, chamberID int64) (*schema.Politician, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.politicians[chamberID]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (f *fakeStore) ListPoliticians(_ context.Context) ([]schema.Politician, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]schema.Politician, 0, len(f.politicians))
	for _, p := range f.politicians {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChamberID < out[j].ChamberID })
	return out, nil
}

func (f *fakeStore) MergeCounterparts(_ context.Context, counterparts []schema.FinancialCounterpart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cp := range counterparts {
		f.counterparts[cp.TaxID] = cp
	}
	return nil
}

func (f *fakeStore) UpsertFinancialRecords(_ context.Context, records []schema.FinancialRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var inserted int64
	for i, r := range records {
		key := ""
		if r.ExternalID != nil {
			key = fmt.Sprintf("%d/%s/%s", r.PoliticianID, r.TransactionType, *r.ExternalID)
			if _, exists := f.records[key]; exists {
				continue
			}
		} else {
			key = fmt.Sprintf("%d/%s/row-%d-%d", r.PoliticianID, r.TransactionType, len(f.records), i)
		}
		f.records[key] = r
		inserted++
	}
	return inserted, nil
}

func (f *fakeStore) ReplaceMemberships(_ context.Context, politicianID uint, membershipType string, memberships []schema.NetworkMembership) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.memberships[politicianID] == nil {
		f.memberships[politicianID] = make(map[string][]schema.NetworkMembership)
	}
	f.memberships[politicianID][membershipType] = memberships
	return nil
}

func (f *fakeStore) UpsertWealthSnapshots(_ context.Context, snapshots []schema.WealthSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range snapshots {
		f.snapshots[fmt.Sprintf("%d/%d", s.PoliticianID, s.Year)] = s
	}
	return nil
}

func (f *fakeStore) WealthSnapshotYears(_ context.Context, politicianID uint) (map[int]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	years := make(map[int]bool)
	for _, s := range f.snapshots {
		if s.PoliticianID == politicianID {
			years[s.Year] = true
		}
	}
	return years, nil
}

func (f *fakeStore) ReplaceAssets(_ context.Context, politicianID uint, year int, assets []schema.Asset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assets[fmt.Sprintf("%d/%d", politicianID, year)] = assets
	return nil
}

func (f *fakeStore) UpsertCareerMandates(_ context.Context, mandates []schema.CareerMandate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range mandates {
		key := fmt.Sprintf("%d/%s/%d", m.PoliticianID, m.Office, m.StartYear)
		if _, exists := f.mandates[key]; !exists {
			f.mandates[key] = m
		}
	}
	return nil
}

func (f *fakeStore) UpsertEvents(_ context.Context, events []schema.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range events {
		key := fmt.Sprintf("%d/%d", e.PoliticianID, e.ChamberID)
		if _, exists := f.events[key]; !exists {
			f.events[key] = e
		}
	}
	return nil
}

func (f *fakeStore) UpsertProfessionalRecords(_ context.Context, records []schema.ProfessionalRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range records {
		key := fmt.Sprintf("%d/%s/%s", r.PoliticianID, r.RecordType, r.Title)
		if _, exists := f.professional[key]; !exists {
			f.professional[key] = r
		}
	}
	return nil
}

func (f *fakeStore) AppendProgress(_ context.Context, entries []schema.ProgressLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progress = append(f.progress, entries...)
	return nil
}

func (f *fakeStore) CompletedUnits(_ context.Context, runID, stage string) (map[uint]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	completed := make(map[uint]bool)
	for _, e := range f.progress {
		if e.RunID == runID && e.Stage == stage && e.Status == schema.ProgressCompleted && e.PoliticianID != nil {
			completed[*e.PoliticianID] = true
		}
	}
	return completed, nil
}

func (f *fakeStore) StageCompleted(_ context.Context, runID, stage string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.progress {
		if e.RunID == runID && e.Stage == stage && e.Status == schema.ProgressCompleted && e.PoliticianID == nil {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) GetValue(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.kv[key], nil
}

func (f *fakeStore) SetValue(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kv[key] = value
	return nil
}

func (f *fakeStore) CountPoliticians(_ context.Context) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var linked int64
	for _, p := range f.politicians {
		if p.TSELinked {
			linked++
		}
	}
	return int64(len(f.politicians)), linked, nil
}

func (f *fakeStore) MissingCPFs(context.Context, int) (int64, []store.Sample, error) {
	return 0, nil, nil
}

func (f *fakeStore) InvalidAmounts(context.Context, int) (int64, []store.Sample, error) {
	return 0, nil, nil
}

func (f *fakeStore) OrphanRows(context.Context, string, int) (int64, []store.Sample, error) {
	return 0, nil, nil
}

func (f *fakeStore) CounterpartDrift(context.Context, int) (int64, []store.Sample, error) {
	return 0, nil, nil
}

func (f *fakeStore) WealthMismatches(context.Context, float64, int) (int64, []store.Sample, error) {
	return 0, nil, nil
}

func (f *fakeStore) AssetsWithoutSnapshot(context.Context, int) (int64, []store.Sample, error) {
	return 0, nil, nil
}

func (f *fakeStore) RecomputeCounterpartAggregates(context.Context) error { return nil }

func (f *fakeStore) RecomputeWealthSnapshots(context.Context) error { return nil }

func (f *fakeStore) SaveValidationIssues(_ context.Context, issues []schema.ValidationIssue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issues = append(f.issues, issues...)
	return nil
}
