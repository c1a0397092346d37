package tse

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/openpolitica/politician-indexer/internal/domain"
	"github.com/openpolitica/politician-indexer/internal/logger"
)

// FinanceData bundles the finance dataset's per-year record streams
type FinanceData struct {
	Donations []DonationRecord
	Expenses  []ExpenseRecord
}

// Datasets provides typed access to per-year dataset archives. Fetched
// years are cached for the lifetime of the run, so correlating many
// politicians against the same year downloads each archive once.
//
//go:generate mockgen -source=datasets.go -destination=../../mocks/tse_datasets.go -package=mocks -mock_names=Datasets=MockDatasets
type Datasets interface {
	// Candidates returns every candidate record for the year
	Candidates(ctx context.Context, year int) ([]CandidateRecord, error)
	// Finance returns the donation and expense records for the year. When
	// candidacies are tracked, only their rows are retained.
	Finance(ctx context.Context, year int) (*FinanceData, error)
	// Assets returns the declared-asset records for the year. When
	// candidacies are tracked, only their rows are retained.
	Assets(ctx context.Context, year int) ([]AssetRecord, error)
	// TrackCandidacies registers candidacy sequence IDs ahead of finance
	// and asset fetches. Once any candidacy is tracked, rows belonging to
	// untracked ones are dropped at scan time instead of cached, keeping
	// resident data proportional to the tracked politicians rather than
	// the full electorate.
	TrackCandidacies(sequenceIDs []string)
}

type datasets struct {
	catalog CatalogClient
	archive ArchiveReader

	mu         sync.Mutex
	tracked    map[string]bool
	candidates map[int][]CandidateRecord
	finance    map[int]*FinanceData
	assets     map[int][]AssetRecord
}

// NewDatasets creates a per-run dataset fetcher with in-memory caching
func NewDatasets(catalog CatalogClient, archive ArchiveReader) Datasets {
	return &datasets{
		catalog:    catalog,
		archive:    archive,
		candidates: make(map[int][]CandidateRecord),
		finance:    make(map[int]*FinanceData),
		assets:     make(map[int][]AssetRecord),
	}
}

// TrackCandidacies registers candidacy sequence IDs for scan-time filtering
func (d *datasets) TrackCandidacies(sequenceIDs []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tracked == nil {
		d.tracked = make(map[string]bool, len(sequenceIDs))
	}
	for _, id := range sequenceIDs {
		if id != "" {
			d.tracked[id] = true
		}
	}
}

// trackedSet snapshots the tracked candidacies; nil means keep every row
func (d *datasets) trackedSet() map[string]bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.tracked) == 0 {
		return nil
	}
	set := make(map[string]bool, len(d.tracked))
	for id := range d.tracked {
		set[id] = true
	}
	return set
}

// archiveURL resolves the zip URL of the package for kind and year
func (d *datasets) archiveURL(ctx context.Context, kind domain.DatasetKind, year int) (string, error) {
	name := fmt.Sprintf("%s_%d", kind, year)
	pkg, err := d.catalog.GetPackage(ctx, name)
	if err != nil {
		return "", err
	}
	resource, err := pkg.ArchiveResource()
	if err != nil {
		return "", err
	}
	return resource.URL, nil
}

// Candidates returns every candidate record for the year
func (d *datasets) Candidates(ctx context.Context, year int) ([]CandidateRecord, error) {
	d.mu.Lock()
	if cached, ok := d.candidates[year]; ok {
		d.mu.Unlock()
		return cached, nil
	}
	d.mu.Unlock()

	url, err := d.archiveURL(ctx, domain.DatasetCandidates, year)
	if err != nil {
		return nil, err
	}

	var records []CandidateRecord
	var dropped int
	err = d.archive.ScanRows(ctx, url, nil, func(entryName string, row Row) error {
		rec, ok := candidateFromRow(row)
		if !ok {
			dropped++
			return nil
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates %d: %w", year, err)
	}

	logger.InfoCtx(ctx, "Loaded candidate dataset",
		zap.Int("year", year),
		zap.Int("records", len(records)),
		zap.Int("dropped", dropped),
	)

	d.mu.Lock()
	d.candidates[year] = records
	d.mu.Unlock()

	return records, nil
}

// Finance returns every donation and expense record for the year
func (d *datasets) Finance(ctx context.Context, year int) (*FinanceData, error) {
	d.mu.Lock()
	if cached, ok := d.finance[year]; ok {
		d.mu.Unlock()
		return cached, nil
	}
	d.mu.Unlock()

	url, err := d.archiveURL(ctx, domain.DatasetFinance, year)
	if err != nil {
		return nil, err
	}

	data := &FinanceData{}
	tracked := d.trackedSet()
	var dropped, filtered int

	// Candidate-level entries only; party and committee ledgers share the
	// same archive and are out of scope
	filter := func(name string) bool {
		lower := strings.ToLower(name)
		return strings.Contains(lower, "candidatos")
	}

	err = d.archive.ScanRows(ctx, url, filter, func(entryName string, row Row) error {
		lower := strings.ToLower(entryName)
		switch {
		case strings.Contains(lower, "receitas"):
			rec, ok := donationFromRow(row, year)
			if !ok {
				dropped++
				return nil
			}
			if tracked != nil && !tracked[rec.SequenceID] {
				filtered++
				return nil
			}
			data.Donations = append(data.Donations, rec)
		case strings.Contains(lower, "despesas"):
			rec, ok := expenseFromRow(row, year)
			if !ok {
				dropped++
				return nil
			}
			if tracked != nil && !tracked[rec.SequenceID] {
				filtered++
				return nil
			}
			data.Expenses = append(data.Expenses, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read finance %d: %w", year, err)
	}

	logger.InfoCtx(ctx, "Loaded finance dataset",
		zap.Int("year", year),
		zap.Int("donations", len(data.Donations)),
		zap.Int("expenses", len(data.Expenses)),
		zap.Int("filtered", filtered),
		zap.Int("dropped", dropped),
	)

	d.mu.Lock()
	d.finance[year] = data
	d.mu.Unlock()

	return data, nil
}

// Assets returns every declared-asset record for the year
func (d *datasets) Assets(ctx context.Context, year int) ([]AssetRecord, error) {
	d.mu.Lock()
	if cached, ok := d.assets[year]; ok {
		d.mu.Unlock()
		return cached, nil
	}
	d.mu.Unlock()

	url, err := d.archiveURL(ctx, domain.DatasetAssets, year)
	if err != nil {
		return nil, err
	}

	tracked := d.trackedSet()
	var records []AssetRecord
	var dropped, filtered int
	err = d.archive.ScanRows(ctx, url, nil, func(entryName string, row Row) error {
		rec, ok := assetFromRow(row)
		if !ok {
			dropped++
			return nil
		}
		if tracked != nil && !tracked[rec.SequenceID] {
			filtered++
			return nil
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read assets %d: %w", year, err)
	}

	logger.InfoCtx(ctx, "Loaded assets dataset",
		zap.Int("year", year),
		zap.Int("records", len(records)),
		zap.Int("filtered", filtered),
		zap.Int("dropped", dropped),
	)

	d.mu.Lock()
	d.assets[year] = records
	d.mu.Unlock()

	return records, nil
}
