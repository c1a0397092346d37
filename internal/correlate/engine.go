package correlate

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/openpolitica/politician-indexer/internal/adapter"
	"github.com/openpolitica/politician-indexer/internal/domain"
	"github.com/openpolitica/politician-indexer/internal/logger"
	"github.com/openpolitica/politician-indexer/internal/providers/tse"
)

// minCandidateAge is the constitutional minimum age for federal deputy
// candidacies. Searching before a politician could legally run only wastes
// archive downloads.
const minCandidateAge = 21

// Match is one electoral run found for a politician's CPF
type Match struct {
	Year       int
	SequenceID string
	Office     string
	Party      string
	State      string
	Outcome    string
	BallotName string
}

// Result is the full correlation outcome for one politician
type Result struct {
	// Matches holds every run found, newest first
	Matches []Match
	// MostRecent is the newest match, nil when none were found
	MostRecent *Match
	FirstYear  int
	LastYear   int
	TotalRuns  int
	// TSELinked reports whether at least one run was found
	TSELinked bool
	// YearsSearched is the number of election years actually scanned
	YearsSearched int
}

// Engine correlates politicians against yearly candidate rosters by CPF
type Engine struct {
	discovery tse.Discovery
	datasets  tse.Datasets
	clock     adapter.Clock

	// fallbackYears bounds the search window when the birth year is unknown
	fallbackYears int
}

// NewEngine creates a correlation engine. fallbackYears controls how far
// back the search reaches for politicians with no known birth year.
func NewEngine(discovery tse.Discovery, datasets tse.Datasets, clock adapter.Clock, fallbackYears int) *Engine {
	return &Engine{
		discovery:     discovery,
		datasets:      datasets,
		clock:         clock,
		fallbackYears: fallbackYears,
	}
}

// searchRange computes the inclusive year range to scan. With a known birth
// year the range opens at the first even election year the politician was
// old enough to contest; otherwise a trailing window is used.
func (e *Engine) searchRange(birthYear int) (int, int) {
	currentYear := e.clock.Now().Year()
	if birthYear > 0 {
		from := birthYear + minCandidateAge
		if from%2 != 0 {
			from++
		}
		return from, currentYear
	}
	return currentYear - e.fallbackYears, currentYear
}

// Correlate scans every available election year in the politician's search
// range and collects all candidacies registered under the CPF. The whole
// range is always scanned; politicians run, lose, and run again years later.
func (e *Engine) Correlate(ctx context.Context, cpf string, birthYear int) (*Result, error) {
	normalized := domain.NormalizeTaxID(cpf)
	if !domain.ValidCPF(normalized) {
		return nil, fmt.Errorf("cannot correlate without a valid CPF")
	}

	from, to := e.searchRange(birthYear)

	years, err := e.discovery.AvailableYears(ctx, domain.DatasetCandidates)
	if err != nil {
		return nil, fmt.Errorf("failed to discover candidate datasets: %w", err)
	}

	started := e.clock.Now()
	result := &Result{}
	for _, year := range years {
		if year < from || year > to {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result.YearsSearched++
		records, err := e.datasets.Candidates(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("failed to load candidates for %d: %w", year, err)
		}

		for _, rec := range records {
			if domain.NormalizeTaxID(rec.CPF) != normalized {
				continue
			}
			result.Matches = mergeMatch(result.Matches, Match{
				Year:       rec.Year,
				SequenceID: rec.SequenceID,
				Office:     rec.Office,
				Party:      rec.Party,
				State:      rec.State,
				Outcome:    rec.Outcome,
				BallotName: rec.BallotName,
			})
		}
	}

	sort.Slice(result.Matches, func(i, j int) bool {
		return result.Matches[i].Year > result.Matches[j].Year
	})

	result.TotalRuns = len(result.Matches)
	result.TSELinked = result.TotalRuns > 0
	if result.TSELinked {
		result.MostRecent = &result.Matches[0]
		result.LastYear = result.Matches[0].Year
		result.FirstYear = result.Matches[len(result.Matches)-1].Year
	}

	logger.DebugCtx(ctx, "Correlated politician against electoral records",
		zap.Int("years_searched", result.YearsSearched),
		zap.Int("matches", result.TotalRuns),
		zap.Bool("linked", result.TSELinked),
		zap.Duration("elapsed", e.clock.Since(started)),
	)

	return result, nil
}

// mergeMatch appends a match, collapsing duplicate rounds of the same year.
// Runoff rows repeat the candidacy; the row carrying a final outcome wins.
func mergeMatch(matches []Match, m Match) []Match {
	for i, existing := range matches {
		if existing.Year != m.Year {
			continue
		}
		if existing.Outcome == "" && m.Outcome != "" {
			matches[i] = m
		}
		return matches
	}
	return append(matches, m)
}
