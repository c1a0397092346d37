package tse

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/openpolitica/politician-indexer/internal/domain"
	"github.com/openpolitica/politician-indexer/internal/logger"
)

// Discovery resolves which dataset years currently exist in the catalog.
// Package availability changes over time and years are not contiguous, so
// the listing is fetched once per run and cached in memory.
//
//go:generate mockgen -source=discovery.go -destination=../../mocks/tse_discovery.go -package=mocks -mock_names=Discovery=MockDiscovery
type Discovery interface {
	// AvailableYears returns the sorted ascending set of years for which a
	// dataset of the given kind is published
	AvailableYears(ctx context.Context, kind domain.DatasetKind) ([]int, error)
}

type discovery struct {
	catalog CatalogClient

	mu       sync.Mutex
	packages []string
	fetched  bool
}

// NewDiscovery creates a per-run discovery cache over the catalog client
func NewDiscovery(catalog CatalogClient) Discovery {
	return &discovery{catalog: catalog}
}

// AvailableYears returns the sorted ascending set of years for which a
// dataset of the given kind is published
func (d *discovery) AvailableYears(ctx context.Context, kind domain.DatasetKind) ([]int, error) {
	packages, err := d.listPackages(ctx)
	if err != nil {
		return nil, err
	}

	prefix := string(kind) + "_"
	seen := make(map[int]struct{})
	for _, name := range packages {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		year, err := strconv.Atoi(strings.TrimPrefix(name, prefix))
		if err != nil {
			// Tolerate unexpected package names
			logger.DebugCtx(ctx, "Skipping unparseable package name", zap.String("package", name))
			continue
		}
		seen[year] = struct{}{}
	}

	years := make([]int, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Ints(years)

	return years, nil
}

// listPackages fetches the catalog listing once and caches it for the run
func (d *discovery) listPackages(ctx context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.fetched {
		return d.packages, nil
	}

	packages, err := d.catalog.ListPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("dataset discovery failed: %w", err)
	}

	d.packages = packages
	d.fetched = true
	logger.InfoCtx(ctx, "Discovered catalog packages", zap.Int("count", len(packages)))

	return d.packages, nil
}
