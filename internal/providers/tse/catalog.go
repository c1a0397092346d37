package tse

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/openpolitica/politician-indexer/internal/adapter"
	"github.com/openpolitica/politician-indexer/internal/domain"
	"github.com/openpolitica/politician-indexer/internal/ratelimit"
)

// Source is the rate limiter source name for the TSE open-data catalog
const Source = "tse"

// Resource is one downloadable file attached to a catalog package
type Resource struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	URL    string `json:"url"`
}

// Package is the catalog metadata for one dataset package
type Package struct {
	Name      string     `json:"name"`
	Resources []Resource `json:"resources"`
}

// ArchiveResource returns the package's zip archive resource, or an error
// when the package carries none
func (p *Package) ArchiveResource() (*Resource, error) {
	for i := range p.Resources {
		if strings.EqualFold(p.Resources[i].Format, "zip") {
			return &p.Resources[i], nil
		}
	}
	return nil, fmt.Errorf("%w: package %s has no zip resource", domain.ErrDatasetUnavailable, p.Name)
}

type packageListResponse struct {
	Success bool     `json:"success"`
	Result  []string `json:"result"`
}

type packageShowResponse struct {
	Success bool    `json:"success"`
	Result  Package `json:"result"`
}

// CatalogClient defines the CKAN-style catalog API surface
//
//go:generate mockgen -source=catalog.go -destination=../../mocks/tse_catalog.go -package=mocks -mock_names=CatalogClient=MockCatalogClient
type CatalogClient interface {
	// ListPackages returns every package name currently in the catalog
	ListPackages(ctx context.Context) ([]string, error)
	// GetPackage returns resource metadata for one package
	GetPackage(ctx context.Context, name string) (*Package, error)
}

type catalogClient struct {
	baseURL    string
	httpClient adapter.HTTPClient
	limiter    ratelimit.Limiter
	clock      adapter.Clock
}

// NewCatalogClient creates a new catalog API client. Requests pass through
// the rate limiter first.
func NewCatalogClient(httpClient adapter.HTTPClient, limiter ratelimit.Limiter, clock adapter.Clock, baseURL string) CatalogClient {
	return &catalogClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    limiter,
		clock:      clock,
	}
}

// ListPackages returns every package name currently in the catalog
func (c *catalogClient) ListPackages(ctx context.Context) ([]string, error) {
	reqURL := fmt.Sprintf("%s/action/package_list", c.baseURL)

	resp, err := ratelimit.Do(ctx, c.limiter, c.clock, Source, func(ctx context.Context) (*packageListResponse, error) {
		var resp packageListResponse
		if err := c.httpClient.Get(ctx, reqURL, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog packages: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("catalog returned success=false for package_list")
	}

	return resp.Result, nil
}

// GetPackage returns resource metadata for one package
func (c *catalogClient) GetPackage(ctx context.Context, name string) (*Package, error) {
	reqURL := fmt.Sprintf("%s/action/package_show?id=%s", c.baseURL, url.QueryEscape(name))

	resp, err := ratelimit.Do(ctx, c.limiter, c.clock, Source, func(ctx context.Context) (*packageShowResponse, error) {
		var resp packageShowResponse
		if err := c.httpClient.Get(ctx, reqURL, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get package %s: %w", name, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("catalog returned success=false for package %s", name)
	}

	return &resp.Result, nil
}
