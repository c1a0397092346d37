package tse_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpolitica/politician-indexer/internal/domain"
	"github.com/openpolitica/politician-indexer/internal/logger"
	"github.com/openpolitica/politician-indexer/internal/mocks"
	"github.com/openpolitica/politician-indexer/internal/providers/tse"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestDiscovery_AvailableYears(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	catalog := mocks.NewMockCatalogClient(ctrl)
	catalog.EXPECT().
		ListPackages(gomock.Any()).
		Return([]string{
			"consulta_cand_2018",
			"consulta_cand_2022",
			"consulta_cand_2014",
			"bem_candidato_2022",
			"prestacao_contas_2022",
			"consulta_cand_suplementar", // unexpected name, must be skipped
			"resultados_2022",
		}, nil).
		Times(1) // the catalog is queried once per run

	d := tse.NewDiscovery(catalog)
	ctx := context.Background()

	years, err := d.AvailableYears(ctx, domain.DatasetCandidates)
	require.NoError(t, err)
	assert.Equal(t, []int{2014, 2018, 2022}, years)

	// Second call for another kind must reuse the cached listing
	years, err = d.AvailableYears(ctx, domain.DatasetAssets)
	require.NoError(t, err)
	assert.Equal(t, []int{2022}, years)

	years, err = d.AvailableYears(ctx, domain.DatasetFinance)
	require.NoError(t, err)
	assert.Equal(t, []int{2022}, years)
}

func TestDiscovery_CatalogError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	catalog := mocks.NewMockCatalogClient(ctrl)
	catalog.EXPECT().
		ListPackages(gomock.Any()).
		Return(nil, errors.New("catalog unreachable"))

	d := tse.NewDiscovery(catalog)
	_, err := d.AvailableYears(context.Background(), domain.DatasetCandidates)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset discovery failed")
}

func TestPackage_ArchiveResource(t *testing.T) {
	pkg := &tse.Package{
		Name: "consulta_cand_2022",
		Resources: []tse.Resource{
			{Name: "readme", Format: "PDF", URL: "https://cdn.tse.jus.br/readme.pdf"},
			{Name: "dataset", Format: "ZIP", URL: "https://cdn.tse.jus.br/consulta_cand_2022.zip"},
		},
	}

	res, err := pkg.ArchiveResource()
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.tse.jus.br/consulta_cand_2022.zip", res.URL)

	empty := &tse.Package{Name: "consulta_cand_2020"}
	_, err = empty.ArchiveResource()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDatasetUnavailable)
}
