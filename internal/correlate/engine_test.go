package correlate_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpolitica/politician-indexer/internal/correlate"
	"github.com/openpolitica/politician-indexer/internal/domain"
	"github.com/openpolitica/politician-indexer/internal/logger"
	"github.com/openpolitica/politician-indexer/internal/mocks"
	"github.com/openpolitica/politician-indexer/internal/providers/tse"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const testCPF = "11122233344"

func fixedClock(t *testing.T, ctrl *gomock.Controller, now time.Time) *mocks.MockClock {
	t.Helper()
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(now).AnyTimes()
	clock.EXPECT().Since(gomock.Any()).Return(time.Second).AnyTimes()
	return clock
}

func TestEngine_Correlate_KnownBirthYear(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Born 1975: eligible at 1996, so the search opens at the 1996
	// election year and every later available year must be scanned
	discovery := mocks.NewMockDiscovery(ctrl)
	discovery.EXPECT().
		AvailableYears(gomock.Any(), domain.DatasetCandidates).
		Return([]int{1994, 1998, 2014, 2018, 2022}, nil)

	datasets := mocks.NewMockDatasets(ctrl)
	datasets.EXPECT().Candidates(gomock.Any(), 1998).Return(nil, nil)
	datasets.EXPECT().Candidates(gomock.Any(), 2014).Return([]tse.CandidateRecord{
		{Year: 2014, SequenceID: "140001", CPF: testCPF, Office: "DEPUTADO FEDERAL", Party: "PT", State: "SP", Outcome: "NÃO ELEITO"},
	}, nil)
	datasets.EXPECT().Candidates(gomock.Any(), 2018).Return([]tse.CandidateRecord{
		{Year: 2018, SequenceID: "180001", CPF: "99988877766", Office: "SENADOR"},
	}, nil)
	datasets.EXPECT().Candidates(gomock.Any(), 2022).Return([]tse.CandidateRecord{
		{Year: 2022, SequenceID: "220001", CPF: testCPF, Office: "DEPUTADO FEDERAL", Party: "PT", State: "SP", Outcome: "ELEITO"},
	}, nil)

	clock := fixedClock(t, ctrl, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))
	engine := correlate.NewEngine(discovery, datasets, clock, 24)

	result, err := engine.Correlate(context.Background(), testCPF, 1975)
	require.NoError(t, err)

	assert.True(t, result.TSELinked)
	assert.Equal(t, 2, result.TotalRuns)
	assert.Equal(t, 4, result.YearsSearched) // 1994 predates eligibility
	assert.Equal(t, 2014, result.FirstYear)
	assert.Equal(t, 2022, result.LastYear)
	require.NotNil(t, result.MostRecent)
	assert.Equal(t, "220001", result.MostRecent.SequenceID)
	assert.Equal(t, "ELEITO", result.MostRecent.Outcome)
}

func TestEngine_Correlate_OddBirthYearRoundsToEvenElection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Born 1990: 1990+21 = 2011, rounded up to the 2012 election year
	discovery := mocks.NewMockDiscovery(ctrl)
	discovery.EXPECT().
		AvailableYears(gomock.Any(), domain.DatasetCandidates).
		Return([]int{2010, 2012, 2014}, nil)

	datasets := mocks.NewMockDatasets(ctrl)
	datasets.EXPECT().Candidates(gomock.Any(), 2012).Return(nil, nil)
	datasets.EXPECT().Candidates(gomock.Any(), 2014).Return(nil, nil)

	clock := fixedClock(t, ctrl, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))
	engine := correlate.NewEngine(discovery, datasets, clock, 24)

	result, err := engine.Correlate(context.Background(), testCPF, 1990)
	require.NoError(t, err)
	assert.False(t, result.TSELinked)
	assert.Nil(t, result.MostRecent)
	assert.Equal(t, 2, result.YearsSearched)
}

func TestEngine_Correlate_UnknownBirthYearUsesFallbackWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	discovery := mocks.NewMockDiscovery(ctrl)
	discovery.EXPECT().
		AvailableYears(gomock.Any(), domain.DatasetCandidates).
		Return([]int{1996, 1998, 2000, 2022}, nil)

	// 2023 - 24 = 1999: 1996 and 1998 fall outside the window
	datasets := mocks.NewMockDatasets(ctrl)
	datasets.EXPECT().Candidates(gomock.Any(), 2000).Return(nil, nil)
	datasets.EXPECT().Candidates(gomock.Any(), 2022).Return(nil, nil)

	clock := fixedClock(t, ctrl, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))
	engine := correlate.NewEngine(discovery, datasets, clock, 24)

	result, err := engine.Correlate(context.Background(), testCPF, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, result.YearsSearched)
}

func TestEngine_Correlate_CollapsesRunoffRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	discovery := mocks.NewMockDiscovery(ctrl)
	discovery.EXPECT().
		AvailableYears(gomock.Any(), domain.DatasetCandidates).
		Return([]int{2022}, nil)

	// First-round row has no final outcome yet; the runoff row does
	datasets := mocks.NewMockDatasets(ctrl)
	datasets.EXPECT().Candidates(gomock.Any(), 2022).Return([]tse.CandidateRecord{
		{Year: 2022, SequenceID: "220002", CPF: testCPF, Office: "GOVERNADOR", Outcome: ""},
		{Year: 2022, SequenceID: "220002", CPF: testCPF, Office: "GOVERNADOR", Outcome: "ELEITO"},
	}, nil)

	clock := fixedClock(t, ctrl, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	engine := correlate.NewEngine(discovery, datasets, clock, 24)

	result, err := engine.Correlate(context.Background(), testCPF, 1980)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalRuns)
	assert.Equal(t, "ELEITO", result.Matches[0].Outcome)
}

func TestEngine_Correlate_FormattedCPF(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	discovery := mocks.NewMockDiscovery(ctrl)
	discovery.EXPECT().
		AvailableYears(gomock.Any(), domain.DatasetCandidates).
		Return([]int{2022}, nil)

	datasets := mocks.NewMockDatasets(ctrl)
	datasets.EXPECT().Candidates(gomock.Any(), 2022).Return([]tse.CandidateRecord{
		{Year: 2022, SequenceID: "220003", CPF: testCPF, Office: "DEPUTADO FEDERAL"},
	}, nil)

	clock := fixedClock(t, ctrl, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	engine := correlate.NewEngine(discovery, datasets, clock, 24)

	result, err := engine.Correlate(context.Background(), "111.222.333-44", 1980)
	require.NoError(t, err)
	assert.True(t, result.TSELinked)
}

func TestEngine_Correlate_InvalidCPF(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := correlate.NewEngine(mocks.NewMockDiscovery(ctrl), mocks.NewMockDatasets(ctrl), fixedClock(t, ctrl, time.Now()), 24)

	_, err := engine.Correlate(context.Background(), "123", 1980)
	require.Error(t, err)
}

func TestEngine_Correlate_DatasetError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	discovery := mocks.NewMockDiscovery(ctrl)
	discovery.EXPECT().
		AvailableYears(gomock.Any(), domain.DatasetCandidates).
		Return([]int{2022}, nil)

	datasets := mocks.NewMockDatasets(ctrl)
	datasets.EXPECT().Candidates(gomock.Any(), 2022).Return(nil, fmt.Errorf("archive unavailable"))

	clock := fixedClock(t, ctrl, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	engine := correlate.NewEngine(discovery, datasets, clock, 24)

	_, err := engine.Correlate(context.Background(), testCPF, 1980)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2022")
}
