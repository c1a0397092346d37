package chamber_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpolitica/politician-indexer/internal/logger"
	"github.com/openpolitica/politician-indexer/internal/mocks"
	"github.com/openpolitica/politician-indexer/internal/providers/chamber"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func respond(payload string) func(ctx context.Context, url string, result interface{}) error {
	return func(ctx context.Context, url string, result interface{}) error {
		return json.Unmarshal([]byte(payload), result)
	}
}

func TestClient_ListDeputies_FollowsNextLinks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)
	client := chamber.NewClient(mockHTTP, nil, nil, "https://dadosabertos.camara.leg.br/api/v2", 2)

	firstPage := `{
		"dados": [
			{"id": 42, "nome": "Deputy A", "siglaPartido": "XX", "siglaUf": "SP"},
			{"id": 43, "nome": "Deputy B", "siglaPartido": "YY", "siglaUf": "RJ"}
		],
		"links": [
			{"rel": "self", "href": "https://dadosabertos.camara.leg.br/api/v2/deputados?pagina=1"},
			{"rel": "next", "href": "https://dadosabertos.camara.leg.br/api/v2/deputados?pagina=2"}
		]
	}`
	secondPage := `{
		"dados": [
			{"id": 44, "nome": "Deputy C", "siglaPartido": "ZZ", "siglaUf": "MG"}
		],
		"links": [
			{"rel": "self", "href": "https://dadosabertos.camara.leg.br/api/v2/deputados?pagina=2"}
		]
	}`

	gomock.InOrder(
		mockHTTP.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(respond(firstPage)),
		mockHTTP.EXPECT().
			Get(gomock.Any(), "https://dadosabertos.camara.leg.br/api/v2/deputados?pagina=2", gomock.Any()).
			DoAndReturn(respond(secondPage)),
	)

	deputies, err := client.ListDeputies(context.Background())
	require.NoError(t, err)
	require.Len(t, deputies, 3)
	assert.Equal(t, int64(42), deputies[0].ID)
	assert.Equal(t, "Deputy C", deputies[2].Name)
}

func TestClient_GetDeputy_DecodesNestedStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)
	client := chamber.NewClient(mockHTTP, nil, nil, "https://dadosabertos.camara.leg.br/api/v2", 100)

	payload := `{
		"dados": {
			"id": 42,
			"nomeCivil": "Jose da Silva",
			"cpf": "11122233344",
			"sexo": "M",
			"dataNascimento": "1970-05-01",
			"escolaridade": "Superior",
			"ultimoStatus": {
				"nome": "Jose Silva",
				"siglaPartido": "XX",
				"siglaUf": "SP",
				"email": "dep@camara.leg.br",
				"situacao": "Exercicio",
				"condicaoEleitoral": "Titular"
			}
		}
	}`

	mockHTTP.EXPECT().
		Get(gomock.Any(), "https://dadosabertos.camara.leg.br/api/v2/deputados/42", gomock.Any()).
		DoAndReturn(respond(payload)).
		Times(1)

	deputy, err := client.GetDeputy(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "11122233344", deputy.CPF)
	assert.Equal(t, "Jose da Silva", deputy.CivilName)
	assert.Equal(t, "Exercicio", deputy.Status.Situation)
	assert.Equal(t, "SP", deputy.Status.State)
}

func TestClient_GetExpenses_DecodesSupplierFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)
	client := chamber.NewClient(mockHTTP, nil, nil, "https://dadosabertos.camara.leg.br/api/v2", 100)

	payload := `{
		"dados": [
			{
				"ano": 2023, "mes": 4,
				"tipoDespesa": "COMBUSTIVEIS E LUBRIFICANTES",
				"codDocumento": 7564215,
				"dataDocumento": "2023-04-12",
				"valorDocumento": 250.0,
				"valorLiquido": 250.0,
				"nomeFornecedor": "POSTO CENTRAL LTDA",
				"cnpjCpfFornecedor": "12.345.678/0001-99"
			}
		],
		"links": []
	}`

	mockHTTP.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(respond(payload)).
		Times(1)

	expenses, err := client.GetExpenses(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "12.345.678/0001-99", expenses[0].SupplierTaxID)
	assert.InDelta(t, 250.0, expenses[0].NetValue, 1e-9)
}

func TestClient_GetDeputy_PropagatesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)
	client := chamber.NewClient(mockHTTP, nil, nil, "https://dadosabertos.camara.leg.br/api/v2", 100)

	mockHTTP.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("connection refused")).
		Times(1)

	_, err := client.GetDeputy(context.Background(), 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get deputy 42")
}
