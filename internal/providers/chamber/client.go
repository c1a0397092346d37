package chamber

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/openpolitica/politician-indexer/internal/adapter"
	"github.com/openpolitica/politician-indexer/internal/ratelimit"
)

// Source is the rate limiter source name for the chamber API
const Source = "chamber"

// link is an entry of the HATEOAS "links" array on every list response
type link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// listResponse is the paged envelope returned by every list endpoint
type listResponse struct {
	Dados json.RawMessage `json:"dados"`
	Links []link          `json:"links"`
}

// detailResponse is the envelope returned by detail endpoints
type detailResponse struct {
	Dados json.RawMessage `json:"dados"`
}

// DeputySummary is one entry of the paged roster listing
type DeputySummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"nome"`
	Party       string `json:"siglaPartido"`
	State       string `json:"siglaUf"`
	Legislature int    `json:"idLegislatura"`
	PhotoURL    string `json:"urlFoto"`
	Email       string `json:"email"`
}

// DeputyStatus is the nested "current status" object on the full record
type DeputyStatus struct {
	Name              string `json:"nome"`
	Party             string `json:"siglaPartido"`
	State             string `json:"siglaUf"`
	Email             string `json:"email"`
	PhotoURL          string `json:"urlFoto"`
	Situation         string `json:"situacao"`
	ElectoralStanding string `json:"condicaoEleitoral"`
}

// DeputyDetail is the full roster record for one legislator
type DeputyDetail struct {
	ID         int64        `json:"id"`
	CivilName  string       `json:"nomeCivil"`
	CPF        string       `json:"cpf"`
	Sex        string       `json:"sexo"`
	BirthDate  string       `json:"dataNascimento"`
	BirthState string       `json:"ufNascimento"`
	Education  string       `json:"escolaridade"`
	WebsiteURL string       `json:"urlWebsite"`
	Status     DeputyStatus `json:"ultimoStatus"`
}

// Expense is one parliamentary-quota expense record
type Expense struct {
	Year           int     `json:"ano"`
	Month          int     `json:"mes"`
	ExpenseType    string  `json:"tipoDespesa"`
	DocumentID     int64   `json:"codDocumento"`
	DocumentDate   string  `json:"dataDocumento"`
	DocumentNumber string  `json:"numDocumento"`
	GrossValue     float64 `json:"valorDocumento"`
	NetValue       float64 `json:"valorLiquido"`
	SupplierName   string  `json:"nomeFornecedor"`
	SupplierTaxID  string  `json:"cnpjCpfFornecedor"`
	DocumentURL    string  `json:"urlDocumento"`
}

// CommitteeMembership is one committee ("orgao") membership record
type CommitteeMembership struct {
	OrganID   int64  `json:"idOrgao"`
	Acronym   string `json:"siglaOrgao"`
	Name      string `json:"nomeOrgao"`
	Role      string `json:"titulo"`
	StartDate string `json:"dataInicio"`
	EndDate   string `json:"dataFim"`
}

// Front is one parliamentary front membership record
type Front struct {
	ID          int64  `json:"id"`
	Title       string `json:"titulo"`
	Legislature int    `json:"idLegislatura"`
}

// ExternalMandate is one pre-chamber elected office record
type ExternalMandate struct {
	Office        string `json:"cargo"`
	State         string `json:"siglaUf"`
	Municipality  string `json:"municipio"`
	StartYear     string `json:"anoInicio"`
	EndYear       string `json:"anoFim"`
	ElectionParty string `json:"siglaPartidoEleicao"`
}

// Event is one chamber event the legislator participated in
type Event struct {
	ID            int64  `json:"id"`
	StartsAt      string `json:"dataHoraInicio"`
	EndsAt        string `json:"dataHoraFim"`
	Situation     string `json:"situacao"`
	EventType     string `json:"descricaoTipo"`
	Title         string `json:"descricao"`
	LocalExternal string `json:"localExterno"`
}

// Profession is one declared profession record
type Profession struct {
	ID       int64  `json:"id"`
	Title    string `json:"titulo"`
	TypeCode int    `json:"codTipoProfissao"`
}

// Occupation is one declared employment record
type Occupation struct {
	Title         string `json:"titulo"`
	Entity        string `json:"entidade"`
	EntityState   string `json:"entidadeUF"`
	EntityCountry string `json:"entidadePais"`
	StartYear     *int   `json:"anoInicio"`
	EndYear       *int   `json:"anoFim"`
}

// Client defines the Chamber of Deputies open-data API surface the pipeline
// consumes
//
//go:generate mockgen -source=client.go -destination=../../mocks/chamber_client.go -package=mocks -mock_names=Client=MockChamberClient
type Client interface {
	// ListDeputies returns the full roster, following pagination links
	ListDeputies(ctx context.Context) ([]DeputySummary, error)
	// GetDeputy returns the full record for one legislator
	GetDeputy(ctx context.Context, id int64) (*DeputyDetail, error)
	GetExpenses(ctx context.Context, id int64) ([]Expense, error)
	GetCommittees(ctx context.Context, id int64) ([]CommitteeMembership, error)
	GetFronts(ctx context.Context, id int64) ([]Front, error)
	GetExternalMandates(ctx context.Context, id int64) ([]ExternalMandate, error)
	GetEvents(ctx context.Context, id int64) ([]Event, error)
	GetProfessions(ctx context.Context, id int64) ([]Profession, error)
	GetOccupations(ctx context.Context, id int64) ([]Occupation, error)
}

type client struct {
	baseURL    string
	pageSize   int
	httpClient adapter.HTTPClient
	limiter    ratelimit.Limiter
	clock      adapter.Clock
}

// NewClient creates a new chamber API client. Every request passes through
// the rate limiter before hitting the network.
func NewClient(httpClient adapter.HTTPClient, limiter ratelimit.Limiter, clock adapter.Clock, baseURL string, pageSize int) Client {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &client{
		baseURL:    baseURL,
		pageSize:   pageSize,
		httpClient: httpClient,
		limiter:    limiter,
		clock:      clock,
	}
}

// fetchAllPages walks a paged list endpoint following rel="next" links and
// accumulates every item
func fetchAllPages[T any](ctx context.Context, c *client, firstURL string) ([]T, error) {
	var items []T

	pageURL := firstURL
	for pageURL != "" {
		page, err := ratelimit.Do(ctx, c.limiter, c.clock, Source, func(ctx context.Context) (*listResponse, error) {
			var resp listResponse
			if err := c.httpClient.Get(ctx, pageURL, &resp); err != nil {
				return nil, err
			}
			return &resp, nil
		})
		if err != nil {
			return nil, err
		}

		var pageItems []T
		if err := json.Unmarshal(page.Dados, &pageItems); err != nil {
			return nil, fmt.Errorf("failed to decode page items: %w", err)
		}
		items = append(items, pageItems...)

		pageURL = ""
		for _, l := range page.Links {
			if l.Rel == "next" {
				pageURL = l.Href
				break
			}
		}
	}

	return items, nil
}

func (c *client) listURL(path string, extra url.Values) string {
	v := url.Values{}
	v.Set("itens", fmt.Sprintf("%d", c.pageSize))
	for key, vals := range extra {
		for _, val := range vals {
			v.Add(key, val)
		}
	}
	return fmt.Sprintf("%s%s?%s", c.baseURL, path, v.Encode())
}

// ListDeputies returns the full roster, following pagination links
func (c *client) ListDeputies(ctx context.Context) ([]DeputySummary, error) {
	deputies, err := fetchAllPages[DeputySummary](ctx, c, c.listURL("/deputados", url.Values{"ordem": {"ASC"}, "ordenarPor": {"id"}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list deputies: %w", err)
	}
	return deputies, nil
}

// GetDeputy returns the full record for one legislator
func (c *client) GetDeputy(ctx context.Context, id int64) (*DeputyDetail, error) {
	reqURL := fmt.Sprintf("%s/deputados/%d", c.baseURL, id)

	resp, err := ratelimit.Do(ctx, c.limiter, c.clock, Source, func(ctx context.Context) (*detailResponse, error) {
		var resp detailResponse
		if err := c.httpClient.Get(ctx, reqURL, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get deputy %d: %w", id, err)
	}

	var detail DeputyDetail
	if err := json.Unmarshal(resp.Dados, &detail); err != nil {
		return nil, fmt.Errorf("failed to decode deputy %d: %w", id, err)
	}
	return &detail, nil
}

func (c *client) GetExpenses(ctx context.Context, id int64) ([]Expense, error) {
	return fetchAllPages[Expense](ctx, c, c.listURL(fmt.Sprintf("/deputados/%d/despesas", id), nil))
}

func (c *client) GetCommittees(ctx context.Context, id int64) ([]CommitteeMembership, error) {
	return fetchAllPages[CommitteeMembership](ctx, c, c.listURL(fmt.Sprintf("/deputados/%d/orgaos", id), nil))
}

func (c *client) GetFronts(ctx context.Context, id int64) ([]Front, error) {
	return fetchAllPages[Front](ctx, c, c.listURL(fmt.Sprintf("/deputados/%d/frentes", id), nil))
}

func (c *client) GetExternalMandates(ctx context.Context, id int64) ([]ExternalMandate, error) {
	return fetchAllPages[ExternalMandate](ctx, c, c.listURL(fmt.Sprintf("/deputados/%d/mandatosExternos", id), nil))
}

func (c *client) GetEvents(ctx context.Context, id int64) ([]Event, error) {
	return fetchAllPages[Event](ctx, c, c.listURL(fmt.Sprintf("/deputados/%d/eventos", id), nil))
}

func (c *client) GetProfessions(ctx context.Context, id int64) ([]Profession, error) {
	return fetchAllPages[Profession](ctx, c, c.listURL(fmt.Sprintf("/deputados/%d/profissoes", id), nil))
}

func (c *client) GetOccupations(ctx context.Context, id int64) ([]Occupation, error) {
	return fetchAllPages[Occupation](ctx, c, c.listURL(fmt.Sprintf("/deputados/%d/ocupacoes", id), nil))
}
