package domain

// SourceSystem identifies which external system a record originated from
type SourceSystem string

const (
	// SourceChamber represents the Chamber of Deputies open-data REST API
	SourceChamber SourceSystem = "chamber"
	// SourceTSE represents the TSE electoral open-data catalog
	SourceTSE SourceSystem = "tse"
)

// EntityType classifies a financial counterpart by its tax identifier
type EntityType string

const (
	// EntityTypeCompany is a legal entity identified by a 14-digit CNPJ
	EntityTypeCompany EntityType = "COMPANY"
	// EntityTypeIndividual is a natural person identified by an 11-digit CPF
	EntityTypeIndividual EntityType = "INDIVIDUAL"
	// EntityTypeUnknown is used when the identifier has no recognizable format
	EntityTypeUnknown EntityType = "UNKNOWN"
)

// TransactionType classifies a financial record by its origin stream
type TransactionType string

const (
	// TransactionParliamentaryExpense is an expense reimbursed by the chamber quota
	TransactionParliamentaryExpense TransactionType = "parliamentary_expense"
	// TransactionCampaignDonation is a donation received by a campaign
	TransactionCampaignDonation TransactionType = "campaign_donation"
	// TransactionCampaignExpense is an expense paid by a campaign
	TransactionCampaignExpense TransactionType = "campaign_expense"
	// TransactionOriginalDonation is a donation traced back to its original donor
	TransactionOriginalDonation TransactionType = "original_donation"
)

// DatasetKind identifies a family of TSE dataset packages published per year
type DatasetKind string

const (
	// DatasetCandidates is the yearly candidate roster dataset
	DatasetCandidates DatasetKind = "consulta_cand"
	// DatasetFinance is the yearly campaign finance dataset
	DatasetFinance DatasetKind = "prestacao_contas"
	// DatasetAssets is the yearly declared-assets dataset
	DatasetAssets DatasetKind = "bem_candidato"
)

// Stage is one ordered phase of the population pipeline
type Stage string

const (
	StagePoliticians         Stage = "politicians"
	StageCounterparts        Stage = "counterparts"
	StageFinancialRecords    Stage = "financial_records"
	StageNetworkMemberships  Stage = "network_memberships"
	StageWealthSnapshots     Stage = "wealth_snapshots"
	StageAssets              Stage = "assets"
	StageCareerMandates      Stage = "career_mandates"
	StageEvents              Stage = "events"
	StageProfessionalRecords Stage = "professional_records"
)

// StageOrder is the fixed population order. Later stages carry foreign keys
// into rows written by earlier stages, so the order must not change.
var StageOrder = []Stage{
	StagePoliticians,
	StageCounterparts,
	StageFinancialRecords,
	StageNetworkMemberships,
	StageWealthSnapshots,
	StageAssets,
	StageCareerMandates,
	StageEvents,
	StageProfessionalRecords,
}

// ValidStage reports whether name matches a known pipeline stage
func ValidStage(name string) bool {
	for _, s := range StageOrder {
		if string(s) == name {
			return true
		}
	}
	return false
}
