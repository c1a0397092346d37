package schema

import "time"

// EntityType classifies a counterpart by tax ID shape
type EntityType string

const (
	// EntityTypeCompany is a 14-digit CNPJ holder
	EntityTypeCompany EntityType = "COMPANY"
	// EntityTypeIndividual is an 11-digit CPF holder
	EntityTypeIndividual EntityType = "INDIVIDUAL"
	// EntityTypeUnknown is anything else
	EntityTypeUnknown EntityType = "UNKNOWN"
)

// FinancialCounterpart represents the financial_counterparts table - one row
// per distinct entity that exchanged money with any politician, with running
// aggregates across all transaction types
type FinancialCounterpart struct {
	ID uint `gorm:"column:id;primaryKey;autoIncrement"`
	// TaxID is the normalized digit-only CPF or CNPJ
	TaxID      string     `gorm:"column:tax_id;not null;uniqueIndex;type:text"`
	Name       string     `gorm:"column:name;type:text"`
	EntityType EntityType `gorm:"column:entity_type;not null;type:text"`

	TransactionCount int `gorm:"column:transaction_count;not null;default:0"`
	// Per-type totals; the sum of the four is the counterpart's full volume
	TotalParliamentaryExpenses float64 `gorm:"column:total_parliamentary_expenses;not null;default:0"`
	TotalCampaignDonations     float64 `gorm:"column:total_campaign_donations;not null;default:0"`
	TotalCampaignExpenses      float64 `gorm:"column:total_campaign_expenses;not null;default:0"`
	TotalOriginalDonations     float64 `gorm:"column:total_original_donations;not null;default:0"`

	FirstTransactionDate *time.Time `gorm:"column:first_transaction_date"`
	LastTransactionDate  *time.Time `gorm:"column:last_transaction_date"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for the FinancialCounterpart model
func (FinancialCounterpart) TableName() string {
	return "financial_counterparts"
}
