package schema

import "time"

// FinancialRecord represents the financial_records table - one money movement
// between a politician and a counterpart
type FinancialRecord struct {
	ID           uint `gorm:"column:id;primaryKey;autoIncrement"`
	PoliticianID uint `gorm:"column:politician_id;not null;index;uniqueIndex:idx_financial_records_external,priority:1"`
	// TransactionType is one of parliamentary_expense, campaign_donation,
	// campaign_expense, original_donation
	TransactionType string `gorm:"column:transaction_type;not null;type:text;uniqueIndex:idx_financial_records_external,priority:2"`
	// Source is the system of record, chamber or tse
	Source           string     `gorm:"column:source;not null;type:text"`
	CounterpartTaxID string     `gorm:"column:counterpart_tax_id;type:text;index"`
	CounterpartName  string     `gorm:"column:counterpart_name;type:text"`
	Amount           float64    `gorm:"column:amount;not null"`
	Date             *time.Time `gorm:"column:date"`
	Year             int        `gorm:"column:year;not null;index"`
	Description      string     `gorm:"column:description;type:text"`
	// ExternalID keys the record inside its source system; null when the
	// source publishes no row identifier
	ExternalID *string `gorm:"column:external_id;type:text;uniqueIndex:idx_financial_records_external,priority:3"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Politician *Politician `gorm:"foreignKey:PoliticianID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the FinancialRecord model
func (FinancialRecord) TableName() string {
	return "financial_records"
}
