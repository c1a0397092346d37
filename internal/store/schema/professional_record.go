package schema

import "time"

// ProfessionalRecord represents the professional_records table - declared
// professions and pre-office occupations
type ProfessionalRecord struct {
	ID           uint `gorm:"column:id;primaryKey;autoIncrement"`
	PoliticianID uint `gorm:"column:politician_id;not null;uniqueIndex:idx_professional_records_key,priority:1"`
	// RecordType is profession or occupation
	RecordType  string `gorm:"column:record_type;not null;type:text;uniqueIndex:idx_professional_records_key,priority:2"`
	Title       string `gorm:"column:title;not null;type:text;uniqueIndex:idx_professional_records_key,priority:3"`
	Entity      string `gorm:"column:entity;type:text"`
	EntityState string `gorm:"column:entity_state;type:text"`
	StartYear   *int   `gorm:"column:start_year"`
	EndYear     *int   `gorm:"column:end_year"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Politician *Politician `gorm:"foreignKey:PoliticianID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the ProfessionalRecord model
func (ProfessionalRecord) TableName() string {
	return "professional_records"
}
