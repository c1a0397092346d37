package schema

import "time"

// CareerMandate represents the career_mandates table - offices held outside
// the current Chamber mandate
type CareerMandate struct {
	ID           uint   `gorm:"column:id;primaryKey;autoIncrement"`
	PoliticianID uint   `gorm:"column:politician_id;not null;uniqueIndex:idx_career_mandates_key,priority:1"`
	Office       string `gorm:"column:office;not null;type:text;uniqueIndex:idx_career_mandates_key,priority:2"`
	StartYear    int    `gorm:"column:start_year;not null;uniqueIndex:idx_career_mandates_key,priority:3"`
	EndYear      *int   `gorm:"column:end_year"`
	State        string `gorm:"column:state;type:text"`
	Municipality string `gorm:"column:municipality;type:text"`
	Party        string `gorm:"column:party;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Politician *Politician `gorm:"foreignKey:PoliticianID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the CareerMandate model
func (CareerMandate) TableName() string {
	return "career_mandates"
}
