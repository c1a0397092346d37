package schema

import "time"

// Asset represents the assets table - one declared asset from the electoral
// asset disclosure of one election year
type Asset struct {
	ID           uint `gorm:"column:id;primaryKey;autoIncrement"`
	PoliticianID uint `gorm:"column:politician_id;not null;index:idx_assets_politician_year,priority:1"`
	Year         int  `gorm:"column:year;not null;index:idx_assets_politician_year,priority:2"`
	// TypeCode is the TSE asset type code, TypeName its label
	TypeCode    string  `gorm:"column:type_code;type:text"`
	TypeName    string  `gorm:"column:type_name;type:text"`
	Description string  `gorm:"column:description;type:text"`
	Value       float64 `gorm:"column:value;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Politician *Politician `gorm:"foreignKey:PoliticianID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Asset model
func (Asset) TableName() string {
	return "assets"
}
