package schema

import "time"

// WealthSnapshot represents the wealth_snapshots table - the declared net
// worth of a politician at one election, aggregated from individual assets
type WealthSnapshot struct {
	ID           uint `gorm:"column:id;primaryKey;autoIncrement"`
	PoliticianID uint `gorm:"column:politician_id;not null;uniqueIndex:idx_wealth_snapshots_key,priority:1"`
	Year         int  `gorm:"column:year;not null;uniqueIndex:idx_wealth_snapshots_key,priority:2"`
	// TotalDeclared is the sum of all asset values declared that year
	TotalDeclared float64 `gorm:"column:total_declared;not null"`
	AssetCount    int     `gorm:"column:asset_count;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Politician *Politician `gorm:"foreignKey:PoliticianID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the WealthSnapshot model
func (WealthSnapshot) TableName() string {
	return "wealth_snapshots"
}
