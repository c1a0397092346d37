package schema

import "time"

// NetworkMembership represents the network_memberships table - committee
// seats and parliamentary front signatures
type NetworkMembership struct {
	ID           uint `gorm:"column:id;primaryKey;autoIncrement"`
	PoliticianID uint `gorm:"column:politician_id;not null;uniqueIndex:idx_network_memberships_key,priority:1"`
	// MembershipType is committee or front
	MembershipType string `gorm:"column:membership_type;not null;type:text;uniqueIndex:idx_network_memberships_key,priority:2"`
	// OrganID is the Chamber identifier of the committee or front
	OrganID   int64      `gorm:"column:organ_id;not null;uniqueIndex:idx_network_memberships_key,priority:3"`
	Name      string     `gorm:"column:name;type:text"`
	Acronym   string     `gorm:"column:acronym;type:text"`
	Role      string     `gorm:"column:role;type:text"`
	StartDate *time.Time `gorm:"column:start_date"`
	EndDate   *time.Time `gorm:"column:end_date"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Politician *Politician `gorm:"foreignKey:PoliticianID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the NetworkMembership model
func (NetworkMembership) TableName() string {
	return "network_memberships"
}
