package schema

import "time"

// Event represents the events table - parliamentary events a politician
// took part in
type Event struct {
	ID           uint       `gorm:"column:id;primaryKey;autoIncrement"`
	PoliticianID uint       `gorm:"column:politician_id;not null;uniqueIndex:idx_events_key,priority:1"`
	ChamberID    int64      `gorm:"column:chamber_id;not null;uniqueIndex:idx_events_key,priority:2"`
	EventType    string     `gorm:"column:event_type;type:text"`
	Title        string     `gorm:"column:title;type:text"`
	Situation    string     `gorm:"column:situation;type:text"`
	StartTime    *time.Time `gorm:"column:start_time"`
	EndTime      *time.Time `gorm:"column:end_time"`
	Location     string     `gorm:"column:location;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Politician *Politician `gorm:"foreignKey:PoliticianID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Event model
func (Event) TableName() string {
	return "events"
}
