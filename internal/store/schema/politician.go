package schema

import "time"

// Politician represents the politicians table - the primary entity merging
// the parliamentary roster with electoral history
type Politician struct {
	// ID is the internal database primary key
	ID uint `gorm:"column:id;primaryKey;autoIncrement"`
	// ChamberID is the deputy identifier in the Chamber of Deputies API
	ChamberID int64 `gorm:"column:chamber_id;not null;uniqueIndex"`
	// CPF is the normalized 11-digit tax ID used as the cross-source join key
	CPF string `gorm:"column:cpf;type:text;uniqueIndex:idx_politicians_cpf,where:cpf <> ''"`
	// FullName is the civil name from the Chamber roster
	FullName string `gorm:"column:full_name;not null;type:text"`
	// NormalizedName is the diacritic-stripped upper-case form used for fuzzy matching
	NormalizedName string     `gorm:"column:normalized_name;not null;type:text;index"`
	BallotName     string     `gorm:"column:ballot_name;type:text"`
	Party          string     `gorm:"column:party;type:text"`
	State          string     `gorm:"column:state;type:text"`
	Gender         string     `gorm:"column:gender;type:text"`
	BirthDate      *time.Time `gorm:"column:birth_date"`
	Education      string     `gorm:"column:education;type:text"`
	Email          string     `gorm:"column:email;type:text"`
	PhotoURL       string     `gorm:"column:photo_url;type:text"`

	// TSELinked reports whether at least one electoral run was correlated by CPF
	TSELinked bool `gorm:"column:tse_linked;not null;default:false"`
	// TSESequenceID is the candidacy key of the most recent run
	TSESequenceID *string `gorm:"column:tse_sequence_id;type:text"`
	// TSELatestOutcome is DS_SIT_TOT_TURNO of the most recent run
	TSELatestOutcome *string `gorm:"column:tse_latest_outcome;type:text"`
	TSEFirstYear     *int    `gorm:"column:tse_first_year"`
	TSELastYear      *int    `gorm:"column:tse_last_year"`
	TSETotalRuns     int     `gorm:"column:tse_total_runs;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for the Politician model
func (Politician) TableName() string {
	return "politicians"
}
