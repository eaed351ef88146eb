package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SyntheticCase is one unit of evaluable content: a narrative rendered in
// three parallel structured representations. The payloads are opaque to
// this service and stored/returned verbatim.
type SyntheticCase struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BatchID          string    `gorm:"index;column:batch_id" json:"batch_id"`
	Label            string    `gorm:"not null;column:label" json:"label"`
	NarrativeSummary string    `gorm:"type:text;column:narrative_summary" json:"narrative_summary"`

	Format1StateLog   datatypes.JSON `gorm:"column:format_1_state_log" json:"format_1_state_log"`
	Format2Triples    datatypes.JSON `gorm:"column:format_2_triples" json:"format_2_triples"`
	Format3RlScenario datatypes.JSON `gorm:"column:format_3_rl_scenario" json:"format_3_rl_scenario"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (SyntheticCase) TableName() string { return "synthetic_cases" }
