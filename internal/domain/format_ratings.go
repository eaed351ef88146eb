package domain

import (
	"time"

	"github.com/google/uuid"
)

// The three rating tables are structurally distinct child record sets of a
// session, each keyed by (session_id, index). Ownership is not duplicated
// on the child rows; it is resolved through the parent session. Free-text
// classification fields are stored verbatim.

type Format1TimelineRating struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID  uuid.UUID `gorm:"type:uuid;not null;column:session_id;uniqueIndex:uq_f1_session_event" json:"session_id"`
	EventIndex int       `gorm:"not null;column:event_index;uniqueIndex:uq_f1_session_event" json:"event_index"`

	ClinicalImpact            string `gorm:"column:clinical_impact" json:"clinical_impact"`
	EnvironmentalImpact       string `gorm:"column:environmental_impact" json:"environmental_impact"`
	HomeServiceAdoptionImpact string `gorm:"column:home_service_adoption_impact" json:"home_service_adoption_impact"`
	EddDelta                  string `gorm:"column:edd_delta" json:"edd_delta"`
	BottleneckRealism         bool   `gorm:"not null;column:bottleneck_realism" json:"bottleneck_realism"`

	CaseLabel     string `gorm:"column:case_label" json:"case_label"`
	NavigatorName string `gorm:"column:navigator_name" json:"navigator_name"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Session *EvaluationSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Format1TimelineRating) TableName() string { return "eval_format_1_timeline" }

type Format2TacticRating struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID   uuid.UUID `gorm:"type:uuid;not null;column:session_id;uniqueIndex:uq_f2_session_triple" json:"session_id"`
	TripleIndex int       `gorm:"not null;column:triple_index;uniqueIndex:uq_f2_session_triple" json:"triple_index"`

	IntentFeasibility int `gorm:"not null;column:intent_feasibility" json:"intent_feasibility"`

	CaseLabel     string `gorm:"column:case_label" json:"case_label"`
	NavigatorName string `gorm:"column:navigator_name" json:"navigator_name"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Session *EvaluationSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Format2TacticRating) TableName() string { return "eval_format_2_tactics" }

type Format3BoundaryRating struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID   uuid.UUID `gorm:"type:uuid;not null;column:session_id;uniqueIndex:uq_f3_session_option" json:"session_id"`
	OptionIndex int       `gorm:"not null;column:option_index;uniqueIndex:uq_f3_session_option" json:"option_index"`

	// Compared downstream for agreement; stored verbatim here.
	PnCategory         string `gorm:"column:pn_category" json:"pn_category"`
	AiIntendedCategory string `gorm:"column:ai_intended_category" json:"ai_intended_category"`

	CaseLabel     string `gorm:"column:case_label" json:"case_label"`
	NavigatorName string `gorm:"column:navigator_name" json:"navigator_name"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Session *EvaluationSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Format3BoundaryRating) TableName() string { return "eval_format_3_boundaries" }
