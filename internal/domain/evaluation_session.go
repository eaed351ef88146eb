package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// EvaluationSession binds one navigator to one case. The composite unique
// index enforces at-most-one session per (case, navigator) at the data
// layer, so concurrent creates resolve to one success and one conflict.
// Invariant: CompletedAt is non-nil iff Status is completed.
type EvaluationSession struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CaseID      uuid.UUID `gorm:"type:uuid;not null;column:case_id;uniqueIndex:uq_session_case_navigator" json:"case_id"`
	NavigatorID uuid.UUID `gorm:"type:uuid;not null;index;column:navigator_id;uniqueIndex:uq_session_case_navigator" json:"navigator_id"`

	// Display snapshots, denormalized so dashboards sort without joins.
	CaseLabel     string `gorm:"column:case_label" json:"case_label"`
	NavigatorName string `gorm:"column:navigator_name" json:"navigator_name"`

	Status                   SessionStatus `gorm:"type:text;not null;default:in_progress;column:status" json:"status"`
	OverallFieldAuthenticity *int          `gorm:"column:overall_field_authenticity" json:"overall_field_authenticity"`
	CompletedAt              *time.Time    `gorm:"column:completed_at" json:"completed_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Case      *SyntheticCase `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE" json:"-"`
	Navigator *Profile       `gorm:"foreignKey:NavigatorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (EvaluationSession) TableName() string { return "evaluation_sessions" }
