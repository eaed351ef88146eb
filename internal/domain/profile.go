package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleNavigator Role = "navigator"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleNavigator
}

// Profile mirrors the identity provider's user id. The id is supplied by
// the provider, never generated here. The PIN is secondary verification
// data, not a credential.
type Profile struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Role     Role      `gorm:"type:text;not null;column:role" json:"role"`
	FullName string    `gorm:"not null;column:full_name" json:"full_name"`
	PIN      *string   `gorm:"type:char(4);column:pin" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
