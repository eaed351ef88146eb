// Package policy is the authorization core. Every data operation is gated
// through Engine.Authorize before it executes, replacing the row-level
// filters the storage layer used to evaluate implicitly. Two tiers: a
// global admin override, then a per-resource ownership predicate; the
// default is deny.
package policy

import (
	"github.com/google/uuid"

	types "github.com/fieldnav/annotation-backend/internal/domain"
	"github.com/fieldnav/annotation-backend/internal/platform/apperr"
)

type Action string

const (
	ActionSelect Action = "select"
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Caller is the acting identity with its role as resolved from the role
// directory for this one call. Callers without a provisioned profile have
// HasProfile false and an empty role.
type Caller struct {
	ID         uuid.UUID
	Role       types.Role
	HasProfile bool
}

func (c Caller) isAdmin() bool {
	return c.HasProfile && c.Role == types.RoleAdmin
}

// Resource descriptors carry the ownership facts the predicates need,
// pre-resolved by the service inside the same transaction as the guarded
// operation. For ratings the owner is resolved through the parent session,
// never duplicated on the child row.
type Resource interface {
	resource()
}

// Profile is the profile row with the given id.
type Profile struct {
	ID uuid.UUID
}

// Case is any row of the case catalog; cases carry no per-row owner.
type Case struct{}

// Session is an evaluation session owned by NavigatorID.
type Session struct {
	NavigatorID uuid.UUID
}

// Rating is a format rating whose parent session is owned by
// SessionNavigatorID.
type Rating struct {
	SessionNavigatorID uuid.UUID
}

func (Profile) resource() {}
func (Case) resource()    {}
func (Session) resource() {}
func (Rating) resource()  {}

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Authorize returns nil when the caller may perform action on res, and an
// error wrapping apperr.ErrForbidden otherwise. It never reports whether
// the resource exists; absence and invisibility are indistinguishable to
// the caller.
func (e *Engine) Authorize(caller Caller, action Action, res Resource) error {
	// Tier 1: admin override, unconditional for every resource and action.
	if caller.isAdmin() {
		return nil
	}

	// Tier 2: per-resource ownership predicate.
	switch r := res.(type) {
	case Profile:
		// A caller may insert and read its own profile row, nothing else.
		// Insert needs no role: it is the provisioning bootstrap.
		if caller.ID == r.ID && (action == ActionInsert || action == ActionSelect) {
			return nil
		}
	case Case:
		if action == ActionSelect && caller.HasProfile && caller.Role == types.RoleNavigator {
			return nil
		}
	case Session:
		if caller.ID != r.NavigatorID {
			break
		}
		// Starting a session additionally needs a provisioned profile;
		// self-ownership alone is not enough.
		if action == ActionInsert && !caller.HasProfile {
			break
		}
		return nil
	case Rating:
		if caller.ID == r.SessionNavigatorID {
			return nil
		}
	}

	return apperr.Forbidden("%s on %T denied", action, res)
}

// RequireAdmin gates operations that have no per-row ownership rule at
// all: catalog writes, directory listing, arbitrary profile mutation.
func (e *Engine) RequireAdmin(caller Caller) error {
	if caller.isAdmin() {
		return nil
	}
	return apperr.Forbidden("admin role required")
}
