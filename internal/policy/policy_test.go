package policy

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	types "github.com/fieldnav/annotation-backend/internal/domain"
	"github.com/fieldnav/annotation-backend/internal/platform/apperr"
)

var allActions = []Action{ActionSelect, ActionInsert, ActionUpdate, ActionDelete}

func TestAdminOverride(t *testing.T) {
	e := NewEngine()
	admin := Caller{ID: uuid.New(), Role: types.RoleAdmin, HasProfile: true}
	someoneElse := uuid.New()

	resources := []Resource{
		Profile{ID: someoneElse},
		Case{},
		Session{NavigatorID: someoneElse},
		Rating{SessionNavigatorID: someoneElse},
	}
	for _, res := range resources {
		for _, action := range allActions {
			if err := e.Authorize(admin, action, res); err != nil {
				t.Fatalf("admin %s on %T: expected allow, got %v", action, res, err)
			}
		}
	}
}

func TestProfileOwnership(t *testing.T) {
	e := NewEngine()
	callerID := uuid.New()

	// Bootstrap: inserting one's own profile needs no role yet.
	unprovisioned := Caller{ID: callerID}
	if err := e.Authorize(unprovisioned, ActionInsert, Profile{ID: callerID}); err != nil {
		t.Fatalf("self insert: expected allow, got %v", err)
	}
	if err := e.Authorize(unprovisioned, ActionInsert, Profile{ID: uuid.New()}); err == nil {
		t.Fatalf("insert for another id: expected deny")
	}

	nav := Caller{ID: callerID, Role: types.RoleNavigator, HasProfile: true}
	if err := e.Authorize(nav, ActionSelect, Profile{ID: callerID}); err != nil {
		t.Fatalf("self select: expected allow, got %v", err)
	}
	if err := e.Authorize(nav, ActionSelect, Profile{ID: uuid.New()}); err == nil {
		t.Fatalf("select of another profile: expected deny")
	}
	for _, action := range []Action{ActionUpdate, ActionDelete} {
		if err := e.Authorize(nav, action, Profile{ID: callerID}); err == nil {
			t.Fatalf("%s on own profile: expected deny for non-admin", action)
		}
	}
}

func TestCaseVisibility(t *testing.T) {
	e := NewEngine()

	nav := Caller{ID: uuid.New(), Role: types.RoleNavigator, HasProfile: true}
	if err := e.Authorize(nav, ActionSelect, Case{}); err != nil {
		t.Fatalf("navigator select case: expected allow, got %v", err)
	}
	for _, action := range []Action{ActionInsert, ActionUpdate, ActionDelete} {
		if err := e.Authorize(nav, action, Case{}); err == nil {
			t.Fatalf("navigator %s case: expected deny", action)
		}
	}

	// A caller without a navigator-role profile cannot read the catalog.
	unprovisioned := Caller{ID: uuid.New()}
	if err := e.Authorize(unprovisioned, ActionSelect, Case{}); err == nil {
		t.Fatalf("unprovisioned select case: expected deny")
	}
}

func TestSessionAndRatingOwnership(t *testing.T) {
	e := NewEngine()
	owner := Caller{ID: uuid.New(), Role: types.RoleNavigator, HasProfile: true}
	other := Caller{ID: uuid.New(), Role: types.RoleNavigator, HasProfile: true}

	for _, action := range allActions {
		if err := e.Authorize(owner, action, Session{NavigatorID: owner.ID}); err != nil {
			t.Fatalf("owner %s on own session: expected allow, got %v", action, err)
		}
		if err := e.Authorize(other, action, Session{NavigatorID: owner.ID}); err == nil {
			t.Fatalf("non-owner %s on session: expected deny", action)
		}
		if err := e.Authorize(owner, action, Rating{SessionNavigatorID: owner.ID}); err != nil {
			t.Fatalf("owner %s on own rating: expected allow, got %v", action, err)
		}
		if err := e.Authorize(other, action, Rating{SessionNavigatorID: owner.ID}); err == nil {
			t.Fatalf("non-owner %s on rating: expected deny", action)
		}
	}
}

func TestSessionInsertNeedsProfile(t *testing.T) {
	e := NewEngine()
	unprovisioned := Caller{ID: uuid.New()}

	// Self-ownership alone does not let a profileless caller start sessions.
	if err := e.Authorize(unprovisioned, ActionInsert, Session{NavigatorID: unprovisioned.ID}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("unprovisioned session insert: expected forbidden, got %v", err)
	}

	nav := Caller{ID: unprovisioned.ID, Role: types.RoleNavigator, HasProfile: true}
	if err := e.Authorize(nav, ActionInsert, Session{NavigatorID: nav.ID}); err != nil {
		t.Fatalf("provisioned session insert: expected allow, got %v", err)
	}
}

func TestDenialErrorIsForbidden(t *testing.T) {
	e := NewEngine()
	err := e.Authorize(Caller{ID: uuid.New()}, ActionDelete, Case{})
	if err == nil {
		t.Fatalf("expected deny")
	}
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("denial must wrap ErrForbidden, got %v", err)
	}
}
