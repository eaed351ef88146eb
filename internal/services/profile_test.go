package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	types "github.com/fieldnav/annotation-backend/internal/domain"
	"github.com/fieldnav/annotation-backend/internal/platform/apperr"
)

func TestCreateProfile_SelfProvisioning(t *testing.T) {
	env := newTestEnv(t)
	callerID := uuid.New()
	pin := "0913"

	profile, err := env.profile.CreateProfile(asCaller(callerID), CreateProfileInput{
		ID:       callerID,
		Role:     types.RoleNavigator,
		FullName: "Dana Reyes",
		PIN:      &pin,
	})
	if err != nil {
		t.Fatalf("self-provision: %v", err)
	}
	if profile.ID != callerID || profile.Role != types.RoleNavigator {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	// Provisioning twice is a duplicate.
	if _, err := env.profile.CreateProfile(asCaller(callerID), CreateProfileInput{
		ID:       callerID,
		Role:     types.RoleNavigator,
		FullName: "Dana Again",
	}); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestCreateProfile_DeniesPrivilegeGrabs(t *testing.T) {
	env := newTestEnv(t)
	callerID := uuid.New()

	// A fresh caller cannot make itself an admin.
	if _, err := env.profile.CreateProfile(asCaller(callerID), CreateProfileInput{
		ID:       callerID,
		Role:     types.RoleAdmin,
		FullName: "Wannabe Admin",
	}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden for self-provisioned admin, got %v", err)
	}

	// Nor provision a profile for someone else.
	if _, err := env.profile.CreateProfile(asCaller(callerID), CreateProfileInput{
		ID:       uuid.New(),
		Role:     types.RoleNavigator,
		FullName: "Someone Else",
	}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden for foreign provisioning, got %v", err)
	}

	// An admin provisions both freely.
	admin := env.seedAdmin(t, "Root Admin")
	if _, err := env.profile.CreateProfile(asCaller(admin.ID), CreateProfileInput{
		ID:       uuid.New(),
		Role:     types.RoleAdmin,
		FullName: "Second Admin",
	}); err != nil {
		t.Fatalf("admin provisioning: %v", err)
	}
}

func TestCreateProfile_Validation(t *testing.T) {
	env := newTestEnv(t)
	callerID := uuid.New()

	badPin := "12a4"
	cases := []CreateProfileInput{
		{ID: callerID, Role: types.RoleNavigator, FullName: ""},
		{ID: callerID, Role: "supervisor", FullName: "Bad Role"},
		{ID: callerID, Role: types.RoleNavigator, FullName: "Bad PIN", PIN: &badPin},
		{ID: uuid.Nil, Role: types.RoleNavigator, FullName: "No ID"},
	}
	for i, input := range cases {
		if _, err := env.profile.CreateProfile(asCaller(callerID), input); !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Fatalf("case %d: expected invalid argument, got %v", i, err)
		}
	}

	longPin := "12345"
	if _, err := env.profile.CreateProfile(asCaller(callerID), CreateProfileInput{
		ID: callerID, Role: types.RoleNavigator, FullName: "Long PIN", PIN: &longPin,
	}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for 5-digit pin, got %v", err)
	}
}

func TestGetMe_OwnAbsenceIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.profile.GetMe(asCaller(uuid.New())); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for own missing profile, got %v", err)
	}

	navigator := env.seedNavigator(t, "Nav")
	me, err := env.profile.GetMe(asCaller(navigator.ID))
	if err != nil {
		t.Fatalf("get me: %v", err)
	}
	if me.ID != navigator.ID {
		t.Fatalf("expected own profile, got %+v", me)
	}
}

func TestGetProfile_Visibility(t *testing.T) {
	env := newTestEnv(t)
	navA := env.seedNavigator(t, "Nav A")
	navB := env.seedNavigator(t, "Nav B")
	admin := env.seedAdmin(t, "Admin")

	if _, err := env.profile.GetProfile(asCaller(navA.ID), navA.ID); err != nil {
		t.Fatalf("own read: %v", err)
	}
	if _, err := env.profile.GetProfile(asCaller(navA.ID), navB.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden for foreign read, got %v", err)
	}
	if _, err := env.profile.GetProfile(asCaller(admin.ID), navB.ID); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if _, err := env.profile.GetProfile(asCaller(admin.ID), uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for admin on absent profile, got %v", err)
	}
}

func TestListUpdateDeleteProfile_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	navigator := env.seedNavigator(t, "Nav")
	admin := env.seedAdmin(t, "Admin")

	if _, err := env.profile.ListProfiles(asCaller(navigator.ID), nil); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden list for navigator, got %v", err)
	}
	profiles, err := env.profile.ListProfiles(asCaller(admin.ID), nil)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}

	newName := "Renamed"
	if _, err := env.profile.UpdateProfile(asCaller(navigator.ID), navigator.ID, UpdateProfileInput{
		FullName: &newName,
	}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden update for navigator, got %v", err)
	}
	updated, err := env.profile.UpdateProfile(asCaller(admin.ID), navigator.ID, UpdateProfileInput{
		FullName: &newName,
	})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.FullName != "Renamed" {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := env.profile.DeleteProfile(asCaller(navigator.ID), navigator.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden delete for navigator, got %v", err)
	}
	if err := env.profile.DeleteProfile(asCaller(admin.ID), navigator.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestRoleChangeTakesEffectImmediately(t *testing.T) {
	env := newTestEnv(t)
	navigator := env.seedNavigator(t, "Nav")
	admin := env.seedAdmin(t, "Admin")

	if _, err := env.profile.ListProfiles(asCaller(navigator.ID), nil); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden before promotion, got %v", err)
	}

	promoted := types.RoleAdmin
	if _, err := env.profile.UpdateProfile(asCaller(admin.ID), navigator.ID, UpdateProfileInput{
		Role: &promoted,
	}); err != nil {
		t.Fatalf("promote: %v", err)
	}

	// No token refresh involved: the next call re-reads the role.
	if _, err := env.profile.ListProfiles(asCaller(navigator.ID), nil); err != nil {
		t.Fatalf("expected promoted caller to list profiles: %v", err)
	}
}

func TestVerifyPIN(t *testing.T) {
	env := newTestEnv(t)
	navigator := env.seedNavigator(t, "Nav") // seeded with pin 1234

	ok, err := env.profile.VerifyPIN(asCaller(navigator.ID), navigator.ID, "1234")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected matching pin to verify")
	}
	ok, err = env.profile.VerifyPIN(asCaller(navigator.ID), navigator.ID, "9999")
	if err != nil {
		t.Fatalf("verify mismatch: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatched pin to fail")
	}

	// Verification is scoped like any other profile read.
	other := env.seedNavigator(t, "Other")
	if _, err := env.profile.VerifyPIN(asCaller(navigator.ID), other.ID, "1234"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden for foreign pin check, got %v", err)
	}
}
