package services

import (
	"errors"
	"testing"

	"gorm.io/datatypes"

	"github.com/fieldnav/annotation-backend/internal/platform/apperr"
)

func TestListCases_RequiresProvisionedProfile(t *testing.T) {
	env := newTestEnv(t)
	env.seedCase(t, "case-301")
	env.seedCase(t, "case-302")

	if _, err := env.catalog.ListCases(asCaller(newRandomID()), ""); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden without a profile, got %v", err)
	}

	// Every provisioned rater reads the whole catalog.
	navigator := env.seedNavigator(t, "Nav")
	cases, err := env.catalog.ListCases(asCaller(navigator.ID), "")
	if err != nil {
		t.Fatalf("navigator list: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}

	admin := env.seedAdmin(t, "Admin")
	cases, err = env.catalog.ListCases(asCaller(admin.ID), "")
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases for admin, got %d", len(cases))
	}
}

func TestGetCase_AbsenceIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	navigator := env.seedNavigator(t, "Nav")

	if _, err := env.catalog.GetCase(asCaller(navigator.ID), newRandomID()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for absent case, got %v", err)
	}

	seeded := env.seedCase(t, "case-303")
	found, err := env.catalog.GetCase(asCaller(navigator.ID), seeded.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found.Label != "case-303" {
		t.Fatalf("unexpected case: %+v", found)
	}
}

func TestImportBatch_AdminOnlyAndValidated(t *testing.T) {
	env := newTestEnv(t)
	navigator := env.seedNavigator(t, "Nav")
	admin := env.seedAdmin(t, "Admin")

	inputs := []CaseInput{
		{Label: "batch-a-1", Format1StateLog: datatypes.JSON([]byte(`[{"event": 0}]`))},
		{Label: "batch-a-2", Format2Triples: datatypes.JSON([]byte(`[{"triple": 0}]`))},
	}
	if _, err := env.catalog.ImportBatch(asCaller(navigator.ID), "batch-a", inputs); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden import for navigator, got %v", err)
	}

	created, err := env.catalog.ImportBatch(asCaller(admin.ID), "batch-a", inputs)
	if err != nil {
		t.Fatalf("admin import: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created cases, got %d", len(created))
	}
	for _, row := range created {
		if row.BatchID != "batch-a" {
			t.Fatalf("batch id not stamped: %+v", row)
		}
	}

	// A bad row fails the whole batch before anything is written.
	if _, err := env.catalog.ImportBatch(asCaller(admin.ID), "batch-b", []CaseInput{
		{Label: "ok"},
		{Label: "   "},
	}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for blank label, got %v", err)
	}
	leftovers, err := env.catalog.ListCases(asCaller(admin.ID), "batch-b")
	if err != nil {
		t.Fatalf("list batch-b: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("failed batch must not leave rows, got %d", len(leftovers))
	}

	if _, err := env.catalog.ImportBatch(asCaller(admin.ID), "batch-c", nil); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for empty batch, got %v", err)
	}
}

func TestListCases_BatchFilter(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t, "Admin")

	if _, err := env.catalog.ImportBatch(asCaller(admin.ID), "batch-x", []CaseInput{{Label: "x-1"}}); err != nil {
		t.Fatalf("import x: %v", err)
	}
	if _, err := env.catalog.ImportBatch(asCaller(admin.ID), "batch-y", []CaseInput{{Label: "y-1"}, {Label: "y-2"}}); err != nil {
		t.Fatalf("import y: %v", err)
	}

	filtered, err := env.catalog.ListCases(asCaller(admin.ID), "batch-y")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 cases in batch-y, got %d", len(filtered))
	}
}

func TestUpdateDeleteCase_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	navigator := env.seedNavigator(t, "Nav")
	admin := env.seedAdmin(t, "Admin")
	seeded := env.seedCase(t, "case-304")

	newLabel := "case-304-renamed"
	if _, err := env.catalog.UpdateCase(asCaller(navigator.ID), seeded.ID, CaseUpdateInput{
		Label: &newLabel,
	}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden update for navigator, got %v", err)
	}
	updated, err := env.catalog.UpdateCase(asCaller(admin.ID), seeded.ID, CaseUpdateInput{
		Label: &newLabel,
	})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Label != newLabel {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := env.catalog.DeleteCase(asCaller(navigator.ID), seeded.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden delete for navigator, got %v", err)
	}
	if err := env.catalog.DeleteCase(asCaller(admin.ID), seeded.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := env.catalog.GetCase(asCaller(admin.ID), seeded.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
