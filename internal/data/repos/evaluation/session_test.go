package evaluation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldnav/annotation-backend/internal/data/repos/testutil"
	types "github.com/fieldnav/annotation-backend/internal/domain"
)

func TestSessionRepo_DuplicatePairTranslates(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewSessionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	navigator := testutil.SeedProfile(t, db, types.RoleNavigator, "Nav One")
	syntheticCase := testutil.SeedCase(t, db, "case-001")
	testutil.SeedSession(t, db, syntheticCase, navigator)

	err := repo.Create(ctx, nil, &types.EvaluationSession{
		ID:          uuid.New(),
		CaseID:      syntheticCase.ID,
		NavigatorID: navigator.ID,
		Status:      types.SessionInProgress,
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey for same (case, navigator), got %v", err)
	}

	// A different navigator on the same case is unaffected.
	other := testutil.SeedProfile(t, db, types.RoleNavigator, "Nav Two")
	if err := repo.Create(ctx, nil, &types.EvaluationSession{
		ID:          uuid.New(),
		CaseID:      syntheticCase.ID,
		NavigatorID: other.ID,
		Status:      types.SessionInProgress,
	}); err != nil {
		t.Fatalf("second navigator should start a session: %v", err)
	}
}

func TestSessionRepo_GetByIDMissingReturnsNil(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewSessionRepo(db, testutil.Logger(t))

	session, err := repo.GetByID(context.Background(), nil, uuid.New())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if session != nil {
		t.Fatalf("expected nil for missing session, got %+v", session)
	}
}

func TestSessionRepo_MarkCompletedOnlyInProgress(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewSessionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	navigator := testutil.SeedProfile(t, db, types.RoleNavigator, "Nav")
	syntheticCase := testutil.SeedCase(t, db, "case-002")
	session := testutil.SeedSession(t, db, syntheticCase, navigator)

	first := time.Now().UTC()
	if err := repo.MarkCompleted(ctx, nil, session.ID, first); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	got, err := repo.GetByID(ctx, nil, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != types.SessionCompleted {
		t.Fatalf("expected completed, got %q", got.Status)
	}
	if got.CompletedAt == nil {
		t.Fatalf("expected completed_at to be set")
	}

	// A second completion is a no-op at the data layer; the guard row
	// predicate matches nothing.
	later := first.Add(time.Hour)
	if err := repo.MarkCompleted(ctx, nil, session.ID, later); err != nil {
		t.Fatalf("second mark completed: %v", err)
	}
	again, err := repo.GetByID(ctx, nil, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !again.CompletedAt.Equal(*got.CompletedAt) {
		t.Fatalf("completed_at moved on repeat completion")
	}
}

func TestSessionRepo_ListScoping(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewSessionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	navA := testutil.SeedProfile(t, db, types.RoleNavigator, "Nav A")
	navB := testutil.SeedProfile(t, db, types.RoleNavigator, "Nav B")
	caseOne := testutil.SeedCase(t, db, "case-003")
	caseTwo := testutil.SeedCase(t, db, "case-004")
	testutil.SeedSession(t, db, caseOne, navA)
	testutil.SeedSession(t, db, caseTwo, navA)
	testutil.SeedSession(t, db, caseOne, navB)

	mine, err := repo.ListByNavigator(ctx, nil, navA.ID)
	if err != nil {
		t.Fatalf("list by navigator: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 sessions for navA, got %d", len(mine))
	}

	all, err := repo.ListAll(ctx, nil, nil)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
}

func TestSessionRepo_CaseDeleteCascades(t *testing.T) {
	db := testutil.OpenDB(t)
	sessionRepo := NewSessionRepo(db, testutil.Logger(t))
	caseRepo := NewSyntheticCaseRepo(db, testutil.Logger(t))
	ctx := context.Background()

	navigator := testutil.SeedProfile(t, db, types.RoleNavigator, "Nav")
	syntheticCase := testutil.SeedCase(t, db, "case-005")
	session := testutil.SeedSession(t, db, syntheticCase, navigator)

	if err := caseRepo.Delete(ctx, nil, syntheticCase.ID); err != nil {
		t.Fatalf("delete case: %v", err)
	}
	got, err := sessionRepo.GetByID(ctx, nil, session.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got != nil {
		t.Fatalf("expected session to cascade away with its case")
	}
}
