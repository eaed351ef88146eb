package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldnav/annotation-backend/internal/data/repos"
	"github.com/fieldnav/annotation-backend/internal/data/repos/testutil"
	types "github.com/fieldnav/annotation-backend/internal/domain"
	"github.com/fieldnav/annotation-backend/internal/policy"
	"github.com/fieldnav/annotation-backend/internal/requestdata"
)

type testEnv struct {
	db      *gorm.DB
	profile ProfileService
	catalog CatalogService
	session SessionService
	rating  RatingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.OpenDB(t)
	log := testutil.Logger(t)
	engine := policy.NewEngine()

	profileRepo := repos.NewProfileRepo(db, log)
	caseRepo := repos.NewSyntheticCaseRepo(db, log)
	sessionRepo := repos.NewSessionRepo(db, log)
	format1Repo := repos.NewFormat1Repo(db, log)
	format2Repo := repos.NewFormat2Repo(db, log)
	format3Repo := repos.NewFormat3Repo(db, log)

	return &testEnv{
		db:      db,
		profile: NewProfileService(db, log, engine, profileRepo),
		catalog: NewCatalogService(db, log, engine, profileRepo, caseRepo),
		session: NewSessionService(db, log, engine, profileRepo, caseRepo, sessionRepo),
		rating:  NewRatingService(db, log, engine, profileRepo, sessionRepo, format1Repo, format2Repo, format3Repo),
	}
}

func newRandomID() uuid.UUID { return uuid.New() }

// asCaller builds a request context for the given caller id, as the auth
// middleware would after verifying a token.
func asCaller(id uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		CallerID: id,
	})
}

func (e *testEnv) seedAdmin(t *testing.T, name string) *types.Profile {
	t.Helper()
	return testutil.SeedProfile(t, e.db, types.RoleAdmin, name)
}

func (e *testEnv) seedNavigator(t *testing.T, name string) *types.Profile {
	t.Helper()
	return testutil.SeedProfile(t, e.db, types.RoleNavigator, name)
}

func (e *testEnv) seedCase(t *testing.T, label string) *types.SyntheticCase {
	t.Helper()
	return testutil.SeedCase(t, e.db, label)
}
