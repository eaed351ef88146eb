package testutil

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/fieldnav/annotation-backend/internal/domain"
)

func SeedProfile(tb testing.TB, db *gorm.DB, role types.Role, fullName string) *types.Profile {
	tb.Helper()
	pin := "1234"
	profile := &types.Profile{
		ID:       uuid.New(),
		Role:     role,
		FullName: fullName,
		PIN:      &pin,
	}
	if err := db.Create(profile).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return profile
}

func SeedCase(tb testing.TB, db *gorm.DB, label string) *types.SyntheticCase {
	tb.Helper()
	syntheticCase := &types.SyntheticCase{
		ID:                uuid.New(),
		BatchID:           "batch-test",
		Label:             label,
		NarrativeSummary:  "a short narrative",
		Format1StateLog:   datatypes.JSON([]byte(`[{"event": 0}]`)),
		Format2Triples:    datatypes.JSON([]byte(`[{"triple": 0}]`)),
		Format3RlScenario: datatypes.JSON([]byte(`{"options": []}`)),
	}
	if err := db.Create(syntheticCase).Error; err != nil {
		tb.Fatalf("seed case: %v", err)
	}
	return syntheticCase
}

func SeedSession(tb testing.TB, db *gorm.DB, syntheticCase *types.SyntheticCase, navigator *types.Profile) *types.EvaluationSession {
	tb.Helper()
	session := &types.EvaluationSession{
		ID:            uuid.New(),
		CaseID:        syntheticCase.ID,
		NavigatorID:   navigator.ID,
		CaseLabel:     syntheticCase.Label,
		NavigatorName: navigator.FullName,
		Status:        types.SessionInProgress,
	}
	if err := db.Create(session).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return session
}
