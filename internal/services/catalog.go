package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fieldnav/annotation-backend/internal/data/repos"
	types "github.com/fieldnav/annotation-backend/internal/domain"
	"github.com/fieldnav/annotation-backend/internal/platform/apperr"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
	"github.com/fieldnav/annotation-backend/internal/policy"
)

type CaseInput struct {
	Label             string
	NarrativeSummary  string
	Format1StateLog   datatypes.JSON
	Format2Triples    datatypes.JSON
	Format3RlScenario datatypes.JSON
}

type CaseUpdateInput struct {
	Label             *string
	NarrativeSummary  *string
	Format1StateLog   datatypes.JSON
	Format2Triples    datatypes.JSON
	Format3RlScenario datatypes.JSON
}

type CatalogService interface {
	ListCases(ctx context.Context, batchID string) ([]*types.SyntheticCase, error)
	GetCase(ctx context.Context, id uuid.UUID) (*types.SyntheticCase, error)
	CreateCase(ctx context.Context, batchID string, input CaseInput) (*types.SyntheticCase, error)
	ImportBatch(ctx context.Context, batchID string, inputs []CaseInput) ([]*types.SyntheticCase, error)
	UpdateCase(ctx context.Context, id uuid.UUID, input CaseUpdateInput) (*types.SyntheticCase, error)
	DeleteCase(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	db          *gorm.DB
	log         *logger.Logger
	engine      *policy.Engine
	profileRepo repos.ProfileRepo
	caseRepo    repos.SyntheticCaseRepo
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, engine *policy.Engine, profileRepo repos.ProfileRepo, caseRepo repos.SyntheticCaseRepo) CatalogService {
	return &catalogService{
		db:          db,
		log:         log.With("service", "CatalogService"),
		engine:      engine,
		profileRepo: profileRepo,
		caseRepo:    caseRepo,
	}
}

func (cs *catalogService) ListCases(ctx context.Context, batchID string) ([]*types.SyntheticCase, error) {
	var out []*types.SyntheticCase
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, cs.profileRepo)
		if err != nil {
			return err
		}
		if err := cs.engine.Authorize(caller, policy.ActionSelect, policy.Case{}); err != nil {
			return err
		}
		out, err = cs.caseRepo.List(ctx, tx, batchID)
		if err != nil {
			return fmt.Errorf("list cases: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *catalogService) GetCase(ctx context.Context, id uuid.UUID) (*types.SyntheticCase, error) {
	var out *types.SyntheticCase
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, cs.profileRepo)
		if err != nil {
			return err
		}
		if err := cs.engine.Authorize(caller, policy.ActionSelect, policy.Case{}); err != nil {
			return err
		}
		found, err := cs.caseRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("fetch case: %w", err)
		}
		if len(found) == 0 {
			// Catalog readers see every case, so absence is not hidden.
			return apperr.NotFound("case %s", id)
		}
		out = found[0]
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *catalogService) CreateCase(ctx context.Context, batchID string, input CaseInput) (*types.SyntheticCase, error) {
	created, err := cs.ImportBatch(ctx, batchID, []CaseInput{input})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (cs *catalogService) ImportBatch(ctx context.Context, batchID string, inputs []CaseInput) ([]*types.SyntheticCase, error) {
	if len(inputs) == 0 {
		return nil, apperr.InvalidArgument("no cases to import")
	}
	rows := make([]*types.SyntheticCase, 0, len(inputs))
	for i, input := range inputs {
		label := strings.TrimSpace(input.Label)
		if label == "" {
			return nil, apperr.InvalidArgument("case %d: label required", i)
		}
		rows = append(rows, &types.SyntheticCase{
			ID:                uuid.New(),
			BatchID:           batchID,
			Label:             label,
			NarrativeSummary:  input.NarrativeSummary,
			Format1StateLog:   input.Format1StateLog,
			Format2Triples:    input.Format2Triples,
			Format3RlScenario: input.Format3RlScenario,
		})
	}

	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, cs.profileRepo)
		if err != nil {
			return err
		}
		if err := cs.engine.RequireAdmin(caller); err != nil {
			return err
		}
		if _, err := cs.caseRepo.Create(ctx, tx, rows); err != nil {
			return fmt.Errorf("import cases: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	cs.log.Info("imported cases", "batch_id", batchID, "count", len(rows))
	return rows, nil
}

func (cs *catalogService) UpdateCase(ctx context.Context, id uuid.UUID, input CaseUpdateInput) (*types.SyntheticCase, error) {
	fields := map[string]any{}
	if input.Label != nil {
		label := strings.TrimSpace(*input.Label)
		if label == "" {
			return nil, apperr.InvalidArgument("label cannot be empty")
		}
		fields["label"] = label
	}
	if input.NarrativeSummary != nil {
		fields["narrative_summary"] = *input.NarrativeSummary
	}
	if input.Format1StateLog != nil {
		fields["format_1_state_log"] = input.Format1StateLog
	}
	if input.Format2Triples != nil {
		fields["format_2_triples"] = input.Format2Triples
	}
	if input.Format3RlScenario != nil {
		fields["format_3_rl_scenario"] = input.Format3RlScenario
	}
	if len(fields) == 0 {
		return nil, apperr.InvalidArgument("no case updates provided")
	}

	var out *types.SyntheticCase
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, cs.profileRepo)
		if err != nil {
			return err
		}
		if err := cs.engine.RequireAdmin(caller); err != nil {
			return err
		}
		existing, err := cs.caseRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("fetch case: %w", err)
		}
		if len(existing) == 0 {
			return apperr.NotFound("case %s", id)
		}
		if err := cs.caseRepo.Update(ctx, tx, id, fields); err != nil {
			return fmt.Errorf("update case: %w", err)
		}
		reloaded, err := cs.caseRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil || len(reloaded) == 0 {
			return fmt.Errorf("reload case: %w", err)
		}
		out = reloaded[0]
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *catalogService) DeleteCase(ctx context.Context, id uuid.UUID) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, cs.profileRepo)
		if err != nil {
			return err
		}
		if err := cs.engine.RequireAdmin(caller); err != nil {
			return err
		}
		existing, err := cs.caseRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("fetch case: %w", err)
		}
		if len(existing) == 0 {
			return apperr.NotFound("case %s", id)
		}
		// Dependent sessions and their ratings fall with the case.
		return cs.caseRepo.Delete(ctx, tx, id)
	})
}
