package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldnav/annotation-backend/internal/data/repos"
	types "github.com/fieldnav/annotation-backend/internal/domain"
	"github.com/fieldnav/annotation-backend/internal/platform/apperr"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
	"github.com/fieldnav/annotation-backend/internal/policy"
)

type Format1Input struct {
	ClinicalImpact            string
	EnvironmentalImpact       string
	HomeServiceAdoptionImpact string
	EddDelta                  string
	BottleneckRealism         bool
}

type Format3Input struct {
	PnCategory         string
	AiIntendedCategory string
}

// SessionRatings bundles the three rating sets of one session, each
// ordered by its index.
type SessionRatings struct {
	Format1 []*types.Format1TimelineRating `json:"format_1_timeline"`
	Format2 []*types.Format2TacticRating   `json:"format_2_tactics"`
	Format3 []*types.Format3BoundaryRating `json:"format_3_boundaries"`
}

type RatingService interface {
	UpsertTimelineRating(ctx context.Context, sessionID uuid.UUID, eventIndex int, input Format1Input) (*types.Format1TimelineRating, error)
	UpsertTacticRating(ctx context.Context, sessionID uuid.UUID, tripleIndex int, intentFeasibility int) (*types.Format2TacticRating, error)
	UpsertBoundaryRating(ctx context.Context, sessionID uuid.UUID, optionIndex int, input Format3Input) (*types.Format3BoundaryRating, error)
	ListSessionRatings(ctx context.Context, sessionID uuid.UUID) (*SessionRatings, error)
}

type ratingService struct {
	db          *gorm.DB
	log         *logger.Logger
	engine      *policy.Engine
	profileRepo repos.ProfileRepo
	sessionRepo repos.SessionRepo
	format1Repo repos.Format1Repo
	format2Repo repos.Format2Repo
	format3Repo repos.Format3Repo
}

func NewRatingService(db *gorm.DB, log *logger.Logger, engine *policy.Engine, profileRepo repos.ProfileRepo, sessionRepo repos.SessionRepo, format1Repo repos.Format1Repo, format2Repo repos.Format2Repo, format3Repo repos.Format3Repo) RatingService {
	return &ratingService{
		db:          db,
		log:         log.With("service", "RatingService"),
		engine:      engine,
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
		format1Repo: format1Repo,
		format2Repo: format2Repo,
		format3Repo: format3Repo,
	}
}

func (rs *ratingService) UpsertTimelineRating(ctx context.Context, sessionID uuid.UUID, eventIndex int, input Format1Input) (*types.Format1TimelineRating, error) {
	if eventIndex < 0 {
		return nil, apperr.InvalidArgument("event_index must not be negative")
	}
	var out *types.Format1TimelineRating
	if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := rs.writableSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		rating := &types.Format1TimelineRating{
			ID:                        uuid.New(),
			SessionID:                 sessionID,
			EventIndex:                eventIndex,
			ClinicalImpact:            input.ClinicalImpact,
			EnvironmentalImpact:       input.EnvironmentalImpact,
			HomeServiceAdoptionImpact: input.HomeServiceAdoptionImpact,
			EddDelta:                  input.EddDelta,
			BottleneckRealism:         input.BottleneckRealism,
			CaseLabel:                 session.CaseLabel,
			NavigatorName:             session.NavigatorName,
		}
		stored, err := rs.format1Repo.Upsert(ctx, tx, rating)
		if err != nil {
			return fmt.Errorf("upsert timeline rating: %w", err)
		}
		out = stored
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (rs *ratingService) UpsertTacticRating(ctx context.Context, sessionID uuid.UUID, tripleIndex int, intentFeasibility int) (*types.Format2TacticRating, error) {
	if tripleIndex < 0 {
		return nil, apperr.InvalidArgument("triple_index must not be negative")
	}
	if intentFeasibility < 1 || intentFeasibility > 5 {
		return nil, apperr.InvalidArgument("intent_feasibility must be between 1 and 5")
	}
	var out *types.Format2TacticRating
	if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := rs.writableSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		rating := &types.Format2TacticRating{
			ID:                uuid.New(),
			SessionID:         sessionID,
			TripleIndex:       tripleIndex,
			IntentFeasibility: intentFeasibility,
			CaseLabel:         session.CaseLabel,
			NavigatorName:     session.NavigatorName,
		}
		stored, err := rs.format2Repo.Upsert(ctx, tx, rating)
		if err != nil {
			return fmt.Errorf("upsert tactic rating: %w", err)
		}
		out = stored
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (rs *ratingService) UpsertBoundaryRating(ctx context.Context, sessionID uuid.UUID, optionIndex int, input Format3Input) (*types.Format3BoundaryRating, error) {
	if optionIndex < 0 {
		return nil, apperr.InvalidArgument("option_index must not be negative")
	}
	var out *types.Format3BoundaryRating
	if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := rs.writableSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		rating := &types.Format3BoundaryRating{
			ID:                 uuid.New(),
			SessionID:          sessionID,
			OptionIndex:        optionIndex,
			PnCategory:         input.PnCategory,
			AiIntendedCategory: input.AiIntendedCategory,
			CaseLabel:          session.CaseLabel,
			NavigatorName:      session.NavigatorName,
		}
		stored, err := rs.format3Repo.Upsert(ctx, tx, rating)
		if err != nil {
			return fmt.Errorf("upsert boundary rating: %w", err)
		}
		out = stored
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (rs *ratingService) ListSessionRatings(ctx context.Context, sessionID uuid.UUID) (*SessionRatings, error) {
	var out *SessionRatings
	if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, rs.profileRepo)
		if err != nil {
			return err
		}
		session, err := rs.sessionRepo.GetByID(ctx, tx, sessionID)
		if err != nil {
			return fmt.Errorf("fetch session: %w", err)
		}
		if session == nil {
			if caller.Role == types.RoleAdmin {
				return apperr.NotFound("session %s", sessionID)
			}
			return apperr.Forbidden("session %s not visible", sessionID)
		}
		if err := rs.engine.Authorize(caller, policy.ActionSelect, policy.Rating{SessionNavigatorID: session.NavigatorID}); err != nil {
			return err
		}

		f1, err := rs.format1Repo.ListBySession(ctx, tx, sessionID)
		if err != nil {
			return fmt.Errorf("list timeline ratings: %w", err)
		}
		f2, err := rs.format2Repo.ListBySession(ctx, tx, sessionID)
		if err != nil {
			return fmt.Errorf("list tactic ratings: %w", err)
		}
		f3, err := rs.format3Repo.ListBySession(ctx, tx, sessionID)
		if err != nil {
			return fmt.Errorf("list boundary ratings: %w", err)
		}
		out = &SessionRatings{Format1: f1, Format2: f2, Format3: f3}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// writableSession authorizes a rating write through the parent session and
// enforces that the session is still open. The FOR UPDATE read makes a
// racing completion and a late write settle in one order: whichever
// commits second observes the other.
func (rs *ratingService) writableSession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.EvaluationSession, error) {
	caller, err := resolveCaller(ctx, tx, rs.profileRepo)
	if err != nil {
		return nil, err
	}
	session, err := rs.sessionRepo.GetByIDForUpdate(ctx, tx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("fetch session: %w", err)
	}
	if session == nil {
		if caller.Role == types.RoleAdmin {
			return nil, apperr.NotFound("session %s", sessionID)
		}
		return nil, apperr.Forbidden("session %s not visible", sessionID)
	}
	if err := rs.engine.Authorize(caller, policy.ActionUpdate, policy.Rating{SessionNavigatorID: session.NavigatorID}); err != nil {
		return nil, err
	}
	if session.Status != types.SessionInProgress {
		return nil, apperr.InvalidState("session %s is %s", sessionID, session.Status)
	}
	return session, nil
}
