package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldnav/annotation-backend/internal/data/repos"
	types "github.com/fieldnav/annotation-backend/internal/domain"
	"github.com/fieldnav/annotation-backend/internal/platform/apperr"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
	"github.com/fieldnav/annotation-backend/internal/policy"
)

type SessionService interface {
	StartSession(ctx context.Context, caseID uuid.UUID) (*types.EvaluationSession, error)
	ListSessions(ctx context.Context, navigatorID *uuid.UUID) ([]*types.EvaluationSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (*types.EvaluationSession, error)
	SubmitOverallScore(ctx context.Context, id uuid.UUID, score int) (*types.EvaluationSession, error)
	CompleteSession(ctx context.Context, id uuid.UUID) (*types.EvaluationSession, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

type sessionService struct {
	db          *gorm.DB
	log         *logger.Logger
	engine      *policy.Engine
	profileRepo repos.ProfileRepo
	caseRepo    repos.SyntheticCaseRepo
	sessionRepo repos.SessionRepo
}

func NewSessionService(db *gorm.DB, log *logger.Logger, engine *policy.Engine, profileRepo repos.ProfileRepo, caseRepo repos.SyntheticCaseRepo, sessionRepo repos.SessionRepo) SessionService {
	return &sessionService{
		db:          db,
		log:         log.With("service", "SessionService"),
		engine:      engine,
		profileRepo: profileRepo,
		caseRepo:    caseRepo,
		sessionRepo: sessionRepo,
	}
}

func (ss *sessionService) StartSession(ctx context.Context, caseID uuid.UUID) (*types.EvaluationSession, error) {
	var out *types.EvaluationSession
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, ss.profileRepo)
		if err != nil {
			return err
		}
		// A session always belongs to the caller that starts it; the
		// engine still requires a provisioned profile for the insert.
		if err := ss.engine.Authorize(caller, policy.ActionInsert, policy.Session{NavigatorID: caller.ID}); err != nil {
			return err
		}
		// The name snapshot comes from the caller's profile row.
		profiles, err := ss.profileRepo.GetByIDs(ctx, tx, []uuid.UUID{caller.ID})
		if err != nil || len(profiles) == 0 {
			return fmt.Errorf("fetch navigator profile: %w", err)
		}
		cases, err := ss.caseRepo.GetByIDs(ctx, tx, []uuid.UUID{caseID})
		if err != nil {
			return fmt.Errorf("fetch case: %w", err)
		}
		if len(cases) == 0 {
			return apperr.NotFound("case %s", caseID)
		}

		session := &types.EvaluationSession{
			ID:            uuid.New(),
			CaseID:        caseID,
			NavigatorID:   caller.ID,
			CaseLabel:     cases[0].Label,
			NavigatorName: profiles[0].FullName,
			Status:        types.SessionInProgress,
		}
		if err := ss.sessionRepo.Create(ctx, tx, session); err != nil {
			// The unique (case_id, navigator_id) index resolves the
			// create race: exactly one concurrent caller wins.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("session already exists for case %s", caseID)
			}
			return fmt.Errorf("create session: %w", err)
		}
		out = session
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (ss *sessionService) ListSessions(ctx context.Context, navigatorID *uuid.UUID) ([]*types.EvaluationSession, error) {
	var out []*types.EvaluationSession
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, ss.profileRepo)
		if err != nil {
			return err
		}
		if caller.Role == types.RoleAdmin {
			out, err = ss.sessionRepo.ListAll(ctx, tx, navigatorID)
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}
			return nil
		}
		if navigatorID != nil && *navigatorID != caller.ID {
			return apperr.Forbidden("cannot list another navigator's sessions")
		}
		out, err = ss.sessionRepo.ListByNavigator(ctx, tx, caller.ID)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (ss *sessionService) GetSession(ctx context.Context, id uuid.UUID) (*types.EvaluationSession, error) {
	var out *types.EvaluationSession
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, ss.profileRepo)
		if err != nil {
			return err
		}
		session, err := ss.loadVisible(ctx, tx, caller, id, policy.ActionSelect, false)
		if err != nil {
			return err
		}
		out = session
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (ss *sessionService) SubmitOverallScore(ctx context.Context, id uuid.UUID, score int) (*types.EvaluationSession, error) {
	if score < 1 || score > 5 {
		return nil, apperr.InvalidArgument("overall_field_authenticity must be between 1 and 5")
	}
	var out *types.EvaluationSession
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, ss.profileRepo)
		if err != nil {
			return err
		}
		session, err := ss.loadVisible(ctx, tx, caller, id, policy.ActionUpdate, true)
		if err != nil {
			return err
		}
		if session.Status != types.SessionInProgress {
			return apperr.InvalidState("session %s is %s", id, session.Status)
		}
		if err := ss.sessionRepo.UpdateOverallScore(ctx, tx, id, score); err != nil {
			return fmt.Errorf("update overall score: %w", err)
		}
		session.OverallFieldAuthenticity = &score
		out = session
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (ss *sessionService) CompleteSession(ctx context.Context, id uuid.UUID) (*types.EvaluationSession, error) {
	var out *types.EvaluationSession
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, ss.profileRepo)
		if err != nil {
			return err
		}
		// Row lock: a racing rating upsert or score submit serializes
		// against this completion and observes the terminal status.
		session, err := ss.loadVisible(ctx, tx, caller, id, policy.ActionUpdate, true)
		if err != nil {
			return err
		}
		if session.Status == types.SessionCompleted {
			return apperr.InvalidState("session %s already completed", id)
		}
		completedAt := time.Now().UTC()
		if err := ss.sessionRepo.MarkCompleted(ctx, tx, id, completedAt); err != nil {
			return fmt.Errorf("complete session: %w", err)
		}
		session.Status = types.SessionCompleted
		session.CompletedAt = &completedAt
		out = session
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (ss *sessionService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, ss.profileRepo)
		if err != nil {
			return err
		}
		if _, err := ss.loadVisible(ctx, tx, caller, id, policy.ActionDelete, true); err != nil {
			return err
		}
		// Child ratings in all three format tables cascade.
		return ss.sessionRepo.Delete(ctx, tx, id)
	})
}

// loadVisible fetches a session and decides what the caller may learn
// about it. Invisible and absent sessions are both Forbidden for
// non-admins; admins see everything, so for them absence is NotFound.
func (ss *sessionService) loadVisible(ctx context.Context, tx *gorm.DB, caller policy.Caller, id uuid.UUID, action policy.Action, forUpdate bool) (*types.EvaluationSession, error) {
	var session *types.EvaluationSession
	var err error
	if forUpdate {
		session, err = ss.sessionRepo.GetByIDForUpdate(ctx, tx, id)
	} else {
		session, err = ss.sessionRepo.GetByID(ctx, tx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch session: %w", err)
	}
	if session == nil {
		if caller.Role == types.RoleAdmin {
			return nil, apperr.NotFound("session %s", id)
		}
		return nil, apperr.Forbidden("session %s not visible", id)
	}
	if err := ss.engine.Authorize(caller, action, policy.Session{NavigatorID: session.NavigatorID}); err != nil {
		return nil, err
	}
	return session, nil
}
