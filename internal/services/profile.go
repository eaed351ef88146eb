package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldnav/annotation-backend/internal/data/repos"
	types "github.com/fieldnav/annotation-backend/internal/domain"
	"github.com/fieldnav/annotation-backend/internal/platform/apperr"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
	"github.com/fieldnav/annotation-backend/internal/policy"
)

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

type CreateProfileInput struct {
	ID       uuid.UUID
	Role     types.Role
	FullName string
	PIN      *string
}

type UpdateProfileInput struct {
	Role     *types.Role
	FullName *string
	PIN      *string
}

type ProfileService interface {
	CreateProfile(ctx context.Context, input CreateProfileInput) (*types.Profile, error)
	GetMe(ctx context.Context) (*types.Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*types.Profile, error)
	ListProfiles(ctx context.Context, role *types.Role) ([]*types.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*types.Profile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
	VerifyPIN(ctx context.Context, id uuid.UUID, pin string) (bool, error)
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	engine      *policy.Engine
	profileRepo repos.ProfileRepo
}

func NewProfileService(db *gorm.DB, log *logger.Logger, engine *policy.Engine, profileRepo repos.ProfileRepo) ProfileService {
	return &profileService{
		db:          db,
		log:         log.With("service", "ProfileService"),
		engine:      engine,
		profileRepo: profileRepo,
	}
}

func (ps *profileService) CreateProfile(ctx context.Context, input CreateProfileInput) (*types.Profile, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	if input.ID == uuid.Nil {
		return nil, apperr.InvalidArgument("profile id required")
	}
	if input.FullName == "" {
		return nil, apperr.InvalidArgument("full_name required")
	}
	if !input.Role.Valid() {
		return nil, apperr.InvalidArgument("unknown role %q", input.Role)
	}
	if input.PIN != nil && !pinPattern.MatchString(*input.PIN) {
		return nil, apperr.InvalidArgument("pin must be exactly four decimal digits")
	}

	var out *types.Profile
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, ps.profileRepo)
		if err != nil {
			return err
		}
		if err := ps.engine.Authorize(caller, policy.ActionInsert, policy.Profile{ID: input.ID}); err != nil {
			return err
		}
		// Self-provisioning only ever yields a navigator; admin profiles
		// are created by existing admins.
		if input.Role == types.RoleAdmin && caller.Role != types.RoleAdmin {
			return apperr.Forbidden("cannot self-provision an admin profile")
		}

		existing, err := ps.profileRepo.GetByIDs(ctx, tx, []uuid.UUID{input.ID})
		if err != nil {
			return fmt.Errorf("check existing profile: %w", err)
		}
		if len(existing) > 0 {
			return apperr.AlreadyExists("profile %s", input.ID)
		}

		profile := &types.Profile{
			ID:       input.ID,
			Role:     input.Role,
			FullName: input.FullName,
			PIN:      input.PIN,
		}
		if err := ps.profileRepo.Create(ctx, tx, profile); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.AlreadyExists("profile %s", input.ID)
			}
			return fmt.Errorf("create profile: %w", err)
		}
		out = profile
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (ps *profileService) GetMe(ctx context.Context) (*types.Profile, error) {
	var out *types.Profile
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, ps.profileRepo)
		if err != nil {
			return err
		}
		// A caller reading its own missing row is the one case where
		// absence is not hidden: the row is theirs to know about.
		if !caller.HasProfile {
			return apperr.NotFound("profile %s", caller.ID)
		}
		found, err := ps.profileRepo.GetByIDs(ctx, tx, []uuid.UUID{caller.ID})
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}
		out = found[0]
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (ps *profileService) GetProfile(ctx context.Context, id uuid.UUID) (*types.Profile, error) {
	var out *types.Profile
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, ps.profileRepo)
		if err != nil {
			return err
		}
		if err := ps.engine.Authorize(caller, policy.ActionSelect, policy.Profile{ID: id}); err != nil {
			return err
		}
		found, err := ps.profileRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}
		if len(found) == 0 {
			return apperr.NotFound("profile %s", id)
		}
		out = found[0]
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (ps *profileService) ListProfiles(ctx context.Context, role *types.Role) ([]*types.Profile, error) {
	if role != nil && !role.Valid() {
		return nil, apperr.InvalidArgument("unknown role %q", *role)
	}
	var out []*types.Profile
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, ps.profileRepo)
		if err != nil {
			return err
		}
		if err := ps.engine.RequireAdmin(caller); err != nil {
			return err
		}
		out, err = ps.profileRepo.List(ctx, tx, role)
		if err != nil {
			return fmt.Errorf("list profiles: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (ps *profileService) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*types.Profile, error) {
	fields := map[string]any{}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperr.InvalidArgument("unknown role %q", *input.Role)
		}
		fields["role"] = *input.Role
	}
	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, apperr.InvalidArgument("full_name cannot be empty")
		}
		fields["full_name"] = name
	}
	if input.PIN != nil {
		if !pinPattern.MatchString(*input.PIN) {
			return nil, apperr.InvalidArgument("pin must be exactly four decimal digits")
		}
		fields["pin"] = *input.PIN
	}
	if len(fields) == 0 {
		return nil, apperr.InvalidArgument("no profile updates provided")
	}

	var out *types.Profile
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, ps.profileRepo)
		if err != nil {
			return err
		}
		if err := ps.engine.RequireAdmin(caller); err != nil {
			return err
		}
		existing, err := ps.profileRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}
		if len(existing) == 0 {
			return apperr.NotFound("profile %s", id)
		}
		if err := ps.profileRepo.Update(ctx, tx, id, fields); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		reloaded, err := ps.profileRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil || len(reloaded) == 0 {
			return fmt.Errorf("reload profile: %w", err)
		}
		out = reloaded[0]
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (ps *profileService) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, ps.profileRepo)
		if err != nil {
			return err
		}
		if err := ps.engine.RequireAdmin(caller); err != nil {
			return err
		}
		existing, err := ps.profileRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}
		if len(existing) == 0 {
			return apperr.NotFound("profile %s", id)
		}
		// Sessions and their ratings go with the profile via FK cascade.
		return ps.profileRepo.Delete(ctx, tx, id)
	})
}

func (ps *profileService) VerifyPIN(ctx context.Context, id uuid.UUID, pin string) (bool, error) {
	var ok bool
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := resolveCaller(ctx, tx, ps.profileRepo)
		if err != nil {
			return err
		}
		if err := ps.engine.Authorize(caller, policy.ActionSelect, policy.Profile{ID: id}); err != nil {
			return err
		}
		found, err := ps.profileRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}
		if len(found) == 0 {
			return apperr.NotFound("profile %s", id)
		}
		if found[0].PIN == nil {
			ok = false
			return nil
		}
		ok = subtle.ConstantTimeCompare([]byte(*found[0].PIN), []byte(pin)) == 1
		return nil
	}); err != nil {
		return false, err
	}
	return ok, nil
}
