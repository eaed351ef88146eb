package services

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldnav/annotation-backend/internal/data/repos"
	"github.com/fieldnav/annotation-backend/internal/platform/apperr"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
	"github.com/fieldnav/annotation-backend/internal/policy"
	"github.com/fieldnav/annotation-backend/internal/requestdata"
)

// IdentityService verifies the bearer token minted by the external identity
// provider and attaches the resolved caller id to the request context. The
// token's subject is the caller id. Role claims in the token are ignored;
// the profiles table is the single source of truth for role.
type IdentityService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type identityService struct {
	log          *logger.Logger
	jwtSecretKey string
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

func NewIdentityService(log *logger.Logger, jwtSecretKey string) IdentityService {
	return &identityService{
		log:          log.With("service", "IdentityService"),
		jwtSecretKey: jwtSecretKey,
	}
}

func (is *identityService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apperr.Unauthorized("missing token")
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(is.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, apperr.Unauthorized("failed to parse token: %v", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, apperr.Unauthorized("invalid or expired token")
	}
	callerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apperr.Unauthorized("invalid subject in token")
	}
	rd := &requestdata.RequestData{
		TokenString: tokenString,
		CallerID:    callerID,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

// resolveCaller reads the caller id from the context and its role from the
// profiles table within the given transaction. Recomputed on every
// operation so a role change takes effect immediately; never cached.
func resolveCaller(ctx context.Context, tx *gorm.DB, profileRepo repos.ProfileRepo) (policy.Caller, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.CallerID == uuid.Nil {
		return policy.Caller{}, apperr.Unauthorized("caller identity not set")
	}
	caller := policy.Caller{ID: rd.CallerID}
	found, err := profileRepo.GetByIDs(ctx, tx, []uuid.UUID{rd.CallerID})
	if err != nil {
		return policy.Caller{}, fmt.Errorf("resolve caller role: %w", err)
	}
	if len(found) > 0 && found[0] != nil {
		caller.Role = found[0].Role
		caller.HasProfile = true
	}
	return caller, nil
}
