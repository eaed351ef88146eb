package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fieldnav/annotation-backend/internal/data/repos/testutil"
	"github.com/fieldnav/annotation-backend/internal/platform/apperr"
	"github.com/fieldnav/annotation-backend/internal/requestdata"
)

const testSecret = "test-secret"

func mintToken(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestSetContextFromToken_RoundTrip(t *testing.T) {
	svc := NewIdentityService(testutil.Logger(t), testSecret)
	callerID := uuid.New()
	token := mintToken(t, testSecret, callerID.String(), time.Hour)

	ctx, err := svc.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		t.Fatalf("expected request data in context")
	}
	if rd.CallerID != callerID {
		t.Fatalf("expected caller %s, got %s", callerID, rd.CallerID)
	}
}

func TestSetContextFromToken_Rejections(t *testing.T) {
	svc := NewIdentityService(testutil.Logger(t), testSecret)
	callerID := uuid.New()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"wrong secret", mintToken(t, "other-secret", callerID.String(), time.Hour)},
		{"expired", mintToken(t, testSecret, callerID.String(), -time.Hour)},
		{"non-uuid subject", mintToken(t, testSecret, "user-42", time.Hour)},
		{"garbage", "not.a.token"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.SetContextFromToken(context.Background(), tc.token); !errors.Is(err, apperr.ErrUnauthorized) {
				t.Fatalf("expected unauthorized, got %v", err)
			}
		})
	}
}
