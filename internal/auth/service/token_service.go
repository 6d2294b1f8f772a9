package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/Dev-May/socialMediaApp/internal/auth/service TokenGenerator

import (
	"errors"
	"fmt"
	"time"

	"github.com/Dev-May/socialMediaApp/config"
	"github.com/Dev-May/socialMediaApp/internal/auth/domain"
	autherror "github.com/Dev-May/socialMediaApp/internal/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenGenerator issues and verifies the signed bearer tokens of the service.
type TokenGenerator interface {
	GeneratePair(user *domain.User) (accessToken, refreshToken, jti string, err error)
	Issue(userID, email, secret string, expiresIn time.Duration, jti string) (string, error)
	Verify(tokenString, secret string) (*JWTCustomClaims, error)
	ResolveSignature(kind domain.TokenKind, prefix string) (string, bool)
	AccessExpiry() time.Duration
	RefreshExpiry() time.Duration
}

type TokenService struct {
	userAccessSecret   string
	adminAccessSecret  string
	userRefreshSecret  string
	adminRefreshSecret string
	bearerUser         string
	bearerAdmin        string
	accessExpiry       time.Duration
	refreshExpiry      time.Duration
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		userAccessSecret:   cfg.UserAccessSecret,
		adminAccessSecret:  cfg.AdminAccessSecret,
		userRefreshSecret:  cfg.UserRefreshSecret,
		adminRefreshSecret: cfg.AdminRefreshSecret,
		bearerUser:         cfg.BearerUser,
		bearerAdmin:        cfg.BearerAdmin,
		accessExpiry:       time.Duration(cfg.AccessExpiryHours) * time.Hour,
		refreshExpiry:      time.Duration(cfg.RefreshExpiryHours) * time.Hour,
	}
}

// Issue signs a token carrying {user_id, email} plus iat/exp/jti.
func (ts *TokenService) Issue(userID, email, secret string, expiresIn time.Duration, jti string) (string, error) {
	if secret == "" {
		return "", autherror.ErrSigningSecretEmpty
	}

	now := time.Now()
	claims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// GeneratePair issues one access and one refresh token sharing a freshly
// generated jti, so a single ledger entry invalidates the pair. Secrets are
// chosen by the subject's role.
func (ts *TokenService) GeneratePair(user *domain.User) (string, string, string, error) {
	jti := uuid.NewString()

	accessSecret, refreshSecret := ts.userAccessSecret, ts.userRefreshSecret
	if user.Role == domain.RoleAdmin {
		accessSecret, refreshSecret = ts.adminAccessSecret, ts.adminRefreshSecret
	}

	accessToken, err := ts.Issue(user.ID, user.Email, accessSecret, ts.accessExpiry, jti)
	if err != nil {
		return "", "", "", err
	}

	refreshToken, err := ts.Issue(user.ID, user.Email, refreshSecret, ts.refreshExpiry, jti)
	if err != nil {
		return "", "", "", err
	}

	return accessToken, refreshToken, jti, nil
}

// Verify parses and validates a token against the given secret. Failures are
// typed: an expired token and a bad signature are distinct errors, and no
// failure is ever swallowed into a nil result.
func (ts *TokenService) Verify(tokenString, secret string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherror.ErrTokenExpired
		}
		return nil, autherror.ErrInvalidToken
	}

	if !token.Valid {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}

// ResolveSignature maps the declared token kind and the client-class prefix
// from the Authorization header to the signing secret. The lookup is total
// over the four valid combinations; anything else is explicitly unrecognized
// and must never fall back to a default secret.
func (ts *TokenService) ResolveSignature(kind domain.TokenKind, prefix string) (string, bool) {
	switch kind {
	case domain.TokenKindAccess:
		switch prefix {
		case ts.bearerUser:
			return ts.userAccessSecret, true
		case ts.bearerAdmin:
			return ts.adminAccessSecret, true
		}
	case domain.TokenKindRefresh:
		switch prefix {
		case ts.bearerUser:
			return ts.userRefreshSecret, true
		case ts.bearerAdmin:
			return ts.adminRefreshSecret, true
		}
	}
	return "", false
}

func (ts *TokenService) AccessExpiry() time.Duration {
	return ts.accessExpiry
}

func (ts *TokenService) RefreshExpiry() time.Duration {
	return ts.refreshExpiry
}
