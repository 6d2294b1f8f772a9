package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/Dev-May/socialMediaApp/internal/auth/domain UserRepository
//go:generate mockgen -destination=../../mocks/mock_revoked_token_repository.go -package=mocks github.com/Dev-May/socialMediaApp/internal/auth/domain RevokedTokenRepository

type UserRepository interface {
	// GetByEmail returns nil without error when no user matches.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetConfirmedByEmail returns only users whose email is confirmed.
	GetConfirmedByEmail(ctx context.Context, email string) (*User, error)
	// GetPendingByEmail returns only users whose confirmation is still unset.
	GetPendingByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	Confirm(ctx context.Context, email string) error
	SetOTP(ctx context.Context, email, otpHash string) error
	UpdatePassword(ctx context.Context, email, passwordHash string, changedAt time.Time) error
	SetChangeCredentials(ctx context.Context, userID string, at time.Time) error
	SetTempProfileImage(ctx context.Context, userID, key string) error
	PromoteProfileImage(ctx context.Context, userID, key string) error
	RestoreProfileImage(ctx context.Context, userID string) error
}

type RevokedTokenRepository interface {
	// Insert is idempotent: revoking the same token id twice leaves a
	// single effective denylist entry.
	Insert(ctx context.Context, rt *RevokedToken) error
	Exists(ctx context.Context, tokenID string) (bool, error)
	// DeleteExpired sweeps entries past their expiry. Storage hygiene only;
	// correctness never depends on it.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
