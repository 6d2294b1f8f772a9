package service

import (
	"context"

	"github.com/Dev-May/socialMediaApp/internal/auth/domain"
	autherror "github.com/Dev-May/socialMediaApp/internal/errors"
	"github.com/Dev-May/socialMediaApp/internal/logging"
)

// SessionValidator decides whether decoded claims still belong to a live
// session. A token with a valid signature can still be dead: its jti may be
// in the revocation ledger, or the user may have invalidated everything
// issued before their changeCredentials timestamp.
type SessionValidator struct {
	users   domain.UserRepository
	revoked domain.RevokedTokenRepository
	log     logging.Logger
}

func NewSessionValidator(users domain.UserRepository, revoked domain.RevokedTokenRepository, log logging.Logger) *SessionValidator {
	return &SessionValidator{users: users, revoked: revoked, log: log}
}

// Validate cross-checks decoded claims against the user record and the
// revocation ledger, short-circuiting on the first failure. The ledger is
// consulted before the changeCredentials timestamp: single-device
// revocations are the common case and the cheap check, while the timestamp
// catches "log out everywhere" even for tokens that were never individually
// revoked.
func (v *SessionValidator) Validate(ctx context.Context, claims *JWTCustomClaims) (*domain.User, error) {
	user, err := v.users.GetConfirmedByEmail(ctx, claims.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	if !user.IsConfirmed() {
		return nil, autherror.ErrEmailNotConfirmed
	}

	revoked, err := v.revoked.Exists(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		v.log.Debug(ctx, "rejected revoked token", "jti", claims.ID, "user_id", user.ID)
		return nil, autherror.ErrCredentialsChanged
	}

	if user.ChangeCredentials != nil && claims.IssuedAt != nil &&
		user.ChangeCredentials.After(claims.IssuedAt.Time) {
		v.log.Debug(ctx, "rejected token issued before global invalidation",
			"jti", claims.ID, "user_id", user.ID)
		return nil, autherror.ErrCredentialsChanged
	}

	return user, nil
}
