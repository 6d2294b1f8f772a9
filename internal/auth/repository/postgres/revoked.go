package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Dev-May/socialMediaApp/internal/auth/domain"
)

type RevokedTokenRepository struct {
	db PgxPool
}

func NewRevokedTokenRepository(db PgxPool) *RevokedTokenRepository {
	return &RevokedTokenRepository{db: db}
}

// Insert writes one denylist entry. Inserting the same token id twice is a
// no-op, so revocation is idempotent.
func (r *RevokedTokenRepository) Insert(ctx context.Context, rt *domain.RevokedToken) error {
	query := `
		INSERT INTO revoked_tokens (id, user_id, token_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (token_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, rt.ID, rt.UserID, rt.TokenID, rt.ExpiresAt, rt.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *RevokedTokenRepository) Exists(ctx context.Context, tokenID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token_id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, tokenID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return exists, nil
}

// DeleteExpired sweeps ledger entries whose expiry has passed. The matching
// tokens are already dead on their own exp claim, so this is storage hygiene
// rather than a correctness requirement.
func (r *RevokedTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM revoked_tokens WHERE expires_at < $1`

	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep revoked tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
