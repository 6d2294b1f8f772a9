package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dev-May/socialMediaApp/internal/auth/domain"
	autherror "github.com/Dev-May/socialMediaApp/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// PgxPool is the subset of pgxpool.Pool the repositories use. pgxmock
// satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository struct {
	db PgxPool
}

func NewUserRepository(db PgxPool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, full_name, email, password_hash, role, provider,
		confirmed, otp_hash, profile_image, temp_profile_image,
		change_credentials, created_at, updated_at`

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1;`
	return r.getOne(ctx, query, email)
}

func (r *UserRepository) GetConfirmedByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND confirmed = TRUE LIMIT 1;`
	return r.getOne(ctx, query, email)
}

func (r *UserRepository) GetPendingByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND confirmed IS NULL LIMIT 1;`
	return r.getOne(ctx, query, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	row := r.db.QueryRow(ctx, query, args...)

	var (
		user              domain.User
		passwordHash      sql.NullString
		confirmed         sql.NullBool
		otpHash           sql.NullString
		profileImage      sql.NullString
		tempProfileImage  sql.NullString
		changeCredentials sql.NullTime
	)

	err := row.Scan(&user.ID, &user.FullName, &user.Email, &passwordHash,
		&user.Role, &user.Provider, &confirmed, &otpHash, &profileImage,
		&tempProfileImage, &changeCredentials, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.PasswordHash = passwordHash.String
	user.OTPHash = otpHash.String
	user.ProfileImage = profileImage.String
	user.TempProfileImage = tempProfileImage.String
	if confirmed.Valid {
		user.Confirmed = &confirmed.Bool
	}
	if changeCredentials.Valid {
		t := changeCredentials.Time
		user.ChangeCredentials = &t
	}

	return &user, nil
}

// Create inserts a new user. The application-level uniqueness pre-check is
// an early rejection only; the unique constraint on email is the source of
// truth, and its violation surfaces as the same error.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, full_name, email, password_hash, role, provider,
			confirmed, otp_hash, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, ''), $9, $10)
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.FullName, user.Email,
		user.PasswordHash, user.Role, user.Provider, user.Confirmed,
		user.OTPHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return autherror.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) Confirm(ctx context.Context, email string) error {
	query := `UPDATE users SET confirmed = TRUE, otp_hash = NULL, updated_at = now() WHERE email = $1`
	_, err := r.db.Exec(ctx, query, email)
	return err
}

func (r *UserRepository) SetOTP(ctx context.Context, email, otpHash string) error {
	query := `UPDATE users SET otp_hash = $2, updated_at = now() WHERE email = $1`
	_, err := r.db.Exec(ctx, query, email, otpHash)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, email, passwordHash string, changedAt time.Time) error {
	query := `
		UPDATE users
		SET password_hash = $2, otp_hash = NULL, change_credentials = $3, updated_at = now()
		WHERE email = $1
	`
	_, err := r.db.Exec(ctx, query, email, passwordHash, changedAt)
	return err
}

func (r *UserRepository) SetChangeCredentials(ctx context.Context, userID string, at time.Time) error {
	query := `UPDATE users SET change_credentials = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, userID, at)
	return err
}

func (r *UserRepository) SetTempProfileImage(ctx context.Context, userID, key string) error {
	query := `UPDATE users SET temp_profile_image = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, userID, key)
	return err
}

func (r *UserRepository) PromoteProfileImage(ctx context.Context, userID, key string) error {
	query := `
		UPDATE users
		SET profile_image = $2, temp_profile_image = NULL, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, userID, key)
	return err
}

func (r *UserRepository) RestoreProfileImage(ctx context.Context, userID string) error {
	query := `UPDATE users SET temp_profile_image = NULL, updated_at = now() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}
