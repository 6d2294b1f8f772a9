package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Dev-May/socialMediaApp/config"
	"github.com/Dev-May/socialMediaApp/internal/auth/domain"
	"github.com/Dev-May/socialMediaApp/internal/auth/dto"
	autherror "github.com/Dev-May/socialMediaApp/internal/errors"
	"github.com/Dev-May/socialMediaApp/internal/event"
	"github.com/Dev-May/socialMediaApp/internal/idp"
	"github.com/Dev-May/socialMediaApp/internal/logging"
	"github.com/Dev-May/socialMediaApp/internal/mailer"
	"github.com/Dev-May/socialMediaApp/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	presignPutExpiry = time.Hour
	presignGetExpiry = 15 * time.Minute
)

// OTPEmailPayload rides the confirmEmail and forgetPassword events.
type OTPEmailPayload struct {
	Email string
	OTP   string
}

// ImagePromotionPayload rides the deferred profile-image promotion event.
type ImagePromotionPayload struct {
	UserID string
	NewKey string
	OldKey string
}

type UserService struct {
	users    domain.UserRepository
	revoked  domain.RevokedTokenRepository
	tokens   TokenGenerator
	verifier idp.Verifier
	store    storage.ObjectStore
	bus      *event.Bus
	cfg      *config.Config
	log      logging.Logger
}

func NewUserService(
	users domain.UserRepository,
	revoked domain.RevokedTokenRepository,
	tokens TokenGenerator,
	verifier idp.Verifier,
	store storage.ObjectStore,
	bus *event.Bus,
	cfg *config.Config,
	log logging.Logger,
) *UserService {
	return &UserService{
		users:    users,
		revoked:  revoked,
		tokens:   tokens,
		verifier: verifier,
		store:    store,
		bus:      bus,
		cfg:      cfg,
		log:      log,
	}
}

// SignUp creates a pending account and emails a confirmation OTP. The
// uniqueness pre-check is an early rejection; the storage constraint is the
// real guarantee and surfaces the same error under concurrent sign-ups.
func (s *UserService) SignUp(ctx context.Context, input dto.SignUpInput) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	otp, err := mailer.GenerateOTP()
	if err != nil {
		return nil, err
	}
	otpHash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: string(passwordHash),
		Role:         domain.RoleUser,
		Provider:     domain.ProviderSystem,
		OTPHash:      string(otpHash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.bus.Publish(event.ConfirmEmail, OTPEmailPayload{Email: user.Email, OTP: otp})

	return user, nil
}

// ConfirmEmail flips a pending account to confirmed when the OTP matches.
// Confirmation is monotonic; a confirmed account never shows up in the
// pending lookup again.
func (s *UserService) ConfirmEmail(ctx context.Context, input dto.ConfirmEmailInput) error {
	user, err := s.users.GetPendingByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrEmailNotPending
	}

	if bcrypt.CompareHashAndPassword([]byte(user.OTPHash), []byte(input.OTP)) != nil {
		return autherror.ErrInvalidOTP
	}

	return s.users.Confirm(ctx, user.Email)
}

// SignIn authenticates a confirmed, system-provider user by password and
// issues an access+refresh pair.
func (s *UserService) SignIn(ctx context.Context, input dto.SignInInput) (*dto.TokenPairOutput, error) {
	user, err := s.users.GetConfirmedByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Provider != domain.ProviderSystem {
		return nil, autherror.ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, autherror.ErrInvalidCredentials
	}

	return s.issuePair(user)
}

// LoginWithGmail verifies a Google ID token and signs the user in,
// auto-provisioning a local account on first login. An email already
// registered through password sign-up is never silently merged.
func (s *UserService) LoginWithGmail(ctx context.Context, input dto.GmailLoginInput) (*dto.TokenPairOutput, error) {
	profile, err := s.verifier.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, profile.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user, err = s.provisionGoogleUser(ctx, profile)
		if err != nil {
			return nil, err
		}
	} else if user.Provider != domain.ProviderGoogle {
		return nil, autherror.ErrWrongProvider
	}

	if !user.IsConfirmed() {
		return nil, autherror.ErrEmailNotConfirmed
	}

	return s.issuePair(user)
}

func (s *UserService) provisionGoogleUser(ctx context.Context, profile *idp.Profile) (*domain.User, error) {
	// Federated accounts never authenticate by password; the placeholder is
	// random and unusable.
	placeholder, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		FullName:     profile.Name,
		Email:        profile.Email,
		PasswordHash: string(placeholder),
		Role:         domain.RoleUser,
		Provider:     domain.ProviderGoogle,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if profile.EmailVerified {
		confirmed := true
		user.Confirmed = &confirmed
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "provisioned federated account", "user_id", user.ID)

	return user, nil
}

// RefreshTokens rotates the presented refresh token into a fresh pair.
// Refresh tokens are single-use: the presented jti goes on the ledger before
// any new token is issued, so replaying it fails the validator's ledger check.
func (s *UserService) RefreshTokens(ctx context.Context, user *domain.User, claims *JWTCustomClaims) (*dto.TokenPairOutput, error) {
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	} else {
		expiresAt = time.Now().Add(s.tokens.RefreshExpiry())
	}
	if err := s.revokeClaims(ctx, user.ID, claims, expiresAt); err != nil {
		return nil, err
	}

	return s.issuePair(user)
}

// Logout revokes the current session or every session, depending on flag.
func (s *UserService) Logout(ctx context.Context, user *domain.User, claims *JWTCustomClaims, flag dto.LogoutFlag) error {
	switch flag {
	case dto.LogoutAll:
		// O(1) kill switch: every token issued before this instant fails the
		// validator's changeCredentials check, revoked individually or not.
		return s.users.SetChangeCredentials(ctx, user.ID, time.Now())
	default:
		// The ledger entry outlives the presented access token: it carries
		// the refresh horizon because the sibling refresh token shares the
		// jti and must stay dead after the entry would otherwise be swept.
		issuedAt := time.Now()
		if claims.IssuedAt != nil {
			issuedAt = claims.IssuedAt.Time
		}
		return s.revokeClaims(ctx, user.ID, claims, issuedAt.Add(s.tokens.RefreshExpiry()))
	}
}

func (s *UserService) revokeClaims(ctx context.Context, userID string, claims *JWTCustomClaims, expiresAt time.Time) error {
	return s.revoked.Insert(ctx, &domain.RevokedToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	})
}

// ForgetPassword stores a fresh OTP and emails it. Only confirmed
// system-provider accounts can reset a password.
func (s *UserService) ForgetPassword(ctx context.Context, input dto.ForgetPasswordInput) error {
	user, err := s.users.GetConfirmedByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}
	if user.Provider != domain.ProviderSystem {
		return autherror.ErrWrongProvider
	}

	otp, err := mailer.GenerateOTP()
	if err != nil {
		return err
	}
	otpHash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.users.SetOTP(ctx, user.Email, string(otpHash)); err != nil {
		return err
	}

	s.bus.Publish(event.ForgetPassword, OTPEmailPayload{Email: user.Email, OTP: otp})

	return nil
}

// ResetPassword replaces the digest and stamps changeCredentials, so every
// previously issued token dies with the old password.
func (s *UserService) ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	if user.OTPHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.OTPHash), []byte(input.OTP)) != nil {
		return autherror.ErrInvalidOTP
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, user.Email, string(passwordHash), time.Now())
}

// GetProfile maps the authenticated user to its public shape.
func (s *UserService) GetProfile(user *domain.User) *dto.UserOutput {
	return &dto.UserOutput{
		ID:           user.ID,
		FullName:     user.FullName,
		Email:        user.Email,
		Role:         string(user.Role),
		Provider:     string(user.Provider),
		Confirmed:    user.IsConfirmed(),
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// ProfileImageURL returns a presigned download URL for the stored image.
func (s *UserService) ProfileImageURL(ctx context.Context, user *domain.User) (string, error) {
	if user.ProfileImage == "" {
		return "", autherror.ErrNoProfileImagePending
	}
	return s.store.PresignGet(ctx, user.ProfileImage, presignGetExpiry)
}

// UploadProfileImage issues a presigned PUT URL for the new image, records
// the key as pending, and schedules the deferred promotion check. The
// request never waits on the object store beyond the presign call.
func (s *UserService) UploadProfileImage(ctx context.Context, user *domain.User, input dto.UploadProfileImageInput) (*dto.UploadProfileImageOutput, error) {
	key := fmt.Sprintf("%s/users/%s/%s_%s", s.cfg.ApplicationName, user.ID, uuid.NewString(), input.FileName)

	url, err := s.store.PresignPut(ctx, key, input.ContentType, presignPutExpiry)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetTempProfileImage(ctx, user.ID, key); err != nil {
		return nil, err
	}

	delay := time.Duration(s.cfg.ImagePromotionDelaySec) * time.Second
	s.bus.PublishAfter(delay, event.PromoteProfileImage, ImagePromotionPayload{
		UserID: user.ID,
		NewKey: key,
		OldKey: user.ProfileImage,
	})

	return &dto.UploadProfileImageOutput{UploadURL: url, Key: key}, nil
}

// FinalizeProfileImage runs as the deferred promotion handler. Nobody is
// waiting on it, so every failure path logs and self-heals: if the uploaded
// object never arrived, the previous image reference is restored.
func (s *UserService) FinalizeProfileImage(ctx context.Context, p ImagePromotionPayload) {
	exists, err := s.store.Exists(ctx, p.NewKey)
	if err != nil {
		s.log.Error(ctx, "image promotion check failed", "user_id", p.UserID, "key", p.NewKey, "error", err)
		return
	}

	if !exists {
		s.log.Warn(ctx, "uploaded image missing, restoring previous reference", "user_id", p.UserID, "key", p.NewKey)
		if err := s.users.RestoreProfileImage(ctx, p.UserID); err != nil {
			s.log.Error(ctx, "failed to restore profile image", "user_id", p.UserID, "error", err)
		}
		return
	}

	if err := s.users.PromoteProfileImage(ctx, p.UserID, p.NewKey); err != nil {
		s.log.Error(ctx, "failed to promote profile image", "user_id", p.UserID, "error", err)
		return
	}

	if p.OldKey != "" {
		if err := s.store.Delete(ctx, p.OldKey); err != nil {
			s.log.Warn(ctx, "failed to delete previous profile image", "key", p.OldKey, "error", err)
		}
	}
}

// SweepRevokedTokens deletes ledger entries whose expiry has passed.
func (s *UserService) SweepRevokedTokens(ctx context.Context) {
	n, err := s.revoked.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.Error(ctx, "revoked token sweep failed", "error", err)
		return
	}
	if n > 0 {
		s.log.Info(ctx, "swept expired revoked tokens", "count", n)
	}
}

func (s *UserService) issuePair(user *domain.User) (*dto.TokenPairOutput, error) {
	access, refresh, _, err := s.tokens.GeneratePair(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairOutput{AccessToken: access, RefreshToken: refresh}, nil
}
