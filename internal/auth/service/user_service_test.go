package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Dev-May/socialMediaApp/config"
	"github.com/Dev-May/socialMediaApp/internal/auth/domain"
	"github.com/Dev-May/socialMediaApp/internal/auth/dto"
	"github.com/Dev-May/socialMediaApp/internal/auth/service"
	autherror "github.com/Dev-May/socialMediaApp/internal/errors"
	"github.com/Dev-May/socialMediaApp/internal/event"
	"github.com/Dev-May/socialMediaApp/internal/idp"
	"github.com/Dev-May/socialMediaApp/internal/logging"
	"github.com/Dev-May/socialMediaApp/internal/mocks"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type userServiceFixture struct {
	users    *mocks.MockUserRepository
	revoked  *mocks.MockRevokedTokenRepository
	tokens   *mocks.MockTokenGenerator
	verifier *mocks.MockVerifier
	store    *mocks.MockObjectStore
	bus      *event.Bus
	cfg      *config.Config
	service  *service.UserService
}

func newUserServiceFixture(t *testing.T) *userServiceFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &userServiceFixture{
		users:    mocks.NewMockUserRepository(ctrl),
		revoked:  mocks.NewMockRevokedTokenRepository(ctrl),
		tokens:   mocks.NewMockTokenGenerator(ctrl),
		verifier: mocks.NewMockVerifier(ctrl),
		store:    mocks.NewMockObjectStore(ctrl),
		bus:      event.NewBus(),
		cfg:      &config.Config{ApplicationName: "socialMediaApp"},
	}
	f.service = service.NewUserService(f.users, f.revoked, f.tokens,
		f.verifier, f.store, f.bus, f.cfg, logging.Nop())

	return f
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestUserService_SignUp_Success(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.SignUpInput{
		FullName: "Test User",
		Email:    "test@example.com",
		Password: "password123",
	}

	var payload service.OTPEmailPayload
	f.bus.Subscribe(event.ConfirmEmail, func(ctx context.Context, p any) {
		payload, _ = p.(service.OTPEmailPayload)
	})

	f.users.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
	f.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	user, err := f.service.SignUp(context.Background(), input)
	require.NoError(t, err)
	f.bus.Wait()

	require.NotNil(t, user)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, input.Email, user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, domain.ProviderSystem, user.Provider)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEmpty(t, user.OTPHash)
	assert.False(t, user.IsConfirmed())

	// The OTP rides the event in clear text so the email can carry it; only
	// its hash is stored.
	assert.Equal(t, input.Email, payload.Email)
	assert.Len(t, payload.OTP, 6)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.OTPHash), []byte(payload.OTP)))
}

func TestUserService_SignUp_EmailAlreadyExists(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.SignUpInput{FullName: "Test User", Email: "taken@example.com", Password: "password123"}

	f.users.EXPECT().GetByEmail(gomock.Any(), input.Email).
		Return(&domain.User{ID: "existing", Email: input.Email}, nil)

	user, err := f.service.SignUp(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrEmailAlreadyExists)
	assert.Nil(t, user)
}

func TestUserService_SignUp_CreateError(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.SignUpInput{FullName: "Test User", Email: "test@example.com", Password: "password123"}
	expectedErr := errors.New("create error")

	f.users.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
	f.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(expectedErr)

	user, err := f.service.SignUp(context.Background(), input)

	assert.ErrorIs(t, err, expectedErr)
	assert.Nil(t, user)
}

func TestUserService_ConfirmEmail_Success(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.ConfirmEmailInput{Email: "test@example.com", OTP: "123456"}
	pending := &domain.User{
		ID:      "user-123",
		Email:   input.Email,
		OTPHash: mustHash(t, input.OTP),
	}

	f.users.EXPECT().GetPendingByEmail(gomock.Any(), input.Email).Return(pending, nil)
	f.users.EXPECT().Confirm(gomock.Any(), input.Email).Return(nil)

	err := f.service.ConfirmEmail(context.Background(), input)

	assert.NoError(t, err)
}

func TestUserService_ConfirmEmail_InvalidOTP(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.ConfirmEmailInput{Email: "test@example.com", OTP: "000000"}
	pending := &domain.User{
		ID:      "user-123",
		Email:   input.Email,
		OTPHash: mustHash(t, "123456"),
	}

	f.users.EXPECT().GetPendingByEmail(gomock.Any(), input.Email).Return(pending, nil)

	err := f.service.ConfirmEmail(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrInvalidOTP)
}

func TestUserService_ConfirmEmail_NotPending(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.ConfirmEmailInput{Email: "test@example.com", OTP: "123456"}

	f.users.EXPECT().GetPendingByEmail(gomock.Any(), input.Email).Return(nil, nil)

	err := f.service.ConfirmEmail(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrEmailNotPending)
}

func TestUserService_SignIn_Success(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.SignInInput{Email: "test@example.com", Password: "password123"}
	confirmed := true
	user := &domain.User{
		ID:           "user-123",
		Email:        input.Email,
		PasswordHash: mustHash(t, input.Password),
		Role:         domain.RoleUser,
		Provider:     domain.ProviderSystem,
		Confirmed:    &confirmed,
	}

	f.users.EXPECT().GetConfirmedByEmail(gomock.Any(), input.Email).Return(user, nil)
	f.tokens.EXPECT().GeneratePair(user).Return("access-token", "refresh-token", "jti-1", nil)

	pair, err := f.service.SignIn(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "access-token", pair.AccessToken)
	assert.Equal(t, "refresh-token", pair.RefreshToken)
}

func TestUserService_SignIn_UserNotFound(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.SignInInput{Email: "gone@example.com", Password: "password123"}

	f.users.EXPECT().GetConfirmedByEmail(gomock.Any(), input.Email).Return(nil, nil)

	pair, err := f.service.SignIn(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrUserNotFound)
	assert.Nil(t, pair)
}

func TestUserService_SignIn_FederatedAccount(t *testing.T) {
	f := newUserServiceFixture(t)

	// Federated accounts never sign in by password; the response must not
	// reveal the account exists.
	input := dto.SignInInput{Email: "google@example.com", Password: "password123"}
	confirmed := true
	user := &domain.User{
		ID:        "user-123",
		Email:     input.Email,
		Provider:  domain.ProviderGoogle,
		Confirmed: &confirmed,
	}

	f.users.EXPECT().GetConfirmedByEmail(gomock.Any(), input.Email).Return(user, nil)

	pair, err := f.service.SignIn(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrUserNotFound)
	assert.Nil(t, pair)
}

func TestUserService_SignIn_WrongPassword(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.SignInInput{Email: "test@example.com", Password: "wrong-password"}
	confirmed := true
	user := &domain.User{
		ID:           "user-123",
		Email:        input.Email,
		PasswordHash: mustHash(t, "password123"),
		Provider:     domain.ProviderSystem,
		Confirmed:    &confirmed,
	}

	f.users.EXPECT().GetConfirmedByEmail(gomock.Any(), input.Email).Return(user, nil)

	pair, err := f.service.SignIn(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
	assert.Nil(t, pair)
}

func TestUserService_LoginWithGmail_ProvisionsNewUser(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.GmailLoginInput{IDToken: "google-id-token"}
	profile := &idp.Profile{
		Email:         "new@example.com",
		EmailVerified: true,
		Name:          "New User",
	}

	var created *domain.User

	f.verifier.EXPECT().VerifyIDToken(gomock.Any(), input.IDToken).Return(profile, nil)
	f.users.EXPECT().GetByEmail(gomock.Any(), profile.Email).Return(nil, nil)
	f.users.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *domain.User) error {
			created = u
			return nil
		})
	f.tokens.EXPECT().GeneratePair(gomock.Any()).Return("access-token", "refresh-token", "jti-1", nil)

	pair, err := f.service.LoginWithGmail(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "access-token", pair.AccessToken)
	require.NotNil(t, created)
	assert.Equal(t, domain.ProviderGoogle, created.Provider)
	assert.True(t, created.IsConfirmed())
	assert.NotEmpty(t, created.PasswordHash)
}

func TestUserService_LoginWithGmail_WrongProvider(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.GmailLoginInput{IDToken: "google-id-token"}
	profile := &idp.Profile{Email: "test@example.com", EmailVerified: true}
	confirmed := true
	existing := &domain.User{
		ID:        "user-123",
		Email:     profile.Email,
		Provider:  domain.ProviderSystem,
		Confirmed: &confirmed,
	}

	f.verifier.EXPECT().VerifyIDToken(gomock.Any(), input.IDToken).Return(profile, nil)
	f.users.EXPECT().GetByEmail(gomock.Any(), profile.Email).Return(existing, nil)

	pair, err := f.service.LoginWithGmail(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrWrongProvider)
	assert.Nil(t, pair)
}

func TestUserService_LoginWithGmail_InvalidToken(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.GmailLoginInput{IDToken: "bad-token"}

	f.verifier.EXPECT().VerifyIDToken(gomock.Any(), input.IDToken).
		Return(nil, autherror.ErrInvalidExternalToken)

	pair, err := f.service.LoginWithGmail(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrInvalidExternalToken)
	assert.Nil(t, pair)
}

func TestUserService_LoginWithGmail_UnverifiedEmail(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.GmailLoginInput{IDToken: "google-id-token"}
	profile := &idp.Profile{Email: "new@example.com", EmailVerified: false}

	f.verifier.EXPECT().VerifyIDToken(gomock.Any(), input.IDToken).Return(profile, nil)
	f.users.EXPECT().GetByEmail(gomock.Any(), profile.Email).Return(nil, nil)
	f.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	pair, err := f.service.LoginWithGmail(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrEmailNotConfirmed)
	assert.Nil(t, pair)
}

func TestUserService_RefreshTokens_RevokesPresentedToken(t *testing.T) {
	f := newUserServiceFixture(t)

	user := &domain.User{ID: "user-123", Email: "test@example.com"}
	expiresAt := time.Now().Add(24 * time.Hour)
	claims := &service.JWTCustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-old",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	var entry *domain.RevokedToken

	// The presented jti must hit the ledger before a new pair exists.
	f.revoked.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rt *domain.RevokedToken) error {
			entry = rt
			return nil
		})
	f.tokens.EXPECT().GeneratePair(user).Return("new-access", "new-refresh", "jti-new", nil)

	pair, err := f.service.RefreshTokens(context.Background(), user, claims)

	require.NoError(t, err)
	assert.Equal(t, "new-access", pair.AccessToken)
	require.NotNil(t, entry)
	assert.Equal(t, "jti-old", entry.TokenID)
	assert.Equal(t, user.ID, entry.UserID)
	assert.WithinDuration(t, expiresAt, entry.ExpiresAt, time.Second)
}

func TestUserService_RefreshTokens_RevocationFailureStopsIssuance(t *testing.T) {
	f := newUserServiceFixture(t)

	user := &domain.User{ID: "user-123"}
	claims := &service.JWTCustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "jti-old"},
	}
	expectedErr := errors.New("insert error")

	f.tokens.EXPECT().RefreshExpiry().Return(24 * time.Hour)
	f.revoked.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(expectedErr)

	pair, err := f.service.RefreshTokens(context.Background(), user, claims)

	assert.ErrorIs(t, err, expectedErr)
	assert.Nil(t, pair)
}

func TestUserService_Logout_Current(t *testing.T) {
	f := newUserServiceFixture(t)

	user := &domain.User{ID: "user-123"}
	issuedAt := time.Now().Add(-time.Hour)
	refreshExpiry := 24 * time.Hour
	claims := &service.JWTCustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       "jti-current",
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
	}

	var entry *domain.RevokedToken

	f.tokens.EXPECT().RefreshExpiry().Return(refreshExpiry)
	f.revoked.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rt *domain.RevokedToken) error {
			entry = rt
			return nil
		})

	err := f.service.Logout(context.Background(), user, claims, dto.LogoutCurrent)

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "jti-current", entry.TokenID)
	// The entry outlives the access token: the sibling refresh token shares
	// the jti and stays revocable until its own horizon.
	assert.WithinDuration(t, issuedAt.Add(refreshExpiry), entry.ExpiresAt, time.Second)
}

func TestUserService_Logout_All(t *testing.T) {
	f := newUserServiceFixture(t)

	user := &domain.User{ID: "user-123"}
	claims := &service.JWTCustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "jti-current"},
	}

	before := time.Now()
	f.users.EXPECT().SetChangeCredentials(gomock.Any(), user.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, at time.Time) error {
			assert.False(t, at.Before(before))
			return nil
		})

	err := f.service.Logout(context.Background(), user, claims, dto.LogoutAll)

	assert.NoError(t, err)
}

func TestUserService_ForgetPassword_Success(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.ForgetPasswordInput{Email: "test@example.com"}
	confirmed := true
	user := &domain.User{
		ID:        "user-123",
		Email:     input.Email,
		Provider:  domain.ProviderSystem,
		Confirmed: &confirmed,
	}

	var payload service.OTPEmailPayload
	f.bus.Subscribe(event.ForgetPassword, func(ctx context.Context, p any) {
		payload, _ = p.(service.OTPEmailPayload)
	})

	var storedHash string

	f.users.EXPECT().GetConfirmedByEmail(gomock.Any(), input.Email).Return(user, nil)
	f.users.EXPECT().SetOTP(gomock.Any(), input.Email, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, hash string) error {
			storedHash = hash
			return nil
		})

	err := f.service.ForgetPassword(context.Background(), input)
	require.NoError(t, err)
	f.bus.Wait()

	assert.Equal(t, input.Email, payload.Email)
	assert.Len(t, payload.OTP, 6)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(payload.OTP)))
}

func TestUserService_ForgetPassword_FederatedAccount(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.ForgetPasswordInput{Email: "google@example.com"}
	confirmed := true
	user := &domain.User{
		ID:        "user-123",
		Email:     input.Email,
		Provider:  domain.ProviderGoogle,
		Confirmed: &confirmed,
	}

	f.users.EXPECT().GetConfirmedByEmail(gomock.Any(), input.Email).Return(user, nil)

	err := f.service.ForgetPassword(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrWrongProvider)
}

func TestUserService_ResetPassword_Success(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.ResetPasswordInput{
		Email:       "test@example.com",
		OTP:         "123456",
		NewPassword: "new-password-123",
	}
	user := &domain.User{
		ID:      "user-123",
		Email:   input.Email,
		OTPHash: mustHash(t, input.OTP),
	}

	f.users.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(user, nil)
	f.users.EXPECT().UpdatePassword(gomock.Any(), input.Email, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, hash string, changedAt time.Time) error {
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(input.NewPassword)))
			assert.WithinDuration(t, time.Now(), changedAt, time.Second)
			return nil
		})

	err := f.service.ResetPassword(context.Background(), input)

	assert.NoError(t, err)
}

func TestUserService_ResetPassword_InvalidOTP(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.ResetPasswordInput{Email: "test@example.com", OTP: "000000", NewPassword: "new-password-123"}
	user := &domain.User{ID: "user-123", Email: input.Email, OTPHash: mustHash(t, "123456")}

	f.users.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(user, nil)

	err := f.service.ResetPassword(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrInvalidOTP)
}

func TestUserService_ResetPassword_NoPendingOTP(t *testing.T) {
	f := newUserServiceFixture(t)

	input := dto.ResetPasswordInput{Email: "test@example.com", OTP: "123456", NewPassword: "new-password-123"}
	user := &domain.User{ID: "user-123", Email: input.Email}

	f.users.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(user, nil)

	err := f.service.ResetPassword(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrInvalidOTP)
}

func TestUserService_UploadProfileImage(t *testing.T) {
	f := newUserServiceFixture(t)

	user := &domain.User{ID: "user-123", ProfileImage: "old-key"}
	input := dto.UploadProfileImageInput{FileName: "avatar.png", ContentType: "image/png"}

	var presignedKey string

	f.store.EXPECT().PresignPut(gomock.Any(), gomock.Any(), "image/png", gomock.Any()).
		DoAndReturn(func(_ context.Context, key, _ string, _ time.Duration) (string, error) {
			presignedKey = key
			return "https://bucket.example.com/upload", nil
		})
	f.users.EXPECT().SetTempProfileImage(gomock.Any(), user.ID, gomock.Any()).Return(nil)

	out, err := f.service.UploadProfileImage(context.Background(), user, input)

	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example.com/upload", out.UploadURL)
	assert.Equal(t, presignedKey, out.Key)
	assert.True(t, strings.HasPrefix(out.Key, "socialMediaApp/users/user-123/"))
	assert.True(t, strings.HasSuffix(out.Key, "_avatar.png"))
}

func TestUserService_FinalizeProfileImage_Promotes(t *testing.T) {
	f := newUserServiceFixture(t)

	payload := service.ImagePromotionPayload{
		UserID: "user-123",
		NewKey: "app/users/user-123/new",
		OldKey: "app/users/user-123/old",
	}

	f.store.EXPECT().Exists(gomock.Any(), payload.NewKey).Return(true, nil)
	f.users.EXPECT().PromoteProfileImage(gomock.Any(), payload.UserID, payload.NewKey).Return(nil)
	f.store.EXPECT().Delete(gomock.Any(), payload.OldKey).Return(nil)

	f.service.FinalizeProfileImage(context.Background(), payload)
}

func TestUserService_FinalizeProfileImage_MissingUploadRestores(t *testing.T) {
	f := newUserServiceFixture(t)

	payload := service.ImagePromotionPayload{
		UserID: "user-123",
		NewKey: "app/users/user-123/never-uploaded",
	}

	f.store.EXPECT().Exists(gomock.Any(), payload.NewKey).Return(false, nil)
	f.users.EXPECT().RestoreProfileImage(gomock.Any(), payload.UserID).Return(nil)

	f.service.FinalizeProfileImage(context.Background(), payload)
}

func TestUserService_ProfileImageURL(t *testing.T) {
	f := newUserServiceFixture(t)

	t.Run("presigns the stored key", func(t *testing.T) {
		user := &domain.User{ID: "user-123", ProfileImage: "app/users/user-123/avatar"}

		f.store.EXPECT().PresignGet(gomock.Any(), user.ProfileImage, gomock.Any()).
			Return("https://bucket.example.com/avatar", nil)

		url, err := f.service.ProfileImageURL(context.Background(), user)

		require.NoError(t, err)
		assert.Equal(t, "https://bucket.example.com/avatar", url)
	})

	t.Run("no image stored", func(t *testing.T) {
		user := &domain.User{ID: "user-123"}

		url, err := f.service.ProfileImageURL(context.Background(), user)

		assert.ErrorIs(t, err, autherror.ErrNoProfileImagePending)
		assert.Empty(t, url)
	})
}

func TestUserService_SweepRevokedTokens(t *testing.T) {
	f := newUserServiceFixture(t)

	f.revoked.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(3), nil)

	f.service.SweepRevokedTokens(context.Background())
}

func TestUserService_GetProfile(t *testing.T) {
	f := newUserServiceFixture(t)

	confirmed := true
	user := &domain.User{
		ID:           "user-123",
		FullName:     "Test User",
		Email:        "test@example.com",
		Role:         domain.RoleUser,
		Provider:     domain.ProviderSystem,
		Confirmed:    &confirmed,
		ProfileImage: "key",
	}

	out := f.service.GetProfile(user)

	assert.Equal(t, user.ID, out.ID)
	assert.Equal(t, user.FullName, out.FullName)
	assert.Equal(t, "user", out.Role)
	assert.Equal(t, "system", out.Provider)
	assert.True(t, out.Confirmed)
	assert.Equal(t, "key", out.ProfileImage)
}
