package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Provider string

const (
	ProviderSystem Provider = "system"
	ProviderGoogle Provider = "google"
)

// TokenKind distinguishes the short-lived access token from the long-lived
// refresh token. The kind is declared by the route, never inferred from the
// token itself, because the signing secret must be resolved before decoding.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

type User struct {
	ID       string
	Email    string
	FullName string

	// Empty for federated accounts; they never authenticate by password.
	PasswordHash string

	Role     Role
	Provider Provider

	// Nil until the email is confirmed; confirmation never reverts.
	Confirmed *bool

	// Present only while a confirmation or password-reset OTP is pending.
	OTPHash string

	ProfileImage     string
	TempProfileImage string

	// Every token issued before this instant is invalid ("log out everywhere").
	ChangeCredentials *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsConfirmed reports whether the account finished email confirmation.
func (u *User) IsConfirmed() bool {
	return u.Confirmed != nil && *u.Confirmed
}

// RevokedToken is one denylist entry. A row matching a token's jti renders
// that token invalid regardless of signature validity or remaining lifetime.
type RevokedToken struct {
	ID        string
	UserID    string
	TokenID   string
	ExpiresAt time.Time
	CreatedAt time.Time
}
