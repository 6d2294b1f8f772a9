package handler

import (
	"strings"

	"github.com/Dev-May/socialMediaApp/internal/auth/domain"
	"github.com/Dev-May/socialMediaApp/internal/auth/service"
	autherror "github.com/Dev-May/socialMediaApp/internal/errors"
	"github.com/gofiber/fiber/v2"
)

const (
	localsUserKey   = "authUser"
	localsClaimsKey = "authClaims"
)

type AuthMiddleware struct {
	tokens   service.TokenGenerator
	sessions *service.SessionValidator
}

func NewAuthMiddleware(tokens service.TokenGenerator, sessions *service.SessionValidator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions}
}

// Authentication gates a route on a live session of the given token kind.
// The kind is fixed per route; the client-class prefix comes from the
// Authorization header and picks the signing secret before any decoding
// happens. On success the user and decoded claims are attached to the
// request; on any failure no handler runs.
func (m *AuthMiddleware) Authentication(kind domain.TokenKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		prefix, token, ok := splitAuthHeader(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return respondError(c, autherror.ErrMalformedAuth)
		}

		secret, ok := m.tokens.ResolveSignature(kind, prefix)
		if !ok {
			return respondError(c, autherror.ErrInvalidSignature)
		}

		claims, err := m.tokens.Verify(token, secret)
		if err != nil {
			return respondError(c, err)
		}

		user, err := m.sessions.Validate(c.Context(), claims)
		if err != nil {
			return respondError(c, err)
		}

		c.Locals(localsUserKey, user)
		c.Locals(localsClaimsKey, claims)

		return c.Next()
	}
}

func splitAuthHeader(header string) (prefix, token string, ok bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func userFromCtx(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(localsUserKey).(*domain.User)
	return user
}

func claimsFromCtx(c *fiber.Ctx) *service.JWTCustomClaims {
	claims, _ := c.Locals(localsClaimsKey).(*service.JWTCustomClaims)
	return claims
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(autherror.StatusCode(err)).JSON(fiber.Map{
		"error": autherror.Message(err),
	})
}
