package handler

import (
	"github.com/Dev-May/socialMediaApp/internal/auth/domain"
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler, m *AuthMiddleware) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Welcome on my social media app"})
	})

	users := app.Group("/users")

	users.Post("/signUp", h.SignUp)
	users.Patch("/confirmEmail", h.ConfirmEmail)
	users.Post("/signIn", h.SignIn)
	users.Post("/loginWithGmail", h.LoginWithGmail)
	users.Patch("/forgetPassword", h.ForgetPassword)
	users.Patch("/resetPassword", h.ResetPassword)

	users.Get("/getProfile", m.Authentication(domain.TokenKindAccess), h.GetProfile)
	users.Get("/refreshToken", m.Authentication(domain.TokenKindRefresh), h.RefreshToken)
	users.Post("/logout", m.Authentication(domain.TokenKindAccess), h.Logout)
	users.Post("/uploadProfileImage", m.Authentication(domain.TokenKindAccess), h.UploadProfileImage)
	users.Get("/profileImage", m.Authentication(domain.TokenKindAccess), h.ProfileImage)
}
