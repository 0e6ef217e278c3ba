package handler

import (
	"github.com/gofiber/fiber/v2"

	"kaizen-ideas/internal/domain"
	"kaizen-ideas/internal/middleware"
	"kaizen-ideas/internal/pkg/validate"
	"kaizen-ideas/internal/service/auth"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var input domain.SendOTPInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return err
	}

	if err := h.authService.SendOTP(c.UserContext(), input); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "OTP sent"})
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var input domain.VerifyOTPInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return err
	}

	token, err := h.authService.VerifyOTP(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.JSON(token)
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}
	return c.JSON(user)
}

// Logout is a no-op; access tokens are stateless and expire on their own.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Logged out"})
}
