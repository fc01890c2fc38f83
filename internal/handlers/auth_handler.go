package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/littlerefugees/shelter-backend/internal/dto"
	"github.com/littlerefugees/shelter-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingCredentials),
			errors.Is(err, services.ErrEmailTaken),
			errors.Is(err, services.ErrEmailShelterTaken):
			return badRequest(c, err)
		}
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"user":    user,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	token, user, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Message: err.Error()})
		}
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(ident.ID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return notFound(c, err)
		}
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// FirstLoginCompleted marks the caller's onboarding as done. Without an
// explicit boolean in the body the flag is set to true.
func (h *AuthHandler) FirstLoginCompleted(c *fiber.Ctx) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	var req dto.FirstLoginRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return invalidBody(c)
	}

	completed := true
	if req.FirstLoginCompleted != nil {
		completed = *req.FirstLoginCompleted
	}

	user, err := h.authService.SetFirstLoginCompleted(ident.ID, completed)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return notFound(c, err)
		}
		return internalError(c, err)
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "First login flag updated",
		"token":   token,
		"user":    user,
	})
}
