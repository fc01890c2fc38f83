package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/littlerefugees/shelter-backend/internal/dto"
	"github.com/littlerefugees/shelter-backend/internal/services"
)

type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
}

func NewUserHandler(userService *services.UserService, authService *services.AuthService) *UserHandler {
	return &UserHandler{userService: userService, authService: authService}
}

// UpdateProfile edits the caller's own account and reissues the token so
// claims such as the email stay in sync.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := h.userService.UpdateProfile(ident.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return notFound(c, err)
		case errors.Is(err, services.ErrWrongPassword):
			return forbidden(c, err)
		case errors.Is(err, services.ErrPasswordRequired),
			errors.Is(err, services.ErrNothingToUpdate),
			errors.Is(err, services.ErrEmailTaken),
			errors.Is(err, services.ErrEmailShelterTaken):
			return badRequest(c, err)
		}
		return internalError(c, err)
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated",
		"token":   token,
		"user":    user,
	})
}

func (h *UserHandler) DeleteAccount(c *fiber.Ctx) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	var req dto.DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return invalidBody(c)
	}

	if err := h.userService.DeleteAccount(ident.ID, req.CurrentPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return notFound(c, err)
		case errors.Is(err, services.ErrWrongPassword),
			errors.Is(err, services.ErrOwnerCannotLeave),
			errors.Is(err, services.ErrAdminCannotLeave):
			return forbidden(c, err)
		case errors.Is(err, services.ErrPasswordRequired),
			errors.Is(err, services.ErrUserHasRequests):
			return badRequest(c, err)
		}
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Account deleted"})
}

// DeleteByOwner removes a fellow admin's account on behalf of the shelter
// owner.
func (h *UserHandler) DeleteByOwner(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}
	if !ident.IsAdminOwner {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Message: "Forbidden: owner only",
		})
	}

	targetID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.userService.DeleteByOwner(ident, targetID); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return notFound(c, err)
		case errors.Is(err, services.ErrUserOutsideShelter),
			errors.Is(err, services.ErrCannotDeleteOwner):
			return forbidden(c, err)
		case errors.Is(err, services.ErrUserActiveRequests):
			return badRequest(c, err)
		}
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"message": "User deleted"})
}
