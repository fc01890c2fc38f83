package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/littlerefugees/shelter-backend/internal/dto"
	"github.com/littlerefugees/shelter-backend/internal/models"
	"github.com/littlerefugees/shelter-backend/internal/services"
)

type ShelterHandler struct {
	shelterService *services.ShelterService
	authService    *services.AuthService
}

func NewShelterHandler(shelterService *services.ShelterService, authService *services.AuthService) *ShelterHandler {
	return &ShelterHandler{shelterService: shelterService, authService: authService}
}

// Create founds a shelter and promotes the caller to its owner admin. The
// response carries a fresh token with the new role and shelter claims.
func (h *ShelterHandler) Create(c *fiber.Ctx) error {
	ident, err := requireRole(c, models.RoleUser)
	if err != nil {
		return err
	}

	var req dto.CreateShelterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	shelter, founder, err := h.shelterService.Create(ident.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return notFound(c, err)
		case errors.Is(err, services.ErrAlreadyInShelter):
			return forbidden(c, err)
		case errors.Is(err, services.ErrShelterFieldsRequired),
			errors.Is(err, services.ErrShelterNameTaken),
			errors.Is(err, services.ErrShelterEmailTaken),
			errors.Is(err, services.ErrShelterAddressTaken),
			errors.Is(err, services.ErrShelterPhoneTaken),
			errors.Is(err, services.ErrEmailTaken):
			return badRequest(c, err)
		}
		return internalError(c, err)
	}

	token, err := h.authService.GenerateToken(founder)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Shelter created",
		"shelter": shelter,
		"token":   token,
		"user":    founder,
	})
}

func (h *ShelterHandler) List(c *fiber.Ctx) error {
	shelters, err := h.shelterService.List()
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"shelters": shelters})
}

func (h *ShelterHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	shelter, err := h.shelterService.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrShelterNotFound) {
			return notFound(c, err)
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"shelter": shelter})
}

// Summary is the admin dashboard view of the caller's shelter.
func (h *ShelterHandler) Summary(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	summary, err := h.shelterService.Summary(ident, id)
	if err != nil {
		if errors.Is(err, services.ErrShelterNotFound) {
			return notFound(c, err)
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"shelter": summary})
}

func (h *ShelterHandler) ListAdmins(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	admins, err := h.shelterService.ListAdmins(*ident.ShelterID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"admins": admins})
}

func (h *ShelterHandler) Update(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateShelterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	shelter, err := h.shelterService.Update(ident, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrShelterNotFound),
			errors.Is(err, services.ErrUserNotFound):
			return notFound(c, err)
		case errors.Is(err, services.ErrNotShelterAdmin),
			errors.Is(err, services.ErrWrongPassword):
			return forbidden(c, err)
		case errors.Is(err, services.ErrPasswordRequired),
			errors.Is(err, services.ErrShelterNameTaken),
			errors.Is(err, services.ErrShelterEmailTaken),
			errors.Is(err, services.ErrShelterAddressTaken),
			errors.Is(err, services.ErrShelterPhoneTaken),
			errors.Is(err, services.ErrEmailTaken):
			return badRequest(c, err)
		}
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Shelter updated",
		"shelter": shelter,
	})
}

// Delete removes the shelter and everything it owns. The caller's admin
// membership disappears with it, so a fresh USER token is returned.
func (h *ShelterHandler) Delete(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.shelterService.Delete(c.UserContext(), ident, id); err != nil {
		switch {
		case errors.Is(err, services.ErrShelterNotFound):
			return notFound(c, err)
		case errors.Is(err, services.ErrNotShelterAdmin),
			errors.Is(err, services.ErrNotOwner):
			return forbidden(c, err)
		}
		return internalError(c, err)
	}

	user, err := h.authService.Me(ident.ID)
	if err != nil {
		return internalError(c, err)
	}
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Shelter deleted",
		"token":   token,
		"user":    user,
	})
}

func (h *ShelterHandler) AddAdmin(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}
	if !ident.IsAdminOwner {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Message: "Forbidden: owner only",
		})
	}

	var req dto.AddAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Email == "" {
		return badRequest(c, errors.New("email is required"))
	}

	admin, err := h.shelterService.AddAdmin(ident, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return notFound(c, err)
		case errors.Is(err, services.ErrNotShelterAdmin):
			return forbidden(c, err)
		case errors.Is(err, services.ErrUserInShelter),
			errors.Is(err, services.ErrUserHasActiveRequests):
			return badRequest(c, err)
		}
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Administrator added",
		"admin":   admin,
	})
}

func (h *ShelterHandler) RemoveAdmin(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}
	if !ident.IsAdminOwner {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Message: "Forbidden: owner only",
		})
	}

	var req dto.RemoveAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.shelterService.RemoveAdmin(ident, &req); err != nil {
		switch {
		case errors.Is(err, services.ErrAdminNotFound):
			return notFound(c, err)
		case errors.Is(err, services.ErrNotShelterAdmin),
			errors.Is(err, services.ErrNotYourShelter),
			errors.Is(err, services.ErrNotOwner):
			return forbidden(c, err)
		case errors.Is(err, services.ErrTargetNotAdmin),
			errors.Is(err, services.ErrCannotRemoveSelf),
			errors.Is(err, services.ErrRequestsNeedReassign):
			return badRequest(c, err)
		}
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Administrator removed"})
}
