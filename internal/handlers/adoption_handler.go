package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/littlerefugees/shelter-backend/internal/dto"
	"github.com/littlerefugees/shelter-backend/internal/models"
	"github.com/littlerefugees/shelter-backend/internal/services"
)

type AdoptionHandler struct {
	adoptionService *services.AdoptionService
}

func NewAdoptionHandler(adoptionService *services.AdoptionService) *AdoptionHandler {
	return &AdoptionHandler{adoptionService: adoptionService}
}

// Create submits a PENDING adoption request for the caller. When the animal
// is already adopted the conflict body includes the animal snapshot.
func (h *AdoptionHandler) Create(c *fiber.Ctx) error {
	ident, err := requireRole(c, models.RoleUser)
	if err != nil {
		return err
	}

	var req dto.CreateAdoptionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	request, err := h.adoptionService.Create(ident.ID, req.AnimalID, req.Message)
	if err != nil {
		var adoptedErr *services.AnimalAdoptedError
		switch {
		case errors.Is(err, services.ErrAnimalNotFound):
			return notFound(c, err)
		case errors.As(err, &adoptedErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": adoptedErr.Error(),
				"animal": dto.AdoptedAnimalInfo{
					Name:        adoptedErr.Animal.Name,
					Species:     adoptedErr.Animal.Species,
					Breed:       adoptedErr.Animal.Breed,
					Description: adoptedErr.Animal.Description,
				},
			})
		case errors.Is(err, services.ErrRequestFieldsMissing),
			errors.Is(err, services.ErrDuplicateRequest):
			return badRequest(c, err)
		}
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Adoption request sent",
		"request": request,
	})
}

func (h *AdoptionHandler) ListMine(c *fiber.Ctx) error {
	ident, err := requireRole(c, models.RoleUser)
	if err != nil {
		return err
	}

	f := services.RequestFilter{
		Statuses:  splitQuery(c.Query("status")),
		Direction: c.Query("direction"),
	}

	requests, err := h.adoptionService.ListMine(ident.ID, f)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"requests": requests})
}

func (h *AdoptionHandler) ListForShelter(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	f := services.ShelterRequestFilter{
		RequestFilter: services.RequestFilter{
			Statuses:  splitQuery(c.Query("status")),
			Direction: c.Query("direction"),
		},
		AnimalName: c.Query("animalName"),
		UserName:   c.Query("userName"),
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 10),
	}

	requests, total, err := h.adoptionService.ListForShelter(*ident.ShelterID, f)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(listBody("requests", requests, total, f.Page, f.Limit))
}

func (h *AdoptionHandler) GetByID(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	request, err := h.adoptionService.GetByID(*ident.ShelterID, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return notFound(c, err)
		case errors.Is(err, services.ErrRequestWrongShelter):
			return forbidden(c, err)
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"request": request})
}

// UpdateStatus moves a request through the PENDING/APPROVED/REJECTED state
// machine.
func (h *AdoptionHandler) UpdateStatus(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateRequestStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	request, err := h.adoptionService.TransitionStatus(*ident.ShelterID, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return notFound(c, err)
		case errors.Is(err, services.ErrRequestWrongShelter):
			return forbidden(c, err)
		case errors.Is(err, services.ErrInvalidStatus),
			errors.Is(err, services.ErrAlreadyApproved):
			return badRequest(c, err)
		}
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Request status updated",
		"request": request,
	})
}

func (h *AdoptionHandler) Delete(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.adoptionService.Delete(*ident.ShelterID, id); err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return notFound(c, err)
		case errors.Is(err, services.ErrRequestWrongShelter):
			return forbidden(c, err)
		}
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Adoption request deleted"})
}
