package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/littlerefugees/shelter-backend/internal/dto"
	"github.com/littlerefugees/shelter-backend/internal/services"
)

type AnimalHandler struct {
	animalService *services.AnimalService
}

func NewAnimalHandler(animalService *services.AnimalService) *AnimalHandler {
	return &AnimalHandler{animalService: animalService}
}

func (h *AnimalHandler) Create(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	var req dto.CreateAnimalRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	animal, err := h.animalService.Create(*ident.ShelterID, &req)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			return badRequest(c, err)
		}
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Animal created",
		"animal":  animal,
	})
}

// ListPublic serves the adoption browse view. Adopted animals never appear.
func (h *AnimalHandler) ListPublic(c *fiber.Ctx) error {
	if _, err := identity(c); err != nil {
		return err
	}

	f := animalFilterFromQuery(c)
	animals, total, err := h.animalService.ListPublic(f)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(listBody("animals", animals, total, f.Page, f.Limit))
}

func (h *AnimalHandler) ListForShelter(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	f := animalFilterFromQuery(c)
	if raw := c.Query("adopted"); raw != "" {
		adopted := raw == "true"
		f.Adopted = &adopted
	}

	animals, total, err := h.animalService.ListForShelter(*ident.ShelterID, f)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(listBody("animals", animals, total, f.Page, f.Limit))
}

func (h *AnimalHandler) GetPublic(c *fiber.Ctx) error {
	if _, err := identity(c); err != nil {
		return err
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	animal, err := h.animalService.GetPublic(id)
	if err != nil {
		if errors.Is(err, services.ErrAnimalNotFound) {
			return notFound(c, err)
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"animal": animal})
}

func (h *AnimalHandler) GetForShelter(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	animal, err := h.animalService.GetForShelter(*ident.ShelterID, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAnimalNotFound):
			return notFound(c, err)
		case errors.Is(err, services.ErrAnimalWrongShelter):
			return forbidden(c, err)
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"animal": animal})
}

func (h *AnimalHandler) Update(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateAnimalRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	animal, err := h.animalService.Update(*ident.ShelterID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAnimalNotFound):
			return notFound(c, err)
		case errors.Is(err, services.ErrAnimalWrongShelter):
			return forbidden(c, err)
		}
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Animal updated",
		"animal":  animal,
	})
}

func (h *AnimalHandler) Delete(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.animalService.Delete(c.UserContext(), *ident.ShelterID, id); err != nil {
		switch {
		case errors.Is(err, services.ErrAnimalNotFound):
			return notFound(c, err)
		case errors.Is(err, services.ErrAnimalWrongShelter):
			return forbidden(c, err)
		}
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Animal deleted"})
}

// animalFilterFromQuery decodes the shared listing filters. Multi-value
// filters accept comma-separated lists.
func animalFilterFromQuery(c *fiber.Ctx) services.AnimalFilter {
	f := services.AnimalFilter{
		Name:      c.Query("name"),
		OrderBy:   c.Query("orderBy"),
		Direction: c.Query("direction"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
	}
	f.Species = splitQuery(c.Query("species"))
	f.Breeds = splitQuery(c.Query("breed"))
	f.Genders = splitQuery(c.Query("gender"))

	if raw := c.Query("ageMin"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			f.AgeMin = &v
		}
	}
	if raw := c.Query("ageMax"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			f.AgeMax = &v
		}
	}
	if raw := c.Query("shelterId"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			f.ShelterID = &id
		}
	}
	return f
}

func splitQuery(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func listBody(key string, items interface{}, total int64, page, limit int) fiber.Map {
	return fiber.Map{
		key:          items,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": services.TotalPages(total, limit),
	}
}
