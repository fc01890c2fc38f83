package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/littlerefugees/shelter-backend/internal/dto"
	"github.com/littlerefugees/shelter-backend/internal/services"
)

type PhotoHandler struct {
	photoService *services.PhotoService
}

func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// Upload receives multipart files under the "photos" field and stores them
// for the addressed animal.
func (h *PhotoHandler) Upload(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	animalID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, errors.New("multipart form expected"))
	}
	files := form.File["photos"]

	photos, err := h.photoService.Upload(c.UserContext(), *ident.ShelterID, animalID, files)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Photos uploaded",
		"photos":  photos,
	})
}

// CreateFromURL attaches an externally hosted image by URL.
func (h *PhotoHandler) CreateFromURL(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	var req dto.CreatePhotoRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	photo, err := h.photoService.CreateFromURL(*ident.ShelterID, req.AnimalID, req.URL)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Photo added",
		"photo":   photo,
	})
}

func (h *PhotoHandler) ListByAnimal(c *fiber.Ctx) error {
	if _, err := identity(c); err != nil {
		return err
	}

	animalID, err := parseUUIDParam(c, "animalId")
	if err != nil {
		return err
	}

	photos, err := h.photoService.ListByAnimal(animalID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"photos": photos})
}

func (h *PhotoHandler) ListForShelter(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	animalID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	photos, err := h.photoService.ListForShelter(*ident.ShelterID, animalID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"photos": photos})
}

func (h *PhotoHandler) DeleteOne(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	animalID, err := parseUUIDParam(c, "animalId")
	if err != nil {
		return err
	}
	photoID, err := parseUUIDParam(c, "photoId")
	if err != nil {
		return err
	}

	if err := h.photoService.DeleteOne(c.UserContext(), *ident.ShelterID, animalID, photoID); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Photo deleted"})
}

func (h *PhotoHandler) DeleteByID(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	photoID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.photoService.DeleteByID(c.UserContext(), *ident.ShelterID, photoID); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Photo deleted"})
}

func (h *PhotoHandler) DeleteAll(c *fiber.Ctx) error {
	ident, err := requireAdmin(c)
	if err != nil {
		return err
	}

	animalID, err := parseUUIDParam(c, "animalId")
	if err != nil {
		return err
	}

	if err := h.photoService.DeleteAll(c.UserContext(), *ident.ShelterID, animalID); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "All photos deleted"})
}

func (h *PhotoHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrAnimalNotFound),
		errors.Is(err, services.ErrPhotoNotFound):
		return notFound(c, err)
	case errors.Is(err, services.ErrAnimalWrongShelter):
		return forbidden(c, err)
	case errors.Is(err, services.ErrNoFiles),
		errors.Is(err, services.ErrTooManyPhotos),
		errors.Is(err, services.ErrUnsupportedFormat),
		errors.Is(err, services.ErrPhotoTooLarge),
		errors.Is(err, services.ErrPhotoURLRequired),
		errors.Is(err, services.ErrPhotoWrongAnimal):
		return badRequest(c, err)
	}
	return internalError(c, err)
}
