package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/littlerefugees/shelter-backend/internal/authz"
	"github.com/littlerefugees/shelter-backend/internal/dto"
	"github.com/littlerefugees/shelter-backend/internal/models"
)

// parseUUIDParam reads a path parameter as a UUID; the returned error is the
// already-written 400 response.
func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Invalid " + name + " parameter",
		})
	}
	return id, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: err.Error()})
}

func forbidden(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Message: err.Error()})
}

func notFound(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Message: err.Error()})
}

func internalError(c *fiber.Ctx, err error) error {
	slog.Error("request failed", "path", c.Path(), "method", c.Method(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Message: "Internal server error",
	})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Message: "Invalid request body",
	})
}

// identity resolves the verified caller; the auth middleware guarantees a
// token is present on protected routes, so a miss here is a 401.
func identity(c *fiber.Ctx) (authz.Identity, error) {
	ident, err := authz.FromContext(c)
	if err != nil {
		return authz.Identity{}, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Message: "Unauthorized",
		})
	}
	return ident, nil
}

// requireRole resolves the caller and checks the role gate in one step.
func requireRole(c *fiber.Ctx, role string) (authz.Identity, error) {
	ident, err := identity(c)
	if err != nil {
		return authz.Identity{}, err
	}
	if ident.Role != role {
		return authz.Identity{}, c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Message: "Forbidden: insufficient role",
		})
	}
	return ident, nil
}

// requireAdmin additionally demands a shelter affiliation, which every
// shelter-scoped route needs.
func requireAdmin(c *fiber.Ctx) (authz.Identity, error) {
	ident, err := requireRole(c, models.RoleAdmin)
	if err != nil {
		return authz.Identity{}, err
	}
	if ident.ShelterID == nil {
		return authz.Identity{}, c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Message: "Forbidden: no shelter affiliation",
		})
	}
	return ident, nil
}
