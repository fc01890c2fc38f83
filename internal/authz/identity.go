package authz

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrNoIdentity = errors.New("no authenticated identity in context")

// Identity is the caller's decoded credential, evaluated per call by the
// role, tenant and ownership gates. ShelterID is nil for unaffiliated users.
type Identity struct {
	ID                  uuid.UUID
	Email               string
	Role                string
	IsAdminOwner        bool
	FirstLoginCompleted bool
	ShelterID           *uuid.UUID
}

// SameShelter reports whether the caller belongs to the given shelter.
func (i Identity) SameShelter(shelterID uuid.UUID) bool {
	return i.ShelterID != nil && *i.ShelterID == shelterID
}

// FromContext extracts the caller identity from the verified JWT that the
// auth middleware stored in Fiber locals.
func FromContext(c *fiber.Ctx) (Identity, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Identity{}, ErrNoIdentity
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrNoIdentity
	}

	return FromClaims(claims)
}

// FromClaims builds an Identity from raw JWT claims.
func FromClaims(claims jwt.MapClaims) (Identity, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return Identity{}, errors.New("missing sub claim")
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return Identity{}, errors.New("malformed sub claim")
	}

	ident := Identity{ID: id}
	ident.Email, _ = claims["email"].(string)
	ident.Role, _ = claims["role"].(string)
	ident.IsAdminOwner, _ = claims["is_admin_owner"].(bool)
	ident.FirstLoginCompleted, _ = claims["first_login_completed"].(bool)

	if raw, ok := claims["shelter_id"].(string); ok && raw != "" {
		shelterID, err := uuid.Parse(raw)
		if err != nil {
			return Identity{}, errors.New("malformed shelter_id claim")
		}
		ident.ShelterID = &shelterID
	}

	return ident, nil
}
