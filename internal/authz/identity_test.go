package authz

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestFromClaims(t *testing.T) {
	userID := uuid.New()
	shelterID := uuid.New()

	ident, err := FromClaims(jwt.MapClaims{
		"sub":                   userID.String(),
		"email":                 "admin@test.dev",
		"role":                  "ADMIN",
		"is_admin_owner":        true,
		"first_login_completed": true,
		"shelter_id":            shelterID.String(),
	})
	if err != nil {
		t.Fatalf("FromClaims: %v", err)
	}
	if ident.ID != userID || ident.Email != "admin@test.dev" || ident.Role != "ADMIN" {
		t.Errorf("identity mismatch: %+v", ident)
	}
	if !ident.IsAdminOwner || !ident.FirstLoginCompleted {
		t.Error("boolean claims should be carried over")
	}
	if !ident.SameShelter(shelterID) {
		t.Error("shelter claim should parse")
	}
	if ident.SameShelter(uuid.New()) {
		t.Error("SameShelter must not match a different shelter")
	}
}

func TestFromClaimsWithoutShelter(t *testing.T) {
	ident, err := FromClaims(jwt.MapClaims{
		"sub":  uuid.New().String(),
		"role": "USER",
	})
	if err != nil {
		t.Fatalf("FromClaims: %v", err)
	}
	if ident.ShelterID != nil {
		t.Error("unaffiliated identities have no shelter")
	}
	if ident.SameShelter(uuid.New()) {
		t.Error("SameShelter must be false without a shelter")
	}
}

func TestFromClaimsRejectsBadSub(t *testing.T) {
	if _, err := FromClaims(jwt.MapClaims{}); err == nil {
		t.Fatal("missing sub should be rejected")
	}
	if _, err := FromClaims(jwt.MapClaims{"sub": "not-a-uuid"}); err == nil {
		t.Fatal("malformed sub should be rejected")
	}
	if _, err := FromClaims(jwt.MapClaims{
		"sub":        uuid.New().String(),
		"shelter_id": "garbage",
	}); err == nil {
		t.Fatal("malformed shelter_id should be rejected")
	}
}
