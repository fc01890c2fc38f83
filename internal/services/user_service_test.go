package services

import (
	"errors"
	"testing"

	"github.com/littlerefugees/shelter-backend/internal/dto"
	"github.com/littlerefugees/shelter-backend/internal/models"
)

func TestUpdateProfile(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)
	user := seedUser(t, db, "user@test.dev", "secret", models.RoleUser, nil, false)

	_, err := svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{FullName: "New Name"})
	if !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("err = %v, want ErrPasswordRequired", err)
	}

	_, err = svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{
		FullName: "New Name", CurrentPassword: "wrong",
	})
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("err = %v, want ErrWrongPassword", err)
	}

	_, err = svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{CurrentPassword: "secret"})
	if !errors.Is(err, ErrNothingToUpdate) {
		t.Fatalf("err = %v, want ErrNothingToUpdate", err)
	}

	updated, err := svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{
		FullName: "New Name", CurrentPassword: "secret",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.FullName != "New Name" {
		t.Errorf("FullName = %q, want New Name", updated.FullName)
	}
}

func TestUpdateProfileEmailUniqueness(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)
	user := seedUser(t, db, "user@test.dev", "secret", models.RoleUser, nil, false)
	seedUser(t, db, "taken@test.dev", "pw", models.RoleUser, nil, false)
	shelter := seedShelter(t, db, "paws")

	_, err := svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{
		Email: "taken@test.dev", CurrentPassword: "secret",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}

	_, err = svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{
		Email: shelter.Email, CurrentPassword: "secret",
	})
	if !errors.Is(err, ErrEmailShelterTaken) {
		t.Fatalf("err = %v, want ErrEmailShelterTaken", err)
	}

	// Re-submitting the current email is treated as no change.
	_, err = svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{
		Email: user.Email, CurrentPassword: "secret",
	})
	if !errors.Is(err, ErrNothingToUpdate) {
		t.Fatalf("err = %v, want ErrNothingToUpdate", err)
	}
}

func TestDeleteAccountGuards(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)
	shelter := seedShelter(t, db, "paws")
	owner := seedUser(t, db, "owner@test.dev", "pw", models.RoleAdmin, &shelter.ID, true)
	admin := seedUser(t, db, "admin@test.dev", "pw", models.RoleAdmin, &shelter.ID, false)

	if err := svc.DeleteAccount(owner.ID, "pw"); !errors.Is(err, ErrOwnerCannotLeave) {
		t.Fatalf("err = %v, want ErrOwnerCannotLeave", err)
	}
	if err := svc.DeleteAccount(admin.ID, "pw"); !errors.Is(err, ErrAdminCannotLeave) {
		t.Fatalf("err = %v, want ErrAdminCannotLeave", err)
	}

	user := seedUser(t, db, "user@test.dev", "pw", models.RoleUser, nil, false)
	animal := seedAnimal(t, db, shelter.ID, "Rex", false)

	// Even a rejected request pins the account.
	seedRequest(t, db, user.ID, animal.ID, models.StatusRejected)
	if err := svc.DeleteAccount(user.ID, "pw"); !errors.Is(err, ErrUserHasRequests) {
		t.Fatalf("err = %v, want ErrUserHasRequests", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)
	user := seedUser(t, db, "user@test.dev", "pw", models.RoleUser, nil, false)

	if err := svc.DeleteAccount(user.ID, "wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("err = %v, want ErrWrongPassword", err)
	}
	if err := svc.DeleteAccount(user.ID, "pw"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	var count int64
	db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Error("user should be deleted")
	}
}

func TestDeleteByOwner(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)
	shelter := seedShelter(t, db, "paws")
	owner := seedUser(t, db, "owner@test.dev", "pw", models.RoleAdmin, &shelter.ID, true)
	admin := seedUser(t, db, "admin@test.dev", "pw", models.RoleAdmin, &shelter.ID, false)
	animal := seedAnimal(t, db, shelter.ID, "Rex", false)
	requester := seedUser(t, db, "req@test.dev", "pw", models.RoleUser, nil, false)

	// Requests the target decided stay, detached from the deleted account.
	decided := seedRequest(t, db, requester.ID, animal.ID, models.StatusRejected)
	if err := db.Model(decided).Update("admin_id", admin.ID).Error; err != nil {
		t.Fatalf("assign request: %v", err)
	}

	if err := svc.DeleteByOwner(identityOf(owner), admin.ID); err != nil {
		t.Fatalf("DeleteByOwner: %v", err)
	}

	var reloaded models.AdoptionRequest
	if err := db.First(&reloaded, "id = ?", decided.ID).Error; err != nil {
		t.Fatalf("reload request: %v", err)
	}
	if reloaded.AdminID != nil {
		t.Error("request should be detached from the deleted admin")
	}
}

func TestDeleteByOwnerGuards(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)
	shelter := seedShelter(t, db, "paws")
	foreign := seedShelter(t, db, "claws")
	owner := seedUser(t, db, "owner@test.dev", "pw", models.RoleAdmin, &shelter.ID, true)
	outsider := seedUser(t, db, "out@test.dev", "pw", models.RoleAdmin, &foreign.ID, false)
	coOwner := seedUser(t, db, "co@test.dev", "pw", models.RoleAdmin, &shelter.ID, true)

	if err := svc.DeleteByOwner(identityOf(owner), outsider.ID); !errors.Is(err, ErrUserOutsideShelter) {
		t.Fatalf("err = %v, want ErrUserOutsideShelter", err)
	}
	if err := svc.DeleteByOwner(identityOf(owner), coOwner.ID); !errors.Is(err, ErrCannotDeleteOwner) {
		t.Fatalf("err = %v, want ErrCannotDeleteOwner", err)
	}
}
