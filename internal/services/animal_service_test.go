package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/littlerefugees/shelter-backend/internal/dto"
	"github.com/littlerefugees/shelter-backend/internal/models"
)

func TestCreateAnimalRequiredFields(t *testing.T) {
	db := testDB(t)
	svc := NewAnimalService(db, &fakeStore{})
	shelter := seedShelter(t, db, "paws")

	_, err := svc.Create(shelter.ID, &dto.CreateAnimalRequest{Name: "Rex"})
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("err = %v, want ErrMissingFields", err)
	}

	animal, err := svc.Create(shelter.ID, &dto.CreateAnimalRequest{
		Name: "Rex", Species: "dog", Breed: "mixed", Gender: "male",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if animal.Adopted {
		t.Error("new animals start not adopted")
	}
}

func TestListPublicExcludesAdopted(t *testing.T) {
	db := testDB(t)
	svc := NewAnimalService(db, &fakeStore{})
	shelter := seedShelter(t, db, "paws")

	seedAnimal(t, db, shelter.ID, "Rex", false)
	seedAnimal(t, db, shelter.ID, "Luna", true)

	adopted := true
	animals, total, err := svc.ListPublic(AnimalFilter{Adopted: &adopted})
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}
	// The caller's adopted filter is overridden; adopted animals never leak.
	if total != 1 || len(animals) != 1 || animals[0].Name != "Rex" {
		t.Fatalf("got %d animals, want only Rex", len(animals))
	}
}

func TestListFilters(t *testing.T) {
	db := testDB(t)
	svc := NewAnimalService(db, &fakeStore{})
	shelter := seedShelter(t, db, "paws")

	young, old := 1, 9
	rex := seedAnimal(t, db, shelter.ID, "Rex", false)
	db.Model(rex).Updates(map[string]interface{}{"age": young, "species": "dog"})
	luna := seedAnimal(t, db, shelter.ID, "Luna", false)
	db.Model(luna).Updates(map[string]interface{}{"age": old, "species": "cat"})

	animals, total, err := svc.ListPublic(AnimalFilter{Species: []string{"cat"}})
	if err != nil {
		t.Fatalf("ListPublic species: %v", err)
	}
	if total != 1 || animals[0].Name != "Luna" {
		t.Fatalf("species filter returned %d, want Luna only", total)
	}

	min := 5
	animals, total, err = svc.ListPublic(AnimalFilter{AgeMin: &min})
	if err != nil {
		t.Fatalf("ListPublic age: %v", err)
	}
	if total != 1 || animals[0].Name != "Luna" {
		t.Fatalf("age filter returned %d, want Luna only", total)
	}

	_, total, err = svc.ListPublic(AnimalFilter{Name: "REX"})
	if err != nil {
		t.Fatalf("ListPublic name: %v", err)
	}
	if total != 1 {
		t.Fatalf("name filter should match case-insensitively, total = %d", total)
	}
}

func TestListPublicShelterFilter(t *testing.T) {
	db := testDB(t)
	svc := NewAnimalService(db, &fakeStore{})
	paws := seedShelter(t, db, "paws")
	claws := seedShelter(t, db, "claws")

	seedAnimal(t, db, paws.ID, "Rex", false)
	seedAnimal(t, db, claws.ID, "Ghost", false)

	animals, total, err := svc.ListPublic(AnimalFilter{ShelterID: &claws.ID})
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}
	if total != 1 || len(animals) != 1 || animals[0].Name != "Ghost" {
		t.Fatalf("shelter filter returned %d animals, want only Ghost", len(animals))
	}
}

func TestListForShelterScopes(t *testing.T) {
	db := testDB(t)
	svc := NewAnimalService(db, &fakeStore{})
	mine := seedShelter(t, db, "paws")
	other := seedShelter(t, db, "claws")

	seedAnimal(t, db, mine.ID, "Rex", false)
	seedAnimal(t, db, mine.ID, "Luna", true)
	seedAnimal(t, db, other.ID, "Ghost", false)

	animals, total, err := svc.ListForShelter(mine.ID, AnimalFilter{})
	if err != nil {
		t.Fatalf("ListForShelter: %v", err)
	}
	if total != 2 || len(animals) != 2 {
		t.Fatalf("total = %d, want the shelter's own 2 animals, adopted included", total)
	}
}

func TestGetForShelterCrossTenant(t *testing.T) {
	db := testDB(t)
	svc := NewAnimalService(db, &fakeStore{})
	mine := seedShelter(t, db, "paws")
	other := seedShelter(t, db, "claws")
	animal := seedAnimal(t, db, other.ID, "Ghost", false)

	_, err := svc.GetForShelter(mine.ID, animal.ID)
	if !errors.Is(err, ErrAnimalWrongShelter) {
		t.Fatalf("err = %v, want ErrAnimalWrongShelter", err)
	}
}

func TestUpdateAnimalAdoptedOverride(t *testing.T) {
	db := testDB(t)
	svc := NewAnimalService(db, &fakeStore{})
	shelter := seedShelter(t, db, "paws")
	animal := seedAnimal(t, db, shelter.ID, "Rex", false)

	adopted := true
	updated, err := svc.Update(shelter.ID, animal.ID, &dto.UpdateAnimalRequest{Adopted: &adopted})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Adopted {
		t.Error("direct adopted override should be applied")
	}

	// Partial update: unset fields stay as they are.
	updated, err = svc.Update(shelter.ID, animal.ID, &dto.UpdateAnimalRequest{Name: "Rexy"})
	if err != nil {
		t.Fatalf("Update name: %v", err)
	}
	if updated.Name != "Rexy" || !updated.Adopted {
		t.Errorf("partial update clobbered fields: %+v", updated)
	}
}

func TestDeleteAnimalCascades(t *testing.T) {
	db := testDB(t)
	store := &fakeStore{}
	svc := NewAnimalService(db, store)
	shelter := seedShelter(t, db, "paws")
	animal := seedAnimal(t, db, shelter.ID, "Rex", false)
	user := seedUser(t, db, "user@test.dev", "pw", models.RoleUser, nil, false)
	seedRequest(t, db, user.ID, animal.ID, models.StatusPending)

	key := animalPrefix(animal.ID) + "p1.jpg"
	photo := models.Photo{ID: uuid.New(), AnimalID: animal.ID, URL: "http://x/p1.jpg", PublicID: &key}
	if err := db.Create(&photo).Error; err != nil {
		t.Fatalf("seed photo: %v", err)
	}

	if err := svc.Delete(context.Background(), shelter.ID, animal.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var requests, photos int64
	db.Model(&models.AdoptionRequest{}).Where("animal_id = ?", animal.ID).Count(&requests)
	db.Model(&models.Photo{}).Where("animal_id = ?", animal.ID).Count(&photos)
	if requests != 0 || photos != 0 {
		t.Errorf("leftover rows after delete: requests=%d photos=%d", requests, photos)
	}

	if len(store.prefixes) != 1 || store.prefixes[0] != animalPrefix(animal.ID) {
		t.Errorf("expected storage prefix cleanup, got %v", store.prefixes)
	}
}
