package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/google/uuid"
	"github.com/littlerefugees/shelter-backend/internal/models"
)

func TestUploadPhotos(t *testing.T) {
	db := testDB(t)
	store := &fakeStore{}
	svc := NewPhotoService(db, store)
	shelter := seedShelter(t, db, "paws")
	animal := seedAnimal(t, db, shelter.ID, "Rex", false)

	files := []*multipart.FileHeader{
		makeFileHeader(t, "front.jpg", []byte("jpegdata")),
		makeFileHeader(t, "side.png", []byte("pngdata")),
	}

	photos, err := svc.Upload(context.Background(), shelter.ID, animal.ID, files)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(photos) != 2 || len(store.puts) != 2 {
		t.Fatalf("uploaded %d photos, stored %d objects, want 2/2", len(photos), len(store.puts))
	}
	for _, photo := range photos {
		if photo.PublicID == nil {
			t.Error("uploaded photos should carry their storage key")
		}
		if photo.URL == "" {
			t.Error("uploaded photos should carry the public URL")
		}
	}
}

func TestUploadPhotoValidation(t *testing.T) {
	db := testDB(t)
	svc := NewPhotoService(db, &fakeStore{})
	shelter := seedShelter(t, db, "paws")
	animal := seedAnimal(t, db, shelter.ID, "Rex", false)

	_, err := svc.Upload(context.Background(), shelter.ID, animal.ID, nil)
	if !errors.Is(err, ErrNoFiles) {
		t.Fatalf("err = %v, want ErrNoFiles", err)
	}

	gif := []*multipart.FileHeader{makeFileHeader(t, "anim.gif", []byte("gifdata"))}
	if _, err := svc.Upload(context.Background(), shelter.ID, animal.ID, gif); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}

	big := makeFileHeader(t, "big.jpg", []byte("x"))
	big.Size = maxPhotoSize + 1
	if _, err := svc.Upload(context.Background(), shelter.ID, animal.ID, []*multipart.FileHeader{big}); !errors.Is(err, ErrPhotoTooLarge) {
		t.Fatalf("err = %v, want ErrPhotoTooLarge", err)
	}
}

func TestUploadPhotoCap(t *testing.T) {
	db := testDB(t)
	svc := NewPhotoService(db, &fakeStore{})
	shelter := seedShelter(t, db, "paws")
	animal := seedAnimal(t, db, shelter.ID, "Rex", false)

	for i := 0; i < 4; i++ {
		photo := models.Photo{ID: uuid.New(), AnimalID: animal.ID, URL: "http://x/p.jpg"}
		if err := db.Create(&photo).Error; err != nil {
			t.Fatalf("seed photo: %v", err)
		}
	}

	// 4 existing + 2 incoming exceeds the cap of 5.
	files := []*multipart.FileHeader{
		makeFileHeader(t, "a.jpg", []byte("a")),
		makeFileHeader(t, "b.jpg", []byte("b")),
	}
	if _, err := svc.Upload(context.Background(), shelter.ID, animal.ID, files); !errors.Is(err, ErrTooManyPhotos) {
		t.Fatalf("err = %v, want ErrTooManyPhotos", err)
	}

	// A single file still fits.
	if _, err := svc.Upload(context.Background(), shelter.ID, animal.ID, files[:1]); err != nil {
		t.Fatalf("Upload fifth photo: %v", err)
	}

	// CreateFromURL is bound by the same cap.
	if _, err := svc.CreateFromURL(shelter.ID, animal.ID, "http://x/extra.jpg"); !errors.Is(err, ErrTooManyPhotos) {
		t.Fatalf("err = %v, want ErrTooManyPhotos", err)
	}
}

func TestCreateFromURL(t *testing.T) {
	db := testDB(t)
	svc := NewPhotoService(db, &fakeStore{})
	shelter := seedShelter(t, db, "paws")
	foreign := seedShelter(t, db, "claws")
	animal := seedAnimal(t, db, shelter.ID, "Rex", false)

	if _, err := svc.CreateFromURL(shelter.ID, animal.ID, ""); !errors.Is(err, ErrPhotoURLRequired) {
		t.Fatalf("err = %v, want ErrPhotoURLRequired", err)
	}

	if _, err := svc.CreateFromURL(foreign.ID, animal.ID, "http://x/p.jpg"); !errors.Is(err, ErrAnimalWrongShelter) {
		t.Fatalf("err = %v, want ErrAnimalWrongShelter", err)
	}

	photo, err := svc.CreateFromURL(shelter.ID, animal.ID, "http://x/p.jpg")
	if err != nil {
		t.Fatalf("CreateFromURL: %v", err)
	}
	if photo.PublicID != nil {
		t.Error("external photos have no storage key")
	}
}

func TestDeleteOnePhoto(t *testing.T) {
	db := testDB(t)
	store := &fakeStore{}
	svc := NewPhotoService(db, store)
	shelter := seedShelter(t, db, "paws")
	animal := seedAnimal(t, db, shelter.ID, "Rex", false)
	stranger := seedAnimal(t, db, shelter.ID, "Luna", false)

	key := animalPrefix(animal.ID) + "p1.jpg"
	photo := models.Photo{ID: uuid.New(), AnimalID: animal.ID, URL: "http://x/p1.jpg", PublicID: &key}
	if err := db.Create(&photo).Error; err != nil {
		t.Fatalf("seed photo: %v", err)
	}

	// The photo must belong to the addressed animal.
	err := svc.DeleteOne(context.Background(), shelter.ID, stranger.ID, photo.ID)
	if !errors.Is(err, ErrPhotoWrongAnimal) {
		t.Fatalf("err = %v, want ErrPhotoWrongAnimal", err)
	}

	if err := svc.DeleteOne(context.Background(), shelter.ID, animal.ID, photo.ID); err != nil {
		t.Fatalf("DeleteOne: %v", err)
	}
	if len(store.deletes) != 1 || store.deletes[0] != key {
		t.Errorf("expected storage delete of %s, got %v", key, store.deletes)
	}

	var count int64
	db.Model(&models.Photo{}).Where("id = ?", photo.ID).Count(&count)
	if count != 0 {
		t.Error("photo row should be gone")
	}
}

func TestDeleteAllPhotos(t *testing.T) {
	db := testDB(t)
	store := &fakeStore{}
	svc := NewPhotoService(db, store)
	shelter := seedShelter(t, db, "paws")
	animal := seedAnimal(t, db, shelter.ID, "Rex", false)

	key := animalPrefix(animal.ID) + "p1.jpg"
	stored := models.Photo{ID: uuid.New(), AnimalID: animal.ID, URL: "http://x/p1.jpg", PublicID: &key}
	external := models.Photo{ID: uuid.New(), AnimalID: animal.ID, URL: "http://elsewhere/p2.jpg"}
	if err := db.Create(&stored).Error; err != nil {
		t.Fatalf("seed stored photo: %v", err)
	}
	if err := db.Create(&external).Error; err != nil {
		t.Fatalf("seed external photo: %v", err)
	}

	if err := svc.DeleteAll(context.Background(), shelter.ID, animal.ID); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}

	var count int64
	db.Model(&models.Photo{}).Where("animal_id = ?", animal.ID).Count(&count)
	if count != 0 {
		t.Error("all photo rows should be gone")
	}
	if len(store.deletes) != 1 {
		t.Errorf("only stored photos hit the object store, got %v", store.deletes)
	}
	if len(store.prefixes) != 1 {
		t.Errorf("expected the prefix sweep, got %v", store.prefixes)
	}
}
