package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/littlerefugees/shelter-backend/internal/models"
	"github.com/littlerefugees/shelter-backend/internal/storage"
	"gorm.io/gorm"
)

const (
	maxPhotosPerAnimal = 5
	maxPhotoSize       = 5 << 20
)

var (
	ErrPhotoNotFound     = errors.New("photo not found")
	ErrPhotoWrongAnimal  = errors.New("photo does not belong to this animal")
	ErrNoFiles           = errors.New("no files uploaded")
	ErrTooManyPhotos     = errors.New("an animal can have at most 5 photos")
	ErrUnsupportedFormat = errors.New("only jpg, jpeg, png and webp images are accepted")
	ErrPhotoTooLarge     = errors.New("each photo must be 5MB or smaller")
	ErrPhotoURLRequired  = errors.New("photo url is required")
)

var allowedPhotoExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// PhotoService manages animal photos: uploads into object storage, external
// URL attachments and removal on both sides.
type PhotoService struct {
	db    *gorm.DB
	store storage.ObjectStore
}

func NewPhotoService(db *gorm.DB, store storage.ObjectStore) *PhotoService {
	return &PhotoService{db: db, store: store}
}

// Upload stores the files for an animal of the caller's shelter. The cap of
// 5 photos counts existing plus incoming; format and size are checked per
// file before any upload starts. Uploads run sequentially, so an upstream
// failure can leave earlier files attached.
func (s *PhotoService) Upload(ctx context.Context, shelterID, animalID uuid.UUID, files []*multipart.FileHeader) ([]models.Photo, error) {
	animal, err := s.loadAnimal(shelterID, animalID)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	var existing int64
	if err := s.db.Model(&models.Photo{}).Where("animal_id = ?", animal.ID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to count photos: %w", err)
	}
	if existing+int64(len(files)) > maxPhotosPerAnimal {
		return nil, ErrTooManyPhotos
	}

	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if _, ok := allowedPhotoExt[ext]; !ok {
			return nil, ErrUnsupportedFormat
		}
		if file.Size > maxPhotoSize {
			return nil, ErrPhotoTooLarge
		}
	}

	var photos []models.Photo
	for _, file := range files {
		photo, err := s.uploadOne(ctx, animal.ID, file)
		if err != nil {
			return nil, err
		}
		photos = append(photos, *photo)
	}
	return photos, nil
}

func (s *PhotoService) uploadOne(ctx context.Context, animalID uuid.UUID, file *multipart.FileHeader) (*models.Photo, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := animalPrefix(animalID) + uuid.New().String() + ext

	url, err := s.store.Put(ctx, key, src, file.Size, allowedPhotoExt[ext])
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}

	photo := models.Photo{
		ID:       uuid.New(),
		AnimalID: animalID,
		URL:      url,
		PublicID: &key,
	}
	if err := s.db.Create(&photo).Error; err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}
	return &photo, nil
}

// CreateFromURL attaches an externally hosted image to the animal. The cap
// applies the same as for uploads; nothing is stored on our side.
func (s *PhotoService) CreateFromURL(shelterID, animalID uuid.UUID, url string) (*models.Photo, error) {
	if url == "" {
		return nil, ErrPhotoURLRequired
	}

	animal, err := s.loadAnimal(shelterID, animalID)
	if err != nil {
		return nil, err
	}

	var existing int64
	if err := s.db.Model(&models.Photo{}).Where("animal_id = ?", animal.ID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to count photos: %w", err)
	}
	if existing >= maxPhotosPerAnimal {
		return nil, ErrTooManyPhotos
	}

	photo := models.Photo{
		ID:       uuid.New(),
		AnimalID: animal.ID,
		URL:      url,
	}
	if err := s.db.Create(&photo).Error; err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}
	return &photo, nil
}

// ListByAnimal returns an animal's photos for public browsing.
func (s *PhotoService) ListByAnimal(animalID uuid.UUID) ([]models.Photo, error) {
	var animal models.Animal
	if err := s.db.First(&animal, "id = ?", animalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnimalNotFound
		}
		return nil, fmt.Errorf("failed to load animal: %w", err)
	}

	var photos []models.Photo
	if err := s.db.Where("animal_id = ?", animalID).Order("created_at asc").
		Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}

// ListForShelter returns an animal's photos for an admin of the owning
// shelter.
func (s *PhotoService) ListForShelter(shelterID, animalID uuid.UUID) ([]models.Photo, error) {
	if _, err := s.loadAnimal(shelterID, animalID); err != nil {
		return nil, err
	}
	return s.ListByAnimal(animalID)
}

// DeleteOne removes a single photo addressed through its animal. The photo
// must actually belong to that animal.
func (s *PhotoService) DeleteOne(ctx context.Context, shelterID, animalID, photoID uuid.UUID) error {
	if _, err := s.loadAnimal(shelterID, animalID); err != nil {
		return err
	}

	var photo models.Photo
	if err := s.db.First(&photo, "id = ?", photoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("failed to load photo: %w", err)
	}
	if photo.AnimalID != animalID {
		return ErrPhotoWrongAnimal
	}

	return s.deletePhoto(ctx, &photo)
}

// DeleteByID removes a photo addressed directly, resolving the owning
// shelter through the animal.
func (s *PhotoService) DeleteByID(ctx context.Context, shelterID, photoID uuid.UUID) error {
	var photo models.Photo
	if err := s.db.First(&photo, "id = ?", photoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("failed to load photo: %w", err)
	}

	if _, err := s.loadAnimal(shelterID, photo.AnimalID); err != nil {
		return err
	}
	return s.deletePhoto(ctx, &photo)
}

// DeleteAll removes every photo of the animal, storage objects first, then
// the rows, then a best-effort sweep of the animal's storage prefix.
func (s *PhotoService) DeleteAll(ctx context.Context, shelterID, animalID uuid.UUID) error {
	if _, err := s.loadAnimal(shelterID, animalID); err != nil {
		return err
	}

	var photos []models.Photo
	if err := s.db.Where("animal_id = ?", animalID).Find(&photos).Error; err != nil {
		return fmt.Errorf("failed to load photos: %w", err)
	}

	for _, photo := range photos {
		if photo.PublicID != nil {
			if err := s.store.Delete(ctx, *photo.PublicID); err != nil {
				return fmt.Errorf("failed to delete stored photo: %w", err)
			}
		}
	}

	if err := s.db.Where("animal_id = ?", animalID).Delete(&models.Photo{}).Error; err != nil {
		return fmt.Errorf("failed to delete photos: %w", err)
	}

	s.store.RemovePrefix(ctx, animalPrefix(animalID))
	return nil
}

func (s *PhotoService) deletePhoto(ctx context.Context, photo *models.Photo) error {
	if photo.PublicID != nil {
		if err := s.store.Delete(ctx, *photo.PublicID); err != nil {
			return fmt.Errorf("failed to delete stored photo: %w", err)
		}
	}
	if err := s.db.Delete(photo).Error; err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

func (s *PhotoService) loadAnimal(shelterID, animalID uuid.UUID) (*models.Animal, error) {
	var animal models.Animal
	if err := s.db.First(&animal, "id = ?", animalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnimalNotFound
		}
		return nil, fmt.Errorf("failed to load animal: %w", err)
	}
	if animal.ShelterID != shelterID {
		return nil, ErrAnimalWrongShelter
	}
	return &animal, nil
}
