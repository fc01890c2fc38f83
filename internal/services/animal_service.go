package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/littlerefugees/shelter-backend/internal/authz"
	"github.com/littlerefugees/shelter-backend/internal/dto"
	"github.com/littlerefugees/shelter-backend/internal/models"
	"github.com/littlerefugees/shelter-backend/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrAnimalNotFound     = errors.New("animal not found")
	ErrAnimalWrongShelter = errors.New("animal belongs to another shelter")
	ErrMissingFields      = errors.New("name, species, breed and gender are required")
)

// AnimalFilter enumerates the supported listing filters. Zero values leave
// the corresponding predicate out of the query.
type AnimalFilter struct {
	Name      string
	Species   []string
	Breeds    []string
	Genders   []string
	AgeMin    *int
	AgeMax    *int
	ShelterID *uuid.UUID
	Adopted   *bool
	OrderBy   string
	Direction string
	Page      int
	Limit     int
}

type AnimalService struct {
	db    *gorm.DB
	store storage.ObjectStore
}

func NewAnimalService(db *gorm.DB, store storage.ObjectStore) *AnimalService {
	return &AnimalService{db: db, store: store}
}

func (s *AnimalService) Create(shelterID uuid.UUID, req *dto.CreateAnimalRequest) (*models.Animal, error) {
	if req.Name == "" || req.Species == "" || req.Breed == "" || req.Gender == "" {
		return nil, ErrMissingFields
	}

	animal := models.Animal{
		ID:          uuid.New(),
		ShelterID:   shelterID,
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		Gender:      req.Gender,
		Age:         req.Age,
		Description: req.Description,
	}
	if err := s.db.Create(&animal).Error; err != nil {
		return nil, fmt.Errorf("failed to create animal: %w", err)
	}
	return &animal, nil
}

// ListPublic returns adoptable animals for browsing users. Adopted animals
// are always excluded.
func (s *AnimalService) ListPublic(f AnimalFilter) ([]models.Animal, int64, error) {
	adopted := false
	f.Adopted = &adopted
	return s.list(s.db.Model(&models.Animal{}), f, "asc")
}

// ListForShelter returns the shelter's own roster, adopted animals included
// unless filtered.
func (s *AnimalService) ListForShelter(shelterID uuid.UUID, f AnimalFilter) ([]models.Animal, int64, error) {
	q := s.db.Model(&models.Animal{}).Scopes(authz.ForShelter(shelterID))
	f.ShelterID = nil
	return s.list(q, f, "desc")
}

func (s *AnimalService) list(q *gorm.DB, f AnimalFilter, defaultDirection string) ([]models.Animal, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Name)+"%")
	}
	if len(f.Species) > 0 {
		q = q.Where("species IN ?", f.Species)
	}
	if len(f.Breeds) > 0 {
		q = q.Where("breed IN ?", f.Breeds)
	}
	if len(f.Genders) > 0 {
		q = q.Where("gender IN ?", f.Genders)
	}
	if f.AgeMin != nil {
		q = q.Where("age >= ?", *f.AgeMin)
	}
	if f.AgeMax != nil {
		q = q.Where("age <= ?", *f.AgeMax)
	}
	if f.ShelterID != nil {
		q = q.Where("shelter_id = ?", *f.ShelterID)
	}
	if f.Adopted != nil {
		q = q.Where("adopted = ?", *f.Adopted)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count animals: %w", err)
	}

	direction := f.Direction
	if direction == "" {
		direction = defaultDirection
	}

	var animals []models.Animal
	err := q.Order(animalSortColumn(f.OrderBy) + " " + sortDirection(direction)).
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Preload("Photos").
		Preload("Shelter").
		Find(&animals).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list animals: %w", err)
	}
	return animals, total, nil
}

func (s *AnimalService) GetPublic(id uuid.UUID) (*models.Animal, error) {
	var animal models.Animal
	err := s.db.Preload("Photos").Preload("Shelter").First(&animal, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnimalNotFound
		}
		return nil, fmt.Errorf("failed to load animal: %w", err)
	}
	return &animal, nil
}

// GetForShelter loads an animal for an admin; cross-tenant access is
// refused after the existence check, never reported as not-found.
func (s *AnimalService) GetForShelter(shelterID uuid.UUID, id uuid.UUID) (*models.Animal, error) {
	var animal models.Animal
	err := s.db.Preload("Photos").First(&animal, "id = ?", id).Error
	if err != nil {
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

// Update applies a partial edit. Adopted may be overridden directly here,
// outside the request-status coupling.
func (s *AnimalService) Update(shelterID uuid.UUID, id uuid.UUID, req *dto.UpdateAnimalRequest) (*models.Animal, error) {
	animal, err := s.GetForShelter(shelterID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Species != "" {
		updates["species"] = req.Species
	}
	if req.Breed != "" {
		updates["breed"] = req.Breed
	}
	if req.Gender != "" {
		updates["gender"] = req.Gender
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Age != nil {
		updates["age"] = *req.Age
	}
	if req.Adopted != nil {
		updates["adopted"] = *req.Adopted
	}

	if len(updates) > 0 {
		if err := s.db.Model(animal).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update animal: %w", err)
		}
	}

	if err := s.db.Preload("Photos").First(animal, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload animal: %w", err)
	}
	return animal, nil
}

// Delete removes the animal together with its requests and photo rows, then
// cleans up external storage. Storage cleanup is best-effort and runs after
// the database state is consistent.
func (s *AnimalService) Delete(ctx context.Context, shelterID uuid.UUID, id uuid.UUID) error {
	animal, err := s.GetForShelter(shelterID, id)
	if err != nil {
		return err
	}

	var photos []models.Photo
	if err := s.db.Where("animal_id = ?", id).Find(&photos).Error; err != nil {
		return fmt.Errorf("failed to load animal photos: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("animal_id = ?", id).Delete(&models.AdoptionRequest{}).Error; err != nil {
			return fmt.Errorf("failed to delete animal requests: %w", err)
		}
		if err := tx.Where("animal_id = ?", id).Delete(&models.Photo{}).Error; err != nil {
			return fmt.Errorf("failed to delete animal photos: %w", err)
		}
		return tx.Delete(animal).Error
	})
	if err != nil {
		return err
	}

	hasStored := false
	for _, photo := range photos {
		if photo.PublicID != nil {
			hasStored = true
			break
		}
	}
	if hasStored {
		s.store.RemovePrefix(ctx, animalPrefix(id))
	}
	return nil
}

func animalPrefix(animalID uuid.UUID) string {
	return "animals/" + animalID.String() + "/"
}

func animalSortColumn(orderBy string) string {
	switch orderBy {
	case "age":
		return "age"
	case "createdAt":
		return "created_at"
	default:
		return "updated_at"
	}
}
