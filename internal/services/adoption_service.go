package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/littlerefugees/shelter-backend/internal/mailer"
	"github.com/littlerefugees/shelter-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrRequestFieldsMissing = errors.New("animal id and message are required")
	ErrRequestNotFound      = errors.New("adoption request not found")
	ErrDuplicateRequest     = errors.New("you have already sent a request for this animal")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrRequestWrongShelter  = errors.New("request belongs to another shelter")
	ErrAlreadyApproved      = errors.New("this animal already has an approved request")
)

// AnimalAdoptedError signals a request against an already adopted animal and
// carries the animal snapshot the client shows alongside the conflict.
type AnimalAdoptedError struct {
	Animal *models.Animal
}

func (e *AnimalAdoptedError) Error() string {
	return "this animal has already been adopted"
}

// RequestFilter narrows a request listing. Statuses are matched exactly
// against the status enum; Direction orders by creation time, newest first
// by default.
type RequestFilter struct {
	Statuses  []string
	Direction string
}

// ShelterRequestFilter adds the shelter dashboard's substring filters and
// pagination on top of RequestFilter.
type ShelterRequestFilter struct {
	RequestFilter
	AnimalName string
	UserName   string
	Page       int
	Limit      int
}

// AdoptionService is the request engine: creation preconditions, the
// PENDING/APPROVED/REJECTED state machine and its coupling to
// Animal.Adopted.
type AdoptionService struct {
	db   *gorm.DB
	mail mailer.Sender
}

func NewAdoptionService(db *gorm.DB, mail mailer.Sender) *AdoptionService {
	return &AdoptionService{db: db, mail: mail}
}

// Create registers a PENDING request for the animal on behalf of the user.
// The animal must exist, must not be adopted, and the user must not already
// have a request for it.
func (s *AdoptionService) Create(userID uuid.UUID, animalID uuid.UUID, message string) (*models.AdoptionRequest, error) {
	if animalID == uuid.Nil || message == "" {
		return nil, ErrRequestFieldsMissing
	}

	var animal models.Animal
	if err := s.db.First(&animal, "id = ?", animalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnimalNotFound
		}
		return nil, fmt.Errorf("failed to load animal: %w", err)
	}

	if animal.Adopted {
		return nil, &AnimalAdoptedError{Animal: &animal}
	}

	var existing models.AdoptionRequest
	err := s.db.Where("user_id = ? AND animal_id = ?", userID, animalID).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateRequest
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing requests: %w", err)
	}

	request := models.AdoptionRequest{
		ID:       uuid.New(),
		UserID:   userID,
		AnimalID: animalID,
		Status:   models.StatusPending,
		Message:  message,
	}
	if err := s.db.Create(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to create adoption request: %w", err)
	}

	if err := s.db.Preload("Animal").Preload("User").First(&request, "id = ?", request.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload adoption request: %w", err)
	}
	return &request, nil
}

// ListMine returns the user's own requests with the animal, its photos and
// the owning shelter's contact data preloaded.
func (s *AdoptionService) ListMine(userID uuid.UUID, f RequestFilter) ([]models.AdoptionRequest, error) {
	q := s.db.Where("user_id = ?", userID)
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}

	var requests []models.AdoptionRequest
	err := q.Order("created_at " + sortDirection(f.Direction)).
		Preload("Animal.Photos").
		Preload("Animal.Shelter").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list adoption requests: %w", err)
	}
	return requests, nil
}

// ListForShelter returns the paginated requests targeting the shelter's
// animals. AnimalName and UserName are case-insensitive substring matches.
func (s *AdoptionService) ListForShelter(shelterID uuid.UUID, f ShelterRequestFilter) ([]models.AdoptionRequest, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	q := s.db.Model(&models.AdoptionRequest{}).
		Joins("JOIN animals ON animals.id = adoption_requests.animal_id").
		Joins("JOIN users ON users.id = adoption_requests.user_id").
		Where("animals.shelter_id = ?", shelterID)

	if len(f.Statuses) > 0 {
		q = q.Where("adoption_requests.status IN ?", f.Statuses)
	}
	if f.AnimalName != "" {
		q = q.Where("LOWER(animals.name) LIKE ?", "%"+strings.ToLower(f.AnimalName)+"%")
	}
	if f.UserName != "" {
		q = q.Where("LOWER(users.full_name) LIKE ?", "%"+strings.ToLower(f.UserName)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count adoption requests: %w", err)
	}

	var requests []models.AdoptionRequest
	err := q.Select("adoption_requests.*").
		Order("adoption_requests.created_at " + sortDirection(f.Direction)).
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Preload("Animal.Photos").
		Preload("User").
		Find(&requests).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shelter requests: %w", err)
	}
	return requests, total, nil
}

// GetByID returns a single request for an admin of the owning shelter.
// Cross-tenant access is refused, not hidden: the caller learns the request
// exists but may not see it.
func (s *AdoptionService) GetByID(shelterID uuid.UUID, id uuid.UUID) (*models.AdoptionRequest, error) {
	var request models.AdoptionRequest
	err := s.db.Preload("Animal.Photos").Preload("User").First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load adoption request: %w", err)
	}

	if request.Animal == nil || request.Animal.ShelterID != shelterID {
		return nil, ErrRequestWrongShelter
	}
	return &request, nil
}

// TransitionStatus moves a request between PENDING, APPROVED and REJECTED
// and keeps the animal's adopted flag in step, atomically:
//
//   - APPROVED requires that no other request for the animal is APPROVED
//     (approved-request exclusivity); on success the animal is marked
//     adopted.
//   - PENDING and REJECTED always clear the adopted flag, regardless of any
//     other request's state.
//
// When the exclusivity check fails nothing is written.
func (s *AdoptionService) TransitionStatus(shelterID uuid.UUID, id uuid.UUID, status string) (*models.AdoptionRequest, error) {
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	var request models.AdoptionRequest
	if err := s.db.Preload("Animal").First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load adoption request: %w", err)
	}

	if request.Animal == nil || request.Animal.ShelterID != shelterID {
		return nil, ErrRequestWrongShelter
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if status == models.StatusApproved {
			var other models.AdoptionRequest
			err := tx.Where("animal_id = ? AND status = ? AND id <> ?",
				request.AnimalID, models.StatusApproved, request.ID).First(&other).Error
			if err == nil {
				return ErrAlreadyApproved
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to check approved requests: %w", err)
			}
		}

		if err := tx.Model(&models.AdoptionRequest{}).Where("id = ?", request.ID).
			Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}

		adopted := status == models.StatusApproved
		if err := tx.Model(&models.Animal{}).Where("id = ?", request.AnimalID).
			Update("adopted", adopted).Error; err != nil {
			return fmt.Errorf("failed to update animal adopted flag: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	request.Status = status
	request.Animal.Adopted = status == models.StatusApproved

	if status != models.StatusPending {
		s.notifyDecision(&request)
	}
	return &request, nil
}

// Delete removes a request row for an admin of the owning shelter. The
// animal's adopted flag is left as-is.
func (s *AdoptionService) Delete(shelterID uuid.UUID, id uuid.UUID) error {
	var request models.AdoptionRequest
	if err := s.db.Preload("Animal").First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return fmt.Errorf("failed to load adoption request: %w", err)
	}

	if request.Animal == nil || request.Animal.ShelterID != shelterID {
		return ErrRequestWrongShelter
	}

	if err := s.db.Delete(&models.AdoptionRequest{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete adoption request: %w", err)
	}
	return nil
}

// notifyDecision emails the requester about an approval or rejection.
// Best-effort: delivery failures are logged, never surfaced.
func (s *AdoptionService) notifyDecision(request *models.AdoptionRequest) {
	var user models.User
	if err := s.db.First(&user, "id = ?", request.UserID).Error; err != nil {
		slog.Warn("decision notification skipped, requester not found", "request_id", request.ID, "error", err)
		return
	}

	animalName := ""
	if request.Animal != nil {
		animalName = request.Animal.Name
	}

	subject := "Your adoption request was rejected"
	body := fmt.Sprintf("<p>Hello %s,</p><p>Unfortunately your adoption request for <b>%s</b> has been rejected.</p>", user.FullName, animalName)
	if request.Status == models.StatusApproved {
		subject = "Your adoption request was approved"
		body = fmt.Sprintf("<p>Hello %s,</p><p>Good news! Your adoption request for <b>%s</b> has been approved. The shelter will contact you with the next steps.</p>", user.FullName, animalName)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.mail.Send(ctx, user.Email, subject, body); err != nil {
		slog.Warn("decision notification failed", "request_id", request.ID, "error", err)
	}
}

func sortDirection(direction string) string {
	if strings.EqualFold(direction, "asc") {
		return "asc"
	}
	return "desc"
}

// TotalPages computes the page count for a paginated listing.
func TotalPages(total int64, limit int) int {
	if limit < 1 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
