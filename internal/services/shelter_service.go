package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/littlerefugees/shelter-backend/internal/authz"
	"github.com/littlerefugees/shelter-backend/internal/dto"
	"github.com/littlerefugees/shelter-backend/internal/models"
	"github.com/littlerefugees/shelter-backend/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrShelterNotFound       = errors.New("shelter not found")
	ErrShelterFieldsRequired = errors.New("name, email and address are required")
	ErrAlreadyInShelter      = errors.New("you already belong to a shelter")
	ErrShelterNameTaken      = errors.New("a shelter with that name already exists")
	ErrShelterEmailTaken     = errors.New("that email is already assigned to a shelter")
	ErrShelterAddressTaken   = errors.New("that address is already registered by another shelter")
	ErrShelterPhoneTaken     = errors.New("that phone number is already registered")
	ErrNotShelterAdmin       = errors.New("caller is not an admin of this shelter")
	ErrNotOwner              = errors.New("only the shelter owner may do this")
	ErrPasswordRequired      = errors.New("current password is required")
	ErrWrongPassword         = errors.New("current password is incorrect")
	ErrUserInShelter         = errors.New("user already belongs to a shelter")
	ErrUserHasActiveRequests = errors.New("user has outstanding adoption requests")
	ErrAdminNotFound         = errors.New("administrator not found")
	ErrNotYourShelter        = errors.New("this user does not belong to your shelter")
	ErrTargetNotAdmin        = errors.New("user is not an administrator")
	ErrCannotRemoveSelf      = errors.New("the owner cannot remove themselves")
	ErrRequestsNeedReassign  = errors.New("administrator has active requests that must be reassigned first")
)

// ShelterService manages shelters and their admin membership: who founds a
// shelter, who may join as admin and under what conditions an admin leaves.
type ShelterService struct {
	db    *gorm.DB
	store storage.ObjectStore
}

func NewShelterService(db *gorm.DB, store storage.ObjectStore) *ShelterService {
	return &ShelterService{db: db, store: store}
}

// Create founds a shelter for an unaffiliated USER. Name, email, address
// and phone must be free among shelters; the email must also be free among
// users. The founder atomically becomes the shelter's owner admin.
func (s *ShelterService) Create(userID uuid.UUID, req *dto.CreateShelterRequest) (*models.Shelter, *models.User, error) {
	if req.Name == "" || req.Email == "" || req.Address == "" {
		return nil, nil, ErrShelterFieldsRequired
	}

	var caller models.User
	if err := s.db.First(&caller, "id = ?", userID).Error; err != nil {
		return nil, nil, ErrUserNotFound
	}
	if caller.ShelterID != nil {
		return nil, nil, ErrAlreadyInShelter
	}

	if err := s.checkShelterFieldsFree(req.Name, req.Email, req.Address, req.Phone, uuid.Nil); err != nil {
		return nil, nil, err
	}
	var userByEmail models.User
	if err := s.db.Where("email = ?", req.Email).First(&userByEmail).Error; err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("failed to check user email: %w", err)
	}

	shelter := models.Shelter{
		ID:          uuid.New(),
		Name:        req.Name,
		Email:       req.Email,
		Address:     req.Address,
		Phone:       req.Phone,
		Description: req.Description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&shelter).Error; err != nil {
			return fmt.Errorf("failed to create shelter: %w", err)
		}
		return tx.Model(&caller).Updates(map[string]interface{}{
			"role":                  models.RoleAdmin,
			"is_admin_owner":        true,
			"shelter_id":            shelter.ID,
			"first_login_completed": true,
		}).Error
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.db.First(&caller, "id = ?", userID).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to reload founder: %w", err)
	}
	return &shelter, &caller, nil
}

func (s *ShelterService) List() ([]models.Shelter, error) {
	var shelters []models.Shelter
	if err := s.db.Preload("Admins").Preload("Animals").Find(&shelters).Error; err != nil {
		return nil, fmt.Errorf("failed to list shelters: %w", err)
	}
	return shelters, nil
}

func (s *ShelterService) GetByID(id uuid.UUID) (*models.Shelter, error) {
	var shelter models.Shelter
	if err := s.db.Preload("Animals").First(&shelter, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShelterNotFound
		}
		return nil, fmt.Errorf("failed to load shelter: %w", err)
	}
	return &shelter, nil
}

// Summary builds the admin dashboard view of a shelter: profile fields plus
// roster counts and the calling admin's own membership data.
func (s *ShelterService) Summary(actor authz.Identity, id uuid.UUID) (*dto.ShelterSummary, error) {
	var shelter models.Shelter
	if err := s.db.Preload("Admins").Preload("Animals").First(&shelter, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShelterNotFound
		}
		return nil, fmt.Errorf("failed to load shelter: %w", err)
	}

	var fullName string
	var caller models.User
	if err := s.db.First(&caller, "id = ?", actor.ID).Error; err == nil {
		fullName = caller.FullName
	}

	return &dto.ShelterSummary{
		Name:         shelter.Name,
		Email:        shelter.Email,
		Address:      shelter.Address,
		Phone:        shelter.Phone,
		Description:  shelter.Description,
		AnimalsCount: len(shelter.Animals),
		AdminsCount:  len(shelter.Admins),
		CurrentAdmin: dto.CurrentAdmin{
			ID:           actor.ID,
			FullName:     fullName,
			Email:        actor.Email,
			IsAdminOwner: actor.IsAdminOwner,
		},
	}, nil
}

// ListAdmins returns the shelter's admin roster, oldest membership first.
func (s *ShelterService) ListAdmins(shelterID uuid.UUID) ([]models.User, error) {
	var admins []models.User
	err := s.db.Where("shelter_id = ? AND role = ?", shelterID, models.RoleAdmin).
		Order("created_at asc").
		Find(&admins).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shelter admins: %w", err)
	}
	return admins, nil
}

// Update applies a partial edit to the shelter profile. Owner-only, and the
// owner must confirm with their current password.
func (s *ShelterService) Update(actor authz.Identity, id uuid.UUID, req *dto.UpdateShelterRequest) (*models.Shelter, error) {
	shelter, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if actor.Role != models.RoleAdmin || !actor.IsAdminOwner || !actor.SameShelter(shelter.ID) {
		return nil, ErrNotShelterAdmin
	}

	if req.CurrentPassword == "" {
		return nil, ErrPasswordRequired
	}
	var owner models.User
	if err := s.db.First(&owner, "id = ?", actor.ID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(owner.Password), []byte(req.CurrentPassword)); err != nil {
		return nil, ErrWrongPassword
	}

	if err := s.checkShelterFieldsFree(req.Name, req.Email, req.Address, req.Phone, shelter.ID); err != nil {
		return nil, err
	}
	if req.Email != "" {
		var userByEmail models.User
		if err := s.db.Where("email = ?", req.Email).First(&userByEmail).Error; err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check user email: %w", err)
		}
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}

	if len(updates) > 0 {
		if err := s.db.Model(shelter).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update shelter: %w", err)
		}
	}
	return shelter, nil
}

// Delete removes the shelter with everything it owns: requests targeting
// its animals, photo rows, animals and admin memberships. Owner only.
// External photo storage is cleaned up best-effort after the transaction
// commits.
func (s *ShelterService) Delete(ctx context.Context, actor authz.Identity, id uuid.UUID) error {
	shelter, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if actor.Role != models.RoleAdmin || !actor.SameShelter(shelter.ID) {
		return ErrNotShelterAdmin
	}
	if !actor.IsAdminOwner {
		return ErrNotOwner
	}

	var animalIDs []uuid.UUID
	if err := s.db.Model(&models.Animal{}).Where("shelter_id = ?", id).
		Pluck("id", &animalIDs).Error; err != nil {
		return fmt.Errorf("failed to collect shelter animals: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(animalIDs) > 0 {
			if err := tx.Where("animal_id IN ?", animalIDs).Delete(&models.AdoptionRequest{}).Error; err != nil {
				return fmt.Errorf("failed to delete shelter requests: %w", err)
			}
			if err := tx.Where("animal_id IN ?", animalIDs).Delete(&models.Photo{}).Error; err != nil {
				return fmt.Errorf("failed to delete shelter photos: %w", err)
			}
			if err := tx.Where("shelter_id = ?", id).Delete(&models.Animal{}).Error; err != nil {
				return fmt.Errorf("failed to delete shelter animals: %w", err)
			}
		}

		err := tx.Model(&models.User{}).Where("shelter_id = ?", id).Updates(map[string]interface{}{
			"role":           models.RoleUser,
			"shelter_id":     nil,
			"is_admin_owner": false,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to release shelter admins: %w", err)
		}

		return tx.Delete(shelter).Error
	})
	if err != nil {
		return err
	}

	for _, animalID := range animalIDs {
		s.store.RemovePrefix(ctx, animalPrefix(animalID))
	}
	return nil
}

// AddAdmin invites an existing user into the shelter's admin roster. The
// target must be unaffiliated and must not have any PENDING or APPROVED
// adoption request outstanding.
func (s *ShelterService) AddAdmin(actor authz.Identity, email string) (*models.User, error) {
	if actor.ShelterID == nil {
		return nil, ErrNotShelterAdmin
	}

	var target models.User
	if err := s.db.Where("email = ?", email).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if target.ShelterID != nil {
		return nil, ErrUserInShelter
	}

	var active models.AdoptionRequest
	err := s.db.Where("user_id = ? AND status IN ?", target.ID,
		[]string{models.StatusPending, models.StatusApproved}).First(&active).Error
	if err == nil {
		return nil, ErrUserHasActiveRequests
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check user requests: %w", err)
	}

	err = s.db.Model(&target).Updates(map[string]interface{}{
		"role":                  models.RoleAdmin,
		"shelter_id":            *actor.ShelterID,
		"is_admin_owner":        false,
		"first_login_completed": true,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}
	return &target, nil
}

// RemoveAdmin strips a non-owner admin of the caller's shelter back to a
// plain USER. Requests assigned to the target must be reassigned to
// NewAdminID first; without one the removal is refused.
func (s *ShelterService) RemoveAdmin(actor authz.Identity, req *dto.RemoveAdminRequest) error {
	if actor.ShelterID == nil {
		return ErrNotShelterAdmin
	}

	var target models.User
	if err := s.db.First(&target, "id = ?", req.AdminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("failed to load administrator: %w", err)
	}

	if target.ShelterID == nil || *target.ShelterID != *actor.ShelterID {
		return ErrNotYourShelter
	}
	if target.Role != models.RoleAdmin {
		return ErrTargetNotAdmin
	}
	if target.ID == actor.ID {
		return ErrCannotRemoveSelf
	}
	if target.IsAdminOwner {
		return ErrNotOwner
	}

	var assigned int64
	err := s.db.Model(&models.AdoptionRequest{}).
		Where("admin_id = ? AND status IN ?", target.ID,
			[]string{models.StatusPending, models.StatusApproved}).
		Count(&assigned).Error
	if err != nil {
		return fmt.Errorf("failed to check assigned requests: %w", err)
	}
	if assigned > 0 && req.NewAdminID == nil {
		return ErrRequestsNeedReassign
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if req.NewAdminID != nil {
			err := tx.Model(&models.AdoptionRequest{}).
				Where("admin_id = ? AND status IN ?", target.ID,
					[]string{models.StatusPending, models.StatusApproved}).
				Update("admin_id", *req.NewAdminID).Error
			if err != nil {
				return fmt.Errorf("failed to reassign requests: %w", err)
			}
		}
		return tx.Model(&target).Updates(map[string]interface{}{
			"role":           models.RoleUser,
			"shelter_id":     nil,
			"is_admin_owner": false,
		}).Error
	})
}

func (s *ShelterService) checkShelterFieldsFree(name, email, address string, phone *string, excludeID uuid.UUID) error {
	check := func(field, value string, conflict error) error {
		if value == "" {
			return nil
		}
		var existing models.Shelter
		err := s.db.Where(field+" = ?", value).First(&existing).Error
		if err == nil && existing.ID != excludeID {
			return conflict
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check shelter %s: %w", field, err)
		}
		return nil
	}

	if err := check("name", name, ErrShelterNameTaken); err != nil {
		return err
	}
	if err := check("email", email, ErrShelterEmailTaken); err != nil {
		return err
	}
	if err := check("address", address, ErrShelterAddressTaken); err != nil {
		return err
	}
	if phone != nil && *phone != "" {
		if err := check("phone", *phone, ErrShelterPhoneTaken); err != nil {
			return err
		}
	}
	return nil
}
