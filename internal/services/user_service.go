package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/littlerefugees/shelter-backend/internal/authz"
	"github.com/littlerefugees/shelter-backend/internal/dto"
	"github.com/littlerefugees/shelter-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrNothingToUpdate    = errors.New("nothing to update")
	ErrOwnerCannotLeave   = errors.New("the shelter owner cannot delete their account while the shelter exists")
	ErrAdminCannotLeave   = errors.New("leave the shelter before deleting your account")
	ErrUserHasRequests    = errors.New("account has adoption requests and cannot be deleted")
	ErrCannotDeleteOwner  = errors.New("another owner account cannot be deleted")
	ErrUserActiveRequests = errors.New("user has pending or approved requests and cannot be deleted")
	ErrUserOutsideShelter = errors.New("user does not belong to your shelter")
)

// UserService covers self-service profile management and account removal.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UpdateProfile edits the caller's own record. Every change is gated on the
// current password; a changed email must stay globally unique across users
// and shelters.
func (s *UserService) UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if req.CurrentPassword == "" {
		return nil, ErrPasswordRequired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return nil, ErrWrongPassword
	}

	updates := map[string]interface{}{}
	if req.FullName != "" && req.FullName != user.FullName {
		updates["full_name"] = req.FullName
	}
	if req.Email != "" && req.Email != user.Email {
		var other models.User
		err := s.db.Where("email = ? AND id <> ?", req.Email, user.ID).First(&other).Error
		if err == nil {
			return nil, ErrEmailTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check user email: %w", err)
		}
		var shelter models.Shelter
		err = s.db.Where("email = ?", req.Email).First(&shelter).Error
		if err == nil {
			return nil, ErrEmailShelterTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check shelter email: %w", err)
		}
		updates["email"] = req.Email
	}
	if req.NewPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password"] = string(hash)
	}

	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &user, nil
}

// DeleteAccount removes the caller's own account. Shelter owners must delete
// the shelter first; affiliated admins must be removed from the roster
// first. Any adoption request, whatever its status, blocks the deletion.
func (s *UserService) DeleteAccount(userID uuid.UUID, currentPassword string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if currentPassword == "" {
		return ErrPasswordRequired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	if user.IsAdminOwner {
		return ErrOwnerCannotLeave
	}
	if user.ShelterID != nil {
		return ErrAdminCannotLeave
	}

	var requests int64
	if err := s.db.Model(&models.AdoptionRequest{}).Where("user_id = ?", user.ID).
		Count(&requests).Error; err != nil {
		return fmt.Errorf("failed to check adoption requests: %w", err)
	}
	if requests > 0 {
		return ErrUserHasRequests
	}

	if err := s.db.Delete(&user).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// DeleteByOwner lets a shelter owner delete a fellow admin's account. The
// target must belong to the owner's shelter, must not itself be an owner,
// and must not hold pending or approved requests.
func (s *UserService) DeleteByOwner(actor authz.Identity, targetID uuid.UUID) error {
	var target models.User
	if err := s.db.First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if actor.ShelterID == nil || target.ShelterID == nil || *target.ShelterID != *actor.ShelterID {
		return ErrUserOutsideShelter
	}
	if target.IsAdminOwner {
		return ErrCannotDeleteOwner
	}

	var active int64
	err := s.db.Model(&models.AdoptionRequest{}).
		Where("user_id = ? AND status IN ?", target.ID,
			[]string{models.StatusPending, models.StatusApproved}).
		Count(&active).Error
	if err != nil {
		return fmt.Errorf("failed to check adoption requests: %w", err)
	}
	if active > 0 {
		return ErrUserActiveRequests
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.AdoptionRequest{}).Where("admin_id = ?", target.ID).
			Update("admin_id", nil).Error
		if err != nil {
			return fmt.Errorf("failed to detach assigned requests: %w", err)
		}
		return tx.Delete(&target).Error
	})
}
