package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/littlerefugees/shelter-backend/internal/config"
	"github.com/littlerefugees/shelter-backend/internal/dto"
	"github.com/littlerefugees/shelter-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrMissingCredentials = errors.New("full name, email and password are required")
	ErrEmailTaken         = errors.New("email already registered to another user")
	ErrEmailShelterTaken  = errors.New("email already assigned to a shelter")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Register creates a USER account. The email must be free across both users
// and shelters; a single address cannot be a login and a shelter contact.
func (s *AuthService) Register(req *dto.RegisterRequest) (*models.User, error) {
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	if err := s.checkEmailFree(req.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		FullName: req.FullName,
		Email:    req.Email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// Login verifies the credentials and issues the signed bearer token.
func (s *AuthService) Login(req *dto.LoginRequest) (string, *models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// Me returns a fresh snapshot of the caller's own record.
func (s *AuthService) Me(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// SetFirstLoginCompleted flips the first-login flag on the caller's record.
func (s *AuthService) SetFirstLoginCompleted(userID uuid.UUID, completed bool) (*models.User, error) {
	user, err := s.Me(userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(user).Update("first_login_completed", completed).Error; err != nil {
		return nil, fmt.Errorf("failed to update first login flag: %w", err)
	}
	return user, nil
}

// GenerateToken signs the caller identity into an HS256 JWT.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":                   user.ID.String(),
		"email":                 user.Email,
		"role":                  user.Role,
		"is_admin_owner":        user.IsAdminOwner,
		"first_login_completed": user.FirstLoginCompleted,
		"iat":                   time.Now().Unix(),
		"exp":                   time.Now().Add(s.cfg.JWTExpiry).Unix(),
	}
	if user.ShelterID != nil {
		claims["shelter_id"] = user.ShelterID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// checkEmailFree enforces global email uniqueness across users and shelters.
func (s *AuthService) checkEmailFree(email string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check user email: %w", err)
	}

	var shelter models.Shelter
	if err := s.db.Where("email = ?", email).First(&shelter).Error; err == nil {
		return ErrEmailShelterTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check shelter email: %w", err)
	}
	return nil
}
