package service

import (
	"errors"
	"time"

	"go-bevdistro/internal/apperr"
	"go-bevdistro/internal/model"
	"go-bevdistro/internal/repository"
	"go-bevdistro/pkg/jwt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
	ChangePassword(userID uuid.UUID, currentPassword, newPassword string) error
	ValidateToken(tokenString string) (*model.UserResponse, error)
	GetProfile(userID uuid.UUID) (*model.UserResponse, error)
	CreateUser(req *model.User, password string) error
	GetUsers() ([]model.UserResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// Single session: a fresh token version invalidates older tokens
	now := time.Now()
	user.TokenVersion = uuid.New().String()
	user.LastLogin = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, apperr.FromStore(err)
	}

	token, err := jwt.GenerateToken(user.ID, user.Username, user.Role, user.TokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

func (s *authService) ChangePassword(userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperr.FromStore(err)
	}
	if !user.CheckPassword(currentPassword) {
		return ErrWrongPassword
	}
	if len(newPassword) < 6 {
		return apperr.Invalid("new password must be at least 6 characters")
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	// Rotating the version logs out any other session
	user.TokenVersion = uuid.New().String()
	return apperr.FromStore(s.userRepo.Update(user))
}

func (s *authService) ValidateToken(tokenString string) (*model.UserResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, jwt.ErrInvalidToken
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) GetProfile(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) CreateUser(req *model.User, password string) error {
	if err := firstValidationError(req); err != nil {
		return err
	}
	if len(password) < 6 {
		return apperr.Invalid("password must be at least 6 characters")
	}

	if existing, err := s.userRepo.FindByUsername(req.Username); err == nil && existing.ID != uuid.Nil {
		return apperr.ErrConstraintViolation
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.FromStore(err)
	}

	if req.Role == "" {
		req.Role = model.RoleUser
	}
	req.IsActive = true
	if err := req.SetPassword(password); err != nil {
		return err
	}
	return apperr.FromStore(s.userRepo.Create(req))
}

func (s *authService) GetUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return responses, nil
}
