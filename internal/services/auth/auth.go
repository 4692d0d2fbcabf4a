// Package services содержит логику регистрации, входа и проверки JWT.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/magabrotheeeer/carrydrop/internal/lib/jwt"
	"github.com/magabrotheeeer/carrydrop/internal/lib/password"
	"github.com/magabrotheeeer/carrydrop/internal/models"
	"github.com/magabrotheeeer/carrydrop/internal/storage/repository"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает пользователя с уровнем BRONZE и возвращает его UUID.
func (s *AuthService) Register(ctx context.Context, email, name, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: &hashed,
		Role:         models.RoleBronze,
	}
	if name != "" {
		user.Name = &name
	}
	id, err := s.users.CreateUser(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		return "", ErrEmailTaken
	}
	return id, err
}

// Login проверяет пароль и выпускает JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	// Внешние аккаунты не имеют пароля и не могут войти по нему.
	if user.PasswordHash == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(*user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	id := jwt.Identity{
		Email:      user.Email,
		UserUID:    user.UUID,
		Role:       jwt.RoleUser,
		Membership: string(user.Role),
	}
	if user.IsAdmin {
		id.Role = jwt.RoleAdmin
	}
	if user.Name != nil {
		id.Name = *user.Name
	}
	token, err := s.jwtMaker.GenerateToken(id)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ValidateToken проверяет JWT и возвращает идентичность вызывающего.
func (s *AuthService) ValidateToken(token string) (models.Requester, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.Requester{}, err
	}
	return models.Requester{
		UserUID: claims.UserUID,
		Email:   claims.Email(),
		IsAdmin: claims.IsAdmin(),
	}, nil
}
