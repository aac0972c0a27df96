package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"portfolio_tracker_back/models"
	"portfolio_tracker_back/pkg/repository"
)

const maxPasswordBytes = 72

type AuthService struct {
	repos repository.Authorization
	cost  int
}

func NewAuthService(repos repository.Authorization) *AuthService {
	return &AuthService{
		repos: repos,
		cost:  bcrypt.DefaultCost,
	}
}

func (s *AuthService) Register(ctx context.Context, creds models.Credentials) (models.User, error) {
	username := strings.TrimSpace(creds.Username)
	if username == "" {
		return models.User{}, ErrInvalidUsername
	}
	// bcrypt only reads the first 72 bytes; the binding's max counts runes.
	if len(creds.Password) > maxPasswordBytes {
		return models.User{}, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.cost)
	if err != nil {
		return models.User{}, errors.Wrap(err, "hash password")
	}

	user, err := s.repos.CreateUser(ctx, username, string(hash))
	if errors.Is(err, repository.ErrDuplicate) {
		return models.User{}, ErrUsernameTaken
	}
	if err != nil {
		return models.User{}, err
	}

	logrus.WithField("user", user.ID).Info("user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	user, err := s.repos.GetUserByUsername(ctx, strings.TrimSpace(creds.Username))
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (models.User, error) {
	user, err := s.repos.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}
