package service

import (
	"database/sql"
	"strings"
	"time"

	"coedit/internal/auth/model"
	"coedit/internal/auth/repository"
	"coedit/pkg/apperr"
	"coedit/pkg/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Repo *repository.UserRepository
}

func NewAuthService(repo *repository.UserRepository) *AuthService {
	return &AuthService{Repo: repo}
}

// Signup creates a user with a bcrypt-hashed password and issues a token
// bound to the new user id. Duplicate emails (case-insensitive) fail with
// Conflict regardless of password.
func (s *AuthService) Signup(req model.SignupRequest) (*model.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.Repo.GetByEmail(email); err == nil {
		return nil, apperr.Conflict("User already exists")
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}

	u := &model.User{
		ID:           uuid.NewString(),
		FullName:     req.FullName,
		Email:        email,
		ProfilePic:   model.DefaultProfilePic,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, err
	}

	return s.issueFor(u.ID)
}

// Login verifies the credentials and issues a fresh token. Unknown email and
// wrong password produce the same error so the response does not reveal
// which one failed.
func (s *AuthService) Login(req model.LoginRequest) (*model.AuthResponse, error) {
	u, err := s.Repo.GetByEmail(normalizeEmail(req.Email))
	if err == sql.ErrNoRows {
		return nil, apperr.InvalidCredentials("Invalid email or password")
	} else if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.InvalidCredentials("Invalid email or password")
	}

	return s.issueFor(u.ID)
}

func (s *AuthService) issueFor(userID string) (*model.AuthResponse, error) {
	tok, err := token.Issue(userID)
	if err != nil {
		return nil, apperr.Internal("Failed to issue token", err)
	}
	return &model.AuthResponse{Token: tok, UserID: userID}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
