package repository

import (
	"database/sql"

	"coedit/internal/auth/model"
	"coedit/pkg/apperr"
	"coedit/pkg/logger"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts a new user record. Emails are stored lowercase, so the
// unique index enforces case-insensitive uniqueness; a violation is surfaced
// as Conflict in case two signups race past the existence check.
func (r *UserRepository) Create(u *model.User) error {
	_, err := r.DB.Exec(`INSERT INTO users (id, full_name, email, profile_pic, password_hash, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.FullName, u.Email, u.ProfilePic, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return apperr.Conflict("User already exists")
		}
		logger.Sugar.Errorf("Failed to create user: %v", err)
	}
	return err
}

// GetByEmail looks up a user by lowercase email. Returns sql.ErrNoRows when
// the email is unknown.
func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRow(`SELECT id, full_name, email, profile_pic, password_hash, created_at FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.FullName, &u.Email, &u.ProfilePic, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Sugar.Errorf("Failed to get user by email: %v", err)
		}
		return nil, err
	}
	return &u, nil
}
