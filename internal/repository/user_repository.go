package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/filmnight/screening-rsvp/internal/model"
	"github.com/filmnight/screening-rsvp/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts a user with a hashed password and returns its ID.
func (r *UserRepo) Create(ctx context.Context, name *string, email, password string, role model.Role, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, created_at, updated_at) VALUES (?,?,?,?,?,?)",
		name, email, hash, string(role), now, now)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Count returns the total number of users.  The first account created on a
// fresh install is promoted to ADMIN.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// GetByEmail fetches a user and its password hash by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var (
		u    model.User
		hash string
		role string
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, email, email_verified_at, password_hash, role, created_at, updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Name, &u.Email, &u.EmailVerifiedAt, &hash, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, "", err
	}
	u.Role = model.ParseRole(role)
	return u, hash, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var (
		u    model.User
		role string
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, email, email_verified_at, role, created_at, updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Email, &u.EmailVerifiedAt, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.ParseRole(role)
	return u, nil
}

// FindIDByEmail returns the ID of the user with the given email, or nil
// when no account exists.  Used to link invitations to known users.
func (r *UserRepo) FindIDByEmail(ctx context.Context, email string) (*uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var id uint64
	err := r.DB.QueryRowContext(ctx, "SELECT id FROM users WHERE email=? LIMIT 1", email).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}
