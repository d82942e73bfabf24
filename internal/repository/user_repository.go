package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/lab-reservation/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// ErrEmailExists is returned when the email is already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrCollegeIDExists is returned when the college ID is already registered.
var ErrCollegeIDExists = errors.New("college id already exists")

// ErrUserNotFound is returned when a user lookup yields no rows.
var ErrUserNotFound = errors.New("user not found")

// Create inserts a user keyed by college ID. The password must already be
// hashed by the caller.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (college_id, name, email, password_hash, role) VALUES (?,?,?,?,?)",
		u.CollegeID, u.Name, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		// MySQL 1062: duplicate key. The key name tells us which
		// uniqueness constraint fired.
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			if strings.Contains(msg, "primary") {
				return ErrCollegeIDExists
			}
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT college_id,name,email,password_hash,role,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.CollegeID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// GetByCollegeID fetches a user by college ID.
func (r *UserRepo) GetByCollegeID(ctx context.Context, collegeID string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT college_id,name,email,password_hash,role,created_at,updated_at FROM users WHERE college_id=? LIMIT 1",
		collegeID).Scan(&u.CollegeID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// List returns all users ordered by college ID. Used by the admin user
// directory; password hashes are not selected.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	const q = `SELECT college_id, name, email, role, created_at, updated_at
	           FROM users
	           ORDER BY college_id`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.CollegeID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByRole returns users with the given role ordered by college ID.
func (r *UserRepo) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	const q = `SELECT college_id, name, email, role, created_at, updated_at
	           FROM users
	           WHERE role = ?
	           ORDER BY college_id`
	rows, err := r.DB.QueryContext(ctx, q, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.CollegeID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
