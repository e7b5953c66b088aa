package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"smart_temperature/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

// The credential is a singleton row; the schema pins id to 1.
const systemUserID = 1

const (
	insertUserSQL = `INSERT INTO system_user (id, password_hash, last_password_change) VALUES (?, ?, ?)`
	selectUserSQL = `SELECT id, password_hash, last_password_change FROM system_user WHERE id = ?`
	updateUserSQL = `UPDATE system_user SET password_hash = ?, last_password_change = ? WHERE id = ?`
)

// Get fetches the singleton credential. Returns (nil, nil) if not created yet.
func (r *UserRepository) Get(ctx context.Context) (*models.SystemUser, error) {
	var u models.SystemUser
	err := r.db.QueryRowContext(ctx, selectUserSQL, systemUserID).
		Scan(&u.ID, &u.PasswordHash, &u.LastPasswordChange)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select system user: %w", err)
	}
	u.LastPasswordChange = u.LastPasswordChange.UTC()
	return &u, nil
}

// Create inserts the singleton credential row.
func (r *UserRepository) Create(ctx context.Context, passwordHash string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, insertUserSQL, systemUserID, passwordHash, formatTime(at)); err != nil {
		return fmt.Errorf("insert system user: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored hash and touches the change timestamp.
func (r *UserRepository) UpdatePassword(ctx context.Context, passwordHash string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, updateUserSQL, passwordHash, formatTime(at), systemUserID)
	if err != nil {
		return fmt.Errorf("update system user password: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.New("update system user password: no credential row")
	}
	return nil
}
