package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"smart_temperature/internal/models"
)

type ModeSQLite struct {
	db *sql.DB
}

func NewModeSQLite(db *sql.DB) *ModeSQLite { return &ModeSQLite{db: db} }

var _ ModeRepo = (*ModeSQLite)(nil)

const (
	insertModeSQL = `INSERT INTO mode_history (mode, selected_at) VALUES (?, ?)`
	selectModeSQL = `SELECT id, mode, selected_at FROM mode_history`
)

// Insert appends a mode-change event and returns it.
func (r *ModeSQLite) Insert(ctx context.Context, mode int, at time.Time) (models.ModeEvent, error) {
	at = at.UTC()
	res, err := r.db.ExecContext(ctx, insertModeSQL, mode, formatTime(at))
	if err != nil {
		return models.ModeEvent{}, fmt.Errorf("insert mode event: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return models.ModeEvent{}, fmt.Errorf("mode event last insert id: %w", err)
	}
	return models.ModeEvent{
		ID:         int(lastID),
		Mode:       mode,
		ModeName:   models.ModeName(mode),
		SelectedAt: at,
	}, nil
}

// Latest returns the most recent mode event, or (nil, nil) when none exists.
func (r *ModeSQLite) Latest(ctx context.Context) (*models.ModeEvent, error) {
	var e models.ModeEvent
	err := r.db.QueryRowContext(ctx, selectModeSQL+` ORDER BY selected_at DESC, id DESC LIMIT 1`).
		Scan(&e.ID, &e.Mode, &e.SelectedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select latest mode event: %w", err)
	}
	e.SelectedAt = e.SelectedAt.UTC()
	e.ModeName = models.ModeName(e.Mode)
	return &e, nil
}

// List returns mode events newest-first, capped at limit.
func (r *ModeSQLite) List(ctx context.Context, limit int) ([]models.ModeEvent, error) {
	rows, err := r.db.QueryContext(ctx, selectModeSQL+` ORDER BY selected_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list mode events: %w", err)
	}
	defer rows.Close()

	out := make([]models.ModeEvent, 0, 16)
	for rows.Next() {
		var e models.ModeEvent
		if err := rows.Scan(&e.ID, &e.Mode, &e.SelectedAt); err != nil {
			return nil, fmt.Errorf("scan mode event: %w", err)
		}
		e.SelectedAt = e.SelectedAt.UTC()
		e.ModeName = models.ModeName(e.Mode)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
