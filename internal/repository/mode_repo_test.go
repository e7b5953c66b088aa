package repository

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"smart_temperature/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestModeInsert(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewModeSQLite(db)

	at := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO mode_history (mode, selected_at) VALUES (?, ?)`)).
		WithArgs(models.ModeManual, "2025-06-15 14:30:00").
		WillReturnResult(sqlmock.NewResult(4, 1))

	ev, err := repo.Insert(ctx(t), models.ModeManual, at)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if ev.ID != 4 || ev.Mode != models.ModeManual || ev.ModeName != "MANUAL" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if !ev.SelectedAt.Equal(at) {
		t.Fatalf("SelectedAt: want %v, got %v", at, ev.SelectedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestModeLatest(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewModeSQLite(db)

	t.Run("empty history", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY selected_at DESC, id DESC LIMIT 1`)).
			WillReturnError(sql.ErrNoRows)

		got, err := repo.Latest(ctx(t))
		if err != nil {
			t.Fatalf("Latest: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil event, got %+v", got)
		}
	})

	t.Run("most recent event", func(t *testing.T) {
		at := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
		rows := sqlmock.NewRows([]string{"id", "mode", "selected_at"}).
			AddRow(4, models.ModeAuto, at)

		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY selected_at DESC, id DESC LIMIT 1`)).
			WillReturnRows(rows)

		got, err := repo.Latest(ctx(t))
		if err != nil {
			t.Fatalf("Latest: %v", err)
		}
		if got == nil || got.Mode != models.ModeAuto || got.ModeName != "AUTO" {
			t.Fatalf("unexpected event: %+v", got)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestModeList(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewModeSQLite(db)

	at := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "mode", "selected_at"}).
		AddRow(5, models.ModeManual, at).
		AddRow(4, models.ModeAuto, at.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY selected_at DESC, id DESC LIMIT ?`)).
		WithArgs(100).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), 100)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != 5 || got[1].ID != 4 {
		t.Fatalf("unexpected events: %+v", got)
	}
	if got[0].ModeName != "MANUAL" || got[1].ModeName != "AUTO" {
		t.Fatalf("mode names not derived: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
