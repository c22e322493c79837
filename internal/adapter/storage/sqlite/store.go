package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/vodforge/internal/domain"
	"github.com/bnema/vodforge/internal/port"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	db *sql.DB
}

var hookOnce sync.Once

func registerHook() {
	hookOnce.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, dsn string) error {
			pragmas := []string{
				"PRAGMA journal_mode = WAL",
				"PRAGMA busy_timeout = 5000",
				"PRAGMA synchronous = NORMAL",
				"PRAGMA foreign_keys = ON",
			}
			for _, p := range pragmas {
				if _, err := conn.ExecContext(context.Background(), p, nil); err != nil {
					return fmt.Errorf("execute %s: %w", p, err)
				}
			}
			return nil
		})
	})
}

func NewStore(dataDir string) (*Store, error) {
	registerHook()

	dbPath := filepath.Join(dataDir, "vodforge.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection for SQLite (WAL allows concurrent reads but only one writer)
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Insert creates a status record, or resets an existing record with the
// same name back to the given state (last write wins on name collisions).
func (s *Store) Insert(record *domain.VideoStatus) error {
	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO video_status (name, status, error_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			status = excluded.status,
			error_message = excluded.error_message,
			updated_at = excluded.updated_at`,
		record.Name, string(record.Status), record.ErrorMessage, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert video status: %w", err)
	}
	return nil
}

func (s *Store) UpdateStatus(name string, status domain.EncodingStatus, errMsg string) error {
	res, err := s.db.ExecContext(context.Background(), `
		UPDATE video_status
		SET status = ?, error_message = ?, updated_at = ?
		WHERE name = ?`,
		string(status), errMsg, time.Now().UTC(), name)
	if err != nil {
		return fmt.Errorf("update video status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) FindByName(name string) (*domain.VideoStatus, error) {
	row := s.db.QueryRowContext(context.Background(), `
		SELECT name, status, error_message, created_at, updated_at
		FROM video_status
		WHERE name = ?`, name)

	var rec domain.VideoStatus
	var status string
	err := row.Scan(&rec.Name, &status, &rec.ErrorMessage, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find video status: %w", err)
	}
	rec.Status = domain.EncodingStatus(status)
	return &rec, nil
}

var _ port.StatusStore = (*Store)(nil)
