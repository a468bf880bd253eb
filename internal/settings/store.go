package settings

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/SayaAndy/vault-gallery/config"
	"github.com/SayaAndy/vault-gallery/internal/gallery"
	"github.com/go-playground/validator/v10"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store persists the gallery defaults and serves the current value to every
// gallery being built.
type Store struct {
	db       *sql.DB
	validate *validator.Validate
	current  atomic.Pointer[gallery.Settings]
}

// Open connects to the settings database, applies migrations and loads the
// stored defaults.
func Open(ctx context.Context, cfg *config.DbConfig) (*Store, error) {
	db, err := sql.Open(cfg.Type, cfg.Cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("fail to initialize db: %w", err)
	}

	s, err := NewStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	if err := migrateUp(db); err != nil {
		return nil, err
	}

	s := &Store{
		db:       db,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func migrateUp(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("fail to initialize driver for migrating db: %w", err)
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("fail to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("fail to initialize migration client: %w", err)
	}

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("fail to apply migrations: %w", err)
	}
	slog.Debug("successfully applied migrations")
	return nil
}

// Load reads the stored record. Keys never saved or holding a bad value fall
// back to the hard defaults one by one.
func (s *Store) Load(ctx context.Context) (gallery.Settings, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM gallery_settings")
	if err != nil {
		return gallery.Settings{}, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	record := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return gallery.Settings{}, fmt.Errorf("failed to scan settings row: %w", err)
		}
		record[key] = value
	}
	if err := rows.Err(); err != nil {
		return gallery.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	loaded := ApplyValid(gallery.Settings{}, record).FillDefaults()
	if err := s.validate.Struct(loaded); err != nil {
		slog.Warn("stored settings are invalid, using defaults", slog.String("error", err.Error()))
		loaded = gallery.DefaultSettings()
	}

	s.current.Store(&loaded)
	return loaded, nil
}

// Save validates and persists the whole record, then makes it the current
// defaults.
func (s *Store) Save(ctx context.Context, settings gallery.Settings) error {
	if err := s.validate.Struct(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for key, value := range Flatten(settings) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gallery_settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			key, value,
		); err != nil {
			return fmt.Errorf("failed to save '%s': %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}

	s.current.Store(&settings)
	slog.Info("gallery settings saved")
	return nil
}

// Defaults returns the settings new galleries start from.
func (s *Store) Defaults() gallery.Settings {
	if current := s.current.Load(); current != nil {
		return *current
	}
	return gallery.DefaultSettings()
}

func (s *Store) Close() error {
	return s.db.Close()
}
