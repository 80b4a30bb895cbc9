// Package store is the persistence gateway of the catalog. It owns the
// schema, the connection pool and every query issued against the themes
// and sets tables.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andrewpaige1/lego-catalog/config"
	"github.com/andrewpaige1/lego-catalog/models"
)

// Store is a handle on the catalog database. It is safe for concurrent use.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to the database described by cfg and verifies the
// connection.
func Open(cfg config.DatabaseConfig, log zerolog.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN())
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	s, err := New(dialector, log)
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.String()).Msg("database connection established")
	return s, nil
}

// New opens a store on an arbitrary gorm dialector.
func New(dialector gorm.Dialector, log zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		// theme_id references are not enforced by the schema
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   newGormLogger(log),
	})
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, Op: "connect to database", Err: err}
	}
	return &Store{db: db, log: log}, nil
}

// EnsureSchema creates the themes and sets tables when they do not exist.
// It is safe to call on every start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Theme{}, &models.Set{}); err != nil {
		return &Error{Kind: KindUnavailable, Op: "initialize database", Err: err}
	}
	s.log.Info().Msg("database initialized successfully")
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get connection pool: %w", err)
	}
	return sqlDB.Close()
}
