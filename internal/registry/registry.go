// Package registry looks up Sage client codes in the host application's
// SQLite database. The database is strictly read-only from here.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/Mikaelarth/FNEV4-sub000/internal/logger"
	"github.com/Mikaelarth/FNEV4-sub000/pkg/models"
)

// ErrClientNotFound is returned when no registry row exists for a code.
var ErrClientNotFound = errors.New("client not found in registry")

// Registry resolves client codes to registry records.
type Registry interface {
	Lookup(ctx context.Context, code string) (*models.ClientRecord, error)
	Close() error
}

// SQLiteRegistry reads the host application's clients table.
type SQLiteRegistry struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens the host database read-only.
func Open(path string) (*SQLiteRegistry, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("registry database not accessible: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}

	return &SQLiteRegistry{
		db:  db,
		log: logger.WithComponent("registry"),
	}, nil
}

// Lookup fetches one client by code.
func (r *SQLiteRegistry) Lookup(ctx context.Context, code string) (*models.ClientRecord, error) {
	var record models.ClientRecord
	var template string
	var active int

	err := r.db.QueryRowContext(ctx, `
		SELECT code, name, tax_number, default_template, is_active
		FROM clients
		WHERE code = ?
		LIMIT 1
	`, code).Scan(&record.Code, &record.Name, &record.TaxNumber, &template, &active)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("registry lookup for %q failed: %w", code, err)
	}

	record.IsActive = active != 0
	if parsed, ok := models.ParseTemplate(template); ok {
		record.DefaultTemplate = parsed
	} else {
		// Mis-flagged registry rows fall back to B2B; the validator's
		// template cross-checks still apply.
		r.log.Warn().
			Str("code", code).
			Str("template", template).
			Msg("Registry row carries unknown template, assuming B2B")
		record.DefaultTemplate = models.TemplateB2B
	}

	return &record, nil
}

// Close closes the database handle.
func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}

// OfflineRegistry is used when no host database is available. Every lookup
// misses, so business-client invoices cannot validate; client divers
// invoices still can.
type OfflineRegistry struct{}

// Offline returns the no-database registry.
func Offline() OfflineRegistry {
	return OfflineRegistry{}
}

// Lookup always reports a miss.
func (OfflineRegistry) Lookup(context.Context, string) (*models.ClientRecord, error) {
	return nil, ErrClientNotFound
}

// Close is a no-op.
func (OfflineRegistry) Close() error {
	return nil
}
