package registry

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mikaelarth/FNEV4-sub000/pkg/models"
)

func seedDatabase(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fnev4.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE clients (
			id INTEGER PRIMARY KEY,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			tax_number TEXT,
			default_template TEXT,
			is_active INTEGER NOT NULL DEFAULT 1
		);
		INSERT INTO clients (code, name, tax_number, default_template, is_active) VALUES
			('CLI001', 'ACME', '1234567A', 'B2B', 1),
			('CLI002', 'Beta SA', '7654321B', 'B2F', 1),
			('CLI003', 'Gone SARL', '1111111C', 'B2B', 0),
			('CLI004', 'Odd Ltd', '2222222D', 'LEGACY', 1);
	`)
	require.NoError(t, err)
	return path
}

func TestOpen_MissingDatabase(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.db"))
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	reg, err := Open(seedDatabase(t))
	require.NoError(t, err)
	defer reg.Close()

	ctx := context.Background()

	client, err := reg.Lookup(ctx, "CLI001")
	require.NoError(t, err)
	assert.Equal(t, "ACME", client.Name)
	assert.Equal(t, "1234567A", client.TaxNumber)
	assert.Equal(t, models.TemplateB2B, client.DefaultTemplate)
	assert.True(t, client.IsActive)

	client, err = reg.Lookup(ctx, "CLI002")
	require.NoError(t, err)
	assert.Equal(t, models.TemplateB2F, client.DefaultTemplate)
}

func TestLookup_NotFound(t *testing.T) {
	reg, err := Open(seedDatabase(t))
	require.NoError(t, err)
	defer reg.Close()

	_, err = reg.Lookup(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestLookup_InactiveClient(t *testing.T) {
	reg, err := Open(seedDatabase(t))
	require.NoError(t, err)
	defer reg.Close()

	client, err := reg.Lookup(context.Background(), "CLI003")
	require.NoError(t, err)
	assert.False(t, client.IsActive, "inactive rows are returned, the validator rejects them")
}

func TestLookup_UnknownTemplateFallsBack(t *testing.T) {
	reg, err := Open(seedDatabase(t))
	require.NoError(t, err)
	defer reg.Close()

	client, err := reg.Lookup(context.Background(), "CLI004")
	require.NoError(t, err)
	assert.Equal(t, models.TemplateB2B, client.DefaultTemplate)
}

func TestOfflineRegistry(t *testing.T) {
	reg := Offline()
	_, err := reg.Lookup(context.Background(), "CLI001")
	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.NoError(t, reg.Close())
}
