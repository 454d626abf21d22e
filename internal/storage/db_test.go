package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func seedCurrency(t *testing.T, db *Database, code string) {
	t.Helper()
	require.NoError(t, db.CreateCurrency(&Currency{Code: code, Name: code, Symbol: code}))
}
