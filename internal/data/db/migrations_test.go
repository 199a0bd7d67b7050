package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(t.TempDir(), DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func openRawConn(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), FileName)
	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", dbPath))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestMigrateUp_FreshDB(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	rows, err := database.Conn().QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var versions []int
	for rows.Next() {
		var v int
		require.NoError(t, rows.Scan(&v))
		versions = append(versions, v)
	}
	require.NoError(t, rows.Err())

	migrations, err := loadMigrations()
	require.NoError(t, err)

	require.Len(t, versions, len(migrations))
	for i, m := range migrations {
		assert.Equal(t, m.Version, versions[i])
	}

	_, err = database.Conn().ExecContext(ctx, "SELECT key, seq FROM kv_store LIMIT 0")
	require.NoError(t, err, "kv_store table should exist with seq column")
}

func TestMigrateUp_Idempotent(t *testing.T) {
	database := openTestDB(t)

	err := migrateUp(context.Background(), database.Conn())
	assert.NoError(t, err, "second migrateUp should be idempotent")
}

func TestMigrateUp_PartiallyMigrated(t *testing.T) {
	conn := openRawConn(t)
	ctx := context.Background()

	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(migrations), 2)

	require.NoError(t, migrateUp(ctx, conn))
	require.NoError(t, MigrateDown(ctx, conn, len(migrations)-1))

	applied, err := appliedVersions(ctx, conn)
	require.NoError(t, err)
	assert.Len(t, applied, 1)

	require.NoError(t, migrateUp(ctx, conn))

	applied, err = appliedVersions(ctx, conn)
	require.NoError(t, err)
	assert.Len(t, applied, len(migrations))
}

func TestMigrateDown(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	conn := database.Conn()

	require.NoError(t, database.Queries().KVSet(ctx, KVSetParams{
		Key: "checklist_Tyres", Value: []byte(`{}`), CreatedAt: 1, UpdatedAt: 1,
	}))

	// Revert the seq column only.
	require.NoError(t, MigrateDown(ctx, conn, 1))

	_, err := conn.ExecContext(ctx, "SELECT seq FROM kv_store LIMIT 0")
	require.Error(t, err, "seq should not exist after down migration")

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv_store").Scan(&count))
	assert.Equal(t, 1, count, "kv row should be preserved")
}

func TestMigrateDown_InvalidN(t *testing.T) {
	conn := openRawConn(t)
	ctx := context.Background()

	require.Error(t, MigrateDown(ctx, conn, 0), "n=0 should fail")
	require.Error(t, MigrateDown(ctx, conn, -1), "n=-1 should fail")
}

func TestMigrateDown_TooMany(t *testing.T) {
	database := openTestDB(t)

	migrations, err := loadMigrations()
	require.NoError(t, err)

	err = MigrateDown(context.Background(), database.Conn(), len(migrations)+1)
	assert.Error(t, err, "requesting more down migrations than applied should fail")
}

func TestLoadMigrations_Valid(t *testing.T) {
	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for i := 1; i < len(migrations); i++ {
		assert.Greater(t, migrations[i].Version, migrations[i-1].Version)
	}

	for _, m := range migrations {
		assert.NotEmpty(t, m.UpSQL, "migration %d up SQL", m.Version)
		assert.NotEmpty(t, m.DownSQL, "migration %d down SQL", m.Version)
		assert.NotEmpty(t, m.Name, "migration %d name", m.Version)
	}
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		filename      string
		wantVersion   int
		wantName      string
		wantDirection string
		wantErr       bool
	}{
		{"0001_kv_store.up.sql", 1, "kv_store", "up", false},
		{"0001_kv_store.down.sql", 1, "kv_store", "down", false},
		{"0100_big_version.down.sql", 100, "big_version", "down", false},
		{"bad.sql", 0, "", "", true},
		{"0001_initial.sql", 0, "", "", true},
		{"0000_zero.up.sql", 0, "", "", true},
		{"-1_negative.up.sql", 0, "", "", true},
		{"abc_notnumber.up.sql", 0, "", "", true},
		{"0001_.up.sql", 0, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, direction, err := parseFilename(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, version)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantDirection, direction)
		})
	}
}

func TestQueries_ListKeysInsertionOrder(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	q := database.Queries()

	for _, k := range []string{"checklist_Tyres", "checklist_Brakes", "checklist_Air Con"} {
		require.NoError(t, q.KVSet(ctx, KVSetParams{Key: k, Value: []byte(`1`), CreatedAt: 1, UpdatedAt: 1}))
	}
	// Overwriting keeps the original position.
	require.NoError(t, q.KVSet(ctx, KVSetParams{Key: "checklist_Tyres", Value: []byte(`2`), CreatedAt: 2, UpdatedAt: 2}))

	keys, err := q.KVListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"checklist_Tyres", "checklist_Brakes", "checklist_Air Con"}, keys)

	row, err := q.KVGet(ctx, "checklist_Tyres")
	require.NoError(t, err)
	assert.Equal(t, []byte(`2`), row.Value)
	assert.Equal(t, int64(1), row.CreatedAt)
	assert.Equal(t, int64(2), row.UpdatedAt)
}
