package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_EmptyURL(t *testing.T) {
	_, err := Open(context.Background(), "  ", DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is empty")
}

func TestOpen_PingFailure(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	original := openDB
	openDB = func(driverName, dsn string) (*sql.DB, error) {
		assert.Equal(t, "pgx", driverName)
		return conn, nil
	}
	t.Cleanup(func() { openDB = original })

	_, err = Open(context.Background(), "postgres://localhost/tailor", DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping database")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_NilIsNoop(t *testing.T) {
	require.NoError(t, Migrate(context.Background(), nil))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationFiles.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "00001_create_tailoring_runs.sql", entries[0].Name())
}
