package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/terreiro/backend/internal/domain/shared"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock
}

// A broken connection must surface as a plain error, never as not-found.
func TestGormMemberRepository_ConnectionErrorIsNotNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormMemberRepository(db)

	mock.ExpectQuery(`SELECT .* FROM "members"`).WillReturnError(sql.ErrConnDone)

	_, err := repo.FindByID(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, err, sql.ErrConnDone)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTenantRepository_ConnectionErrorIsNotNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormTenantRepository(db)

	mock.ExpectQuery(`SELECT .* FROM "tenants"`).WillReturnError(sql.ErrConnDone)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
