package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/gimvic/schedule-sync/internal/models"
)

func TestEntityRepositoryGetOrCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEntityRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO teachers")).
		WithArgs("Novak").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	id, err := repo.GetOrCreate(context.Background(), db, models.EntityTeacher, "Novak")
	require.NoError(t, err)
	require.NotNil(t, id)
	require.Equal(t, int64(3), *id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepositoryGetOrCreateEmptyName(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEntityRepository(db)
	id, err := repo.GetOrCreate(context.Background(), db, models.EntityClass, "")
	require.NoError(t, err)
	require.Nil(t, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepositoryListNames(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEntityRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM classes")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("1A").AddRow("1B"))

	names, err := repo.ListNames(context.Background(), models.EntityClass)
	require.NoError(t, err)
	require.Equal(t, []string{"1A", "1B"}, names)
	require.NoError(t, mock.ExpectationsWereMet())
}
