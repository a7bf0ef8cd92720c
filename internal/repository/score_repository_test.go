package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, mock
}

func TestScoreRepository_SumActivityPoints(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewScoreRepository(db)

	mock.ExpectQuery("SELECT SUM\\(points_earned\\) FROM `activities`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"SUM(points_earned)"}).AddRow(42))

	sum, err := repo.SumActivityPoints(1)
	require.NoError(t, err)
	require.Equal(t, 42, sum)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepository_SumActivityPoints_EmptyLedger(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewScoreRepository(db)

	// SUM over zero rows yields NULL, which reads as zero.
	mock.ExpectQuery("SELECT SUM\\(points_earned\\) FROM `activities`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"SUM(points_earned)"}).AddRow(nil))

	sum, err := repo.SumActivityPoints(1)
	require.NoError(t, err)
	require.Zero(t, sum)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepository_Find_PropagatesNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewScoreRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `user_scores`").
		WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := repo.Find(7)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
