package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// The ledger transactions must lock every row they later write. Without the
// update lock, two transactions snapshot-read the same score and the second
// commit silently drops the first delta.

func TestLedgerRepository_CompleteTask_LocksRowsForUpdate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLedgerRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `tasks` WHERE user_id = \\?.* FOR UPDATE").
		WithArgs(1, 5, 1).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "name", "type", "point_value", "is_achieved", "is_active"}).
			AddRow(5, 1, "Morning run", "daily", 10, false, true))
	mock.ExpectQuery("SELECT \\* FROM `user_scores` WHERE user_id = \\?.* FOR UPDATE").
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows(
			[]string{"user_id", "current_score", "total_earned", "total_spent", "tasks_completed", "rewards_claimed"}).
			AddRow(1, 50, 50, 0, 3, 0))
	mock.ExpectExec("INSERT INTO `activities`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `user_scores` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.CompleteTask(1, 5)
	require.NoError(t, err)
	require.Equal(t, 60, result.Score.CurrentScore)
	require.Equal(t, 4, result.Score.TasksCompleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_ClaimReward_LocksScoreForUpdate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLedgerRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `rewards` WHERE user_id = \\?.* FOR UPDATE").
		WithArgs(1, 9, 1).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "name", "point_cost", "is_claimed"}).
			AddRow(9, 1, "Movie night", 40, false))
	mock.ExpectQuery("SELECT \\* FROM `user_scores` WHERE user_id = \\?.* FOR UPDATE").
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows(
			[]string{"user_id", "current_score", "total_earned", "total_spent", "tasks_completed", "rewards_claimed"}).
			AddRow(1, 100, 100, 0, 5, 0))
	mock.ExpectExec("UPDATE `rewards` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `activities`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("UPDATE `user_scores` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.ClaimReward(1, 9)
	require.NoError(t, err)
	require.Equal(t, 60, result.Score.CurrentScore)
	require.True(t, result.Reward.IsClaimed)
	require.NotNil(t, result.Activity.PreviousScore)
	require.Equal(t, 100, *result.Activity.PreviousScore)
	require.NoError(t, mock.ExpectationsWereMet())
}
