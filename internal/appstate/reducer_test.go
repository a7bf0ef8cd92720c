package appstate

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/habitsync-api/internal/gateway"
	"github.com/yukikurage/habitsync-api/internal/models"
)

func TestReduce_UIIntents(t *testing.T) {
	state := NewState(1, 2)

	state = Reduce(state, SetActiveTab{Tab: TabRewards})
	require.Equal(t, TabRewards, state.ActiveTab)

	state = Reduce(state, SetViewing{Target: ViewOther})
	require.Equal(t, ViewOther, state.Viewing)

	state = Reduce(state, SetTaskModal{Visible: true})
	require.True(t, state.ShowTaskModal)

	state = Reduce(state, SetRewardModal{Visible: true})
	require.True(t, state.ShowRewardModal)

	state = Reduce(state, SetTaskModal{Visible: false})
	require.False(t, state.ShowTaskModal)
	require.True(t, state.ShowRewardModal)
}

func TestReduce_SnapshotRouting(t *testing.T) {
	state := NewState(1, 2)

	mine := []models.Task{{ID: 10, UserID: 1, Name: "mine"}}
	theirs := []models.Task{{ID: 20, UserID: 2, Name: "theirs"}}

	state = Reduce(state, TasksSnapshot{UserID: 1, Tasks: mine})
	state = Reduce(state, TasksSnapshot{UserID: 2, Tasks: theirs})

	// Routing is strictly by user ID, never by arrival order.
	require.Equal(t, mine, state.Current.Tasks)
	require.Equal(t, theirs, state.Other.Tasks)
}

func TestReduce_UnknownUserDropped(t *testing.T) {
	state := NewState(1, 2)

	state = Reduce(state, TasksSnapshot{UserID: 99, Tasks: []models.Task{{ID: 1}}})

	require.Empty(t, state.Current.Tasks)
	require.Empty(t, state.Other.Tasks)
}

func TestReduce_NoPartnerNeverFillsOtherSlice(t *testing.T) {
	state := NewState(1, 0)

	// With no partner, a zero user ID payload must not land in Other.
	state = Reduce(state, ScoreSnapshot{UserID: 0, Score: models.UserScore{CurrentScore: 5}})

	require.Nil(t, state.Other.Score)
	require.Nil(t, state.Current.Score)
}

func TestReduce_ScoreSnapshotDiscardsPending(t *testing.T) {
	state := NewState(1, 2)

	state = Reduce(state, ScorePending{UserID: 1, Delta: 10})
	require.NotNil(t, state.Pending)
	require.Equal(t, 10, state.ScoreFor(ViewCurrent))

	// The overlay is replaced by the authoritative value, not merged in.
	state = Reduce(state, ScoreSnapshot{UserID: 1, Score: models.UserScore{UserID: 1, CurrentScore: 7}})
	require.Nil(t, state.Pending)
	require.Equal(t, 7, state.ScoreFor(ViewCurrent))
}

func TestReduce_PartnerScoreKeepsOwnPending(t *testing.T) {
	state := NewState(1, 2)

	state = Reduce(state, ScorePending{UserID: 1, Delta: 10})
	state = Reduce(state, ScoreSnapshot{UserID: 2, Score: models.UserScore{UserID: 2, CurrentScore: 3}})

	require.NotNil(t, state.Pending)
	require.Equal(t, 10, state.ScoreFor(ViewCurrent))
	require.Equal(t, 3, state.ScoreFor(ViewOther))
}

func TestReduce_SnapshotClearsStatus(t *testing.T) {
	state := NewState(1, 2)

	state = Reduce(state, SetLoading{Collection: gateway.CollectionTasks, Loading: true})
	require.True(t, state.Status.Tasks.Loading)

	state = Reduce(state, TasksSnapshot{UserID: 1, Tasks: nil})
	require.False(t, state.Status.Tasks.Loading)
	require.Empty(t, state.Status.Tasks.Err)
}

func TestReduce_SnapshotFailed(t *testing.T) {
	state := NewState(1, 2)

	state = Reduce(state, SnapshotFailed{
		UserID:     1,
		Collection: gateway.CollectionRewards,
		Message:    "store unavailable",
	})

	require.Equal(t, "store unavailable", state.Status.Rewards.Err)
	require.False(t, state.Status.Rewards.Loading)

	// Errors for unknown users are dropped like any other payload.
	state = Reduce(state, SnapshotFailed{
		UserID:     99,
		Collection: gateway.CollectionTasks,
		Message:    "ignored",
	})
	require.Empty(t, state.Status.Tasks.Err)
}

func TestReduce_IsPure(t *testing.T) {
	original := NewState(1, 2)
	original = Reduce(original, TasksSnapshot{UserID: 1, Tasks: []models.Task{{ID: 1}}})

	before := original
	_ = Reduce(original, SetActiveTab{Tab: TabActivity})
	_ = Reduce(original, ScorePending{UserID: 1, Delta: 5})

	require.Equal(t, before.ActiveTab, original.ActiveTab)
	require.Nil(t, original.Pending)
	require.Equal(t, before.Current.Tasks, original.Current.Tasks)
}
