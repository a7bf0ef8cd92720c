package appstate

import (
	"github.com/yukikurage/habitsync-api/internal/gateway"
)

// Reduce applies one action to the state and returns the next state. It is
// a pure function: the input state is never modified.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case SetActiveTab:
		state.ActiveTab = a.Tab

	case SetViewing:
		state.Viewing = a.Target

	case SetTaskModal:
		state.ShowTaskModal = a.Visible

	case SetRewardModal:
		state.ShowRewardModal = a.Visible

	case SetLoading:
		status := state.collectionStatus(a.Collection)
		if status != nil {
			status.Loading = a.Loading
		}

	case TasksSnapshot:
		if slice := state.sliceFor(a.UserID); slice != nil {
			slice.Tasks = a.Tasks
			state.clearStatus(gateway.CollectionTasks)
		}

	case RewardsSnapshot:
		if slice := state.sliceFor(a.UserID); slice != nil {
			slice.Rewards = a.Rewards
			state.clearStatus(gateway.CollectionRewards)
		}

	case ActivitiesSnapshot:
		if slice := state.sliceFor(a.UserID); slice != nil {
			slice.Activities = a.Activities
			state.clearStatus(gateway.CollectionActivities)
		}

	case ScoreSnapshot:
		if slice := state.sliceFor(a.UserID); slice != nil {
			score := a.Score
			slice.Score = &score
			state.clearStatus(gateway.CollectionScore)
			// The authoritative snapshot supersedes any optimistic overlay
			// for this user; the overlay is discarded, not merged.
			if state.Pending != nil && state.Pending.UserID == a.UserID {
				state.Pending = nil
			}
		}

	case SnapshotFailed:
		if state.sliceFor(a.UserID) != nil {
			if status := state.collectionStatus(a.Collection); status != nil {
				status.Loading = false
				status.Err = a.Message
			}
		}

	case ScorePending:
		if state.sliceFor(a.UserID) != nil {
			state.Pending = &PendingScore{UserID: a.UserID, Delta: a.Delta}
		}
	}

	return state
}

func (s *State) collectionStatus(collection gateway.Collection) *CollectionState {
	switch collection {
	case gateway.CollectionTasks:
		return &s.Status.Tasks
	case gateway.CollectionRewards:
		return &s.Status.Rewards
	case gateway.CollectionActivities:
		return &s.Status.Activities
	case gateway.CollectionScore:
		return &s.Status.Score
	default:
		return nil
	}
}

func (s *State) clearStatus(collection gateway.Collection) {
	if status := s.collectionStatus(collection); status != nil {
		status.Loading = false
		status.Err = ""
	}
}
