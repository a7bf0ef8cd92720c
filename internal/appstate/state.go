// Package appstate holds the client-facing application state and the pure
// reducer that folds gateway snapshots, UI intents and mutation results into
// it. The state mirrors two users' remote collections side by side: the
// signed-in user's slice and the read-only partner slice. Remote snapshots
// are the source of truth; any optimistic overlay exists only to hide
// latency and is discarded outright when the authoritative snapshot for the
// same data arrives.
package appstate

import (
	"github.com/yukikurage/habitsync-api/internal/models"
)

type Tab string

const (
	TabTasks    Tab = "tasks"
	TabRewards  Tab = "rewards"
	TabActivity Tab = "activity"
)

type ViewTarget string

const (
	ViewCurrent ViewTarget = "current"
	ViewOther   ViewTarget = "other"
)

// UserData is one user's mirrored remote collections.
type UserData struct {
	Tasks      []models.Task     `json:"tasks"`
	Rewards    []models.Reward   `json:"rewards"`
	Activities []models.Activity `json:"activities"`
	Score      *models.UserScore `json:"score"`
}

// CollectionState tracks loading and error flags for one collection.
type CollectionState struct {
	Loading bool   `json:"loading"`
	Err     string `json:"error,omitempty"`
}

// Status carries the per-collection flags.
type Status struct {
	Tasks      CollectionState `json:"tasks"`
	Rewards    CollectionState `json:"rewards"`
	Activities CollectionState `json:"activities"`
	Score      CollectionState `json:"score"`
}

// PendingScore is an optimistic score overlay applied while a mutation's
// authoritative snapshot is still in flight. It is never merged into the
// slice data.
type PendingScore struct {
	UserID uint64 `json:"userId"`
	Delta  int    `json:"delta"`
}

// State is the single reducer-owned value.
type State struct {
	ActiveTab       Tab        `json:"activeTab"`
	Viewing         ViewTarget `json:"viewingUser"`
	ShowTaskModal   bool       `json:"showTaskModal"`
	ShowRewardModal bool       `json:"showRewardModal"`

	CurrentUserID uint64 `json:"currentUserId"`
	OtherUserID   uint64 `json:"otherUserId"`

	Current UserData `json:"currentUserData"`
	Other   UserData `json:"otherUserData"`

	Status  Status        `json:"status"`
	Pending *PendingScore `json:"pending,omitempty"`
}

// NewState returns the initial state for a session. otherUserID is zero when
// the user has no partner.
func NewState(currentUserID, otherUserID uint64) State {
	return State{
		ActiveTab:     TabTasks,
		Viewing:       ViewCurrent,
		CurrentUserID: currentUserID,
		OtherUserID:   otherUserID,
	}
}

// sliceFor routes a payload to the state slice owning it, strictly by user
// ID. Payloads for unknown users match no slice.
func (s *State) sliceFor(userID uint64) *UserData {
	switch userID {
	case s.CurrentUserID:
		return &s.Current
	case s.OtherUserID:
		if s.OtherUserID == 0 {
			return nil
		}
		return &s.Other
	default:
		return nil
	}
}

// ScoreFor returns the displayed score for a view target, applying the
// pending overlay when one is outstanding for that user.
func (s State) ScoreFor(target ViewTarget) int {
	var data UserData
	var userID uint64
	if target == ViewOther {
		data, userID = s.Other, s.OtherUserID
	} else {
		data, userID = s.Current, s.CurrentUserID
	}

	score := 0
	if data.Score != nil {
		score = data.Score.CurrentScore
	}
	if s.Pending != nil && s.Pending.UserID == userID {
		score += s.Pending.Delta
	}
	return score
}
