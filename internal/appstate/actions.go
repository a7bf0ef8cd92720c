package appstate

import (
	"github.com/yukikurage/habitsync-api/internal/gateway"
	"github.com/yukikurage/habitsync-api/internal/models"
)

// Action is a closed union of state transitions. Snapshot actions carry the
// owning user ID explicitly; the reducer routes them by comparing IDs, never
// by arrival order.
type Action interface {
	isAction()
}

// UI intents

type SetActiveTab struct {
	Tab Tab
}

type SetViewing struct {
	Target ViewTarget
}

type SetTaskModal struct {
	Visible bool
}

type SetRewardModal struct {
	Visible bool
}

type SetLoading struct {
	Collection gateway.Collection
	Loading    bool
}

// Gateway snapshots

type TasksSnapshot struct {
	UserID uint64
	Tasks  []models.Task
}

type RewardsSnapshot struct {
	UserID  uint64
	Rewards []models.Reward
}

type ActivitiesSnapshot struct {
	UserID     uint64
	Activities []models.Activity
}

type ScoreSnapshot struct {
	UserID uint64
	Score  models.UserScore
}

// SnapshotFailed records a subscription error on the collection's error
// field without tearing the stream down.
type SnapshotFailed struct {
	UserID     uint64
	Collection gateway.Collection
	Message    string
}

// ScorePending applies an optimistic score overlay after a mutation
// resolves, until the authoritative score snapshot lands. The server-side
// stream never dispatches it: mutations there commit before any frame is
// built, so the next snapshot is already authoritative. Clients folding the
// reducer themselves dispatch it to hide snapshot latency after a mutation
// call returns.
type ScorePending struct {
	UserID uint64
	Delta  int
}

func (SetActiveTab) isAction()       {}
func (SetViewing) isAction()         {}
func (SetTaskModal) isAction()       {}
func (SetRewardModal) isAction()     {}
func (SetLoading) isAction()         {}
func (TasksSnapshot) isAction()      {}
func (RewardsSnapshot) isAction()    {}
func (ActivitiesSnapshot) isAction() {}
func (ScoreSnapshot) isAction()      {}
func (SnapshotFailed) isAction()     {}
func (ScorePending) isAction()       {}
