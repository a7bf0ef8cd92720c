package dto

import (
	"github.com/yukikurage/habitsync-api/internal/appstate"
)

// UserDataDTO is one user's mirrored collections inside a stream frame.
type UserDataDTO struct {
	Tasks      []TaskDTO     `json:"tasks"`
	Rewards    []RewardDTO   `json:"rewards"`
	Activities []ActivityDTO `json:"activities"`
	Score      *ScoreDTO     `json:"score"`
}

// StateDTO is the full application state pushed on each stream frame.
type StateDTO struct {
	ActiveTab       appstate.Tab            `json:"activeTab"`
	Viewing         appstate.ViewTarget     `json:"viewingUser"`
	ShowTaskModal   bool                    `json:"showTaskModal"`
	ShowRewardModal bool                    `json:"showRewardModal"`
	CurrentUserID   uint64                  `json:"currentUserId"`
	OtherUserID     uint64                  `json:"otherUserId,omitempty"`
	Current         UserDataDTO             `json:"currentUserData"`
	Other           UserDataDTO             `json:"otherUserData"`
	Status          appstate.Status         `json:"status"`
	Pending         *appstate.PendingScore  `json:"pending,omitempty"`
	VisibleScore    int                     `json:"visibleScore"`
}

// ToUserDataDTO converts one state slice
func ToUserDataDTO(data appstate.UserData) UserDataDTO {
	out := UserDataDTO{
		Tasks:      ToTaskDTOs(data.Tasks),
		Rewards:    ToRewardDTOs(data.Rewards),
		Activities: ToActivityDTOs(data.Activities),
	}
	if data.Score != nil {
		score := ToScoreDTO(*data.Score)
		out.Score = &score
	}
	return out
}

// ToStateDTO converts reducer state to the wire frame shape
func ToStateDTO(state appstate.State) StateDTO {
	return StateDTO{
		ActiveTab:       state.ActiveTab,
		Viewing:         state.Viewing,
		ShowTaskModal:   state.ShowTaskModal,
		ShowRewardModal: state.ShowRewardModal,
		CurrentUserID:   state.CurrentUserID,
		OtherUserID:     state.OtherUserID,
		Current:         ToUserDataDTO(state.Current),
		Other:           ToUserDataDTO(state.Other),
		Status:          state.Status,
		Pending:         state.Pending,
		VisibleScore:    state.ScoreFor(state.Viewing),
	}
}
