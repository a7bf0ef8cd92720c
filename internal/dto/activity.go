package dto

import (
	"time"

	"github.com/yukikurage/habitsync-api/internal/models"
)

// ActivityDTO represents one ledger entry in API responses. TaskName and
// PointsEarned are captured values from mutation time, not live lookups.
type ActivityDTO struct {
	ID            uint64                  `json:"id"`
	UserID        uint64                  `json:"userId"`
	TaskName      string                  `json:"taskName"`
	PointsEarned  int                     `json:"pointsEarned"`
	Type          models.ActivityType     `json:"type"`
	Timestamp     time.Time               `json:"timestamp"`
	RelatedID     *uint64                 `json:"relatedId,omitempty"`
	PreviousScore *int                    `json:"previousScore,omitempty"`
	NewScore      *int                    `json:"newScore,omitempty"`
	Metadata      models.ActivityMetadata `json:"metadata"`
}

// ToActivityDTO converts an Activity model to ActivityDTO
func ToActivityDTO(activity models.Activity) ActivityDTO {
	return ActivityDTO{
		ID:            activity.ID,
		UserID:        activity.UserID,
		TaskName:      activity.TaskName,
		PointsEarned:  activity.PointsEarned,
		Type:          activity.Type,
		Timestamp:     activity.Timestamp,
		RelatedID:     activity.RelatedID,
		PreviousScore: activity.PreviousScore,
		NewScore:      activity.NewScore,
		Metadata:      activity.Metadata,
	}
}

// ToActivityDTOs converts a slice of Activity models
func ToActivityDTOs(activities []models.Activity) []ActivityDTO {
	dtos := make([]ActivityDTO, len(activities))
	for i, activity := range activities {
		dtos[i] = ToActivityDTO(activity)
	}
	return dtos
}
