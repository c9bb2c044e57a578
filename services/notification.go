// services/notification.go
package services

import (
	"github.com/alphabatem/common/context"
	"github.com/veredas-labs/trilha_api/dto"
)

// NotificationService is the unlock notification queue. An unlocked
// achievement stays in the queue until the client commits delivery with
// MarkNotified; the mark is the exactly-once display commit point.
type NotificationService struct {
	context.DefaultService

	sqlSvc *SqlService
}

const NOTIFICATION_SVC = "notification_svc"

func (svc NotificationService) Id() string {
	return NOTIFICATION_SVC
}

func (svc *NotificationService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	return nil
}

// ListUnnotified returns undelivered unlocks oldest first.
func (svc *NotificationService) ListUnnotified(userID string) ([]dto.UnlockNotificationResponse, error) {
	rows, err := svc.sqlSvc.GetUnnotifiedUnlocks(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UnlockNotificationResponse, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		responses = append(responses, dto.UnlockNotificationResponse{
			AchievementID: row.AchievementID,
			Slug:          row.Achievement.Slug,
			Name:          row.Achievement.Name,
			Description:   row.Achievement.Description,
			Difficulty:    row.Achievement.Difficulty,
			BadgeIcon:     row.Achievement.BadgeIcon,
			BadgeColor:    row.Achievement.BadgeColor,
			BadgeImage:    row.Achievement.BadgeImageURL,
			UnlockedAt:    row.UnlockedAt,
		})
	}
	return responses, nil
}

// MarkNotified stamps delivery; repeats are no-ops.
func (svc *NotificationService) MarkNotified(userID, achievementID string) error {
	_, err := svc.sqlSvc.MarkUnlockNotified(userID, achievementID)
	return err
}

// MarkViewed records that the user opened the unlock, independent of
// delivery.
func (svc *NotificationService) MarkViewed(userID, achievementID string) error {
	_, err := svc.sqlSvc.MarkUnlockViewed(userID, achievementID)
	return err
}

func (svc *NotificationService) GetNotificationStats(userID string) (*dto.NotificationStatsResponse, error) {
	total, unnotified, unviewed, err := svc.sqlSvc.CountUnlocks(userID)
	if err != nil {
		return nil, err
	}
	return &dto.NotificationStatsResponse{
		TotalUnlocked: int(total),
		Unnotified:    int(unnotified),
		Unviewed:      int(unviewed),
	}, nil
}
