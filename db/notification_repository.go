package db

import (
	"log"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/readhaven/readhaven/models"
)

type NotificationRepository interface {
	// CreateWithFanout persists the notification and one delivery record per
	// recipient in a single transaction. An empty recipient list is a valid
	// fan-out with zero delivery records.
	CreateWithFanout(notification *models.Notification, recipientIDs []uint) error
	ListUserIDsExcept(id uint) ([]uint, error)
	UserExists(id uint) (bool, error)
	FindUserNotifications(userID uint) ([]models.UserNotification, error)
	FindAllUserNotifications() ([]models.UserNotification, error)
	FirstDelivery(notificationID uint) (*models.UserNotification, error)
	CountUnread(userID uint) (int64, error)
	MarkViewed(notificationID, userID uint) (int64, error)
	DeleteNotificationCascade(notificationID uint) error
}

type notificationRepo struct {
	DB *gorm.DB
}

func NewNotificationRepo(db *GormDB) NotificationRepository {
	return &notificationRepo{db.DB}
}

func (n *notificationRepo) CreateWithFanout(notification *models.Notification, recipientIDs []uint) error {
	return n.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(notification).Error; err != nil {
			return errors.Wrap(err, "create notification")
		}

		if len(recipientIDs) == 0 {
			return nil
		}

		deliveries := make([]models.UserNotification, 0, len(recipientIDs))
		for _, id := range recipientIDs {
			deliveries = append(deliveries, models.UserNotification{
				UserID:         id,
				NotificationID: notification.ID,
				Viewed:         false,
			})
		}
		if err := tx.Create(&deliveries).Error; err != nil {
			return errors.Wrap(err, "create user notifications")
		}
		return nil
	})
}

func (n *notificationRepo) ListUserIDsExcept(id uint) ([]uint, error) {
	var ids []uint
	err := n.DB.Model(&models.User{}).
		Where("id <> ?", id).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm pluck error")
	}
	return ids, nil
}

func (n *notificationRepo) UserExists(id uint) (bool, error) {
	var count int64
	err := n.DB.Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "gorm count error")
	}
	return count > 0, nil
}

func (n *notificationRepo) FindUserNotifications(userID uint) ([]models.UserNotification, error) {
	var rows []models.UserNotification
	err := n.DB.Preload("Notification").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		log.Printf("Error fetching user notifications: %v", err)
		return nil, err
	}
	return rows, nil
}

func (n *notificationRepo) FindAllUserNotifications() ([]models.UserNotification, error) {
	var rows []models.UserNotification
	err := n.DB.Preload("Notification").Preload("User").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (n *notificationRepo) FirstDelivery(notificationID uint) (*models.UserNotification, error) {
	var row models.UserNotification
	err := n.DB.Preload("Notification").
		Where("notification_id = ?", notificationID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (n *notificationRepo) CountUnread(userID uint) (int64, error) {
	var count int64
	err := n.DB.Model(&models.UserNotification{}).
		Where("user_id = ? AND viewed = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MarkViewed flips the delivery record to viewed and reports how many rows
// matched. Zero matched rows is not an error; marking an undelivered
// notification read is a legitimate no-op.
func (n *notificationRepo) MarkViewed(notificationID, userID uint) (int64, error) {
	result := n.DB.Model(&models.UserNotification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Update("viewed", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteNotificationCascade removes the delivery records then the parent
// notification in one transaction, so no dangling references survive a
// partial failure.
func (n *notificationRepo) DeleteNotificationCascade(notificationID uint) error {
	return n.DB.Transaction(func(tx *gorm.DB) error {
		var notification models.Notification
		if err := tx.First(&notification, notificationID).Error; err != nil {
			return err
		}

		if err := tx.Where("notification_id = ?", notificationID).
			Delete(&models.UserNotification{}).Error; err != nil {
			return errors.Wrap(err, "delete user notifications")
		}

		if err := tx.Delete(&notification).Error; err != nil {
			return errors.Wrap(err, "delete notification")
		}
		return nil
	})
}
