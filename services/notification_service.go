package services

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/readhaven/readhaven/db"
	apiError "github.com/readhaven/readhaven/errors"
	"github.com/readhaven/readhaven/models"
)

// EventNotificationCreated is the realtime event pushed for each new notification.
const EventNotificationCreated = "notification.created"

// Notifier is the realtime delivery channel the fan-out pushes through.
// Emission is best-effort: a failed or absent live connection never affects
// the persisted rows.
type Notifier interface {
	Broadcast(event string, payload interface{})
	EmitToUser(userID uint, event string, payload interface{}) error
}

// NotificationService turns one authoring request into persisted delivery
// records plus live push events, and tracks per-recipient read state.
type NotificationService interface {
	CreateNotification(req *models.CreateNotificationRequest, creatorID uint) (*models.Notification, *apiError.Error)
	FindMyNotifications(userID uint) ([]models.UserNotification, error)
	FindAllNotifications() ([]models.UserNotification, error)
	GetUnreadCount(userID uint) (int64, error)
	MarkAsRead(notificationID, userID uint) error
	DeleteNotification(notificationID uint) *apiError.Error
}

type notificationService struct {
	notificationRepo db.NotificationRepository
	notifier         Notifier
}

func NewNotificationService(notificationRepo db.NotificationRepository, notifier Notifier) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		notifier:         notifier,
	}
}

// CreateNotification validates the audience before any write, persists the
// notification together with its delivery records in one transaction, and
// then pushes the live event. The push happens strictly after commit and its
// failure is logged and swallowed; clients that miss it pick the rows up on
// the next poll.
func (s *notificationService) CreateNotification(req *models.CreateNotificationRequest, creatorID uint) (*models.Notification, *apiError.Error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, apiError.New("title and description are required", http.StatusBadRequest)
	}

	recipients := req.Recipients
	if recipients == "" {
		recipients = models.RecipientsAll
	}

	var recipientIDs []uint
	if recipients == models.RecipientsAll {
		ids, err := s.notificationRepo.ListUserIDsExcept(creatorID)
		if err != nil {
			log.Printf("CreateNotification error listing audience: %v", err)
			return nil, apiError.ErrInternalServerError
		}
		recipientIDs = ids
	} else {
		id, err := strconv.ParseUint(recipients, 10, 64)
		if err != nil {
			return nil, apiError.New("invalid recipient id", http.StatusBadRequest)
		}
		exists, err := s.notificationRepo.UserExists(uint(id))
		if err != nil {
			log.Printf("CreateNotification error checking recipient: %v", err)
			return nil, apiError.ErrInternalServerError
		}
		if !exists {
			return nil, apiError.New("recipient does not exist", http.StatusBadRequest)
		}
		recipientIDs = []uint{uint(id)}
	}

	notification := &models.Notification{
		Title:       req.Title,
		Description: req.Description,
		CreatorID:   creatorID,
		Recipients:  recipients,
	}
	if err := s.notificationRepo.CreateWithFanout(notification, recipientIDs); err != nil {
		log.Printf("CreateNotification error persisting fan-out: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	s.emitCreated(notification, recipients, recipientIDs)

	return notification, nil
}

// emitCreated pushes the live event after the rows are committed.
func (s *notificationService) emitCreated(notification *models.Notification, recipients string, recipientIDs []uint) {
	if s.notifier == nil {
		return
	}

	if recipients == models.RecipientsAll {
		payload, err := s.notificationRepo.FirstDelivery(notification.ID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("emit %s: fetching delivery payload: %v", EventNotificationCreated, err)
			}
			// empty audience: nothing to push
			return
		}
		s.notifier.Broadcast(EventNotificationCreated, payload)
		return
	}

	delivery := models.UserNotification{
		UserID:         recipientIDs[0],
		NotificationID: notification.ID,
		Notification:   *notification,
	}
	if err := s.notifier.EmitToUser(recipientIDs[0], EventNotificationCreated, delivery); err != nil {
		log.Printf("emit %s to user %d: %v", EventNotificationCreated, recipientIDs[0], err)
	}
}

func (s *notificationService) FindMyNotifications(userID uint) ([]models.UserNotification, error) {
	return s.notificationRepo.FindUserNotifications(userID)
}

func (s *notificationService) FindAllNotifications() ([]models.UserNotification, error) {
	return s.notificationRepo.FindAllUserNotifications()
}

func (s *notificationService) GetUnreadCount(userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

// MarkAsRead is idempotent. A zero-row match means the notification was
// never delivered to this user, which is a legitimate no-op.
func (s *notificationService) MarkAsRead(notificationID, userID uint) error {
	_, err := s.notificationRepo.MarkViewed(notificationID, userID)
	return err
}

func (s *notificationService) DeleteNotification(notificationID uint) *apiError.Error {
	err := s.notificationRepo.DeleteNotificationCascade(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("notification not found", http.StatusNotFound)
		}
		log.Printf("DeleteNotification error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}
