package db

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/readhaven/readhaven/models"
)

// WelcomeMessage seeds every newly created chat.
const WelcomeMessage = "Welcome! How can we help you?"

type ChatRepository interface {
	FindChatByUserID(userID uint) (*models.Chat, error)
	// FindOrCreateChat returns the user's chat, creating it with a welcome
	// message from adminID when it does not exist yet.
	FindOrCreateChat(userID, adminID uint) (*models.Chat, error)
	SaveMessage(message *models.Message) (*models.Message, error)
	MarkUserMessagesViewed(chatID uint) error
	ListChatUsers(search string) ([]models.User, error)
}

type chatRepo struct {
	DB *gorm.DB
}

func NewChatRepo(db *GormDB) ChatRepository {
	return &chatRepo{db.DB}
}

func (c *chatRepo) FindChatByUserID(userID uint) (*models.Chat, error) {
	var chat models.Chat
	err := c.DB.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("messages.created_at ASC")
	}).Preload("Messages.User").
		Where("user_id = ?", userID).
		First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (c *chatRepo) FindOrCreateChat(userID, adminID uint) (*models.Chat, error) {
	chat, err := c.FindChatByUserID(userID)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = c.DB.Transaction(func(tx *gorm.DB) error {
		newChat := models.Chat{UserID: userID}
		if err := tx.Create(&newChat).Error; err != nil {
			return errors.Wrap(err, "create chat")
		}
		welcome := models.Message{
			ChatID:  newChat.ID,
			UserID:  adminID,
			Content: WelcomeMessage,
			IsAdmin: true,
		}
		return tx.Create(&welcome).Error
	})
	if err != nil {
		return nil, err
	}

	return c.FindChatByUserID(userID)
}

func (c *chatRepo) SaveMessage(message *models.Message) (*models.Message, error) {
	if err := c.DB.Create(message).Error; err != nil {
		return nil, err
	}

	var saved models.Message
	if err := c.DB.Preload("User").First(&saved, message.ID).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// MarkUserMessagesViewed marks all unviewed user-authored messages in the
// chat as viewed. Called when an admin opens the conversation.
func (c *chatRepo) MarkUserMessagesViewed(chatID uint) error {
	return c.DB.Model(&models.Message{}).
		Where("chat_id = ? AND is_admin = ? AND viewed = ?", chatID, false, false).
		Update("viewed", true).Error
}

func (c *chatRepo) ListChatUsers(search string) ([]models.User, error) {
	query := c.DB.Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", models.RoleUser).
		Order("users.created_at DESC")
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(users.name) LIKE LOWER(?) OR LOWER(users.email) LIKE LOWER(?)", pattern, pattern)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
