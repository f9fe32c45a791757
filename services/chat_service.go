package services

import (
	"log"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/readhaven/readhaven/db"
	apiError "github.com/readhaven/readhaven/errors"
	"github.com/readhaven/readhaven/models"
)

// EventChatMessage is the realtime event pushed for each new chat message.
const EventChatMessage = "chat.message"

// ChatNotifier pushes chat events to the live support channel. User messages
// fan out to every connected admin; admin replies go to the single user.
type ChatNotifier interface {
	EmitToUser(userID uint, event string, payload interface{}) error
	EmitToAdmins(event string, payload interface{})
}

// ChatService runs the user-to-support conversation.
type ChatService interface {
	GetOrCreateChat(userID uint) (*models.Chat, *apiError.Error)
	GetChatForAdmin(userID uint) (*models.Chat, *apiError.Error)
	CreateMessage(req *models.CreateMessageRequest, sender *models.User) (*models.Message, *apiError.Error)
	ListChatUsers(search string) ([]models.User, error)
}

type chatService struct {
	chatRepo db.ChatRepository
	authRepo db.AuthRepository
	notifier ChatNotifier
}

func NewChatService(chatRepo db.ChatRepository, authRepo db.AuthRepository, notifier ChatNotifier) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		authRepo: authRepo,
		notifier: notifier,
	}
}

// GetOrCreateChat returns the user's support chat, opening it with a welcome
// message on first access.
func (s *chatService) GetOrCreateChat(userID uint) (*models.Chat, *apiError.Error) {
	admin, err := s.authRepo.FindFirstAdmin()
	if err != nil {
		log.Printf("GetOrCreateChat error finding support admin: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	chat, err := s.chatRepo.FindOrCreateChat(userID, admin.ID)
	if err != nil {
		log.Printf("GetOrCreateChat error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return chat, nil
}

// GetChatForAdmin loads a user's chat and marks their messages viewed.
func (s *chatService) GetChatForAdmin(userID uint) (*models.Chat, *apiError.Error) {
	chat, err := s.chatRepo.FindChatByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("chat not found", http.StatusNotFound)
		}
		return nil, apiError.ErrInternalServerError
	}

	if err := s.chatRepo.MarkUserMessagesViewed(chat.ID); err != nil {
		log.Printf("GetChatForAdmin error marking viewed: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return chat, nil
}

// CreateMessage persists the message and pushes it live. When an admin writes
// into a user's chat the message is flagged as an admin reply; push failures
// are logged and swallowed.
func (s *chatService) CreateMessage(req *models.CreateMessageRequest, sender *models.User) (*models.Message, *apiError.Error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, apiError.New("message content is required", http.StatusBadRequest)
	}

	chatUserID := sender.ID
	if sender.IsAdmin() && req.ChatUserID != 0 {
		chatUserID = req.ChatUserID
	}

	chat, apiErr := s.GetOrCreateChat(chatUserID)
	if apiErr != nil {
		return nil, apiErr
	}

	message := &models.Message{
		ChatID:  chat.ID,
		UserID:  sender.ID,
		Content: req.Content,
		IsAdmin: sender.IsAdmin(),
	}
	saved, err := s.chatRepo.SaveMessage(message)
	if err != nil {
		log.Printf("CreateMessage error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	s.emitMessage(chatUserID, saved)

	return saved, nil
}

func (s *chatService) ListChatUsers(search string) ([]models.User, error) {
	return s.chatRepo.ListChatUsers(search)
}

func (s *chatService) emitMessage(chatUserID uint, message *models.Message) {
	if s.notifier == nil {
		return
	}

	payload := message.ToChatMessage()
	if message.IsAdmin {
		if err := s.notifier.EmitToUser(chatUserID, EventChatMessage, payload); err != nil {
			log.Printf("emit %s to user %d: %v", EventChatMessage, chatUserID, err)
		}
		return
	}

	s.notifier.EmitToAdmins(EventChatMessage, payload)
	// echo to the author so their other open sessions stay in sync
	if err := s.notifier.EmitToUser(chatUserID, EventChatMessage, payload); err != nil {
		log.Printf("echo %s to user %d: %v", EventChatMessage, chatUserID, err)
	}
}
