package models

import "time"

// Chat is the single conversation a user keeps with the admin team
type Chat struct {
	Model
	UserID   uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Messages []Message `gorm:"foreignKey:ChatID" json:"messages"`
}

// Message is one chat message; IsAdmin marks messages authored by admins
type Message struct {
	Model
	ChatID  uint   `json:"chat_id" gorm:"not null"`
	UserID  uint   `json:"user_id" gorm:"not null"`
	User    *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content string `json:"content" gorm:"type:text;not null"`
	IsAdmin bool   `json:"is_admin" gorm:"default:false"`
	Viewed  bool   `json:"viewed" gorm:"default:false"`
}

// ChatMessage is the wire shape pushed to websocket clients.
type ChatMessage struct {
	ID        uint      `json:"id"`
	ChatID    uint      `json:"chat_id"`
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	IsAdmin   bool      `json:"is_admin"`
	Viewed    bool      `json:"viewed"`
	CreatedAt time.Time `json:"created_at"`
}

// ToChatMessage converts a persisted message to its wire shape.
func (m *Message) ToChatMessage() ChatMessage {
	cm := ChatMessage{
		ID:        m.ID,
		ChatID:    m.ChatID,
		UserID:    m.UserID,
		Content:   m.Content,
		IsAdmin:   m.IsAdmin,
		Viewed:    m.Viewed,
		CreatedAt: m.CreatedAt,
	}
	if m.User != nil {
		cm.UserName = m.User.Name
	}
	return cm
}

// CreateMessageRequest posts a message. ChatUserID selects whose chat an
// admin is replying into; regular users always write into their own.
type CreateMessageRequest struct {
	Content    string `json:"content" binding:"required"`
	ChatUserID uint   `json:"chat_user_id"`
}
