package models

import "time"

// Comment is a reader's note under a book
type Comment struct {
	Model
	Content string `json:"content" gorm:"type:text;not null"`
	BookID  uint   `json:"book_id" gorm:"not null;index"`
	UserID  uint   `json:"user_id" gorm:"not null"`
	User    *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// CommentResponse is the wire shape returned to clients and pushed over the
// socket; the author is reduced to id and name.
type CommentResponse struct {
	ID        uint      `json:"id"`
	BookID    uint      `json:"book_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	} `json:"user"`
}

// ToResponse converts a persisted comment to its wire shape.
func (c *Comment) ToResponse() CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		BookID:    c.BookID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
	if c.User != nil {
		resp.Author.ID = c.User.ID
		resp.Author.Name = c.User.Name
	}
	return resp
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}
