package models

// DefaultBookmarkColor is applied when a bookmark is created without one.
const DefaultBookmarkColor = "#3B82F6"

// Bookmark marks a page of a book for one user. A user may keep at most one
// bookmark per page of a book.
type Bookmark struct {
	Model
	UserID     uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_user_book_page"`
	BookID     uint   `json:"book_id" gorm:"not null;uniqueIndex:idx_user_book_page"`
	PageNumber int    `json:"page_number" gorm:"not null;uniqueIndex:idx_user_book_page"`
	Label      string `json:"label"`
	Color      string `json:"color"`
	Book       *Book  `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

type CreateBookmarkRequest struct {
	BookID     uint   `json:"book_id" binding:"required"`
	PageNumber int    `json:"page_number" binding:"required,min=1"`
	Label      string `json:"label"`
	Color      string `json:"color"`
}

type UpdateBookmarkRequest struct {
	PageNumber int    `json:"page_number"`
	Label      string `json:"label"`
	Color      string `json:"color"`
}
