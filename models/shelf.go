package models

// ShelfType enumerates the fixed bookshelves every user owns.
type ShelfType string

const (
	ShelfReading  ShelfType = "READING"
	ShelfPlanned  ShelfType = "PLANNED"
	ShelfFinished ShelfType = "FINISHED"
	ShelfFavorite ShelfType = "FAVORITE"
)

// ShelfTypes lists all shelf types in creation order.
var ShelfTypes = []ShelfType{ShelfReading, ShelfPlanned, ShelfFinished, ShelfFavorite}

// Bookshelf is one of a user's fixed shelves. A book sits on at most one
// shelf per user; moving it disconnects the previous shelf.
type Bookshelf struct {
	Model
	Type   ShelfType `json:"type" gorm:"not null;uniqueIndex:idx_user_shelf_type"`
	UserID uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_shelf_type"`
	Books  []Book    `gorm:"many2many:bookshelf_books;" json:"books"`
}

type AddBookToShelfRequest struct {
	BookID    uint      `json:"book_id" binding:"required"`
	ShelfType ShelfType `json:"shelf_type" binding:"required,oneof=READING PLANNED FINISHED FAVORITE"`
}
