package models

// Book represents an uploaded book (PDF plus optional cover)
type Book struct {
	Model
	Title        string  `json:"title" gorm:"not null" binding:"required" conform:"trim"`
	Author       string  `json:"author" conform:"trim"`
	Description  string  `json:"description"`
	FilePath     string  `json:"file_path"`
	ImageURL     string  `json:"image_url"`
	ThumbnailURL string  `json:"thumbnail_url"`
	UserID       uint    `json:"user_id" gorm:"not null"`
	User         *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Genres       []Genre `gorm:"many2many:book_genres;" json:"genres"`
}

// Genre is a fixed catalog entry linked many-to-many to books
type Genre struct {
	Model
	Name string `json:"name" gorm:"unique;not null"`
}

// BookWithWeight decorates a book with its feed score for the caller.
type BookWithWeight struct {
	Book
	Weight int `json:"weight"`
}

type CreateBookRequest struct {
	Title       string `form:"title" binding:"required"`
	Author      string `form:"author"`
	Description string `form:"description"`
	GenreIDs    []uint `form:"genre_ids"`
}

type UpdateBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	GenreIDs    []uint `json:"genre_ids"`
}
