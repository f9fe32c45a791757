package models

// Folder is a user-named collection of books. Folder names are unique per user.
type Folder struct {
	Model
	Name   string `json:"name" gorm:"not null;uniqueIndex:idx_user_folder_name" conform:"trim"`
	UserID uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_user_folder_name"`
	Books  []Book `gorm:"many2many:folder_books;" json:"books"`
}

// DefaultFolderNames are created for every user at signup.
var DefaultFolderNames = []string{"Favorites", "Reading now", "Finished"}

type CreateFolderRequest struct {
	Name string `json:"name" binding:"required"`
}
