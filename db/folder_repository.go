package db

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/readhaven/readhaven/models"
)

type FolderRepository interface {
	InitUserFolders(userID uint) error
	InitUserShelves(userID uint) error
	CreateFolder(folder *models.Folder) (*models.Folder, error)
	FindUserFolders(userID uint) ([]models.Folder, error)
	FindFolder(folderID, userID uint) (*models.Folder, error)
	RenameFolder(folderID, userID uint, name string) error
	DeleteFolder(folderID, userID uint) error
	AddBookToFolder(folderID, bookID uint) error
	RemoveBookFromFolder(folderID, bookID uint) error
	FindUserShelves(userID uint) ([]models.Bookshelf, error)
	MoveBookToShelf(userID, bookID uint, shelfType models.ShelfType) error
	RemoveBookFromShelves(userID, bookID uint) error
}

type folderRepo struct {
	DB *gorm.DB
}

func NewFolderRepo(db *GormDB) FolderRepository {
	return &folderRepo{db.DB}
}

// InitUserFolders creates the default folders that are missing for the user.
func (f *folderRepo) InitUserFolders(userID uint) error {
	for _, name := range models.DefaultFolderNames {
		folder := models.Folder{Name: name, UserID: userID}
		err := f.DB.FirstOrCreate(&folder, models.Folder{Name: name, UserID: userID}).Error
		if err != nil {
			return errors.Wrap(err, "init folders")
		}
	}
	return nil
}

// InitUserShelves creates the fixed shelves that are missing for the user.
func (f *folderRepo) InitUserShelves(userID uint) error {
	for _, shelfType := range models.ShelfTypes {
		shelf := models.Bookshelf{Type: shelfType, UserID: userID}
		err := f.DB.FirstOrCreate(&shelf, models.Bookshelf{Type: shelfType, UserID: userID}).Error
		if err != nil {
			return errors.Wrap(err, "init shelves")
		}
	}
	return nil
}

func (f *folderRepo) CreateFolder(folder *models.Folder) (*models.Folder, error) {
	if err := f.DB.Create(folder).Error; err != nil {
		return nil, err
	}
	return folder, nil
}

func (f *folderRepo) FindUserFolders(userID uint) ([]models.Folder, error) {
	var folders []models.Folder
	err := f.DB.Preload("Books.Genres").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&folders).Error
	if err != nil {
		return nil, err
	}
	return folders, nil
}

func (f *folderRepo) FindFolder(folderID, userID uint) (*models.Folder, error) {
	var folder models.Folder
	err := f.DB.Preload("Books").
		Where("id = ? AND user_id = ?", folderID, userID).
		First(&folder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &folder, nil
}

func (f *folderRepo) RenameFolder(folderID, userID uint, name string) error {
	result := f.DB.Model(&models.Folder{}).
		Where("id = ? AND user_id = ?", folderID, userID).
		Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (f *folderRepo) DeleteFolder(folderID, userID uint) error {
	return f.DB.Transaction(func(tx *gorm.DB) error {
		var folder models.Folder
		if err := tx.Where("id = ? AND user_id = ?", folderID, userID).First(&folder).Error; err != nil {
			return err
		}
		if err := tx.Model(&folder).Association("Books").Clear(); err != nil {
			return errors.Wrap(err, "clear folder books")
		}
		return tx.Delete(&folder).Error
	})
}

func (f *folderRepo) AddBookToFolder(folderID, bookID uint) error {
	folder := models.Folder{Model: models.Model{ID: folderID}}
	book := models.Book{Model: models.Model{ID: bookID}}
	return f.DB.Model(&folder).Association("Books").Append(&book)
}

func (f *folderRepo) RemoveBookFromFolder(folderID, bookID uint) error {
	folder := models.Folder{Model: models.Model{ID: folderID}}
	book := models.Book{Model: models.Model{ID: bookID}}
	return f.DB.Model(&folder).Association("Books").Delete(&book)
}

func (f *folderRepo) FindUserShelves(userID uint) ([]models.Bookshelf, error) {
	var shelves []models.Bookshelf
	err := f.DB.Preload("Books.Genres").
		Where("user_id = ?", userID).
		Find(&shelves).Error
	if err != nil {
		return nil, err
	}
	return shelves, nil
}

// MoveBookToShelf puts the book on the requested shelf, removing it from any
// other shelf the user keeps it on first.
func (f *folderRepo) MoveBookToShelf(userID, bookID uint, shelfType models.ShelfType) error {
	return f.DB.Transaction(func(tx *gorm.DB) error {
		var target models.Bookshelf
		err := tx.Where("user_id = ? AND type = ?", userID, shelfType).First(&target).Error
		if err != nil {
			return err
		}

		err = tx.Exec(`DELETE FROM bookshelf_books WHERE book_id = ?
			AND bookshelf_id IN (SELECT id FROM bookshelves WHERE user_id = ?)`,
			bookID, userID).Error
		if err != nil {
			return errors.Wrap(err, "disconnect previous shelf")
		}

		book := models.Book{Model: models.Model{ID: bookID}}
		return tx.Model(&target).Association("Books").Append(&book)
	})
}

func (f *folderRepo) RemoveBookFromShelves(userID, bookID uint) error {
	return f.DB.Exec(`DELETE FROM bookshelf_books WHERE book_id = ?
		AND bookshelf_id IN (SELECT id FROM bookshelves WHERE user_id = ?)`,
		bookID, userID).Error
}
