package db

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/readhaven/readhaven/models"
)

type BookmarkRepository interface {
	CreateBookmark(bookmark *models.Bookmark) (*models.Bookmark, error)
	FindBookmarkByID(id uint) (*models.Bookmark, error)
	FindBookmarksByUser(userID uint) ([]models.Bookmark, error)
	FindBookmarksByBook(bookID, userID uint) ([]models.Bookmark, error)
	ExistsOnPage(userID, bookID uint, pageNumber int) (bool, error)
	UpdateBookmark(bookmark *models.Bookmark) error
	DeleteBookmark(id uint) error
}

type bookmarkRepo struct {
	DB *gorm.DB
}

func NewBookmarkRepo(db *GormDB) BookmarkRepository {
	return &bookmarkRepo{db.DB}
}

func (b *bookmarkRepo) CreateBookmark(bookmark *models.Bookmark) (*models.Bookmark, error) {
	if err := b.DB.Create(bookmark).Error; err != nil {
		return nil, err
	}
	return b.FindBookmarkByID(bookmark.ID)
}

func (b *bookmarkRepo) FindBookmarkByID(id uint) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	err := b.DB.Preload("Book").First(&bookmark, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &bookmark, nil
}

func (b *bookmarkRepo) FindBookmarksByUser(userID uint) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := b.DB.Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

func (b *bookmarkRepo) FindBookmarksByBook(bookID, userID uint) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := b.DB.
		Where("book_id = ? AND user_id = ?", bookID, userID).
		Order("page_number ASC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

func (b *bookmarkRepo) ExistsOnPage(userID, bookID uint, pageNumber int) (bool, error) {
	var count int64
	err := b.DB.Model(&models.Bookmark{}).
		Where("user_id = ? AND book_id = ? AND page_number = ?", userID, bookID, pageNumber).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "gorm count error")
	}
	return count > 0, nil
}

func (b *bookmarkRepo) UpdateBookmark(bookmark *models.Bookmark) error {
	return b.DB.Save(bookmark).Error
}

func (b *bookmarkRepo) DeleteBookmark(id uint) error {
	result := b.DB.Delete(&models.Bookmark{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
