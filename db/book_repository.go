package db

import (
	"log"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/readhaven/readhaven/models"
)

type BookRepository interface {
	CreateBook(book *models.Book, genreIDs []uint) (*models.Book, error)
	FindBookByID(id uint) (*models.Book, error)
	FindAllBooks(genreIDs []uint) ([]models.Book, error)
	FindBooksByUserID(userID uint) ([]models.Book, error)
	UpdateBook(book *models.Book, genreIDs []uint) error
	UpdateBookCover(id uint, imageURL, thumbnailURL string) error
	DeleteBookCascade(id uint) error
	FindGenresByIDs(ids []uint) ([]models.Genre, error)
	FindAllGenres() ([]models.Genre, error)
}

type bookRepo struct {
	DB *gorm.DB
}

func NewBookRepo(db *GormDB) BookRepository {
	return &bookRepo{db.DB}
}

func (b *bookRepo) CreateBook(book *models.Book, genreIDs []uint) (*models.Book, error) {
	if book == nil {
		return nil, errors.New("book is nil")
	}

	err := b.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(book).Error; err != nil {
			return err
		}
		if len(genreIDs) > 0 {
			var genres []models.Genre
			if err := tx.Where("id IN ?", genreIDs).Find(&genres).Error; err != nil {
				return err
			}
			if err := tx.Model(book).Association("Genres").Replace(&genres); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("CreateBook error: %v", err)
		return nil, err
	}

	return b.FindBookByID(book.ID)
}

func (b *bookRepo) FindBookByID(id uint) (*models.Book, error) {
	var book models.Book
	err := b.DB.Preload("Genres").Preload("User").First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &book, nil
}

func (b *bookRepo) FindAllBooks(genreIDs []uint) ([]models.Book, error) {
	var books []models.Book
	query := b.DB.Preload("Genres").Preload("User").Order("created_at DESC")
	if len(genreIDs) > 0 {
		query = query.
			Joins("JOIN book_genres ON book_genres.book_id = books.id").
			Where("book_genres.genre_id IN ?", genreIDs).
			Distinct()
	}
	if err := query.Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (b *bookRepo) FindBooksByUserID(userID uint) ([]models.Book, error) {
	var books []models.Book
	err := b.DB.Preload("Genres").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

func (b *bookRepo) UpdateBook(book *models.Book, genreIDs []uint) error {
	return b.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(book).Error; err != nil {
			return err
		}
		if genreIDs != nil {
			var genres []models.Genre
			if err := tx.Where("id IN ?", genreIDs).Find(&genres).Error; err != nil {
				return err
			}
			if err := tx.Model(book).Association("Genres").Replace(&genres); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *bookRepo) UpdateBookCover(id uint, imageURL, thumbnailURL string) error {
	result := b.DB.Model(&models.Book{}).Where("id = ?", id).Updates(map[string]interface{}{
		"image_url":     imageURL,
		"thumbnail_url": thumbnailURL,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteBookCascade removes the book's bookmarks, comments and its
// shelf/folder/genre links before the book row itself, all in one transaction.
func (b *bookRepo) DeleteBookCascade(id uint) error {
	return b.DB.Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, id).Error; err != nil {
			return err
		}

		if err := tx.Where("book_id = ?", id).Delete(&models.Bookmark{}).Error; err != nil {
			return errors.Wrap(err, "delete bookmarks")
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return errors.Wrap(err, "delete comments")
		}
		if err := tx.Model(&book).Association("Genres").Clear(); err != nil {
			return errors.Wrap(err, "clear genres")
		}
		if err := tx.Exec("DELETE FROM bookshelf_books WHERE book_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "clear shelves")
		}
		if err := tx.Exec("DELETE FROM folder_books WHERE book_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "clear folders")
		}

		return tx.Delete(&book).Error
	})
}

func (b *bookRepo) FindGenresByIDs(ids []uint) ([]models.Genre, error) {
	var genres []models.Genre
	if err := b.DB.Where("id IN ?", ids).Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

func (b *bookRepo) FindAllGenres() ([]models.Genre, error) {
	var genres []models.Genre
	if err := b.DB.Order("name ASC").Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}
