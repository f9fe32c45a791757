package services

import (
	"log"
	"net/http"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/readhaven/readhaven/db"
	apiError "github.com/readhaven/readhaven/errors"
	"github.com/readhaven/readhaven/models"
)

// BookmarkService manages per-user page bookmarks inside books.
type BookmarkService interface {
	CreateBookmark(req *models.CreateBookmarkRequest, userID uint) (*models.Bookmark, *apiError.Error)
	GetUserBookmarks(userID uint) ([]models.Bookmark, error)
	GetBookBookmarks(bookID, userID uint) ([]models.Bookmark, error)
	UpdateBookmark(id uint, req *models.UpdateBookmarkRequest, userID uint) (*models.Bookmark, *apiError.Error)
	DeleteBookmark(id, userID uint) *apiError.Error
}

type bookmarkService struct {
	bookmarkRepo db.BookmarkRepository
	bookRepo     db.BookRepository
}

func NewBookmarkService(bookmarkRepo db.BookmarkRepository, bookRepo db.BookRepository) BookmarkService {
	return &bookmarkService{
		bookmarkRepo: bookmarkRepo,
		bookRepo:     bookRepo,
	}
}

// CreateBookmark rejects a second bookmark on the same page of the same book.
func (s *bookmarkService) CreateBookmark(req *models.CreateBookmarkRequest, userID uint) (*models.Bookmark, *apiError.Error) {
	if _, err := s.bookRepo.FindBookByID(req.BookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("book not found", http.StatusNotFound)
		}
		return nil, apiError.ErrInternalServerError
	}

	exists, err := s.bookmarkRepo.ExistsOnPage(userID, req.BookID, req.PageNumber)
	if err != nil {
		log.Printf("CreateBookmark error checking page: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if exists {
		return nil, apiError.New("a bookmark already exists on this page", http.StatusConflict)
	}

	color := req.Color
	if color == "" {
		color = models.DefaultBookmarkColor
	}

	bookmark := &models.Bookmark{
		UserID:     userID,
		BookID:     req.BookID,
		PageNumber: req.PageNumber,
		Label:      req.Label,
		Color:      color,
	}
	created, err := s.bookmarkRepo.CreateBookmark(bookmark)
	if err != nil {
		log.Printf("CreateBookmark error: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}
	return created, nil
}

func (s *bookmarkService) GetUserBookmarks(userID uint) ([]models.Bookmark, error) {
	return s.bookmarkRepo.FindBookmarksByUser(userID)
}

func (s *bookmarkService) GetBookBookmarks(bookID, userID uint) ([]models.Bookmark, error) {
	return s.bookmarkRepo.FindBookmarksByBook(bookID, userID)
}

func (s *bookmarkService) UpdateBookmark(id uint, req *models.UpdateBookmarkRequest, userID uint) (*models.Bookmark, *apiError.Error) {
	bookmark, apiErr := s.getOwnedBookmark(id, userID)
	if apiErr != nil {
		return nil, apiErr
	}

	if req.Label != "" {
		bookmark.Label = req.Label
	}
	if req.Color != "" {
		bookmark.Color = req.Color
	}
	if req.PageNumber > 0 && req.PageNumber != bookmark.PageNumber {
		exists, err := s.bookmarkRepo.ExistsOnPage(userID, bookmark.BookID, req.PageNumber)
		if err != nil {
			return nil, apiError.ErrInternalServerError
		}
		if exists {
			return nil, apiError.New("a bookmark already exists on this page", http.StatusConflict)
		}
		bookmark.PageNumber = req.PageNumber
	}

	if err := s.bookmarkRepo.UpdateBookmark(bookmark); err != nil {
		log.Printf("UpdateBookmark error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return bookmark, nil
}

func (s *bookmarkService) DeleteBookmark(id, userID uint) *apiError.Error {
	if _, apiErr := s.getOwnedBookmark(id, userID); apiErr != nil {
		return apiErr
	}
	if err := s.bookmarkRepo.DeleteBookmark(id); err != nil {
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *bookmarkService) getOwnedBookmark(id, userID uint) (*models.Bookmark, *apiError.Error) {
	bookmark, err := s.bookmarkRepo.FindBookmarkByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("bookmark not found", http.StatusNotFound)
		}
		return nil, apiError.ErrInternalServerError
	}
	if bookmark.UserID != userID {
		return nil, apiError.New("you do not own this bookmark", http.StatusForbidden)
	}
	return bookmark, nil
}
