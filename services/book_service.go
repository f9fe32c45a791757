package services

import (
	"context"
	"log"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/readhaven/readhaven/db"
	apiError "github.com/readhaven/readhaven/errors"
	"github.com/readhaven/readhaven/models"
)

const (
	bookBaseWeight     = 1
	followedAuthorBump = 2
)

// BookService interface
type BookService interface {
	CreateBook(ctx context.Context, req *models.CreateBookRequest, file multipart.File, fileHeader *multipart.FileHeader, cover multipart.File, coverHeader *multipart.FileHeader, userID uint) (*models.Book, *apiError.Error)
	GetBook(id uint) (*models.Book, *apiError.Error)
	FindAllBooks(genreIDs []uint) ([]models.Book, error)
	// FindAllWithWeights returns the catalogue ranked for the given viewer:
	// books uploaded by authors the viewer follows sort ahead of the rest,
	// equal weights keeping their recency order.
	FindAllWithWeights(viewerID uint, genreIDs []uint) ([]models.BookWithWeight, error)
	FindBooksByUser(userID uint) ([]models.Book, error)
	UpdateBook(id uint, req *models.UpdateBookRequest, userID uint, isAdmin bool) (*models.Book, *apiError.Error)
	UpdateBookCover(ctx context.Context, id uint, cover multipart.File, coverHeader *multipart.FileHeader, userID uint, isAdmin bool) (*models.Book, *apiError.Error)
	DeleteBook(id uint, userID uint, isAdmin bool) *apiError.Error
	FindAllGenres() ([]models.Genre, error)
}

type bookService struct {
	bookRepo db.BookRepository
	authRepo db.AuthRepository
	media    MediaService
}

// NewBookService instantiate a bookService
func NewBookService(bookRepo db.BookRepository, authRepo db.AuthRepository, media MediaService) BookService {
	return &bookService{
		bookRepo: bookRepo,
		authRepo: authRepo,
		media:    media,
	}
}

func (s *bookService) CreateBook(ctx context.Context, req *models.CreateBookRequest, file multipart.File, fileHeader *multipart.FileHeader, cover multipart.File, coverHeader *multipart.FileHeader, userID uint) (*models.Book, *apiError.Error) {
	filePath, err := s.media.UploadBookFile(ctx, file, fileHeader)
	if err != nil {
		log.Printf("CreateBook error uploading file: %v", err)
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	var imageURL, thumbnailURL string
	if cover != nil {
		imageURL, thumbnailURL, err = s.media.UploadCover(ctx, cover, coverHeader)
		if err != nil {
			log.Printf("CreateBook error uploading cover: %v", err)
			return nil, apiError.New(err.Error(), http.StatusBadRequest)
		}
	}

	book := &models.Book{
		Title:        req.Title,
		Author:       req.Author,
		Description:  req.Description,
		FilePath:     filePath,
		ImageURL:     imageURL,
		ThumbnailURL: thumbnailURL,
		UserID:       userID,
	}
	created, err := s.bookRepo.CreateBook(book, req.GenreIDs)
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}
	return created, nil
}

func (s *bookService) GetBook(id uint) (*models.Book, *apiError.Error) {
	book, err := s.bookRepo.FindBookByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("book not found", http.StatusNotFound)
		}
		return nil, apiError.ErrInternalServerError
	}
	return book, nil
}

func (s *bookService) FindAllBooks(genreIDs []uint) ([]models.Book, error) {
	return s.bookRepo.FindAllBooks(genreIDs)
}

func (s *bookService) FindAllWithWeights(viewerID uint, genreIDs []uint) ([]models.BookWithWeight, error) {
	books, err := s.bookRepo.FindAllBooks(genreIDs)
	if err != nil {
		return nil, err
	}

	followedIDs, err := s.authRepo.ListFollowingIDs(viewerID)
	if err != nil {
		return nil, err
	}
	followed := make(map[uint]bool, len(followedIDs))
	for _, id := range followedIDs {
		followed[id] = true
	}

	weighted := make([]models.BookWithWeight, 0, len(books))
	for _, book := range books {
		weight := bookBaseWeight
		if followed[book.UserID] {
			weight += followedAuthorBump
		}
		weighted = append(weighted, models.BookWithWeight{Book: book, Weight: weight})
	}

	sort.SliceStable(weighted, func(i, j int) bool {
		return weighted[i].Weight > weighted[j].Weight
	})
	return weighted, nil
}

func (s *bookService) FindBooksByUser(userID uint) ([]models.Book, error) {
	return s.bookRepo.FindBooksByUserID(userID)
}

func (s *bookService) UpdateBook(id uint, req *models.UpdateBookRequest, userID uint, isAdmin bool) (*models.Book, *apiError.Error) {
	book, apiErr := s.getOwnedBook(id, userID, isAdmin)
	if apiErr != nil {
		return nil, apiErr
	}

	if req.Title != "" {
		book.Title = req.Title
	}
	if req.Author != "" {
		book.Author = req.Author
	}
	if req.Description != "" {
		book.Description = req.Description
	}

	if err := s.bookRepo.UpdateBook(book, req.GenreIDs); err != nil {
		log.Printf("UpdateBook error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return s.GetBook(id)
}

func (s *bookService) UpdateBookCover(ctx context.Context, id uint, cover multipart.File, coverHeader *multipart.FileHeader, userID uint, isAdmin bool) (*models.Book, *apiError.Error) {
	if _, apiErr := s.getOwnedBook(id, userID, isAdmin); apiErr != nil {
		return nil, apiErr
	}

	imageURL, thumbnailURL, err := s.media.UploadCover(ctx, cover, coverHeader)
	if err != nil {
		log.Printf("UpdateBookCover error uploading: %v", err)
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	if err := s.bookRepo.UpdateBookCover(id, imageURL, thumbnailURL); err != nil {
		return nil, apiError.ErrInternalServerError
	}
	return s.GetBook(id)
}

func (s *bookService) DeleteBook(id uint, userID uint, isAdmin bool) *apiError.Error {
	if _, apiErr := s.getOwnedBook(id, userID, isAdmin); apiErr != nil {
		return apiErr
	}

	if err := s.bookRepo.DeleteBookCascade(id); err != nil {
		log.Printf("DeleteBook error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *bookService) FindAllGenres() ([]models.Genre, error) {
	return s.bookRepo.FindAllGenres()
}

// getOwnedBook loads the book and checks the caller may modify it.
func (s *bookService) getOwnedBook(id, userID uint, isAdmin bool) (*models.Book, *apiError.Error) {
	book, err := s.bookRepo.FindBookByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("book not found", http.StatusNotFound)
		}
		return nil, apiError.ErrInternalServerError
	}
	if book.UserID != userID && !isAdmin {
		return nil, apiError.New("you do not own this book", http.StatusForbidden)
	}
	return book, nil
}
