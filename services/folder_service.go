package services

import (
	"log"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/readhaven/readhaven/db"
	apiError "github.com/readhaven/readhaven/errors"
	"github.com/readhaven/readhaven/models"
)

// FolderService covers both the user's custom folders and the fixed
// reading-status shelves.
type FolderService interface {
	CreateFolder(userID uint, name string) (*models.Folder, *apiError.Error)
	GetUserFolders(userID uint) ([]models.Folder, error)
	RenameFolder(folderID, userID uint, name string) *apiError.Error
	DeleteFolder(folderID, userID uint) *apiError.Error
	AddBookToFolder(folderID, bookID, userID uint) *apiError.Error
	RemoveBookFromFolder(folderID, bookID, userID uint) *apiError.Error
	GetUserShelves(userID uint) ([]models.Bookshelf, error)
	MoveBookToShelf(userID, bookID uint, shelfType models.ShelfType) *apiError.Error
	RemoveBookFromShelves(userID, bookID uint) *apiError.Error
}

type folderService struct {
	folderRepo db.FolderRepository
	bookRepo   db.BookRepository
}

func NewFolderService(folderRepo db.FolderRepository, bookRepo db.BookRepository) FolderService {
	return &folderService{
		folderRepo: folderRepo,
		bookRepo:   bookRepo,
	}
}

func (s *folderService) CreateFolder(userID uint, name string) (*models.Folder, *apiError.Error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apiError.New("folder name is required", http.StatusBadRequest)
	}

	folder, err := s.folderRepo.CreateFolder(&models.Folder{Name: name, UserID: userID})
	if err != nil {
		log.Printf("CreateFolder error: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}
	return folder, nil
}

func (s *folderService) GetUserFolders(userID uint) ([]models.Folder, error) {
	return s.folderRepo.FindUserFolders(userID)
}

func (s *folderService) RenameFolder(folderID, userID uint, name string) *apiError.Error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apiError.New("folder name is required", http.StatusBadRequest)
	}

	if err := s.folderRepo.RenameFolder(folderID, userID, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("folder not found", http.StatusNotFound)
		}
		return apiError.GetUniqueContraintError(err)
	}
	return nil
}

func (s *folderService) DeleteFolder(folderID, userID uint) *apiError.Error {
	if err := s.folderRepo.DeleteFolder(folderID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("folder not found", http.StatusNotFound)
		}
		log.Printf("DeleteFolder error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *folderService) AddBookToFolder(folderID, bookID, userID uint) *apiError.Error {
	if apiErr := s.checkFolderAndBook(folderID, bookID, userID); apiErr != nil {
		return apiErr
	}
	if err := s.folderRepo.AddBookToFolder(folderID, bookID); err != nil {
		log.Printf("AddBookToFolder error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *folderService) RemoveBookFromFolder(folderID, bookID, userID uint) *apiError.Error {
	if apiErr := s.checkFolderAndBook(folderID, bookID, userID); apiErr != nil {
		return apiErr
	}
	if err := s.folderRepo.RemoveBookFromFolder(folderID, bookID); err != nil {
		log.Printf("RemoveBookFromFolder error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *folderService) GetUserShelves(userID uint) ([]models.Bookshelf, error) {
	return s.folderRepo.FindUserShelves(userID)
}

// MoveBookToShelf keeps the invariant that a book sits on at most one of the
// user's shelves at a time.
func (s *folderService) MoveBookToShelf(userID, bookID uint, shelfType models.ShelfType) *apiError.Error {
	if _, err := s.bookRepo.FindBookByID(bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("book not found", http.StatusNotFound)
		}
		return apiError.ErrInternalServerError
	}

	if err := s.folderRepo.MoveBookToShelf(userID, bookID, shelfType); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("shelf not found", http.StatusNotFound)
		}
		log.Printf("MoveBookToShelf error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *folderService) RemoveBookFromShelves(userID, bookID uint) *apiError.Error {
	if err := s.folderRepo.RemoveBookFromShelves(userID, bookID); err != nil {
		log.Printf("RemoveBookFromShelves error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *folderService) checkFolderAndBook(folderID, bookID, userID uint) *apiError.Error {
	if _, err := s.folderRepo.FindFolder(folderID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("folder not found", http.StatusNotFound)
		}
		return apiError.ErrInternalServerError
	}
	if _, err := s.bookRepo.FindBookByID(bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("book not found", http.StatusNotFound)
		}
		return apiError.ErrInternalServerError
	}
	return nil
}
