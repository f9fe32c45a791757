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

// NewsService manages the admin-authored announcement feed.
type NewsService interface {
	ListNews() ([]models.News, error)
	CreateNews(req *models.CreateNewsRequest) (*models.News, *apiError.Error)
	UpdateNews(id uint, req *models.UpdateNewsRequest) (*models.News, *apiError.Error)
	DeleteNews(id uint) *apiError.Error
}

type newsService struct {
	newsRepo db.NewsRepository
}

func NewNewsService(newsRepo db.NewsRepository) NewsService {
	return &newsService{newsRepo: newsRepo}
}

// ListNews returns announcements newest first.
func (s *newsService) ListNews() ([]models.News, error) {
	return s.newsRepo.FindAllNews()
}

func (s *newsService) CreateNews(req *models.CreateNewsRequest) (*models.News, *apiError.Error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, apiError.New("title and content are required", http.StatusBadRequest)
	}

	item, err := s.newsRepo.CreateNews(&models.News{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		log.Printf("CreateNews error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return item, nil
}

// UpdateNews overwrites only the fields present in the request.
func (s *newsService) UpdateNews(id uint, req *models.UpdateNewsRequest) (*models.News, *apiError.Error) {
	item, err := s.newsRepo.FindNewsByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("news item not found", http.StatusNotFound)
		}
		log.Printf("UpdateNews error loading item: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if req.Title != "" {
		item.Title = req.Title
	}
	if req.Content != "" {
		item.Content = req.Content
	}
	if req.ImageURL != "" {
		item.ImageURL = req.ImageURL
	}

	if err := s.newsRepo.UpdateNews(item); err != nil {
		log.Printf("UpdateNews error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return item, nil
}

func (s *newsService) DeleteNews(id uint) *apiError.Error {
	err := s.newsRepo.DeleteNews(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("news item not found", http.StatusNotFound)
		}
		log.Printf("DeleteNews error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}
