package db

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/readhaven/readhaven/models"
)

type NewsRepository interface {
	CreateNews(item *models.News) (*models.News, error)
	FindAllNews() ([]models.News, error)
	FindNewsByID(id uint) (*models.News, error)
	UpdateNews(item *models.News) error
	DeleteNews(id uint) error
}

type newsRepo struct {
	DB *gorm.DB
}

func NewNewsRepo(db *GormDB) NewsRepository {
	return &newsRepo{db.DB}
}

func (r *newsRepo) CreateNews(item *models.News) (*models.News, error) {
	if err := r.DB.Create(item).Error; err != nil {
		return nil, errors.Wrap(err, "create news")
	}
	return item, nil
}

func (r *newsRepo) FindAllNews() ([]models.News, error) {
	var items []models.News
	if err := r.DB.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *newsRepo) FindNewsByID(id uint) (*models.News, error) {
	var item models.News
	err := r.DB.First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *newsRepo) UpdateNews(item *models.News) error {
	return r.DB.Save(item).Error
}

func (r *newsRepo) DeleteNews(id uint) error {
	result := r.DB.Delete(&models.News{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
