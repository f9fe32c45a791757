package db

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/readhaven/readhaven/models"
)

type CommentRepository interface {
	CreateComment(comment *models.Comment) (*models.Comment, error)
	FindCommentByID(id uint) (*models.Comment, error)
	FindCommentsByBookID(bookID uint) ([]models.Comment, error)
	DeleteComment(id uint) error
}

type commentRepo struct {
	DB *gorm.DB
}

func NewCommentRepo(db *GormDB) CommentRepository {
	return &commentRepo{db.DB}
}

func (r *commentRepo) CreateComment(comment *models.Comment) (*models.Comment, error) {
	if err := r.DB.Create(comment).Error; err != nil {
		return nil, errors.Wrap(err, "create comment")
	}
	return r.FindCommentByID(comment.ID)
}

func (r *commentRepo) FindCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.DB.Preload("User").First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepo) FindCommentsByBookID(bookID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.DB.Preload("User").
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepo) DeleteComment(id uint) error {
	return r.DB.Delete(&models.Comment{}, id).Error
}
