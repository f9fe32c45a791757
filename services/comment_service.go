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

// Realtime events pushed when a book's comment thread changes. Payloads carry
// the book id so clients viewing other books can ignore them.
const (
	EventCommentCreated = "comment.created"
	EventCommentDeleted = "comment.deleted"
)

// CommentService runs the per-book comment threads.
type CommentService interface {
	CreateComment(bookID uint, req *models.CreateCommentRequest, author *models.User) (*models.CommentResponse, *apiError.Error)
	ListBookComments(bookID uint) ([]models.CommentResponse, *apiError.Error)
	DeleteComment(commentID uint, caller *models.User) *apiError.Error
}

type commentService struct {
	commentRepo db.CommentRepository
	bookRepo    db.BookRepository
	notifier    Notifier
}

func NewCommentService(commentRepo db.CommentRepository, bookRepo db.BookRepository, notifier Notifier) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		bookRepo:    bookRepo,
		notifier:    notifier,
	}
}

// CreateComment persists the comment under an existing book and pushes it to
// everyone live; push failures never affect the persisted row.
func (s *commentService) CreateComment(bookID uint, req *models.CreateCommentRequest, author *models.User) (*models.CommentResponse, *apiError.Error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, apiError.New("comment content is required", http.StatusBadRequest)
	}

	if _, err := s.bookRepo.FindBookByID(bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("book not found", http.StatusNotFound)
		}
		log.Printf("CreateComment error loading book: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	saved, err := s.commentRepo.CreateComment(&models.Comment{
		Content: req.Content,
		BookID:  bookID,
		UserID:  author.ID,
	})
	if err != nil {
		log.Printf("CreateComment error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	resp := saved.ToResponse()
	if s.notifier != nil {
		s.notifier.Broadcast(EventCommentCreated, resp)
	}
	return &resp, nil
}

// ListBookComments returns a book's thread newest first.
func (s *commentService) ListBookComments(bookID uint) ([]models.CommentResponse, *apiError.Error) {
	if _, err := s.bookRepo.FindBookByID(bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("book not found", http.StatusNotFound)
		}
		log.Printf("ListBookComments error loading book: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	comments, err := s.commentRepo.FindCommentsByBookID(bookID)
	if err != nil {
		log.Printf("ListBookComments error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	responses := make([]models.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, comments[i].ToResponse())
	}
	return responses, nil
}

// DeleteComment removes the comment for its author or an admin.
func (s *commentService) DeleteComment(commentID uint, caller *models.User) *apiError.Error {
	comment, err := s.commentRepo.FindCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("comment not found", http.StatusNotFound)
		}
		log.Printf("DeleteComment error loading comment: %v", err)
		return apiError.ErrInternalServerError
	}

	if comment.UserID != caller.ID && !caller.IsAdmin() {
		return apiError.New("you may only delete your own comments", http.StatusForbidden)
	}

	if err := s.commentRepo.DeleteComment(commentID); err != nil {
		log.Printf("DeleteComment error: %v", err)
		return apiError.ErrInternalServerError
	}

	if s.notifier != nil {
		s.notifier.Broadcast(EventCommentDeleted, map[string]uint{
			"id":      commentID,
			"book_id": comment.BookID,
		})
	}
	return nil
}
