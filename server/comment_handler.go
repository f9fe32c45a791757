package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/readhaven/readhaven/errors"
	"github.com/readhaven/readhaven/models"
	"github.com/readhaven/readhaven/server/response"
)

func (s *Server) handleCreateComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		bookID, err := paramUint(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid book id"))
			return
		}

		var request models.CreateCommentRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		comment, apiErr := s.CommentService.CreateComment(bookID, &request, user)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Comment posted", http.StatusCreated, comment, nil)
	}
}

func (s *Server) handleGetBookComments() gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, err := paramUint(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid book id"))
			return
		}

		comments, apiErr := s.CommentService.ListBookComments(bookID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, comments, nil)
	}
}

func (s *Server) handleDeleteComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		commentID, err := paramUint(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid comment id"))
			return
		}

		if apiErr := s.CommentService.DeleteComment(commentID, user); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Comment deleted", http.StatusOK, nil, nil)
	}
}
