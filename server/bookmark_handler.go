package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/readhaven/readhaven/errors"
	"github.com/readhaven/readhaven/models"
	"github.com/readhaven/readhaven/server/response"
)

func (s *Server) handleCreateBookmark() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var request models.CreateBookmarkRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		bookmark, apiErr := s.BookmarkService.CreateBookmark(&request, user.ID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Bookmark created", http.StatusCreated, bookmark, nil)
	}
}

func (s *Server) handleGetMyBookmarks() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		bookmarks, err := s.BookmarkService.GetUserBookmarks(user.ID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "", http.StatusOK, bookmarks, nil)
	}
}

func (s *Server) handleGetBookBookmarks() gin.HandlerFunc {
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

		bookmarks, err := s.BookmarkService.GetBookBookmarks(bookID, user.ID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "", http.StatusOK, bookmarks, nil)
	}
}

func (s *Server) handleUpdateBookmark() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		id, err := paramUint(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid bookmark id"))
			return
		}

		var request models.UpdateBookmarkRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		bookmark, apiErr := s.BookmarkService.UpdateBookmark(id, &request, user.ID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Bookmark updated", http.StatusOK, bookmark, nil)
	}
}

func (s *Server) handleDeleteBookmark() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		id, err := paramUint(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid bookmark id"))
			return
		}

		if apiErr := s.BookmarkService.DeleteBookmark(id, user.ID); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Bookmark deleted", http.StatusOK, nil, nil)
	}
}
