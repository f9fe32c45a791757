package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/readhaven/readhaven/errors"
	"github.com/readhaven/readhaven/models"
	"github.com/readhaven/readhaven/server/response"
)

func (s *Server) handleCreateFolder() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var request models.CreateFolderRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		folder, apiErr := s.FolderService.CreateFolder(user.ID, request.Name)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Folder created", http.StatusCreated, folder, nil)
	}
}

func (s *Server) handleGetMyFolders() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		folders, err := s.FolderService.GetUserFolders(user.ID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "", http.StatusOK, folders, nil)
	}
}

func (s *Server) handleRenameFolder() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		folderID, err := paramUint(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid folder id"))
			return
		}

		var request models.CreateFolderRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		if apiErr := s.FolderService.RenameFolder(folderID, user.ID, request.Name); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Folder renamed", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleDeleteFolder() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		folderID, err := paramUint(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid folder id"))
			return
		}

		if apiErr := s.FolderService.DeleteFolder(folderID, user.ID); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Folder deleted", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleAddBookToFolder() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		folderID, err := paramUint(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid folder id"))
			return
		}
		bookID, err := paramUint(c, "bookID")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid book id"))
			return
		}

		if apiErr := s.FolderService.AddBookToFolder(folderID, bookID, user.ID); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Book added to folder", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleRemoveBookFromFolder() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		folderID, err := paramUint(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid folder id"))
			return
		}
		bookID, err := paramUint(c, "bookID")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid book id"))
			return
		}

		if apiErr := s.FolderService.RemoveBookFromFolder(folderID, bookID, user.ID); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Book removed from folder", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleGetMyShelves() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		shelves, err := s.FolderService.GetUserShelves(user.ID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "", http.StatusOK, shelves, nil)
	}
}

func (s *Server) handleMoveBookToShelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var request models.AddBookToShelfRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		if apiErr := s.FolderService.MoveBookToShelf(user.ID, request.BookID, request.ShelfType); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Book moved to shelf", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleRemoveBookFromShelves() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		bookID, err := paramUint(c, "bookID")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid book id"))
			return
		}

		if apiErr := s.FolderService.RemoveBookFromShelves(user.ID, bookID); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Book removed from shelves", http.StatusOK, nil, nil)
	}
}
