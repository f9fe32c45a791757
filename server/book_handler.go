package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	errs "github.com/readhaven/readhaven/errors"
	"github.com/readhaven/readhaven/models"
	"github.com/readhaven/readhaven/server/response"
)

func (s *Server) handleCreateBook() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var request models.CreateBookRequest
		if err := c.ShouldBind(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		file, fileHeader, err := c.Request.FormFile("file")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("book file is required"))
			return
		}
		defer file.Close()

		cover, coverHeader, err := c.Request.FormFile("cover")
		if err == nil {
			defer cover.Close()
		} else {
			cover, coverHeader = nil, nil
		}

		book, apiErr := s.BookService.CreateBook(c.Request.Context(), &request, file, fileHeader, cover, coverHeader, user.ID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Book created", http.StatusCreated, book, nil)
	}
}

// handleGetAllBooks returns the catalogue ranked for the caller, with books
// from followed uploaders first. Accepts repeated genre_id query parameters.
func (s *Server) handleGetAllBooks() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		genreIDs, err := queryUints(c, "genre_id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid genre id"))
			return
		}

		books, err := s.BookService.FindAllWithWeights(user.ID, genreIDs)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "", http.StatusOK, books, nil)
	}
}

func (s *Server) handleGetMyBooks() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		books, err := s.BookService.FindBooksByUser(user.ID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "", http.StatusOK, books, nil)
	}
}

func (s *Server) handleGetBook() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramUint(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid book id"))
			return
		}

		book, apiErr := s.BookService.GetBook(id)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, book, nil)
	}
}

func (s *Server) handleUpdateBook() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		id, err := paramUint(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid book id"))
			return
		}

		var request models.UpdateBookRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		book, apiErr := s.BookService.UpdateBook(id, &request, user.ID, user.IsAdmin())
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Book updated", http.StatusOK, book, nil)
	}
}

func (s *Server) handleUpdateBookCover() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		id, err := paramUint(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid book id"))
			return
		}

		cover, coverHeader, err := c.Request.FormFile("cover")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("cover file is required"))
			return
		}
		defer cover.Close()

		book, apiErr := s.BookService.UpdateBookCover(c.Request.Context(), id, cover, coverHeader, user.ID, user.IsAdmin())
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Book cover updated", http.StatusOK, book, nil)
	}
}

func (s *Server) handleDeleteBook() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		id, err := paramUint(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid book id"))
			return
		}

		if apiErr := s.BookService.DeleteBook(id, user.ID, user.IsAdmin()); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Book deleted", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleGetAllGenres() gin.HandlerFunc {
	return func(c *gin.Context) {
		genres, err := s.BookService.FindAllGenres()
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "", http.StatusOK, genres, nil)
	}
}

// queryUints parses a repeated numeric query parameter.
func queryUints(c *gin.Context, name string) ([]uint, error) {
	values := c.QueryArray(name)
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
