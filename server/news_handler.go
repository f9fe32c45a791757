package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/readhaven/readhaven/errors"
	"github.com/readhaven/readhaven/models"
	"github.com/readhaven/readhaven/server/response"
)

func (s *Server) handleGetAllNews() gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := s.NewsService.ListNews()
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "", http.StatusOK, items, nil)
	}
}

func (s *Server) handleCreateNews() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.CreateNewsRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		item, apiErr := s.NewsService.CreateNews(&request)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "News published", http.StatusCreated, item, nil)
	}
}

func (s *Server) handleUpdateNews() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramUint(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid news id"))
			return
		}

		var request models.UpdateNewsRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		item, apiErr := s.NewsService.UpdateNews(id, &request)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "News updated", http.StatusOK, item, nil)
	}
}

func (s *Server) handleDeleteNews() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramUint(c, "id")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid news id"))
			return
		}

		if apiErr := s.NewsService.DeleteNews(id); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "News deleted", http.StatusOK, nil, nil)
	}
}
