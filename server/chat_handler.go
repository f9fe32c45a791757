package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/readhaven/readhaven/errors"
	"github.com/readhaven/readhaven/models"
	"github.com/readhaven/readhaven/server/response"
)

func (s *Server) handleGetMyChat() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		chat, apiErr := s.ChatService.GetOrCreateChat(user.ID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, chat, nil)
	}
}

func (s *Server) handleCreateChatMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var request models.CreateMessageRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		message, apiErr := s.ChatService.CreateMessage(&request, user)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Message sent", http.StatusCreated, message.ToChatMessage(), nil)
	}
}

func (s *Server) handleListChatUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.ChatService.ListChatUsers(c.Query("search"))
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "", http.StatusOK, users, nil)
	}
}

// handleGetUserChat loads a user's conversation for an admin and marks the
// user's messages as viewed.
func (s *Server) handleGetUserChat() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := paramUint(c, "userID")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid user id"))
			return
		}

		chat, apiErr := s.ChatService.GetChatForAdmin(userID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, chat, nil)
	}
}
