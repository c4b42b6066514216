package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nearmeet-server/internal/middleware"
	"nearmeet-server/internal/services"
	"nearmeet-server/internal/websocket"
)

type MessageHandler struct {
	chat *services.ChatService
	hub  *websocket.Hub
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func NewMessageHandler(chat *services.ChatService, hub *websocket.Hub) *MessageHandler {
	return &MessageHandler{chat: chat, hub: hub}
}

func (h *MessageHandler) ListConversations(c *gin.Context) {
	userID := middleware.UserID(c)

	conversations, err := h.chat.Conversations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

func (h *MessageHandler) ListMessages(c *gin.Context) {
	userID := middleware.UserID(c)
	conversationID := c.Param("conversation_id")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	messages, err := h.chat.Messages(c.Request.Context(), conversationID, userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID := middleware.UserID(c)
	conversationID := c.Param("conversation_id")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.chat.SendMessage(c.Request.Context(), conversationID, userID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Publish("chat:"+conversationID, "message", message)

	c.JSON(http.StatusCreated, gin.H{"message": message})
}
