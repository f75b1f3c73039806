package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pillpath-platform/service-analytics/internal/chat"
	"github.com/pillpath-platform/service-analytics/internal/clients"
)

// ChatHandler serves chat transcripts grouped for rendering.
type ChatHandler struct {
	client *clients.PharmacyClient
	logger *zap.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(client *clients.PharmacyClient, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		client: client,
		logger: logger,
	}
}

// GetMessages fetches a chat's messages and returns them as display
// segments with date separators and grouping flags.
// GET /api/v1/pharmacy-admin/pharmacies/:id/chats/:chat_id/messages
func (h *ChatHandler) GetMessages(c *gin.Context) {
	pharmacyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pharmacy ID"})
		return
	}
	chatID := c.Param("chat_id")
	if chatID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Chat ID is required"})
		return
	}

	messages, err := h.client.ListMessages(c.Request.Context(), pharmacyID.String(), chatID)
	if err != nil {
		h.logger.Error("Failed to fetch chat messages",
			zap.String("chat_id", chatID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch chat messages"})
		return
	}

	segments := chat.GroupMessages(messages)
	c.JSON(http.StatusOK, gin.H{
		"chat_id":  chatID,
		"segments": segments,
		"count":    len(messages),
	})
}
