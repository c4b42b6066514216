package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nearmeet-server/internal/middleware"
	"nearmeet-server/internal/models"
	"nearmeet-server/internal/services"
	"nearmeet-server/internal/websocket"
)

type RoomHandler struct {
	rooms *services.RoomService
	hub   *websocket.Hub
}

type ResolveRoomRequest struct {
	Kind      string  `json:"kind" binding:"required,oneof=work bar cafe gym park home"`
	Latitude  float64 `json:"latitude" binding:"required,latitude"`
	Longitude float64 `json:"longitude" binding:"required,longitude"`
}

type RoomMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func NewRoomHandler(rooms *services.RoomService, hub *websocket.Hub) *RoomHandler {
	return &RoomHandler{rooms: rooms, hub: hub}
}

// Resolve maps the caller's location to its geo room, creating the room on
// first visit.
func (h *RoomHandler) Resolve(c *gin.Context) {
	var req ResolveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.rooms.Resolve(c.Request.Context(), models.RoomKind(req.Kind), req.Latitude, req.Longitude)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": room})
}

// Touch refreshes the caller's presence in a room. Clients call it on a
// fixed interval while the room screen is open.
func (h *RoomHandler) Touch(c *gin.Context) {
	userID := middleware.UserID(c)
	roomID := c.Param("room_id")

	if err := h.rooms.Touch(c.Request.Context(), roomID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Presence updated"})
}

func (h *RoomHandler) Send(c *gin.Context) {
	userID := middleware.UserID(c)
	roomID := c.Param("room_id")

	var req RoomMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.rooms.Send(c.Request.Context(), roomID, userID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Publish("room:"+roomID, "message", message)

	c.JSON(http.StatusCreated, gin.H{"message": message})
}

func (h *RoomHandler) Messages(c *gin.Context) {
	roomID := c.Param("room_id")

	limit := 80
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	messages, err := h.rooms.Messages(c.Request.Context(), roomID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Members lists who is currently present: anyone seen within the presence
// window.
func (h *RoomHandler) Members(c *gin.Context) {
	roomID := c.Param("room_id")

	members, err := h.rooms.ActiveMembers(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}
