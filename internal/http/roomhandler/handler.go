package roomhandler

import (
	"net/http"

	"chatrelaygo/internal/services/chatroom"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	registry chatroom.IRoomRegistry
}

func New(registry chatroom.IRoomRegistry) *Handler { return &Handler{registry: registry} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/new", h.create)
	r.OPTIONS("/new", h.preflight)
}

// @Summary		Create a chatroom
// @Description	Registers a new chatroom and returns its public record. The id is the handle sessions present to join.
// @Tags			Chatrooms
// @Param			body	body		NewChatroomBody	true	"Chatroom title"
// @Success		200		{object}	NewChatroomResponse
// @Failure		400		{object}	ErrorResponse
// @Router			/new [post]
func (h *Handler) create(c *gin.Context) {
	var body NewChatroomBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "400 Bad Request"})
		return
	}
	room := h.registry.Create(body.Title)
	c.JSON(http.StatusOK, NewChatroomResponse{Chatroom: room})
}

// CORS preflight. The allow headers are set for every response by the
// server middleware.
func (h *Handler) preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}
