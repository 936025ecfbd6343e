package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomrelay/roomrelay-server/internal/core"
	"github.com/roomrelay/roomrelay-server/internal/proto"
)

// RelayHandlers provides the read-only REST surface over the hub. All reads
// go through the hub's serialized loop, never around it.
type RelayHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewRelayHandlers creates a new handlers instance.
func NewRelayHandlers(hub *core.Hub, logger *zerolog.Logger) *RelayHandlers {
	return &RelayHandlers{hub: hub, log: logger}
}

// RoomResponse represents a populated room in API responses.
type RoomResponse struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListRooms handles listing rooms that currently have members.
// GET /api/rooms
func (h *RelayHandlers) ListRooms(c *gin.Context) {
	rooms, err := h.hub.Rooms(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list rooms")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		response = append(response, RoomResponse{Name: r.Name, Members: r.Members})
	}
	c.JSON(http.StatusOK, response)
}

// ListMembers handles listing the current membership of a room.
// GET /api/rooms/:room/members
func (h *RelayHandlers) ListMembers(c *gin.Context) {
	room := c.Param("room")

	members, err := h.hub.Members(c.Request.Context(), room)
	if err != nil {
		h.log.Error().Err(err).Str("room", room).Msg("failed to list members")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]proto.User, 0, len(members))
	for _, m := range members {
		response = append(response, proto.User{ID: m.ConnID, Username: m.Username})
	}
	c.JSON(http.StatusOK, response)
}

// RoomMessages handles paginated history reads. Same semantics as the
// get_history command: the skip/limit window is selected most-recent-first,
// the page is returned in chronological order.
// GET /api/rooms/:room/messages?skip=&limit=
func (h *RelayHandlers) RoomMessages(c *gin.Context) {
	room := c.Param("room")
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid skip"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		return
	}

	messages, err := h.hub.History(c.Request.Context(), room, skip, limit)
	if err != nil {
		h.log.Error().Err(err).Str("room", room).Msg("failed to read history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]proto.MessageData, 0, len(messages))
	for _, m := range messages {
		response = append(response, messagePayload(m))
	}
	c.JSON(http.StatusOK, proto.HistoryData{Room: room, Messages: response})
}
