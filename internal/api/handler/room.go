package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bunkerhq/bunker/internal/api/middleware"
	"github.com/bunkerhq/bunker/internal/api/request"
	"github.com/bunkerhq/bunker/internal/api/response"
	"github.com/bunkerhq/bunker/internal/model"
	"github.com/bunkerhq/bunker/internal/services/room"
)

// RoomHandler handles room-related endpoints
type RoomHandler struct {
	rooms *room.Controller
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *room.Controller) *RoomHandler {
	return &RoomHandler{
		rooms: rooms,
	}
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	summaries, err := h.rooms.ListRoomsForUser(r.Context(), username)
	if err != nil {
		WriteError(w, err)
		return
	}

	list := response.RoomList{Rooms: make([]response.RoomSummary, len(summaries))}
	for i, s := range summaries {
		list.Rooms[i] = response.RoomSummaryFromModel(s)
	}

	response.JSON(w, http.StatusOK, list)
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body for a default room name
		req = request.CreateRoomRequest{}
	}
	if err := req.Validate(); err != nil {
		WriteError(w, err)
		return
	}

	created, err := h.rooms.CreateRoom(r.Context(), username, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(created, username))
}

// Get handles GET /api/v1/rooms/{id}.
// Viewing a room joins the caller if they are not yet a member.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	got, err := h.rooms.GetRoom(r.Context(), id, username)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(got, username))
}

// Join handles POST /api/v1/rooms/{id}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	joined, err := h.rooms.JoinRoom(r.Context(), id, username)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(joined, username))
}

// Start handles POST /api/v1/rooms/{id}/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	roles, err := h.rooms.StartGame(r.Context(), id, username)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.StartGameResponse{Roles: make(map[string]string, len(roles))}
	for member, role := range roles {
		resp.Roles[member] = string(role)
	}

	response.JSON(w, http.StatusOK, resp)
}

// Reset handles POST /api/v1/rooms/{id}/reset
func (h *RoomHandler) Reset(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	if err := h.rooms.ResetGame(r.Context(), id, username); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Leave handles POST /api/v1/rooms/{id}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	if err := h.rooms.LeaveRoom(r.Context(), id, username); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
