package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/bunkerhq/bunker/internal/model"
	"github.com/bunkerhq/bunker/internal/services/room"
	"github.com/bunkerhq/bunker/internal/web/middleware"
	"github.com/bunkerhq/bunker/internal/web/templates/layout"
	"github.com/bunkerhq/bunker/internal/web/templates/pages"
)

// RoomHandler handles room pages and actions
type RoomHandler struct {
	roomController room.ControllerInterface
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(roomController room.ControllerInterface) *RoomHandler {
	return &RoomHandler{
		roomController: roomController,
	}
}

// Create handles room creation form submission
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))

	created, err := h.roomController.CreateRoom(r.Context(), username, name)
	if err != nil {
		middleware.SetFlash(w, "error", "Failed to create room")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	middleware.SetFlash(w, "success", "Room created")
	http.Redirect(w, r, "/room/"+string(created.ID), http.StatusSeeOther)
}

// JoinByForm handles joining a room via the join-by-id form
func (h *RoomHandler) JoinByForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	id := strings.TrimSpace(r.FormValue("room_id"))
	if id == "" {
		middleware.SetFlash(w, "error", "Room ID is required")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// The room page joins the viewer on load
	http.Redirect(w, r, "/room/"+id, http.StatusSeeOther)
}

// View renders the room page, joining the viewer as a side effect
func (h *RoomHandler) View(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())
	flash := middleware.GetFlash(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	viewed, err := h.roomController.GetRoom(r.Context(), id, username)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			middleware.SetFlash(w, "error", "Room not found")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := pages.RoomData{
		PageData: layout.PageData{
			Title:    viewed.Name,
			Username: username,
			Flash:    flash,
		},
		Room:      viewed,
		InviteURL: inviteURL(r, id),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Room(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Start handles the owner's start-game action
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	if _, err := h.roomController.StartGame(r.Context(), id, username); err != nil {
		middleware.SetFlash(w, "error", startErrorMessage(err))
		h.redirectAfterAction(w, r, id, err)
		return
	}

	middleware.SetFlash(w, "success", "Roles assigned")
	http.Redirect(w, r, "/room/"+string(id), http.StatusSeeOther)
}

// Reset handles the owner's reset-game action
func (h *RoomHandler) Reset(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	if err := h.roomController.ResetGame(r.Context(), id, username); err != nil {
		middleware.SetFlash(w, "error", startErrorMessage(err))
		h.redirectAfterAction(w, r, id, err)
		return
	}

	middleware.SetFlash(w, "info", "Game reset")
	http.Redirect(w, r, "/room/"+string(id), http.StatusSeeOther)
}

// Leave handles leaving a room
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	if err := h.roomController.LeaveRoom(r.Context(), id, username); err != nil {
		middleware.SetFlash(w, "error", "Failed to leave room")
		http.Redirect(w, r, "/room/"+string(id), http.StatusSeeOther)
		return
	}

	middleware.SetFlash(w, "info", "You left the room")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// QR serves a PNG QR code encoding the room's invite link
func (h *RoomHandler) QR(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	// Only members can mint invite codes; a missing room and a
	// non-member look the same from outside
	if _, err := h.roomController.RoomForMember(r.Context(), id, username); err != nil {
		http.NotFound(w, r)
		return
	}

	png, err := qrcode.Encode(inviteURL(r, id), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = w.Write(png)
}

func (h *RoomHandler) redirectAfterAction(w http.ResponseWriter, r *http.Request, id model.RoomID, err error) {
	if errors.Is(err, model.ErrRoomNotFound) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/room/"+string(id), http.StatusSeeOther)
}

func startErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrNotOwner):
		return "Only the room owner can do that"
	case errors.Is(err, model.ErrTooFewMembers):
		return "Not enough players to start"
	case errors.Is(err, model.ErrTooManyMembers):
		return "Too many players to start"
	case errors.Is(err, model.ErrRoomNotFound):
		return "Room not found"
	default:
		return "Action failed"
	}
}

func inviteURL(r *http.Request, id model.RoomID) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/room/" + string(id)
}
