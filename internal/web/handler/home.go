package handler

import (
	"net/http"

	"github.com/bunkerhq/bunker/internal/model"
	"github.com/bunkerhq/bunker/internal/services/room"
	"github.com/bunkerhq/bunker/internal/web/middleware"
	"github.com/bunkerhq/bunker/internal/web/templates/layout"
	"github.com/bunkerhq/bunker/internal/web/templates/pages"
)

// HomeHandler handles the home page
type HomeHandler struct {
	roomController room.ControllerInterface
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(roomController room.ControllerInterface) *HomeHandler {
	return &HomeHandler{
		roomController: roomController,
	}
}

// Home renders the home page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())
	flash := middleware.GetFlash(r.Context())

	var rooms []model.RoomSummary
	if username != "" {
		var err error
		rooms, err = h.roomController.ListRoomsForUser(r.Context(), username)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	data := pages.HomeData{
		PageData: layout.PageData{
			Title:    "Home",
			Username: username,
			Flash:    flash,
		},
		Rooms: rooms,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Home(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
