package handler

import (
	"net/http"

	"github.com/bunkerhq/bunker/internal/api/response"
	"github.com/bunkerhq/bunker/internal/dependencies/clock"
	"github.com/bunkerhq/bunker/internal/storage"
)

// HealthHandler reports liveness plus stored entity counts
type HealthHandler struct {
	storage storage.Storage
	clock   clock.Clock
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storage storage.Storage, clock clock.Clock) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		clock:   clock,
	}
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.storage.CountAccounts(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	rooms, err := h.storage.CountRooms(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Health{
		Status:    "ok",
		Timestamp: h.clock.Now(),
		Accounts:  accounts,
		Rooms:     rooms,
	})
}
