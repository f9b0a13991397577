package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/doorman-bridge/internal/lock"
)

// lockResponse is the JSON representation of one lock entity.
type lockResponse struct {
	DeviceID string     `json:"device_id"`
	Name     string     `json:"name"`
	State    lock.State `json:"state"`
	RawState string     `json:"raw_state"`
	IsLocked bool       `json:"is_locked"`
}

// toLockResponse builds the wire representation of a lock entity.
func toLockResponse(l *lock.Lock) lockResponse {
	return lockResponse{
		DeviceID: l.DeviceID(),
		Name:     l.Name(),
		State:    l.State(),
		RawState: l.RawState(),
		IsLocked: l.IsLocked(),
	}
}

// handleListLocks returns every discovered lock and its current state.
//
// GET /api/v1/locks
func (s *Server) handleListLocks(w http.ResponseWriter, _ *http.Request) {
	locks := s.locks.Locks()

	resp := make([]lockResponse, 0, len(locks))
	for _, l := range locks {
		resp = append(resp, toLockResponse(l))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"locks": resp,
		"count": len(resp),
	})
}

// handleGetLock returns one lock by device ID.
//
// GET /api/v1/locks/{id}
func (s *Server) handleGetLock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	l, ok := s.locks.Lock(id)
	if !ok {
		writeNotFound(w, "lock not found")
		return
	}

	writeJSON(w, http.StatusOK, toLockResponse(l))
}
