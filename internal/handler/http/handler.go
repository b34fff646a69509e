// Package http implements the HTTP transport layer of the sync server.
// It provides middleware, route handlers, and request/response utilities
// for the REST API. Authentication and logging are handled at this layer
// before requests reach the data layer.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/internal/repository"
	"github.com/ewalker114/lifelog/internal/store"
	"github.com/ewalker114/lifelog/models"
)

// Handler carries the dependencies of every route handler.
type Handler struct {
	backend store.Backend
	repos   *repository.Repositories

	// authToken is the static bearer credential inbound requests must
	// present. Empty disables authentication.
	authToken string

	logger *logger.Logger
}

// NewHandler constructs the HTTP handler set over the server-side backend.
func NewHandler(backend store.Backend, repos *repository.Repositories, authToken string, log *logger.Logger) *Handler {
	log.Info().Msg("http handler created")
	return &Handler{
		backend:   backend,
		repos:     repos,
		authToken: authToken,
		logger:    log,
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusFromError(err), models.ErrorResponse{Error: err.Error()})
}
