package http

import (
	"encoding/json"
	"net/http"

	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/models"
)

func (h *Handler) pushSync(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.SyncPushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.pushSync").Msg("invalid JSON was passed")
		respondError(w, errInvalidJSON)
		return
	}

	resp, err := h.backend.PushSync(r.Context(), req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.pushSync").Msg("error applying sync push")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.Ping(r.Context()); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.ping").Msg("storage unreachable")
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
