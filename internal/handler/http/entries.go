package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/models"
)

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	snapshot, err := h.backend.EntriesSnapshot(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.listEntries").Msg("error loading entries snapshot")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.SaveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.createEntry").Msg("invalid JSON was passed")
		respondError(w, errInvalidJSON)
		return
	}
	if req.Entry.LocalID == "" {
		respondError(w, fmt.Errorf("%w: entry.local_id is required", errInvalidJSON))
		return
	}

	if err := h.backend.SaveEntry(r.Context(), &req.Entry, req.TagIDs); err != nil {
		log.Err(err).Str("func", "*Handler.createEntry").Msg("error saving entry")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, req.Entry)
}

func (h *Handler) entryTags(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	entryID, err := idParam(r, "entryID")
	if err != nil {
		respondError(w, err)
		return
	}

	tags, err := h.backend.EntryTags(r.Context(), entryID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.entryTags").Msg("error loading entry tags")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tags)
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	entryID, err := idParam(r, "entryID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err = h.repos.Entries.Delete(r.Context(), entryID); err != nil {
		log.Err(err).Str("func", "*Handler.deleteEntry").Msg("error deleting entry")
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) attachMedia(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	entryID, err := idParam(r, "entryID")
	if err != nil {
		respondError(w, err)
		return
	}

	var media models.Media
	if err = json.NewDecoder(r.Body).Decode(&media); err != nil {
		log.Err(err).Str("func", "*Handler.attachMedia").Msg("invalid JSON was passed")
		respondError(w, errInvalidJSON)
		return
	}
	media.EntryID = entryID

	if err = h.repos.Entries.AttachMedia(r.Context(), &media); err != nil {
		log.Err(err).Str("func", "*Handler.attachMedia").Msg("error saving media")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, media)
}

func (h *Handler) entryMedia(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	entryID, err := idParam(r, "entryID")
	if err != nil {
		respondError(w, err)
		return
	}

	media, err := h.repos.Entries.Media(r.Context(), entryID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.entryMedia").Msg("error loading media")
		respondError(w, err)
		return
	}
	if media == nil {
		media = []models.Media{}
	}

	respondJSON(w, http.StatusOK, media)
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidID, chi.URLParam(r, name))
	}

	return id, nil
}
