package http

import (
	"encoding/json"
	"net/http"

	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/models"
)

func (h *Handler) listTags(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	tags, err := h.repos.Tags.List(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.listTags").Msg("error listing tags")
		respondError(w, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}

	respondJSON(w, http.StatusOK, tags)
}

func (h *Handler) findTagByName(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	name := r.URL.Query().Get("name")
	if name == "" {
		respondError(w, errMissingName)
		return
	}

	tag, err := h.repos.Tags.FindByName(r.Context(), name)
	if err != nil {
		log.Err(err).Str("func", "*Handler.findTagByName").Str("name", name).Msg("error finding tag")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tag)
}

func (h *Handler) createTag(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.createTag").Msg("invalid JSON was passed")
		respondError(w, errInvalidJSON)
		return
	}

	tag, err := h.repos.Tags.Create(r.Context(), req.Name)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createTag").Str("name", req.Name).Msg("error creating tag")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, tag)
}

func (h *Handler) deleteTag(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	tagID, err := idParam(r, "tagID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err = h.repos.Tags.Delete(r.Context(), tagID); err != nil {
		log.Err(err).Str("func", "*Handler.deleteTag").Msg("error deleting tag")
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
