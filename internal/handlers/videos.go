package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fitflix/backend/internal/access"
	"github.com/fitflix/backend/internal/apperr"
	"github.com/fitflix/backend/internal/middleware"
)

var errMissingIdentity = errors.New("identity missing from request context")

// VideoHandler serves the catalog.
type VideoHandler struct {
	Videos VideoGate
}

// List handles GET /videos.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, http.StatusOK, h.Videos.ListVideos(r.Context()))
}

// Get handles GET /videos/{id}. It must run behind middleware.RequireIdentity.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		respondError(ctx, w, apperr.Internal("Authentication error.", errMissingIdentity))
		return
	}

	// Ids that are not integers can never match a catalog entry.
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(ctx, w, apperr.NotFound(access.MsgVideoNotFound))
		return
	}

	video, err := h.Videos.GetVideo(ctx, id, identity)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, video)
}
