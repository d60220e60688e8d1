package handlers

import (
	"log/slog"
	"net/http"

	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/internal/service"
	"github.com/vedran77/jobly/internal/transport/http/middleware"
)

type ListingHandler struct {
	listingService *service.ListingService
	logger         *slog.Logger
}

func NewListingHandler(listingService *service.ListingService, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{listingService: listingService, logger: logger}
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateListingInput
	if err := decodeJSON(r, &input); err != nil {
		writeServiceError(w, h.logger, "create listing", err)
		return
	}

	listing, err := h.listingService.Create(r.Context(), middleware.PrincipalFrom(r.Context()), input)
	if err != nil {
		writeServiceError(w, h.logger, "create listing", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"listing": listing})
}

func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listingService.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "list listings", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"listings": listings})
}

// Search answers under "listing" to match the published route contract.
func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listingService.Search(r.Context(), r.URL.Query().Get("term"))
	if err != nil {
		writeServiceError(w, h.logger, "search listings", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"listing": listings})
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ErrListingNotFound)
	if !ok {
		return
	}

	listing, err := h.listingService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, "get listing", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"listing": listing})
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ErrListingNotFound)
	if !ok {
		return
	}

	deleted, err := h.listingService.Remove(r.Context(), middleware.PrincipalFrom(r.Context()), id)
	if err != nil {
		writeServiceError(w, h.logger, "delete listing", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}
