package rest

import (
	"encoding/json"
	"io"
	"net/http"

	"listing-query-service/internal/contextkeys"
	"listing-query-service/internal/contracts"
	"listing-query-service/internal/core/domain"
	"listing-query-service/internal/core/port"
	"listing-query-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CatalogHandler serves the write side: upserts from external feeds,
// removals, moderation flags and feed reconciliation state.
type CatalogHandler struct {
	saveListingUC       usecases_port.SaveListingUseCase
	removeListingsUC    usecases_port.RemoveListingsUseCase
	setFeaturedUC       usecases_port.SetFeaturedUseCase
	setDisabledUC       usecases_port.SetDisabledUseCase
	feedStateUC         usecases_port.GetFeedStateUseCase
	updateCoordinatesUC usecases_port.UpdateCoordinatesUseCase
}

func NewCatalogHandler(
	saveListingUC usecases_port.SaveListingUseCase,
	removeListingsUC usecases_port.RemoveListingsUseCase,
	setFeaturedUC usecases_port.SetFeaturedUseCase,
	setDisabledUC usecases_port.SetDisabledUseCase,
	feedStateUC usecases_port.GetFeedStateUseCase,
	updateCoordinatesUC usecases_port.UpdateCoordinatesUseCase) *CatalogHandler {
	return &CatalogHandler{
		saveListingUC:       saveListingUC,
		removeListingsUC:    removeListingsUC,
		setFeaturedUC:       setFeaturedUC,
		setDisabledUC:       setDisabledUC,
		feedStateUC:         feedStateUC,
		updateCoordinatesUC: updateCoordinatesUC,
	}
}

// SaveListing handles POST /api/v1/listings. The body is validated against
// the versioned listing schema before anything is decoded.
func (h *CatalogHandler) SaveListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Warn("Failed to read request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := contracts.ValidateListing(body); err != nil {
		logger.Warn("Listing payload failed schema validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req SaveListingRequest
	if err := json.Unmarshal(body, &req); err != nil {
		logger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	listing := domain.Listing{
		Source:          domain.ListingSource(req.Source),
		ExternalID:      req.ExternalID,
		TransactionType: domain.TransactionType(req.TransactionType),
		PropertyType:    req.PropertyType,
		Price:           req.Price,
		Title:           req.Title,
		Description:     req.Description,
		Address:         req.Address,
		City:            req.City,
		Disabled:        req.Disabled,
		Featured:        req.Featured,
	}
	if req.ID != "" {
		id, err := uuid.Parse(req.ID)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID format")
			return
		}
		listing.ID = id
	}
	if req.Coordinates != nil {
		listing.Coordinates = &domain.Coordinates{
			Latitude:  req.Coordinates.Latitude,
			Longitude: req.Coordinates.Longitude,
		}
	}
	if req.UpdatedAt != nil {
		listing.UpdatedAt = *req.UpdatedAt
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":     "SaveListing",
		"source":      req.Source,
		"external_id": req.ExternalID,
	})
	handlerLogger.Debug("Processing request to save listing", nil)

	id, updated, err := h.saveListingUC.Execute(r.Context(), listing)
	if err != nil {
		WriteUseCaseError(w, handlerLogger, err)
		return
	}

	handlerLogger.Info("Listing saved", port.Fields{"listing_id": id.String(), "updated": updated})

	status := http.StatusCreated
	if updated {
		status = http.StatusOK
	}
	RespondWithJSON(w, status, SaveListingResponse{ID: id.String(), Updated: updated})
}

// RemoveListings handles POST /api/v1/listings/remove
func (h *CatalogHandler) RemoveListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	var req RemoveListingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, idStr := range req.IDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID format: "+idStr)
			return
		}
		ids = append(ids, id)
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":    "RemoveListings",
		"ids_amount": len(ids),
	})

	if err := h.removeListingsUC.Execute(r.Context(), ids...); err != nil {
		WriteUseCaseError(w, handlerLogger, err)
		return
	}

	handlerLogger.Info("Listings removed", nil)
	w.WriteHeader(http.StatusNoContent)
}

// RemoveByExternalIDs handles POST /api/v1/feed/{source}/remove
func (h *CatalogHandler) RemoveByExternalIDs(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	source := domain.ListingSource(chi.URLParam(r, "source"))

	var req RemoveByExternalIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":    "RemoveByExternalIDs",
		"source":     string(source),
		"ids_amount": len(req.ExternalIDs),
	})

	if err := h.removeListingsUC.ExecuteByExternalIDs(r.Context(), source, req.ExternalIDs); err != nil {
		WriteUseCaseError(w, handlerLogger, err)
		return
	}

	handlerLogger.Info("Listings removed by external ids", nil)
	w.WriteHeader(http.StatusNoContent)
}

// SetFeatured handles PUT /api/v1/listings/{listingID}/featured
func (h *CatalogHandler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, "SetFeatured", func(id uuid.UUID, value bool, r *http.Request) error {
		return h.setFeaturedUC.Execute(r.Context(), id, value)
	})
}

// SetDisabled handles PUT /api/v1/listings/{listingID}/disabled
func (h *CatalogHandler) SetDisabled(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, "SetDisabled", func(id uuid.UUID, value bool, r *http.Request) error {
		return h.setDisabledUC.Execute(r.Context(), id, value)
	})
}

func (h *CatalogHandler) setFlag(w http.ResponseWriter, r *http.Request, handler string, apply func(uuid.UUID, bool, *http.Request) error) {
	logger := contextkeys.LoggerFromContext(r.Context())

	listingID, err := uuid.Parse(chi.URLParam(r, "listingID"))
	if err != nil {
		logger.Warn("Invalid listing ID format", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID format")
		return
	}

	var req SetFlagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":    handler,
		"listing_id": listingID.String(),
		"value":      req.Value,
	})

	if err := apply(listingID, req.Value, r); err != nil {
		WriteUseCaseError(w, handlerLogger, err)
		return
	}

	handlerLogger.Info("Moderation flag updated", nil)
	w.WriteHeader(http.StatusNoContent)
}

// GetExternalIDs handles GET /api/v1/feed/{source}/external-ids
func (h *CatalogHandler) GetExternalIDs(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	source := domain.ListingSource(chi.URLParam(r, "source"))

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "GetExternalIDs",
		"source":  string(source),
	})

	ids, err := h.feedStateUC.ExternalIDs(r.Context(), source)
	if err != nil {
		WriteUseCaseError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, ExternalIDsResponse{Data: ids})
}

// GetLatestUpdate handles GET /api/v1/feed/{source}/latest-update
func (h *CatalogHandler) GetLatestUpdate(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	source := domain.ListingSource(chi.URLParam(r, "source"))

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "GetLatestUpdate",
		"source":  string(source),
	})

	latest, err := h.feedStateUC.LatestUpdate(r.Context(), source)
	if err != nil {
		WriteUseCaseError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, LatestUpdateResponse{LatestUpdate: latest})
}

// GetMissingCoordinates handles GET /api/v1/feed/missing-coordinates
func (h *CatalogHandler) GetMissingCoordinates(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "GetMissingCoordinates",
	})

	listings, err := h.feedStateUC.MissingCoordinates(r.Context())
	if err != nil {
		WriteUseCaseError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, ListingsResponse{Data: toListingResponses(listings)})
}

// UpdateCoordinates handles PUT /api/v1/listings/{listingID}/coordinates
func (h *CatalogHandler) UpdateCoordinates(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	listingID, err := uuid.Parse(chi.URLParam(r, "listingID"))
	if err != nil {
		logger.Warn("Invalid listing ID format", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID format")
		return
	}

	var req UpdateCoordinatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":    "UpdateCoordinates",
		"listing_id": listingID.String(),
	})

	coords := domain.Coordinates{Latitude: req.Latitude, Longitude: req.Longitude}
	if err := h.updateCoordinatesUC.Execute(r.Context(), listingID, coords); err != nil {
		WriteUseCaseError(w, handlerLogger, err)
		return
	}

	handlerLogger.Info("Coordinates updated", nil)
	w.WriteHeader(http.StatusNoContent)
}
