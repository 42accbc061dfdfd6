package rest

import (
	"net/http"
	"strconv"

	"listing-query-service/internal/contextkeys"
	"listing-query-service/internal/core/domain"
	"listing-query-service/internal/core/port"
	"listing-query-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ListingsHandler serves the read side of the catalog: filtered pagination,
// free-text search, typeahead suggestions, similarity and single lookups.
type ListingsHandler struct {
	findListingsUC    usecases_port.FindListingsUseCase
	searchListingsUC  usecases_port.SearchListingsUseCase
	suggestListingsUC usecases_port.SuggestListingsUseCase
	similarListingsUC usecases_port.SimilarListingsUseCase
	getListingUC      usecases_port.GetListingUseCase
	incrementViewsUC  usecases_port.IncrementViewsUseCase
	getFeaturedUC     usecases_port.GetFeaturedUseCase
}

func NewListingsHandler(
	findListingsUC usecases_port.FindListingsUseCase,
	searchListingsUC usecases_port.SearchListingsUseCase,
	suggestListingsUC usecases_port.SuggestListingsUseCase,
	similarListingsUC usecases_port.SimilarListingsUseCase,
	getListingUC usecases_port.GetListingUseCase,
	incrementViewsUC usecases_port.IncrementViewsUseCase,
	getFeaturedUC usecases_port.GetFeaturedUseCase) *ListingsHandler {
	return &ListingsHandler{
		findListingsUC:    findListingsUC,
		searchListingsUC:  searchListingsUC,
		suggestListingsUC: suggestListingsUC,
		similarListingsUC: similarListingsUC,
		getListingUC:      getListingUC,
		incrementViewsUC:  incrementViewsUC,
		getFeaturedUC:     getFeaturedUC,
	}
}

// FindListings handles GET /api/v1/listings
func (h *ListingsHandler) FindListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	page, err := ParsePageRequest(r)
	if err != nil {
		WriteUseCaseError(w, logger, err)
		return
	}
	filters := CollectFilters(r)

	handlerLogger := logger.WithFields(port.Fields{
		"handler":   "FindListings",
		"page":      page.Page,
		"page_size": page.PageSize,
		"filters":   filters,
	})
	handlerLogger.Debug("Processing request to find listings", nil)

	result, err := h.findListingsUC.Execute(r.Context(), filters, page)
	if err != nil {
		WriteUseCaseError(w, handlerLogger, err)
		return
	}

	handlerLogger.Info("Successfully found listings", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Items),
	})

	RespondWithJSON(w, http.StatusOK, PaginatedListingsResponse{
		Data:     toListingResponses(result.Items),
		Total:    result.TotalCount,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

// FindListingCards handles GET /api/v1/listings/cards
func (h *ListingsHandler) FindListingCards(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	page, err := ParsePageRequest(r)
	if err != nil {
		WriteUseCaseError(w, logger, err)
		return
	}
	filters := CollectFilters(r)

	handlerLogger := logger.WithFields(port.Fields{
		"handler":   "FindListingCards",
		"page":      page.Page,
		"page_size": page.PageSize,
	})
	handlerLogger.Debug("Processing request to find listing cards", nil)

	result, err := h.findListingsUC.ExecuteCards(r.Context(), filters, page)
	if err != nil {
		WriteUseCaseError(w, handlerLogger, err)
		return
	}

	cards := make([]ListingCardResponse, len(result.Items))
	for i, c := range result.Items {
		cards[i] = toCardResponse(c)
	}

	RespondWithJSON(w, http.StatusOK, PaginatedCardsResponse{
		Data:     cards,
		Total:    result.TotalCount,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

// SearchListings handles GET /api/v1/listings/search
func (h *ListingsHandler) SearchListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	page, err := ParsePageRequest(r)
	if err != nil {
		WriteUseCaseError(w, logger, err)
		return
	}

	req := domain.SearchRequest{
		Query:   r.URL.Query().Get("q"),
		Filters: CollectFilters(r),
		Page:    page,
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "SearchListings",
		"query":   req.Query,
	})
	handlerLogger.Debug("Processing search request", nil)

	result, err := h.searchListingsUC.Execute(r.Context(), req)
	if err != nil {
		WriteUseCaseError(w, handlerLogger, err)
		return
	}

	handlerLogger.Info("Search finished", port.Fields{
		"total_found": result.TotalCount,
	})

	RespondWithJSON(w, http.StatusOK, PaginatedListingsResponse{
		Data:     toListingResponses(result.Items),
		Total:    result.TotalCount,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

// SuggestListings handles GET /api/v1/listings/suggest
func (h *ListingsHandler) SuggestListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	limit, err := GetLimitOrDefault(r)
	if err != nil {
		WriteUseCaseError(w, logger, err)
		return
	}
	query := r.URL.Query().Get("q")

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "SuggestListings",
		"query":   query,
		"limit":   limit,
	})

	suggestions, err := h.suggestListingsUC.Execute(r.Context(), query, limit)
	if err != nil {
		WriteUseCaseError(w, handlerLogger, err)
		return
	}

	response := SuggestionsResponse{Data: make([]SuggestionResponse, len(suggestions))}
	for i, s := range suggestions {
		response.Data[i] = SuggestionResponse{
			Label:     s.Label,
			Category:  string(s.Category),
			ListingID: s.ListingID.String(),
		}
	}

	RespondWithJSON(w, http.StatusOK, response)
}

// SimilarListings handles GET /api/v1/listings/{listingID}/similar
func (h *ListingsHandler) SimilarListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	listingID, err := uuid.Parse(chi.URLParam(r, "listingID"))
	if err != nil {
		logger.Warn("Invalid listing ID format", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID format")
		return
	}

	req := domain.SimilarityRequest{ListingID: listingID}

	query := r.URL.Query()
	if deltaStr := query.Get("maxPriceDelta"); deltaStr != "" {
		delta, err := strconv.ParseFloat(deltaStr, 64)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "maxPriceDelta must be a number")
			return
		}
		req.MaxPriceDelta = delta
	}
	if distStr := query.Get("maxDistanceKm"); distStr != "" {
		dist, err := strconv.ParseFloat(distStr, 64)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "maxDistanceKm must be a number")
			return
		}
		req.MaxDistanceKm = &dist
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		req.MaxResults = limit
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":    "SimilarListings",
		"listing_id": listingID.String(),
	})
	handlerLogger.Debug("Processing similarity request", nil)

	similar, err := h.similarListingsUC.Execute(r.Context(), req)
	if err != nil {
		WriteUseCaseError(w, handlerLogger, err)
		return
	}

	handlerLogger.Info("Similarity ranking finished", port.Fields{
		"results": len(similar),
	})

	RespondWithJSON(w, http.StatusOK, ListingsResponse{Data: toListingResponses(similar)})
}

// GetListing handles GET /api/v1/listings/{listingID}
func (h *ListingsHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	listingID, err := uuid.Parse(chi.URLParam(r, "listingID"))
	if err != nil {
		logger.Warn("Invalid listing ID format", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID format")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":    "GetListing",
		"listing_id": listingID.String(),
	})

	listing, err := h.getListingUC.Execute(r.Context(), listingID)
	if err != nil {
		WriteUseCaseError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toListingResponse(*listing))
}

// IncrementViews handles POST /api/v1/listings/{listingID}/views
func (h *ListingsHandler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	listingID, err := uuid.Parse(chi.URLParam(r, "listingID"))
	if err != nil {
		logger.Warn("Invalid listing ID format", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID format")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":    "IncrementViews",
		"listing_id": listingID.String(),
	})

	if err := h.incrementViewsUC.Execute(r.Context(), listingID); err != nil {
		WriteUseCaseError(w, handlerLogger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetFeatured handles GET /api/v1/listings/featured
func (h *ListingsHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	limit, err := GetLimitOrDefault(r)
	if err != nil {
		WriteUseCaseError(w, logger, err)
		return
	}
	fillRandom := r.URL.Query().Get("fill") == "true"

	handlerLogger := logger.WithFields(port.Fields{
		"handler":     "GetFeatured",
		"limit":       limit,
		"fill_random": fillRandom,
	})

	listings, err := h.getFeaturedUC.Execute(r.Context(), limit, fillRandom)
	if err != nil {
		WriteUseCaseError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, ListingsResponse{Data: toListingResponses(listings)})
}
