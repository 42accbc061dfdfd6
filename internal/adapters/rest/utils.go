package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"listing-query-service/internal/core/domain"
	"listing-query-service/internal/core/port"
)

// WriteJSONError sends a JSON body with an "error" field and the given status.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// RespondWithJSON sends a JSON response.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// WriteUseCaseError maps engine errors to HTTP statuses and logs the
// failure once, at the boundary.
func WriteUseCaseError(w http.ResponseWriter, logger port.LoggerPort, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument) || domain.IsInvalidFilter(err):
		logger.Warn("Rejected invalid request", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrListingNotFound):
		logger.Warn("Listing not found", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusNotFound, "Listing not found")
	case errors.Is(err, domain.ErrStoreUnavailable):
		logger.Error("Listing store unavailable", err, nil)
		WriteJSONError(w, http.StatusServiceUnavailable, "Listing store unavailable")
	default:
		logger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// reservedQueryKeys are pagination and search controls, everything else in
// the query string is treated as an attribute filter.
var reservedQueryKeys = map[string]struct{}{
	"page":     {},
	"pageSize": {},
	"sort":     {},
	"order":    {},
	"q":        {},
	"limit":    {},
	"fill":     {},
}

// CollectFilters extracts attribute filters from the query string. Values
// stay raw; the filter compiler owns parsing and validation.
func CollectFilters(r *http.Request) map[string]string {
	filters := make(map[string]string)
	for key, values := range r.URL.Query() {
		if _, reserved := reservedQueryKeys[key]; reserved {
			continue
		}
		if len(values) > 0 {
			filters[key] = values[0]
		}
	}
	return filters
}

// ParsePageRequest reads page, pageSize, sort and order query parameters.
// Defaults: first page, 20 items, newest first. Range checks are left to
// the engine so the error taxonomy stays in one place.
func ParsePageRequest(r *http.Request) (domain.PageRequest, error) {
	query := r.URL.Query()

	page := 0
	if pageStr := query.Get("page"); pageStr != "" {
		var err error
		page, err = strconv.Atoi(pageStr)
		if err != nil {
			return domain.PageRequest{}, &domain.InvalidFilterError{Field: "page", Reason: "must be an integer"}
		}
	}

	pageSize := 20
	if sizeStr := query.Get("pageSize"); sizeStr != "" {
		var err error
		pageSize, err = strconv.Atoi(sizeStr)
		if err != nil {
			return domain.PageRequest{}, &domain.InvalidFilterError{Field: "pageSize", Reason: "must be an integer"}
		}
	}

	sort := domain.DefaultSort()
	if sortStr := query.Get("sort"); sortStr != "" {
		switch domain.SortField(sortStr) {
		case domain.SortByUpdatedAt, domain.SortByPrice, domain.SortByViews:
			sort.Field = domain.SortField(sortStr)
		default:
			return domain.PageRequest{}, &domain.InvalidFilterError{Field: "sort", Reason: "unknown sort field " + sortStr}
		}
		// Explicit sort defaults to ascending unless order says otherwise.
		sort.Descending = false
	}
	switch query.Get("order") {
	case "":
	case "asc":
		sort.Descending = false
	case "desc":
		sort.Descending = true
	default:
		return domain.PageRequest{}, &domain.InvalidFilterError{Field: "order", Reason: "must be asc or desc"}
	}

	return domain.PageRequest{Page: page, PageSize: pageSize, Sort: sort}, nil
}

// GetLimitOrDefault reads the limit query parameter with a default of 10.
func GetLimitOrDefault(r *http.Request) (int, error) {
	limitStr := r.URL.Query().Get("limit")
	limit := 10
	if limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			return 0, &domain.InvalidFilterError{Field: "limit", Reason: "must be an integer"}
		}
	}
	return limit, nil
}
