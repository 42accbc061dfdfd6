package rest

import (
	"time"

	"listing-query-service/internal/core/domain"
)

// CoordinatesDTO mirrors domain.Coordinates on the wire.
type CoordinatesDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ListingResponse - DTO for a full listing.
type ListingResponse struct {
	ID              string          `json:"id"`
	Source          string          `json:"source"`
	ExternalID      string          `json:"externalId"`
	TransactionType string          `json:"transactionType"`
	PropertyType    string          `json:"propertyType"`
	Price           float64         `json:"price"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Address         string          `json:"address"`
	City            string          `json:"city"`
	Coordinates     *CoordinatesDTO `json:"coordinates,omitempty"`
	Disabled        bool            `json:"disabled"`
	Featured        bool            `json:"featured"`
	Views           int64           `json:"views"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ListingCardResponse - DTO for the reduced card used in result lists.
type ListingCardResponse struct {
	ID              string  `json:"id"`
	TransactionType string  `json:"transactionType"`
	PropertyType    string  `json:"propertyType"`
	Price           float64 `json:"price"`
	Title           string  `json:"title"`
	Address         string  `json:"address"`
	City            string  `json:"city"`
	Featured        bool    `json:"featured"`
}

// PaginatedListingsResponse - DTO for a page of full listings.
type PaginatedListingsResponse struct {
	Data     []ListingResponse `json:"data"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// PaginatedCardsResponse - DTO for a page of listing cards.
type PaginatedCardsResponse struct {
	Data     []ListingCardResponse `json:"data"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
}

type SuggestionResponse struct {
	Label     string `json:"label"`
	Category  string `json:"category"`
	ListingID string `json:"listingId"`
}

type SuggestionsResponse struct {
	Data []SuggestionResponse `json:"data"`
}

type ListingsResponse struct {
	Data []ListingResponse `json:"data"`
}

// SaveListingRequest mirrors the listing JSON schema.
type SaveListingRequest struct {
	ID              string          `json:"id"`
	Source          string          `json:"source"`
	ExternalID      string          `json:"externalId"`
	TransactionType string          `json:"transactionType"`
	PropertyType    string          `json:"propertyType"`
	Price           float64         `json:"price"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Address         string          `json:"address"`
	City            string          `json:"city"`
	Coordinates     *CoordinatesDTO `json:"coordinates"`
	Disabled        bool            `json:"disabled"`
	Featured        bool            `json:"featured"`
	UpdatedAt       *time.Time      `json:"updatedAt"`
}

type SaveListingResponse struct {
	ID      string `json:"id"`
	Updated bool   `json:"updated"`
}

type RemoveListingsRequest struct {
	IDs []string `json:"ids"`
}

type RemoveByExternalIDsRequest struct {
	ExternalIDs []string `json:"externalIds"`
}

type SetFlagRequest struct {
	Value bool `json:"value"`
}

type UpdateCoordinatesRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ExternalIDsResponse struct {
	Data []string `json:"data"`
}

type LatestUpdateResponse struct {
	LatestUpdate *time.Time `json:"latestUpdate"`
}

func toListingResponse(l domain.Listing) ListingResponse {
	resp := ListingResponse{
		ID:              l.ID.String(),
		Source:          string(l.Source),
		ExternalID:      l.ExternalID,
		TransactionType: string(l.TransactionType),
		PropertyType:    l.PropertyType,
		Price:           l.Price,
		Title:           l.Title,
		Description:     l.Description,
		Address:         l.Address,
		City:            l.City,
		Disabled:        l.Disabled,
		Featured:        l.Featured,
		Views:           l.Views,
		UpdatedAt:       l.UpdatedAt,
	}
	if l.Coordinates != nil {
		resp.Coordinates = &CoordinatesDTO{
			Latitude:  l.Coordinates.Latitude,
			Longitude: l.Coordinates.Longitude,
		}
	}
	return resp
}

func toCardResponse(c domain.ListingCard) ListingCardResponse {
	return ListingCardResponse{
		ID:              c.ID.String(),
		TransactionType: string(c.TransactionType),
		PropertyType:    c.PropertyType,
		Price:           c.Price,
		Title:           c.Title,
		Address:         c.Address,
		City:            c.City,
		Featured:        c.Featured,
	}
}

func toListingResponses(listings []domain.Listing) []ListingResponse {
	out := make([]ListingResponse, len(listings))
	for i, l := range listings {
		out[i] = toListingResponse(l)
	}
	return out
}
