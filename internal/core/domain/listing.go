package domain

import (
	"time"

	"github.com/google/uuid"
)

// ListingSource identifies the external feed a listing came from.
type ListingSource string

const (
	SourceMLS    ListingSource = "mls"
	SourceManual ListingSource = "manual"
)

// TransactionType of the listing (what kind of deal is offered).
type TransactionType string

const (
	TransactionSale TransactionType = "sale"
	TransactionRent TransactionType = "rent"
)

// Coordinates is a WGS84 point. A nil *Coordinates on a listing means the
// location is unknown; such listings cannot take part in geo filters or
// distance-bounded similarity.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Listing is the central entity of the catalog. It is created and mutated
// by ingestion and moderation; the query engine only reads it, except for
// the view counter which is bumped atomically at the store level.
type Listing struct {
	ID uuid.UUID `json:"id"`

	// Source/ExternalID identify provenance from an external feed.
	// At most one listing exists per (Source, ExternalID) pair.
	// ExternalID is empty for manually created listings.
	Source     ListingSource `json:"source"`
	ExternalID string        `json:"externalId"`

	TransactionType TransactionType `json:"transactionType"`
	PropertyType    string          `json:"propertyType"`
	Price           float64         `json:"price"`

	Title       string       `json:"title"`
	Description string       `json:"description"`
	Address     string       `json:"address"`
	City        string       `json:"city"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`

	Disabled bool `json:"disabled"`
	Featured bool `json:"featured"`

	Views     int64     `json:"views"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListingCard is the reduced projection of a listing used for result lists,
// where the full description and counters are not needed.
type ListingCard struct {
	ID              uuid.UUID       `json:"id"`
	TransactionType TransactionType `json:"transactionType"`
	PropertyType    string          `json:"propertyType"`
	Price           float64         `json:"price"`
	Title           string          `json:"title"`
	Address         string          `json:"address"`
	City            string          `json:"city"`
	Featured        bool            `json:"featured"`
}

// CardOf projects a listing to its card shape.
func CardOf(l Listing) ListingCard {
	return ListingCard{
		ID:              l.ID,
		TransactionType: l.TransactionType,
		PropertyType:    l.PropertyType,
		Price:           l.Price,
		Title:           l.Title,
		Address:         l.Address,
		City:            l.City,
		Featured:        l.Featured,
	}
}
