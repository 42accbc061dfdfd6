package domain

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// SearchRequest is a free-text query combined with attribute filters and a
// page selection. An empty query degenerates to plain filtered pagination.
type SearchRequest struct {
	Query   string
	Filters map[string]string
	Page    PageRequest
}

// TokenizeQuery splits free text into lower-cased tokens on whitespace and
// punctuation. Matching is OR across tokens and indexed fields: one token
// hitting one field is enough, so short queries don't over-restrict.
func TokenizeQuery(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// SuggestionCategory disambiguates what a typeahead label refers to.
type SuggestionCategory string

const (
	SuggestionCity    SuggestionCategory = "city"
	SuggestionAddress SuggestionCategory = "address"
	SuggestionMLS     SuggestionCategory = "mls"
)

// Suggestion is one typeahead candidate: a label, its category and the
// listing it resolves to.
type Suggestion struct {
	Label     string             `json:"label"`
	Category  SuggestionCategory `json:"category"`
	ListingID uuid.UUID          `json:"listingId"`
}
