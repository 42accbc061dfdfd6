// Package inmemory implements the listing store port without external
// infrastructure. It is the reference predicate evaluation used by tests
// and by deployments where no pushdown-capable store is available.
package inmemory

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"listing-query-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
)

// geoPrecision is the geohash cell size of the coordinate index
// (5 characters ~ 4.9 x 4.9 km cells).
const geoPrecision = 5

type ListingStore struct {
	mu         sync.RWMutex
	listings   map[uuid.UUID]domain.Listing
	byExternal map[string]uuid.UUID
	geoIndex   map[string]map[uuid.UUID]struct{}
}

func NewListingStore() *ListingStore {
	return &ListingStore{
		listings:   make(map[uuid.UUID]domain.Listing),
		byExternal: make(map[string]uuid.UUID),
		geoIndex:   make(map[string]map[uuid.UUID]struct{}),
	}
}

func externalKey(source domain.ListingSource, externalID string) string {
	return string(source) + "\x00" + externalID
}

func geoCell(c domain.Coordinates) string {
	return geohash.EncodeWithPrecision(c.Latitude, c.Longitude, geoPrecision)
}

func (s *ListingStore) Query(ctx context.Context, pred domain.Predicate, sortBy domain.Sort, skip, limit int) ([]domain.Listing, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	matched := s.collectLocked(pred)
	s.mu.RUnlock()

	sortListings(matched, sortBy)

	total := len(matched)
	if skip >= total {
		return []domain.Listing{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	page := make([]domain.Listing, end-skip)
	copy(page, matched[skip:end])
	return page, total, nil
}

// collectLocked gathers all matching listings. When the predicate carries a
// bounding box, the geohash cell index narrows the scan to intersecting
// cells before exact evaluation.
func (s *ListingStore) collectLocked(pred domain.Predicate) []domain.Listing {
	var candidates []domain.Listing

	if box, ok := boundingBoxOf(pred); ok {
		for cell, ids := range s.geoIndex {
			cellBox := geohash.BoundingBox(cell)
			if cellBox.MaxLat < box.MinLat || cellBox.MinLat > box.MaxLat ||
				cellBox.MaxLng < box.MinLng || cellBox.MinLng > box.MaxLng {
				continue
			}
			for id := range ids {
				candidates = append(candidates, s.listings[id])
			}
		}
	} else {
		candidates = make([]domain.Listing, 0, len(s.listings))
		for _, l := range s.listings {
			candidates = append(candidates, l)
		}
	}

	matched := make([]domain.Listing, 0, len(candidates))
	for _, l := range candidates {
		if Matches(l, pred) {
			matched = append(matched, l)
		}
	}
	return matched
}

func boundingBoxOf(pred domain.Predicate) (domain.BoundingBox, bool) {
	for _, c := range pred.Conditions {
		if c.Op == domain.OpWithinBox {
			if box, ok := c.Value.(domain.BoundingBox); ok {
				return box, true
			}
		}
	}
	return domain.BoundingBox{}, false
}

// Matches evaluates the full predicate against one listing.
func Matches(l domain.Listing, pred domain.Predicate) bool {
	for _, cond := range pred.Conditions {
		if !matchesCondition(l, cond) {
			return false
		}
	}
	return matchesText(l, pred.TextTokens)
}

func matchesCondition(l domain.Listing, cond domain.Condition) bool {
	switch cond.Field {
	case "transactionType":
		return cond.Op == domain.OpEqual && string(l.TransactionType) == cond.Value
	case "propertyType":
		return foldEqual(l.PropertyType, cond)
	case "source":
		return cond.Op == domain.OpEqual && string(l.Source) == cond.Value
	case "externalId":
		return foldEqual(l.ExternalID, cond)
	case "city":
		return foldEqual(l.City, cond)
	case "address":
		sub, ok := cond.Value.(string)
		return ok && cond.Op == domain.OpContains &&
			strings.Contains(strings.ToLower(l.Address), strings.ToLower(sub))
	case "featured":
		return cond.Value == l.Featured
	case "disabled":
		return cond.Value == l.Disabled
	case "price":
		return compareFloat(l.Price, cond)
	case "views":
		return compareFloat(float64(l.Views), cond)
	case "updatedAt":
		ts, ok := cond.Value.(time.Time)
		if !ok {
			return false
		}
		switch cond.Op {
		case domain.OpGTE:
			return !l.UpdatedAt.Before(ts)
		case domain.OpLTE:
			return !l.UpdatedAt.After(ts)
		}
		return false
	case "coordinates":
		box, ok := cond.Value.(domain.BoundingBox)
		if !ok || cond.Op != domain.OpWithinBox {
			return false
		}
		// Listings without coordinates never match a geo filter.
		return l.Coordinates != nil && box.Contains(*l.Coordinates)
	}
	return false
}

func foldEqual(value string, cond domain.Condition) bool {
	want, ok := cond.Value.(string)
	if !ok {
		return false
	}
	if cond.Op == domain.OpEqualFold {
		return strings.EqualFold(value, want)
	}
	return cond.Op == domain.OpEqual && value == want
}

func compareFloat(value float64, cond domain.Condition) bool {
	want, ok := cond.Value.(float64)
	if !ok {
		return false
	}
	switch cond.Op {
	case domain.OpGTE:
		return value >= want
	case domain.OpLTE:
		return value <= want
	case domain.OpEqual:
		return value == want
	}
	return false
}

// matchesText applies OR semantics: one token hitting one indexed field is
// enough.
func matchesText(l domain.Listing, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	haystacks := []string{
		strings.ToLower(l.Title),
		strings.ToLower(l.Description),
		strings.ToLower(l.Address),
		strings.ToLower(l.City),
	}
	for _, token := range tokens {
		for _, h := range haystacks {
			if strings.Contains(h, token) {
				return true
			}
		}
	}
	return false
}

// sortListings orders by the requested field with the internal id as the
// stable tie-break, so page boundaries survive concurrent inserts of
// unrelated listings.
func sortListings(listings []domain.Listing, sortBy domain.Sort) {
	sort.SliceStable(listings, func(i, j int) bool {
		a, b := listings[i], listings[j]
		var less, equal bool
		switch sortBy.Field {
		case domain.SortByPrice:
			less, equal = a.Price < b.Price, a.Price == b.Price
		case domain.SortByViews:
			less, equal = a.Views < b.Views, a.Views == b.Views
		default:
			less, equal = a.UpdatedAt.Before(b.UpdatedAt), a.UpdatedAt.Equal(b.UpdatedAt)
		}
		if equal {
			return a.ID.String() < b.ID.String()
		}
		if sortBy.Descending {
			return !less
		}
		return less
	})
}

func (s *ListingStore) Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	copied := l
	return &copied, nil
}

func (s *ListingStore) GetByExternalID(ctx context.Context, source domain.ListingSource, externalID string) (*domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byExternal[externalKey(source, externalID)]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	copied := s.listings[id]
	return &copied, nil
}

func (s *ListingStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	l.Views++
	s.listings[id] = l
	return nil
}

func (s *ListingStore) SuggestLabels(ctx context.Context, query string, limit int) ([]domain.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	suggestions := make([]domain.Suggestion, 0, limit)
	for _, l := range s.listings {
		if l.Disabled {
			continue
		}
		for _, cand := range []struct {
			label    string
			category domain.SuggestionCategory
		}{
			{l.City, domain.SuggestionCity},
			{l.Address, domain.SuggestionAddress},
			{l.ExternalID, domain.SuggestionMLS},
		} {
			if cand.label == "" || !strings.Contains(strings.ToLower(cand.label), query) {
				continue
			}
			suggestions = append(suggestions, domain.Suggestion{
				Label:     cand.label,
				Category:  cand.category,
				ListingID: l.ID,
			})
			if len(suggestions) >= limit {
				return suggestions, nil
			}
		}
	}
	return suggestions, nil
}

func (s *ListingStore) Save(ctx context.Context, listing domain.Listing) (uuid.UUID, bool, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing *domain.Listing
	if listing.ID != uuid.Nil {
		if l, ok := s.listings[listing.ID]; ok {
			existing = &l
		}
	} else if listing.ExternalID != "" {
		if id, ok := s.byExternal[externalKey(listing.Source, listing.ExternalID)]; ok {
			l := s.listings[id]
			existing = &l
		}
	}

	updated := existing != nil
	if updated {
		// The internal id is immutable and the view counter is
		// monotonic; both survive feed updates.
		listing.ID = existing.ID
		listing.Views = existing.Views
		s.dropFromIndexesLocked(*existing)
	} else if listing.ID == uuid.Nil {
		listing.ID = uuid.New()
	}
	if listing.UpdatedAt.IsZero() {
		listing.UpdatedAt = time.Now().UTC()
	}

	s.listings[listing.ID] = listing
	if listing.ExternalID != "" {
		s.byExternal[externalKey(listing.Source, listing.ExternalID)] = listing.ID
	}
	if listing.Coordinates != nil {
		cell := geoCell(*listing.Coordinates)
		if s.geoIndex[cell] == nil {
			s.geoIndex[cell] = make(map[uuid.UUID]struct{})
		}
		s.geoIndex[cell][listing.ID] = struct{}{}
	}
	return listing.ID, updated, nil
}

func (s *ListingStore) dropFromIndexesLocked(l domain.Listing) {
	if l.ExternalID != "" {
		delete(s.byExternal, externalKey(l.Source, l.ExternalID))
	}
	if l.Coordinates != nil {
		cell := geoCell(*l.Coordinates)
		if ids, ok := s.geoIndex[cell]; ok {
			delete(ids, l.ID)
			if len(ids) == 0 {
				delete(s.geoIndex, cell)
			}
		}
	}
}

func (s *ListingStore) Remove(ctx context.Context, ids ...uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if l, ok := s.listings[id]; ok {
			s.dropFromIndexesLocked(l)
			delete(s.listings, id)
		}
	}
	return nil
}

func (s *ListingStore) RemoveByExternalIDs(ctx context.Context, source domain.ListingSource, externalIDs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, extID := range externalIDs {
		if id, ok := s.byExternal[externalKey(source, extID)]; ok {
			l := s.listings[id]
			s.dropFromIndexesLocked(l)
			delete(s.listings, id)
		}
	}
	return nil
}

func (s *ListingStore) ExternalIDs(ctx context.Context, source domain.ListingSource) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0)
	for _, l := range s.listings {
		if l.Source == source && l.ExternalID != "" {
			ids = append(ids, l.ExternalID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *ListingStore) LatestUpdate(ctx context.Context, source domain.ListingSource) (*time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *time.Time
	for _, l := range s.listings {
		if l.Source != source {
			continue
		}
		if latest == nil || l.UpdatedAt.After(*latest) {
			ts := l.UpdatedAt
			latest = &ts
		}
	}
	return latest, nil
}

func (s *ListingStore) MissingCoordinates(ctx context.Context) ([]domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	missing := make([]domain.Listing, 0)
	for _, l := range s.listings {
		if l.Coordinates == nil {
			missing = append(missing, l)
		}
	}
	sortListings(missing, domain.DefaultSort())
	return missing, nil
}

func (s *ListingStore) UpdateCoordinates(ctx context.Context, id uuid.UUID, coords domain.Coordinates) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	s.dropFromIndexesLocked(l)
	l.Coordinates = &coords
	s.listings[id] = l

	cell := geoCell(coords)
	if s.geoIndex[cell] == nil {
		s.geoIndex[cell] = make(map[uuid.UUID]struct{})
	}
	s.geoIndex[cell][id] = struct{}{}
	if l.ExternalID != "" {
		s.byExternal[externalKey(l.Source, l.ExternalID)] = id
	}
	return nil
}

func (s *ListingStore) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	return s.setFlag(ctx, id, func(l *domain.Listing) { l.Featured = featured })
}

func (s *ListingStore) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) error {
	return s.setFlag(ctx, id, func(l *domain.Listing) { l.Disabled = disabled })
}

func (s *ListingStore) setFlag(ctx context.Context, id uuid.UUID, apply func(*domain.Listing)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	apply(&l)
	s.listings[id] = l
	return nil
}

func (s *ListingStore) Featured(ctx context.Context, limit int, fillRandom bool) ([]domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	featured := make([]domain.Listing, 0, limit)
	rest := make([]domain.Listing, 0)
	for _, l := range s.listings {
		switch {
		case l.Disabled:
		case l.Featured:
			featured = append(featured, l)
		default:
			rest = append(rest, l)
		}
	}
	sortListings(featured, domain.DefaultSort())
	if len(featured) > limit {
		return featured[:limit], nil
	}

	if fillRandom && len(featured) < limit {
		rand.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		need := limit - len(featured)
		if need > len(rest) {
			need = len(rest)
		}
		featured = append(featured, rest[:need]...)
	}
	return featured, nil
}
