package services

import (
	"context"
	"iter"
	"strings"

	"rideshare/internal/domain/entities"
	"rideshare/internal/logging"
	"rideshare/internal/metrics"
	"rideshare/internal/repository"
)

// DefaultPageSize is how many matches one page shows unless configured
// otherwise.
const DefaultPageSize = 3

// SearchIntent asks for every ride of Role posted for exactly this pickup and
// destination. Role is the role of the records wanted: a passenger looking for
// drivers searches with RoleDriver.
type SearchIntent struct {
	Pickup      string        `json:"pickup"`
	Destination string        `json:"destination"`
	Role        entities.Role `json:"role"`

	// ActiveOnly drops cancelled records from the result.
	ActiveOnly bool `json:"active_only"`
}

// MatchSet is the materialized result of one search. It owns copies of the
// records, so paging never touches the store and later writes never show up in
// it.
type MatchSet struct {
	records []entities.RideRecord
}

func (m *MatchSet) Len() int {
	return len(m.records)
}

// Page returns up to size records starting at offset. A negative offset counts
// as 0; an offset at or past the end yields an empty page.
func (m *MatchSet) Page(offset, size int) []entities.RideRecord {
	offset = max(offset, 0)
	if size <= 0 || offset >= len(m.records) {
		return []entities.RideRecord{}
	}
	// Compare against what remains; offset+size can overflow.
	size = min(size, len(m.records)-offset)
	page := make([]entities.RideRecord, size)
	copy(page, m.records[offset:offset+size])
	return page
}

// PageInfo describes a page for previous/next navigation.
type PageInfo struct {
	Offset  int  `json:"offset"`
	Size    int  `json:"size"`
	Total   int  `json:"total"`
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`
}

func (m *MatchSet) PageInfo(offset, size int) PageInfo {
	offset = max(offset, 0)
	return PageInfo{
		Offset:  offset,
		Size:    size,
		Total:   len(m.records),
		HasPrev: offset > 0,
		HasNext: size > 0 && offset < len(m.records) && size < len(m.records)-offset,
	}
}

// All yields every record in result order. The sequence can be ranged over any
// number of times.
func (m *MatchSet) All() iter.Seq[entities.RideRecord] {
	return func(yield func(entities.RideRecord) bool) {
		for _, r := range m.records {
			if !yield(r) {
				return
			}
		}
	}
}

// MatchingService finds the counterparts of a ride by exact route. Every
// FindMatches call is one fresh query; results are never cached.
type MatchingService struct {
	rides repository.RideRepository
}

func NewMatchingService(rides repository.RideRepository) *MatchingService {
	return &MatchingService{rides: rides}
}

// FindMatches runs the search. Blank locations are rejected before the store is
// queried. The store's failure is returned as StoreUnavailable and not retried.
func (s *MatchingService) FindMatches(ctx context.Context, intent SearchIntent) (*MatchSet, error) {
	if strings.TrimSpace(intent.Pickup) == "" || strings.TrimSpace(intent.Destination) == "" {
		metrics.Searches.WithLabelValues(string(intent.Role), string(entities.KindMissingLocation)).Inc()
		return nil, entities.NewValidationError(entities.KindMissingLocation, nil)
	}
	if !intent.Role.Valid() {
		metrics.Searches.WithLabelValues("", string(entities.KindInvalidRole)).Inc()
		return nil, entities.NewValidationError(entities.KindInvalidRole, nil)
	}

	found, err := s.rides.FindByRoute(ctx, intent.Role, intent.Pickup, intent.Destination)
	if err != nil {
		metrics.Searches.WithLabelValues(string(intent.Role), string(entities.KindStoreUnavailable)).Inc()
		logging.Ctx(ctx).Error().Err(err).
			Str("pickup", intent.Pickup).
			Str("destination", intent.Destination).
			Msg("match search failed")
		return nil, entities.NewValidationError(entities.KindStoreUnavailable, err)
	}

	records := make([]entities.RideRecord, 0, len(found))
	for _, r := range found {
		if intent.ActiveOnly && r.Status == entities.RideStatusCancelled {
			continue
		}
		records = append(records, *r)
	}

	metrics.Searches.WithLabelValues(string(intent.Role), "ok").Inc()
	metrics.SearchResultSize.Observe(float64(len(records)))
	logging.Ctx(ctx).Debug().
		Str("role", string(intent.Role)).
		Str("pickup", intent.Pickup).
		Str("destination", intent.Destination).
		Int("matches", len(records)).
		Msg("match search")

	return &MatchSet{records: records}, nil
}
