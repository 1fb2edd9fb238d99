package store

import (
	"sort"
	"strings"

	"github.com/yungbote/travelplanner-backend/internal/domain"
)

func SortItems(items []*domain.ItineraryItem) {
	sort.SliceStable(items, func(i, j int) bool { return domain.ItemLess(items[i], items[j]) })
}

func SortRecords(recs []*domain.Itinerary) {
	sort.SliceStable(recs, func(i, j int) bool { return domain.RecordLess(recs[i], recs[j]) })
}

// SortAttractions orders the catalog by name, then id.
func SortAttractions(rows []*domain.Attraction) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ID < rows[j].ID
	})
}

// MatchesDestination is the in-memory form of the catalog keyword filter.
func MatchesDestination(a *domain.Attraction, destination string) bool {
	needle := strings.ToLower(strings.TrimSpace(destination))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Name), needle) ||
		strings.Contains(strings.ToLower(a.Address), needle)
}

// SortPosts orders posts newest first, ties by id descending.
func SortPosts(rows []*domain.Post) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
}

// SortComments orders comments oldest first, ties by id.
func SortComments(rows []*domain.Comment) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].ID < rows[j].ID
	})
}
