// Package query is the pure filter/sort engine over a dataset snapshot.
// Both entry points are deterministic and side-effect free: they never
// mutate the input slice and use a stable sort, so records that compare
// equal keep their dataset order.
package query

import (
	"sort"
	"strings"
	"time"

	"igdb-dashboard/internal/domain"
)

// FilterPopular selects games whose title contains the search text
// (case-insensitive, empty matches all), whose rating lies inside the
// inclusive range, and whose rating count meets the threshold. Games
// with a null rating never pass the rating range.
func FilterPopular(games []domain.GameRecord, f domain.PopularFilter) []domain.GameRecord {
	search := normalizeSearch(f.Search)

	out := make([]domain.GameRecord, 0, len(games))
	for _, g := range games {
		if !matchesTitle(g.Name, search) {
			continue
		}
		if !g.Rating.Valid || g.Rating.Float64 < f.RatingMin || g.Rating.Float64 > f.RatingMax {
			continue
		}
		if g.RatingCount < f.MinRatingCount {
			continue
		}
		out = append(out, g)
	}

	sortStable(out, f.Order, func(a, b domain.GameRecord) bool {
		if f.SortBy == domain.SortByRating {
			return a.Rating.Float64 < b.Rating.Float64
		}
		return a.RatingCount < b.RatingCount
	})

	return out
}

// FilterUpcoming selects games releasing strictly after now's date whose
// title contains the search text and whose hype count lies inside the
// inclusive range.
func FilterUpcoming(games []domain.GameRecord, f domain.UpcomingFilter, now time.Time) []domain.GameRecord {
	search := normalizeSearch(f.Search)
	today := domain.StartOfDay(now)

	out := make([]domain.GameRecord, 0, len(games))
	for _, g := range games {
		if !g.FirstReleaseDate.After(today) {
			continue
		}
		if !matchesTitle(g.Name, search) {
			continue
		}
		if g.Hypes < f.HypesMin || g.Hypes > f.HypesMax {
			continue
		}
		out = append(out, g)
	}

	sortStable(out, f.Order, func(a, b domain.GameRecord) bool {
		if f.SortBy == domain.SortByReleaseDate {
			return a.FirstReleaseDate.Before(b.FirstReleaseDate)
		}
		return a.Hypes < b.Hypes
	})

	return out
}

// sortStable orders games by less in the given direction. Descending
// swaps the operands instead of negating less, so equal records still
// compare false and keep their input order.
func sortStable(games []domain.GameRecord, order domain.SortOrder, less func(a, b domain.GameRecord) bool) {
	sort.SliceStable(games, func(i, j int) bool {
		if order == domain.SortDesc {
			return less(games[j], games[i])
		}
		return less(games[i], games[j])
	})
}

// normalizeSearch trims and lowercases the input. Simple ToLower
// folding, applied identically to both sides of the comparison; full
// Unicode case folding is deliberately out of scope.
func normalizeSearch(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func matchesTitle(title, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), search)
}
