package domain

import (
	"database/sql"
	"time"
)

// GameRecord is one row of the games_dashboard warehouse table. Records
// are immutable once loaded into a snapshot.
type GameRecord struct {
	ID               int64
	Name             string
	CoverURL         string
	Rating           sql.NullFloat64 // 0-100, null when a game has no user ratings
	RatingCount      int
	IGDBURL          string
	FirstReleaseDate time.Time
	Hypes            int
	LoadTimestamp    time.Time
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type PopularSortKey string

const (
	SortByRating      PopularSortKey = "rating"
	SortByRatingCount PopularSortKey = "rating_count"
)

type UpcomingSortKey string

const (
	SortByHypes       UpcomingSortKey = "hypes"
	SortByReleaseDate UpcomingSortKey = "release_date"
)

// PopularFilter holds the user-facing controls of the popular games view.
type PopularFilter struct {
	Search         string
	RatingMin      float64
	RatingMax      float64
	MinRatingCount int
	SortBy         PopularSortKey
	Order          SortOrder
}

// UpcomingFilter holds the user-facing controls of the upcoming releases view.
type UpcomingFilter struct {
	Search   string
	HypesMin int
	HypesMax int
	SortBy   UpcomingSortKey
	Order    SortOrder
}
