package server

import (
	"fmt"

	"igdb-dashboard/internal/domain"
	"igdb-dashboard/internal/service"
)

const releaseDateFormat = "Jan 02, 2006"

type popularCard struct {
	Title       string `json:"title"`
	CoverURL    string `json:"cover_url"`
	DetailURL   string `json:"detail_url"`
	Rating      string `json:"rating"`
	RatingCount int    `json:"rating_count"`
}

type upcomingCard struct {
	Title       string `json:"title"`
	CoverURL    string `json:"cover_url"`
	DetailURL   string `json:"detail_url"`
	ReleaseDate string `json:"release_date"`
	Hypes       int    `json:"hypes"`
}

type popularResponse struct {
	Games      []popularCard `json:"games"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	TotalGames int           `json:"total_games"`
}

type upcomingResponse struct {
	Games      []upcomingCard `json:"games"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	TotalGames int            `json:"total_games"`
}

type statsResponse struct {
	TotalGames      int    `json:"total_games"`
	TotalRatings    int64  `json:"total_ratings"`
	LastUpdated     string `json:"last_updated"`
	MaxUpcomingHype int    `json:"max_upcoming_hype"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toPopularResponse(res *service.PageResult) popularResponse {
	cards := make([]popularCard, 0, len(res.Games))
	for _, g := range res.Games {
		cards = append(cards, popularCard{
			Title:       g.Name,
			CoverURL:    g.CoverURL,
			DetailURL:   g.IGDBURL,
			Rating:      formatRating(g),
			RatingCount: g.RatingCount,
		})
	}
	return popularResponse{
		Games:      cards,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		TotalGames: res.TotalGames,
	}
}

func toUpcomingResponse(res *service.PageResult) upcomingResponse {
	cards := make([]upcomingCard, 0, len(res.Games))
	for _, g := range res.Games {
		cards = append(cards, upcomingCard{
			Title:       g.Name,
			CoverURL:    g.CoverURL,
			DetailURL:   g.IGDBURL,
			ReleaseDate: g.FirstReleaseDate.Format(releaseDateFormat),
			Hypes:       g.Hypes,
		})
	}
	return upcomingResponse{
		Games:      cards,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		TotalGames: res.TotalGames,
	}
}

// formatRating renders to one decimal place, matching the card layout.
// The popular filter excludes null ratings, but a record reached some
// other way renders as an empty string rather than a fake zero.
func formatRating(g domain.GameRecord) string {
	if !g.Rating.Valid {
		return ""
	}
	return fmt.Sprintf("%.1f", g.Rating.Float64)
}
