package service

import (
	"context"
	"fmt"
	"time"

	"igdb-dashboard/internal/cache"
	"igdb-dashboard/internal/constants"
	"igdb-dashboard/internal/domain"
	"igdb-dashboard/internal/pagination"
	"igdb-dashboard/internal/query"

	"github.com/rs/zerolog"
)

// PageResult is one rendered page of a view.
type PageResult struct {
	Games      []domain.GameRecord
	Page       int
	TotalPages int
	TotalGames int
}

// Stats are the sidebar metrics shared by both views.
type Stats struct {
	TotalGames      int
	TotalRatings    int64
	LastUpdated     string
	MaxUpcomingHype int
}

// DashboardService runs the render pipeline: snapshot -> filter/sort ->
// paginate. The pipeline is recomputed in full on every request; the
// only cached state is the dataset snapshot itself.
type DashboardService struct {
	cache  *cache.SnapshotCache
	logger zerolog.Logger
}

func NewDashboardService(cache *cache.SnapshotCache, logger zerolog.Logger) *DashboardService {
	return &DashboardService{cache: cache, logger: logger}
}

// Popular renders one page of the popular games view. The view's page
// resets to 1 when the filter changed since the last request, then the
// navigation action is applied against the filtered page count.
func (s *DashboardService) Popular(ctx context.Context, f domain.PopularFilter, view *pagination.ViewState, nav pagination.Nav) (*PageResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	snap, err := s.cache.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load snapshot for popular view")
		return nil, err
	}

	filtered := query.FilterPopular(snap.Games, f)
	result := s.page(filtered, fingerprint(f), view, nav)

	s.logger.Debug().
		Str("search", f.Search).
		Str("sort_by", string(f.SortBy)).
		Str("order", string(f.Order)).
		Int("matched", result.TotalGames).
		Int("page", result.Page).
		Msg("popular view rendered")

	return result, nil
}

// Upcoming renders one page of the upcoming releases view.
func (s *DashboardService) Upcoming(ctx context.Context, f domain.UpcomingFilter, view *pagination.ViewState, nav pagination.Nav) (*PageResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	snap, err := s.cache.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load snapshot for upcoming view")
		return nil, err
	}

	now := time.Now()
	// A negative max means "unbounded": use the snapshot's highest hype
	// among upcoming releases, the same default the range control shows.
	if f.HypesMax < 0 {
		f.HypesMax = snap.MaxUpcomingHype(now)
	}

	filtered := query.FilterUpcoming(snap.Games, f, now)
	result := s.page(filtered, fingerprint(f), view, nav)

	s.logger.Debug().
		Str("search", f.Search).
		Str("sort_by", string(f.SortBy)).
		Str("order", string(f.Order)).
		Int("matched", result.TotalGames).
		Int("page", result.Page).
		Msg("upcoming view rendered")

	return result, nil
}

// Stats computes the sidebar metrics from the current snapshot.
func (s *DashboardService) Stats(ctx context.Context) (*Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	snap, err := s.cache.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load snapshot for stats")
		return nil, err
	}

	return &Stats{
		TotalGames:      snap.TotalGames(),
		TotalRatings:    snap.TotalRatings(),
		LastUpdated:     snap.LastUpdated(),
		MaxUpcomingHype: snap.MaxUpcomingHype(time.Now()),
	}, nil
}

func (s *DashboardService) page(filtered []domain.GameRecord, filterKey string, view *pagination.ViewState, nav pagination.Nav) *PageResult {
	totalPages := pagination.TotalPages(len(filtered), constants.RowsPerPage)

	// One atomic step against the view: overlapping requests from the
	// same session must not interleave the reset/navigate/clamp
	// sequence.
	page := view.Advance(filterKey, totalPages, nav)

	return &PageResult{
		Games:      pagination.Paginate(filtered, page, constants.RowsPerPage),
		Page:       page,
		TotalPages: totalPages,
		TotalGames: len(filtered),
	}
}

// fingerprint serializes every filter and sort parameter of a view so
// ViewState.ApplyFilter sees any change as a page reset.
func fingerprint(f any) string {
	return fmt.Sprintf("%+v", f)
}
