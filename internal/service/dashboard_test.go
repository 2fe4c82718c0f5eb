package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"igdb-dashboard/internal/cache"
	"igdb-dashboard/internal/config"
	"igdb-dashboard/internal/domain"
	"igdb-dashboard/internal/pagination"

	"github.com/rs/zerolog"
)

type stubFetcher struct {
	games []domain.GameRecord
	err   error
}

func (f *stubFetcher) FetchAll(ctx context.Context) ([]domain.GameRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.games, nil
}

func newService(games []domain.GameRecord, err error) *DashboardService {
	cfg := &config.Config{SnapshotTTL: time.Hour, FetchTimeout: time.Second}
	c := cache.New(&stubFetcher{games: games, err: err}, cfg, zerolog.Nop())
	return NewDashboardService(c, zerolog.Nop())
}

func ratedGames(n int) []domain.GameRecord {
	released := time.Now().AddDate(-1, 0, 0)
	out := make([]domain.GameRecord, n)
	for i := range out {
		out[i] = domain.GameRecord{
			ID:               int64(i + 1),
			Name:             fmt.Sprintf("Game %d", i+1),
			Rating:           sql.NullFloat64{Float64: 80, Valid: true},
			RatingCount:      n - i, // descending counts keep dataset order under the default sort
			FirstReleaseDate: released,
			LoadTimestamp:    time.Now(),
		}
	}
	return out
}

func defaultFilter() domain.PopularFilter {
	return domain.PopularFilter{
		RatingMin: 0,
		RatingMax: 100,
		SortBy:    domain.SortByRatingCount,
		Order:     domain.SortDesc,
	}
}

func TestPopular_PaginationScenario(t *testing.T) {
	svc := newService(ratedGames(25), nil)
	view := pagination.NewViewState()
	ctx := context.Background()
	f := defaultFilter()

	res, err := svc.Popular(ctx, f, view, pagination.Nav{Action: pagination.NavStay})
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(res.Games) != 20 || res.Page != 1 || res.TotalPages != 2 || res.TotalGames != 25 {
		t.Fatalf("page 1: got %d games, page %d of %d (total %d)",
			len(res.Games), res.Page, res.TotalPages, res.TotalGames)
	}

	res, err = svc.Popular(ctx, f, view, pagination.Nav{Action: pagination.NavNext})
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(res.Games) != 5 || res.Page != 2 {
		t.Fatalf("next: got %d games on page %d, want 5 on page 2", len(res.Games), res.Page)
	}

	// Next past the last page stays clamped.
	res, err = svc.Popular(ctx, f, view, pagination.Nav{Action: pagination.NavNext})
	if err != nil {
		t.Fatalf("next past end: %v", err)
	}
	if res.Page != 2 {
		t.Errorf("next past end: page = %d, want 2", res.Page)
	}

	res, err = svc.Popular(ctx, f, view, pagination.Nav{Action: pagination.NavPrev})
	if err != nil {
		t.Fatalf("prev: %v", err)
	}
	if res.Page != 1 {
		t.Errorf("prev: page = %d, want 1", res.Page)
	}
}

func TestPopular_FilterChangeResetsPage(t *testing.T) {
	svc := newService(ratedGames(60), nil)
	view := pagination.NewViewState()
	ctx := context.Background()
	f := defaultFilter()

	if _, err := svc.Popular(ctx, f, view, pagination.Nav{Action: pagination.NavJump, Page: 3}); err != nil {
		t.Fatalf("jump: %v", err)
	}
	if view.Page() != 3 {
		t.Fatalf("page = %d, want 3", view.Page())
	}

	f.Search = "Game 1"
	res, err := svc.Popular(ctx, f, view, pagination.Nav{Action: pagination.NavStay})
	if err != nil {
		t.Fatalf("filtered: %v", err)
	}
	if res.Page != 1 {
		t.Errorf("search change left page at %d, want 1", res.Page)
	}

	// Sort direction counts as a filter change too.
	f.Search = ""
	res, err = svc.Popular(ctx, f, view, pagination.Nav{Action: pagination.NavJump, Page: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Page != 2 {
		t.Fatalf("page = %d, want 2", res.Page)
	}
	f.Order = domain.SortAsc
	res, err = svc.Popular(ctx, f, view, pagination.Nav{Action: pagination.NavStay})
	if err != nil {
		t.Fatal(err)
	}
	if res.Page != 1 {
		t.Errorf("order change left page at %d, want 1", res.Page)
	}
}

func TestPopular_EmptyResultIsValid(t *testing.T) {
	svc := newService(ratedGames(10), nil)
	view := pagination.NewViewState()

	f := defaultFilter()
	f.Search = "no such title"

	res, err := svc.Popular(context.Background(), f, view, pagination.Nav{Action: pagination.NavStay})
	if err != nil {
		t.Fatalf("empty result errored: %v", err)
	}
	if len(res.Games) != 0 || res.TotalPages != 1 || res.Page != 1 {
		t.Errorf("got %d games, page %d of %d; want 0 games, page 1 of 1",
			len(res.Games), res.Page, res.TotalPages)
	}
}

func TestPopular_FetchErrorIsFatal(t *testing.T) {
	boom := errors.New("query failed")
	svc := newService(nil, boom)
	view := pagination.NewViewState()

	if _, err := svc.Popular(context.Background(), defaultFilter(), view, pagination.Nav{Action: pagination.NavStay}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestUpcoming_UnsetMaxUsesSnapshotMax(t *testing.T) {
	future := time.Now().AddDate(0, 2, 0)
	games := []domain.GameRecord{
		{ID: 1, Name: "A", FirstReleaseDate: future, Hypes: 120},
		{ID: 2, Name: "B", FirstReleaseDate: future, Hypes: 45},
	}
	svc := newService(games, nil)
	view := pagination.NewViewState()

	f := domain.UpcomingFilter{
		HypesMin: 0,
		HypesMax: -1, // unset: range control defaults to the observed max
		SortBy:   domain.SortByHypes,
		Order:    domain.SortDesc,
	}

	res, err := svc.Upcoming(context.Background(), f, view, pagination.Nav{Action: pagination.NavStay})
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if res.TotalGames != 2 {
		t.Errorf("got %d games, want both under the substituted max", res.TotalGames)
	}
}

func TestStats(t *testing.T) {
	load := time.Date(2026, 8, 29, 4, 0, 0, 0, time.UTC)
	future := time.Now().AddDate(0, 1, 0)
	games := []domain.GameRecord{
		{ID: 1, RatingCount: 10, FirstReleaseDate: future, Hypes: 7, LoadTimestamp: load},
		{ID: 2, RatingCount: 5, FirstReleaseDate: time.Now().AddDate(-1, 0, 0), Hypes: 99, LoadTimestamp: load},
	}
	svc := newService(games, nil)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalGames != 2 {
		t.Errorf("TotalGames = %d, want 2", stats.TotalGames)
	}
	if stats.TotalRatings != 15 {
		t.Errorf("TotalRatings = %d, want 15", stats.TotalRatings)
	}
	if stats.MaxUpcomingHype != 7 {
		t.Errorf("MaxUpcomingHype = %d, want 7", stats.MaxUpcomingHype)
	}
	if stats.LastUpdated != "2026-08-29 04:00 UTC" {
		t.Errorf("LastUpdated = %q", stats.LastUpdated)
	}
}

func TestPopular_ConcurrentRequestsSameView(t *testing.T) {
	svc := newService(ratedGames(100), nil) // 5 pages
	view := pagination.NewViewState()
	f := defaultFilter()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				res, err := svc.Popular(context.Background(), f, view, pagination.Nav{Action: pagination.NavNext})
				if err != nil {
					t.Errorf("popular: %v", err)
					return
				}
				if res.Page < 1 || res.Page > res.TotalPages {
					t.Errorf("page %d out of range [1, %d]", res.Page, res.TotalPages)
					return
				}
			}
		}()
	}
	wg.Wait()

	if got := view.Page(); got != 5 {
		t.Errorf("final page = %d, want 5", got)
	}
}
