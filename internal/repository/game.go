package repository

import (
	"context"
	"database/sql"
	"fmt"

	"igdb-dashboard/internal/domain"

	"github.com/rs/zerolog"
)

const selectAllGames = `
SELECT id, name, cover_url, rating, rating_count, igdb_url, first_release_date, hypes, dlt_load_timestamp
FROM games_dashboard
ORDER BY id`

type GameRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewGameRepository(db *sql.DB, logger zerolog.Logger) *GameRepository {
	return &GameRepository{
		db:     db,
		logger: logger,
	}
}

// FetchAll reads the full games_dashboard row set. The table is small
// enough (tens of thousands of rows) that the whole set lives in one
// in-memory snapshot; there is no incremental read path.
func (r *GameRepository) FetchAll(ctx context.Context) ([]domain.GameRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectAllGames)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query games_dashboard")
		return nil, fmt.Errorf("failed to query games_dashboard: %w", err)
	}
	defer rows.Close()

	var games []domain.GameRecord
	for rows.Next() {
		var g domain.GameRecord
		err := rows.Scan(
			&g.ID,
			&g.Name,
			&g.CoverURL,
			&g.Rating,
			&g.RatingCount,
			&g.IGDBURL,
			&g.FirstReleaseDate,
			&g.Hypes,
			&g.LoadTimestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game rows: %w", err)
	}

	r.logger.Debug().Int("count", len(games)).Msg("fetched full dataset")
	return games, nil
}
