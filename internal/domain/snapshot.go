package domain

import "time"

const lastUpdatedFormat = "2006-01-02 15:04 UTC"

// Snapshot is an immutable full copy of the dataset as of FetchedAt.
// It is replaced wholesale on expiry, never mutated in place.
type Snapshot struct {
	Games     []GameRecord
	FetchedAt time.Time
}

func (s *Snapshot) TotalGames() int {
	return len(s.Games)
}

// TotalRatings is the sum of user rating counts across all records.
func (s *Snapshot) TotalRatings() int64 {
	var sum int64
	for _, g := range s.Games {
		sum += int64(g.RatingCount)
	}
	return sum
}

// MaxUpcomingHype is the highest hype count among games releasing
// strictly after now, used to size the hype range control. Returns 0
// when no future-dated records exist.
func (s *Snapshot) MaxUpcomingHype(now time.Time) int {
	today := StartOfDay(now)
	max := 0
	for _, g := range s.Games {
		if g.FirstReleaseDate.After(today) && g.Hypes > max {
			max = g.Hypes
		}
	}
	return max
}

// LastUpdated formats the most recent load timestamp across all records
// for the sidebar, e.g. "2025-06-01 04:30 UTC".
func (s *Snapshot) LastUpdated() string {
	var last time.Time
	for _, g := range s.Games {
		if g.LoadTimestamp.After(last) {
			last = g.LoadTimestamp
		}
	}
	if last.IsZero() {
		return ""
	}
	return last.UTC().Format(lastUpdatedFormat)
}

// StartOfDay truncates t to midnight in its own location. "Upcoming"
// means the release date is strictly after today's date, not after the
// current instant.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
