// Package pagination slices ordered result sets into fixed-size pages
// and tracks per-view page state.
package pagination

import (
	"sync"

	"igdb-dashboard/internal/domain"
)

// Paginate returns the 1-based page of the given size, clipped to the
// sequence bounds. A page past the end yields an empty slice, never an
// error.
func Paginate(games []domain.GameRecord, page, size int) []domain.GameRecord {
	if page < 1 || size < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(games) {
		return nil
	}
	end := start + size
	if end > len(games) {
		end = len(games)
	}
	return games[start:end]
}

// TotalPages is always at least 1, so an empty result still renders as
// "Page 1 of 1".
func TotalPages(count, size int) int {
	if size < 1 {
		return 1
	}
	pages := (count + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// NavAction steps a view's page relative to its current state.
type NavAction string

const (
	NavStay NavAction = ""
	NavPrev NavAction = "prev"
	NavNext NavAction = "next"
	NavJump NavAction = "jump"
)

// Nav is the page-navigation input of one request. Page is only read
// for NavJump.
type Nav struct {
	Action NavAction
	Page   int
}

// ViewState is the page-navigation state machine of a single view.
// Changing any filter parameter resets the page to 1; Prev and Next
// clamp at the bounds. All methods are safe for concurrent use: one
// browser session can issue overlapping requests against the same
// view. The zero value is not usable, use NewViewState.
type ViewState struct {
	mu     sync.Mutex
	page   int
	filter string
}

func NewViewState() *ViewState {
	return &ViewState{page: 1}
}

func (v *ViewState) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// Advance runs one render's page transitions as a single atomic step:
// reset to page 1 when the filter fingerprint changed, apply the
// navigation action, clamp to the current page count, and return the
// resulting page. Callers must route every filter and sort parameter
// through the fingerprint; this is the single place the reset
// invariant is enforced.
func (v *ViewState) Advance(fingerprint string, totalPages int, nav Nav) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.applyFilter(fingerprint)
	switch nav.Action {
	case NavPrev:
		if v.page > 1 {
			v.page--
		}
	case NavNext:
		if v.page < totalPages {
			v.page++
		}
	case NavJump:
		v.page = nav.Page
	}
	// The dataset can shrink across snapshot refreshes; keep the stored
	// page inside the current bounds.
	v.clamp(totalPages)
	return v.page
}

// ApplyFilter records the current filter fingerprint and resets the
// page to 1 when it differs from the previous one.
func (v *ViewState) ApplyFilter(fingerprint string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.applyFilter(fingerprint)
}

func (v *ViewState) Prev() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.page > 1 {
		v.page--
	}
}

func (v *ViewState) Next(totalPages int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.page < totalPages {
		v.page++
	}
}

// SetPage jumps to an explicit page, clamped to [1, totalPages].
func (v *ViewState) SetPage(page, totalPages int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = page
	v.clamp(totalPages)
}

func (v *ViewState) applyFilter(fingerprint string) {
	if v.filter != fingerprint {
		v.filter = fingerprint
		v.page = 1
	}
}

func (v *ViewState) clamp(totalPages int) {
	if v.page > totalPages {
		v.page = totalPages
	}
	if v.page < 1 {
		v.page = 1
	}
}
