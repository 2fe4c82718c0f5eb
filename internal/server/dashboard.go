package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"igdb-dashboard/internal/domain"
	"igdb-dashboard/internal/pagination"
	"igdb-dashboard/internal/service"
	"igdb-dashboard/internal/session"

	"github.com/asaskevich/govalidator"
	"github.com/rs/zerolog"
)

const sessionCookie = "dash_session"

type DashboardServer struct {
	svc      *service.DashboardService
	sessions *session.Registry
	logger   zerolog.Logger
}

func NewDashboardServer(svc *service.DashboardService, sessions *session.Registry, logger zerolog.Logger) *DashboardServer {
	return &DashboardServer{svc: svc, sessions: sessions, logger: logger}
}

func (s *DashboardServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/popular", s.handlePopular)
	mux.HandleFunc("GET /api/upcoming", s.handleUpcoming)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /healthz", s.handleHealth)
}

func (s *DashboardServer) handlePopular(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sortBy := q.Get("sort")
	if !govalidator.IsIn(sortBy, string(domain.SortByRating), string(domain.SortByRatingCount), "") {
		writeError(w, http.StatusBadRequest, "invalid sort key")
		return
	}
	if sortBy == "" {
		sortBy = string(domain.SortByRatingCount)
	}

	order, ok := parseOrder(q.Get("order"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid sort order")
		return
	}

	ratingMin, ok := parseFloat(q.Get("rating_min"), 0)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid rating_min")
		return
	}
	ratingMax, ok := parseFloat(q.Get("rating_max"), 100)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid rating_max")
		return
	}
	minCount, ok := parseInt(q.Get("min_count"), 0)
	if !ok || minCount < 0 {
		writeError(w, http.StatusBadRequest, "invalid min_count")
		return
	}

	nav, ok := parseNav(q.Get("page"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid page")
		return
	}

	state, err := s.session(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	filter := domain.PopularFilter{
		Search:         q.Get("search"),
		RatingMin:      ratingMin,
		RatingMax:      ratingMax,
		MinRatingCount: minCount,
		SortBy:         domain.PopularSortKey(sortBy),
		Order:          order,
	}

	res, err := s.svc.Popular(r.Context(), filter, state.Popular, nav)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load games")
		return
	}

	writeJSON(w, http.StatusOK, toPopularResponse(res))
}

func (s *DashboardServer) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sortBy := q.Get("sort")
	if !govalidator.IsIn(sortBy, string(domain.SortByHypes), string(domain.SortByReleaseDate), "") {
		writeError(w, http.StatusBadRequest, "invalid sort key")
		return
	}
	if sortBy == "" {
		sortBy = string(domain.SortByHypes)
	}

	order, ok := parseOrder(q.Get("order"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid sort order")
		return
	}

	hypesMin, ok := parseInt(q.Get("hypes_min"), 0)
	if !ok || hypesMin < 0 {
		writeError(w, http.StatusBadRequest, "invalid hypes_min")
		return
	}
	// -1 means unset: the service substitutes the snapshot's max hype
	// among upcoming releases, mirroring the range control's default.
	// Only an absent parameter maps to the sentinel; an explicit
	// negative is rejected.
	hypesMax, ok := parseInt(q.Get("hypes_max"), -1)
	if !ok || (q.Get("hypes_max") != "" && hypesMax < 0) {
		writeError(w, http.StatusBadRequest, "invalid hypes_max")
		return
	}

	nav, ok := parseNav(q.Get("page"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid page")
		return
	}

	state, err := s.session(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	filter := domain.UpcomingFilter{
		Search:   q.Get("search"),
		HypesMin: hypesMin,
		HypesMax: hypesMax,
		SortBy:   domain.UpcomingSortKey(sortBy),
		Order:    order,
	}

	res, err := s.svc.Upcoming(r.Context(), filter, state.Upcoming, nav)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load games")
		return
	}

	writeJSON(w, http.StatusOK, toUpcomingResponse(res))
}

func (s *DashboardServer) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalGames:      stats.TotalGames,
		TotalRatings:    stats.TotalRatings,
		LastUpdated:     stats.LastUpdated,
		MaxUpcomingHype: stats.MaxUpcomingHype,
	})
}

func (s *DashboardServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// session resolves the request's session from the cookie, starting a
// new one (and setting the cookie) when absent or expired.
func (s *DashboardServer) session(w http.ResponseWriter, r *http.Request) (*session.State, error) {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}

	newID, state, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return state, nil
}

func parseOrder(v string) (domain.SortOrder, bool) {
	if !govalidator.IsIn(v, string(domain.SortAsc), string(domain.SortDesc), "") {
		return "", false
	}
	if v == "" {
		return domain.SortDesc, true
	}
	return domain.SortOrder(v), true
}

func parseNav(v string) (pagination.Nav, bool) {
	switch v {
	case "":
		return pagination.Nav{Action: pagination.NavStay}, true
	case "next":
		return pagination.Nav{Action: pagination.NavNext}, true
	case "prev":
		return pagination.Nav{Action: pagination.NavPrev}, true
	}
	if !govalidator.IsInt(v) {
		return pagination.Nav{}, false
	}
	page, err := strconv.Atoi(v)
	if err != nil || page < 1 {
		return pagination.Nav{}, false
	}
	return pagination.Nav{Action: pagination.NavJump, Page: page}, true
}

func parseFloat(v string, fallback float64) (float64, bool) {
	if v == "" {
		return fallback, true
	}
	if !govalidator.IsFloat(v) {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseInt(v string, fallback int) (int, bool) {
	if v == "" {
		return fallback, true
	}
	if !govalidator.IsInt(v) {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
