package web

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"bpdash/internal/analytics"
	"bpdash/internal/store"
)

// API serves the dashboard's read-only JSON endpoints over the session store.
type API struct {
	store *store.Store
}

// NewAPI wraps a session store.
func NewAPI(s *store.Store) *API {
	return &API{store: s}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode API response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// requireLoaded guards endpoints that are meaningless before the first load.
// An empty dataset is fine; only the never-loaded state is a 503.
func (a *API) requireLoaded(w http.ResponseWriter) bool {
	if loaded, _ := a.store.Loaded(); !loaded {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded yet, retry shortly")
		return false
	}
	return true
}

// parseRange resolves the ?range= query parameter. Absent means the default
// window; an unknown value is the caller's error.
func (a *API) parseRange(w http.ResponseWriter, r *http.Request) (analytics.Window, bool) {
	window, err := analytics.ParseWindow(r.URL.Query().Get("range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return window, true
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	loaded, at := a.store.Loaded()
	body := map[string]any{"status": "ok", "loaded": loaded}
	if loaded {
		body["loadedAt"] = at
	}
	writeJSON(w, http.StatusOK, body)
}

func (a *API) handleReadings(w http.ResponseWriter, r *http.Request) {
	if !a.requireLoaded(w) {
		return
	}
	writeJSON(w, http.StatusOK, a.store.Snapshot())
}

func (a *API) handleFilteredReadings(w http.ResponseWriter, r *http.Request) {
	if !a.requireLoaded(w) {
		return
	}
	window, ok := a.parseRange(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.store.Filtered(window))
}

func (a *API) handleRolling(w http.ResponseWriter, r *http.Request) {
	if !a.requireLoaded(w) {
		return
	}
	window, ok := a.parseRange(w, r)
	if !ok {
		return
	}
	all := a.store.Snapshot()
	visible := a.store.Filtered(window)
	writeJSON(w, http.StatusOK, analytics.RollingStats(all, visible))
}

func (a *API) handleMAP(w http.ResponseWriter, r *http.Request) {
	if !a.requireLoaded(w) {
		return
	}
	window, ok := a.parseRange(w, r)
	if !ok {
		return
	}
	all := a.store.Snapshot()
	visible := a.store.Filtered(window)
	series := analytics.RollingMAP(analytics.DailyMAPSeries(all))
	writeJSON(w, http.StatusOK, analytics.RestrictToVisible(series, visible))
}

func (a *API) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !a.requireLoaded(w) {
		return
	}
	window, ok := a.parseRange(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.Summarize(a.store.Filtered(window)))
}

func (a *API) handleCategories(w http.ResponseWriter, r *http.Request) {
	if !a.requireLoaded(w) {
		return
	}
	window, ok := a.parseRange(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.DistributeByCategory(a.store.Filtered(window)))
}

func (a *API) handleTimeline(w http.ResponseWriter, r *http.Request) {
	if !a.requireLoaded(w) {
		return
	}
	window, ok := a.parseRange(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.CategoryTimeline(a.store.Filtered(window)))
}

func (a *API) handleHistogram(w http.ResponseWriter, r *http.Request) {
	if !a.requireLoaded(w) {
		return
	}
	window, ok := a.parseRange(w, r)
	if !ok {
		return
	}
	metric, err := analytics.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analytics.Histogram(a.store.Filtered(window), metric))
}

func (a *API) handleTrendline(w http.ResponseWriter, r *http.Request) {
	if !a.requireLoaded(w) {
		return
	}
	window, ok := a.parseRange(w, r)
	if !ok {
		return
	}
	metric, err := analytics.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analytics.MetricTrendline(a.store.Filtered(window), metric))
}

func (a *API) handleVolatility(w http.ResponseWriter, r *http.Request) {
	if !a.requireLoaded(w) {
		return
	}
	window, ok := a.parseRange(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.VolatilityBoxes(a.store.Filtered(window), window))
}

func (a *API) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	if !a.requireLoaded(w) {
		return
	}
	window, ok := a.parseRange(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.Heatmap(a.store.Snapshot(), a.store.Filtered(window)))
}

func (a *API) handleCadence(w http.ResponseWriter, r *http.Request) {
	if !a.requireLoaded(w) {
		return
	}
	window, ok := a.parseRange(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.MeasureCadence(a.store.Filtered(window)))
}

func (a *API) handleLast(w http.ResponseWriter, r *http.Request) {
	if !a.requireLoaded(w) {
		return
	}
	last := analytics.LastReading(a.store.Snapshot())
	if last == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, last)
}

func (a *API) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if !a.requireLoaded(w) {
		return
	}
	accepted, rejected, warned := a.store.Counts()
	writeJSON(w, http.StatusOK, map[string]any{
		"accepted":    accepted,
		"rejected":    rejected,
		"warned":      warned,
		"diagnostics": a.store.Diagnostics(),
	})
}
