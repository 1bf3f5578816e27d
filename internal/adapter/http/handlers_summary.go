package adapthttp

import (
	"net/http"

	"qiyas/internal/domain"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSummaryToday(w http.ResponseWriter, r *http.Request) {
	var formula domain.BodyFatFormula
	if v := r.URL.Query().Get("formula"); v != "" {
		f, err := domain.ParseFormula(v)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		formula = f
	}

	t, err := s.summary.Today(r.Context(), formula)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var record *recordJSON
	if t.Record != nil {
		rj := toRecordJSON(*t.Record)
		record = &rj
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":    dayPtr(t.Date),
		"record":  record,
		"formula": t.Formula,
		"bmi":     toMetricJSON(t.BMI),
		"bodyFat": toMetricJSON(t.BodyFat),
		"latest":  valuesOf(t.Snapshot),
		"unit":    t.Snapshot.Unit,
		"profile": toProfileJSON(t.Profile),
	})
}

func (s *Server) handleSummaryResults(w http.ResponseWriter, r *http.Request) {
	cards, window, err := s.summary.Results(r.Context(), intQuery(r, "window", 0))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	items := make([]cardJSON, 0, len(cards))
	for _, c := range cards {
		items = append(items, toCardJSON(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"windowDays": window,
		"items":      items,
	})
}

// handleFieldHistory lists one field's readings. limit=0 returns them all;
// without limit the configured default applies.
func (s *Server) handleFieldHistory(w http.ResponseWriter, r *http.Request) {
	f, err := domain.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	limit, err := limitQuery(r, "limit")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	unit := r.URL.Query().Get("unit")

	series, err := s.summary.History(r.Context(), f, limit, unit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	items := make([]readingJSON, 0, len(series))
	for _, rd := range series {
		items = append(items, toReadingJSON(rd))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"field": f,
		"title": f.Title(),
		"items": items,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.summary.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records":    st.Records,
		"quickLogs":  st.QuickLogs,
		"firstDate":  dayPtr(st.FirstDate),
		"latestDate": dayPtr(st.LatestDate),
	})
}
