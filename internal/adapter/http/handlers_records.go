package adapthttp

import (
	"errors"
	"net/http"

	"qiyas/internal/domain"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 0)
	items, err := s.records.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toRecordsJSON(items)})
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	in, err := s.recordInput(req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	rec, err := s.records.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"record": toRecordJSON(*rec)})
}

func (s *Server) handleDeleteAllRecords(w http.ResponseWriter, r *http.Request) {
	n, err := s.records.DeleteAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": n})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.records.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, domain.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"record": toRecordJSON(*rec)})
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	in, err := s.recordInput(req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	rec, err := s.records.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"record": toRecordJSON(*rec)})
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.records.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleWeightTodayGet(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	rec, err := s.records.TodayWeight(r.Context(), today)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var entry any
	if rec != nil {
		entry = toRecordJSON(*rec)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"today": domain.FormatDay(today),
		"entry": entry,
	})
}

func (s *Server) handleWeightTodayPut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value float64 `json:"value"`
		Unit  string  `json:"unit"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Unit == "" {
		req.Unit = "kg"
	}
	if req.Unit != "kg" && req.Unit != "lb" {
		writeError(w, http.StatusBadRequest, errors.New("unit must be \"kg\" or \"lb\""))
		return
	}

	today := s.today()
	kg := domain.ConvertWeight(req.Value, req.Unit, "kg")
	rec, err := s.records.QuickLogWeight(r.Context(), today, kg)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"today": domain.FormatDay(today),
		"entry": toRecordJSON(*rec),
	})
}
