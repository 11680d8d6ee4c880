package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/engine"
	"github.com/sells-group/freight-kpi/internal/export"
	"github.com/sells-group/freight-kpi/internal/forecast"
	"github.com/sells-group/freight-kpi/internal/ingest"
	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/timing"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// snapshot evaluates the current records under the request window.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*engine.Snapshot, bool) {
	win, err := window(r, s.engine.Location())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return nil, false
	}
	snap, err := s.engine.Evaluate(r.Context(), s.Records(), win)
	if err != nil {
		zap.L().Error("api: evaluate failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "evaluation failed")
		return nil, false
	}
	return snap, true
}

type regionsResponse struct {
	Version string   `json:"version"`
	Regions []string `json:"regions"`
}

func (s *Server) listRegions(w http.ResponseWriter, r *http.Request) {
	c := s.engine.Catalog()
	writeJSON(w, r, http.StatusOK, regionsResponse{Version: c.Version, Regions: c.RegionNames()})
}

type kpiResponse struct {
	Region  string         `json:"region,omitempty"`
	Records int            `json:"records"`
	Rows    []model.KpiRow `json:"rows"`
}

func (s *Server) regionKpis(w http.ResponseWriter, r *http.Request) {
	region, err := url.PathUnescape(chi.URLParam(r, "region"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid region")
		return
	}
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	rows, found := snap.Region(region, viewOptions(r))
	if !found {
		writeError(w, r, http.StatusNotFound, "unknown region")
		return
	}
	if rows == nil {
		rows = []model.KpiRow{}
	}
	writeJSON(w, r, http.StatusOK, kpiResponse{Region: region, Records: snap.Records, Rows: rows})
}

func (s *Server) globalKpis(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	rows := snap.Global(viewOptions(r))
	if rows == nil {
		rows = []model.KpiRow{}
	}
	writeJSON(w, r, http.StatusOK, kpiResponse{Records: snap.Records, Rows: rows})
}

type forecastResponse struct {
	Algorithm string                       `json:"algorithm"`
	Reference time.Time                    `json:"reference"`
	Rows      []model.ForecastRow          `json:"rows"`
	ByProject map[string]model.ForecastRow `json:"by_project"`
}

func (s *Server) forecast(w http.ResponseWriter, r *http.Request) {
	ref := s.now().In(s.engine.Location())
	if raw := r.URL.Query().Get("ref"); raw != "" {
		t, ok := timing.ParseString(raw, s.engine.Location())
		if !ok {
			writeError(w, r, http.StatusBadRequest, "invalid ref")
			return
		}
		ref = t
	}
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	byProject := s.engine.Forecast(snap, ref)
	writeJSON(w, r, http.StatusOK, forecastResponse{
		Algorithm: s.engine.ForecastAlgorithm(),
		Reference: ref,
		Rows:      forecast.Sorted(byProject),
		ByProject: byProject,
	})
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, snap.Report(viewOptions(r)))
}

func (s *Server) reportXLSX(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="kpi-report.xlsx"`)
	if err := export.WriteXLSX(w, snap.Report(viewOptions(r)), s.thresholds); err != nil {
		zap.L().Error("api: write xlsx failed", zap.Error(err))
	}
}

func (s *Server) reportCSV(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="kpi-report.csv"`)
	if err := export.WriteCSV(w, snap.Report(viewOptions(r)), ','); err != nil {
		zap.L().Error("api: write csv failed", zap.Error(err))
	}
}

func (s *Server) replaceRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := ingest.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var verr *ingest.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, r, http.StatusUnprocessableEntity, map[string]any{
				"error": verr.Error(),
				"index": verr.Index,
				"field": verr.Field,
			})
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	s.SetRecords(recs)
	zap.L().Info("api: records replaced", zap.Int("records", len(recs)))
	writeJSON(w, r, http.StatusOK, map[string]int{"records": len(recs)})
}

type timestampImportRequest struct {
	Source string                     `json:"source"`
	Rows   []model.ExternalTimestamps `json:"rows"`
}

func (s *Server) importTimestamps(w http.ResponseWriter, r *http.Request) {
	var req timestampImportRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	run, err := s.engine.MergeTimestamps(r.Context(), req.Source, req.Rows, 0)
	if err != nil {
		zap.L().Error("api: timestamp import failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "import failed")
		return
	}
	writeJSON(w, r, http.StatusOK, run)
}

func (s *Server) getTimestamps(w http.ResponseWriter, r *http.Request) {
	id, err := url.PathUnescape(chi.URLParam(r, "dispatchID"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid dispatch id")
		return
	}
	rec, ok, err := s.engine.Timestamps(r.Context(), id)
	if err != nil {
		zap.L().Error("api: timestamp lookup failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "lookup failed")
		return
	}
	if !ok {
		writeError(w, r, http.StatusNotFound, "no timestamps for dispatch")
		return
	}
	writeJSON(w, r, http.StatusOK, model.ExternalTimestamps{DispatchID: s.engine.DispatchKey(id), Fields: rec})
}

func (s *Server) listTimestamps(w http.ResponseWriter, r *http.Request) {
	rows, err := s.engine.ListTimestamps(r.Context())
	if err != nil {
		zap.L().Error("api: list timestamps failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "list failed")
		return
	}
	if rows == nil {
		rows = []model.ExternalTimestamps{}
	}
	writeJSON(w, r, http.StatusOK, rows)
}

func (s *Server) listImports(w http.ResponseWriter, r *http.Request) {
	runs, err := s.engine.Imports(r.Context(), intParam(r, "limit", 50))
	if err != nil {
		zap.L().Error("api: list imports failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "list failed")
		return
	}
	if runs == nil {
		writeJSON(w, r, http.StatusOK, []any{})
		return
	}
	writeJSON(w, r, http.StatusOK, runs)
}
