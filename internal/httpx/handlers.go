package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/roasplan/internal/export"
	"github.com/Simplici0/roasplan/internal/migrations"
	"github.com/Simplici0/roasplan/internal/roas"
	"github.com/Simplici0/roasplan/internal/simulation"
)

const maxBodyBytes = 1 << 20

type calculateResponse struct {
	Result         roas.Result          `json:"result"`
	Classification *roas.Classification `json:"classification,omitempty"`
}

type simulationCreateRequest struct {
	Title   string       `json:"title"`
	Notes   string       `json:"notes"`
	Request roas.Request `json:"request"`
}

type shareResponse struct {
	Token string `json:"token"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	if err := s.db.PingContext(r.Context()); err != nil {
		s.log.Error("readiness ping failed", "err", err)
		writeError(w, http.StatusServiceUnavailable, "database unavailable", "unavailable")
		return
	}
	version, err := migrations.Version(s.db)
	if err != nil {
		s.log.Error("readiness schema check failed", "err", err)
		writeError(w, http.StatusServiceUnavailable, "schema unavailable", "unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":              "ready",
		"schema_version":      version,
		"max_contract_months": s.engine.MaxContractMonths(),
	})
}

func (s *server) handleSegmentsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.segments.List())
}

func (s *server) handleSegmentGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	seg, ok := s.segments.Segment(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("market segment %q not found", id), "not_found")
		return
	}
	writeJSON(w, http.StatusOK, seg)
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req roas.Request
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.solve(req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.withClassification(req, res))
}

func (s *server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	var req roas.Request
	if !decodeBody(w, r, &req) {
		return
	}

	if tag := r.URL.Query().Get("scenario"); tag != "" {
		res, err := s.scenario(req, tag)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
		return
	}

	start := time.Now()
	set, err := s.engine.Scenarios(req)
	s.metrics.Observe("scenarios", start, err)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *server) handleProjection(w http.ResponseWriter, r *http.Request) {
	var req roas.Request
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := s.project(req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) handleSimulationCreate(w http.ResponseWriter, r *http.Request) {
	var body simulationCreateRequest
	if !decodeBody(w, r, &body) {
		return
	}

	res, err := s.solve(body.Request)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	sim := simulation.Simulation{
		Title:   strings.TrimSpace(body.Title),
		Notes:   strings.TrimSpace(body.Notes),
		Request: body.Request,
		Result:  res,
	}
	if body.Request.ContractDurationMonths != nil {
		p, err := s.project(body.Request)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		sim.Projection = &p
	}

	created, err := s.simulations.Create(r.Context(), sim)
	if err != nil {
		s.log.Error("store simulation", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to store simulation", "internal")
		return
	}
	w.Header().Set("Location", "/api/simulations/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleSimulationsList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	items, err := s.simulations.List(r.Context(), query)
	if err != nil {
		s.log.Error("list simulations", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load simulations", "internal")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *server) handleSimulationGet(w http.ResponseWriter, r *http.Request) {
	sim, ok := s.loadSimulation(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sim)
}

func (s *server) handleSimulationCSV(w http.ResponseWriter, r *http.Request) {
	sim, ok := s.loadSimulation(w, r)
	if !ok {
		return
	}
	if sim.Projection == nil {
		writeError(w, http.StatusNotFound, "simulation has no projection", "no_projection")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="projection-%s.csv"`, sim.ID))
	if err := export.WriteCSV(w, *sim.Projection); err != nil {
		s.log.Error("write projection csv", "id", sim.ID, "err", err)
	}
}

func (s *server) handleShareCreate(w http.ResponseWriter, r *http.Request) {
	var req roas.Request
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := s.project(req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	token, err := export.EncodeShare(export.Shared{Input: req, Projection: &p})
	if err != nil {
		s.log.Error("encode share token", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to encode share token", "internal")
		return
	}
	writeJSON(w, http.StatusOK, shareResponse{Token: token})
}

func (s *server) handleShareGet(w http.ResponseWriter, r *http.Request) {
	shared, err := export.DecodeShare(chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_share_token")
		return
	}
	writeJSON(w, http.StatusOK, shared)
}

func (s *server) loadSimulation(w http.ResponseWriter, r *http.Request) (simulation.Simulation, bool) {
	sim, err := s.simulations.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, simulation.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error(), "not_found")
		return simulation.Simulation{}, false
	}
	if err != nil {
		s.log.Error("load simulation", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load simulation", "internal")
		return simulation.Simulation{}, false
	}
	return sim, true
}

func (s *server) solve(req roas.Request) (roas.Result, error) {
	start := time.Now()
	res, err := s.engine.Solve(req)
	s.metrics.Observe("solve", start, err)
	return res, err
}

func (s *server) project(req roas.Request) (roas.Projection, error) {
	start := time.Now()
	p, err := s.engine.ProjectRequest(req)
	s.metrics.Observe("project", start, err)
	return p, err
}

func (s *server) scenario(req roas.Request, tag string) (calculateResponse, error) {
	sc, err := roas.ParseScenario(tag)
	if err != nil {
		return calculateResponse{}, err
	}
	start := time.Now()
	res, err := s.engine.SolveScenario(req, sc)
	s.metrics.Observe("scenario", start, err)
	if err != nil {
		return calculateResponse{}, err
	}
	return s.withClassification(req, res), nil
}

func (s *server) withClassification(req roas.Request, res roas.Result) calculateResponse {
	out := calculateResponse{Result: res}
	if c, ok := s.engine.ClassifyResult(req, res); ok {
		out.Classification = &c
	}
	return out
}

// decodeBody reads one JSON value into v, answering 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), "invalid_json")
		return false
	}
	return true
}

func writeEngineError(w http.ResponseWriter, err error) {
	code := roas.Code(err)
	if code == "" {
		writeError(w, http.StatusInternalServerError, "calculation failed", "internal")
		return
	}
	writeError(w, http.StatusBadRequest, err.Error(), code)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}

// writeJSON encodes v before touching w so an encoding failure can still answer 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", " ")
	if err := enc.Encode(v); err != nil {
		slog.Error("encode response", "err", err)
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(map[string]string{"error": "failed to encode response", "code": "internal"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
