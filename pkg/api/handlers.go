package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/letsconfuse/manualQaLabs/pkg/progress"
	"github.com/letsconfuse/manualQaLabs/pkg/report"
	"github.com/letsconfuse/manualQaLabs/pkg/runner"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Scenarios int    `json:"scenarios"`
	Sessions  int    `json:"sessions"`
	Uptime    string `json:"uptime"`
}

// ScenarioSummary is one row of the catalog listing.
type ScenarioSummary struct {
	ID          scenario.ID         `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Difficulty  scenario.Difficulty `json:"difficulty"`
	Type        scenario.Type       `json:"type"`
	Rules       int                 `json:"rules"`
	Percent     int                 `json:"percent"`
	Complete    bool                `json:"complete"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Scenarios: s.lab.Registry().Count(),
		Sessions:  len(s.lab.Sessions()),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) listScenarios(w http.ResponseWriter, r *http.Request) {
	reg := s.lab.Registry()
	defs := reg.Definitions()
	if t := r.URL.Query().Get("type"); t != "" {
		defs = reg.ListByType(scenario.Type(strings.ToLower(t)))
	}

	out := make([]ScenarioSummary, 0, len(defs))
	for _, def := range defs {
		snap, err := s.lab.Progress(r.Context(), def.ID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		out = append(out, ScenarioSummary{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Difficulty:  def.Difficulty,
			Type:        def.Type,
			Rules:       len(def.Rules),
			Percent:     snap.Percent,
			Complete:    snap.Complete,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// getScenario returns the learner checklist: unsolved rules keep
// their slot but hide their content.
func (s *Server) getScenario(w http.ResponseWriter, r *http.Request) {
	c, err := s.checklist(r, scenario.ID(mux.Vars(r)["id"]))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) checklist(r *http.Request, id scenario.ID) (*report.Checklist, error) {
	def, err := s.lab.Registry().Definition(id)
	if err != nil {
		return nil, err
	}
	snap, err := s.lab.Progress(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return report.BuildChecklist(def, snap), nil
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	snap, err := s.lab.Progress(r.Context(), scenario.ID(mux.Vars(r)["id"]))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) resetProgress(w http.ResponseWriter, r *http.Request) {
	id := scenario.ID(mux.Vars(r)["id"])
	if err := s.lab.Reset(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	snap, err := s.lab.Progress(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.lab.Open(r.Context(), scenario.ID(mux.Vars(r)["id"]))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/sessions/"+info.ID)
	writeJSON(w, http.StatusCreated, info)
}

func (s *Server) listSessions(w http.ResponseWriter, _ *http.Request) {
	sessions := s.lab.Sessions()
	if sessions == nil {
		sessions = []runner.SessionInfo{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.lab.Session(mux.Vars(r)["sid"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := s.lab.Close(r.Context(), mux.Vars(r)["sid"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	a, err := decodeAction(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.lab.Submit(r.Context(), mux.Vars(r)["sid"], a)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) {
	a, err := decodeAction(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.lab.Evaluate(r.Context(), scenario.ID(mux.Vars(r)["id"]), a)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeAction(w http.ResponseWriter, r *http.Request) (scenario.Action, error) {
	var a scenario.Action
	if err := decode(w, r, &a); err != nil {
		return a, err
	}
	if strings.TrimSpace(a.Name) == "" {
		return a, fmt.Errorf("%w: action is required", errBadRequest)
	}
	return a, nil
}

func (s *Server) getDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboard.Snapshot())
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	defs := s.lab.Registry().Definitions()
	snaps := make(map[scenario.ID]progress.Snapshot, len(defs))
	for _, def := range defs {
		snap, err := s.lab.Progress(r.Context(), def.ID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		snaps[def.ID] = snap
	}
	lists := report.BuildChecklists(defs, func(id scenario.ID) progress.Snapshot {
		return snaps[id]
	})
	writeJSON(w, http.StatusOK, report.BuildMasterSummary(lists))
}
