// Package health serves the liveness and readiness probes mounted on the
// admin endpoint.
//
//   - /healthz reports liveness; a process that can answer HTTP is alive.
//   - /readyz runs every registered [Check] and reports 200 only when all
//     of them pass.
//
// The readiness body lists each check with its outcome and duration so an
// operator can see which dependency is failing without reading logs.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// probeTimeout bounds the whole readiness evaluation. Probes run
// concurrently, so one slow upstream cannot hold the admin endpoint past it.
const probeTimeout = 5 * time.Second

// Check probes one dependency. Probe returns nil when the dependency can
// serve requests and must respect context cancellation.
type Check struct {
	// Name labels the check in the readiness body, e.g. "search".
	Name string

	Probe func(ctx context.Context) error
}

type checkStatus struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

type report struct {
	Status string        `json:"status"`
	Checks []checkStatus `json:"checks,omitempty"`
}

// Handler answers the probe routes. The check list is fixed at construction
// and the Handler is safe for concurrent use.
type Handler struct {
	checks []Check
}

// NewHandler returns a [Handler] evaluating checks on each /readyz request.
func NewHandler(checks ...Check) *Handler {
	return &Handler{checks: append([]Check(nil), checks...)}
}

// Register mounts /healthz and /readyz on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("GET /readyz", h.readyz)
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, report{Status: "ok"})
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	results := make([]checkStatus, len(h.checks))
	var wg sync.WaitGroup
	for i, c := range h.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := c.Probe(ctx)
			cs := checkStatus{
				Name:     c.Name,
				Status:   "ok",
				Duration: time.Since(start).Round(time.Millisecond).String(),
			}
			if err != nil {
				cs.Status = "fail"
				cs.Error = err.Error()
			}
			results[i] = cs
		}()
	}
	wg.Wait()

	rep := report{Status: "ok", Checks: results}
	code := http.StatusOK
	for _, cs := range results {
		if cs.Status != "ok" {
			rep.Status = "fail"
			code = http.StatusServiceUnavailable
			break
		}
	}
	writeJSON(w, code, rep)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
	}
}
