package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Handlers serves the JSON endpoints
type Handlers struct {
	provider DashboardProvider
	logger   *logrus.Logger
}

// NewHandlers creates the JSON handlers
func NewHandlers(provider DashboardProvider, logger *logrus.Logger) *Handlers {
	return &Handlers{provider: provider, logger: logger}
}

// HandleStandings handles GET /api/v1/standings?season=&q=
func (h *Handlers) HandleStandings(w http.ResponseWriter, r *http.Request) {
	season, err := parseSeason(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	d, err := h.provider.Load(r.Context(), season)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d.Filtered(r.URL.Query().Get("q")))
}

// HandleExplanation handles GET /api/v1/standings/{driverId}/explanation
func (h *Handlers) HandleExplanation(w http.ResponseWriter, r *http.Request) {
	season, err := parseSeason(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	entry, err := h.provider.Explanation(r.Context(), season, mux.Vars(r)["driverId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, explanationResponse{
		DriverID:    entry.DriverID,
		FullName:    entry.FullName,
		Probability: entry.Probability,
		Explanation: entry.Explanation,
	})
}

// HandleProgression handles GET /api/v1/progression?season=&drivers=a,b
func (h *Handlers) HandleProgression(w http.ResponseWriter, r *http.Request) {
	season, err := parseSeason(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	ids := parseDriverIDs(r.URL.Query().Get("drivers"))
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrNoDrivers)
		return
	}

	chart, err := h.provider.Progression(r.Context(), season, ids)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError && h.logger != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"path":   r.URL.Path,
			"status": status,
		}).Error("API request failed")
	}
	if status == http.StatusInternalServerError {
		err = ErrUnexpected
	}
	writeError(w, status, code, err)
}
