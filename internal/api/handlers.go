package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradeperf/analytics"
	"github.com/rustyeddy/tradeperf/internal/refresh"
	"github.com/rustyeddy/tradeperf/internal/report"
	"github.com/rustyeddy/tradeperf/risk"
)

// Snapshots supplies the most recent scheduled refresh.
type Snapshots interface {
	Latest() (refresh.Snapshot, bool)
}

// Handler serves stats and projections. With a Snapshots source plain
// requests are answered from the latest snapshot; otherwise, and whenever
// a request carries overrides, the pipeline runs per request.
type Handler struct {
	pipeline  refresh.Pipeline
	snapshots Snapshots
	account   string
	currency  string
	log       zerolog.Logger
}

// NewHandler creates a handler. snaps may be nil.
func NewHandler(p refresh.Pipeline, snaps Snapshots, account, currency string, log zerolog.Logger) *Handler {
	return &Handler{
		pipeline:  p,
		snapshots: snaps,
		account:   account,
		currency:  currency,
		log:       log,
	}
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	At         time.Time               `json:"at"`
	Stats      analytics.RealizedStats `json:"stats"`
	WinRatePct float64                 `json:"win_rate_pct"`
}

// ProjectionResponse is the body of GET /api/projection.
type ProjectionResponse struct {
	At             time.Time        `json:"at"`
	Input          analytics.Input  `json:"input"`
	Result         analytics.Result `json:"result"`
	TotalReturnPct *float64         `json:"total_return_pct"`
	Decision       risk.Decision    `json:"decision"`
}

// GetStats returns realized statistics.
// GET /api/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(r, h.pipeline)
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, http.StatusOK, StatsResponse{
		At:         snap.At,
		Stats:      snap.Stats,
		WinRatePct: snap.Stats.WinRatePct(),
	})
}

// GetProjection returns a projection, optionally with query overrides.
// GET /api/projection?win_rate=&avg_win_r=&avg_loss_r=&risk=&fee=&days=&trades_per_day=&equity=
func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	p, err := applyQuery(h.pipeline, r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.snapshot(r, p)
	if err != nil {
		h.fail(w, err)
		return
	}

	resp := ProjectionResponse{
		At:       snap.At,
		Input:    snap.Input,
		Result:   snap.Result,
		Decision: snap.Decision,
	}
	if ret := snap.Result.ReturnPct(snap.Input.StartingEquity); !math.IsInf(ret, 0) && !math.IsNaN(ret) {
		resp.TotalReturnPct = &ret
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetReport renders the report as text, or Org with format=org.
// GET /api/report
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	q.Del("format")

	p, err := applyQuery(h.pipeline, q)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, err := h.snapshot(r, p)
	if err != nil {
		h.fail(w, err)
		return
	}

	rep := report.Report{
		Created:  snap.At,
		Account:  h.account,
		Currency: h.currency,
		Stats:    snap.Stats,
		Input:    snap.Input,
		Result:   snap.Result,
		Decision: snap.Decision,
		Notes:    report.Observe(snap.Stats, snap.Input, snap.Result),
	}

	var buf bytes.Buffer
	switch format {
	case "", "text":
		report.Print(&buf, rep)
	case "org":
		if err := report.WriteOrg(&buf, rep); err != nil {
			h.fail(w, err)
			return
		}
	default:
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q (want text or org)", format))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// snapshot uses the latest scheduled refresh when p is the unmodified
// pipeline, and runs p otherwise.
func (h *Handler) snapshot(r *http.Request, p refresh.Pipeline) (refresh.Snapshot, error) {
	if h.snapshots != nil && samePipeline(p, h.pipeline) {
		if snap, ok := h.snapshots.Latest(); ok {
			return snap, nil
		}
	}
	return p.Run(r.Context())
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, analytics.ErrInvalidInput) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Error().Err(err).Msg("request failed")
	respondError(w, http.StatusInternalServerError, "failed to compute projection")
}

func samePipeline(a, b refresh.Pipeline) bool {
	return a.Settings == b.Settings &&
		a.Overrides.WinRate == b.Overrides.WinRate &&
		a.Overrides.AvgWinR == b.Overrides.AvgWinR &&
		a.Overrides.AvgLossR == b.Overrides.AvgLossR &&
		a.Overrides.FeeAndFriction == b.Overrides.FeeAndFriction
}

// applyQuery returns a copy of p with the query parameters applied.
// Only malformed numbers are rejected here; range checks belong to
// analytics.Input.Validate.
func applyQuery(p refresh.Pipeline, q url.Values) (refresh.Pipeline, error) {
	o := p.Overrides

	floats := []struct {
		name string
		dst  **float64
	}{
		{"win_rate", &o.WinRate},
		{"avg_win_r", &o.AvgWinR},
		{"avg_loss_r", &o.AvgLossR},
		{"fee", &o.FeeAndFriction},
	}
	for _, f := range floats {
		v, ok, err := queryFloat(q, f.name)
		if err != nil {
			return p, err
		}
		if ok {
			*f.dst = &v
		}
	}

	s := p.Settings
	if v, ok, err := queryFloat(q, "risk"); err != nil {
		return p, err
	} else if ok {
		s.RiskPerTrade = v
	}
	if v, ok, err := queryFloat(q, "equity"); err != nil {
		return p, err
	} else if ok {
		s.StartingEquity = v
	}
	if v, ok, err := queryInt(q, "days"); err != nil {
		return p, err
	} else if ok {
		s.Days = v
	}
	if v, ok, err := queryInt(q, "trades_per_day"); err != nil {
		return p, err
	} else if ok {
		s.TradesPerDay = v
	}

	p.Settings = s
	return p.WithOverrides(o), nil
}

func queryFloat(q url.Values, name string) (float64, bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s: %q is not a number", name, raw)
	}
	return v, true, nil
}

func queryInt(q url.Values, name string) (int, bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s: %q is not an integer", name, raw)
	}
	return v, true, nil
}

// respondJSON encodes before writing the header so an encode failure can
// still be reported as a 500.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "{\"error\":%q}\n", "encode response: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
