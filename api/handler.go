package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	kitlog "github.com/go-kit/kit/log"

	wtransfer "github.com/gr2020155-code/W-Mars-Transfer-WStructure"
)

// maxRequestSteps bounds the integration steps of a single request.
const maxRequestSteps = 1e6

// Handler handles the transfer HTTP requests.
type Handler struct {
	base             wtransfer.Constants
	metrics          *wtransfer.Metrics
	logger           kitlog.Logger
	maxStreamSamples int
}

// NewHandler creates a new HTTP handler whose requests start from the base constants.
func NewHandler(base wtransfer.Constants, metrics *wtransfer.Metrics, logger kitlog.Logger, maxStreamSamples int) *Handler {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	if maxStreamSamples <= 0 {
		maxStreamSamples = 2000
	}
	return &Handler{
		base:             base,
		metrics:          metrics,
		logger:           kitlog.With(logger, "subsys", "api"),
		maxStreamSamples: maxStreamSamples,
	}
}

// transferResponse wraps a TransferResult with the derived values a client needs.
type transferResponse struct {
	wtransfer.TransferResult
	Days    float64 `json:"days"`
	Warning string  `json:"warning,omitempty"`
}

// constants applies the query overrides to the base constants and validates them.
func (h *Handler) constants(c *gin.Context) (wtransfer.Constants, error) {
	cst := h.base
	for _, p := range []struct {
		key string
		dst *float64
	}{
		{"mu", &cst.Mu},
		{"earth_radius", &cst.EarthRadius},
		{"mars_radius", &cst.MarsRadius},
		{"H", &cst.HW},
		{"J", &cst.JW},
		{"dt", &cst.Dt},
		{"time_cap", &cst.TimeCap},
	} {
		if str := c.Query(p.key); str != "" {
			val, err := strconv.ParseFloat(str, 64)
			if err != nil {
				return cst, fmt.Errorf("invalid %s: %v", p.key, err)
			}
			*p.dst = val
		}
	}
	if str := c.Query("samples"); str != "" {
		val, err := strconv.Atoi(str)
		if err != nil {
			return cst, fmt.Errorf("invalid samples: %v", err)
		}
		cst.HohmannSamples = val
	}
	if err := cst.Validate(); err != nil {
		return cst, err
	}
	if cst.TimeCap/cst.Dt > maxRequestSteps {
		return cst, fmt.Errorf("time_cap/dt=%g exceeds the %g steps allowed per request", cst.TimeCap/cst.Dt, float64(maxRequestSteps))
	}
	return cst, nil
}

// every returns the decimation requested by the "every" parameter.
func every(c *gin.Context) (int, error) {
	str := c.DefaultQuery("every", "1")
	n, err := strconv.Atoi(str)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid every `%s`: must be a positive integer", str)
	}
	return n, nil
}

// decimate keeps one sample out of n, always keeping the first and the last ones.
func decimate(samples []wtransfer.TrajectorySample, n int) []wtransfer.TrajectorySample {
	if n <= 1 || len(samples) < 3 {
		return samples
	}
	kept := make([]wtransfer.TrajectorySample, 0, len(samples)/n+2)
	for i := 0; i < len(samples)-1; i += n {
		kept = append(kept, samples[i])
	}
	return append(kept, samples[len(samples)-1])
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *Handler) respond(c *gin.Context, cst wtransfer.Constants, res wtransfer.TransferResult, n int) {
	res.Samples = decimate(res.Samples, n)
	resp := transferResponse{TransferResult: res, Days: res.Days(cst)}
	if err := res.Err(); err != nil {
		resp.Warning = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// GetHohmann handles GET /v1/hohmann.
func (h *Handler) GetHohmann(c *gin.Context) {
	cst, err := h.constants(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	n, err := every(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	res, err := wtransfer.Hohmann(cst, wtransfer.WithMetrics(h.metrics), wtransfer.WithLogger(h.logger))
	if err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, cst, res, n)
}

// GetHohmannPosition handles GET /v1/hohmann/position.
func (h *Handler) GetHohmannPosition(c *gin.Context) {
	cst, err := h.constants(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var t float64
	if days := c.Query("days"); days != "" {
		d, err := strconv.ParseFloat(days, 64)
		if err != nil {
			badRequest(c, fmt.Errorf("invalid days: %v", err))
			return
		}
		t = d / cst.DaysPerUnit
	} else {
		t, err = strconv.ParseFloat(c.Query("t"), 64)
		if err != nil {
			badRequest(c, fmt.Errorf("invalid t: %v", err))
			return
		}
	}
	s, err := wtransfer.NewTransferEllipse(cst).PositionAt(t)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sample": s, "r": s.R(), "days": cst.Days(s.T)})
}

// GetWStructure handles GET /v1/wstructure.
func (h *Handler) GetWStructure(c *gin.Context) {
	cst, err := h.constants(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	n, err := every(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	res, err := wtransfer.IntegrateWStructure(cst, wtransfer.WithMetrics(h.metrics), wtransfer.WithLogger(h.logger))
	if err != nil {
		if errors.Is(err, wtransfer.ErrInvalidConfiguration) {
			badRequest(c, err)
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, cst, res, n)
}

// GetComparison handles GET /v1/compare.
func (h *Handler) GetComparison(c *gin.Context) {
	cst, err := h.constants(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var departure time.Time
	if dep := c.Query("departure"); dep != "" {
		if departure, err = wtransfer.ParseEpoch(dep); err != nil {
			badRequest(c, err)
			return
		}
	}
	hoh, err := wtransfer.Hohmann(cst, wtransfer.WithMetrics(h.metrics), wtransfer.WithLogger(h.logger))
	if err != nil {
		badRequest(c, err)
		return
	}
	w, err := wtransfer.IntegrateWStructure(cst, wtransfer.WithMetrics(h.metrics), wtransfer.WithLogger(h.logger))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, wtransfer.Compare(cst, hoh, w, departure))
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
