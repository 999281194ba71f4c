package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"gonum.org/v1/gonum/floats/scalar"

	wtransfer "github.com/gr2020155-code/W-Mars-Transfer-WStructure"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, conf wtransfer.ServerConfig) *gin.Engine {
	t.Helper()
	reg := prometheus.NewRegistry()
	h := NewHandler(wtransfer.DefaultConstants(), wtransfer.NewMetrics(reg), nil, 100)
	return SetupRouter(h, conf, reg)
}

func get(t *testing.T, router http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	router.ServeHTTP(w, req)
	return w
}

type resultBody struct {
	Model   string                       `json:"model"`
	Samples []wtransfer.TrajectorySample `json:"samples"`
	T       float64                      `json:"T"`
	Δv      float64                      `json:"delta_v"`
	Outcome string                       `json:"outcome"`
	Days    float64                      `json:"days"`
	Warning string                       `json:"warning"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON: %s", err)
	}
}

func TestGetHohmann(t *testing.T) {
	router := newTestRouter(t, wtransfer.ServerConfig{})
	var body resultBody
	decode(t, get(t, router, "/v1/hohmann?every=10"), &body)
	if body.Model != "hohmann" || body.Outcome != "target-reached" {
		t.Fatalf("unexpected body %+v", body)
	}
	if len(body.Samples) != 51 {
		t.Fatalf("expected 51 decimated samples, got %d", len(body.Samples))
	}
	if !scalar.EqualWithinAbs(body.Days, 258.91, 0.01) || !scalar.EqualWithinAbs(body.Δv, 0.187883, 1e-6) {
		t.Fatalf("days=%f Δv=%f", body.Days, body.Δv)
	}
	if last := body.Samples[len(body.Samples)-1]; last.T != body.T {
		t.Fatal("decimation dropped the last sample")
	}
}

func TestGetWStructure(t *testing.T) {
	router := newTestRouter(t, wtransfer.ServerConfig{})
	var body resultBody
	decode(t, get(t, router, "/v1/wstructure?dt=0.002"), &body)
	if body.Outcome != "target-reached" || body.Warning != "" || len(body.Samples) != 554 {
		t.Fatalf("unexpected body: outcome=%s warning=%s samples=%d", body.Outcome, body.Warning, len(body.Samples))
	}

	decode(t, get(t, router, "/v1/wstructure?H=2.8&dt=0.01&time_cap=0.5"), &body)
	if body.Outcome != "time-cap-exceeded" || !strings.Contains(body.Warning, "did not reach") {
		t.Fatalf("time capped result not flagged: outcome=%s warning=%s", body.Outcome, body.Warning)
	}
}

func TestBadRequests(t *testing.T) {
	router := newTestRouter(t, wtransfer.ServerConfig{})
	for _, url := range []string{
		"/v1/wstructure?dt=0",
		"/v1/wstructure?dt=abc",
		"/v1/wstructure?dt=1e-7",
		"/v1/hohmann?mars_radius=-1",
		"/v1/hohmann?samples=10",
		"/v1/hohmann?every=0",
		"/v1/hohmann/position?t=100",
		"/v1/hohmann/position",
		"/v1/compare?departure=someday",
	} {
		if w := get(t, router, url); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d", url, w.Code)
		}
	}
}

func TestGetPosition(t *testing.T) {
	router := newTestRouter(t, wtransfer.ServerConfig{})
	var body struct {
		Sample wtransfer.TrajectorySample `json:"sample"`
		R      float64                    `json:"r"`
		Days   float64                    `json:"days"`
	}
	decode(t, get(t, router, "/v1/hohmann/position?t=0"), &body)
	if !scalar.EqualWithinAbs(body.R, 1, 1e-12) {
		t.Fatalf("departure radius %f", body.R)
	}
	decode(t, get(t, router, "/v1/hohmann/position?days=258.9"), &body)
	if !scalar.EqualWithinAbs(body.R, 1.524, 1e-4) || !scalar.EqualWithinAbs(body.Days, 258.9, 1e-9) {
		t.Fatalf("near arrival: r=%f days=%f", body.R, body.Days)
	}
}

func TestGetComparison(t *testing.T) {
	router := newTestRouter(t, wtransfer.ServerConfig{})
	var cmp wtransfer.Comparison
	w := get(t, router, "/v1/compare?departure=2026-11-01")
	decode(t, w, &cmp)
	if cmp.TimeRatio <= 0 || cmp.ΔvRatio <= 0 || cmp.ArrivalW == nil {
		t.Fatalf("unexpected comparison %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"outcome_w":"target-reached"`) {
		t.Fatalf("outcome missing: %s", w.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	router := newTestRouter(t, wtransfer.ServerConfig{RPS: 0.001, Burst: 2})
	for i := 0; i < 2; i++ {
		if w := get(t, router, "/v1/hohmann?every=100"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	if w := get(t, router, "/v1/hohmann?every=100"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	// Health checks are never limited.
	if w := get(t, router, "/health"); w.Code != http.StatusOK {
		t.Fatalf("health: status %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, wtransfer.ServerConfig{})
	get(t, router, "/v1/hohmann")
	w := get(t, router, "/metrics")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `wtransfer_solves_total{model="hohmann",outcome="target-reached"} 1`) {
		t.Fatalf("metrics not exported:\n%s", w.Body.String())
	}
}

func TestStreamWStructure(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, wtransfer.ServerConfig{}))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/wstructure/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %s", err)
	}
	defer conn.Close()

	var (
		samples []wtransfer.TrajectorySample
		result  *streamResult
	)
	for result == nil {
		var msg streamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read after %d samples: %s", len(samples), err)
		}
		switch msg.Type {
		case "sample":
			samples = append(samples, *msg.Sample)
		case "result":
			result = msg.Result
		default:
			t.Fatalf("unexpected message %+v", msg)
		}
	}
	if result.Outcome != wtransfer.TargetReached || result.Samples != 1107 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(samples) != result.Sent || len(samples) > 101 {
		t.Fatalf("received %d samples, %d sent (limit 100 + last)", len(samples), result.Sent)
	}
	if samples[0].T != 0 || samples[len(samples)-1].T != result.T {
		t.Fatal("stream does not span the whole transfer")
	}
}

func TestDecimate(t *testing.T) {
	in := make([]wtransfer.TrajectorySample, 10)
	for i := range in {
		in[i].T = float64(i)
	}
	out := decimate(in, 4)
	exp := []float64{0, 4, 8, 9}
	if len(out) != len(exp) {
		t.Fatalf("got %d samples", len(out))
	}
	for i, s := range out {
		if s.T != exp[i] {
			t.Fatalf("sample %d: t=%f expected %f", i, s.T, exp[i])
		}
	}
	if len(decimate(in, 1)) != 10 {
		t.Fatal("n=1 must keep everything")
	}
}
