package api

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	wtransfer "github.com/gr2020155-code/W-Mars-Transfer-WStructure"
)

const streamBuffer = 256

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origins are enforced by the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamMessage is one websocket frame of a streamed integration.
type streamMessage struct {
	Type   string                      `json:"type"` // sample, result or error
	Sample *wtransfer.TrajectorySample `json:"sample,omitempty"`
	Result *streamResult               `json:"result,omitempty"`
	Error  string                      `json:"error,omitempty"`
}

type streamResult struct {
	T       float64           `json:"T"`
	Days    float64           `json:"days"`
	Δv      float64           `json:"delta_v"`
	Outcome wtransfer.Outcome `json:"outcome"`
	Clamps  uint64            `json:"clamps"`
	Samples int               `json:"samples"`
	Sent    int               `json:"sent"`
}

type solveOutput struct {
	res wtransfer.TransferResult
	err error
}

// StreamWStructure handles GET /v1/wstructure/stream: the W-structure samples are
// pushed over a websocket as the integrator produces them, decimated so that no
// more than maxStreamSamples frames are sent, followed by a final result frame.
func (h *Handler) StreamWStructure(c *gin.Context) {
	cst, err := h.constants(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Log("level", "error", "status", "upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	n := int(math.Ceil(cst.TimeCap / cst.Dt / float64(h.maxStreamSamples)))
	if n < 1 {
		n = 1
	}

	samples := make(chan wtransfer.TrajectorySample, streamBuffer)
	done := make(chan solveOutput, 1)
	go func() {
		res, err := wtransfer.IntegrateWStructure(cst, wtransfer.StreamTo(samples), wtransfer.WithMetrics(h.metrics), wtransfer.WithLogger(h.logger))
		done <- solveOutput{res, err}
	}()

	var (
		idx, sent int
		last      wtransfer.TrajectorySample
		writeErr  error
	)
	for s := range samples {
		// Keep draining after a write failure so the integrator never blocks.
		if writeErr == nil && idx%n == 0 {
			if writeErr = conn.WriteJSON(streamMessage{Type: "sample", Sample: &s}); writeErr == nil {
				sent++
			}
		}
		last = s
		idx++
	}
	out := <-done
	if writeErr != nil {
		h.logger.Log("level", "warning", "status", "stream aborted", "err", writeErr)
		return
	}
	if out.err != nil {
		conn.WriteJSON(streamMessage{Type: "error", Error: out.err.Error()})
		return
	}
	if idx > 0 && (idx-1)%n != 0 {
		if err := conn.WriteJSON(streamMessage{Type: "sample", Sample: &last}); err != nil {
			return
		}
		sent++
	}
	res := out.res
	conn.WriteJSON(streamMessage{Type: "result", Result: &streamResult{
		T:       res.T,
		Days:    res.Days(cst),
		Δv:      res.Δv,
		Outcome: res.Outcome,
		Clamps:  res.Clamps,
		Samples: len(res.Samples),
		Sent:    sent,
	}})
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
