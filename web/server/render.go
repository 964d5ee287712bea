package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/output"
	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
)

// RenderResult is the final event of a render stream
type RenderResult struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MaxDepth       int     `json:"maxDepth"`
	MeanLuminance  float64 `json:"meanLuminance"`
	MeanStdError   float64 `json:"meanStdError"`
}

type renderOutcome struct {
	frame *renderer.Frame
	stats renderer.RenderStats
	err   error
}

// handleRender renders a scene and streams progress as server-sent events:
// "console" per log line, then "result" and "complete", or "error"
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	setSSEHeaders(w)

	req, sceneObj, err := parseRenderRequest(r)
	if err != nil {
		sendSSEEvent(w, flusher, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	renderID := fmt.Sprintf("%s-%d", req.Scene, time.Now().UnixNano())
	consoleChan := make(chan ConsoleMessage, 64)
	logger := NewWebLogger(renderID, consoleChan, s.logger)

	ctx := r.Context()
	startTime := time.Now()
	done := make(chan renderOutcome, 1)
	go func() {
		rt := renderer.NewRaytracer(sceneObj, sceneObj.SamplingConfig, core.NewSeededSampler(req.Seed))
		rt.SetLogger(logger)
		frame, stats, err := rt.RenderPassContext(ctx)
		done <- renderOutcome{frame: frame, stats: stats, err: err}
	}()

	for {
		select {
		case msg := <-consoleChan:
			sendJSONEvent(w, flusher, "console", msg)
		case res := <-done:
			drainConsole(w, flusher, consoleChan)
			if res.err != nil {
				sendSSEEvent(w, flusher, "error", fmt.Sprintf("Render error: %v", res.err))
				return
			}

			var buf bytes.Buffer
			if err := output.EncodePNG(&buf, res.frame, ""); err != nil {
				sendSSEEvent(w, flusher, "error", err.Error())
				return
			}

			sendJSONEvent(w, flusher, "result", RenderResult{
				Width:     res.frame.Width,
				Height:    res.frame.Height,
				ImageData: base64.StdEncoding.EncodeToString(buf.Bytes()),
				Stats: Stats{
					TotalPixels:    res.stats.TotalPixels,
					TotalSamples:   res.stats.TotalSamples,
					AverageSamples: res.stats.AverageSamples,
					MaxDepth:       res.stats.MaxDepth,
					MeanLuminance:  res.stats.MeanLuminance,
					MeanStdError:   res.stats.MeanStdError,
				},
				ElapsedMs: time.Since(startTime).Milliseconds(),
			})
			sendSSEEvent(w, flusher, "complete", "Rendering completed")
			return
		}
	}
}

// drainConsole forwards messages logged before the render finished
func drainConsole(w http.ResponseWriter, flusher http.Flusher, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			sendJSONEvent(w, flusher, "console", msg)
		default:
			return
		}
	}
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendJSONEvent sends v as the JSON payload of an SSE event
func sendJSONEvent(w http.ResponseWriter, flusher http.Flusher, event string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		sendSSEEvent(w, flusher, "error", err.Error())
		return
	}
	sendSSEEvent(w, flusher, event, string(data))
}

// sendSSEEvent sends a generic SSE event
func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
