package server

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer() *Server {
	return NewServer(0, log.New(io.Discard, "", 0))
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type sseEvent struct {
	name string
	data string
}

func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	var current sseEvent
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			current.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			current.data = strings.TrimPrefix(line, "data: ")
		case line == "":
			events = append(events, current)
			current = sseEvent{}
		}
	}
	return events
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("Unexpected body %q", rec.Body.String())
	}
}

func TestScenes(t *testing.T) {
	rec := get(t, newTestServer(), "/api/scenes")
	var body struct {
		Scenes []string `json:"scenes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Scenes) != 2 {
		t.Errorf("Expected 2 scenes, got %v", body.Scenes)
	}
}

func TestSceneConfig(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantScene  string
		wantWidth  float64
	}{
		{"default", "/api/scene-config", http.StatusOK, "default", 400},
		{"random", "/api/scene-config?scene=random", http.StatusOK, "random", 900},
		{"unknown", "/api/scene-config?scene=cornell", http.StatusBadRequest, "", 0},
		{"files are not scenes", "/api/scene-config?scene=/etc/scene.json", http.StatusBadRequest, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(), tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var body struct {
				Scene    string                 `json:"scene"`
				Defaults map[string]interface{} `json:"defaults"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Scene != tt.wantScene {
				t.Errorf("Expected scene %q, got %q", tt.wantScene, body.Scene)
			}
			if got := body.Defaults["width"]; got != tt.wantWidth {
				t.Errorf("Expected width %v, got %v", tt.wantWidth, got)
			}
		})
	}
}

func TestRender_StreamsResult(t *testing.T) {
	rec := get(t, newTestServer(), "/api/render?scene=default&width=16&samplesPerPixel=1&maxDepth=3")
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected event stream, got %q", ct)
	}

	events := parseSSE(t, rec.Body.String())
	if len(events) < 3 {
		t.Fatalf("Expected console, result and complete events, got %d", len(events))
	}

	consoleCount := 0
	var result RenderResult
	for _, ev := range events {
		switch ev.name {
		case "console":
			consoleCount++
		case "result":
			if err := json.Unmarshal([]byte(ev.data), &result); err != nil {
				t.Fatalf("decode result: %v", err)
			}
		case "error":
			t.Fatalf("Unexpected error event: %s", ev.data)
		}
	}

	if consoleCount == 0 {
		t.Error("Expected console events")
	}
	if last := events[len(events)-1].name; last != "complete" {
		t.Errorf("Expected final complete event, got %q", last)
	}
	if result.Width != 16 || result.Height != 9 || result.Stats.TotalPixels != 144 {
		t.Errorf("Unexpected result %+v", result.Stats)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageData)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 9 {
		t.Errorf("Expected 16x9 image, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRender_InvalidRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"unknown scene", "/api/render?scene=cornell"},
		{"width too small", "/api/render?width=2"},
		{"bad samples", "/api/render?samplesPerPixel=abc"},
		{"negative depth", "/api/render?maxDepth=-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := parseSSE(t, get(t, newTestServer(), tt.target).Body.String())
			if len(events) != 1 || events[0].name != "error" {
				t.Errorf("Expected a single error event, got %+v", events)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	// The default scene's camera looks straight at the center sphere
	rec := get(t, newTestServer(), "/api/inspect?scene=default&width=101&x=50&y=28")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Hit {
		t.Fatal("Expected center pixel to hit")
	}
	if resp.MaterialType != "lambertian" || resp.GeometryType != "sphere" {
		t.Errorf("Expected lambertian sphere, got %s %s", resp.MaterialType, resp.GeometryType)
	}
	if !resp.FrontFace || resp.Distance <= 0 {
		t.Errorf("Expected front face hit at positive distance, got %+v", resp)
	}
	geometry, _ := resp.Properties["geometry"].(map[string]interface{})
	if geometry["radius"] != 0.5 {
		t.Errorf("Expected radius 0.5, got %v", geometry["radius"])
	}
}

func TestInspect_Miss(t *testing.T) {
	// The random scene's camera sees sky along the top edge
	rec := get(t, newTestServer(), "/api/inspect?scene=random&width=64&x=0&y=0")
	var resp InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Hit {
		t.Errorf("Expected miss, got %+v", resp)
	}
}

func TestInspect_BadRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing x", "/api/inspect?y=1"},
		{"bad y", "/api/inspect?x=1&y=z"},
		{"out of bounds", "/api/inspect?width=32&x=32&y=0"},
		{"unknown scene", "/api/inspect?scene=nope&x=0&y=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := get(t, newTestServer(), tt.target); rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

type failingWriter struct {
	*httptest.ResponseRecorder
}

func (f failingWriter) Write([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func TestWriteJSON_LogsEncodeFailure(t *testing.T) {
	var logs bytes.Buffer
	s := NewServer(0, log.New(&logs, "", 0))

	w := failingWriter{httptest.NewRecorder()}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !strings.Contains(logs.String(), "Failed to write JSON response") {
		t.Errorf("Expected encode failure to be logged, got %q", logs.String())
	}
}
