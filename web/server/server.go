// Package server exposes the path tracer over HTTP: scene listing, renders
// streamed as server-sent events, and per-pixel hit inspection.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/scene"
)

// Limits on request parameters
const (
	minWidth   = 16
	maxWidth   = 2000
	maxSamples = 10000
	maxDepth   = 1000
)

// Server handles web requests for the path tracer
type Server struct {
	port   int
	logger *log.Logger
}

// NewServer creates a new web server
func NewServer(port int, logger *log.Logger) *Server {
	return &Server{port: port, logger: logger}
}

// RenderRequest represents a render or inspect request from the client
type RenderRequest struct {
	Scene           string `json:"scene"`           // Scene name (e.g., "random")
	Width           int    `json:"width"`           // Image width; height follows the scene's aspect ratio
	SamplesPerPixel int    `json:"samplesPerPixel"` // Samples per pixel
	MaxDepth        int    `json:"maxDepth"`        // Bounce limit
	Seed            int64  `json:"seed"`            // Seed for scene generation and sampling
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scene names
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"scenes": scene.Names()})
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := createScene(sceneName, 0)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	cfg := sceneObj.SamplingConfig
	cam := sceneObj.CameraConfig
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":           cfg.Width,
			"height":          cfg.Height,
			"samplesPerPixel": cfg.SamplesPerPixel,
			"maxDepth":        cfg.MaxDepth,
		},
		"camera": map[string]interface{}{
			"lookFrom":      [3]float64{cam.LookFrom.X, cam.LookFrom.Y, cam.LookFrom.Z},
			"lookAt":        [3]float64{cam.LookAt.X, cam.LookAt.Y, cam.LookAt.Z},
			"vfov":          cam.VFov,
			"aspectRatio":   cam.AspectRatio,
			"aperture":      cam.Aperture,
			"focusDistance": cam.FocusDistance,
		},
		"limits": map[string]interface{}{
			"width":           map[string]int{"min": minWidth, "max": maxWidth},
			"samplesPerPixel": map[string]int{"min": 1, "max": maxSamples},
			"maxDepth":        map[string]int{"min": 0, "max": maxDepth},
		},
	})
}

// createScene builds a built-in scene. Only built-in names are accepted so
// requests cannot read files from the server.
func createScene(name string, seed int64) (*scene.Scene, error) {
	for _, builtin := range scene.Names() {
		if name == builtin {
			return scene.Create(name, core.NewSeededSampler(seed))
		}
	}
	return nil, fmt.Errorf("%w %q", scene.ErrUnknownScene, name)
}

// parseRenderRequest parses request parameters, falling back to the scene's
// recommended settings
func parseRenderRequest(r *http.Request) (*RenderRequest, *scene.Scene, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	seed, err := parseIntParam(query, "seed", 42, 0, 1<<31-1)
	if err != nil {
		return nil, nil, err
	}
	req.Seed = int64(seed)

	sceneObj, err := createScene(req.Scene, req.Seed)
	if err != nil {
		return nil, nil, err
	}
	defaults := sceneObj.SamplingConfig

	if req.Width, err = parseIntParam(query, "width", min(defaults.Width, maxWidth), minWidth, maxWidth); err != nil {
		return nil, nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(query, "samplesPerPixel", defaults.SamplesPerPixel, 1, maxSamples); err != nil {
		return nil, nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", defaults.MaxDepth, 0, maxDepth); err != nil {
		return nil, nil, err
	}

	sceneObj.Resize(req.Width)
	sceneObj.SamplingConfig.SamplesPerPixel = req.SamplesPerPixel
	sceneObj.SamplingConfig.MaxDepth = req.MaxDepth
	return req, sceneObj, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("Failed to write JSON response: %v", err)
	}
}
