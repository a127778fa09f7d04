// Package server streams progressive renders to browsers over server-sent
// events and answers scene listing and pixel inspection requests.
package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

var requests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "raytracer_http_requests",
	Help: "The number of HTTP requests handled, by route.",
}, []string{"route", "code", "method"})

// Limits bound the render parameters a client may ask for
type Limits struct {
	MaxRes     int
	MaxSamples int
}

// DefaultLimits are the limits of NewServer
var DefaultLimits = Limits{MaxRes: 2000, MaxSamples: 10000}

// Server handles web requests for the progressive ray tracer
type Server struct {
	SceneDir      string
	Limits        Limits
	RenderTimeout time.Duration // 0 lets renders run until the client leaves

	logger log.Logger
}

// NewServer creates a server that lists and loads scene files from sceneDir
// in addition to the built-in scenes
func NewServer(sceneDir string) *Server {
	return &Server{
		SceneDir: sceneDir,
		Limits:   DefaultLimits,
		logger:   log.New("server"),
	}
}

// Handler returns the routes of the server, metrics included
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	route := func(path string, h http.HandlerFunc) {
		counter := requests.MustCurryWith(prometheus.Labels{"route": path})
		mux.Handle(path, promhttp.InstrumentHandlerCounter(counter, h))
	}

	route("/api/render", s.handleRender)
	route("/api/inspect", s.handleInspect)
	route("/api/scenes", s.handleScenes)
	route("/api/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// ListenAndServe runs the servers until ctx is done, then shuts them down
func ListenAndServe(ctx context.Context, servers ...*http.Server) {
	logger := log.New("server")

	go func() {
		<-ctx.Done()

		for _, s := range servers {
			if err := s.Shutdown(context.Background()); err != nil {
				logger.Warningf("shutting down %s failed: %v", s.Addr, err)
			}
		}
	}()

	var wg sync.WaitGroup

	for _, s := range servers {
		wg.Add(1)

		go func(s *http.Server) {
			defer wg.Done()

			logger.Noticef("listening on %s", s.Addr)

			switch err := s.ListenAndServe(); err {
			case nil, http.ErrServerClosed, context.Canceled:
				logger.Infof("stopped listening on %s", s.Addr)

			default:
				logger.Errorf("server on %s stopped: %v", s.Addr, err)
			}
		}(s)
	}

	wg.Wait()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in and file scenes by group
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	groups, err := scene.ListAllScenes(s.SceneDir)
	if err != nil {
		s.logger.Errorf("listing scenes failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, errors.Newf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, errors.Newf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, errors.Newf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, errors.Newf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// sendSSEEvent sends a generic SSE event
func sendSSEEvent(w http.ResponseWriter, event, data string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return errors.New("streaming not supported")
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
	return nil
}

// sendSSEJSON sends v as the JSON data of an SSE event
func sendSSEJSON(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return sendSSEEvent(w, event, string(data))
}
