package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const (
	integratorWhitted      = "whitted"
	integratorDistribution = "distribution"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string  // Scene id as listed by /api/scenes
	Integrator string  // "whitted" or "distribution"
	Res        int     // Image height, 0 keeps the scene's value
	Samples    int     // Samples per pixel, 0 keeps the scene's value
	Gamma      float64 // Display gamma of the pass images
}

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	RenderID    string `json:"renderId"`
	PassNumber  int    `json:"passNumber"`
	TotalPasses int    `json:"totalPasses"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Stats       Stats  `json:"stats"`
	IsComplete  bool   `json:"isComplete"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamplesUsed int     `json:"maxSamplesUsed"`
	Primitives     int     `json:"primitives"`
	Lights         int     `json:"lights"`
}

// handleRender streams the passes of a render as "progress" events, the
// renderer's log lines as "console" events and ends with "complete" or "error"
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)
	ctx, cancel := renderContext(r.Context(), s.RenderTimeout)
	defer cancel()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		sendSSEEvent(w, "error", "Invalid request: "+err.Error())
		return
	}

	f, err := loaders.OpenScene(req.Scene, s.SceneDir)
	if err != nil {
		s.logger.Warningf("render of %s refused: %v", req.Scene, err)
		sendSSEEvent(w, "error", "Unknown or invalid scene: "+req.Scene)
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	rt := s.newRenderer(f, req, consoleChan)
	rt.Gamma = req.Gamma
	sceneStats := f.Scene.Stats()

	startTime := time.Now()
	passChan, errChan := rt.RenderProgressive(ctx)

	for passChan != nil || errChan != nil {
		select {
		case msg := <-consoleChan:
			if sendSSEJSON(w, "console", msg) != nil {
				return
			}

		case result, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			update, err := newProgressUpdate(rt, result, sceneStats, startTime)
			if err != nil {
				sendSSEEvent(w, "error", "Encoding failed: "+err.Error())
				return
			}
			if sendSSEJSON(w, "progress", update) != nil {
				return
			}

		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			sendSSEEvent(w, "error", "Render error: "+err.Error())
			return

		case <-r.Context().Done():
			return
		}
	}

	flushConsole(w, consoleChan)
	sendSSEEvent(w, "complete", "Rendering completed")
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	values := r.URL.Query()
	req := &RenderRequest{
		Scene:      values.Get("scene"),
		Integrator: values.Get("integrator"),
	}
	if req.Scene == "" {
		req.Scene = "cornell-box"
	}
	switch req.Integrator {
	case "":
		req.Integrator = integratorWhitted
	case integratorWhitted, integratorDistribution:
	default:
		return nil, errors.Newf("unknown integrator: %s", req.Integrator)
	}

	var err error
	if req.Res, err = parseIntParam(values, "res", 0, 1, s.Limits.MaxRes); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", 0, 1, s.Limits.MaxSamples); err != nil {
		return nil, err
	}
	if req.Gamma, err = parseFloatParam(values, "gamma", renderer.DefaultGamma, 0.1, 10); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *Server) newRenderer(f *loaders.SceneFile, req *RenderRequest, consoleChan chan<- ConsoleMessage) *renderer.Renderer {
	opts, dist := f.Options(req.Res, req.Samples)
	clamp := func(o *renderer.RaytraceOptions) {
		o.Res = min(o.Res, s.Limits.MaxRes)
		o.Samples = min(o.Samples, s.Limits.MaxSamples)
	}

	var logger log.Logger = NewWebLogger(req.Scene, s.logger, consoleChan)
	if req.Integrator == integratorDistribution {
		clamp(&dist.RaytraceOptions)
		return renderer.NewDistributionRenderer(f.Scene, &dist, logger)
	}
	clamp(&opts)
	return renderer.NewRenderer(f.Scene, opts, logger)
}

func newProgressUpdate(rt *renderer.Renderer, result renderer.PassResult, sceneStats scene.Stats, startTime time.Time) (ProgressUpdate, error) {
	imageData, err := imageToBase64PNG(result.Image)
	if err != nil {
		return ProgressUpdate{}, err
	}

	return ProgressUpdate{
		RenderID:    rt.ID.String(),
		PassNumber:  result.PassNumber,
		TotalPasses: rt.Passes,
		ImageData:   imageData,
		Stats: Stats{
			TotalPixels:    result.Stats.TotalPixels,
			TotalSamples:   result.Stats.TotalSamples,
			AverageSamples: result.Stats.AverageSamples,
			MinSamples:     result.Stats.MinSamples,
			MaxSamplesUsed: result.Stats.MaxSamplesUsed,
			Primitives:     sceneStats.Primitives,
			Lights:         sceneStats.Lights,
		},
		IsComplete: result.IsLast,
		ElapsedMs:  time.Since(startTime).Milliseconds(),
	}, nil
}

// flushConsole sends the console messages still queued
func flushConsole(w http.ResponseWriter, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			if sendSSEJSON(w, "console", msg) != nil {
				return
			}
		default:
			return
		}
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// renderContext bounds a render by the client connection and, when
// positive, a timeout
func renderContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
