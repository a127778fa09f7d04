package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/web/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"
)

// Trace renders a scene file or built-in scene to an image.
func Trace(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() < 1 {
		return errors.New("missing scene argument")
	}
	ref := ctx.Args().First()

	out := ctx.String("out")
	if out == "" {
		out = ctx.Args().Get(1)
	}
	if out == "" {
		out = loaders.SceneName(ref) + ".png"
	}

	f, err := loaders.OpenScene(ref, ctx.String("scenes"))
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if addr := ctx.String("metrics-addr"); addr != "" {
		metricsCtx, cancel := context.WithCancel(sigCtx)
		defer cancel()
		go server.ListenAndServe(metricsCtx, &http.Server{Addr: addr, Handler: promhttp.Handler()})
	}

	opts, dist := f.Options(ctx.Int("r"), ctx.Int("s"))
	var r *renderer.Renderer
	if ctx.Bool("d") {
		r = renderer.NewDistributionRenderer(f.Scene, &dist, logger)
	} else {
		r = renderer.NewRenderer(f.Scene, opts, logger)
	}
	r.Gamma = ctx.Float64("gamma")

	progressive := ctx.Bool("P")
	stats, err := r.Render(sigCtx, func(result renderer.PassResult) error {
		logger.Infof("pass %02d/%02d", result.PassNumber, r.Passes)
		if !progressive || result.IsLast {
			return nil
		}
		return loaders.WriteImage(out, result.Image)
	})
	switch {
	case err != nil && sigCtx.Err() != nil:
		logger.Warningf("render interrupted after %d passes, saving the partial image", stats.Passes)
	case err != nil:
		return err
	}

	if err := loaders.WriteImage(out, r.Buffer().Image(r.Gamma)); err != nil {
		return err
	}
	logger.Noticef("wrote %s", out)

	renderer.WriteReport(ctx.App.Writer, stats, f.Scene.Stats())
	return nil
}
