package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"

	"github.com/df07/go-whitted-raytracer/web/server"
	"github.com/urfave/cli"
)

// Serve streams progressive renders over HTTP until interrupted.
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)

	srv := server.NewServer(ctx.String("scenes"))
	srv.RenderTimeout = ctx.Duration("timeout")
	if res := ctx.Int("max-res"); res > 0 {
		srv.Limits.MaxRes = res
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("serving scenes from %q", srv.SceneDir)
	server.ListenAndServe(sigCtx, &http.Server{
		Addr:    ctx.String("addr"),
		Handler: srv.Handler(),
	})
	return nil
}
