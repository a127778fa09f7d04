package main

import (
	"fmt"
	"os"
	"time"

	"github.com/df07/go-whitted-raytracer/cmd"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	// -v belongs to verbose logging
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	sceneDirFlag := cli.StringFlag{
		Name:  "scenes",
		Value: "scenes",
		Usage: "directory of the scene files listed as json:<name>",
	}

	app := cli.NewApp()
	app.Name = "whitted"
	app.Usage = "render scenes with progressive Whitted and distribution ray tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "trace",
			Usage: "render a scene to an image",
			Description: `
Load a JSON scene file, or a built-in scene given by its id, and render it
one pass at a time. Render options come from the scene file and are
overridden by -r and -s; built-in scenes use the default options.

The image is written as PNG, TIFF or BMP depending on the output extension.
It defaults to the scene name with a .png extension.`,
			ArgsUsage: "scene.json|builtin:<id> [image]",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "r, resolution",
					Usage: "image height in pixels, 0 keeps the scene's value",
				},
				cli.IntFlag{
					Name:  "s, samples",
					Usage: "samples per pixel, 0 keeps the scene's value",
				},
				cli.BoolFlag{
					Name:  "P, progressive",
					Usage: "write the image after every pass",
				},
				cli.BoolFlag{
					Name:  "d, distribution",
					Usage: "use the distribution ray tracer",
				},
				cli.Float64Flag{
					Name:  "gamma",
					Value: renderer.DefaultGamma,
					Usage: "gamma applied to the written image, 1 keeps linear values",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "image filename for the rendered frame",
				},
				cli.StringFlag{
					Name:  "metrics-addr",
					Usage: "serve prometheus metrics on this address while rendering",
				},
				sceneDirFlag,
			},
			Action: cmd.Trace,
		},
		{
			Name:   "list",
			Usage:  "list the built-in scenes and scene files",
			Flags:  []cli.Flag{sceneDirFlag},
			Action: cmd.ListScenes,
		},
		{
			Name:  "serve",
			Usage: "stream progressive renders over HTTP",
			Description: `
Serve /api/render as server-sent events carrying one PNG per pass, along with
/api/scenes, /api/inspect, /api/health and /metrics.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "addr",
					Value: ":8080",
					Usage: "listen address",
				},
				cli.IntFlag{
					Name:  "max-res",
					Usage: "largest image height a client may request",
				},
				cli.DurationFlag{
					Name:  "timeout",
					Value: 10 * time.Minute,
					Usage: "longest render a client may request, 0 for no limit",
				},
				sceneDirFlag,
			},
			Action: cmd.Serve,
		},
	}
	return app
}
