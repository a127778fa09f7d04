package cmd

import (
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ListScenes prints the built-in scenes and the scene files of the scenes
// directory.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	groups, err := scene.ListAllScenes(ctx.String("scenes"))
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Group", "Scene", "Name", "Description"})
	for _, g := range groups {
		for _, s := range g.Scenes {
			table.Append([]string{g.Name, s.ID, s.Name, s.Description})
		}
	}
	table.Render()
	return nil
}
