package renderer

import (
	"fmt"
	"io"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of samples taken
	AverageSamples float64 // Average samples per pixel
	MinSamples     int     // Minimum samples taken per pixel
	MaxSamplesUsed int     // Maximum samples actually used by any pixel
	Passes         int
	Elapsed        time.Duration
}

// computeStats summarizes the sample counts of buf
func computeStats(buf *ImageBuffer) RenderStats {
	stats := RenderStats{TotalPixels: buf.Width * buf.Height}
	if stats.TotalPixels == 0 {
		return stats
	}

	stats.MinSamples = buf.Samples[0]
	for _, n := range buf.Samples {
		stats.TotalSamples += n
		stats.MinSamples = min(stats.MinSamples, n)
		stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, n)
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return stats
}

// WriteReport renders the render and scene statistics as a table
func WriteReport(w io.Writer, stats RenderStats, sceneStats scene.Stats) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Statistic", "Value"})

	table.Append([]string{"Pixels", fmt.Sprintf("%d", stats.TotalPixels)})
	table.Append([]string{"Passes", fmt.Sprintf("%d", stats.Passes)})
	table.Append([]string{"Samples", fmt.Sprintf("%d", stats.TotalSamples)})
	table.Append([]string{"Samples/pixel", fmt.Sprintf("%.2f (min %d, max %d)", stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)})
	table.Append([]string{"Primitives", fmt.Sprintf("%d", sceneStats.Primitives)})
	table.Append([]string{"Elements", fmt.Sprintf("%d", sceneStats.Elements)})
	table.Append([]string{"Lights", fmt.Sprintf("%d", sceneStats.Lights)})
	if sceneStats.Accelerated {
		bvh := sceneStats.GroupBVH
		table.Append([]string{"Group BVH", fmt.Sprintf("%d nodes, %d leaves, depth %d", bvh.TotalNodes, bvh.LeafNodes, bvh.MaxDepth)})
	} else {
		table.Append([]string{"Group BVH", "linear scan"})
	}
	table.SetFooter([]string{"Render time", stats.Elapsed.Round(time.Millisecond).String()})

	table.Render()
}
