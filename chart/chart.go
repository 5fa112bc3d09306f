// Package chart renders cluster reports with gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
)

// Width and Height are the PNG dimensions used by WritePNG
const (
	Width  = 8 * vg.Inch
	Height = 5 * vg.Inch
)

// ErrNoData is returned when a chart would have nothing to draw
var ErrNoData = errors.New("no data to plot")

// noiseColor draws the noise bar
var noiseColor = color.RGBA{R: 156, G: 163, B: 175, A: 255}

// ClusterSizes draws one bar per cluster of a year, in palette order. The
// noise cluster is drawn in grey and labelled with the noise label.
func ClusterSizes(year string, yr clustering.YearReport) (*plot.Plot, error) {
	if len(yr.Clusters) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Jumlah Anggota per Cluster (%s)", year)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Jumlah Wilayah"
	p.Y.Min = 0

	labels := make([]string, len(yr.Clusters))
	paletteIndex := 0
	maxSize := 0.0

	for i, c := range yr.Clusters {
		size := float64(c.Size)
		bars, err := plotter.NewBarChart(plotter.Values{size}, vg.Points(30))
		if err != nil {
			return nil, fmt.Errorf("failed to build bar for cluster %s: %w", c.ID, err)
		}
		bars.XMin = float64(i)
		bars.LineStyle.Width = vg.Length(0)

		if c.IsNoise() {
			bars.Color = noiseColor
		} else {
			bars.Color = hexColor(clustering.ClusterColor(paletteIndex))
			paletteIndex++
		}

		p.Add(bars)
		labels[i] = c.Label()
		maxSize = math.Max(maxSize, size)
	}

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 8
	p.X.Tick.Label.XAlign = draw.XRight
	p.Y.Max = math.Max(1, maxSize*1.15)
	p.Add(plotter.NewGrid())

	return p, nil
}

// MetricBoxPlot draws the distribution of metric within each non-noise
// cluster of a year. Clusters without values for metric are skipped.
func MetricBoxPlot(year string, yr clustering.YearReport, metric string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s per Cluster (%s)", clustering.FormatMetricLabel(metric), year)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = clustering.FormatMetricLabel(metric)

	var labels []string
	for i, c := range clustering.FilterValidClusters(yr.Clusters) {
		values := clustering.ClusterMetricValues(c, metric)
		if len(values) == 0 {
			continue
		}

		box, err := plotter.NewBoxPlot(vg.Points(30), float64(len(labels)), plotter.Values(values))
		if err != nil {
			return nil, fmt.Errorf("failed to build box for cluster %s: %w", c.ID, err)
		}
		box.FillColor = hexColor(clustering.ClusterColor(i))

		p.Add(box)
		labels = append(labels, c.Label())
	}

	if len(labels) == 0 {
		return nil, ErrNoData
	}

	p.NominalX(labels...)
	p.Add(plotter.NewGrid())
	return p, nil
}

// WritePNG renders p as an 8x5 inch PNG
func WritePNG(p *plot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

// hexColor parses #rrggbb, falling back to black
func hexColor(hex string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
