package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/arvyo/arvyo-server/internal/models"
)

// RenderTimelineChart renders a balance timeline as a PNG line chart.
// Checkpoint values stay exact decimals until this boundary, where
// they become float64 for the renderer. Returns raw PNG bytes.
func RenderTimelineChart(bt *models.BalanceTimeline) ([]byte, error) {
	if len(bt.Checkpoints) == 0 {
		return nil, fmt.Errorf("timeline has no checkpoints")
	}

	checkpoints := bt.Checkpoints
	// A single checkpoint still draws as a flat line.
	if len(checkpoints) == 1 {
		checkpoints = append(checkpoints, checkpoints[0])
	}

	xValues := make([]float64, len(checkpoints))
	yValues := make([]float64, len(checkpoints))
	labels := make([]string, len(checkpoints))
	for i, cp := range checkpoints {
		xValues[i] = float64(i)
		yValues[i] = cp.Value.InexactFloat64()
		labels[i] = cp.Label
	}

	// go-chart rejects a zero y-range, so a flat series needs explicit bounds.
	minY, maxY := yValues[0], yValues[0]
	for _, v := range yValues {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}
	var yRange chart.Range
	if minY == maxY {
		yRange = &chart.ContinuousRange{Min: minY - 1, Max: maxY + 1}
	}

	balanceSeries := chart.ContinuousSeries{
		Name: "Balance",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: yValues,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Balance %s", bt.Month),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					i := int(f)
					if i >= 0 && i < len(labels) {
						return labels[i]
					}
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Range: yRange,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			balanceSeries,
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
