package report

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/arvyo/arvyo-server/internal/models"
)

var pngMagic = []byte{0x89, 0x50, 0x4e, 0x47}

func timelineFixture(checkpoints ...models.Checkpoint) *models.BalanceTimeline {
	return &models.BalanceTimeline{
		AccountID:   "acc_1",
		Month:       "2025-06",
		Checkpoints: checkpoints,
	}
}

func TestRenderTimelineChart(t *testing.T) {
	bt := timelineFixture(
		models.Checkpoint{Label: "01/06", Value: decimal.RequireFromString("1150.00")},
		models.Checkpoint{Label: "03/06", Value: decimal.RequireFromString("950.00")},
		models.Checkpoint{Label: "10/06", Value: decimal.RequireFromString("1000.00")},
	)

	png, err := RenderTimelineChart(bt)
	if err != nil {
		t.Fatalf("RenderTimelineChart: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestRenderTimelineChartSingleCheckpoint(t *testing.T) {
	bt := timelineFixture(
		models.Checkpoint{Label: "01/06", Value: decimal.RequireFromString("500.00")},
	)

	png, err := RenderTimelineChart(bt)
	if err != nil {
		t.Fatalf("RenderTimelineChart: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestRenderTimelineChartEmpty(t *testing.T) {
	if _, err := RenderTimelineChart(timelineFixture()); err == nil {
		t.Error("empty timeline should fail")
	}
}
