package renderer

import (
	"testing"
	"time"
)

func TestRenderStats_SamplesPerSecond(t *testing.T) {
	stats := RenderStats{TotalSamples: 1000, Elapsed: 2 * time.Second}

	if got := stats.SamplesPerSecond(); got != 500 {
		t.Errorf("Expected 500 samples/s, got %f", got)
	}
	if got := (RenderStats{TotalSamples: 10}).SamplesPerSecond(); got != 0 {
		t.Errorf("Expected 0 for an unmeasured render, got %f", got)
	}
}

func TestRenderStats_Imbalance(t *testing.T) {
	tests := []struct {
		name     string
		times    []time.Duration
		expected float64
	}{
		{"no workers", nil, 0},
		{"balanced", []time.Duration{time.Second, time.Second}, 1},
		{"one slow worker", []time.Duration{time.Second, 3 * time.Second, 2 * time.Second}, 3},
		{"zero time", []time.Duration{0, time.Second}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderStats{WorkerTimes: tt.times}.Imbalance()
			if got != tt.expected {
				t.Errorf("Expected imbalance %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestRaytracer_NewRenderStats(t *testing.T) {
	rt := newReferenceRaytracer()
	stats := rt.newRenderStats(PartitionScanlines(testHeight, 4))

	if stats.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", stats.Workers)
	}
	if expected := testWidth * testHeight * testSamples; stats.TotalSamples != expected {
		t.Errorf("Expected %d samples, got %d", expected, stats.TotalSamples)
	}
}
