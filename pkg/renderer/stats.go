package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int             // Image width
	Height          int             // Image height
	SamplesPerPixel int             // Samples taken per pixel
	TotalSamples    int             // Primary rays cast
	Workers         int             // Workers that took part
	Ranges          []ScanlineRange // Scanlines assigned to each worker
	Elapsed         time.Duration   // Time from start release to the last join
	WorkerTimes     []time.Duration // Render time of each worker
}

// newRenderStats fills the fields known before rendering starts
func (rt *Raytracer) newRenderStats(ranges []ScanlineRange) RenderStats {
	return RenderStats{
		Width:           rt.width,
		Height:          rt.height,
		SamplesPerPixel: rt.config.SamplesPerPixel,
		TotalSamples:    rt.width * rt.height * rt.config.SamplesPerPixel,
		Workers:         len(ranges),
		Ranges:          ranges,
	}
}

// SamplesPerSecond returns primary-ray throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Elapsed.Seconds()
}

// Imbalance returns the slowest worker time divided by the fastest.
// It is 1 for a perfectly balanced render and 0 when unknown.
func (s RenderStats) Imbalance() float64 {
	if len(s.WorkerTimes) == 0 {
		return 0
	}
	fastest, slowest := s.WorkerTimes[0], s.WorkerTimes[0]
	for _, d := range s.WorkerTimes[1:] {
		fastest = min(fastest, d)
		slowest = max(slowest, d)
	}
	if fastest <= 0 {
		return 0
	}
	return float64(slowest) / float64(fastest)
}
