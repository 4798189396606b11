package runmetrics

import "github.com/HdrHistogram/hdrhistogram-go"

// LatencySummary is a millisecond-resolution view derived from a
// microsecond-resolution HDR histogram.
type LatencySummary struct {
	Count int64
	MinMs float64
	MaxMs float64
	MeanMs float64
	P50Ms float64
	P90Ms float64
	P95Ms float64
	P99Ms float64
}

// Summarize converts h's microsecond values into a LatencySummary in
// milliseconds. An empty histogram yields an all-zero summary.
func Summarize(h *hdrhistogram.Histogram) LatencySummary {
	if h.TotalCount() == 0 {
		return LatencySummary{}
	}
	toMs := func(us int64) float64 { return float64(us) / 1000.0 }
	return LatencySummary{
		Count:  h.TotalCount(),
		MinMs:  toMs(h.Min()),
		MaxMs:  toMs(h.Max()),
		MeanMs: h.Mean() / 1000.0,
		P50Ms:  toMs(h.ValueAtQuantile(50)),
		P90Ms:  toMs(h.ValueAtQuantile(90)),
		P95Ms:  toMs(h.ValueAtQuantile(95)),
		P99Ms:  toMs(h.ValueAtQuantile(99)),
	}
}
