package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/biomech-data/biomech.coach/internal/pose"
)

// Summary describes the distribution of one measurement across a session.
// All angle values are degrees. Range is max-min, the range of motion for
// joint angles.
type Summary struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Range  float64 `json:"range"`
	P50    float64 `json:"p50"`
	P85    float64 `json:"p85"`
	P95    float64 `json:"p95"`
}

// Summarize computes distribution statistics for a single measurement
// series. An empty series yields a zero Summary with only the name set.
func Summarize(name string, values []float64) Summary {
	s := Summary{Name: name, Count: len(values)}
	if len(values) == 0 {
		return s
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Range = s.Max - s.Min
	s.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	s.P85 = stat.Quantile(0.85, stat.Empirical, sorted, nil)
	s.P95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	return s
}

// SummarizeFrames computes the full measurement catalogue for every valid
// frame and aggregates each measurement into a Summary. Frames flagged
// invalid by the estimator are excluded entirely.
func SummarizeFrames(frames []pose.Frame, minScore float64) map[string]Summary {
	series := make(map[string][]float64)
	for _, f := range frames {
		if !f.IsValid {
			continue
		}
		for name, deg := range FrameMeasurements(f, minScore) {
			series[name] = append(series[name], deg)
		}
	}

	out := make(map[string]Summary, len(series))
	for name, values := range series {
		out[name] = Summarize(name, values)
	}
	return out
}
