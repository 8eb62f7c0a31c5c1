package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomech-data/biomech.coach/internal/pose"
	"github.com/biomech-data/biomech.coach/internal/testutil"
)

func TestSummarize(t *testing.T) {
	s := Summarize("left_knee", []float64{30, 10, 40, 20})

	assert.Equal(t, "left_knee", s.Name)
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 25.0, s.Mean, 1e-9)
	assert.InDelta(t, 12.9099, s.StdDev, 1e-3)
	assert.InDelta(t, 10.0, s.Min, 1e-9)
	assert.InDelta(t, 40.0, s.Max, 1e-9)
	assert.InDelta(t, 30.0, s.Range, 1e-9)
	assert.InDelta(t, 20.0, s.P50, 1e-9)
	assert.InDelta(t, 40.0, s.P85, 1e-9)
	assert.InDelta(t, 40.0, s.P95, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize("trunk_lean", nil)
	assert.Equal(t, "trunk_lean", s.Name)
	assert.Equal(t, 0, s.Count)
	assert.Zero(t, s.Mean)
	assert.Zero(t, s.Range)
}

func TestSummarizeSingleValue(t *testing.T) {
	s := Summarize("left_elbow", []float64{92.5})
	assert.Equal(t, 1, s.Count)
	assert.InDelta(t, 92.5, s.Mean, 1e-9)
	assert.Zero(t, s.StdDev)
	assert.Zero(t, s.Range)
	assert.InDelta(t, 92.5, s.P95, 1e-9)
}

func TestSummarizeFrames(t *testing.T) {
	first := testutil.SampleFrame()

	// Second frame: same pose shifted right by 10px. Joint angles and leans
	// are translation invariant, so both frames contribute identical values.
	second := testutil.SampleFrame()
	second.Timestamp = 1033.0
	for i := range second.Keypoints {
		second.Keypoints[i].X += 10
	}

	// Estimator-flagged frames must not contribute at all.
	invalid := testutil.SampleFrame()
	invalid.Timestamp = 1066.0
	invalid.IsValid = false

	summaries := SummarizeFrames([]pose.Frame{first, second, invalid}, 0.5)

	require.Contains(t, summaries, "left_knee")
	knee := summaries["left_knee"]
	assert.Equal(t, 2, knee.Count)
	assert.InDelta(t, 0.0, knee.Range, 1e-9, "translated pose must not change the angle")
	assert.Greater(t, knee.Mean, 170.0)

	require.Contains(t, summaries, TrunkLean)
	assert.Equal(t, 2, summaries[TrunkLean].Count)
}

func TestSummarizeFramesEmpty(t *testing.T) {
	assert.Empty(t, SummarizeFrames(nil, 0.5))
}
