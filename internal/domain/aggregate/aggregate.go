// Package aggregate reduces per-frame measurements into summary series.
package aggregate

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/pitchlane/internal/domain/geometry"
	"github.com/okian/pitchlane/internal/domain/model"
)

type frameKey struct {
	frame int
	poss  model.Team
}

// MeanDistanceByFrame groups records by frame and possession and returns the
// arithmetic mean of each group, ordered by frame then possession.
func MeanDistanceByFrame(records []model.DistanceRecord) []model.FrameMeanDistance {
	groups := make(map[frameKey][]float64)
	keys := make([]frameKey, 0)
	for _, r := range records {
		k := frameKey{frame: r.FrameNum, poss: r.Possession}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r.Distance)
	}
	slices.SortFunc(keys, func(a, b frameKey) int {
		if c := cmp.Compare(a.frame, b.frame); c != 0 {
			return c
		}
		return cmp.Compare(a.poss, b.poss)
	})

	out := make([]model.FrameMeanDistance, 0, len(keys))
	for _, k := range keys {
		vals := groups[k]
		out = append(out, model.FrameMeanDistance{
			FrameNum:     k.frame,
			Possession:   k.poss,
			MeanDistance: stat.Mean(vals, nil),
			Count:        len(vals),
		})
	}
	return out
}

// BucketSize returns the number of samples covering interval at rateHz.
func BucketSize(interval time.Duration, rateHz float64) (int, error) {
	size := int(math.Round(interval.Seconds() * rateHz))
	if size <= 0 {
		return 0, fmt.Errorf("%w: interval %s at %g Hz", ErrInvalidBucket, interval, rateHz)
	}
	return size, nil
}

// Buckets splits series into consecutive runs of interval*rate samples and
// returns the mean position of each. The last bucket keeps whatever samples
// remain. A series shorter than one bucket becomes a single bucket; an empty
// series gives no buckets.
func Buckets(series []model.Point, interval time.Duration, rateHz float64) ([]model.BucketMean, error) {
	size, err := BucketSize(interval, rateHz)
	if err != nil {
		return nil, err
	}

	out := make([]model.BucketMean, 0, (len(series)+size-1)/size)
	xs := make([]float64, 0, size)
	ys := make([]float64, 0, size)
	for start := 0; start < len(series); start += size {
		end := min(start+size, len(series))
		xs, ys = xs[:0], ys[:0]
		for _, p := range series[start:end] {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
		out = append(out, model.BucketMean{
			Index: len(out),
			Size:  end - start,
			Mean:  model.Point{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)},
		})
	}
	return out, nil
}

// SeriesDistance buckets both series and averages the distances between
// bucket means at the same index. An empty series yields a NoData result.
// The error is only for an unusable bucket size.
func SeriesDistance(a, b []model.Point, interval time.Duration, rateHz float64) (model.SeriesDistance, error) {
	if _, err := BucketSize(interval, rateHz); err != nil {
		return model.SeriesDistance{}, err
	}
	if len(a) == 0 || len(b) == 0 {
		return model.SeriesDistance{NoData: true}, nil
	}

	ba, _ := Buckets(a, interval, rateHz)
	bb, _ := Buckets(b, interval, rateHz)
	n := min(len(ba), len(bb))
	per := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		per = append(per, geometry.Distance(ba[i].Mean, bb[i].Mean))
	}
	return model.SeriesDistance{Mean: stat.Mean(per, nil), PerBucket: per}, nil
}

// BallDistanceSeries returns the distance from id to the ball in every frame
// where both are present, in frame order.
func BallDistanceSeries(frames []model.TrackingFrame, id model.PlayerID) []model.DistanceSample {
	out := make([]model.DistanceSample, 0, len(frames))
	for i := range frames {
		f := &frames[i]
		if f.Ball == nil {
			continue
		}
		p, ok := f.Player(id)
		if !ok {
			continue
		}
		out = append(out, model.DistanceSample{
			FrameNum: f.FrameNum,
			PlayerID: id,
			Distance: geometry.Distance(p.Position, f.Ball.Position),
		})
	}
	return out
}

// Comparison selects which side of a threshold FilterByThreshold keeps.
type Comparison int

// Comparisons. Both are strict.
const (
	Below Comparison = iota
	Above
)

// FilterByThreshold keeps samples strictly below or above threshold.
func FilterByThreshold(samples []model.DistanceSample, threshold float64, c Comparison) []model.DistanceSample {
	out := make([]model.DistanceSample, 0, len(samples))
	for _, s := range samples {
		if (c == Below && s.Distance < threshold) || (c == Above && s.Distance > threshold) {
			out = append(out, s)
		}
	}
	return out
}

// ObstructionCountsByTeam counts, per team, the frames in which that team had
// at least one obstructing defender.
func ObstructionCountsByTeam(summaries []model.ObstructionSummary) map[model.Team]int {
	counts := make(map[model.Team]int, 2)
	for _, s := range summaries {
		for _, t := range s.TeamIDs {
			counts[t]++
		}
	}
	return counts
}
