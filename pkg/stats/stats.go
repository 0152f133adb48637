// Package stats summarises the samples currently on screen.
package stats

import (
	"errors"
	"fmt"
	"math"

	"github.com/DataDog/sketches-go/ddsketch"
	"github.com/DataDog/sketches-go/ddsketch/mapping"
	"github.com/DataDog/sketches-go/ddsketch/store"
)

// RelativeAccuracy of the quantile sketch.
const RelativeAccuracy = 0.01

var ErrEmpty = errors.New("no samples")

type Summary struct {
	Count  int
	Latest float64
	Min    float64
	Max    float64
	Mean   float64
	P50    float64
	P95    float64
}

func newSketch() (*ddsketch.DDSketch, error) {
	m, err := mapping.NewLogarithmicMapping(RelativeAccuracy)
	if err != nil {
		return nil, err
	}
	return ddsketch.NewDDSketch(m, store.NewDenseStore(), store.NewDenseStore()), nil
}

// Summarize computes exact min/max/mean and sketched quantiles of values.
// The last element is reported as Latest.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrEmpty
	}
	sk, err := newSketch()
	if err != nil {
		return Summary{}, fmt.Errorf("sketch: %w", err)
	}
	s := Summary{
		Count:  len(values),
		Latest: values[len(values)-1],
		Min:    math.Inf(1),
		Max:    math.Inf(-1),
	}
	// values beyond the sketch's range are clamped for the quantiles only
	limit := sk.IndexMapping.MaxIndexableValue()
	var sum float64
	for _, v := range values {
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		if err := sk.Add(clamp(v, -limit, limit)); err != nil {
			return Summary{}, fmt.Errorf("sketch add %g: %w", v, err)
		}
	}
	s.Mean = sum / float64(len(values))
	if s.P50, err = sk.GetValueAtQuantile(0.50); err != nil {
		return Summary{}, err
	}
	if s.P95, err = sk.GetValueAtQuantile(0.95); err != nil {
		return Summary{}, err
	}
	// sketch estimates may sit just outside the observed range
	s.P50 = clamp(s.P50, s.Min, s.Max)
	s.P95 = clamp(s.P95, s.Min, s.Max)
	return s, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func (s Summary) String() string {
	if s.Count == 0 {
		return "no data"
	}
	return fmt.Sprintf("last %.2f  min %.2f  max %.2f  mean %.2f  p50 %.2f  p95 %.2f",
		s.Latest, s.Min, s.Max, s.Mean, s.P50, s.P95)
}
