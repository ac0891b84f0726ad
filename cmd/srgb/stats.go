package main

import (
	"fmt"
	"io"
	"math"

	"github.com/aclements/go-moremath/stats"
)

// sampleStats summarizes linear input before conversion. Samples outside
// [0, 1] clip to 0 or 255.
type sampleStats struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	NaN    int
	Below  int
	Above  int
}

func summarize(samples []float32) sampleStats {
	s := sampleStats{Count: len(samples)}
	xs := make([]float64, 0, len(samples))
	for _, v := range samples {
		switch {
		case v != v:
			s.NaN++
			continue
		case v < 0:
			s.Below++
		case v > 1:
			s.Above++
		}
		xs = append(xs, float64(v))
	}

	if len(xs) == 0 {
		s.Mean, s.StdDev, s.Min, s.Max = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.Mean = stats.Mean(xs)
	s.Min, s.Max = stats.Bounds(xs)
	if len(xs) > 1 {
		s.StdDev = stats.StdDev(xs)
	}
	return s
}

func printStats(w io.Writer, s sampleStats) {
	fmt.Fprintf(w, "samples: %d\n", s.Count)
	fmt.Fprintf(w, "mean:    %.6g\n", s.Mean)
	fmt.Fprintf(w, "stddev:  %.6g\n", s.StdDev)
	fmt.Fprintf(w, "range:   [%.6g, %.6g]\n", s.Min, s.Max)
	if s.Below > 0 || s.Above > 0 || s.NaN > 0 {
		fmt.Fprintf(w, "clipped: %d below 0, %d above 1, %d NaN\n", s.Below, s.Above, s.NaN)
	}
}
