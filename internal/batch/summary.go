// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a set of scores.
type Summary struct {
	Count  int
	Total  float64
	Mean   float64
	StdDev float64
	Max    float64
}

// Summarize computes the summary of scores. StdDev is the sample standard
// deviation and is zero for fewer than two scores.
func Summarize(scores []float64) Summary {
	if len(scores) == 0 {
		return Summary{}
	}
	s := Summary{
		Count: len(scores),
		Total: floats.Sum(scores),
		Max:   floats.Max(scores),
	}
	if len(scores) == 1 {
		s.Mean = scores[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(scores, nil)
	return s
}
