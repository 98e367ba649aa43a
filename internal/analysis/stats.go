package analysis

import (
	"math"

	"github.com/san-kum/buddhabrot/internal/histogram"
)

// Stats describes the distribution of counts in one snapshot.
type Stats struct {
	Width    int
	Height   int
	Total    uint64
	Max      uint32
	NonZero  int
	Coverage float64 // fraction of cells with at least one hit
	Mean     float64 // mean count over non-zero cells
	Entropy  float64 // Shannon entropy of the normalized counts, in bits
}

func Compute(s *histogram.Snapshot) Stats {
	st := Stats{Width: s.Width, Height: s.Height}
	for _, c := range s.Counts {
		if c == 0 {
			continue
		}
		st.NonZero++
		st.Total += uint64(c)
		if c > st.Max {
			st.Max = c
		}
	}
	if len(s.Counts) > 0 {
		st.Coverage = float64(st.NonZero) / float64(len(s.Counts))
	}
	if st.NonZero == 0 {
		return st
	}
	st.Mean = float64(st.Total) / float64(st.NonZero)

	total := float64(st.Total)
	for _, c := range s.Counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		st.Entropy -= p * math.Log2(p)
	}
	return st
}

// Map flattens the stats for run metadata.
func (st Stats) Map() map[string]float64 {
	return map[string]float64{
		"total":    float64(st.Total),
		"max":      float64(st.Max),
		"non_zero": float64(st.NonZero),
		"coverage": st.Coverage,
		"mean":     st.Mean,
		"entropy":  st.Entropy,
	}
}
