package mlearn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// scaler holds per-feature standardization parameters fitted on the
// population.
type scaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

// fitScaler computes zero-mean/unit-variance parameters per column.
// Constant columns keep a unit deviation so scaling stays defined.
func fitScaler(rows [][]float64) *scaler {
	if len(rows) == 0 {
		return &scaler{}
	}
	dims := len(rows[0])
	s := &scaler{
		Means: make([]float64, dims),
		Stds:  make([]float64, dims),
	}
	col := make([]float64, len(rows))
	for d := 0; d < dims; d++ {
		for i, row := range rows {
			col[i] = row[d]
		}
		s.Means[d] = stat.Mean(col, nil)
		var ss float64
		for _, v := range col {
			diff := v - s.Means[d]
			ss += diff * diff
		}
		s.Stds[d] = math.Sqrt(ss / float64(len(col)))
		if s.Stds[d] == 0 {
			s.Stds[d] = 1
		}
	}
	return s
}

// transform applies the fitted standardization to every row.
func (s *scaler) transform(rows [][]float64) [][]float64 {
	scaled := make([][]float64, len(rows))
	for i, row := range rows {
		out := make([]float64, len(row))
		for d, v := range row {
			out[d] = (v - s.Means[d]) / s.Stds[d]
		}
		scaled[i] = out
	}
	return scaled
}

// kMeans partitions rows into k clusters with a seeded centroid-based
// iteration, so identical input always yields identical assignments.
func kMeans(rows [][]float64, k int, seed int64) (assignments []int, centroids [][]float64) {
	n := len(rows)
	if n == 0 || k <= 0 {
		return nil, nil
	}
	if k > n {
		k = n
	}
	dims := len(rows[0])
	rng := rand.New(rand.NewSource(seed))

	// Seeded initial centroids from distinct observations.
	centroids = make([][]float64, k)
	for i, idx := range rng.Perm(n)[:k] {
		centroids[i] = append([]float64(nil), rows[idx]...)
	}

	assignments = make([]int, n)
	const maxIterations = 100
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, row := range rows {
			best := nearestCentroid(row, centroids)
			if best != assignments[i] || iter == 0 {
				if best != assignments[i] {
					changed = true
				}
				assignments[i] = best
			}
		}
		if iter > 0 && !changed {
			break
		}

		// Recompute centroids; an emptied cluster keeps its previous
		// position.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, row := range rows {
			c := assignments[i]
			counts[c]++
			for d, v := range row {
				sums[c][d] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for d := 0; d < dims; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}
	return assignments, centroids
}

// nearestCentroid returns the index of the closest centroid, lowest index
// winning ties.
func nearestCentroid(row []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		var dist float64
		for d, v := range row {
			diff := v - centroid[d]
			dist += diff * diff
		}
		if dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	return best
}
