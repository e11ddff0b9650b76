package learn

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/patchline/passforge/internal/model"
)

// Clustering refit parameters. The model is refit from the complete history
// every refitInterval records; restart count and iteration cap bound the
// work per refit.
const (
	refitInterval = 20
	kmeansRestart = 10
	kmeansMaxIter = 100
)

var errTooFewSamples = errors.New("not enough samples to fit clusters")

// clusterModel is a standardized feature-space partition fit by k-means.
// It is owned exclusively by the pattern store; consumers never read
// centroids directly.
type clusterModel struct {
	means     []float64
	stds      []float64
	centroids [][]float64
}

// clusterCount derives k from the history size: one cluster per five
// records, clamped to [2, 10].
func clusterCount(n int) int {
	k := n / 5
	if k < 2 {
		k = 2
	}
	if k > 10 {
		k = 10
	}
	return k
}

// fitClusters standardizes the vectors and fits k-means with restarts,
// keeping the partition with the lowest inertia.
func fitClusters(vectors []model.FeatureVector, k int, rng *rand.Rand) (*clusterModel, error) {
	if len(vectors) < k {
		return nil, fmt.Errorf("%w: have %d, need %d", errTooFewSamples, len(vectors), k)
	}
	dim := len(vectors[0])
	for _, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("inconsistent feature dimensions: %d vs %d", len(v), dim)
		}
	}

	means, stds := standardizeParams(vectors, dim)
	points := make([][]float64, len(vectors))
	for i, v := range vectors {
		points[i] = standardize(v, means, stds)
	}

	var best [][]float64
	bestInertia := math.Inf(1)
	for restart := 0; restart < kmeansRestart; restart++ {
		centroids, inertia := kmeansOnce(points, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			best = centroids
		}
	}

	return &clusterModel{means: means, stds: stds, centroids: best}, nil
}

func (m *clusterModel) clusters() int {
	return len(m.centroids)
}

// kmeansOnce runs Lloyd's algorithm from one random initialization and
// returns the centroids with their total inertia.
func kmeansOnce(points [][]float64, k int, rng *rand.Rand) ([][]float64, float64) {
	dim := len(points[0])

	// Initialize centroids from k distinct points.
	perm := rng.Perm(len(points))
	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), points[perm[i]]...)
	}

	assignments := make([]int, len(points))
	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, p := range points {
			nearest := 0
			nearestDist := math.Inf(1)
			for j, c := range centroids {
				if d := squaredDistance(p, c); d < nearestDist {
					nearestDist = d
					nearest = j
				}
			}
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make([]float64, dim)
		}
		for i, p := range points {
			c := assignments[i]
			counts[c]++
			for d := 0; d < dim; d++ {
				sums[c][d] += p[d]
			}
		}
		for i := range centroids {
			if counts[i] == 0 {
				// Re-seed an empty cluster from a random point.
				centroids[i] = append([]float64(nil), points[rng.Intn(len(points))]...)
				continue
			}
			for d := 0; d < dim; d++ {
				centroids[i][d] = sums[i][d] / float64(counts[i])
			}
		}
	}

	inertia := 0.0
	for i, p := range points {
		inertia += squaredDistance(p, centroids[assignments[i]])
	}
	return centroids, inertia
}

func standardizeParams(vectors []model.FeatureVector, dim int) (means, stds []float64) {
	means = make([]float64, dim)
	stds = make([]float64, dim)
	n := float64(len(vectors))

	for _, v := range vectors {
		for d := 0; d < dim; d++ {
			means[d] += v[d]
		}
	}
	for d := 0; d < dim; d++ {
		means[d] /= n
	}
	for _, v := range vectors {
		for d := 0; d < dim; d++ {
			diff := v[d] - means[d]
			stds[d] += diff * diff
		}
	}
	for d := 0; d < dim; d++ {
		stds[d] = math.Sqrt(stds[d] / n)
		if stds[d] == 0 {
			stds[d] = 1
		}
	}
	return means, stds
}

func standardize(v model.FeatureVector, means, stds []float64) []float64 {
	out := make([]float64, len(v))
	for d := range v {
		out[d] = (v[d] - means[d]) / stds[d]
	}
	return out
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}
