package stats

import (
	"math"
	"sort"

	apperrors "quantsig/internal/errors"
)

// probabilityFloor replaces zero probabilities before taking logs. It avoids
// log(0) at the cost of a small, consistent upward bias in sparse bins.
const probabilityFloor = 1e-10

// ContingencyTable holds joint and marginal bin counts for a feature/target
// pair, recomputed per call.
type ContingencyTable struct {
	Joint         [][]float64 // nbinsFeature x nbinsTarget
	FeatureCounts []float64
	TargetCounts  []float64
	Total         float64
}

// PopulateContingency bins both variables into equal-width partitions of
// their own [min, max] ranges and accumulates joint and marginal counts. Bin
// assignment uses right-inclusive search with index clamping so floating-point
// boundary effects at the maximum cannot push a sample out of range.
func PopulateContingency(feature, target []float64, nbinsFeature, nbinsTarget int) (*ContingencyTable, error) {
	n := len(feature)
	if n == 0 {
		return nil, apperrors.InvalidInput("feature is empty")
	}
	if len(target) != n {
		return nil, apperrors.InvalidInputf("feature has %d cases, target has %d", n, len(target))
	}
	if nbinsFeature < 1 || nbinsTarget < 1 {
		return nil, apperrors.InvalidInputf(
			"bin counts must be >= 1, got %d and %d", nbinsFeature, nbinsTarget)
	}

	edgesFeature := linearEdges(feature, nbinsFeature)
	edgesTarget := linearEdges(target, nbinsTarget)

	table := &ContingencyTable{
		Joint:         make([][]float64, nbinsFeature),
		FeatureCounts: make([]float64, nbinsFeature),
		TargetCounts:  make([]float64, nbinsTarget),
		Total:         float64(n),
	}
	for i := range table.Joint {
		table.Joint[i] = make([]float64, nbinsTarget)
	}

	for i := 0; i < n; i++ {
		fi := binIndex(edgesFeature, feature[i], nbinsFeature)
		ti := binIndex(edgesTarget, target[i], nbinsTarget)
		table.FeatureCounts[fi]++
		table.TargetCounts[ti]++
		table.Joint[fi][ti]++
	}
	return table, nil
}

// MutualInformation estimates I(feature; target) in nats over an equal-width
// contingency binning: MI = sum p(i,j) * log(p(i,j) / (p(i) p(j))).
func MutualInformation(feature, target []float64, nbinsFeature, nbinsTarget int) (float64, error) {
	table, err := PopulateContingency(feature, target, nbinsFeature, nbinsTarget)
	if err != nil {
		return 0, err
	}

	mi := 0.0
	for i := 0; i < nbinsFeature; i++ {
		pFeature := table.FeatureCounts[i] / table.Total
		for j := 0; j < nbinsTarget; j++ {
			pJoint := table.Joint[i][j] / table.Total
			if pJoint <= 0 {
				pJoint = probabilityFloor
			}
			denom := pFeature * (table.TargetCounts[j] / table.Total)
			if denom <= 0 {
				denom = probabilityFloor
			}
			mi += pJoint * math.Log(pJoint/denom)
		}
	}
	return mi, nil
}

// linearEdges partitions [min, max] into nbins equal-width bins, returning the
// nbins+1 edge values.
func linearEdges(values []float64, nbins int) []float64 {
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	edges := make([]float64, nbins+1)
	if nbins == 0 {
		return edges
	}
	step := (hi - lo) / float64(nbins)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	edges[nbins] = hi
	return edges
}

// binIndex finds the right-inclusive bin of v: the last edge <= v, clamped
// into [0, nbins-1].
func binIndex(edges []float64, v float64, nbins int) int {
	// First edge strictly greater than v, minus one.
	idx := sort.Search(len(edges), func(i int) bool { return edges[i] > v }) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= nbins {
		idx = nbins - 1
	}
	return idx
}
