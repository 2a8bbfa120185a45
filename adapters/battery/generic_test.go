package battery

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"quantsig/internal/testkit"
)

// sampleCovariance is a deliberately simple statistic for exercising the
// generic permutation harness.
func sampleCovariance(signal, outcome []float64) float64 {
	n := float64(len(signal))
	var sumS, sumO, sumSO float64
	for i := range signal {
		sumS += signal[i]
		sumO += outcome[i]
		sumSO += signal[i] * outcome[i]
	}
	return sumSO/n - (sumS/n)*(sumO/n)
}

func TestPermutationPValue_DetectsDependence(t *testing.T) {
	r := rand.New(rand.NewSource(91))
	signal, outcome := testkit.PredictiveSeries(r, 500, 1.5)

	engine := newTestEngine(19)
	baseline, pvalue, err := engine.PermutationPValue(context.Background(), "cov-mcpt", sampleCovariance, signal, outcome, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if baseline <= 0 {
		t.Errorf("baseline covariance = %v, want positive", baseline)
	}
	if pvalue > 0.05 {
		t.Errorf("p-value = %v, want small for a dependent pair", pvalue)
	}
}

func TestPermutationPValue_NullCaseAndEdges(t *testing.T) {
	r := rand.New(rand.NewSource(93))
	signal, outcome := testkit.PredictiveSeries(r, 400, 0)

	engine := newTestEngine(19)
	_, pvalue, err := engine.PermutationPValue(context.Background(), "cov-mcpt", sampleCovariance, signal, outcome, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pvalue < 0.01 {
		t.Errorf("p-value = %v, implausibly small for independent series", pvalue)
	}

	_, pvalue, err = engine.PermutationPValue(context.Background(), "cov-mcpt", sampleCovariance, signal, outcome, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(pvalue) {
		t.Errorf("p-value = %v, want NaN with no permutations", pvalue)
	}

	if _, _, err := engine.PermutationPValue(context.Background(), "cov-mcpt", sampleCovariance, signal, outcome, -1); err == nil {
		t.Error("expected an error for negative permutations")
	}
	if _, _, err := engine.PermutationPValue(context.Background(), "cov-mcpt", sampleCovariance, signal, outcome[:10], 10); err == nil {
		t.Error("expected an error for mismatched lengths")
	}
}
