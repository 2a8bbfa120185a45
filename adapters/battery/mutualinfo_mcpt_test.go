package battery

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"testing"

	"quantsig/internal/testkit"
)

func TestMutualInformationTest_DependentPairScoresSmallPValue(t *testing.T) {
	r := rand.New(rand.NewSource(21))
	n := 1000
	feature := make([]float64, n)
	target := make([]float64, n)
	for i := 0; i < n; i++ {
		feature[i] = r.NormFloat64()
		target[i] = feature[i] + 0.3*r.NormFloat64()
	}

	engine := newTestEngine(11)
	score, err := engine.MutualInformationTest(context.Background(), "osc", feature, "fwd", target, MITestParams{
		NBinsFeature: 5,
		NBinsTarget:  5,
		Permutations: 100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if score.Indicator != "osc" || score.Target != "fwd" {
		t.Errorf("names not carried through: %+v", score)
	}
	if score.MI <= 0 {
		t.Errorf("MI = %v, want positive for a dependent pair", score.MI)
	}
	if score.SoloPValue > 0.05 {
		t.Errorf("SoloPValue = %v, want small", score.SoloPValue)
	}
	// The +1/+1 correction keeps the unbiased estimate strictly positive.
	if score.UnbiasedPValue <= 0 || score.UnbiasedPValue > 0.05 {
		t.Errorf("UnbiasedPValue = %v, want in (0, 0.05]", score.UnbiasedPValue)
	}
}

func TestMutualInformationTest_IndependentPairScoresLargePValue(t *testing.T) {
	r := rand.New(rand.NewSource(27))
	feature, target := testkit.IndependentUniform(r, 800)

	engine := newTestEngine(11)
	score, err := engine.MutualInformationTest(context.Background(), "noise", feature, "fwd", target, MITestParams{
		NBinsFeature: 3,
		NBinsTarget:  3,
		Permutations: 100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.SoloPValue < 0.01 {
		t.Errorf("SoloPValue = %v, implausibly small for independent series", score.SoloPValue)
	}
}

func TestMutualInformationTest_ZeroPermutations(t *testing.T) {
	r := rand.New(rand.NewSource(33))
	feature, target := testkit.IndependentUniform(r, 100)

	engine := newTestEngine(11)
	score, err := engine.MutualInformationTest(context.Background(), "a", feature, "b", target, MITestParams{
		NBinsFeature: 3,
		NBinsTarget:  3,
		Permutations: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(score.SoloPValue) {
		t.Errorf("SoloPValue = %v, want NaN with no permutations", score.SoloPValue)
	}
	if _, err := engine.MutualInformationTest(context.Background(), "a", feature, "b", target, MITestParams{
		NBinsFeature: 3,
		NBinsTarget:  3,
		Permutations: -5,
	}); err == nil {
		t.Error("expected an error for negative permutations")
	}
}

func TestCyclicPermutations_PreserveTheMultiset(t *testing.T) {
	r := rand.New(rand.NewSource(41))
	target := make([]float64, 50)
	for i := range target {
		target[i] = r.NormFloat64()
	}
	want := append([]float64(nil), target...)
	sort.Float64s(want)

	rows := CyclicPermutations(r, target, 20)
	if len(rows) != 20 {
		t.Fatalf("got %d rows, want 20", len(rows))
	}
	for _, row := range rows {
		got := append([]float64(nil), row...)
		sort.Float64s(got)
		for i := range got {
			if got[i] != want[i] {
				t.Fatal("rotation changed the multiset of values")
			}
		}
	}
}

func TestCyclicPermutations_AreRotations(t *testing.T) {
	target := []float64{10, 20, 30, 40, 50}
	r := rand.New(rand.NewSource(43))

	rows := CyclicPermutations(r, target, 30)
	for _, row := range rows {
		// Find where the first input element landed; every other element must
		// follow at the same circular offset.
		shift := -1
		for i, v := range row {
			if v == target[0] {
				shift = i
				break
			}
		}
		if shift == -1 {
			t.Fatal("first element missing from rotation")
		}
		for i, v := range target {
			if row[(shift+i)%len(target)] != v {
				t.Fatalf("row %v is not a rotation of %v", row, target)
			}
		}
	}
}
