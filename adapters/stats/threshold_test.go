package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	domstats "quantsig/domain/stats"
	apperrors "quantsig/internal/errors"
)

func TestOptimizeThresholds_HandWorkedCase(t *testing.T) {
	predictor := []float64{1, 2, 3, 4, 5}
	outcome := []float64{1, -1, 1, -1, 1}

	res, err := OptimizeThresholds(predictor, outcome, 1, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(res.PFAll-1.5) > 1e-12 {
		t.Errorf("PFAll = %v, want 1.5", res.PFAll)
	}

	// The best long rule keeps only the top case (signal >= 5), which never
	// loses, so its profit factor is epsilon-bounded astronomical.
	if res.LongThreshold != 5 {
		t.Errorf("LongThreshold = %v, want 5", res.LongThreshold)
	}
	if !res.LongProfitFactor().IsInfinite() {
		t.Errorf("long profit factor should classify as infinite, got %v", res.PFLong)
	}

	// The best short rule trades below 3: outcomes {1, -1} negated by the
	// short side give one unit won and one lost.
	if res.ShortThreshold != 3 {
		t.Errorf("ShortThreshold = %v, want 3", res.ShortThreshold)
	}
	if math.Abs(res.PFShort-1.0) > 1e-12 {
		t.Errorf("PFShort = %v, want 1.0", res.PFShort)
	}
}

func TestOptimizeThresholds_MinKeptConstrainsTheSearch(t *testing.T) {
	predictor := []float64{1, 2, 3, 4, 5}
	outcome := []float64{1, -1, 1, -1, 1}

	res, err := OptimizeThresholds(predictor, outcome, 2, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Keeping at least two cases rules out the lossless single-case rule;
	// the best remaining long split is signal >= 3 with wins {1,1} against
	// the single loss {-1}.
	if res.LongThreshold != 3 {
		t.Errorf("LongThreshold = %v, want 3", res.LongThreshold)
	}
	if math.Abs(res.PFLong-2.0) > 1e-12 {
		t.Errorf("PFLong = %v, want 2.0", res.PFLong)
	}
}

func TestOptimizeThresholds_LongSideNeverBelowGrandPF(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		n := 50 + rng.Intn(200)
		predictor := make([]float64, n)
		outcome := make([]float64, n)
		for i := range predictor {
			predictor[i] = rng.NormFloat64()
			outcome[i] = rng.NormFloat64()
		}
		res, err := OptimizeThresholds(predictor, outcome, 1, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Trading everything long is always a candidate, so the long side can
		// never do worse than the grand profit factor.
		if res.PFLong < res.PFAll {
			t.Fatalf("PFLong %v < PFAll %v", res.PFLong, res.PFAll)
		}
	}
}

func TestOptimizeThresholds_TiedSignalValuesShareOneBoundary(t *testing.T) {
	// All predictor values identical: no genuine boundary exists, so the long
	// side stays at the whole-set baseline and the short side keeps its
	// sentinel defaults.
	predictor := []float64{2, 2, 2, 2}
	outcome := []float64{1, -1, 2, -2}

	res, err := OptimizeThresholds(predictor, outcome, 1, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.PFLong-res.PFAll) > 1e-12 {
		t.Errorf("PFLong = %v, want baseline %v", res.PFLong, res.PFAll)
	}
	if res.PFShort != -1.0 {
		t.Errorf("PFShort = %v, want -1 sentinel", res.PFShort)
	}
}

func TestOptimizeThresholds_InputValidation(t *testing.T) {
	cases := []struct {
		name      string
		predictor []float64
		outcome   []float64
		minKept   int
	}{
		{"empty predictor", nil, nil, 1},
		{"length mismatch", []float64{1, 2}, []float64{1}, 1},
		{"minKept zero", []float64{1, 2}, []float64{1, -1}, 0},
		{"minKept beyond n", []float64{1, 2}, []float64{1, -1}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := OptimizeThresholds(tc.predictor, tc.outcome, tc.minKept, false)
			if err == nil {
				t.Fatal("expected an error")
			}
			if apperrors.GetCode(err) != apperrors.CodeInvalidInput {
				t.Errorf("error code = %q, want %q", apperrors.GetCode(err), apperrors.CodeInvalidInput)
			}
		})
	}
}

func TestOptimizeThresholds_DoesNotMutateInputs(t *testing.T) {
	predictor := []float64{3, 1, 2}
	outcome := []float64{-1, 1, 0.5}
	wantPred := append([]float64(nil), predictor...)
	wantOut := append([]float64(nil), outcome...)

	if _, err := OptimizeThresholds(predictor, outcome, 1, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range predictor {
		if predictor[i] != wantPred[i] || outcome[i] != wantOut[i] {
			t.Fatal("inputs were mutated")
		}
	}
}

func TestMinKeptFromPercent(t *testing.T) {
	got, err := MinKeptFromPercent(10, 250)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 25 {
		t.Errorf("MinKeptFromPercent(10, 250) = %d, want 25", got)
	}

	// Floors at one retained case.
	got, err = MinKeptFromPercent(0, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1 {
		t.Errorf("MinKeptFromPercent(0, 100) = %d, want 1", got)
	}

	if _, err := MinKeptFromPercent(101, 100); err == nil {
		t.Error("expected an error for percent > 100")
	}
	if _, err := MinKeptFromPercent(-1, 100); err == nil {
		t.Error("expected an error for negative percent")
	}
}

func TestOptimizeThresholds_RelaxingMinKeptNeverHurts_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	properties.Property("smaller minKept never lowers the best profit factor", prop.ForAll(
		func(seed int64, n int, minKept int) bool {
			rng := rand.New(rand.NewSource(seed))
			predictor := make([]float64, n)
			outcome := make([]float64, n)
			for i := range predictor {
				predictor[i] = rng.NormFloat64()
				outcome[i] = rng.NormFloat64()
			}
			tight, err := OptimizeThresholds(predictor, outcome, minKept, false)
			if err != nil {
				return false
			}
			loose, err := OptimizeThresholds(predictor, outcome, 1, false)
			if err != nil {
				return false
			}
			return loose.BestProfitFactor() >= tight.BestProfitFactor()
		},
		gen.Int64(),
		gen.IntRange(10, 120),
		gen.IntRange(2, 10),
	))

	properties.TestingRun(t)
}

func TestProfitFactorClassification(t *testing.T) {
	if !domstats.PFFromEpsilonBounded(1e25).IsInfinite() {
		t.Error("epsilon-bounded 1e25 should classify as infinite")
	}
	if domstats.PFFromEpsilonBounded(3.2).IsInfinite() {
		t.Error("3.2 should stay finite")
	}
	if got := domstats.FinitePF(1.5).String(); got != "1.5000" {
		t.Errorf("String() = %q, want %q", got, "1.5000")
	}
	if got := domstats.InfinitePF().String(); got != "inf" {
		t.Errorf("String() = %q, want %q", got, "inf")
	}
}
