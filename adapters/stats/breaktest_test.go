package stats

import (
	"math"
	"math/rand"
	"testing"
)

func TestSerialBreak_FindsPlantedMeanShift(t *testing.T) {
	rng := rand.New(rand.NewSource(101))
	n := 200
	breakAt := 30
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = rng.NormFloat64()
		if i < breakAt {
			values[i] += 3.0
		}
	}

	res, err := SerialBreak(values, 10, 60, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MaxZ < 3 {
		t.Errorf("MaxZ = %v, want > 3 for a 3-sigma planted shift", res.MaxZ)
	}
	if res.Breakpoint < breakAt-3 || res.Breakpoint > breakAt+3 {
		t.Errorf("Breakpoint = %d, want near %d", res.Breakpoint, breakAt)
	}
}

func TestSerialBreak_StationarySeriesStaysModest(t *testing.T) {
	rng := rand.New(rand.NewSource(55))
	n := 300
	values := make([]float64, n)
	for i := range values {
		values[i] = rng.NormFloat64()
	}

	res, err := SerialBreak(values, 20, 100, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Max over ~80 scanned boundaries of a stationary series: elevated by the
	// selection, but nowhere near a genuine break.
	if res.MaxZ > 4.5 {
		t.Errorf("MaxZ = %v, implausibly large for a stationary series", res.MaxZ)
	}
	if res.Breakpoint < 20 || res.Breakpoint > 100 {
		t.Errorf("Breakpoint = %d outside the scanned range", res.Breakpoint)
	}
}

func TestSerialBreak_LagStepsThePhaseOffsets(t *testing.T) {
	rng := rand.New(rand.NewSource(77))
	n := 240
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = rng.NormFloat64()
		if i < 40 {
			values[i] += 2.5
		}
	}

	res, err := SerialBreak(values, 12, 72, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.IsInf(res.MaxZ, -1) || res.Breakpoint == -1 {
		t.Fatal("scan found no qualifying boundary")
	}
	if res.MaxZ < 3 {
		t.Errorf("MaxZ = %v, want the shift detected despite lag stepping", res.MaxZ)
	}
}

func TestSerialBreak_InputValidation(t *testing.T) {
	ok := []float64{1, 2, 3, 4, 5}
	if _, err := SerialBreak([]float64{1}, 1, 1, 1); err == nil {
		t.Error("expected an error for fewer than 2 cases")
	}
	if _, err := SerialBreak(ok, 1, 3, 0); err == nil {
		t.Error("expected an error for lag < 1")
	}
	if _, err := SerialBreak(ok, 0, 3, 1); err == nil {
		t.Error("expected an error for minRecent < 1")
	}
	if _, err := SerialBreak(ok, 3, 2, 1); err == nil {
		t.Error("expected an error for minRecent > maxRecent")
	}
}
