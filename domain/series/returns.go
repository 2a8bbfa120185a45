package series

import (
	"fmt"
	"math"
)

// SimpleReturns computes single- or multi-period simple returns from a price
// series: R_t = (S_t - S_{t-periods}) / S_{t-periods}. The first `periods`
// elements are NaN; strip them before handing the series to the core.
func SimpleReturns(prices []float64, periods int) ([]float64, error) {
	if periods < 1 {
		return nil, fmt.Errorf("periods must be >= 1, got %d", periods)
	}
	if len(prices) <= periods {
		return nil, fmt.Errorf("prices length %d must be > periods %d", len(prices), periods)
	}
	out := make([]float64, len(prices))
	for i := 0; i < periods; i++ {
		out[i] = math.NaN()
	}
	for i := periods; i < len(prices); i++ {
		out[i] = prices[i]/prices[i-periods] - 1.0
	}
	return out, nil
}

// LogReturns computes logarithmic returns: r_t = log(S_t / S_{t-periods}).
// All prices must be positive. The first `periods` elements are NaN.
func LogReturns(prices []float64, periods int) ([]float64, error) {
	if periods < 1 {
		return nil, fmt.Errorf("periods must be >= 1, got %d", periods)
	}
	if len(prices) <= periods {
		return nil, fmt.Errorf("prices length %d must be > periods %d", len(prices), periods)
	}
	for i, p := range prices {
		if p <= 0 {
			return nil, fmt.Errorf("price at index %d is %v; all prices must be positive for log returns", i, p)
		}
	}
	out := make([]float64, len(prices))
	for i := 0; i < periods; i++ {
		out[i] = math.NaN()
	}
	for i := periods; i < len(prices); i++ {
		out[i] = math.Log(prices[i] / prices[i-periods])
	}
	return out, nil
}

// MultiPeriodSimpleReturns compounds single-period simple returns over a
// rolling window: R_t(tau) = prod(1 + R_{t-i}) - 1. Windows containing NaN
// produce NaN.
func MultiPeriodSimpleReturns(returns []float64, periods int) ([]float64, error) {
	if periods < 1 {
		return nil, fmt.Errorf("periods must be >= 1, got %d", periods)
	}
	if len(returns) < periods {
		return nil, fmt.Errorf("returns length %d must be >= periods %d", len(returns), periods)
	}
	out := make([]float64, len(returns))
	for i := 0; i < periods-1; i++ {
		out[i] = math.NaN()
	}
	for i := periods - 1; i < len(returns); i++ {
		prod := 1.0
		valid := true
		for j := i - periods + 1; j <= i; j++ {
			if math.IsNaN(returns[j]) {
				valid = false
				break
			}
			prod *= 1.0 + returns[j]
		}
		if valid {
			out[i] = prod - 1.0
		} else {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

// MultiPeriodLogReturns compounds single-period log returns over a rolling
// window by summation. Windows containing NaN produce NaN.
func MultiPeriodLogReturns(returns []float64, periods int) ([]float64, error) {
	if periods < 1 {
		return nil, fmt.Errorf("periods must be >= 1, got %d", periods)
	}
	if len(returns) < periods {
		return nil, fmt.Errorf("returns length %d must be >= periods %d", len(returns), periods)
	}
	out := make([]float64, len(returns))
	for i := 0; i < periods-1; i++ {
		out[i] = math.NaN()
	}
	for i := periods - 1; i < len(returns); i++ {
		sum := 0.0
		valid := true
		for j := i - periods + 1; j <= i; j++ {
			if math.IsNaN(returns[j]) {
				valid = false
				break
			}
			sum += returns[j]
		}
		if valid {
			out[i] = sum
		} else {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

// DropLeadingNaN strips the NaN warmup prefix a return calculation leaves
// behind, returning the finite suffix.
func DropLeadingNaN(values []float64) []float64 {
	i := 0
	for i < len(values) && math.IsNaN(values[i]) {
		i++
	}
	return values[i:]
}
