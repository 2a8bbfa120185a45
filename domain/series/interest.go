package series

import "math"

// SimpleInterest computes the future value under simple interest:
// A = P * (1 + r*t).
func SimpleInterest(principal, rate, years float64) float64 {
	return principal * (1 + rate*years)
}

// DiscreteCompoundInterest computes the future value under periodic
// compounding with freq periods per year: A = P * (1 + r/m)^(m*t).
func DiscreteCompoundInterest(principal, rate, years float64, freq int) float64 {
	m := float64(freq)
	return principal * math.Pow(1+rate/m, m*years)
}

// ContinuousCompoundInterest computes the future value under continuous
// compounding: A = P * e^(r*t).
func ContinuousCompoundInterest(principal, rate, years float64) float64 {
	return principal * math.Exp(rate*years)
}
