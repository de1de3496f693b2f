package simulation

import "math"

const (
	irrInitialGuess  = 0.1
	irrMaxIterations = 1000
	irrTolerance     = 1e-7
)

// IRR finds the monthly rate r with Σ cf_t/(1+r)^t = 0 over the cashflow
// sequence (index = month offset, negative = money in, positive = money out)
// via Newton-Raphson and returns it annualized as (1+r)^12 - 1.
//
// Failure is a value, not an error: the result is NaN when the slope
// degenerates, the iterate leaves the plausible range (-0.9999, 10), or the
// iteration budget runs out. Callers must check with math.IsNaN.
func IRR(cashflows []float64) float64 {
	rate := irrInitialGuess
	for iter := 0; iter < irrMaxIterations; iter++ {
		var npv, slope float64
		for t, cf := range cashflows {
			npv += cf / math.Pow(1+rate, float64(t))
			slope -= float64(t) * cf / math.Pow(1+rate, float64(t+1))
		}
		if math.Abs(npv) < irrTolerance {
			return math.Pow(1+rate, 12) - 1
		}
		if math.Abs(slope) < irrTolerance {
			return math.NaN()
		}
		rate -= npv / slope
		if rate < -0.9999 || rate > 10 {
			return math.NaN()
		}
	}
	return math.NaN()
}
