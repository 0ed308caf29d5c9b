package core

import "fmt"

// EmptySeriesError reports that no valid observations remained after
// filtering. Unrecoverable for the run.
type EmptySeriesError struct {
	Stage string
}

func (e *EmptySeriesError) Error() string {
	return fmt.Sprintf("%s: no valid observations after filtering", e.Stage)
}

// InvalidDomainError reports a value outside the valid domain of the power
// transform, instead of letting a NaN propagate silently.
type InvalidDomainError struct {
	Index int
	Value float64
	Shift float64
}

func (e *InvalidDomainError) Error() string {
	return fmt.Sprintf("transform: value %g at index %d has %g - shift + 1 <= 0 (shift=%g)",
		e.Value, e.Index, e.Value, e.Shift)
}

// NonConvergenceError reports that the likelihood optimization for one
// candidate order did not converge within the iteration budget. Recoverable
// during selection by falling back to the next-best candidate; fatal only
// when no candidate converges.
type NonConvergenceError struct {
	P, Q       int
	Iterations int
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("fit: ARMA(%d,%d) did not converge within %d iterations", e.P, e.Q, e.Iterations)
}

// LengthMismatchError reports a forecast/ground-truth length mismatch in the
// scorer.
type LengthMismatchError struct {
	ForecastLen int
	TruthLen    int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("score: forecast has %d points but ground truth has %d", e.ForecastLen, e.TruthLen)
}
