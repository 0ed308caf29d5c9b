package core

import (
	"math"

	"github.com/delaycast/delaycast/schema"
)

// Fit tuning knobs. The iteration budget bounds the likelihood optimizer so a
// non-converging candidate terminates with NonConvergenceError instead of
// spinning.
const (
	fitMaxIter      = 500
	fitTolerance    = 1e-8
	fitLearningRate = 0.01
	coeffBound      = 0.99
)

// FitOptions bounds the order-selection grid.
type FitOptions struct {
	MaxP           int // cap on AR order candidates
	MaxQ           int // cap on MA order candidates
	SeasonalPeriod int // 0 disables seasonal terms
}

// DefaultFitOptions returns the default selection bounds.
func DefaultFitOptions() FitOptions {
	return FitOptions{
		MaxP: schema.DefaultMaxOrder,
		MaxQ: schema.DefaultMaxOrder,
	}
}

// SelectAndFit chooses the ARMA order for a stationary transformed series and
// fits it by maximum likelihood. The policy is reproducible rather than
// opaque: ACF/PACF significance (band +/- 1.96/sqrt(n), lags up to
// min(40, n/4)) bounds the candidate grid, every candidate on
// p in [0,pMax] x q in [0,qMax] is fitted, and the winner minimizes AIC with
// ties broken by fewer total terms, then smaller BIC. A configured seasonal
// period extends the grid with seasonal AR/MA orders in {0,1}. Candidates
// that fail to converge within the iteration budget are recorded and skipped;
// the fit is fatal only when no candidate converges.
func SelectAndFit(series *schema.Series, opts FitOptions) (*schema.FittedModel, *schema.SelectionReport, error) {
	values := series.Values
	n := len(values)
	maxLag := selectionMaxLag(n)

	acfResult := Correlogram(values, maxLag, false)
	pacfResult := Correlogram(values, maxLag, true)

	pMax := boundFromSignificance(pacfResult, opts.MaxP)
	qMax := boundFromSignificance(acfResult, opts.MaxQ)

	report := &schema.SelectionReport{
		MaxLag: maxLag,
		PMax:   pMax,
		QMax:   qMax,
	}
	if acfResult != nil {
		report.SignificantACF = acfResult.SignificantLags
	}
	if pacfResult != nil {
		report.SignificantPACF = pacfResult.SignificantLags
	}

	var best *schema.FittedModel
	var lastErr error

	for _, order := range candidateOrders(pMax, qMax, opts.SeasonalPeriod) {
		model, err := FitARMA(values, order)
		if err != nil {
			lastErr = err
			report.Candidates = append(report.Candidates, schema.CandidateFit{
				Order:     order,
				AIC:       math.Inf(1),
				BIC:       math.Inf(1),
				Converged: false,
			})
			continue
		}
		report.Candidates = append(report.Candidates, schema.CandidateFit{
			Order:     order,
			AIC:       model.AIC,
			BIC:       model.BIC,
			Converged: true,
		})
		if better(model, best) {
			best = model
		}
	}

	if best == nil {
		return nil, report, lastErr
	}
	report.Chosen = best.Order
	return best, report, nil
}

// candidateOrders enumerates the selection grid. A seasonal period adds
// seasonal AR/MA orders in {0,1} to every (p,q) cell.
func candidateOrders(pMax, qMax, seasonalPeriod int) []schema.ModelOrder {
	spMax, sqMax := 0, 0
	if seasonalPeriod > 0 {
		spMax, sqMax = 1, 1
	}

	var orders []schema.ModelOrder
	for p := 0; p <= pMax; p++ {
		for q := 0; q <= qMax; q++ {
			for sp := 0; sp <= spMax; sp++ {
				for sq := 0; sq <= sqMax; sq++ {
					orders = append(orders, schema.ModelOrder{
						P: p, D: 0, Q: q,
						SeasonalP:      sp,
						SeasonalQ:      sq,
						SeasonalPeriod: seasonalPeriod,
					})
				}
			}
		}
	}
	return orders
}

// boundFromSignificance derives a grid bound from the largest significant
// correlogram lag, capped so the grid stays tractable.
func boundFromSignificance(c *schema.CorrelogramResult, limit int) int {
	if limit <= 0 {
		limit = schema.DefaultMaxOrder
	}
	if c == nil || len(c.SignificantLags) == 0 {
		return 1
	}
	bound := c.SignificantLags[len(c.SignificantLags)-1]
	if bound > limit {
		bound = limit
	}
	return bound
}

// better reports whether a beats b under the selection policy: minimum AIC,
// ties by fewer total AR+MA terms (seasonal included), then smaller BIC.
func better(a, b *schema.FittedModel) bool {
	if b == nil {
		return true
	}
	const eps = 1e-9
	switch {
	case a.AIC < b.AIC-eps:
		return true
	case a.AIC > b.AIC+eps:
		return false
	}
	aSum := a.Order.P + a.Order.Q + a.Order.SeasonalP + a.Order.SeasonalQ
	bSum := b.Order.P + b.Order.Q + b.Order.SeasonalP + b.Order.SeasonalQ
	if aSum != bSum {
		return aSum < bSum
	}
	return a.BIC < b.BIC
}

// FitARMA fits an ARMA(p,q) model (d = 0, optional seasonal terms) to the
// given values by maximizing the Gaussian conditional likelihood. AR
// coefficients start from Yule-Walker estimates, MA coefficients from small
// values, and both are refined by bounded gradient iterations on the
// conditional sum of squares. Coefficients are clamped inside the unit
// interval to keep the solution stable and invertible.
func FitARMA(values []float64, order schema.ModelOrder) (*schema.FittedModel, error) {
	n := len(values)
	p, q := order.P, order.Q
	sp, sq, period := order.SeasonalP, order.SeasonalQ, 0
	if order.SeasonalPeriod > 0 && (sp > 0 || sq > 0) {
		period = order.SeasonalPeriod
	} else {
		sp, sq = 0, 0
	}

	minLen := p + q + sp*period + sq*period + 10
	if n < minLen {
		return nil, &NonConvergenceError{P: p, Q: q, Iterations: 0}
	}

	model := &schema.FittedModel{
		Order:     order,
		ARCoeffs:  make([]float64, p),
		MACoeffs:  make([]float64, q),
		SARCoeffs: make([]float64, sp),
		SMACoeffs: make([]float64, sq),
		Intercept: mean(values),
	}

	if p == 0 && q == 0 && sp == 0 && sq == 0 {
		fitWhiteNoise(model, values)
		return model, nil
	}

	if p > 0 {
		if acf := ACF(values, p); acf != nil {
			if phi := yuleWalker(acf, p); phi != nil {
				copy(model.ARCoeffs, clampAll(phi))
			}
		}
	}
	for i := range model.MACoeffs {
		model.MACoeffs[i] = 0.1
	}
	for i := range model.SARCoeffs {
		model.SARCoeffs[i] = 0.1
	}
	for i := range model.SMACoeffs {
		model.SMACoeffs[i] = 0.1
	}

	iterations, converged := optimizeCSS(model, values, period)
	model.Iterations = iterations
	if !converged {
		return nil, &NonConvergenceError{P: p, Q: q, Iterations: iterations}
	}

	finalizeFit(model, values, period)
	return model, nil
}

// fitWhiteNoise handles the degenerate ARMA(0,0) candidate: intercept-only
// model with residuals equal to the centered values.
func fitWhiteNoise(model *schema.FittedModel, values []float64) {
	n := len(values)
	model.Residuals = make([]float64, n)
	for i, v := range values {
		model.Residuals[i] = v - model.Intercept
	}
	model.Variance = variance(values)
	model.TrainValues = append([]float64(nil), values...)
	computeCriteria(model)
}

// predictAt evaluates the one-step ARMA prediction at index t given the
// observed values and running residuals.
func predictAt(model *schema.FittedModel, values, residuals []float64, t, period int) float64 {
	pred := model.Intercept
	for i, phi := range model.ARCoeffs {
		if idx := t - i - 1; idx >= 0 {
			pred += phi * (values[idx] - model.Intercept)
		}
	}
	for i, theta := range model.MACoeffs {
		if idx := t - i - 1; idx >= 0 {
			pred += theta * residuals[idx]
		}
	}
	if period > 0 {
		for i, phi := range model.SARCoeffs {
			if idx := t - (i+1)*period; idx >= 0 {
				pred += phi * (values[idx] - model.Intercept)
			}
		}
		for i, theta := range model.SMACoeffs {
			if idx := t - (i+1)*period; idx >= 0 {
				pred += theta * residuals[idx]
			}
		}
	}
	return pred
}

// startIndex is the first index with a full lag window.
func startIndex(model *schema.FittedModel, period int) int {
	start := model.Order.P
	if model.Order.Q > start {
		start = model.Order.Q
	}
	if period > 0 {
		if s := model.Order.SeasonalP * period; s > start {
			start = s
		}
		if s := model.Order.SeasonalQ * period; s > start {
			start = s
		}
	}
	return start
}

// optimizeCSS refines the coefficients by gradient steps on the conditional
// sum of squares. Returns the iterations consumed and whether the objective
// change fell below tolerance within the budget.
func optimizeCSS(model *schema.FittedModel, values []float64, period int) (int, bool) {
	n := len(values)
	start := startIndex(model, period)
	if start >= n-5 {
		return 0, false
	}

	prevSSE := math.Inf(1)
	for iter := 1; iter <= fitMaxIter; iter++ {
		residuals := make([]float64, n)
		sse := 0.0
		for t := start; t < n; t++ {
			residuals[t] = values[t] - predictAt(model, values, residuals, t, period)
			sse += residuals[t] * residuals[t]
		}

		if math.Abs(prevSSE-sse) < fitTolerance*(1+sse) {
			return iter, true
		}
		prevSSE = sse

		arGrad := make([]float64, len(model.ARCoeffs))
		maGrad := make([]float64, len(model.MACoeffs))
		sarGrad := make([]float64, len(model.SARCoeffs))
		smaGrad := make([]float64, len(model.SMACoeffs))

		for t := start; t < n; t++ {
			for i := range arGrad {
				if idx := t - i - 1; idx >= 0 {
					arGrad[i] -= 2 * residuals[t] * (values[idx] - model.Intercept)
				}
			}
			for i := range maGrad {
				if idx := t - i - 1; idx >= 0 {
					maGrad[i] -= 2 * residuals[t] * residuals[idx]
				}
			}
			if period > 0 {
				for i := range sarGrad {
					if idx := t - (i+1)*period; idx >= 0 {
						sarGrad[i] -= 2 * residuals[t] * (values[idx] - model.Intercept)
					}
				}
				for i := range smaGrad {
					if idx := t - (i+1)*period; idx >= 0 {
						smaGrad[i] -= 2 * residuals[t] * residuals[idx]
					}
				}
			}
		}

		nf := float64(n - start)
		for i := range model.ARCoeffs {
			model.ARCoeffs[i] = clamp(model.ARCoeffs[i] - fitLearningRate*arGrad[i]/nf)
		}
		for i := range model.MACoeffs {
			model.MACoeffs[i] = clamp(model.MACoeffs[i] - fitLearningRate*maGrad[i]/nf)
		}
		for i := range model.SARCoeffs {
			model.SARCoeffs[i] = clamp(model.SARCoeffs[i] - fitLearningRate*sarGrad[i]/nf)
		}
		for i := range model.SMACoeffs {
			model.SMACoeffs[i] = clamp(model.SMACoeffs[i] - fitLearningRate*smaGrad[i]/nf)
		}
	}

	return fitMaxIter, false
}

// finalizeFit computes the final residual sequence, residual variance and
// information criteria for the converged coefficients.
func finalizeFit(model *schema.FittedModel, values []float64, period int) {
	n := len(values)
	start := startIndex(model, period)

	model.Residuals = make([]float64, n)
	for t := 0; t < n; t++ {
		if t < start {
			model.Residuals[t] = values[t] - model.Intercept
			continue
		}
		model.Residuals[t] = values[t] - predictAt(model, values, model.Residuals, t, period)
	}

	sse := 0.0
	count := 0
	for t := start; t < n; t++ {
		sse += model.Residuals[t] * model.Residuals[t]
		count++
	}
	params := model.Order.NumParams()
	if count > params {
		model.Variance = sse / float64(count-params)
	} else if count > 0 {
		model.Variance = sse / float64(count)
	}

	model.TrainValues = append([]float64(nil), values...)
	computeCriteria(model)
}

// computeCriteria fills in the Gaussian log-likelihood, AIC and BIC.
func computeCriteria(model *schema.FittedModel) {
	n := len(model.Residuals)
	k := float64(model.Order.NumParams())

	sse := 0.0
	for _, r := range model.Residuals {
		sse += r * r
	}

	if model.Variance > 0 {
		nf := float64(n)
		model.LogLik = -nf/2*math.Log(2*math.Pi) - nf/2*math.Log(model.Variance) - sse/(2*model.Variance)
	} else {
		model.LogLik = math.Inf(-1)
	}

	model.AIC = -2*model.LogLik + 2*k
	model.BIC = -2*model.LogLik + k*math.Log(float64(n))
}

// yuleWalker solves the Yule-Walker equations for initial AR estimates via
// the Levinson-Durbin recursion.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		if v == 0 {
			break
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
		if v <= 0 {
			break
		}
	}
	return phi
}

func clamp(v float64) float64 {
	return math.Max(-coeffBound, math.Min(coeffBound, v))
}

func clampAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = clamp(v)
	}
	return out
}
