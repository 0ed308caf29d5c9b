package schema

// TransformParams holds the fitted Box-Cox power transform parameters.
// Shift is chosen so that value - Shift + 1 > 0 for every training point;
// Lambda is the power exponent selected by profile log-likelihood. Params are
// fitted once on the training series and reused to invert forecasts, never
// refit on test data.
type TransformParams struct {
	Lambda float64 `json:"lambda"`
	Shift  float64 `json:"shift"`
}

// LambdaCandidate is one evaluated point of the profile log-likelihood grid.
type LambdaCandidate struct {
	Lambda float64 `json:"lambda"`
	LogLik float64 `json:"log_lik"`
}

// TransformReport summarizes a transform fit for presentation: the chosen
// params plus the grid neighborhood around the argmax.
type TransformReport struct {
	Params TransformParams   `json:"params"`
	Grid   []LambdaCandidate `json:"grid"`
}
