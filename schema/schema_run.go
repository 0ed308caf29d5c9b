package schema

import "time"

// RunRecord is one tracked pipeline run for the run-history store. It holds
// run results only (orders, criteria and error metrics), never model
// coefficients, so stored runs cannot be reloaded as models.
type RunRecord struct {
	RunID      int64     `json:"run_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	TrainStart time.Time `json:"train_start"`
	TrainEnd   time.Time `json:"train_end"`
	TrainN     int       `json:"train_n"`

	Lambda       float64 `json:"lambda"`
	Shift        float64 `json:"shift"`
	IsStationary bool    `json:"is_stationary"`

	OrderP  int     `json:"order_p"`
	OrderD  int     `json:"order_d"`
	OrderQ  int     `json:"order_q"`
	AIC     float64 `json:"aic"`
	BIC     float64 `json:"bic"`
	Horizon int     `json:"horizon"`

	MAE  float64 `json:"mae"`
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"`
}

// RunStoreStatus is status information about the run-history store.
type RunStoreStatus struct {
	Backend  DatabaseBackend `json:"backend"`
	Location string          `json:"location"`
	RunCount int             `json:"run_count"`
	LastRun  time.Time       `json:"last_run"`
}
