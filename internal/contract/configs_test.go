package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaycast/delaycast/schema"
)

// validRawInput returns raw input with every field at a valid default.
func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		TrainPathStr: "train.csv",
		Precision:    DefaultPrecision,
		Output:       "text",
		Color:        "yes",
		StoreBackend: "sqlite",
		MaxP:         schema.DefaultMaxOrder,
		MaxQ:         schema.DefaultMaxOrder,
	}
}

func TestProcessAndValidate(t *testing.T) {
	t.Run("valid defaults", func(t *testing.T) {
		cfg := &Config{}
		err := ProcessAndValidate(cfg, validRawInput())
		require.NoError(t, err)
		assert.Equal(t, DefaultPrecision, cfg.Precision)
		assert.Equal(t, schema.TextOut, cfg.Output)
		assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
		assert.Equal(t, DefaultRunsLimit, cfg.RunsLimit)
		assert.True(t, cfg.UseColors)
		assert.NotEmpty(t, cfg.TrainPath)
	})

	t.Run("test path is resolved", func(t *testing.T) {
		input := validRawInput()
		input.Test = "test.csv"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.NotEmpty(t, cfg.TestPath)
	})

	t.Run("uppercase output mode is normalized", func(t *testing.T) {
		input := validRawInput()
		input.Output = "JSON"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, schema.JSONOut, cfg.Output)
	})
}

func TestProcessAndValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{
			name:   "precision too small",
			mutate: func(in *ConfigRawInput) { in.Precision = 0 },
		},
		{
			name:   "precision too large",
			mutate: func(in *ConfigRawInput) { in.Precision = MaxPrecision + 1 },
		},
		{
			name:   "invalid output mode",
			mutate: func(in *ConfigRawInput) { in.Output = "xml" },
		},
		{
			name:   "negative horizon",
			mutate: func(in *ConfigRawInput) { in.Horizon = -1 },
		},
		{
			name:   "negative max-p",
			mutate: func(in *ConfigRawInput) { in.MaxP = -1 },
		},
		{
			name:   "max-q above limit",
			mutate: func(in *ConfigRawInput) { in.MaxQ = MaxOrderLimit + 1 },
		},
		{
			name:   "negative seasonal period",
			mutate: func(in *ConfigRawInput) { in.SeasonalPeriod = -7 },
		},
		{
			name:   "period of one",
			mutate: func(in *ConfigRawInput) { in.Period = 1 },
		},
		{
			name:   "invalid color flag",
			mutate: func(in *ConfigRawInput) { in.Color = "sometimes" },
		},
		{
			name:   "invalid store backend",
			mutate: func(in *ConfigRawInput) { in.StoreBackend = "oracle" },
		},
		{
			name:   "runs limit above maximum",
			mutate: func(in *ConfigRawInput) { in.Limit = MaxRunsLimit + 1 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput()
			tt.mutate(input)
			assert.Error(t, ProcessAndValidate(&Config{}, input))
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty is fine", schema.SQLiteBackend, "", false},
		{"none ignores conn string", schema.NoneBackend, "", false},
		{"mysql requires conn string", schema.MySQLBackend, "", true},
		{"mysql requires tcp host", schema.MySQLBackend, "user:pass/dbname", true},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/delaycast", false},
		{"postgres requires conn string", schema.PostgreSQLBackend, "", true},
		{"postgres requires host", schema.PostgreSQLBackend, "dbname=delaycast", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=delaycast", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{TrainPath: "/tmp/train.csv", Horizon: 30, UseColors: true}
	clone := cfg.Clone()
	require.NotSame(t, cfg, clone)
	assert.Equal(t, cfg.TrainPath, clone.TrainPath)
	assert.Equal(t, cfg.Horizon, clone.Horizon)

	clone.Horizon = 7
	assert.Equal(t, 30, cfg.Horizon)
}
