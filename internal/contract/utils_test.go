package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaycast/delaycast/schema"
)

func TestGetPlainVerdict(t *testing.T) {
	tests := []struct {
		name     string
		input    schema.Verdict
		expected string
	}{
		{
			name:     "pass verdict",
			input:    schema.PassVerdict,
			expected: "Pass",
		},
		{
			name:     "fail verdict",
			input:    schema.FailVerdict,
			expected: "Fail",
		},
		{
			name:     "mixed verdict",
			input:    schema.MixedVerdict,
			expected: "Mixed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainVerdict(tt.input))
		})
	}
}

func TestGetColorVerdict(t *testing.T) {
	tests := []struct {
		name    string
		verdict schema.Verdict
		label   string
	}{
		{"pass", schema.PassVerdict, "Pass"},
		{"fail", schema.FailVerdict, "Fail"},
		{"mixed", schema.MixedVerdict, "Mixed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetColorVerdict(tt.verdict)
			// Should contain the plain label
			assert.Contains(t, result, tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		f, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, f)
	})

	t.Run("non-empty path creates file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		f, err := SelectOutputFile(path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		assert.NotEqual(t, os.Stdout, f)
		_, statErr := os.Stat(path)
		assert.NoError(t, statErr)
	})
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
		wantErr  bool
	}{
		{"yes", "yes", true, false},
		{"no", "no", false, false},
		{"true mixed case", "True", true, false},
		{"false", "false", false, false},
		{"one", "1", true, false},
		{"zero", "0", false, false},
		{"invalid", "maybe", false, true},
		{"empty", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestGetRunDBFilePath(t *testing.T) {
	path := GetRunDBFilePath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, ".delaycast_runs.db")
}
