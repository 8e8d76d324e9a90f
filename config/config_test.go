/*
Copyright 2024 Fintrack Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wacul/ptr"
)

func TestValidateAndAddDefaults(t *testing.T) {
	cnf := Configuration{}
	err := cnf.validateAndAddDefaults()
	require.EqualError(t, err, "data source DNS is required")

	cnf = Configuration{
		DataSource: DataSourceConfig{Dns: " postgres://localhost:5432/fintrack "},
	}
	require.NoError(t, cnf.validateAndAddDefaults())

	assert.Equal(t, "Fintrack", cnf.ProjectName)
	assert.Equal(t, "postgres://localhost:5432/fintrack", cnf.DataSource.Dns)
	assert.Equal(t, DEFAULT_PORT, cnf.Server.Port)
	assert.Equal(t, 3, *cnf.Reconciliation.ToleranceDays)
	assert.Equal(t, 0.01, *cnf.Reconciliation.ToleranceAmount)
	assert.Equal(t, 24, *cnf.Reconciliation.ToleranceHours)
	assert.Equal(t, 70.0, *cnf.Reconciliation.MinConfidence)
	assert.Equal(t, 1000, cnf.Reconciliation.TransactionLimit)
	assert.Equal(t, 90, cnf.Projection.Days)
	assert.Equal(t, "realistic", cnf.Projection.Scenario)
	assert.Equal(t, 300, cnf.Projection.CacheTTLSeconds)
	assert.Nil(t, cnf.RateLimit.RequestsPerSecond)
	assert.Equal(t, 10800, *cnf.RateLimit.CleanupIntervalSec)
}

func TestValidateAndAddDefaults_KeepsExplicitZeroTolerance(t *testing.T) {
	cnf := Configuration{
		DataSource: DataSourceConfig{Dns: "postgres://localhost"},
		Reconciliation: ReconciliationConfig{
			ToleranceDays:   ptr.Int(0),
			ToleranceAmount: ptr.Float64(0),
		},
	}
	require.NoError(t, cnf.validateAndAddDefaults())

	defaults := cnf.Reconciliation.SuggestionDefaults()
	assert.Equal(t, 0, defaults.ToleranceDays)
	assert.True(t, defaults.ToleranceAmount.IsZero())
	assert.Equal(t, 24, defaults.ToleranceHours)
}

func TestValidateAndAddDefaults_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cnf  Configuration
		err  string
	}{
		{
			name: "negative tolerance",
			cnf: Configuration{
				DataSource:     DataSourceConfig{Dns: "postgres://localhost"},
				Reconciliation: ReconciliationConfig{ToleranceHours: ptr.Int(-1)},
			},
			err: "reconciliation tolerances must not be negative",
		},
		{
			name: "confidence out of range",
			cnf: Configuration{
				DataSource:     DataSourceConfig{Dns: "postgres://localhost"},
				Reconciliation: ReconciliationConfig{MinConfidence: ptr.Float64(120)},
			},
			err: "reconciliation min confidence must be between 0 and 100",
		},
		{
			name: "unknown scenario",
			cnf: Configuration{
				DataSource: DataSourceConfig{Dns: "postgres://localhost"},
				Projection: ProjectionConfig{Scenario: "apocalyptic"},
			},
			err: "projection scenario must be optimistic, realistic or pessimistic",
		},
		{
			name: "secure without key",
			cnf: Configuration{
				DataSource: DataSourceConfig{Dns: "postgres://localhost"},
				Server:     ServerConfig{Secure: true},
			},
			err: "server secret key is required when secure mode is enabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.cnf.validateAndAddDefaults(), tt.err)
		})
	}
}

func TestRateLimitDefaults(t *testing.T) {
	cnf := Configuration{
		DataSource: DataSourceConfig{Dns: "postgres://localhost"},
		RateLimit:  RateLimitConfig{RequestsPerSecond: ptr.Float64(5)},
	}
	require.NoError(t, cnf.validateAndAddDefaults())
	assert.Equal(t, 10, *cnf.RateLimit.Burst)

	cnf = Configuration{
		DataSource: DataSourceConfig{Dns: "postgres://localhost"},
		RateLimit:  RateLimitConfig{Burst: ptr.Int(8)},
	}
	require.NoError(t, cnf.validateAndAddDefaults())
	assert.Equal(t, 4.0, *cnf.RateLimit.RequestsPerSecond)
}

func TestLoadConfigFromFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "fintrack.json")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	sampleConfig := map[string]interface{}{
		"project_name": "Temp Project",
		"data_source":  map[string]string{"dns": "temp-dns"},
		"projection":   map[string]interface{}{"days": 30, "scenario": "pessimistic"},
	}
	require.NoError(t, json.NewEncoder(tmpFile).Encode(sampleConfig))
	tmpFile.Close()

	t.Setenv("FINTRACK_PROJECT_NAME", "Env Project")
	t.Setenv("FINTRACK_RECONCILIATION_TOLERANCE_DAYS", "5")

	require.NoError(t, loadConfigFromFile(tmpFile.Name()))

	loaded, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "Env Project", loaded.ProjectName)
	assert.Equal(t, "temp-dns", loaded.DataSource.Dns)
	assert.Equal(t, 5, *loaded.Reconciliation.ToleranceDays)

	defaults := loaded.Projection.ProjectionDefaults()
	assert.Equal(t, 30, defaults.Days)
	assert.Equal(t, "pessimistic", defaults.Scenario)
	assert.Equal(t, 90, defaults.HistoricalDays)
}

func TestInitConfig_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("FINTRACK_DATA_SOURCE_DNS", "postgres://env-only")

	require.NoError(t, InitConfig("does-not-exist.json"))

	loaded, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "postgres://env-only", loaded.DataSource.Dns)
}

func TestMockConfig(t *testing.T) {
	MockConfig(&Configuration{ProjectName: "mocked"})

	loaded, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "mocked", loaded.ProjectName)
}
