package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivery-pipeline/internal/config"
	"delivery-pipeline/internal/model"
)

var fixture = filepath.Join("..", "..", "internal", "pipeline", "testdata", "deliveries.xls")

func runCLI(t *testing.T, args ...string) (*model.Report, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	if err := run(args, &stdout, &stderr); err != nil {
		return nil, err
	}
	var report model.Report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	return &report, nil
}

func TestRun_Defaults(t *testing.T) {
	t.Setenv(config.ConfigFileEnv, "")

	report, err := runCLI(t, "-file", fixture)
	require.NoError(t, err)

	assert.Equal(t, 7, report.SourceRows)
	assert.Equal(t, 4, report.TotalRecords)
	assert.Len(t, report.TopPostalCodes, 2)
}

func TestRun_UsesEnvironmentConfig(t *testing.T) {
	t.Setenv(config.ConfigFileEnv, "")
	t.Setenv("PIPELINE_PROCESSING_TOP_POSTAL_CODES", "1")

	report, err := runCLI(t, "-file", fixture)
	require.NoError(t, err)
	assert.Len(t, report.TopPostalCodes, 1)

	t.Setenv("PIPELINE_PROCESSING_MAX_ROWS", "3")

	report, err = runCLI(t, "-file", fixture)
	require.NoError(t, err)
	assert.Equal(t, 3, report.SourceRows)
	assert.Equal(t, 2, report.TotalRecords)
	assert.Empty(t, report.TopPostalCodes)
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	t.Setenv(config.ConfigFileEnv, "")
	t.Setenv("PIPELINE_PROCESSING_TOP_POSTAL_CODES", "5")

	report, err := runCLI(t, "-file", fixture, "-top", "1")
	require.NoError(t, err)

	require.Len(t, report.TopPostalCodes, 1)
	assert.Equal(t, "28001", report.TopPostalCodes[0].PostalCode)
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv(config.ConfigFileEnv, "")
	t.Setenv("PIPELINE_PROCESSING_TOP_POSTAL_CODES", "0")

	_, err := runCLI(t, "-file", fixture)
	assert.Error(t, err)
}

func TestRun_MissingFile(t *testing.T) {
	t.Setenv(config.ConfigFileEnv, "")

	_, err := runCLI(t)
	assert.Error(t, err)
}
