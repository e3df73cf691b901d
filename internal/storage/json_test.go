package storage

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jtl/internal/config"
	"jtl/internal/domain"
)

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	cfg := config.New()
	cfg.RootDir = t.TempDir()
	store := NewJSONStorage(cfg)

	results := []domain.CaseResult{
		{Name: "suite_0", FileName: "/tests/suite.js", Status: domain.StatusPassed, Duration: 5 * time.Millisecond},
		{Name: "suite_1", FileName: "/tests/suite.js", Status: domain.StatusFailed, Error: errors.New("expected 2, got 3")},
		{Name: "other_0", FileName: "/tests/other.js", Status: domain.StatusSkipped},
	}
	require.NoError(t, store.Save(results, 1500*time.Millisecond))

	output, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, 3, output.Meta.TotalCases)
	assert.Equal(t, 1, output.Meta.PassedCases)
	assert.Equal(t, 1, output.Meta.FailedCases)
	assert.Equal(t, 1, output.Meta.SkippedCases)
	assert.Equal(t, "1.5s", output.Meta.Duration)
	assert.InDelta(t, 1.5, output.Meta.DurationSeconds, 0.001)
	assert.NotEmpty(t, output.Meta.Timestamp)

	require.Len(t, output.Details, 1)
	assert.Equal(t, "suite_1", output.Details[0].TestName)
	assert.Equal(t, "/tests/suite.js", output.Details[0].FilePath)
	assert.Equal(t, "expected 2, got 3", output.Details[0].Message)
}

func TestJSONStorage_SaveCreatesOutputDir(t *testing.T) {
	cfg := config.New()
	cfg.RootDir = t.TempDir()
	store := NewJSONStorage(cfg)

	require.NoError(t, store.Save(nil, 0))
	_, err := os.Stat(cfg.GetOutputPath())
	require.NoError(t, err)
}

func TestJSONStorage_LoadMissingFile(t *testing.T) {
	cfg := config.New()
	cfg.RootDir = t.TempDir()
	store := NewJSONStorage(cfg)

	_, err := store.Load()
	require.Error(t, err)
}

func TestJSONStorage_LoadMalformedFile(t *testing.T) {
	cfg := config.New()
	cfg.RootDir = t.TempDir()
	store := NewJSONStorage(cfg)

	require.NoError(t, os.MkdirAll(cfg.RootDir+"/"+config.DefaultOutputJSONDir, 0755))
	require.NoError(t, os.WriteFile(cfg.GetOutputPath(), []byte("{not json"), 0644))

	_, err := store.Load()
	require.Error(t, err)
}
