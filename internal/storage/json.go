package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jtl/internal/domain"
)

// Save writes run results to the configured JSON output file.
func (s *JSONStorage) Save(results []domain.CaseResult, duration time.Duration) error {
	var passed, failed, skipped int
	var failures []domain.CaseFailure
	for _, r := range results {
		switch r.Status {
		case domain.StatusPassed:
			passed++
		case domain.StatusSkipped:
			skipped++
		case domain.StatusFailed:
			failed++
			message := ""
			if r.Error != nil {
				message = r.Error.Error()
			}
			failures = append(failures, domain.CaseFailure{
				TestName: r.Name,
				FilePath: r.FileName,
				Message:  message,
			})
		}
	}

	output := domain.RunOutput{
		Meta: domain.RunMeta{
			TotalCases:      len(results),
			PassedCases:     passed,
			FailedCases:     failed,
			SkippedCases:    skipped,
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Details: failures,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// Load reads the last run results from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.RunOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.RunOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}
