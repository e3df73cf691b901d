package domain

import "time"

// Case execution statuses
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// CaseResult represents the result of executing a single test case
type CaseResult struct {
	Name     string        // Test case name
	FileName string        // Path to the file that declared the case
	Status   string        // passed, failed or skipped
	Error    error         // Failure cause, nil unless Status is failed
	Duration time.Duration // Time taken to execute
}

// RunMeta contains metadata about a test run
type RunMeta struct {
	TotalCases      int     `json:"total_cases"`
	PassedCases     int     `json:"passed_cases"`
	FailedCases     int     `json:"failed_cases"`
	SkippedCases    int     `json:"skipped_cases"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// CaseFailure represents a failed test case in the persisted output
type CaseFailure struct {
	TestName string `json:"test_name"`
	FilePath string `json:"file_path"`
	Message  string `json:"message"`
}

// RunOutput is the complete persisted structure for run results
type RunOutput struct {
	Meta    RunMeta       `json:"meta"`
	Details []CaseFailure `json:"details"`
}
