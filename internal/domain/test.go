package domain

import "context"

// TestFile is a discovered candidate test file
type TestFile struct {
	FileName string // Absolute path to the file
	Name     string // Base name without extension
}

// RunFunc executes a test case. The runtime map is the opaque
// configuration object handed through to the test body; failure is
// signaled by the returned error.
type RunFunc func(ctx context.Context, runtime map[string]interface{}) error

// SkipFunc decides whether a case must be skipped. A nil SkipFunc on a
// TestCase means the case always runs.
type SkipFunc func() (bool, error)

// TestCase is the unit handed to the executor
type TestCase struct {
	Name        string // Unique within one load, e.g. "file1>group_2"
	Description string // Human-readable label
	FileName    string // Absolute path to the file that declared the case
	Run         RunFunc
	Skip        SkipFunc
	Options     map[string]interface{} // Pass-through registration options
}

// Skipped evaluates the case's skip predicate.
func (tc TestCase) Skipped() (bool, error) {
	if tc.Skip == nil {
		return false, nil
	}
	return tc.Skip()
}
