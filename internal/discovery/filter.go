package discovery

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"golang.org/x/sync/errgroup"

	"jtl/internal/domain"
)

// Criteria narrows a candidate list. Both fields are regular
// expressions applied unanchored; empty means "keep everything".
type Criteria struct {
	Name string // Matched against the derived file name
	Body string // Matched against the file's full text content
}

// Filter narrows discovered test files by name and content
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// Apply filters files by the given criteria. The name filter runs
// first since it needs no I/O; the body filter reads the surviving
// files concurrently. A file that cannot be read aborts the whole
// call: an unreadable test file indicates a misconfigured suite.
func (f *Filter) Apply(ctx context.Context, files []domain.TestFile, crit Criteria) ([]domain.TestFile, error) {
	out := files
	if crit.Name != "" {
		re, err := regexp.Compile(crit.Name)
		if err != nil {
			return nil, fmt.Errorf("invalid name filter: %w", err)
		}
		var kept []domain.TestFile
		for _, file := range out {
			if re.MatchString(file.Name) {
				kept = append(kept, file)
			}
		}
		out = kept
	}

	if crit.Body == "" || len(out) == 0 {
		return out, nil
	}

	re, err := regexp.Compile(crit.Body)
	if err != nil {
		return nil, fmt.Errorf("invalid body filter: %w", err)
	}

	matched := make([]bool, len(out))
	g, ctx := errgroup.WithContext(ctx)
	for i, file := range out {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(file.FileName)
			if err != nil {
				return fmt.Errorf("read %s: %w", file.FileName, err)
			}
			matched[i] = re.Match(content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var kept []domain.TestFile
	for i, file := range out {
		if matched[i] {
			kept = append(kept, file)
		}
	}
	return kept, nil
}
