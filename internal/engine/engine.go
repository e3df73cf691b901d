// Package engine composes discovery, filtering, module loading and
// suite construction into the loadTests pipeline.
package engine

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"jtl/internal/config"
	"jtl/internal/discovery"
	"jtl/internal/domain"
	"jtl/internal/modules"
	"jtl/internal/suite"
)

// Engine discovers test files and expands them into test cases
type Engine struct {
	cfg     *config.Config
	scanner *discovery.Scanner
	filter  *discovery.Filter
	loader  *modules.Loader
	logger  *log.Logger
}

// New creates an Engine
func New(cfg *config.Config, scanner *discovery.Scanner, filter *discovery.Filter, loader *modules.Loader, logger *log.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		scanner: scanner,
		filter:  filter,
		loader:  loader,
		logger:  logger,
	}
}

// LoadTests discovers candidates matching pattern under the configured
// root, applies the name/body filters, loads every surviving file
// concurrently and returns the flattened test cases. The first load
// failure aborts the whole call and discards all in-flight results: a
// failed load must prevent execution from starting rather than run a
// silently incomplete set.
func (e *Engine) LoadTests(ctx context.Context, pattern string) ([]domain.TestCase, error) {
	if pattern == "" {
		pattern = e.cfg.Pattern
	}

	files, err := e.scanner.Discover(pattern, e.cfg.RootDir)
	if err != nil {
		return nil, err
	}

	files, err = e.filter.Apply(ctx, files, discovery.Criteria{
		Name: e.cfg.Filter,
		Body: e.cfg.FilterBody,
	})
	if err != nil {
		return nil, err
	}

	typ, err := modules.ParseType(e.cfg.ModuleType)
	if err != nil {
		return nil, err
	}

	perFile := make([][]domain.TestCase, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			cases, err := e.loadFile(gctx, file, typ)
			if err != nil {
				return err
			}
			perFile[i] = cases
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.TestCase
	for _, cases := range perFile {
		all = append(all, cases...)
	}
	return all, nil
}

// loadFile imports one file and dispatches on its module shape: a
// suite-builder function, a single bare runnable case, or neither
// (logged, contributes nothing).
func (e *Engine) loadFile(ctx context.Context, file domain.TestFile, typ modules.Type) ([]domain.TestCase, error) {
	ns, err := e.loader.Import(ctx, file.FileName, typ)
	if err != nil {
		return nil, err
	}

	if suiteFn := ns.Get("suite"); suiteFn.IsFunction() {
		return suite.NewBuilder(e.loader, file.FileName, file.Name).Build(suiteFn)
	}

	if runFn := ns.Get("run"); runFn.IsFunction() {
		tc := domain.TestCase{
			Name:        file.Name,
			Description: file.Name,
			FileName:    file.FileName,
			Run:         e.loader.RunFunc(runFn),
			Options:     ns.Extras("run", "description", "skip"),
		}
		if d := ns.Get("description"); d.IsDefined() {
			tc.Description = d.String()
		}
		tc.Skip = e.loader.SkipFunc(ns.Get("skip"))
		return []domain.TestCase{tc}, nil
	}

	e.logger.Warn("no tests found in file", "file", file.FileName)
	return nil, nil
}
