// Package suite expands a test file's registration callback into a
// flat list of test-case descriptors, honoring only/skip modifiers at
// any nesting level.
package suite

import (
	"fmt"
	"strings"

	"github.com/ddliu/motto"
	"github.com/robertkrimen/otto"

	"jtl/internal/domain"
	"jtl/internal/modules"
)

// GroupSeparator joins the group stack into a qualified case name.
const GroupSeparator = ">"

const (
	modeOnly = "only"
	modeSkip = "skip"
)

// Builder collects the test cases one file registers. It is scoped to
// a single file's registration pass and never shared: the group stack,
// counter and only/skip flags are construction-time state only.
type Builder struct {
	loader   *modules.Loader
	fileName string

	groups   []string
	counter  int
	onlyFlag bool
	skipFlag bool

	general []domain.TestCase
	only    []domain.TestCase

	buildErr error
}

// NewBuilder creates a Builder for one file. rootGroup (the file's
// derived name) seeds the group stack so every case name is qualified
// by its file.
func NewBuilder(loader *modules.Loader, fileName, rootGroup string) *Builder {
	return &Builder{
		loader:   loader,
		fileName: fileName,
		groups:   []string{rootGroup},
	}
}

// Build invokes the suite callback with the test/describe surface and
// resolves the accumulated cases: if anything anywhere in the file was
// only-marked, the only-set is the file's entire contribution.
func (b *Builder) Build(suiteFn otto.Value) ([]domain.TestCase, error) {
	err := b.loader.WithVM(func(vm *motto.Motto) error {
		factory, err := vm.Otto.Run(dslSource)
		if err != nil {
			return err
		}
		reg, err := vm.Object(`({})`)
		if err != nil {
			return err
		}
		if err := reg.Set("test", b.registerCase); err != nil {
			return err
		}
		if err := reg.Set("describe", b.registerGroup); err != nil {
			return err
		}
		api, err := factory.Call(otto.UndefinedValue(), reg.Value())
		if err != nil {
			return err
		}
		testFn, err := api.Object().Get("test")
		if err != nil {
			return err
		}
		describeFn, err := api.Object().Get("describe")
		if err != nil {
			return err
		}
		_, err = suiteFn.Call(otto.UndefinedValue(), testFn, describeFn)
		return err
	})
	if err == nil {
		err = b.buildErr
	}
	if err != nil {
		return nil, fmt.Errorf("build suite %s: %w", b.fileName, err)
	}

	if len(b.only) > 0 {
		return b.only, nil
	}
	return b.general, nil
}

// registerCase handles test / test.only / test.skip. The counter is
// file-local and continuous across groups, so sibling groups and
// leaves interleave in one numbering sequence.
func (b *Builder) registerCase(call otto.FunctionCall) otto.Value {
	mode := call.Argument(0).String()
	description := call.Argument(1).String()
	runFn := call.Argument(2)
	opts := call.Argument(3)

	tc := domain.TestCase{
		Name:        fmt.Sprintf("%s_%d", strings.Join(b.groups, GroupSeparator), b.counter),
		Description: description,
		FileName:    b.fileName,
		Run:         b.loader.RunFunc(runFn),
	}
	b.counter++

	var optSkip otto.Value
	hasOptSkip := false
	if opts.IsObject() {
		obj := opts.Object()
		for _, key := range obj.Keys() {
			v, err := obj.Get(key)
			if err != nil {
				continue
			}
			if key == "skip" {
				optSkip = v
				hasOptSkip = true
				continue
			}
			exported, err := v.Export()
			if err != nil {
				continue
			}
			if tc.Options == nil {
				tc.Options = make(map[string]interface{})
			}
			tc.Options[key] = exported
		}
	}

	switch {
	case mode == modeSkip || b.skipFlag:
		// An ambient or explicit skip overrides any per-case option.
		tc.Skip = alwaysSkip
	case hasOptSkip:
		tc.Skip = b.loader.SkipFunc(optSkip)
	}

	if mode == modeOnly || b.onlyFlag {
		b.only = append(b.only, tc)
	} else {
		b.general = append(b.general, tc)
	}
	return otto.UndefinedValue()
}

// registerGroup handles describe / describe.only / describe.skip:
// push the group name and flags, run the body synchronously, restore.
// Restoration must not leak a group's only/skip state to siblings.
func (b *Builder) registerGroup(call otto.FunctionCall) otto.Value {
	mode := call.Argument(0).String()
	description := call.Argument(1).String()
	body := call.Argument(2)

	prevOnly, prevSkip := b.onlyFlag, b.skipFlag
	b.groups = append(b.groups, description)
	if mode == modeOnly {
		b.onlyFlag = true
	}
	if mode == modeSkip {
		b.skipFlag = true
	}

	_, err := body.Call(otto.UndefinedValue())

	b.groups = b.groups[:len(b.groups)-1]
	b.onlyFlag, b.skipFlag = prevOnly, prevSkip

	if err != nil {
		if b.buildErr == nil {
			b.buildErr = err
		}
		throw(err)
	}
	return otto.UndefinedValue()
}

func alwaysSkip() (bool, error) { return true, nil }

// throw re-raises a Go error as a JS exception so it propagates out of
// the registration callback tree.
func throw(err error) {
	v, _ := otto.ToValue("Exception: " + err.Error())
	panic(v)
}
