package cli

import "jtl/internal/config"

// Flags holds command-line flags
type Flags struct {
	RootDir    string
	Pattern    string
	Filter     string
	FilterBody string
	ModuleType string
	ESMBundle  bool
	FailFast   bool
	Details    bool
	OpenViewer bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		RootDir:    f.RootDir,
		Pattern:    f.Pattern,
		Filter:     f.Filter,
		FilterBody: f.FilterBody,
		ModuleType: f.ModuleType,
		ESMBundle:  f.ESMBundle,
		FailFast:   f.FailFast,
		TestCases:  f.Details,
		OpenViewer: f.OpenViewer,
	}
}
