package config

const (
	// DefaultRootDir is the default directory to discover tests under
	DefaultRootDir = "."
	// DefaultPattern matches the recognized test file extensions
	DefaultPattern = "**/*.{js,cjs,mjs}"
	// DefaultModuleType is the default module format hint
	DefaultModuleType = "commonjs"
	// DefaultOutputJSONFile is the default results file name
	DefaultOutputJSONFile = "jtl-results.json"
	// DefaultOutputJSONDir is the default results directory
	DefaultOutputJSONDir = ".jtl"
	// DefaultConfigFile is the config file looked up under the root dir
	DefaultConfigFile = "jtl.yaml"
)

// DefaultPathsToIgnore are the default directories to skip when
// discovering test files
var DefaultPathsToIgnore = []string{
	"node_modules",
	"bower_components",
	"dist",
	"build",
	"coverage",
}
