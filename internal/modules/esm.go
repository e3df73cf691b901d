package modules

import (
	"fmt"
	"regexp"
	"strings"
)

// The embedded engine speaks the CommonJS module protocol, so ES-module
// sources are rewritten into module scope before evaluation. The
// rewrite covers the static import/export forms test files use; dynamic
// import() expressions and live bindings are not supported. The engine
// is ES5: const/let declarations are downgraded to var, and class
// exports are not supported at all.
var (
	importDefaultRe = regexp.MustCompile(`^\s*import\s+([A-Za-z_$][\w$]*)\s+from\s+['"]([^'"]+)['"];?\s*$`)
	importNamedRe   = regexp.MustCompile(`^\s*import\s+\{([^}]*)\}\s+from\s+['"]([^'"]+)['"];?\s*$`)
	importNSRe      = regexp.MustCompile(`^\s*import\s+\*\s+as\s+([A-Za-z_$][\w$]*)\s+from\s+['"]([^'"]+)['"];?\s*$`)
	importBareRe    = regexp.MustCompile(`^\s*import\s+['"]([^'"]+)['"];?\s*$`)
	exportDeclRe    = regexp.MustCompile(`^(\s*)export\s+(const|let|var)\s+([A-Za-z_$][\w$]*)`)
	exportFuncRe    = regexp.MustCompile(`^(\s*)export\s+function\s+([A-Za-z_$][\w$]*)`)
	exportListRe    = regexp.MustCompile(`^\s*export\s+\{([^}]*)\};?\s*$`)
	exportDefaultRe = regexp.MustCompile(`^(\s*)export\s+default\s+`)
)

// RewriteESM translates an ES-module source into CommonJS form so the
// embedded engine can evaluate it. Exported bindings are assigned onto
// module.exports after the module body, preserving declaration order.
func RewriteESM(source string) string {
	lines := strings.Split(source, "\n")
	var exports []string // "exportedName=localName"
	seq := 0

	for i, line := range lines {
		switch {
		case importNSRe.MatchString(line):
			m := importNSRe.FindStringSubmatch(line)
			lines[i] = fmt.Sprintf("var %s = require(%q);", m[1], m[2])
		case importNamedRe.MatchString(line):
			m := importNamedRe.FindStringSubmatch(line)
			tmp := fmt.Sprintf("_jtlImport%d", seq)
			seq++
			stmt := fmt.Sprintf("var %s = require(%q);", tmp, m[2])
			for _, spec := range strings.Split(m[1], ",") {
				remote, local := splitAs(spec)
				if remote == "" {
					continue
				}
				stmt += fmt.Sprintf(" var %s = %s.%s;", local, tmp, remote)
			}
			lines[i] = stmt
		case importDefaultRe.MatchString(line):
			m := importDefaultRe.FindStringSubmatch(line)
			tmp := fmt.Sprintf("_jtlImport%d", seq)
			seq++
			lines[i] = fmt.Sprintf(
				"var %s = require(%q); var %s = (%s && %s['default'] !== undefined) ? %s['default'] : %s;",
				tmp, m[2], m[1], tmp, tmp, tmp, tmp)
		case importBareRe.MatchString(line):
			m := importBareRe.FindStringSubmatch(line)
			lines[i] = fmt.Sprintf("require(%q);", m[1])
		case exportDefaultRe.MatchString(line):
			lines[i] = exportDefaultRe.ReplaceAllString(line, "${1}module.exports['default'] = ")
		case exportListRe.MatchString(line):
			m := exportListRe.FindStringSubmatch(line)
			for _, spec := range strings.Split(m[1], ",") {
				local, remote := splitAs(spec)
				if local == "" {
					continue
				}
				exports = append(exports, remote+"="+local)
			}
			lines[i] = ""
		case exportFuncRe.MatchString(line):
			m := exportFuncRe.FindStringSubmatch(line)
			exports = append(exports, m[2]+"="+m[2])
			lines[i] = exportFuncRe.ReplaceAllString(line, "${1}function ${2}")
		case exportDeclRe.MatchString(line):
			m := exportDeclRe.FindStringSubmatch(line)
			exports = append(exports, m[3]+"="+m[3])
			lines[i] = exportDeclRe.ReplaceAllString(line, "${1}var ${3}")
		}
	}

	var tail strings.Builder
	tail.WriteString("\n;module.exports.__esModule = true;")
	for _, pair := range exports {
		idx := strings.Index(pair, "=")
		tail.WriteString(fmt.Sprintf("\nmodule.exports.%s = %s;", pair[:idx], pair[idx+1:]))
	}
	return strings.Join(lines, "\n") + tail.String()
}

// splitAs parses an import/export specifier of the form "a" or
// "a as b", returning the two identifiers ("a", "a") or ("a", "b").
func splitAs(spec string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(spec))
	switch {
	case len(parts) == 3 && parts[1] == "as":
		return parts[0], parts[2]
	case len(parts) == 1:
		return parts[0], parts[0]
	}
	return "", ""
}
