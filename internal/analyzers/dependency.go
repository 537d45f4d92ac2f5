package analyzers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/codehawk/codehawk/internal/parser"
	"github.com/codehawk/codehawk/internal/types"
)

// importPatterns extract import statements for languages where the
// structural parser is unavailable or failed.
var importPatterns = map[string]*regexp.Regexp{
	"python":     regexp.MustCompile(`(?m)^\s*(?:import\s+[\w.]+|from\s+[\w.]+\s+import)`),
	"javascript": regexp.MustCompile(`(?m)(^\s*import\s.+from\s+['"][^'"]+['"]|require\s*\(\s*['"][^'"]+['"]\s*\))`),
	"typescript": regexp.MustCompile(`(?m)^\s*import\s.+from\s+['"][^'"]+['"]`),
	"ruby":       regexp.MustCompile(`(?m)^\s*require(_relative)?\s+['"]`),
}

// riskyImports is a fixed blacklist of modules whose import alone is
// worth flagging, keyed by language.
var riskyImports = map[string]map[string]riskyImport{
	"python": {
		"pickle":    {severity: types.SeverityMedium, reason: "deserialization of untrusted data executes code"},
		"cPickle":   {severity: types.SeverityMedium, reason: "deserialization of untrusted data executes code"},
		"marshal":   {severity: types.SeverityMedium, reason: "not safe against malicious data"},
		"telnetlib": {severity: types.SeverityMedium, reason: "plaintext protocol"},
		"ftplib":    {severity: types.SeverityLow, reason: "plaintext protocol"},
	},
	"javascript": {
		"child_process": {severity: types.SeverityLow, reason: "process spawning; review call sites for injection"},
		"vm":            {severity: types.SeverityMedium, reason: "vm module is not a security sandbox"},
	},
}

type riskyImport struct {
	severity types.Severity
	reason   string
}

// manifestNames maps languages to recognized dependency manifests.
var manifestNames = map[string][]string{
	"python":     {"requirements.txt", "pyproject.toml", "Pipfile", "setup.py"},
	"javascript": {"package.json"},
	"typescript": {"package.json"},
	"go":         {"go.mod"},
	"java":       {"pom.xml", "build.gradle", "build.gradle.kts"},
	"rust":       {"Cargo.toml"},
	"php":        {"composer.json"},
	"ruby":       {"Gemfile"},
	"csharp":     {},
	"cpp":        {},
	"zig":        {},
}

// DependencyAnalyzer measures import health: extracted imports, risky
// module usage, and presence of a dependency manifest per language.
type DependencyAnalyzer struct{}

func (a *DependencyAnalyzer) Name() string { return "dependencies" }

func (a *DependencyAnalyzer) Analyze(ctx context.Context, target *Target) (*types.AnalyzerResult, error) {
	result := newResult(a.Name(), target)

	importsTotal := 0
	// first discovered file per language, used to anchor project-level
	// issues to a file that actually exists
	anchors := make(map[string]string)

	for _, file := range target.Files {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
		if _, ok := anchors[file.Language]; !ok {
			anchors[file.Language] = file.RelPath
		}

		imports := a.fileImports(target, file)
		importsTotal += len(imports)

		blacklist := riskyImports[file.Language]
		if blacklist == nil {
			continue
		}
		for _, imp := range imports {
			module := importedModule(file.Language, imp.Name)
			risky, ok := blacklist[module]
			if !ok {
				continue
			}
			result.Issues = append(result.Issues, types.Issue{
				Type:           "risky_import",
				Severity:       risky.severity,
				Title:          fmt.Sprintf("Import of %s", module),
				Description:    fmt.Sprintf("Module %s: %s", module, risky.reason),
				FilePath:       file.RelPath,
				LineStart:      imp.Line,
				LineEnd:        imp.Line,
				Confidence:     0.9,
				Recommendation: "Review whether a safer alternative covers this use",
				Metadata:       map[string]string{"module": module},
			})
		}
	}

	manifests := 0
	declared := 0
	for language, anchor := range anchors {
		names := manifestNames[language]
		if len(names) == 0 {
			continue
		}
		found := ""
		for _, name := range names {
			if _, err := os.Stat(filepath.Join(target.Config.Root, name)); err == nil {
				found = name
				break
			}
		}
		if found == "" {
			result.Issues = append(result.Issues, types.Issue{
				Type:           "missing_manifest",
				Severity:       types.SeverityMedium,
				Title:          fmt.Sprintf("No dependency manifest for %s", language),
				Description:    fmt.Sprintf("No %s found in the project root; dependencies are unpinned", strings.Join(names, "/")),
				FilePath:       anchor,
				LineStart:      1,
				LineEnd:        1,
				Confidence:     0.8,
				Recommendation: fmt.Sprintf("Add a %s declaring the project's dependencies", names[0]),
				Metadata:       map[string]string{"expected_manifest": names[0]},
			})
			continue
		}
		manifests++
		declared += countDeclaredDependencies(filepath.Join(target.Config.Root, found))
	}

	result.Metrics["imports_total"] = float64(importsTotal)
	result.Metrics["manifests_found"] = float64(manifests)
	result.Metrics["declared_dependencies"] = float64(declared)
	return result, nil
}

// fileImports prefers parser output and falls back to regex patterns.
func (a *DependencyAnalyzer) fileImports(target *Target, file types.SourceFile) []parser.Import {
	if parser.Supported(file.Language) {
		if info, err := target.Parser.Analyze(file.Path, file.Language, file.Content); err == nil && info != nil && info.SyntaxError == nil {
			return info.Imports
		}
	}

	pattern := importPatterns[file.Language]
	if pattern == nil {
		return nil
	}
	var imports []parser.Import
	for _, loc := range pattern.FindAllStringIndex(file.Content, -1) {
		imports = append(imports, parser.Import{
			Name: strings.TrimSpace(file.Content[loc[0]:loc[1]]),
			Line: strings.Count(file.Content[:loc[0]], "\n") + 1,
		})
	}
	return imports
}

// importedModule extracts the top-level module name from an import
// statement's text.
func importedModule(language, statement string) string {
	if language == "javascript" || language == "typescript" {
		// import ... from 'mod' / require('mod'): the module name is
		// the first quoted string
		if open := strings.IndexAny(statement, `'"`); open >= 0 {
			rest := statement[open+1:]
			if end := strings.IndexAny(rest, `'"`); end >= 0 {
				return rest[:end]
			}
		}
		return ""
	}

	fields := strings.Fields(statement)
	if len(fields) < 2 {
		return ""
	}
	switch language {
	case "python":
		// "import x.y" or "from x.y import z"
		name := fields[1]
		if dot := strings.IndexByte(name, '.'); dot > 0 {
			name = name[:dot]
		}
		return name
	default:
		return strings.Trim(fields[len(fields)-1], `'";`)
	}
}

// countDeclaredDependencies parses known manifest formats well enough
// to report a declared-dependency count. Unknown formats count zero.
func countDeclaredDependencies(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}

	switch filepath.Base(path) {
	case "package.json", "composer.json":
		var manifest struct {
			Dependencies    map[string]string `json:"dependencies"`
			DevDependencies map[string]string `json:"devDependencies"`
			Require         map[string]string `json:"require"`
		}
		if json.Unmarshal(data, &manifest) != nil {
			return 0
		}
		return len(manifest.Dependencies) + len(manifest.DevDependencies) + len(manifest.Require)

	case "pyproject.toml":
		var manifest struct {
			Project struct {
				Dependencies []string `toml:"dependencies"`
			} `toml:"project"`
			Tool struct {
				Poetry struct {
					Dependencies map[string]interface{} `toml:"dependencies"`
				} `toml:"poetry"`
			} `toml:"tool"`
		}
		if toml.Unmarshal(data, &manifest) != nil {
			return 0
		}
		return len(manifest.Project.Dependencies) + len(manifest.Tool.Poetry.Dependencies)

	case "Cargo.toml":
		var manifest struct {
			Dependencies map[string]interface{} `toml:"dependencies"`
		}
		if toml.Unmarshal(data, &manifest) != nil {
			return 0
		}
		return len(manifest.Dependencies)

	case "go.mod":
		count := 0
		for _, line := range strings.Split(string(data), "\n") {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "require ") && !strings.Contains(trimmed, "(") {
				count++
			} else if strings.Contains(trimmed, "/") && strings.Count(trimmed, " ") == 1 &&
				!strings.HasPrefix(trimmed, "module ") && !strings.HasPrefix(trimmed, "//") {
				count++
			}
		}
		return count

	case "requirements.txt":
		count := 0
		for _, line := range strings.Split(string(data), "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
				count++
			}
		}
		return count

	default:
		return 0
	}
}
