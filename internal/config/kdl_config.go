package config

import (
	"fmt"
	"os"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/codehawk/codehawk/internal/types"
)

// applyKDL overlays settings from a .codehawk.kdl file onto cfg.
//
// Layout:
//
//	analyzers {
//	    security true
//	    duplication false
//	}
//	thresholds {
//	    min_duplicate_block_lines 6
//	    min_duplicate_lines 10
//	    max_nesting_depth 3
//	    complexity_high 10
//	    complexity_medium 6
//	}
//	discovery {
//	    ignore "vendor" "target"
//	    exclude "**/generated/**"
//	    max_file_size 10485760
//	}
//	severity_weights {
//	    critical 10.0
//	    high 5.0
//	}
//	patterns "rules/security.toml" "rules/company.toml"
func applyKDL(cfg *Config, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "analyzers":
			for _, cn := range n.Children {
				applyAnalyzerToggle(cfg, cn)
			}
		case "thresholds":
			for _, cn := range n.Children {
				applyThreshold(cfg, cn)
			}
		case "discovery":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "ignore":
					cfg.Discovery.IgnoreDirs = append(cfg.Discovery.IgnoreDirs, stringArgs(cn)...)
				case "exclude":
					cfg.Discovery.Exclude = append(cfg.Discovery.Exclude, stringArgs(cn)...)
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Discovery.MaxFileSize = int64(v)
					}
				}
			}
		case "severity_weights":
			for _, cn := range n.Children {
				if w, ok := firstFloatArg(cn); ok {
					cfg.SeverityWeights[types.Severity(nodeName(cn))] = w
				}
			}
		case "patterns":
			cfg.PatternFiles = append(cfg.PatternFiles, stringArgs(n)...)
		}
	}

	return nil
}

func applyAnalyzerToggle(cfg *Config, n *document.Node) {
	b, ok := firstBoolArg(n)
	if !ok {
		return
	}
	switch nodeName(n) {
	case "structure":
		cfg.Analyzers.Structure = b
	case "security":
		cfg.Analyzers.Security = b
	case "performance":
		cfg.Analyzers.Performance = b
	case "complexity":
		cfg.Analyzers.Complexity = b
	case "duplication":
		cfg.Analyzers.Duplication = b
	case "documentation":
		cfg.Analyzers.Documentation = b
	case "tests":
		cfg.Analyzers.Tests = b
	case "dependencies":
		cfg.Analyzers.Dependencies = b
	}
}

func applyThreshold(cfg *Config, n *document.Node) {
	v, ok := firstIntArg(n)
	if !ok {
		return
	}
	switch nodeName(n) {
	case "min_duplicate_block_lines":
		cfg.Thresholds.MinDuplicateBlockLines = v
	case "min_duplicate_lines":
		cfg.Thresholds.MinDuplicateLines = v
	case "max_nesting_depth":
		cfg.Thresholds.MaxNestingDepth = v
	case "complexity_high":
		cfg.Thresholds.ComplexityHigh = v
	case "complexity_medium":
		cfg.Thresholds.ComplexityMedium = v
	}
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func stringArgs(n *document.Node) []string {
	var out []string
	for _, arg := range n.Arguments {
		if s, ok := arg.Value.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
