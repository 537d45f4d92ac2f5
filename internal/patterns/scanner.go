// Package patterns implements data-driven text scanning: a versionable
// table of per-language and general rules matched against raw file
// content, with byte offsets resolved to line numbers.
package patterns

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/codehawk/codehawk/internal/types"
)

// compiledRule pairs a rule with its compiled matcher.
type compiledRule struct {
	Rule
	re *regexp.Regexp
}

// Scanner matches the rule table against file content. Construction
// compiles every matcher once; malformed matchers are logged and
// dropped, never aborting the scan of other rules.
type Scanner struct {
	byLanguage map[string][]compiledRule
	logger     *zap.Logger
}

// NewScanner builds a scanner over the built-in rule table plus any
// extra rules (e.g. loaded from TOML files).
func NewScanner(extra map[string][]Rule, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scanner{
		byLanguage: make(map[string][]compiledRule),
		logger:     logger,
	}
	for language, rules := range builtinRules {
		s.addRules(language, rules)
	}
	for language, rules := range extra {
		s.addRules(language, rules)
	}
	return s
}

func (s *Scanner) addRules(language string, rules []Rule) {
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Matcher)
		if err != nil {
			s.logger.Warn("skipping rule with invalid matcher",
				zap.String("rule", rule.ID), zap.Error(err))
			continue
		}
		if !rule.Severity.Valid() {
			s.logger.Warn("skipping rule with unknown severity",
				zap.String("rule", rule.ID), zap.String("severity", string(rule.Severity)))
			continue
		}
		s.byLanguage[language] = append(s.byLanguage[language], compiledRule{Rule: rule, re: re})
	}
}

// Scan matches every rule of the requested category against the file:
// the file's language group plus the general group. One Issue per
// match, located by counting newlines before the match offset.
func (s *Scanner) Scan(file types.SourceFile, category string) []types.Issue {
	var issues []types.Issue
	issues = s.scanRules(file, s.byLanguage[file.Language], category, issues)
	issues = s.scanRules(file, s.byLanguage[GeneralLanguage], category, issues)
	return issues
}

func (s *Scanner) scanRules(file types.SourceFile, rules []compiledRule, category string, issues []types.Issue) []types.Issue {
	for _, rule := range rules {
		if rule.Category != category {
			continue
		}
		for _, loc := range rule.re.FindAllStringIndex(file.Content, -1) {
			line := lineAt(file.Content, loc[0])
			issues = append(issues, types.Issue{
				Type:           rule.ID,
				Severity:       rule.Severity,
				Title:          rule.Title,
				Description:    rule.Description,
				FilePath:       file.RelPath,
				LineStart:      line,
				LineEnd:        line,
				Confidence:     rule.Confidence,
				Recommendation: rule.Recommendation,
				CodeSnippet:    snippetAt(file.Content, loc[0], loc[1]),
				Metadata:       map[string]string{"rule_id": rule.ID},
			})
		}
	}
	return issues
}

// RuleCount returns how many rules are active for a language group.
func (s *Scanner) RuleCount(language string) int {
	return len(s.byLanguage[language])
}

// lineAt converts a byte offset into a 1-based line number.
func lineAt(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return strings.Count(content[:offset], "\n") + 1
}

// snippetAt returns the full line containing the match, trimmed.
func snippetAt(content string, start, end int) string {
	lineStart := strings.LastIndexByte(content[:start], '\n') + 1
	lineEnd := strings.IndexByte(content[end:], '\n')
	if lineEnd < 0 {
		lineEnd = len(content)
	} else {
		lineEnd += end
	}
	return strings.TrimSpace(content[lineStart:lineEnd])
}
