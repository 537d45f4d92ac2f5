package patterns

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codehawk/codehawk/internal/types"
)

func pyFile(content string) types.SourceFile {
	return types.SourceFile{
		Path:     "/proj/app.py",
		RelPath:  "app.py",
		Language: "python",
		Content:  content,
	}
}

func TestScan_MatchesWithLineAndSnippet(t *testing.T) {
	s := NewScanner(nil, nil)

	file := pyFile("import os\n\nresult = eval(user_input)\n")
	issues := s.Scan(file, CategorySecurity)
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, "python-eval", issue.Type)
	assert.Equal(t, types.SeverityHigh, issue.Severity)
	assert.Equal(t, "app.py", issue.FilePath)
	assert.Equal(t, 3, issue.LineStart)
	assert.Equal(t, 3, issue.LineEnd)
	assert.Equal(t, "result = eval(user_input)", issue.CodeSnippet)
	assert.Equal(t, 0.9, issue.Confidence)
	assert.NotEmpty(t, issue.Recommendation)
}

func TestScan_GeneralRulesApplyToEveryLanguage(t *testing.T) {
	s := NewScanner(nil, nil)

	file := types.SourceFile{
		RelPath:  "config.go",
		Language: "go",
		Content:  "package config\n\nvar apiKey = \"secret-value-123\"\nconst password = \"hunter22\"\n",
	}
	issues := s.Scan(file, CategorySecurity)

	var ids []string
	for _, is := range issues {
		ids = append(ids, is.Type)
	}
	assert.Contains(t, ids, "hardcoded-password")
}

func TestScan_CategoryFilter(t *testing.T) {
	s := NewScanner(nil, nil)

	content := "for i in range(len(items)):\n    cmd = eval(raw)\n"
	file := pyFile(content)

	security := s.Scan(file, CategorySecurity)
	perf := s.Scan(file, CategoryPerformance)

	require.Len(t, security, 1)
	assert.Equal(t, "python-eval", security[0].Type)
	require.Len(t, perf, 1)
	assert.Equal(t, "python-range-len", perf[0].Type)
}

func TestScan_MultipleMatchesSameRule(t *testing.T) {
	s := NewScanner(nil, nil)

	file := pyFile("a = eval(x)\nb = eval(y)\n")
	issues := s.Scan(file, CategorySecurity)
	require.Len(t, issues, 2)
	assert.Equal(t, 1, issues[0].LineStart)
	assert.Equal(t, 2, issues[1].LineStart)
}

func TestScan_CleanFile(t *testing.T) {
	s := NewScanner(nil, nil)

	file := pyFile("def add(a, b):\n    return a + b\n")
	assert.Empty(t, s.Scan(file, CategorySecurity))
	assert.Empty(t, s.Scan(file, CategoryPerformance))
}

func TestNewScanner_SkipsInvalidExtraRules(t *testing.T) {
	extra := map[string][]Rule{
		"python": {
			{ID: "bad-regex", Category: CategorySecurity, Severity: types.SeverityHigh, Matcher: `(unclosed`},
			{ID: "bad-severity", Category: CategorySecurity, Severity: "urgent", Matcher: `ok`},
			{ID: "good-rule", Category: CategorySecurity, Title: "Custom", Severity: types.SeverityLow, Matcher: `FIXME`, Confidence: 0.5},
		},
	}
	s := NewScanner(extra, nil)

	file := pyFile("# FIXME clean this up\n")
	issues := s.Scan(file, CategorySecurity)
	require.Len(t, issues, 1)
	assert.Equal(t, "good-rule", issues[0].Type)
}

func TestLoadRuleFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "company.toml")
	content := `
[[rules]]
id = "company-print"
category = "performance"
language = "python"
title = "Raw print in service code"
severity = "low"
matcher = '(?m)^\s*print\('
description = "print bypasses the logging pipeline"
recommendation = "use the structured logger"
confidence = 0.7

[[rules]]
id = "company-todo"
category = "security"
title = "Tracking marker"
severity = "info"
matcher = 'HACK'
confidence = 0.4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	grouped, err := LoadRuleFiles([]string{path})
	require.NoError(t, err)

	require.Len(t, grouped["python"], 1)
	rule := grouped["python"][0]
	assert.Equal(t, "company-print", rule.ID)
	assert.Equal(t, types.SeverityLow, rule.Severity)
	assert.Equal(t, 0.7, rule.Confidence)

	require.Len(t, grouped[GeneralLanguage], 1)
	assert.Equal(t, "company-todo", grouped[GeneralLanguage][0].ID)
}

func TestLoadRuleFiles_Missing(t *testing.T) {
	_, err := LoadRuleFiles([]string{filepath.Join(t.TempDir(), "absent.toml")})
	assert.Error(t, err)

	grouped, err := LoadRuleFiles(nil)
	assert.NoError(t, err)
	assert.Nil(t, grouped)
}

func TestBuiltinRulesCompile(t *testing.T) {
	s := NewScanner(nil, nil)
	for language, rules := range builtinRules {
		assert.Equal(t, len(rules), s.RuleCount(language), language)
	}
}
