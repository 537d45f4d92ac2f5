package types

import (
	"sort"
	"strings"
)

// Severity classifies how important an issue is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// severityRank maps severities to sortable ordinals (higher = more severe).
var severityRank = map[Severity]int{
	SeverityCritical: 5,
	SeverityHigh:     4,
	SeverityMedium:   3,
	SeverityLow:      2,
	SeverityInfo:     1,
}

// Rank returns the ordinal position of the severity for sorting.
// Unknown severities rank below info.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Valid reports whether s is one of the recognized severity levels.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// DefaultSeverityWeights are the score penalties per severity level.
// Overridable through configuration; these exact values define the
// default scoring model.
var DefaultSeverityWeights = map[Severity]float64{
	SeverityCritical: 10,
	SeverityHigh:     5,
	SeverityMedium:   2,
	SeverityLow:      1,
	SeverityInfo:     0.5,
}

// SourceFile is an immutable snapshot of one discovered file.
// Ownership: read once by discovery, then shared read-only across
// all analyzer goroutines.
type SourceFile struct {
	Path      string // absolute path
	RelPath   string // path relative to the analyzed root, slash-separated
	Language  string
	Content   string
	LineCount int
}

// Issue is a single finding produced by exactly one analyzer.
// Immutable after creation.
type Issue struct {
	Type           string            `json:"type"`
	Severity       Severity          `json:"severity"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	FilePath       string            `json:"file_path"`
	LineStart      int               `json:"line_start"`
	LineEnd        int               `json:"line_end"`
	Confidence     float64           `json:"confidence"`
	Recommendation string            `json:"recommendation"`
	CodeSnippet    string            `json:"code_snippet,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// CodeBlock is a candidate duplication unit. The hash is computed over
// whitespace-normalized line content and never changes after extraction.
type CodeBlock struct {
	FilePath  string
	Lines     []string
	StartLine int
	EndLine   int
	Hash      uint64
}

// LineCountOf returns the number of lines the block spans.
func (b CodeBlock) LineCountOf() int {
	return len(b.Lines)
}

// AnalyzerResult is the independent output of one analyzer run.
type AnalyzerResult struct {
	Analyzer      string             `json:"analyzer"`
	Success       bool               `json:"success"`
	Issues        []Issue            `json:"issues"`
	Metrics       map[string]float64 `json:"metrics"`
	FilesAnalyzed int                `json:"files_analyzed"`
	LinesAnalyzed int                `json:"lines_analyzed"`
	Languages     []string           `json:"languages"`
	Error         string             `json:"error,omitempty"`
}

// Summary describes the analyzed file set and the issue distribution.
type Summary struct {
	TotalFiles     int              `json:"total_files"`
	TotalLines     int              `json:"total_lines"`
	Languages      []string         `json:"languages"`
	SeverityCounts map[Severity]int `json:"severity_counts"`
}

// AnalysisResult is the aggregate produced once per orchestrator run.
// Callers treat it as a value object; it is never mutated after return.
type AnalysisResult struct {
	Summary         Summary                       `json:"summary"`
	Issues          []Issue                       `json:"issues"`
	Metrics         map[string]map[string]float64 `json:"metrics"`
	AnalyzerResults map[string]*AnalyzerResult    `json:"analyzer_results"`
	OverallScore    float64                       `json:"overall_score"`
	Recommendations []string                      `json:"recommendations"`
}

// SortIssues applies the mandated stable ordering: severity descending,
// then file path, then start line. Producers emit in arbitrary order;
// this runs once during aggregation before the result is returned.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		return a.LineStart < b.LineStart
	})
}

// CountSeverities tallies issues by severity level.
func CountSeverities(issues []Issue) map[Severity]int {
	counts := make(map[Severity]int)
	for _, issue := range issues {
		counts[issue.Severity]++
	}
	return counts
}

// JoinLanguages merges language lists from multiple analyzers into a
// deduplicated, sorted slice.
func JoinLanguages(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, lang := range list {
			lang = strings.TrimSpace(lang)
			if lang == "" || seen[lang] {
				continue
			}
			seen[lang] = true
			out = append(out, lang)
		}
	}
	sort.Strings(out)
	return out
}
