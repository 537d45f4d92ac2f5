package analyzers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/codehawk/codehawk/internal/types"
)

// blockStartKeywords delimit candidate blocks per language. A line
// whose first token is one of these starts a new block.
var blockStartKeywords = map[string]map[string]bool{
	"python": {
		"def": true, "class": true, "if": true, "for": true,
		"while": true, "with": true, "try": true, "async": true,
	},
	"javascript": {
		"function": true, "class": true, "if": true, "for": true,
		"while": true, "switch": true, "try": true, "export": true,
	},
	"typescript": {
		"function": true, "class": true, "if": true, "for": true,
		"while": true, "switch": true, "try": true, "export": true,
	},
	"java": {
		"public": true, "private": true, "protected": true, "class": true,
		"if": true, "for": true, "while": true, "switch": true, "try": true,
	},
	"go": {
		"func": true, "type": true, "if": true, "for": true,
		"switch": true, "select": true,
	},
}

// genericBlockKeywords is the fallback delimiter set for languages
// without a dedicated table.
var genericBlockKeywords = map[string]bool{
	"def": true, "func": true, "function": true, "fn": true, "class": true,
	"if": true, "for": true, "while": true, "switch": true, "try": true,
}

// DuplicationAnalyzer finds exact duplicate code blocks across files:
// blocks are split at structural keyword boundaries, whitespace-
// normalized, content-hashed, and grouped by hash. Exact-match only;
// near-duplicates are out of scope.
type DuplicationAnalyzer struct{}

func (a *DuplicationAnalyzer) Name() string { return "duplication" }

func (a *DuplicationAnalyzer) Analyze(ctx context.Context, target *Target) (*types.AnalyzerResult, error) {
	result := newResult(a.Name(), target)
	t := target.Config.Thresholds

	groups := make(map[uint64][]types.CodeBlock)
	for _, file := range target.Files {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
		for _, block := range extractBlocks(file, t.MinDuplicateBlockLines) {
			groups[block.Hash] = append(groups[block.Hash], block)
		}
	}

	// Deterministic group ordering regardless of map iteration.
	hashes := make([]uint64, 0, len(groups))
	for hash, blocks := range groups {
		if len(blocks) < 2 || len(blocks[0].Lines) < t.MinDuplicateLines {
			continue
		}
		hashes = append(hashes, hash)
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })

	duplicateGroups := 0
	duplicateOccurrences := 0
	duplicatedLines := 0

	for _, hash := range hashes {
		blocks := groups[hash]
		sort.Slice(blocks, func(i, j int) bool {
			if blocks[i].FilePath != blocks[j].FilePath {
				return blocks[i].FilePath < blocks[j].FilePath
			}
			return blocks[i].StartLine < blocks[j].StartLine
		})

		size := len(blocks[0].Lines)
		severity := duplicateSeverity(len(blocks), size)

		duplicateGroups++
		duplicateOccurrences += len(blocks)
		duplicatedLines += size * (len(blocks) - 1)

		// One issue per occurrence beyond the first, each listing the
		// other locations.
		for i := 1; i < len(blocks); i++ {
			block := blocks[i]
			result.Issues = append(result.Issues, types.Issue{
				Type:     "duplicate_block",
				Severity: severity,
				Title:    fmt.Sprintf("Duplicated block of %d lines", size),
				Description: fmt.Sprintf("Identical to %d other occurrence(s): %s",
					len(blocks)-1, otherLocations(blocks, i)),
				FilePath:       block.FilePath,
				LineStart:      block.StartLine,
				LineEnd:        block.EndLine,
				Confidence:     1.0,
				Recommendation: "Extract the duplicated block into a shared function",
				Metadata: map[string]string{
					"duplicate_hash":    fmt.Sprintf("%016x", hash),
					"total_occurrences": fmt.Sprintf("%d", len(blocks)),
					"block_lines":       fmt.Sprintf("%d", size),
				},
			})
		}
	}

	result.Metrics["duplicate_blocks"] = float64(duplicateGroups)
	result.Metrics["duplicate_occurrences"] = float64(duplicateOccurrences)
	result.Metrics["duplicated_lines"] = float64(duplicatedLines)
	return result, nil
}

// duplicateSeverity scales with occurrence count and block size.
func duplicateSeverity(occurrences, size int) types.Severity {
	switch {
	case occurrences > 3 || size > 50:
		return types.SeverityHigh
	case occurrences > 2 || size > 25:
		return types.SeverityMedium
	default:
		return types.SeverityLow
	}
}

// extractBlocks splits a file at structural keyword boundaries and
// hashes each block over whitespace-normalized line content.
func extractBlocks(file types.SourceFile, minBlockLines int) []types.CodeBlock {
	keywords := blockStartKeywords[file.Language]
	if keywords == nil {
		keywords = genericBlockKeywords
	}

	lines := strings.Split(file.Content, "\n")
	var blocks []types.CodeBlock
	start := -1

	flush := func(end int) {
		if start < 0 {
			return
		}
		block := buildBlock(file.RelPath, lines, start, end)
		if len(block.Lines) >= minBlockLines {
			blocks = append(blocks, block)
		}
		start = -1
	}

	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		first := strings.TrimRight(fields[0], ":({")
		if keywords[first] {
			flush(i)
			start = i
		}
	}
	flush(len(lines))

	return blocks
}

// buildBlock normalizes the slice [start, end) into a CodeBlock.
// Blank lines are dropped and internal whitespace collapsed before
// hashing, so formatting differences do not defeat exact matching.
func buildBlock(path string, lines []string, start, end int) types.CodeBlock {
	normalized := make([]string, 0, end-start)
	for _, line := range lines[start:end] {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		normalized = append(normalized, strings.Join(fields, " "))
	}

	return types.CodeBlock{
		FilePath:  path,
		Lines:     normalized,
		StartLine: start + 1,
		EndLine:   end,
		Hash:      xxhash.Sum64String(strings.Join(normalized, "\n")),
	}
}

func otherLocations(blocks []types.CodeBlock, skip int) string {
	var parts []string
	for i, b := range blocks {
		if i == skip {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%d", b.FilePath, b.StartLine))
	}
	return strings.Join(parts, ", ")
}
