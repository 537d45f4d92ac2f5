package analyzers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codehawk/codehawk/internal/types"
)

// twelve normalized lines, no internal block-start keywords so the
// extractor keeps it as one block.
const duplicatedPyBlock = `def transform(rows):
    cleaned = []
    header = rows[0]
    body = rows[1:]
    total = 0
    count = 0
    cleaned.append(header)
    cleaned.extend(body)
    total = sum(len(r) for r in body)
    count = len(body)
    average = total / max(count, 1)
    return cleaned, average
`

func TestDuplication_ExactBlockAcrossFiles(t *testing.T) {
	target := newTarget(nil,
		srcFile("a.py", "python", duplicatedPyBlock),
		srcFile("b.py", "python", duplicatedPyBlock),
	)

	result, err := (&DuplicationAnalyzer{}).Analyze(context.Background(), target)
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.Metrics["duplicate_blocks"])
	assert.Equal(t, 2.0, result.Metrics["duplicate_occurrences"])
	assert.Equal(t, 12.0, result.Metrics["duplicated_lines"])

	require.Len(t, result.Issues, 1, "one issue per occurrence beyond the first")
	issue := result.Issues[0]
	assert.Equal(t, "duplicate_block", issue.Type)
	assert.Equal(t, types.SeverityLow, issue.Severity)
	assert.Equal(t, "b.py", issue.FilePath)
	assert.Equal(t, 1, issue.LineStart)
	assert.Contains(t, issue.Description, "a.py:1")
	assert.Equal(t, "2", issue.Metadata["total_occurrences"])
	assert.Equal(t, "12", issue.Metadata["block_lines"])
}

func TestDuplication_OrderIndependent(t *testing.T) {
	forward := newTarget(nil,
		srcFile("a.py", "python", duplicatedPyBlock),
		srcFile("b.py", "python", duplicatedPyBlock),
	)
	reversed := newTarget(nil,
		srcFile("b.py", "python", duplicatedPyBlock),
		srcFile("a.py", "python", duplicatedPyBlock),
	)

	first, err := (&DuplicationAnalyzer{}).Analyze(context.Background(), forward)
	require.NoError(t, err)
	second, err := (&DuplicationAnalyzer{}).Analyze(context.Background(), reversed)
	require.NoError(t, err)

	assert.Equal(t, first.Issues, second.Issues)
	assert.Equal(t, first.Metrics, second.Metrics)
}

func TestDuplication_WhitespaceInsensitive(t *testing.T) {
	reformatted := `def transform(rows):
        cleaned  =  []
        header =   rows[0]

        body = rows[1:]
        total = 0
        count = 0
        cleaned.append( header )

        cleaned.extend(body)
        total = sum(len(r)  for r in body)
        count = len(body)
        average = total / max(count, 1)
        return cleaned, average
`
	// Indentation, spacing and blank lines differ; token content must
	// still hash identically except where tokens themselves changed.
	blocksA := extractBlocks(srcFile("a.py", "python", duplicatedPyBlock), 6)
	blocksB := extractBlocks(srcFile("b.py", "python", reformatted), 6)
	require.Len(t, blocksA, 1)
	require.Len(t, blocksB, 1)
	assert.NotEqual(t, blocksA[0].Hash, blocksB[0].Hash, "changed spacing inside tokens changes content")

	exact := "def transform(rows):\n\n  cleaned = []\n  header = rows[0]\n  body = rows[1:]\n  total = 0\n  count = 0\n  cleaned.append(header)\n  cleaned.extend(body)\n  total = sum(len(r) for r in body)\n  count = len(body)\n  average = total / max(count, 1)\n  return cleaned, average\n"
	blocksC := extractBlocks(srcFile("c.py", "python", exact), 6)
	require.Len(t, blocksC, 1)
	assert.Equal(t, blocksA[0].Hash, blocksC[0].Hash)
}

func TestDuplication_ShortBlocksIgnored(t *testing.T) {
	short := `def tiny(a):
    b = a + 1
    c = b * 2
    d = c - 3
    e = d / 4
    return e
`
	target := newTarget(nil,
		srcFile("a.py", "python", short),
		srcFile("b.py", "python", short),
	)

	result, err := (&DuplicationAnalyzer{}).Analyze(context.Background(), target)
	require.NoError(t, err)

	assert.Empty(t, result.Issues, "6-line block is below the duplicate-lines threshold")
	assert.Equal(t, 0.0, result.Metrics["duplicate_blocks"])
}

func TestDuplication_SeverityScaling(t *testing.T) {
	assert.Equal(t, types.SeverityLow, duplicateSeverity(2, 12))
	assert.Equal(t, types.SeverityMedium, duplicateSeverity(3, 12))
	assert.Equal(t, types.SeverityMedium, duplicateSeverity(2, 30))
	assert.Equal(t, types.SeverityHigh, duplicateSeverity(4, 12))
	assert.Equal(t, types.SeverityHigh, duplicateSeverity(2, 60))
}

func TestExtractBlocks_SplitsAtKeywords(t *testing.T) {
	source := `def first(a):
    x = a + 1
    y = x * 2
    z = y - 3
    w = z / 4
    v = w + 5
    return v

def second(b):
    p = b + 1
    q = p * 2
    r = q - 3
    s = r / 4
    u = s + 5
    return u
`
	blocks := extractBlocks(srcFile("m.py", "python", source), 6)
	require.Len(t, blocks, 2)
	assert.Equal(t, 1, blocks[0].StartLine)
	assert.Equal(t, 9, blocks[1].StartLine)
	assert.Len(t, blocks[0].Lines, 7)
}
