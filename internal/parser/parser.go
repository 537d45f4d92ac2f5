// Package parser wraps tree-sitter grammars behind a structural
// analysis interface: parse a source file once, walk the tree, and
// hand back an immutable FileInfo the analyzers share.
package parser

import (
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"go.uber.org/zap"
)

// Manager owns grammar initialization and per-file parse results.
// Grammars load lazily under a write lock; parse results are cached by
// path so concurrent analyzers pay for each file once. tree-sitter
// Parser values are not goroutine-safe, so a fresh parser is created
// per Parse call while the (immutable) Language values are shared.
type Manager struct {
	mu        sync.RWMutex
	languages map[string]*tree_sitter.Language

	resultMu sync.Mutex
	results  map[string]*FileInfo

	maxNestingDepth int
	logger          *zap.Logger
}

// NewManager creates a parser manager. maxNestingDepth controls when
// deep-nesting events are recorded (default 3).
func NewManager(maxNestingDepth int, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		languages:       make(map[string]*tree_sitter.Language),
		results:         make(map[string]*FileInfo),
		maxNestingDepth: maxNestingDepth,
		logger:          logger,
	}
}

// Analyze parses and walks the file, returning its structural info.
// Results are cached by path; repeated calls from different analyzers
// return the same immutable FileInfo. A nil FileInfo with an error is
// returned only when the language has no grammar.
func (m *Manager) Analyze(path, language, content string) (*FileInfo, error) {
	if !Supported(language) {
		return nil, fmt.Errorf("no structural parser for language %q", language)
	}

	m.resultMu.Lock()
	if cached, ok := m.results[path]; ok {
		m.resultMu.Unlock()
		return cached, nil
	}
	m.resultMu.Unlock()

	info := m.parse(language, []byte(content))

	m.resultMu.Lock()
	// Another goroutine may have parsed the same file meanwhile; keep
	// the first result so every analyzer sees one identical FileInfo.
	if cached, ok := m.results[path]; ok {
		m.resultMu.Unlock()
		return cached, nil
	}
	m.results[path] = info
	m.resultMu.Unlock()

	return info, nil
}

func (m *Manager) parse(language string, content []byte) *FileInfo {
	lang := m.languageFor(language)
	if lang == nil {
		return &FileInfo{
			Language:    language,
			SyntaxError: &SyntaxError{Line: 1, Message: "grammar failed to load"},
		}
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		m.logger.Warn("failed to set grammar", zap.String("language", language), zap.Error(err))
		return &FileInfo{
			Language:    language,
			SyntaxError: &SyntaxError{Line: 1, Message: "grammar failed to load"},
		}
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return &FileInfo{
			Language:    language,
			SyntaxError: &SyntaxError{Line: 1, Message: "parse produced no tree"},
		}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return &FileInfo{
			Language: language,
			SyntaxError: &SyntaxError{
				Line:    firstErrorLine(root),
				Message: "syntax error",
			},
		}
	}

	visitor := newFileVisitor(language, content, m.maxNestingDepth)
	visitor.visit(root)
	return visitor.info
}

// languageFor returns the cached grammar, loading it on first use.
func (m *Manager) languageFor(language string) *tree_sitter.Language {
	m.mu.RLock()
	lang, ok := m.languages[language]
	m.mu.RUnlock()
	if ok {
		return lang
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if lang, ok := m.languages[language]; ok {
		return lang
	}

	loader, ok := languageLoaders[language]
	if !ok {
		return nil
	}
	lang = loader()
	m.languages[language] = lang
	return lang
}
