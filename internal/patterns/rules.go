package patterns

import "github.com/codehawk/codehawk/internal/types"

// Rule categories. Analyzers select rules by category so security and
// performance scanning share one engine.
const (
	CategorySecurity    = "security"
	CategoryPerformance = "performance"
)

// GeneralLanguage is the rule group applied to every file regardless
// of its language.
const GeneralLanguage = "general"

// Rule is one data-driven text pattern. Matching is best-effort
// textual heuristics; Confidence is fixed per rule, not computed.
type Rule struct {
	ID             string         `toml:"id"`
	Category       string         `toml:"category"`
	Title          string         `toml:"title"`
	Severity       types.Severity `toml:"severity"`
	Matcher        string         `toml:"matcher"`
	Description    string         `toml:"description"`
	Recommendation string         `toml:"recommendation"`
	Confidence     float64        `toml:"confidence"`
}

// builtinRules is the built-in rule table, grouped by language.
// Patterns are data: extending the table never touches scan logic.
var builtinRules = map[string][]Rule{
	GeneralLanguage: {
		{
			ID:             "hardcoded-password",
			Category:       CategorySecurity,
			Title:          "Hardcoded credential",
			Severity:       types.SeverityCritical,
			Matcher:        `(?i)(password|passwd|pwd|secret|api_key|apikey|auth_token)\s*[:=]\s*["'][^"']{4,}["']`,
			Description:    "A credential appears to be hardcoded in source",
			Recommendation: "Move secrets to environment variables or a secret manager",
			Confidence:     0.9,
		},
		{
			ID:             "private-key-material",
			Category:       CategorySecurity,
			Title:          "Embedded private key",
			Severity:       types.SeverityCritical,
			Matcher:        `-----BEGIN (RSA |EC |OPENSSH )?PRIVATE KEY-----`,
			Description:    "Private key material committed to the source tree",
			Recommendation: "Revoke the key and load it from secure storage",
			Confidence:     0.9,
		},
		{
			ID:             "insecure-url",
			Category:       CategorySecurity,
			Title:          "Insecure HTTP URL",
			Severity:       types.SeverityLow,
			Matcher:        `["']http://(?:[a-zA-Z0-9.-]+)(?::\d+)?[^"']*["']`,
			Description:    "Plain HTTP endpoint referenced in source",
			Recommendation: "Use HTTPS unless the endpoint is local-only",
			Confidence:     0.7,
		},
	},
	"python": {
		{
			ID:             "python-eval",
			Category:       CategorySecurity,
			Title:          "Dynamic code evaluation",
			Severity:       types.SeverityHigh,
			Matcher:        `\beval\s*\(|\bexec\s*\(`,
			Description:    "eval/exec executes arbitrary strings as code",
			Recommendation: "Replace with explicit parsing or dispatch tables",
			Confidence:     0.9,
		},
		{
			ID:             "python-pickle-load",
			Category:       CategorySecurity,
			Title:          "Unsafe deserialization",
			Severity:       types.SeverityHigh,
			Matcher:        `\bpickle\.loads?\s*\(|\bcPickle\.loads?\s*\(`,
			Description:    "Unpickling untrusted data allows code execution",
			Recommendation: "Use a data-only format such as JSON",
			Confidence:     0.9,
		},
		{
			ID:             "python-yaml-load",
			Category:       CategorySecurity,
			Title:          "Unsafe YAML load",
			Severity:       types.SeverityHigh,
			Matcher:        `\byaml\.load\s*\(`,
			Description:    "yaml.load without SafeLoader can construct arbitrary objects",
			Recommendation: "Use yaml.safe_load",
			Confidence:     0.9,
		},
		{
			ID:             "python-shell-injection",
			Category:       CategorySecurity,
			Title:          "Shell command execution",
			Severity:       types.SeverityHigh,
			Matcher:        `\bos\.system\s*\(|\bsubprocess\.\w+\([^)]*shell\s*=\s*True`,
			Description:    "Shell invocation with interpolated input risks command injection",
			Recommendation: "Pass argument lists without shell=True",
			Confidence:     0.9,
		},
		{
			ID:             "python-sql-format",
			Category:       CategorySecurity,
			Title:          "SQL built by string formatting",
			Severity:       types.SeverityHigh,
			Matcher:        `(?i)(execute|executemany)\s*\(\s*(f["']|["'][^"']*%s|["'][^"']*\{)`,
			Description:    "Interpolating values into SQL enables injection",
			Recommendation: "Use parameterized queries",
			Confidence:     0.9,
		},
		{
			ID:             "python-weak-hash",
			Category:       CategorySecurity,
			Title:          "Weak hash algorithm",
			Severity:       types.SeverityMedium,
			Matcher:        `\bhashlib\.(md5|sha1)\s*\(`,
			Description:    "MD5/SHA1 are unsuitable for security purposes",
			Recommendation: "Use SHA-256 or stronger for security-sensitive hashing",
			Confidence:     0.9,
		},
		{
			ID:             "python-range-len",
			Category:       CategoryPerformance,
			Title:          "Index loop over range(len())",
			Severity:       types.SeverityLow,
			Matcher:        `for\s+\w+\s+in\s+range\s*\(\s*len\s*\(`,
			Description:    "Indexing via range(len()) is slower and less readable than direct iteration",
			Recommendation: "Iterate directly or use enumerate",
			Confidence:     0.8,
		},
		{
			ID:             "python-concat-in-loop",
			Category:       CategoryPerformance,
			Title:          "String concatenation in loop",
			Severity:       types.SeverityMedium,
			Matcher:        `(?m)^\s+\w+\s*\+=\s*(f?["']|str\()`,
			Description:    "Repeated string concatenation copies the buffer each iteration",
			Recommendation: "Accumulate parts in a list and join once",
			Confidence:     0.7,
		},
	},
	"javascript": {
		{
			ID:             "js-eval",
			Category:       CategorySecurity,
			Title:          "Dynamic code evaluation",
			Severity:       types.SeverityHigh,
			Matcher:        `\beval\s*\(|new\s+Function\s*\(`,
			Description:    "eval/new Function executes arbitrary strings as code",
			Recommendation: "Replace with explicit parsing or dispatch",
			Confidence:     0.9,
		},
		{
			ID:             "js-child-process",
			Category:       CategorySecurity,
			Title:          "Shell command execution",
			Severity:       types.SeverityHigh,
			Matcher:        `child_process\.exec\s*\(|\bexecSync\s*\(`,
			Description:    "exec runs through a shell; interpolated input risks injection",
			Recommendation: "Use execFile/spawn with argument arrays",
			Confidence:     0.9,
		},
		{
			ID:             "js-inner-html",
			Category:       CategorySecurity,
			Title:          "Direct HTML injection",
			Severity:       types.SeverityMedium,
			Matcher:        `\.innerHTML\s*=|document\.write\s*\(`,
			Description:    "Assigning raw markup enables cross-site scripting",
			Recommendation: "Use textContent or a sanitizing renderer",
			Confidence:     0.8,
		},
		{
			ID:             "js-sync-io",
			Category:       CategoryPerformance,
			Title:          "Synchronous filesystem call",
			Severity:       types.SeverityMedium,
			Matcher:        `\b(readFileSync|writeFileSync|existsSync|readdirSync)\s*\(`,
			Description:    "Synchronous I/O blocks the event loop",
			Recommendation: "Use the promise-based fs API",
			Confidence:     0.8,
		},
		{
			ID:             "js-json-deep-clone",
			Category:       CategoryPerformance,
			Title:          "JSON round-trip deep clone",
			Severity:       types.SeverityLow,
			Matcher:        `JSON\.parse\s*\(\s*JSON\.stringify`,
			Description:    "Serializing to clone is slow and drops non-JSON values",
			Recommendation: "Use structuredClone",
			Confidence:     0.8,
		},
	},
	"java": {
		{
			ID:             "java-runtime-exec",
			Category:       CategorySecurity,
			Title:          "Shell command execution",
			Severity:       types.SeverityHigh,
			Matcher:        `Runtime\.getRuntime\(\)\.exec\s*\(`,
			Description:    "Runtime.exec with interpolated input risks command injection",
			Recommendation: "Use ProcessBuilder with fixed argument lists",
			Confidence:     0.9,
		},
		{
			ID:             "java-object-deserialization",
			Category:       CategorySecurity,
			Title:          "Unsafe deserialization",
			Severity:       types.SeverityHigh,
			Matcher:        `new\s+ObjectInputStream\s*\(`,
			Description:    "Deserializing untrusted streams allows gadget-chain execution",
			Recommendation: "Use an allow-list filter or a data-only format",
			Confidence:     0.9,
		},
		{
			ID:             "java-weak-hash",
			Category:       CategorySecurity,
			Title:          "Weak hash algorithm",
			Severity:       types.SeverityMedium,
			Matcher:        `MessageDigest\.getInstance\s*\(\s*"(MD5|SHA-?1)"`,
			Description:    "MD5/SHA1 are unsuitable for security purposes",
			Recommendation: "Use SHA-256 or stronger",
			Confidence:     0.9,
		},
		{
			ID:             "java-string-concat-loop",
			Category:       CategoryPerformance,
			Title:          "String concatenation in loop",
			Severity:       types.SeverityMedium,
			Matcher:        `(?m)^\s+\w+\s*\+=\s*"`,
			Description:    "String += inside loops allocates a new string per iteration",
			Recommendation: "Use StringBuilder",
			Confidence:     0.7,
		},
	},
	"go": {
		{
			ID:             "go-exec-command",
			Category:       CategorySecurity,
			Title:          "Shell command execution",
			Severity:       types.SeverityMedium,
			Matcher:        `exec\.Command\s*\(\s*"(sh|bash|cmd)"`,
			Description:    "Spawning a shell with interpolated arguments risks injection",
			Recommendation: "Invoke the target binary directly with argument slices",
			Confidence:     0.9,
		},
		{
			ID:             "go-weak-hash",
			Category:       CategorySecurity,
			Title:          "Weak hash algorithm",
			Severity:       types.SeverityMedium,
			Matcher:        `\b(md5|sha1)\.(New|Sum)\b`,
			Description:    "MD5/SHA1 are unsuitable for security purposes",
			Recommendation: "Use crypto/sha256 or stronger for security-sensitive hashing",
			Confidence:     0.9,
		},
	},
	"php": {
		{
			ID:             "php-eval",
			Category:       CategorySecurity,
			Title:          "Dynamic code evaluation",
			Severity:       types.SeverityHigh,
			Matcher:        `\beval\s*\(|\bassert\s*\(\s*\$`,
			Description:    "eval executes arbitrary strings as code",
			Recommendation: "Remove eval; use explicit dispatch",
			Confidence:     0.9,
		},
		{
			ID:             "php-shell-exec",
			Category:       CategorySecurity,
			Title:          "Shell command execution",
			Severity:       types.SeverityHigh,
			Matcher:        "\\bshell_exec\\s*\\(|\\bsystem\\s*\\(|\\bpassthru\\s*\\(|`[^`]+`",
			Description:    "Shell execution with interpolated input risks command injection",
			Recommendation: "Use escapeshellarg or avoid shell invocation",
			Confidence:     0.9,
		},
	},
	"ruby": {
		{
			ID:             "ruby-eval",
			Category:       CategorySecurity,
			Title:          "Dynamic code evaluation",
			Severity:       types.SeverityHigh,
			Matcher:        `\beval\s*\(|\binstance_eval\b|\bclass_eval\b`,
			Description:    "eval executes arbitrary strings as code",
			Recommendation: "Use public_send or explicit dispatch",
			Confidence:     0.9,
		},
	},
}
