package parser

// Node-kind tables driving the structural visitor. Tree-sitter grammars
// use broadly consistent kind names; language-specific additions are
// merged over the shared sets at init time.

var sharedFunctionKinds = map[string]bool{
	"function_definition":  true,
	"function_declaration": true,
	"method_definition":    true,
	"method_declaration":   true,
}

var functionKindsByLanguage = map[string]map[string]bool{
	"javascript": {
		"generator_function_declaration": true,
		"arrow_function":                 true,
		"function_expression":            true,
	},
	"typescript": {
		"generator_function_declaration": true,
		"arrow_function":                 true,
		"function_expression":            true,
	},
	"java": {
		"constructor_declaration": true,
	},
	"rust": {
		"function_item": true,
	},
	"csharp": {
		"constructor_declaration":  true,
		"local_function_statement": true,
	},
}

var sharedClassKinds = map[string]bool{
	"class_definition":  true,
	"class_declaration": true,
}

var classKindsByLanguage = map[string]map[string]bool{
	"java": {
		"interface_declaration": true,
		"enum_declaration":      true,
		"record_declaration":    true,
	},
	"go": {
		"type_declaration": true,
	},
	"rust": {
		"struct_item": true,
		"enum_item":   true,
		"trait_item":  true,
	},
	"cpp": {
		"class_specifier":  true,
		"struct_specifier": true,
	},
	"csharp": {
		"struct_declaration":    true,
		"interface_declaration": true,
		"record_declaration":    true,
	},
	"php": {
		"interface_declaration": true,
		"trait_declaration":     true,
	},
}

var importKindsByLanguage = map[string]map[string]bool{
	"python":     {"import_statement": true, "import_from_statement": true},
	"javascript": {"import_statement": true},
	"typescript": {"import_statement": true},
	"java":       {"import_declaration": true},
	"go":         {"import_spec": true},
	"rust":       {"use_declaration": true},
	"cpp":        {"preproc_include": true, "using_declaration": true},
	"csharp":     {"using_directive": true},
	"php":        {"namespace_use_declaration": true},
	"zig":        {},
}

// branchKinds are decision points adding one to cyclomatic complexity.
// else clauses are handled separately: only else clauses of try blocks
// count, per the complexity model.
var branchKinds = map[string]bool{
	"if_statement":           true,
	"if_expression":          true,
	"elif_clause":            true,
	"conditional_expression": true,
	"ternary_expression":     true,
	"for_statement":          true,
	"for_in_statement":       true,
	"for_expression":         true,
	"enhanced_for_statement": true,
	"while_statement":        true,
	"while_expression":       true,
	"do_statement":           true,
	"case_clause":            true,
	"case_statement":         true,
	"switch_section":         true,
	"match_arm":              true,
	"expression_case":        true, // go switch cases
	"type_case":              true,
	"communication_case":     true,
	"guard_clause":           true,
}

// handlerKinds are exception handlers; each adds one to complexity.
var handlerKinds = map[string]bool{
	"except_clause":       true,
	"except_group_clause": true,
	"catch_clause":        true,
	"catch_block":         true,
}

// nestingKinds increment the nesting-depth counter while the visitor is
// inside them. Depths beyond the configured threshold are recorded as
// deep-nesting events at the line of entry.
var nestingKinds = map[string]bool{
	"if_statement":           true,
	"if_expression":          true,
	"for_statement":          true,
	"for_in_statement":       true,
	"for_expression":         true,
	"enhanced_for_statement": true,
	"while_statement":        true,
	"while_expression":       true,
	"do_statement":           true,
	"with_statement":         true,
	"try_statement":          true,
	"try_expression":         true,
	"switch_statement":       true,
	"match_statement":        true,
}

// booleanOperatorKinds combine two operands; each occurrence adds
// operands-1 == 1 to complexity (chained operators nest, so counting
// nodes is exact).
var booleanOperatorKinds = map[string]bool{
	"boolean_operator": true, // python and/or
}

func functionKinds(language string) map[string]bool {
	return mergedKinds(sharedFunctionKinds, functionKindsByLanguage[language])
}

func classKinds(language string) map[string]bool {
	return mergedKinds(sharedClassKinds, classKindsByLanguage[language])
}

func importKinds(language string) map[string]bool {
	return importKindsByLanguage[language]
}

func mergedKinds(shared, extra map[string]bool) map[string]bool {
	if len(extra) == 0 {
		return shared
	}
	merged := make(map[string]bool, len(shared)+len(extra))
	for k, v := range shared {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
