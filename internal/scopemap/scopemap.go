// Package scopemap is the static table mapping a host language id to the
// set of tree-sitter node types that satisfy each named semantic scope
// ("function", "class", "block", "signature", ...).
//
// The table is read-only at runtime (spec.md §4.3). It is consulted by
// internal/astscope when walking a parsed tree, never mutated.
//
// Node type names here are grounded on the grammars the core actually
// links against (see internal/astscope): go-tree-sitter's golang,
// python, typescript/typescript, bash, html, and yaml packages, in the
// same spirit as the reference tree's per-language query tables
// (services/code_buddy/ast/go_queries.go, typescript_queries.go,
// html_queries.go, css_queries.go, sql_queries.go).
package scopemap

// commonDefaults are the scope entries every language inherits unless it
// overrides them (spec.md §4.3: "Common defaults ... are defined once and
// merged where a language does not override them").
var commonDefaults = map[string][]string{
	"block":     {"block"},
	"statement": {"statement", "expression_statement"},
}

// languages holds each supported language's scope table before common
// defaults are merged in. A language entry overrides same-named keys of
// commonDefaults and inherits the rest.
var languages = map[string]map[string][]string{
	"go": {
		"function":  {"function_declaration", "method_declaration", "func_literal"},
		"class":     {"type_declaration", "type_spec"},
		"block":     {"block"},
		"signature": {"function_declaration", "method_declaration"},
		"statement": {"short_var_declaration", "assignment_statement", "expression_statement", "return_statement", "if_statement", "for_statement"},
	},
	"python": {
		"function":   {"function_definition"},
		"class":      {"class_definition"},
		"block":      {"block"},
		"signature":  {"function_definition"},
		"statement":  {"expression_statement", "assignment", "return_statement", "if_statement", "for_statement", "while_statement"},
		"docstring":  {"string", "expression_statement"},
		"decorator":  {"decorator"},
		"expression": {"expression_statement", "call"},
	},
	"javascript": {
		"function":   {"function_declaration", "function", "arrow_function", "method_definition", "generator_function_declaration"},
		"class":      {"class_declaration"},
		"block":      {"statement_block"},
		"signature":  {"function_declaration", "method_definition"},
		"statement":  {"expression_statement", "lexical_declaration", "variable_declaration", "return_statement", "if_statement", "for_statement"},
		"decorator":  {"decorator"},
		"expression": {"expression_statement", "call_expression"},
	},
	"typescript": {
		"function":   {"function_declaration", "function", "arrow_function", "method_definition", "generator_function_declaration"},
		"class":      {"class_declaration", "interface_declaration"},
		"block":      {"statement_block"},
		"signature":  {"function_declaration", "method_definition"},
		"statement":  {"expression_statement", "lexical_declaration", "variable_declaration", "return_statement", "if_statement", "for_statement"},
		"decorator":  {"decorator"},
		"value":      {"variable_declarator"},
		"expression": {"expression_statement", "call_expression"},
	},
	"tsx": {
		"function":  {"function_declaration", "function", "arrow_function", "method_definition"},
		"class":     {"class_declaration", "interface_declaration"},
		"block":     {"statement_block"},
		"signature": {"function_declaration", "method_definition"},
	},
	"bash": {
		"function":  {"function_definition"},
		"block":     {"compound_statement", "do_group"},
		"signature": {"function_definition"},
		"statement": {"command", "variable_assignment"},
	},
	"html": {
		"block": {"element"},
		"class": {"element"},
	},
	"yaml": {
		"block": {"block_mapping", "block_sequence"},
	},
	"css": {
		"block": {"block", "rule_set"},
	},
	"sql": {
		"function":  {"create_function_statement", "create_procedure_statement"},
		"block":     {"statement"},
		"statement": {"statement"},
	},
	"markdown": {
		"block": {"section", "fenced_code_block"},
	},
}

// ForLanguage returns the merged scope table for languageID: the
// language's own entries override commonDefaults for identical keys, and
// commonDefaults fill in any key the language does not define. An
// unrecognized languageID returns commonDefaults alone.
func ForLanguage(languageID string) map[string][]string {
	merged := make(map[string][]string, len(commonDefaults))
	for k, v := range commonDefaults {
		merged[k] = v
	}

	lang, ok := languages[languageID]
	if !ok {
		return merged
	}
	for k, v := range lang {
		merged[k] = v
	}
	return merged
}

// NodeTypesFor returns the node type set registered for scope within
// languageID, or nil if neither the language nor the common defaults
// define that scope name.
func NodeTypesFor(languageID, scope string) []string {
	return ForLanguage(languageID)[scope]
}

// IsNodeTypeInScope reports whether nodeType satisfies scope for
// languageID.
func IsNodeTypeInScope(languageID, scope, nodeType string) bool {
	for _, t := range NodeTypesFor(languageID, scope) {
		if t == nodeType {
			return true
		}
	}
	return false
}

// SupportedLanguages lists the language ids that have a scope table of
// their own. Having a table does not imply an AST grammar: css, sql,
// markdown, and tsx have tables but no grammar in internal/astscope, whose
// Supports is the check for that.
func SupportedLanguages() []string {
	out := make([]string, 0, len(languages))
	for k := range languages {
		out = append(out, k)
	}
	return out
}
