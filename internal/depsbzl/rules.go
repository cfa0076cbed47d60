package depsbzl

import (
	"fmt"
	"os"

	"github.com/bazelbuild/buildtools/build"
)

// Rule is a go_repository declaration read structurally from a
// deps.bzl file. Attributes that are absent or not string literals
// are left empty.
type Rule struct {
	Name       string
	ImportPath string
	Sum        string
	Version    string
}

// Rules parses the deps.bzl file at path and returns its go_repository
// rules in document order.
//
// Unlike Update, this uses a real Starlark parser, so it sees rules
// regardless of attribute order or formatting. Rules are collected
// from the top level, from macro bodies (the usual
// "def go_dependencies():" wrapper), and from if-blocks such as
// "if not native.existing_rule(...)".
func Rules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	f, err := build.ParseBzl(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var rules []Rule
	collectRules(f.Stmt, &rules)
	return rules, nil
}

// collectRules walks statements recursively, gathering go_repository calls.
func collectRules(stmts []build.Expr, rules *[]Rule) {
	for _, stmt := range stmts {
		switch st := stmt.(type) {
		case *build.DefStmt:
			collectRules(st.Body, rules)
		case *build.IfStmt:
			collectRules(st.True, rules)
			collectRules(st.False, rules)
		case *build.ForStmt:
			collectRules(st.Body, rules)
		case *build.CallExpr:
			if ident, ok := st.X.(*build.Ident); ok && ident.Name == "go_repository" {
				*rules = append(*rules, Rule{
					Name:       stringAttr(st, "name"),
					ImportPath: stringAttr(st, "importpath"),
					Sum:        stringAttr(st, "sum"),
					Version:    stringAttr(st, "version"),
				})
			}
		}
	}
}

// stringAttr returns the string literal value of a keyword argument,
// or "" if the argument is absent or not a plain string.
func stringAttr(call *build.CallExpr, name string) string {
	for _, arg := range call.List {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			continue
		}
		key, ok := assign.LHS.(*build.Ident)
		if !ok || key.Name != name {
			continue
		}
		if s, ok := assign.RHS.(*build.StringExpr); ok {
			return s.Value
		}
	}
	return ""
}
