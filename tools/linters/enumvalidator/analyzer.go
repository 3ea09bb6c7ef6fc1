package enumvalidator

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

var Analyzer = &analysis.Analyzer{
	Name: "enumvalidator",
	Doc:  "checks that enum fields only use defined constants, not string literals",
	Run:  run,
}

// enumTypes mirror database enums and queue task types; a stray literal
// there fails at insert time or lands in the DLQ.
var enumTypes = map[string]bool{
	"IssueType":     true,
	"IssuePriority": true,
	"SyncKind":      true,
	"SyncRunStatus": true,
	"TaskType":      true,
}

func run(pass *analysis.Pass) (any, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			switch node := n.(type) {
			case *ast.AssignStmt:
				for i, lhs := range node.Lhs {
					if i >= len(node.Rhs) {
						continue
					}
					sel, ok := lhs.(*ast.SelectorExpr)
					if !ok {
						continue
					}
					if isEnum(pass, sel) && isStringLiteral(node.Rhs[i]) {
						report(pass, node.Pos(), sel.Sel.Name)
					}
				}
			case *ast.KeyValueExpr:
				key, ok := node.Key.(*ast.Ident)
				if !ok {
					return true
				}
				if isEnum(pass, node.Value) && isStringLiteral(node.Value) {
					report(pass, node.Pos(), key.Name)
				}
			}
			return true
		})
	}
	return nil, nil
}

func report(pass *analysis.Pass, pos token.Pos, field string) {
	pass.Reportf(pos, "enum field %s assigned string literal; use defined constant instead", field)
}

// isEnum reports whether expr is typed as one of the enum types. An untyped
// literal in a typed slot takes the slot's type.
func isEnum(pass *analysis.Pass, expr ast.Expr) bool {
	named, ok := pass.TypesInfo.TypeOf(expr).(*types.Named)
	return ok && enumTypes[named.Obj().Name()]
}

func isStringLiteral(expr ast.Expr) bool {
	lit, ok := expr.(*ast.BasicLit)
	return ok && lit.Kind == token.STRING
}
