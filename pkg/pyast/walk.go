package pyast

import "strings"

// Inspect traverses the tree rooted at n in depth-first source order, calling f for every node.
// If f returns false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}

	switch v := n.(type) {
	case *Module:
		inspectStmts(v.Body, f)
	case *FunctionDef:
		inspectExprs(v.Decorators, f)
		inspectExprs(v.Params, f)
		inspectExpr(v.Returns, f)
		inspectStmts(v.Body, f)
	case *ClassDef:
		inspectExprs(v.Decorators, f)
		inspectExprs(v.Bases, f)
		inspectStmts(v.Body, f)
	case *If:
		inspectExpr(v.Test, f)
		inspectStmts(v.Body, f)
		inspectStmts(v.Orelse, f)
	case *For:
		inspectExpr(v.Target, f)
		inspectExpr(v.Iter, f)
		inspectStmts(v.Body, f)
		inspectStmts(v.Orelse, f)
	case *While:
		inspectExpr(v.Test, f)
		inspectStmts(v.Body, f)
		inspectStmts(v.Orelse, f)
	case *Try:
		inspectStmts(v.Body, f)
		for _, handler := range v.Handlers {
			if handler != nil {
				Inspect(handler, f)
			}
		}
		inspectStmts(v.Orelse, f)
		inspectStmts(v.Finally, f)
	case *ExceptHandler:
		inspectExpr(v.Type, f)
		inspectStmts(v.Body, f)
	case *With:
		inspectExprs(v.Items, f)
		inspectStmts(v.Body, f)
	case *Match:
		inspectExprs(v.Subject, f)
		for _, c := range v.Cases {
			if c != nil {
				Inspect(c, f)
			}
		}
	case *MatchCase:
		inspectExprs(v.Patterns, f)
		inspectExpr(v.Guard, f)
		inspectStmts(v.Body, f)
	case *ExprStmt:
		inspectExpr(v.Value, f)
	case *SimpleStmt:
		inspectExprs(v.Exprs, f)
		inspectStmts(v.Body, f)
	case *BoolOp:
		inspectExprs(v.Values, f)
	case *Concat:
		for _, part := range v.Parts {
			if part != nil {
				Inspect(part, f)
			}
		}
	case *Lambda:
		inspectExprs(v.Params, f)
		inspectExpr(v.Body, f)
	case *OtherExpr:
		inspectExprs(v.Children, f)
	case *Import, *ImportFrom, *Str, *Ident:
		// leaves
	}
}

func inspectStmts(list []Stmt, f func(Node) bool) {
	for _, s := range list {
		if s != nil {
			Inspect(s, f)
		}
	}
}

func inspectExprs(list []Expr, f func(Node) bool) {
	for _, e := range list {
		inspectExpr(e, f)
	}
}

func inspectExpr(e Expr, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

// IsPlain reports whether the literal is a text string usable as a docstring:
// byte strings and f-strings are not.
func (s *Str) IsPlain() bool {
	if s == nil {
		return false
	}
	prefix := strings.ToLower(s.Prefix)
	return !strings.ContainsAny(prefix, "bf")
}

// Docstring returns the leading documentation string of a body the way ast.get_docstring
// finds it: the first statement must be an expression statement holding a plain string
// literal or an implicit concatenation of plain literals.
func Docstring(body []Stmt) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	stmt, ok := body[0].(*ExprStmt)
	if !ok {
		return "", false
	}

	switch value := stmt.Value.(type) {
	case *Str:
		if value.IsPlain() {
			return value.Text, true
		}
	case *Concat:
		if len(value.Parts) == 0 {
			return "", false
		}
		texts := make([]string, 0, len(value.Parts))
		for _, part := range value.Parts {
			if !part.IsPlain() {
				return "", false
			}
			texts = append(texts, part.Text)
		}
		return strings.Join(texts, ""), true
	}
	return "", false
}
