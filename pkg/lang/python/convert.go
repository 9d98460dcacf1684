package python

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/odvcencio/pyaudit/pkg/pyast"
)

// converter maps tree-sitter Python nodes onto pyast variants.
type converter struct {
	src []byte
}

func (c *converter) module(root *sitter.Node) *pyast.Module {
	return &pyast.Module{
		Pos:  pyast.Pos{Line: 1},
		Body: c.statements(root),
	}
}

func pos(n *sitter.Node) pyast.Pos {
	return pyast.Pos{Line: int(n.StartPoint().Row) + 1}
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(c.src)
}

// isExtra reports nodes that may appear anywhere and carry no structure.
func isExtra(n *sitter.Node) bool {
	switch n.Type() {
	case "comment", "line_continuation":
		return true
	}
	return false
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == nil || isExtra(child) {
			continue
		}
		out = append(out, child)
	}
	return out
}

func hasToken(n *sitter.Node, token string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child != nil && !child.IsNamed() && child.Type() == token {
			return true
		}
	}
	return false
}

// suite returns the block stored under field, falling back to the first block child.
func suite(n *sitter.Node, field string) *sitter.Node {
	if n == nil {
		return nil
	}
	if field != "" {
		if body := n.ChildByFieldName(field); body != nil {
			return body
		}
	}
	for _, child := range namedChildren(n) {
		if child.Type() == "block" {
			return child
		}
	}
	return nil
}

func (c *converter) statements(n *sitter.Node) []pyast.Stmt {
	children := namedChildren(n)
	out := make([]pyast.Stmt, 0, len(children))
	for _, child := range children {
		if stmt := c.statement(child); stmt != nil {
			out = append(out, stmt)
		}
	}
	return out
}

func (c *converter) block(n *sitter.Node) []pyast.Stmt {
	if n == nil {
		return nil
	}
	return c.statements(n)
}

func (c *converter) statement(n *sitter.Node) pyast.Stmt {
	switch n.Type() {
	case "function_definition":
		return c.functionDef(n, nil)
	case "class_definition":
		return c.classDef(n, nil)
	case "decorated_definition":
		return c.decorated(n)
	case "if_statement":
		return c.ifStatement(n)
	case "for_statement":
		return &pyast.For{
			Pos:    pos(n),
			Async:  hasToken(n, "async"),
			Target: c.expr(n.ChildByFieldName("left")),
			Iter:   c.expr(n.ChildByFieldName("right")),
			Body:   c.block(suite(n, "body")),
			Orelse: c.elseBody(n.ChildByFieldName("alternative")),
		}
	case "while_statement":
		return &pyast.While{
			Pos:    pos(n),
			Test:   c.expr(n.ChildByFieldName("condition")),
			Body:   c.block(suite(n, "body")),
			Orelse: c.elseBody(n.ChildByFieldName("alternative")),
		}
	case "try_statement":
		return c.tryStatement(n)
	case "with_statement":
		return c.withStatement(n)
	case "match_statement":
		return c.matchStatement(n)
	case "import_statement":
		return &pyast.Import{Pos: pos(n), Names: c.aliases(namedChildren(n))}
	case "import_from_statement":
		return c.importFrom(n)
	case "future_import_statement":
		return &pyast.ImportFrom{Pos: pos(n), Module: "__future__", Names: c.aliases(namedChildren(n))}
	case "expression_statement":
		return c.expressionStatement(n)
	default:
		return c.simpleStatement(n)
	}
}

func (c *converter) decorated(n *sitter.Node) pyast.Stmt {
	decorators := make([]pyast.Expr, 0, 2)
	for _, child := range namedChildren(n) {
		if child.Type() != "decorator" {
			continue
		}
		for _, inner := range namedChildren(child) {
			decorators = append(decorators, c.expr(inner))
		}
	}

	definition := n.ChildByFieldName("definition")
	if definition == nil {
		return &pyast.SimpleStmt{Pos: pos(n), Kind: n.Type(), Exprs: decorators}
	}
	switch definition.Type() {
	case "function_definition":
		return c.functionDef(definition, decorators)
	case "class_definition":
		return c.classDef(definition, decorators)
	}
	return &pyast.SimpleStmt{Pos: pos(n), Kind: n.Type(), Exprs: decorators}
}

func (c *converter) functionDef(n *sitter.Node, decorators []pyast.Expr) *pyast.FunctionDef {
	fn := &pyast.FunctionDef{
		Pos:        pos(n),
		Name:       c.text(n.ChildByFieldName("name")),
		Async:      hasToken(n, "async"),
		Decorators: decorators,
		Body:       c.block(suite(n, "body")),
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		fn.Params = c.exprs(namedChildren(params))
	}
	if returns := n.ChildByFieldName("return_type"); returns != nil {
		fn.Returns = c.expr(returns)
	}
	return fn
}

func (c *converter) classDef(n *sitter.Node, decorators []pyast.Expr) *pyast.ClassDef {
	cls := &pyast.ClassDef{
		Pos:        pos(n),
		Name:       c.text(n.ChildByFieldName("name")),
		Decorators: decorators,
		Body:       c.block(suite(n, "body")),
	}
	if bases := n.ChildByFieldName("superclasses"); bases != nil {
		cls.Bases = c.exprs(namedChildren(bases))
	}
	return cls
}

// ifStatement chains elif clauses as nested If nodes in Orelse.
func (c *converter) ifStatement(n *sitter.Node) *pyast.If {
	head := &pyast.If{
		Pos:  pos(n),
		Test: c.expr(n.ChildByFieldName("condition")),
		Body: c.block(suite(n, "consequence")),
	}

	tail := head
	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "elif_clause":
			elif := &pyast.If{
				Pos:  pos(child),
				Elif: true,
				Test: c.expr(child.ChildByFieldName("condition")),
				Body: c.block(suite(child, "consequence")),
			}
			tail.Orelse = []pyast.Stmt{elif}
			tail = elif
		case "else_clause":
			tail.Orelse = c.block(suite(child, "body"))
		}
	}
	return head
}

func (c *converter) elseBody(n *sitter.Node) []pyast.Stmt {
	if n == nil {
		return nil
	}
	return c.block(suite(n, "body"))
}

func (c *converter) tryStatement(n *sitter.Node) *pyast.Try {
	try := &pyast.Try{
		Pos:  pos(n),
		Body: c.block(suite(n, "body")),
	}
	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "except_clause", "except_group_clause":
			if child.Type() == "except_group_clause" {
				try.Star = true
			}
			handler := &pyast.ExceptHandler{Pos: pos(child)}
			for _, part := range namedChildren(child) {
				if part.Type() == "block" {
					handler.Body = c.block(part)
					continue
				}
				if handler.Type == nil {
					handler.Type = c.expr(part)
				}
			}
			try.Handlers = append(try.Handlers, handler)
		case "else_clause":
			try.Orelse = c.block(suite(child, "body"))
		case "finally_clause":
			try.Finally = c.block(suite(child, ""))
		}
	}
	return try
}

func (c *converter) withStatement(n *sitter.Node) *pyast.With {
	with := &pyast.With{
		Pos:   pos(n),
		Async: hasToken(n, "async"),
		Body:  c.block(suite(n, "body")),
	}
	for _, child := range namedChildren(n) {
		if child.Type() != "with_clause" {
			continue
		}
		for _, item := range namedChildren(child) {
			with.Items = append(with.Items, c.expr(item))
		}
	}
	return with
}

func (c *converter) matchStatement(n *sitter.Node) *pyast.Match {
	match := &pyast.Match{Pos: pos(n)}
	body := suite(n, "body")
	for _, child := range namedChildren(n) {
		if body != nil && child.StartByte() == body.StartByte() && child.Type() == body.Type() {
			continue
		}
		match.Subject = append(match.Subject, c.expr(child))
	}
	for _, clause := range namedChildren(body) {
		if clause.Type() != "case_clause" {
			continue
		}
		matchCase := &pyast.MatchCase{Pos: pos(clause)}
		for _, part := range namedChildren(clause) {
			switch part.Type() {
			case "block":
				matchCase.Body = c.block(part)
			case "if_clause":
				inner := namedChildren(part)
				if len(inner) > 0 {
					matchCase.Guard = c.expr(inner[0])
				}
			default:
				matchCase.Patterns = append(matchCase.Patterns, c.expr(part))
			}
		}
		match.Cases = append(match.Cases, matchCase)
	}
	return match
}

func (c *converter) importFrom(n *sitter.Node) *pyast.ImportFrom {
	stmt := &pyast.ImportFrom{Pos: pos(n)}
	moduleNode := n.ChildByFieldName("module_name")
	if moduleNode != nil {
		switch moduleNode.Type() {
		case "relative_import":
			for _, part := range namedChildren(moduleNode) {
				switch part.Type() {
				case "import_prefix":
					stmt.Level = strings.Count(c.text(part), ".")
				case "dotted_name":
					stmt.Module = dottedName(c.text(part))
				}
			}
		default:
			stmt.Module = dottedName(c.text(moduleNode))
		}
	}

	names := make([]*sitter.Node, 0, 4)
	for _, child := range namedChildren(n) {
		if moduleNode != nil && child.StartByte() == moduleNode.StartByte() {
			continue
		}
		names = append(names, child)
	}
	stmt.Names = c.aliases(names)
	return stmt
}

func (c *converter) aliases(nodes []*sitter.Node) []pyast.Alias {
	out := make([]pyast.Alias, 0, len(nodes))
	for _, n := range nodes {
		switch n.Type() {
		case "dotted_name", "identifier":
			out = append(out, pyast.Alias{Name: dottedName(c.text(n))})
		case "aliased_import":
			out = append(out, pyast.Alias{
				Name:   dottedName(c.text(n.ChildByFieldName("name"))),
				AsName: c.text(n.ChildByFieldName("alias")),
			})
		case "wildcard_import":
			out = append(out, pyast.Alias{Name: "*"})
		}
	}
	return out
}

func dottedName(text string) string {
	return strings.Join(strings.Fields(text), "")
}

func (c *converter) expressionStatement(n *sitter.Node) pyast.Stmt {
	children := namedChildren(n)
	if len(children) == 1 {
		return &pyast.ExprStmt{Pos: pos(n), Value: c.expr(children[0])}
	}
	return &pyast.ExprStmt{
		Pos:   pos(n),
		Value: &pyast.OtherExpr{Pos: pos(n), Kind: "expression_list", Children: c.exprs(children)},
	}
}

func (c *converter) simpleStatement(n *sitter.Node) *pyast.SimpleStmt {
	stmt := &pyast.SimpleStmt{Pos: pos(n), Kind: n.Type()}
	for _, child := range namedChildren(n) {
		if child.Type() == "block" {
			stmt.Body = append(stmt.Body, c.block(child)...)
			continue
		}
		stmt.Exprs = append(stmt.Exprs, c.expr(child))
	}
	return stmt
}

func (c *converter) exprs(nodes []*sitter.Node) []pyast.Expr {
	out := make([]pyast.Expr, 0, len(nodes))
	for _, n := range nodes {
		if e := c.expr(n); e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (c *converter) expr(n *sitter.Node) pyast.Expr {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "boolean_operator":
		return c.boolOp(n)
	case "string":
		return c.str(n)
	case "concatenated_string":
		return c.concat(n)
	case "lambda":
		lambda := &pyast.Lambda{Pos: pos(n), Body: c.expr(n.ChildByFieldName("body"))}
		if params := n.ChildByFieldName("parameters"); params != nil {
			lambda.Params = c.exprs(namedChildren(params))
		}
		return lambda
	case "identifier":
		return &pyast.Ident{Pos: pos(n), Name: c.text(n)}
	case "parenthesized_expression":
		// grouping parentheses leave no node behind
		if children := namedChildren(n); len(children) == 1 {
			return c.expr(children[0])
		}
		return &pyast.OtherExpr{Pos: pos(n), Kind: n.Type(), Children: c.exprs(namedChildren(n))}
	default:
		return &pyast.OtherExpr{Pos: pos(n), Kind: n.Type(), Children: c.exprs(namedChildren(n))}
	}
}

func boolOperator(n *sitter.Node) pyast.BoolOperator {
	if op := n.ChildByFieldName("operator"); op != nil {
		return pyast.BoolOperator(op.Type())
	}
	if hasToken(n, "or") {
		return pyast.Or
	}
	return pyast.And
}

// boolOp flattens unparenthesised chains of the same operator into one node, as CPython does.
func (c *converter) boolOp(n *sitter.Node) *pyast.BoolOp {
	op := boolOperator(n)
	node := &pyast.BoolOp{Pos: pos(n), Op: op}

	var collect func(side *sitter.Node)
	collect = func(side *sitter.Node) {
		if side == nil {
			return
		}
		if side.Type() == "boolean_operator" && boolOperator(side) == op {
			collect(side.ChildByFieldName("left"))
			collect(side.ChildByFieldName("right"))
			return
		}
		node.Values = append(node.Values, c.expr(side))
	}
	collect(n.ChildByFieldName("left"))
	collect(n.ChildByFieldName("right"))
	return node
}

func stringPrefix(text string) string {
	for i, r := range text {
		if r == '\'' || r == '"' {
			return text[:i]
		}
	}
	return ""
}

// str returns a *pyast.Str, or a container holding the literal and its interpolated
// expressions when the literal is an f-string with replacement fields.
func (c *converter) str(n *sitter.Node) pyast.Expr {
	text := c.text(n)
	literal := &pyast.Str{Pos: pos(n), Prefix: stringPrefix(text), Text: text}

	var interpolations []pyast.Expr
	for _, child := range namedChildren(n) {
		if child.Type() != "interpolation" {
			continue
		}
		interpolations = append(interpolations, c.exprs(namedChildren(child))...)
	}
	if len(interpolations) == 0 {
		return literal
	}
	return &pyast.OtherExpr{
		Pos:      pos(n),
		Kind:     "formatted_string",
		Children: append([]pyast.Expr{literal}, interpolations...),
	}
}

func (c *converter) concat(n *sitter.Node) pyast.Expr {
	children := namedChildren(n)
	parts := make([]*pyast.Str, 0, len(children))
	all := make([]pyast.Expr, 0, len(children))
	plain := true
	for _, child := range children {
		e := c.expr(child)
		all = append(all, e)
		if s, ok := e.(*pyast.Str); ok {
			parts = append(parts, s)
			continue
		}
		plain = false
	}
	if !plain {
		return &pyast.OtherExpr{Pos: pos(n), Kind: n.Type(), Children: all}
	}
	return &pyast.Concat{Pos: pos(n), Parts: parts}
}
