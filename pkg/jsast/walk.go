package jsast

// Children returns the direct child nodes of n in source order. Nil children
// and opaque type nodes are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if c == nil || isNilNode(c) {
				continue
			}
			out = append(out, c)
		}
	}
	switch n := n.(type) {
	case *Program:
		add(n.Body...)
	case *TemplateLiteral:
		add(n.Tag)
		add(n.Exprs...)
	case *ArrayExpr:
		add(n.Elements...)
	case *ObjectExpr:
		add(n.Props...)
	case *Property:
		if n.Shorthand {
			add(n.Value)
		} else {
			add(n.Key, n.Value)
		}
	case *SpreadElement:
		add(n.Arg)
	case *Function:
		if n.Name != nil {
			add(n.Name)
		}
		add(n.Params...)
		add(n.Body)
	case *Class:
		if n.Name != nil {
			add(n.Name)
		}
		add(n.Super)
		add(n.Members...)
	case *ClassMember:
		add(n.Key, n.Value)
	case *CallExpr:
		add(n.Callee)
		add(n.Args...)
	case *NewExpr:
		add(n.Callee)
		add(n.Args...)
	case *MemberExpr:
		add(n.Object, n.Property)
	case *UnaryExpr:
		add(n.Arg)
	case *UpdateExpr:
		add(n.Arg)
	case *BinaryExpr:
		add(n.Left, n.Right)
	case *AssignExpr:
		add(n.Left, n.Right)
	case *CondExpr:
		add(n.Test, n.Cons, n.Alt)
	case *SeqExpr:
		add(n.Exprs...)
	case *AwaitExpr:
		add(n.Arg)
	case *YieldExpr:
		add(n.Arg)
	case *ParenExpr:
		add(n.Expr)
	case *TypeAssertion:
		add(n.Expr)
	case *ObjectPattern:
		add(n.Props...)
	case *ArrayPattern:
		add(n.Elements...)
	case *AssignPattern:
		add(n.Left, n.Right)
	case *RestElement:
		add(n.Arg)
	case *Param:
		add(n.Pattern)
	case *VarDecl:
		for _, d := range n.Decls {
			add(d)
		}
	case *VarDeclarator:
		add(n.ID, n.Init)
	case *ExprStmt:
		add(n.Expr)
	case *BlockStmt:
		add(n.Body...)
	case *IfStmt:
		add(n.Test, n.Cons, n.Alt)
	case *ForStmt:
		add(n.Init, n.Test, n.Update, n.Body)
	case *ForInStmt:
		add(n.Left, n.Right, n.Body)
	case *WhileStmt:
		add(n.Test, n.Body)
	case *DoWhileStmt:
		add(n.Body, n.Test)
	case *SwitchStmt:
		add(n.Disc)
		for _, c := range n.Cases {
			add(c)
		}
	case *SwitchCase:
		add(n.Test)
		add(n.Body...)
	case *TryStmt:
		if n.Block != nil {
			add(n.Block)
		}
		add(n.Param)
		if n.Handler != nil {
			add(n.Handler)
		}
		if n.Finalizer != nil {
			add(n.Finalizer)
		}
	case *ReturnStmt:
		add(n.Arg)
	case *ThrowStmt:
		add(n.Arg)
	case *LabeledStmt:
		add(n.Body)
	case *ImportDecl:
		for _, s := range n.Specifiers {
			add(s)
		}
		if n.Source != nil {
			add(n.Source)
		}
	case *ExportNamed:
		add(n.Decl)
		for _, s := range n.Specifiers {
			add(s)
		}
	case *ExportDefault:
		add(n.Decl)
	case *BadNode:
		for _, id := range n.Idents {
			add(id)
		}
	}
	return out
}

// isNilNode catches typed nil pointers stored in a Node interface.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *BlockStmt:
		return v == nil
	case *Ident:
		return v == nil
	case *Literal:
		return v == nil
	case *TypeNode:
		return v == nil
	case *Function:
		return v == nil
	}
	return false
}

// Inspect traverses the tree rooted at n in depth-first order. If f returns
// false the children of the node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || isNilNode(n) || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// ContainsAwait reports whether an await expression (or for-await) appears
// anywhere under n, including nested functions.
func ContainsAwait(n Node) bool {
	found := false
	Inspect(n, func(c Node) bool {
		if found {
			return false
		}
		switch c := c.(type) {
		case *AwaitExpr:
			found = true
		case *ForInStmt:
			if c.Await {
				found = true
			}
		}
		return !found
	})
	return found
}

// Unparen strips parentheses and type assertions.
func Unparen(n Node) Node {
	for {
		switch v := n.(type) {
		case *ParenExpr:
			n = v.Expr
		case *TypeAssertion:
			n = v.Expr
		default:
			return n
		}
	}
}

// IsNil reports whether n is nil or a typed nil pointer.
func IsNil(n Node) bool {
	return n == nil || isNilNode(n)
}
