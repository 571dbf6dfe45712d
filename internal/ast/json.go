package ast

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Toplevel:
		return m("Toplevel", "body", nodeSlice(n.Body))
	case *Block:
		return m("Block", "stmts", nodeSlice(n.Stmts))

	// ---- Expressions ----
	case *Ident:
		return m("Ident", "name", n.Name)
	case *StringLiteral:
		return m("StringLiteral", "value", n.Value)
	case *NumberLiteral:
		return m("NumberLiteral", "value", n.Value)
	case *CallExpr:
		return m("CallExpr",
			"callee", NodeToMap(n.Callee),
			"args", nodeSlice(n.Args))
	case *IndexExpr:
		return m("IndexExpr",
			"object", NodeToMap(n.Object),
			"index", NodeToMap(n.Index))
	case *BinaryExpr:
		return m("BinaryExpr",
			"op", n.Op,
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *PrefixExpr:
		return m("PrefixExpr", "op", n.Op, "operand", NodeToMap(n.Operand))
	case *CondExpr:
		return m("CondExpr",
			"condition", NodeToMap(n.Cond),
			"then", NodeToMap(n.Then),
			"else", NodeToMap(n.Else))

	// ---- Statements ----
	case *ExprStmt:
		return m("ExprStmt", "expr", NodeToMap(n.Expr))
	case *FuncDecl:
		return m("FuncDecl",
			"name", n.Name,
			"params", stringSlice(n.Params),
			"body", nodeSlice(n.Body))
	case *VarDecl:
		bindings := make([]interface{}, len(n.Bindings))
		for i, b := range n.Bindings {
			binding := map[string]interface{}{"name": b.Name}
			if b.Init != nil {
				binding["init"] = NodeToMap(b.Init)
			}
			bindings[i] = binding
		}
		return m("VarDecl", "bindings", bindings)
	case *ReturnStmt:
		result := m("ReturnStmt")
		if n.Value != nil {
			result["value"] = NodeToMap(n.Value)
		}
		return result
	case *IfStmt:
		result := m("IfStmt",
			"condition", NodeToMap(n.Cond),
			"then", NodeToMap(n.Then))
		if n.Else != nil {
			result["else"] = NodeToMap(n.Else)
		}
		return result
	case *WhileStmt:
		return m("WhileStmt",
			"condition", NodeToMap(n.Cond),
			"body", NodeToMap(n.Body))
	case *DoWhileStmt:
		return m("DoWhileStmt",
			"body", NodeToMap(n.Body),
			"condition", NodeToMap(n.Cond))
	case *BreakStmt:
		return labeled("BreakStmt", n.Label)
	case *ContinueStmt:
		return labeled("ContinueStmt", n.Label)

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

// m builds a map with kind and extra key-value pairs.
func m(kind string, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func labeled(kind, label string) map[string]interface{} {
	result := m(kind)
	if label != "" {
		result["label"] = label
	}
	return result
}

func nodeSlice(nodes []Node) []interface{} {
	result := make([]interface{}, len(nodes))
	for i, n := range nodes {
		result[i] = NodeToMap(n)
	}
	return result
}

func stringSlice(s []string) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = v
	}
	return result
}
