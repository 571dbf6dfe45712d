package grammar

// Default table for the asm.js subset. Tiers are listed tightest first.
func DefaultDefinition() Definition {
	return Definition{
		Keywords: []string{
			"var", "function", "if", "else", "do", "while", "return", "break", "continue",
		},
		Operators: []string{
			".", "!", "~", "-", "+", "*", "/", "%",
			"<<", ">>", ">>>", "<", "<=", ">", ">=", "==", "!=",
			"&", "^", "|", "&&", "||", "?", ":", "=", ",",
		},
		Separators: "()[]{};",
		Tiers: []TierDef{
			{Operators: []string{"."}, Assoc: LeftToRight, Arity: Binary},
			{Operators: []string{"!", "~", "+", "-"}, Assoc: RightToLeft, Arity: Prefix},
			{Operators: []string{"*", "/", "%"}, Assoc: LeftToRight, Arity: Binary},
			{Operators: []string{"+", "-"}, Assoc: LeftToRight, Arity: Binary},
			{Operators: []string{"<<", ">>", ">>>"}, Assoc: LeftToRight, Arity: Binary},
			{Operators: []string{"<", "<=", ">", ">="}, Assoc: LeftToRight, Arity: Binary},
			{Operators: []string{"==", "!="}, Assoc: LeftToRight, Arity: Binary},
			{Operators: []string{"&"}, Assoc: LeftToRight, Arity: Binary},
			{Operators: []string{"^"}, Assoc: LeftToRight, Arity: Binary},
			{Operators: []string{"|"}, Assoc: LeftToRight, Arity: Binary},
			{Operators: []string{"&&"}, Assoc: LeftToRight, Arity: Binary},
			{Operators: []string{"||"}, Assoc: LeftToRight, Arity: Binary},
			{Operators: []string{"?", ":"}, Assoc: RightToLeft, Arity: Tertiary},
			{Operators: []string{"="}, Assoc: RightToLeft, Arity: Binary},
			{Operators: []string{","}, Assoc: LeftToRight, Arity: Binary},
		},
	}
}

var defaultGrammar = mustCompile(DefaultDefinition())

// Default returns the compiled default grammar. It is shared and read-only.
func Default() *Grammar {
	return defaultGrammar
}

func mustCompile(d Definition) *Grammar {
	g, err := d.Compile()
	if err != nil {
		panic(err)
	}
	return g
}
