package parser

// Builder materializes AST nodes for the parser. N is the consumer's node
// handle; the parser only stores and passes handles, it never inspects them.
//
// Optional handles (a var binding without initializer, a bare return, an if
// without else) are passed as the zero value of N. Every operation may fail;
// a non-nil error aborts the parse.
type Builder[N any] interface {
	MakeToplevel() (N, error)
	MakeBlock() (N, error)
	// AppendToBlock appends to a block, the toplevel, or a function body.
	AppendToBlock(block, element N) error
	MakeStatement(element N) (N, error)

	MakeFunction(name string) (N, error)
	AppendArgumentToFunction(fn N, arg string) error
	MakeVar() (N, error)
	AppendToVar(v N, name string, value N) error
	MakeReturn(value N) (N, error)
	MakeIf(cond, ifTrue, ifFalse N) (N, error)
	MakeWhile(cond, body N) (N, error)
	MakeDo(body, cond N) (N, error)
	MakeBreak(label string) (N, error)
	MakeContinue(label string) (N, error)

	MakeName(name string) (N, error)
	MakeString(value string) (N, error)
	MakeNumber(value float64) (N, error)
	MakeCall(target N) (N, error)
	AppendToCall(call, arg N) error
	MakeIndexing(target, index N) (N, error)
	MakeBinary(left N, op string, right N) (N, error)
	MakePrefix(op string, operand N) (N, error)
	MakeConditional(cond, ifTrue, ifFalse N) (N, error)
}
