package parser

// Depth reports the number of open nesting levels.
func Depth[N any](p *Parser[N]) int {
	return len(p.levels)
}
