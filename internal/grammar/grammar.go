// Package grammar holds the lexical sets and the operator precedence table
// consumed by the scanner and the expression resolver.
//
// A Definition is plain data (it round-trips through TOML); Compile
// validates it and produces the Grammar the parser reads from. A Grammar is
// never mutated after compilation and may be shared between parsers.
package grammar

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set"
	"github.com/pkg/errors"
)

// ============================================================
// Associativity and arity
// ============================================================

// Assoc is the direction in which a tier is collapsed.
type Assoc int

const (
	LeftToRight Assoc = iota
	RightToLeft
)

func (a Assoc) String() string {
	switch a {
	case LeftToRight:
		return "ltr"
	case RightToLeft:
		return "rtl"
	default:
		return fmt.Sprintf("Assoc(%d)", int(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Assoc) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Assoc) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "ltr", "left-to-right":
		*a = LeftToRight
	case "rtl", "right-to-left":
		*a = RightToLeft
	default:
		return errors.Errorf("unknown associativity %q", text)
	}
	return nil
}

// Arity is the shape of the operators in a tier.
type Arity int

const (
	Binary Arity = iota
	Prefix
	Postfix
	Tertiary
)

var arityNames = map[Arity]string{
	Binary:   "binary",
	Prefix:   "prefix",
	Postfix:  "postfix",
	Tertiary: "tertiary",
}

func (a Arity) String() string {
	if s, ok := arityNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Arity(%d)", int(a))
}

// MarshalText implements encoding.TextMarshaler.
func (a Arity) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Arity) UnmarshalText(text []byte) error {
	for k, v := range arityNames {
		if v == strings.ToLower(string(text)) {
			*a = k
			return nil
		}
	}
	return errors.Errorf("unknown arity %q", text)
}

// ============================================================
// Definition (plain data)
// ============================================================

// TierDef is one row of the precedence table.
type TierDef struct {
	Operators []string
	Assoc     Assoc
	Arity     Arity
}

// Definition describes a grammar as plain data. OperatorInits and
// MaxOperatorSize are derived from Operators when left empty.
type Definition struct {
	Keywords        []string
	Operators       []string
	Separators      string
	OperatorInits   string `toml:",omitempty"`
	MaxOperatorSize int    `toml:",omitempty"`
	Tiers           []TierDef
}

// ============================================================
// Grammar (compiled)
// ============================================================

// byteSet is a 256-entry membership table for single-byte classes.
type byteSet [256]bool

func newByteSet(chars string) byteSet {
	var s byteSet
	for i := 0; i < len(chars); i++ {
		s[chars[i]] = true
	}
	return s
}

// Tier is a compiled precedence tier.
type Tier struct {
	ops   mapset.Set
	Assoc Assoc
	Arity Arity
}

// Has reports whether op belongs to the tier.
func (t Tier) Has(op string) bool {
	return t.ops.Contains(op)
}

// Operators returns the tier's operators in sorted order.
func (t Tier) Operators() []string {
	return sortedStrings(t.ops)
}

// Grammar is the compiled, read-only configuration.
type Grammar struct {
	keywords      mapset.Set
	operators     mapset.Set
	separators    byteSet
	operatorInits byteSet

	// MaxOperatorSize bounds the longest-match scan for operators.
	MaxOperatorSize int
	// Tiers are tried in order; earlier tiers bind tighter.
	Tiers []Tier

	def Definition
}

// IsKeyword reports whether ident is a reserved word.
func (g *Grammar) IsKeyword(ident string) bool {
	return g.keywords.Contains(ident)
}

// IsOperator reports whether s is exactly one operator.
func (g *Grammar) IsOperator(s string) bool {
	return g.operators.Contains(s)
}

// IsSeparator reports whether b is a one-byte separator.
func (g *Grammar) IsSeparator(b byte) bool {
	return g.separators[b]
}

// IsOperatorInit reports whether an operator may start with b.
func (g *Grammar) IsOperatorInit(b byte) bool {
	return g.operatorInits[b]
}

// Definition returns the normalized definition the grammar was compiled
// from, with derived fields filled in.
func (g *Grammar) Definition() Definition {
	return g.def
}

// Compile validates d and builds a Grammar.
func (d Definition) Compile() (*Grammar, error) {
	g := &Grammar{
		keywords:   mapset.NewThreadUnsafeSet(),
		operators:  mapset.NewThreadUnsafeSet(),
		separators: newByteSet(d.Separators),
	}

	for _, kw := range d.Keywords {
		if !isIdent(kw) {
			return nil, errors.Errorf("keyword %q is not an identifier", kw)
		}
		g.keywords.Add(kw)
	}

	inits := d.OperatorInits
	deriveInits := inits == ""
	maxSize := d.MaxOperatorSize
	deriveMax := maxSize == 0
	for _, op := range d.Operators {
		if op == "" {
			return nil, errors.New("empty operator")
		}
		if d.Separators != "" && strings.IndexByte(d.Separators, op[0]) >= 0 {
			return nil, errors.Errorf("operator %q starts with separator %q", op, op[0])
		}
		if deriveInits {
			if strings.IndexByte(inits, op[0]) < 0 {
				inits += op[:1]
			}
		} else if strings.IndexByte(inits, op[0]) < 0 {
			return nil, errors.Errorf("operator %q does not start with an operator-initial byte", op)
		}
		if deriveMax {
			if len(op) > maxSize {
				maxSize = len(op)
			}
		} else if len(op) > maxSize {
			return nil, errors.Errorf("operator %q is longer than MaxOperatorSize %d", op, maxSize)
		}
		g.operators.Add(op)
	}
	for i := 0; i < len(d.Separators); i++ {
		if strings.IndexByte(inits, d.Separators[i]) >= 0 {
			return nil, errors.Errorf("separator %q is also an operator-initial byte", d.Separators[i])
		}
	}
	g.operatorInits = newByteSet(inits)
	g.MaxOperatorSize = maxSize

	if len(d.Tiers) == 0 {
		return nil, errors.New("precedence table has no tiers")
	}
	for i, td := range d.Tiers {
		tier, err := g.compileTier(td)
		if err != nil {
			return nil, errors.Wrapf(err, "tier %d", i)
		}
		g.Tiers = append(g.Tiers, tier)
	}

	g.def = d
	g.def.OperatorInits = inits
	g.def.MaxOperatorSize = maxSize
	return g, nil
}

func (g *Grammar) compileTier(td TierDef) (Tier, error) {
	t := Tier{ops: mapset.NewThreadUnsafeSet(), Assoc: td.Assoc, Arity: td.Arity}
	if len(td.Operators) == 0 {
		return t, errors.New("no operators")
	}
	for _, op := range td.Operators {
		if !g.IsOperator(op) {
			return t, errors.Errorf("%q is not in the operator set", op)
		}
		t.ops.Add(op)
	}
	switch td.Arity {
	case Binary, Prefix:
	case Postfix:
		return t, errors.New("postfix operators are not supported")
	case Tertiary:
		if td.Assoc != RightToLeft {
			return t, errors.New("tertiary tier must be right-to-left")
		}
		if !t.Has("?") || !t.Has(":") {
			return t, errors.New(`tertiary tier must contain "?" and ":"`)
		}
	default:
		return t, errors.Errorf("invalid arity %d", int(td.Arity))
	}
	if td.Assoc != LeftToRight && td.Assoc != RightToLeft {
		return t, errors.Errorf("invalid associativity %d", int(td.Assoc))
	}
	return t, nil
}

// ============================================================
// Helpers
// ============================================================

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		letter := c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !letter && (i == 0 || c < '0' || c > '9') {
			return false
		}
	}
	return true
}

func sortedStrings(s mapset.Set) []string {
	out := make([]string, 0, s.Cardinality())
	for _, v := range s.ToSlice() {
		out = append(out, v.(string))
	}
	sort.Strings(out)
	return out
}
