package program

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/uncomputable/simplicity/errors"
	"github.com/uncomputable/simplicity/protocol/jet"
	"github.com/uncomputable/simplicity/protocol/merkle"
)

var ErrSyntax = errors.New("syntax error")

var tagsByName = func() map[string]Tag {
	m := make(map[string]Tag)
	for t, name := range tagNames {
		m[name] = Tag(t)
	}
	return m
}()

// Assemble parses the text form of a program and returns it in
// canonical form. Jets are looked up by name in jets, or among
// the core jets if jets is nil.
//
// Notation:
//
//	comp (pair iden witness) (jet eq_32)   prefix application
//	hidden 0f1e...                         64 hex digits
//	let x = expr                           names expr for later use
//	# comment                              to end of line
//
// The last expression not bound by let is the program.
func Assemble(src string, jets *jet.Table) (*Program, error) {
	if jets == nil {
		jets = coreJets
	}
	a := &assembler{
		toks: tokenize(src),
		b:    NewBuilder(),
		jets: jets,
		env:  make(map[string]Expr),
	}
	root := Expr(-1)
	for !a.eof() {
		if a.peek() == "let" {
			if err := a.parseLet(); err != nil {
				return nil, err
			}
			continue
		}
		if root >= 0 {
			return nil, errors.WithDetailf(ErrSyntax, "unexpected %q after program", a.peek())
		}
		e, err := a.parseExpr()
		if err != nil {
			return nil, err
		}
		root = e
	}
	if root < 0 {
		return nil, ErrEmptyProgram
	}
	return a.b.Build(root)
}

type assembler struct {
	toks []string
	pos  int
	b    *Builder
	jets *jet.Table
	env  map[string]Expr
}

func (a *assembler) eof() bool { return a.pos >= len(a.toks) }

func (a *assembler) peek() string {
	if a.eof() {
		return ""
	}
	return a.toks[a.pos]
}

func (a *assembler) next() (string, error) {
	if a.eof() {
		return "", errors.WithDetail(ErrSyntax, "unexpected end of input")
	}
	t := a.toks[a.pos]
	a.pos++
	return t, nil
}

func (a *assembler) expect(want string) error {
	t, err := a.next()
	if err != nil {
		return err
	}
	if t != want {
		return errors.WithDetailf(ErrSyntax, "got %q, want %q", t, want)
	}
	return nil
}

func (a *assembler) parseLet() error {
	a.pos++ // let
	name, err := a.next()
	if err != nil {
		return err
	}
	if !isIdent(name) || name == "let" {
		return errors.WithDetailf(ErrSyntax, "bad name %q", name)
	}
	if _, ok := tagsByName[name]; ok {
		return errors.WithDetailf(ErrSyntax, "%q is a combinator", name)
	}
	if err := a.expect("="); err != nil {
		return err
	}
	e, err := a.parseExpr()
	if err != nil {
		return err
	}
	a.env[name] = e
	return nil
}

// parseExpr parses a combinator applied to its arguments.
func (a *assembler) parseExpr() (Expr, error) {
	t, err := a.next()
	if err != nil {
		return -1, err
	}
	if t == "(" {
		e, err := a.parseExpr()
		if err != nil {
			return -1, err
		}
		return e, a.expect(")")
	}
	if e, ok := a.env[t]; ok {
		return e, nil
	}
	tag, ok := tagsByName[t]
	if !ok {
		return -1, errors.WithDetailf(ErrSyntax, "unknown name %q", t)
	}
	switch tag {
	case Hidden:
		h, err := a.next()
		if err != nil {
			return -1, err
		}
		b, err := hex.DecodeString(h)
		if err != nil || len(b) != merkle.Size {
			return -1, errors.WithDetailf(ErrSyntax, "bad hidden hash %q", h)
		}
		var hash merkle.Hash
		copy(hash[:], b)
		return a.b.Hidden(hash), nil
	case Jet:
		name, err := a.next()
		if err != nil {
			return -1, err
		}
		j, ok := a.jets.ByName(name)
		if !ok {
			return -1, errors.WithDetailf(jet.ErrUnknownJet, "%q", name)
		}
		return a.b.Jet(j), nil
	}

	var args [2]Expr
	for k := 0; k < tag.Arity(); k++ {
		if args[k], err = a.parseArg(); err != nil {
			return -1, err
		}
	}
	return a.b.add(Node{Tag: tag, Left: int(args[0]), Right: int(args[1])}), nil
}

// parseArg parses an argument, which is a name, a nullary
// combinator or a parenthesized expression.
func (a *assembler) parseArg() (Expr, error) {
	t := a.peek()
	if tag, ok := tagsByName[t]; ok && tag.Arity() > 0 {
		return -1, errors.WithDetailf(ErrSyntax, "%s as argument needs parentheses", t)
	}
	if tag, ok := tagsByName[t]; ok && (tag == Hidden || tag == Jet) {
		return -1, errors.WithDetailf(ErrSyntax, "%s as argument needs parentheses", t)
	}
	return a.parseExpr()
}

func isIdent(s string) bool {
	for i, r := range s {
		if !(r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r))) {
			return false
		}
	}
	return s != ""
}

func tokenize(src string) []string {
	var toks []string
	for _, line := range strings.Split(src, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.NewReplacer("(", " ( ", ")", " ) ", "=", " = ").Replace(line)
		toks = append(toks, strings.Fields(line)...)
	}
	return toks
}

// Disassemble returns the text form of p, accepted by Assemble.
// Subexpressions used more than once are bound with let.
func Disassemble(p *Program) string {
	uses := make([]int, len(p.Nodes))
	for _, n := range p.Nodes {
		for _, c := range n.children() {
			uses[c]++
		}
	}
	var b strings.Builder
	names := make([]string, len(p.Nodes))
	for i, n := range p.Nodes {
		if uses[i] > 1 && n.Tag.Arity() > 0 && i != p.Root() {
			names[i] = fmt.Sprintf("e%d", i)
			fmt.Fprintf(&b, "let %s = %s\n", names[i], formatExpr(p, names, i))
		}
	}
	b.WriteString(formatExpr(p, names, p.Root()))
	b.WriteByte('\n')
	return b.String()
}

func formatExpr(p *Program, names []string, i int) string {
	n := p.Nodes[i]
	switch n.Tag {
	case Hidden:
		return "hidden " + n.Hash.String()
	case Jet:
		return "jet " + n.Jet.Name
	}
	s := n.Tag.String()
	for _, c := range n.children() {
		s += " " + formatArg(p, names, c)
	}
	return s
}

func formatArg(p *Program, names []string, i int) string {
	if names[i] != "" {
		return names[i]
	}
	n := p.Nodes[i]
	if n.Tag.Arity() == 0 && n.Tag != Hidden && n.Tag != Jet {
		return n.Tag.String()
	}
	return "(" + formatExpr(p, names, i) + ")"
}
