package parser

import (
	"fmt"

	"github.com/nummus/payoffscript/pkg/types"
)

// Parser is a recursive-descent parser over the grammar of spec §4.2:
// Statement/Cond/CondAnd/CondElem/Expr/Term/Factor/Power/Atom, one
// precedence level per method, left-to-right associative throughout.
type Parser struct {
	lex  *Lexer
	tok  Token
	opts ParseOptions
}

// NewParser creates a Parser over text.
func NewParser(text string, opts ...ParseOption) *Parser {
	options := ParseOptions{MaxDepth: 500}
	for _, o := range opts {
		o(&options)
	}
	p := &Parser{lex: NewLexer(text), opts: options}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.tok = p.lex.Next()
}

// Parse consumes the whole token stream as a statement list and fails if
// anything is left over.
func (p *Parser) Parse() ([]*types.Node, error) {
	stmts, err := p.statementList()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != TokEOF {
		return nil, p.errorf("unexpected token %q", p.tok.Text)
	}
	return stmts, nil
}

// statementList parses zero or more statements until EOF or a keyword in
// stop is seen (ELSE/ENDIF, when parsing inside an If).
func (p *Parser) statementList(stop ...string) ([]*types.Node, error) {
	var stmts []*types.Node
	for {
		if p.tok.Type == TokEOF || p.atKeyword(stop...) {
			return stmts, nil
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
}

func (p *Parser) atKeyword(names ...string) bool {
	if p.tok.Type != TokIdent {
		return false
	}
	for _, n := range names {
		if p.tok.Text == n {
			return true
		}
	}
	return false
}

func (p *Parser) statement() (*types.Node, error) {
	if p.atKeyword("IF") {
		return p.ifStatement()
	}
	if p.tok.Type != TokIdent {
		return nil, p.errorf("expected a variable or IF, got %q", p.tok.Text)
	}
	name := p.tok.Text
	pos := p.tok.Pos
	p.advance()

	switch {
	case p.tok.Type == TokEqual:
		p.advance()
		rhs, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &types.Node{Kind: types.KindAssign, Args: []*types.Node{types.NewVar(pos, name), rhs}, FirstElse: -1, Eps: -1}, nil
	case p.atKeyword("PAYS"):
		p.advance()
		rhs, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &types.Node{Kind: types.KindPays, Args: []*types.Node{types.NewVar(pos, name), rhs}, FirstElse: -1, Eps: -1}, nil
	}
	return nil, p.errorf("expected '=' or PAYS after %q, got %q", name, p.tok.Text)
}

func (p *Parser) ifStatement() (*types.Node, error) {
	pos := p.tok.Pos
	p.advance() // IF
	cond, err := p.cond()
	if err != nil {
		return nil, err
	}
	if !p.atKeyword("THEN") {
		return nil, p.errorf("expected THEN, got %q", p.tok.Text)
	}
	p.advance()

	thenStmts, err := p.statementList("ELSE", "ENDIF")
	if err != nil {
		return nil, err
	}

	var elseStmts []*types.Node
	if p.atKeyword("ELSE") {
		p.advance()
		elseStmts, err = p.statementList("ENDIF")
		if err != nil {
			return nil, err
		}
	}

	if !p.atKeyword("ENDIF") {
		return nil, p.errorf("expected ENDIF, got %q", p.tok.Text)
	}
	p.advance()

	return types.NewIf(pos, cond, thenStmts, elseStmts), nil
}

// cond / condAnd / condElem implement Cond/CondAnd/CondElem (spec §4.2).
func (p *Parser) cond() (*types.Node, error) {
	lhs, err := p.condAnd()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("OR") {
		pos := p.tok.Pos
		p.advance()
		rhs, err := p.condAnd()
		if err != nil {
			return nil, err
		}
		lhs = types.NewBinary(types.KindOr, pos, lhs, rhs)
	}
	return lhs, nil
}

func (p *Parser) condAnd() (*types.Node, error) {
	lhs, err := p.condElem()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("AND") {
		pos := p.tok.Pos
		p.advance()
		rhs, err := p.condElem()
		if err != nil {
			return nil, err
		}
		lhs = types.NewBinary(types.KindAnd, pos, lhs, rhs)
	}
	return lhs, nil
}

type parserSnapshot struct {
	lex Lexer
	tok Token
}

func (p *Parser) snapshot() parserSnapshot {
	return parserSnapshot{lex: *p.lex, tok: p.tok}
}

func (p *Parser) restore(s parserSnapshot) {
	*p.lex = s.lex
	p.tok = s.tok
}

// condElem tries the parenthesized-boolean-group form first, backtracking
// to the comparison form on failure, since both start with '(' and the
// grammar needs unbounded lookahead to disambiguate otherwise.
func (p *Parser) condElem() (*types.Node, error) {
	if p.tok.Type == TokLParen {
		snap := p.snapshot()
		p.advance()
		if inner, err := p.cond(); err == nil && p.tok.Type == TokRParen {
			p.advance()
			return inner, nil
		}
		p.restore(snap)
	}

	lhs, err := p.expr()
	if err != nil {
		return nil, err
	}
	cmp, pos, err := p.comparator()
	if err != nil {
		return nil, err
	}
	rhs, err := p.expr()
	if err != nil {
		return nil, err
	}

	var node *types.Node
	switch cmp {
	case TokEqual:
		node = types.NewUnary(types.KindEqual, pos, types.NewBinary(types.KindSub, pos, lhs, rhs))
	case TokNotEqual:
		eq := types.NewUnary(types.KindEqual, pos, types.NewBinary(types.KindSub, pos, lhs, rhs))
		node = types.NewUnary(types.KindNot, pos, eq)
	case TokGreater:
		node = types.NewUnary(types.KindSup, pos, types.NewBinary(types.KindSub, pos, lhs, rhs))
	case TokGreaterEqual:
		node = types.NewUnary(types.KindSupEqual, pos, types.NewBinary(types.KindSub, pos, lhs, rhs))
	case TokLess:
		node = types.NewUnary(types.KindSup, pos, types.NewBinary(types.KindSub, pos, rhs, lhs))
	case TokLessEqual:
		node = types.NewUnary(types.KindSupEqual, pos, types.NewBinary(types.KindSub, pos, rhs, lhs))
	}

	if p.tok.Type == TokSemicolon || p.tok.Type == TokColon {
		p.advance()
		epsNode, err := p.expr()
		if err != nil {
			return nil, err
		}
		if !epsNode.IsConst {
			return nil, p.errorf("fuzzy epsilon must be a constant expression")
		}
		node.Eps = epsNode.ConstVal
	}
	return node, nil
}

func (p *Parser) comparator() (TokenType, int, error) {
	switch p.tok.Type {
	case TokEqual, TokNotEqual, TokLess, TokGreater, TokLessEqual, TokGreaterEqual:
		tt, pos := p.tok.Type, p.tok.Pos
		p.advance()
		return tt, pos, nil
	}
	return 0, 0, p.errorf("expected a comparator, got %q", p.tok.Text)
}

// expr / term / factor / power / atom implement Expr/Term/Factor/Power/Atom.
func (p *Parser) expr() (*types.Node, error) {
	lhs, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokPlus || p.tok.Type == TokMinus {
		kind, pos := types.KindAdd, p.tok.Pos
		if p.tok.Type == TokMinus {
			kind = types.KindSub
		}
		p.advance()
		rhs, err := p.term()
		if err != nil {
			return nil, err
		}
		lhs = types.NewBinary(kind, pos, lhs, rhs)
	}
	return lhs, nil
}

func (p *Parser) term() (*types.Node, error) {
	lhs, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokStar || p.tok.Type == TokSlash {
		kind, pos := types.KindMult, p.tok.Pos
		if p.tok.Type == TokSlash {
			kind = types.KindDiv
		}
		p.advance()
		rhs, err := p.factor()
		if err != nil {
			return nil, err
		}
		lhs = types.NewBinary(kind, pos, lhs, rhs)
	}
	return lhs, nil
}

func (p *Parser) factor() (*types.Node, error) {
	lhs, err := p.power()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokCaret {
		pos := p.tok.Pos
		p.advance()
		rhs, err := p.power()
		if err != nil {
			return nil, err
		}
		lhs = types.NewBinary(types.KindPow, pos, lhs, rhs)
	}
	return lhs, nil
}

func (p *Parser) power() (*types.Node, error) {
	if p.tok.Type == TokPlus || p.tok.Type == TokMinus {
		kind, pos := types.KindUplus, p.tok.Pos
		if p.tok.Type == TokMinus {
			kind = types.KindUminus
		}
		p.advance()
		inner, err := p.power()
		if err != nil {
			return nil, err
		}
		return types.NewUnary(kind, pos, inner), nil
	}
	return p.atom()
}

var funcNames = map[string]bool{
	"SPOT": true, "LOG": true, "SQRT": true, "MIN": true, "MAX": true, "SMOOTH": true,
}

func (p *Parser) atom() (*types.Node, error) {
	switch p.tok.Type {
	case TokLParen:
		p.advance()
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.tok.Type != TokRParen {
			return nil, p.errorf("expected ')', got %q", p.tok.Text)
		}
		p.advance()
		return inner, nil
	case TokNumber:
		v, pos := p.tok.Num, p.tok.Pos
		p.advance()
		return types.NewConst(pos, v), nil
	case TokIdent:
		name, pos := p.tok.Text, p.tok.Pos
		if funcNames[name] {
			return p.funcCall()
		}
		p.advance()
		if p.tok.Type == TokLParen {
			return nil, types.NewPositionalError(types.ErrUnknownFunction, "unknown function "+name, pos)
		}
		return types.NewVar(pos, name), nil
	}
	return nil, p.errorf("unexpected token %q", p.tok.Text)
}

func (p *Parser) funcCall() (*types.Node, error) {
	name, pos := p.tok.Text, p.tok.Pos
	p.advance()
	if p.tok.Type != TokLParen {
		return nil, p.errorf("expected '(' after %s", name)
	}
	p.advance()

	var args []*types.Node
	if p.tok.Type != TokRParen {
		for {
			a, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.tok.Type != TokComma {
				break
			}
			p.advance()
		}
	}
	if p.tok.Type != TokRParen {
		return nil, p.errorf("expected ')', got %q", p.tok.Text)
	}
	p.advance()

	switch name {
	case "SPOT":
		if len(args) != 0 {
			return nil, p.arityErrorf(name, "0", len(args), pos)
		}
		return types.NewNode(types.KindSpot, pos), nil
	case "LOG":
		if len(args) != 1 {
			return nil, p.arityErrorf(name, "1", len(args), pos)
		}
		return types.NewUnary(types.KindLog, pos, args[0]), nil
	case "SQRT":
		if len(args) != 1 {
			return nil, p.arityErrorf(name, "1", len(args), pos)
		}
		return types.NewUnary(types.KindSqrt, pos, args[0]), nil
	case "MIN":
		if len(args) < 2 {
			return nil, p.arityErrorf(name, "2+", len(args), pos)
		}
		return reduceBinary(types.KindMin, pos, args), nil
	case "MAX":
		if len(args) < 2 {
			return nil, p.arityErrorf(name, "2+", len(args), pos)
		}
		return reduceBinary(types.KindMax, pos, args), nil
	case "SMOOTH":
		if len(args) != 4 {
			return nil, p.arityErrorf(name, "4", len(args), pos)
		}
		n := types.NewNode(types.KindSmooth, pos)
		n.Args = args
		return n, nil
	}
	return nil, types.NewPositionalError(types.ErrUnknownFunction, "unknown function "+name, pos)
}

// reduceBinary canonicalizes an N-ary Min/Max call to a left-deep binary
// tree (spec §9's resolution of the N-ary-vs-binary open question), so
// every downstream pass only ever sees binary Min/Max.
func reduceBinary(kind types.Kind, pos int, args []*types.Node) *types.Node {
	acc := args[0]
	for _, a := range args[1:] {
		acc = types.NewBinary(kind, pos, acc, a)
	}
	return acc
}

func (p *Parser) errorf(format string, a ...any) error {
	return types.NewPositionalError(types.ErrParse, fmt.Sprintf(format, a...), p.tok.Pos).WithToken(p.tok.Text)
}

func (p *Parser) arityErrorf(fn, want string, got, pos int) error {
	return types.NewPositionalError(types.ErrArity, fmt.Sprintf("%s expects %s arguments, got %d", fn, want, got), pos)
}
