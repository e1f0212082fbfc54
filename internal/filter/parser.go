// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/pfctl/pfctl/internal/log"
	"github.com/pfctl/pfctl/internal/propval"
	"github.com/pfctl/pfctl/internal/quantity"
)

const (
	// maxDepth bounds parenthesis nesting.
	maxDepth = 256
	// minErrDist is the number of tokens that must be consumed after an
	// error before the next one is reported.
	minErrDist = 2
)

// The parser structure holds the parser's internal state.
type parser struct {
	scanner scanner

	// strict parsers stop at the first error; tolerant parsers record it
	// and resynchronise.
	strict  bool
	errs    *multierror.Error
	count   int
	errDist int
	depth   int

	// Current token
	pos Pos    // token position
	tok token  // one token look-ahead
	lit string // token literal
}

// bailout unwinds a strict parse.
type bailout struct {
	err error
}

func newParser(src string, strict bool) *parser {
	p := &parser{strict: strict, errDist: minErrDist}
	p.scanner.init([]byte(src))
	p.next() // advance onto the first input token
	return p
}

// parse reads normalized filter text. Blank text is Empty.
func parse(text string, strict bool) (x Expr, p *parser, err error) {
	p = newParser(text, strict)
	defer func() {
		r := recover()
		if b, ok := r.(bailout); ok {
			x, err = nil, b.err
		} else if r != nil {
			panic(r)
		}
	}()

	if p.tok == tokEOF {
		return &Empty{Pos: p.pos}, p, nil
	}

	x = p.parseOr()
	p.expect(tokEOF, setOf(tokEOF))
	log.Tracef("parsed %q with %d errors", text, p.count)
	return x, p, p.errs.ErrorOrNil()
}

// next advances to the next token.
func (p *parser) next() {
	p.pos, p.tok, p.lit = p.scanner.Scan()
	p.errDist++
}

func (p *parser) fail(err error) {
	if p.strict {
		panic(bailout{err: err})
	}
	p.count++
	p.errs = multierror.Append(p.errs, err)
}

// syntaxError reports msg at the current token unless an error was reported
// within the last minErrDist tokens.
func (p *parser) syntaxError(msg string) {
	if p.errDist >= minErrDist {
		if p.tok == tokIllegal {
			msg = p.lit
		}
		p.fail(&SyntaxError{Line: p.pos.Line, Col: p.pos.Col, Msg: msg})
	}
	p.errDist = 0
}

// skipTo discards tokens until one in follow. EOF is always in follow.
func (p *parser) skipTo(follow tokenSet) {
	follow = follow.union(setOf(tokEOF))
	for !follow.has(p.tok) {
		p.next()
	}
}

func (p *parser) expect(tok token, follow tokenSet) {
	if p.tok == tok {
		if tok != tokEOF {
			p.next()
		}
		return
	}
	p.syntaxError(tok.String() + " expected")
	p.skipTo(follow)
	if p.tok == tok && tok != tokEOF {
		p.next()
	}
}

// OrExpr := AndExpr ('|' AndExpr)*
func (p *parser) parseOr() Expr {
	pos := p.pos
	x := p.parseAnd()
	if p.tok != tokOr {
		return x
	}
	children := []Expr{x}
	for p.tok == tokOr {
		p.next()
		children = append(children, p.parseAnd())
	}
	return &Or{Pos: pos, Children: children}
}

// AndExpr := Expr ('&' Expr)*
func (p *parser) parseAnd() Expr {
	pos := p.pos
	x := p.parseExpr()
	if p.tok != tokAnd {
		return x
	}
	children := []Expr{x}
	for p.tok == tokAnd {
		p.next()
		children = append(children, p.parseExpr())
	}
	return &And{Pos: pos, Children: children}
}

// Expr := '(' OrExpr ')' | ComparisonExpr
func (p *parser) parseExpr() Expr {
	switch {
	case p.tok == tokLParen:
		if p.depth >= maxDepth {
			p.syntaxError(fmt.Sprintf("nesting deeper than %d", maxDepth))
			p.skipTo(setOf(tokEOF))
			return nil
		}
		p.depth++
		p.next()
		x := p.parseOr()
		p.expect(tokRParen, syncBool)
		p.depth--
		return x
	case unaryStart.has(p.tok):
		return p.parseComparison()
	}
	p.syntaxError("invalid Expr")
	p.skipTo(syncBool)
	return nil
}

// ComparisonExpr := AddExpr (CompareOp AddExpr | EqualsOp ValueRange (',' ValueRange)*)
func (p *parser) parseComparison() Expr {
	pos := p.pos
	left := p.parseAdd()

	switch {
	case comparisonOps.has(p.tok):
		op := CompareOp(p.lit)
		p.next()
		right := p.parseAdd()
		return &Comparison{Pos: pos, Left: left, Op: op, Right: right}
	case equalsOps.has(p.tok):
		op := EqualsOp(p.lit)
		p.next()
		ranges := []*ValueRange{p.parseRange()}
		for p.tok == tokComma {
			p.next()
			ranges = append(ranges, p.parseRange())
		}
		return &Equals{Pos: pos, Left: left, Op: op, Ranges: ranges}
	}
	p.syntaxError("invalid ComparisonExpr")
	p.skipTo(syncBool)
	return nil
}

// ValueRange := AddExpr ('~' AddExpr)?
func (p *parser) parseRange() *ValueRange {
	pos := p.pos
	lo := p.parseAdd()
	if p.tok != tokTilde {
		return &ValueRange{Pos: pos, Min: lo, Max: lo}
	}
	p.next()
	return &ValueRange{Pos: pos, Min: lo, Max: p.parseAdd()}
}

// AddExpr := MultiplyExpr (('+'|'-') MultiplyExpr)*
func (p *parser) parseAdd() Expr {
	pos := p.pos
	x := p.parseMultiply()
	for addOps.has(p.tok) {
		op := ArithOp(p.lit)
		p.next()
		x = &Add{Pos: pos, Left: x, Op: op, Right: p.parseMultiply()}
	}
	return x
}

// MultiplyExpr := UnaryExpr (('*'|'/'|'%') UnaryExpr)*
func (p *parser) parseMultiply() Expr {
	pos := p.pos
	x := p.parseUnary()
	for multiplyOps.has(p.tok) {
		op := ArithOp(p.lit)
		p.next()
		x = &Multiply{Pos: pos, Left: x, Op: op, Right: p.parseUnary()}
	}
	return x
}

// UnaryExpr := '-' ValueExpr | ValueExpr
func (p *parser) parseUnary() Expr {
	if p.tok != tokMinus {
		return p.parseValue()
	}
	pos := p.pos
	p.next()
	return &Unary{Pos: pos, Operand: p.parseValue()}
}

// ValueExpr := 'null' | identifier (':' identifier)? | propval
func (p *parser) parseValue() Expr {
	pos := p.pos
	switch p.tok {
	case tokNull:
		p.next()
		return &Null{Pos: pos}
	case tokIdent:
		name := p.lit
		p.next()
		if p.tok != tokColon {
			return &Identifier{Pos: pos, Name: name}
		}
		p.next()
		if p.tok != tokIdent {
			p.syntaxError(tokIdent.String() + " expected")
			p.skipTo(syncValue)
			return &Identifier{Pos: pos, Name: name}
		}
		unit := p.lit
		p.next()
		return &IdentifierWithUnit{Pos: pos, Name: name, Unit: unit}
	case tokPropval:
		lit := p.lit
		p.next()
		v, err := parseLiteral(lit)
		if err != nil {
			p.fail(&LiteralParseError{Literal: lit, Line: pos.Line, Col: pos.Col, Err: err})
		}
		return &Value{Pos: pos, Literal: lit, Value: v}
	}
	p.syntaxError("invalid ValueExpr")
	p.skipTo(syncValue)
	return nil
}

// parseLiteral decodes a propval token. Unquoted tokens start with a digit
// or '-', so anything that falls through to text is malformed unless it
// carries the legacy ":text" suffix.
func parseLiteral(lit string) (propval.Value, error) {
	v, err := propval.Parse(lit)
	if err != nil {
		if errors.Is(err, quantity.ErrUnknownUnit) {
			_, unit, _ := strings.Cut(lit, ":")
			return propval.Value{}, &UnknownUnitError{Unit: unit}
		}
		return propval.Value{}, err
	}
	if v.Kind() == propval.KindText && !strings.HasPrefix(lit, `"`) && !strings.HasSuffix(lit, ":text") {
		return propval.Value{}, fmt.Errorf("%w: %q is not a number", propval.ErrInvalidLiteral, lit)
	}
	return v, nil
}
