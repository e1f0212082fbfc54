// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import "fmt"

type token int

const (
	tokIllegal token = iota
	tokEOF
	tokIdent
	tokPropval
	tokNull
	tokOr      // |
	tokAnd     // &
	tokLParen  // (
	tokRParen  // )
	tokGT      // >
	tokLT      // <
	tokGE      // >=
	tokLE      // <=
	tokEq      // =
	tokNe      // !=
	tokComma   // ,
	tokTilde   // ~
	tokPlus    // +
	tokMinus   // -
	tokStar    // *
	tokSlash   // /
	tokPercent // %
	tokColon   // :
)

var tokenText = [...]string{
	tokIllegal: "illegal",
	tokEOF:     "EOF",
	tokIdent:   "ident",
	tokPropval: "propval",
	tokNull:    `"null"`,
	tokOr:      `"|"`,
	tokAnd:     `"&"`,
	tokLParen:  `"("`,
	tokRParen:  `")"`,
	tokGT:      `">"`,
	tokLT:      `"<"`,
	tokGE:      `">="`,
	tokLE:      `"<="`,
	tokEq:      `"="`,
	tokNe:      `"!="`,
	tokComma:   `","`,
	tokTilde:   `"~"`,
	tokPlus:    `"+"`,
	tokMinus:   `"-"`,
	tokStar:    `"*"`,
	tokSlash:   `"/"`,
	tokPercent: `"%"`,
	tokColon:   `":"`,
}

func (t token) String() string {
	if int(t) >= 0 && int(t) < len(tokenText) {
		return tokenText[t]
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// tokenSet is a bit set of token kinds used for lookahead and error recovery.
type tokenSet uint32

func setOf(toks ...token) tokenSet {
	var s tokenSet
	for _, t := range toks {
		s |= 1 << uint(t)
	}
	return s
}

func (s tokenSet) has(t token) bool {
	return s&(1<<uint(t)) != 0
}

func (s tokenSet) union(o tokenSet) tokenSet {
	return s | o
}

var (
	comparisonOps = setOf(tokGT, tokLT, tokGE, tokLE)
	equalsOps     = setOf(tokEq, tokNe)
	addOps        = setOf(tokPlus, tokMinus)
	multiplyOps   = setOf(tokStar, tokSlash, tokPercent)
	valueStart    = setOf(tokIdent, tokPropval, tokNull)
	unaryStart    = valueStart.union(setOf(tokMinus))

	// Recovery points. Each production resynchronises on the tokens that may
	// legally follow it, plus the boolean connectives and EOF.
	syncBool  = setOf(tokEOF, tokRParen, tokOr, tokAnd)
	syncRange = syncBool.union(setOf(tokComma))
	syncValue = syncRange.union(comparisonOps).union(equalsOps).union(addOps).union(multiplyOps).union(setOf(tokTilde))
)

// Pos is a 1-based line and column in the normalized filter text.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("line %d col %d", p.Line, p.Col)
}
