// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// A scanner holds the scanner's internal state while processing
// a given text.
type scanner struct {
	// immutable state
	src []byte

	// scanning state
	ch       rune // current character
	offset   int  // character offset
	rdOffset int  // reading offset (position after current character)
	line     int  // line of ch
	col      int  // column of ch
}

func (s *scanner) init(src []byte) {
	s.src = src
	s.offset = -1
	s.rdOffset = 0
	s.line = 1
	s.col = 0
	s.next() // advance onto the first input rune
}

// next reads the next Unicode char into s.ch. s.ch < 0 means end-of-file.
func (s *scanner) next() {
	if s.ch == '\n' {
		s.line++
		s.col = 0
	}
	if s.rdOffset < len(s.src) {
		s.offset = s.rdOffset
		r, w := rune(s.src[s.rdOffset]), 1
		if r >= utf8.RuneSelf {
			r, w = utf8.DecodeRune(s.src[s.rdOffset:])
		}
		s.rdOffset += w
		s.ch = r
		s.col++
	} else {
		s.offset = len(s.src)
		s.ch = -1
		s.col++
	}
}

// peek returns the byte after the current character without advancing.
func (s *scanner) peek() byte {
	if s.rdOffset < len(s.src) {
		return s.src[s.rdOffset]
	}
	return 0
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch >= utf8.RuneSelf && unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (s *scanner) skipWhitespace() {
	for s.ch == ' ' || s.ch == '\t' || s.ch == '\n' || s.ch == '\r' {
		s.next()
	}
}

// scanIdentifier consumes letters, digits, dots and underscores.
func (s *scanner) scanIdentifier() {
	for isLetter(s.ch) || isDigit(s.ch) || s.ch == '.' || s.ch == '_' {
		s.next()
	}
}

// scanNumber consumes digits and dots and an optional ":unit" suffix. The
// suffix is only taken when a letter follows the colon.
func (s *scanner) scanNumber() {
	for isDigit(s.ch) || s.ch == '.' {
		s.next()
	}
	if s.ch == ':' && isLetter(rune(s.peek())) {
		s.next()
		for isLetter(s.ch) || isDigit(s.ch) || s.ch == '_' {
			s.next()
		}
	}
}

// scanText consumes a double quoted literal. The opening quote has been
// consumed already. It reports whether the closing quote was found.
func (s *scanner) scanText() bool {
	for {
		switch s.ch {
		case -1:
			return false
		case '"':
			s.next()
			return true
		}
		s.next()
	}
}

// Scan returns the next token. Characters outside the language produce
// tokIllegal with a message in lit so the parser can report and recover.
func (s *scanner) Scan() (pos Pos, tok token, lit string) {
	s.skipWhitespace()

	pos = Pos{Line: s.line, Col: s.col}
	start := s.offset

	switch ch := s.ch; {
	case isLetter(ch) || ch == '_':
		s.scanIdentifier()
		lit = string(s.src[start:s.offset])
		if lit == "null" {
			return pos, tokNull, lit
		}
		return pos, tokIdent, lit
	case isDigit(ch), ch == '-' && isDigit(rune(s.peek())):
		s.next()
		s.scanNumber()
		return pos, tokPropval, string(s.src[start:s.offset])
	}

	ch := s.ch
	s.next() // always make progress
	switch ch {
	case -1:
		return pos, tokEOF, ""
	case '"':
		if !s.scanText() {
			return pos, tokIllegal, "unterminated text literal"
		}
		tok = tokPropval
	case '|':
		tok = tokOr
	case '&':
		tok = tokAnd
	case '(':
		tok = tokLParen
	case ')':
		tok = tokRParen
	case '>':
		tok = tokGT
		if s.ch == '=' {
			s.next()
			tok = tokGE
		}
	case '<':
		tok = tokLT
		if s.ch == '=' {
			s.next()
			tok = tokLE
		}
	case '=':
		tok = tokEq
	case '!':
		if s.ch != '=' {
			return pos, tokIllegal, `illegal character '!'`
		}
		s.next()
		tok = tokNe
	case ',':
		tok = tokComma
	case '~':
		tok = tokTilde
	case '+':
		tok = tokPlus
	case '-':
		tok = tokMinus
	case '*':
		tok = tokStar
	case '/':
		tok = tokSlash
	case '%':
		tok = tokPercent
	case ':':
		tok = tokColon
	default:
		return pos, tokIllegal, fmt.Sprintf("illegal character %q", ch)
	}
	return pos, tok, string(s.src[start:s.offset])
}
