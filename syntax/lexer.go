package syntax

import (
	"bufio"
	"io"
	"strings"

	"clarity/ast"
	"clarity/report"
)

// Lexer is responsible for tokenizing a contract source file.
type Lexer struct {
	file    *bufio.Reader
	tokBuff *strings.Builder

	line, col           int
	startLine, startCol int
}

// NewLexer creates a new lexer for the given source file.
func NewLexer(file *bufio.Reader) *Lexer {
	return &Lexer{
		file:    file,
		tokBuff: &strings.Builder{},
		line:    0,
		col:     0,
	}
}

// NextToken retrieves the next token from the input file.  If the file has
// ended, this will be an EOF token.
func (l *Lexer) NextToken() (*Token, error) {
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		switch c {
		case '\n', '\t', ' ', '\r', '\v', '\f':
			l.skip()
		case ';':
			if err := l.skipComment(); err != nil {
				return nil, err
			}
		case '(':
			l.mark()
			l.eat()
			return l.makeToken(TOK_LPAREN), nil
		case ')':
			l.mark()
			l.eat()
			return l.makeToken(TOK_RPAREN), nil
		case '"':
			return l.lexStringLit()
		case '.':
			return l.lexPrincipalLit()
		default:
			if isDecimalDigit(c) {
				return l.lexIntLit()
			} else if ast.IsNameStart(c) {
				return l.lexIdentOrKeyword()
			} else {
				return l.lexOperator()
			}
		}
	}

	l.mark()
	return l.makeToken(TOK_EOF), nil
}

// -----------------------------------------------------------------------------

// skipComment consumes a `;;` line comment through the end of the line.
func (l *Lexer) skipComment() error {
	l.mark()
	l.skip()

	c, err := l.peek()
	if err != nil {
		return err
	} else if c != ';' {
		return report.Raise(l.getSpan(), "expected `;;` to begin a comment")
	}

	for c != '\n' && c != -1 {
		c, err = l.skip()
		if err != nil {
			return err
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// lexIdentOrKeyword lexes an identifier, a keyword literal, or an unsigned
// integer literal (which begins with `u` like an identifier).
func (l *Lexer) lexIdentOrKeyword() (*Token, error) {
	l.mark()
	c, _ := l.eat()

	if c == 'u' {
		next, err := l.peek()
		if err != nil {
			return nil, err
		}

		if isDecimalDigit(next) {
			return l.finishDigits(TOK_UINTLIT)
		}
	}

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !ast.IsNameChar(c) {
			break
		}

		l.eat()
	}

	var kind int
	switch l.tokBuff.String() {
	case "true", "false":
		kind = TOK_BOOLLIT
	default:
		kind = TOK_IDENT
	}

	return l.makeToken(kind), nil
}

// lexOperator lexes an operator symbol or a negative integer literal.
func (l *Lexer) lexOperator() (*Token, error) {
	l.mark()

	c, err := l.eat()
	if err != nil {
		return nil, err
	}

	switch c {
	case '-':
		next, err := l.peek()
		if err != nil {
			return nil, err
		}

		if isDecimalDigit(next) {
			return l.finishDigits(TOK_INTLIT)
		}

		return l.makeToken(TOK_IDENT), nil
	case '+', '*', '/':
		return l.makeToken(TOK_IDENT), nil
	case '<', '>':
		next, err := l.peek()
		if err != nil {
			return nil, err
		}

		if next == '=' {
			l.eat()
		}

		return l.makeToken(TOK_IDENT), nil
	}

	return nil, report.Raise(l.getSpan(), "unknown character `%c`", c)
}

// -----------------------------------------------------------------------------

// lexIntLit lexes a signed integer literal.
func (l *Lexer) lexIntLit() (*Token, error) {
	l.mark()
	l.eat()

	return l.finishDigits(TOK_INTLIT)
}

// finishDigits consumes the remaining digits of an integer literal and
// produces a token of the given kind.
func (l *Lexer) finishDigits(kind int) (*Token, error) {
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		if isDecimalDigit(c) {
			l.eat()
		} else if ast.IsNameChar(c) {
			l.eat()
			return nil, report.Raise(l.getSpan(), "unexpected character `%c` in integer literal", c)
		} else {
			break
		}
	}

	return l.makeToken(kind), nil
}

// -----------------------------------------------------------------------------

// lexStringLit lexes a string literal.  Escape sequences are processed into
// the token value.
func (l *Lexer) lexStringLit() (*Token, error) {
	l.mark()
	l.skip()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		switch c {
		case -1:
			return nil, report.Raise(l.getSpan(), "unclosed string literal")
		case '"':
			l.skip()
			return l.makeToken(TOK_STRINGLIT), nil
		case '\\':
			l.skip()

			if err = l.lexEscapeSequence(); err != nil {
				return nil, err
			}
		case '\n':
			return nil, report.Raise(l.getSpan(), "string literal cannot contain a newline")
		default:
			l.eat()
		}
	}
}

// lexEscapeSequence consumes the character following a `\` and writes the
// escaped character to the token buffer.
func (l *Lexer) lexEscapeSequence() error {
	c, err := l.skip()
	if err != nil {
		return err
	}

	switch c {
	case -1:
		return report.Raise(l.getSpan(), "expected escape sequence not end of file")
	case '"':
		l.tokBuff.WriteRune('"')
	case '\\':
		l.tokBuff.WriteRune('\\')
	case 'n':
		l.tokBuff.WriteRune('\n')
	case 't':
		l.tokBuff.WriteRune('\t')
	case 'r':
		l.tokBuff.WriteRune('\r')
	default:
		return report.Raise(l.getSpan(), "unknown escape sequence `\\%c`", c)
	}

	return nil
}

// lexPrincipalLit lexes a contract principal literal: a `.` followed by a
// contract name.  The leading dot is not part of the token value.
func (l *Lexer) lexPrincipalLit() (*Token, error) {
	l.mark()
	l.skip()

	c, err := l.peek()
	if err != nil {
		return nil, err
	} else if !ast.IsNameStart(c) {
		return nil, report.Raise(l.getSpan(), "expected a contract name after `.`")
	}

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !ast.IsNameChar(c) {
			break
		}

		l.eat()
	}

	return l.makeToken(TOK_PRINCIPALLIT), nil
}

// -----------------------------------------------------------------------------

// mark sets the lexer's stored start line and column to its current position.
func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

// makeToken produces a new token of the given kind from the lexer's state and
// resets the lexer to begin building the next token.
func (l *Lexer) makeToken(kind int) *Token {
	value := l.tokBuff.String()
	l.tokBuff.Reset()

	return &Token{
		Kind:  kind,
		Value: value,
		Span:  l.getSpan(),
	}
}

// getSpan calculates a text span based on the lexer's current state.
func (l *Lexer) getSpan() *report.TextSpan {
	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

// -----------------------------------------------------------------------------

// eat moves the lexer forward one rune and writes the rune to the token buffer.
// If the lexer encounters an EOF, -1 is returned as the rune value.
func (l *Lexer) eat() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)
	l.tokBuff.WriteRune(c)

	return c, nil
}

// skip moves the lexer forward one rune but does not write the rune to the
// token buffer.  If the lexer encounters an EOF, -1 is returned as the rune
// value.
func (l *Lexer) skip() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)

	return c, nil
}

// peek returns the next rune in the file without moving the lexer forward or
// writing the rune to the token buffer.  If the lexer encounters an EOF, -1 is
// returned as the rune value.
func (l *Lexer) peek() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	if err = l.file.UnreadRune(); err != nil {
		return 0, err
	}

	return c, nil
}

// updatePos updates the lexer's position based on the input character.
func (l *Lexer) updatePos(c rune) {
	switch c {
	case '\n':
		l.line++
		l.col = 0
	case '\t':
		l.col += 4
	default:
		l.col++
	}
}

// -----------------------------------------------------------------------------

// isDecimalDigit returns whether c is a decimal digit.
func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
