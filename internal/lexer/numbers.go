package lexer

import "unicode"

// readNumberToken scans a numeric literal: decimal (with optional
// fractional part and exponent), 0x/0o/0b radix-prefixed integers, the
// legacy 0-prefixed octal form, and a trailing `n` BigInt suffix on any
// of these. Numeric separators (`_`) are accepted between digits; they
// remain in Literal verbatim and the parser strips them when computing
// the literal's value.
func (l *Lexer) readNumberToken(start Position, nl bool) Token {
	startOff := l.position

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		l.readRadixDigits(isHexDigit)
		return l.finishNumber(startOff, start, nl)
	}
	if l.ch == '0' && (l.peekChar() == 'o' || l.peekChar() == 'O') {
		l.readChar()
		l.readChar()
		l.readRadixDigits(isOctalDigit)
		return l.finishNumber(startOff, start, nl)
	}
	if l.ch == '0' && (l.peekChar() == 'b' || l.peekChar() == 'B') {
		l.readChar()
		l.readChar()
		l.readRadixDigits(isBinaryDigit)
		return l.finishNumber(startOff, start, nl)
	}
	if l.ch == '0' && isOctalDigit(l.peekChar()) {
		// Legacy octal literal, e.g. 0755; not followed by 'n' (BigInt
		// doesn't support legacy octal) and invalid in strict mode, which
		// the parser's early-error pass rejects using Literal's leading
		// zero.
		l.readChar()
		l.readRadixDigits(isOctalDigit)
		return l.finish(NUMBER, l.input[startOff:l.position], start, nl)
	}

	if l.ch != '.' {
		l.readDecimalDigits()
	}
	if l.ch == '.' {
		l.readChar()
		if unicode.IsDigit(l.ch) {
			l.readDecimalDigits()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		l.readDecimalDigits()
	}
	return l.finishNumber(startOff, start, nl)
}

// finishNumber handles the optional trailing `n` BigInt marker shared by
// every literal form except legacy octal.
func (l *Lexer) finishNumber(startOff int, start Position, nl bool) Token {
	if l.ch == 'n' {
		lit := l.input[startOff:l.position]
		l.readChar()
		return l.finish(BIGINT, lit, start, nl)
	}
	if isIDStart(l.ch) || unicode.IsDigit(l.ch) {
		l.addError("identifier starts immediately after numeric literal")
	}
	return l.finish(NUMBER, l.input[startOff:l.position], start, nl)
}

func (l *Lexer) readDecimalDigits() {
	l.readRadixDigits(unicode.IsDigit)
}

func (l *Lexer) readRadixDigits(valid func(rune) bool) {
	sawDigit := false
	for valid(l.ch) || l.ch == '_' {
		if l.ch == '_' {
			l.readChar()
			continue
		}
		sawDigit = true
		l.readChar()
	}
	if !sawDigit {
		l.addError("missing digits in numeric literal")
	}
}

func isHexDigit(r rune) bool {
	_, ok := hexVal(r)
	return ok
}

func isOctalDigit(r rune) bool { return r >= '0' && r <= '7' }

func isBinaryDigit(r rune) bool { return r == '0' || r == '1' }
