package repertoire

import "strings"

// TokenType identifies the kind of a Token.
type TokenType int

const (
	// EOF marks the end of the token stream.
	EOF TokenType = iota
	// MOVE is a move in short algebraic notation, check suffix included.
	MOVE
	// MoveNumber is a move index ("12." or "12...") not followed by a move.
	MoveNumber
	// VariationStart opens a sub-variation.
	VariationStart
	// VariationEnd closes a sub-variation.
	VariationEnd
	// COMMENT is a brace comment, braces included.
	COMMENT
	// LineComment is a ';' comment running to the end of the line.
	LineComment
	// ESCAPE is a '%' escape line.
	ESCAPE
	// NAG is a numeric annotation glyph such as "$1".
	NAG
	// ANNOTATION is a move suffix annotation such as "!?".
	ANNOTATION
	// RESULT is a game termination marker.
	RESULT
	// TagPair is a complete "[Name "value"]" tag.
	TagPair
)

var tokenTypeNames = [...]string{
	EOF:            "EOF",
	MOVE:           "MOVE",
	MoveNumber:     "MOVE_NUMBER",
	VariationStart: "VARIATION_START",
	VariationEnd:   "VARIATION_END",
	COMMENT:        "COMMENT",
	LineComment:    "LINE_COMMENT",
	ESCAPE:         "ESCAPE",
	NAG:            "NAG",
	ANNOTATION:     "ANNOTATION",
	RESULT:         "RESULT",
	TagPair:        "TAG_PAIR",
}

// String implements the fmt.Stringer interface.
func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "UNKNOWN"
}

// Token is a lexical token. Value is a slice of the lexer input, it is
// never copied.
type Token struct {
	Type   TokenType
	Value  string
	Offset int
}

// Lexer scans PGN movetext one token at a time.
type Lexer struct {
	input string
	pos   int
	done  bool
}

// NewLexer returns a lexer over input.
//
// Example:
//
//	lexer := NewLexer("1. e4 e5 (1... c5) 2. Nf3")
//	for tok, ok := lexer.NextToken(); ok; tok, ok = lexer.NextToken() {
//		fmt.Println(tok.Type, tok.Value)
//	}
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize drains a lexer over input.
func Tokenize(input string) []Token {
	var tokens []Token
	l := NewLexer(input)
	for tok, ok := l.NextToken(); ok; tok, ok = l.NextToken() {
		tokens = append(tokens, tok)
	}
	return tokens
}

// scanFunc tries to recognise a token at the lexer position. It returns the
// token and the number of input bytes it consumed.
type scanFunc func(l *Lexer) (Token, int, bool)

// Order matters: the first rule that matches wins.
var scanners = []scanFunc{
	scanEscape,
	scanLineComment,
	scanResult,
	scanNumberedMove,
	scanTagPair,
	scanVariation,
	scanComment,
	scanNAG,
	scanAnnotation,
	scanBareMove,
}

// NextToken returns the next token, or false once the input is exhausted or
// no rule matches at the current position. After that it keeps returning
// false.
func (l *Lexer) NextToken() (Token, bool) {
	if l.done {
		return Token{Type: EOF, Offset: l.pos}, false
	}
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		l.done = true
		return Token{Type: EOF, Offset: l.pos}, false
	}

	for _, scan := range scanners {
		if tok, n, ok := scan(l); ok {
			l.pos += n
			return tok, true
		}
	}

	l.done = true
	return Token{Type: EOF, Offset: l.pos}, false
}

// Remaining returns the input that has not been consumed. It is only
// non-empty when tokenization stopped on unrecognised input.
func (l *Lexer) Remaining() string {
	return l.input[l.pos:]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) rest() string {
	return l.input[l.pos:]
}

func (l *Lexer) token(t TokenType, n int) (Token, int, bool) {
	return Token{Type: t, Value: l.input[l.pos : l.pos+n], Offset: l.pos}, n, true
}

func scanEscape(l *Lexer) (Token, int, bool) {
	s := l.rest()
	if s[0] != '%' || (l.pos > 0 && l.input[l.pos-1] != '\n') {
		return Token{}, 0, false
	}
	return l.token(ESCAPE, lineLength(s))
}

func scanLineComment(l *Lexer) (Token, int, bool) {
	s := l.rest()
	if s[0] != ';' {
		return Token{}, 0, false
	}
	return l.token(LineComment, lineLength(s))
}

func lineLength(s string) int {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return i
	}
	return len(s)
}

var results = []string{"1/2-1/2", "1-0", "0-1", "*"}

func scanResult(l *Lexer) (Token, int, bool) {
	s := l.rest()
	for _, r := range results {
		if strings.HasPrefix(s, r) {
			return l.token(RESULT, len(r))
		}
	}
	return Token{}, 0, false
}

// scanNumberedMove consumes a move number and returns the move that follows
// it. A number without a move becomes a MoveNumber token.
func scanNumberedMove(l *Lexer) (Token, int, bool) {
	s := l.rest()
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == 0 {
		return Token{}, 0, false
	}
	dots := i
	for dots < len(s) && s[dots] == '.' {
		dots++
	}
	if dots == i {
		return Token{}, 0, false
	}

	j := dots
	for j < len(s) && isSpace(s[j]) {
		j++
	}
	if n := moveLength(s[j:]); n > 0 {
		return Token{Type: MOVE, Value: s[j : j+n], Offset: l.pos + j}, j + n, true
	}
	return l.token(MoveNumber, dots)
}

func scanTagPair(l *Lexer) (Token, int, bool) {
	s := l.rest()
	if s[0] != '[' {
		return Token{}, 0, false
	}
	i := skipSpaces(s, 1)
	start := i
	for i < len(s) && isSymbol(s[i]) {
		i++
	}
	if i == start {
		return Token{}, 0, false
	}
	i = skipSpaces(s, i)
	if i >= len(s) || s[i] != '"' {
		return Token{}, 0, false
	}
	i++
	for i < len(s) && s[i] != '"' {
		if s[i] == '\\' {
			i++
		}
		i++
	}
	if i >= len(s) {
		return Token{}, 0, false
	}
	i = skipSpaces(s, i+1)
	if i >= len(s) || s[i] != ']' {
		return Token{}, 0, false
	}
	return l.token(TagPair, i+1)
}

func scanVariation(l *Lexer) (Token, int, bool) {
	switch l.rest()[0] {
	case '(':
		return l.token(VariationStart, 1)
	case ')':
		return l.token(VariationEnd, 1)
	}
	return Token{}, 0, false
}

func scanComment(l *Lexer) (Token, int, bool) {
	s := l.rest()
	if s[0] != '{' {
		return Token{}, 0, false
	}
	end := strings.IndexByte(s, '}')
	if end < 0 {
		return Token{}, 0, false
	}
	return l.token(COMMENT, end+1)
}

func scanNAG(l *Lexer) (Token, int, bool) {
	s := l.rest()
	if s[0] != '$' {
		return Token{}, 0, false
	}
	i := 1
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == 1 {
		return Token{}, 0, false
	}
	return l.token(NAG, i)
}

var annotations = []string{"!!", "??", "!?", "?!", "!", "?"}

func scanAnnotation(l *Lexer) (Token, int, bool) {
	s := l.rest()
	for _, a := range annotations {
		if strings.HasPrefix(s, a) {
			return l.token(ANNOTATION, len(a))
		}
	}
	return Token{}, 0, false
}

func scanBareMove(l *Lexer) (Token, int, bool) {
	if n := moveLength(l.rest()); n > 0 {
		return l.token(MOVE, n)
	}
	return Token{}, 0, false
}

// moveLength returns the length of the move at the start of s, or 0.
func moveLength(s string) int {
	if s == "" {
		return 0
	}
	var n int
	switch c := s[0]; {
	case isFile(c):
		n = pawnMoveLength(s)
	case isPiece(c):
		n = pieceMoveLength(s)
	case c == 'O' || c == '0':
		n = castlingLength(s)
	case c == '-' || c == 'Z':
		n = nullMoveLength(s)
	}
	if n == 0 {
		return 0
	}
	return n + checkLength(s[n:])
}

// pawnMoveLength matches e4, exd5, e8=Q, e8Q and exd8=N.
func pawnMoveLength(s string) int {
	i := 1
	switch {
	case len(s) > i && isRank(s[i]):
		i++
	case len(s) > i+2 && s[i] == 'x' && isFile(s[i+1]) && isRank(s[i+2]):
		i += 3
	default:
		return 0
	}
	switch {
	case len(s) > i+1 && s[i] == '=' && isPromotion(s[i+1]):
		i += 2
	case len(s) > i && isPromotion(s[i]):
		i++
	}
	return i
}

// pieceMoveLength matches Nf3, Nbd7, R1e2, Qh4e1 and their captures.
func pieceMoveLength(s string) int {
	end := 1
	for end < len(s) && end <= 6 && (isFile(s[end]) || isRank(s[end]) || s[end] == 'x') {
		end++
	}
	for ; end >= 3; end-- {
		if isPieceBody(s[1:end]) {
			return end
		}
	}
	return 0
}

func isPieceBody(b string) bool {
	n := len(b)
	if n < 2 || !isFile(b[n-2]) || !isRank(b[n-1]) {
		return false
	}
	from := strings.TrimSuffix(b[:n-2], "x")
	switch len(from) {
	case 0:
		return true
	case 1:
		return isFile(from[0]) || isRank(from[0])
	case 2:
		return isFile(from[0]) && isRank(from[1])
	}
	return false
}

func castlingLength(s string) int {
	for _, c := range []string{"O-O-O", "O-O", "0-0-0", "0-0"} {
		if strings.HasPrefix(s, c) {
			return len(c)
		}
	}
	return 0
}

func nullMoveLength(s string) int {
	if strings.HasPrefix(s, "--") || strings.HasPrefix(s, "Z0") {
		return 2
	}
	return 0
}

func checkLength(s string) int {
	i := 0
	for i < len(s) && (s[i] == '+' || s[i] == '#') {
		i++
	}
	return i
}

func skipSpaces(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isFile(c byte) bool { return c >= 'a' && c <= 'h' }

func isRank(c byte) bool { return c >= '1' && c <= '8' }

func isPiece(c byte) bool { return strings.IndexByte("KQRBN", c) >= 0 }

func isPromotion(c byte) bool { return strings.IndexByte("QRBN", c) >= 0 }

func isSymbol(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}
