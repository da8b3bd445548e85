package lexer

// TokenStream replays an already scanned token slice. It satisfies the same
// Next contract as Lexer: after the last token it keeps returning TOKEN_EOF.
type TokenStream struct {
	tokens []Token
	pos    int
}

// NewTokenStream creates a TokenStream over tokens
func NewTokenStream(tokens []Token) *TokenStream {
	return &TokenStream{tokens: tokens}
}

// Next returns the next token
func (s *TokenStream) Next() Token {
	if s.pos >= len(s.tokens) {
		if n := len(s.tokens); n > 0 && s.tokens[n-1].Type == TOKEN_EOF {
			return s.tokens[n-1]
		}
		return Token{Type: TOKEN_EOF}
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok
}
