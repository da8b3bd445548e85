package parser

import (
	"sort"

	"github.com/CerenB/miss-hit/compiler/lexer"
)

// Fix is an instruction for autofix tooling, attached to a token
type Fix string

const (
	FixAddSemicolon         Fix = "add_semicolon"
	FixReplaceWithSemicolon Fix = "replace_with_semicolon"
	FixDelete               Fix = "delete"
	FixInsertComma          Fix = "insert_comma"
)

// Annotations is the token side table of one parse. Tokens are keyed by
// their stream index; fixes and owner links never change the tree.
type Annotations struct {
	fixes  map[int][]Fix
	tokens map[int]lexer.Token
	owners map[int]ID
}

// NewAnnotations creates an empty side table
func NewAnnotations() *Annotations {
	return &Annotations{
		fixes:  make(map[int][]Fix),
		tokens: make(map[int]lexer.Token),
		owners: make(map[int]ID),
	}
}

// AddFix records a fix for tok. Adding the same fix twice is a no-op.
func (a *Annotations) AddFix(tok lexer.Token, fix Fix) {
	for _, f := range a.fixes[tok.Index] {
		if f == fix {
			return
		}
	}
	a.fixes[tok.Index] = append(a.fixes[tok.Index], fix)
	a.tokens[tok.Index] = tok
}

// Fixes returns the fixes recorded for the token with the given index
func (a *Annotations) Fixes(index int) []Fix {
	return a.fixes[index]
}

// HasFix reports whether any token carries fix
func (a *Annotations) HasFix(fix Fix) bool {
	for _, fixes := range a.fixes {
		for _, f := range fixes {
			if f == fix {
				return true
			}
		}
	}
	return false
}

// FixedTokens returns every token carrying a fix, in stream order
func (a *Annotations) FixedTokens() []lexer.Token {
	result := make([]lexer.Token, 0, len(a.tokens))
	for _, tok := range a.tokens {
		result = append(result, tok)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Index < result[j].Index })
	return result
}

// SetOwner links tok to the node that consumed it
func (a *Annotations) SetOwner(tok lexer.Token, id ID) {
	if tok.Synthetic {
		return
	}
	a.owners[tok.Index] = id
}

// Owner returns the node that consumed the token with the given index
func (a *Annotations) Owner(index int) (ID, bool) {
	id, ok := a.owners[index]
	return id, ok
}
