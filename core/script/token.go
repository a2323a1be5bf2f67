package script

import (
	"strings"
	"unicode"

	"github.com/nesh-sh/nesh/errors"
)

// TokenKind classifies the three token shapes of Nesh Script.
type TokenKind int

const (
	// TokenWord is a bare keyword or literal, e.g. CREATE, WITH, true.
	TokenWord TokenKind = iota
	// TokenString is a quoted string literal with quotes stripped. A
	// pipe-joined run of quoted strings ("A"|"B") lexes as one TokenString
	// whose Options field carries every member.
	TokenString
	// TokenVarRef is a $NAME variable reference; Text holds the bare name.
	TokenVarRef
)

func (k TokenKind) String() string {
	switch k {
	case TokenString:
		return "string"
	case TokenVarRef:
		return "variable reference"
	default:
		return "word"
	}
}

// Token is one lexed token.
type Token struct {
	Kind    TokenKind
	Text    string
	Options []string
}

// Tokenize splits a line into whitespace-delimited tokens, preserving quoted
// string literals (including embedded spaces) and $VAR references.
func Tokenize(line string) ([]Token, error) {
	var tokens []Token
	rest := line
	for {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if rest == "" {
			return tokens, nil
		}

		switch rest[0] {
		case '"':
			tok, remainder, err := lexString(rest)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			rest = remainder

		case '$':
			name, remainder := lexName(rest[1:])
			if name == "" {
				return nil, &errors.ParseError{Expected: "variable name after $", Got: rest}
			}
			tokens = append(tokens, Token{Kind: TokenVarRef, Text: name})
			rest = remainder

		default:
			cut := strings.IndexFunc(rest, unicode.IsSpace)
			if cut < 0 {
				cut = len(rest)
			}
			tokens = append(tokens, Token{Kind: TokenWord, Text: rest[:cut]})
			rest = rest[cut:]
		}
	}
}

// lexString reads a quoted string starting at rest[0] == '"'. Consecutive
// quoted strings joined with '|' form one option-set token.
func lexString(rest string) (Token, string, error) {
	var parts []string
	for {
		part, remainder, err := lexQuoted(rest)
		if err != nil {
			return Token{}, "", err
		}
		parts = append(parts, part)
		rest = remainder

		if strings.HasPrefix(rest, "|") && strings.HasPrefix(rest[1:], `"`) {
			rest = rest[1:]
			continue
		}
		break
	}

	tok := Token{Kind: TokenString, Text: parts[0]}
	if len(parts) > 1 {
		tok.Options = parts
	}
	return tok, rest, nil
}

func lexQuoted(rest string) (string, string, error) {
	// rest[0] is the opening quote.
	var sb strings.Builder
	i := 1
	for i < len(rest) {
		switch rest[i] {
		case '\\':
			if i+1 < len(rest) && (rest[i+1] == '"' || rest[i+1] == '\\') {
				sb.WriteByte(rest[i+1])
				i += 2
				continue
			}
			sb.WriteByte(rest[i])
			i++
		case '"':
			return sb.String(), rest[i+1:], nil
		default:
			sb.WriteByte(rest[i])
			i++
		}
	}
	return "", "", &errors.ParseError{Expected: "closing quote", Got: rest}
}

func lexName(rest string) (string, string) {
	i := 0
	for i < len(rest) {
		c := rest[i]
		alpha := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !alpha && !(i > 0 && c >= '0' && c <= '9') {
			break
		}
		i++
	}
	return rest[:i], rest[i:]
}
