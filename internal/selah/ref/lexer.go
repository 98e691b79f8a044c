package ref

import (
	"strings"
	"unicode"
)

// tokenKind classifies a lexed input fragment.
type tokenKind int

const (
	tokWord   tokenKind = iota // a run of letters ("John", "Romans", "of")
	tokNumber                  // a run of digits ("3", "16")
	tokColon                   // chapter/verse divider
	tokDash                    // verse-range divider
	tokSep                     // hard separator: punctuation, newline, "and"
)

// token is one lexed fragment of the raw input.
type token struct {
	kind tokenKind
	text string
}

// connectives are words that join citations in running text rather than
// naming a book. They lex as separators so that "Romans 8:1 and 8:3" makes
// the second citation inherit Romans instead of resolving the book "And".
var connectives = map[string]bool{
	"and":  true,
	"then": true,
	"also": true,
}

// lex splits raw user text into tokens. A run of letters glued to a run of
// digits ("John3:16") splits cleanly because each run is its own token.
// Plain spaces are soft boundaries (multi-word books span them); newlines
// and punctuation are hard separators.
func lex(raw string) []token {
	var toks []token
	runes := []rune(raw)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsLetter(r):
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			word := string(runes[i:j])
			if connectives[strings.ToLower(word)] {
				toks = append(toks, token{kind: tokSep, text: word})
			} else {
				toks = append(toks, token{kind: tokWord, text: word})
			}
			i = j
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			toks = append(toks, token{kind: tokNumber, text: string(runes[i:j])})
			i = j
		case r == ':':
			toks = append(toks, token{kind: tokColon, text: ":"})
			i++
		case r == '-' || r == '–':
			toks = append(toks, token{kind: tokDash, text: "-"})
			i++
		case r == ' ' || r == '\t':
			// Soft boundary: token runs already ended, nothing to emit.
			i++
		default:
			// Newlines, commas, semicolons, and any other rune end a book run.
			toks = append(toks, token{kind: tokSep, text: string(r)})
			i++
		}
	}

	return toks
}
