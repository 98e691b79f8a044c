// Package ref extracts scripture references from free-form chat text.
//
// Extraction is a two-stage pipeline: a lexer splits the raw text into
// word/number/punctuation tokens, and a small consumer walks the token
// stream building Citation values in input order. A citation that names no
// book inherits the book of the nearest preceding citation; when there is
// nothing to inherit the citation is dropped and extraction continues.
//
// The package is pure: no I/O, no shared state, deterministic output.
package ref

import (
	"strings"
	"unicode"
)

// Citation is one recognized scripture reference occurrence.
type Citation struct {
	// Book is the resolved book name, title-cased ("John", "1 Kings",
	// "Song of Solomon"). Never empty: it is either named in the match or
	// inherited from the previous citation.
	Book string

	// VerseRef is the chapter:verse fragment only, e.g. "3:16" or "3:16-18".
	// A range is kept opaque; the lookup service owns range semantics.
	VerseRef string

	// FullRef is Book and VerseRef joined with a space, e.g. "John 3:16-18".
	FullRef string
}

// maxBookWords caps how many words a book name may span. Three covers every
// canonical name ("Song of Solomon") without swallowing surrounding prose.
const maxBookWords = 3

// Extract parses raw user text into an ordered citation list and the
// canonical query string for the passage-lookup service. Text with no
// recognizable reference yields an empty list and an empty query.
// Duplicate references are kept once per match, preserving input order.
func Extract(raw string) (string, []Citation) {
	toks := lex(raw)

	var cits []Citation
	var pending []string // words that may form the next citation's book
	lastBook := ""

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.kind {
		case tokSep:
			pending = pending[:0]

		case tokWord:
			pending = append(pending, t.text)

		case tokNumber:
			// chapter ":" verse ["-" verse]
			if i+2 < len(toks) && toks[i+1].kind == tokColon && toks[i+2].kind == tokNumber {
				verse := t.text + ":" + toks[i+2].text
				i += 2
				if i+2 < len(toks) && toks[i+1].kind == tokDash && toks[i+2].kind == tokNumber {
					verse += "-" + toks[i+2].text
					i += 2
				}

				book := bookFromWords(pending)
				pending = pending[:0]
				if book == "" {
					book = lastBook
				}
				if book == "" {
					// No book named and nothing to inherit: malformed, drop.
					continue
				}
				lastBook = book

				cits = append(cits, Citation{
					Book:     book,
					VerseRef: verse,
					FullRef:  book + " " + verse,
				})
				continue
			}

			// A bare number directly before a word is a numeric book prefix
			// ("1 John", "2 Kings"); anything else breaks the book run.
			if i+1 < len(toks) && toks[i+1].kind == tokWord {
				pending = append(pending, t.text)
			} else {
				pending = pending[:0]
			}

		case tokColon, tokDash:
			pending = pending[:0]
		}
	}

	return CanonicalQuery(cits), cits
}

// CanonicalQuery joins the citations' full references into the single query
// string sent to the lookup service, with "+" as both the word separator and
// the entry separator ("John+3:16-18+John+4:1").
func CanonicalQuery(cits []Citation) string {
	if len(cits) == 0 {
		return ""
	}
	parts := make([]string, len(cits))
	for i, c := range cits {
		parts[i] = strings.ReplaceAll(c.FullRef, " ", "+")
	}
	return strings.Join(parts, "+")
}

// ApplyAliases returns a copy of cits with each book name looked up in the
// alias table (keys lower-cased, e.g. "jn" → "John") and the full reference
// rebuilt. Books with no alias entry pass through unchanged.
func ApplyAliases(cits []Citation, aliases map[string]string) []Citation {
	if len(aliases) == 0 || len(cits) == 0 {
		return cits
	}
	out := make([]Citation, len(cits))
	for i, c := range cits {
		if full, ok := aliases[strings.ToLower(c.Book)]; ok {
			c.Book = full
			c.FullRef = full + " " + c.VerseRef
		}
		out[i] = c
	}
	return out
}

// bookFromWords resolves a book name from the words accumulated before a
// chapter:verse match. The name is the last word, extended left through
// "of" chains ("Song of Solomon") and a directly preceding numeric prefix
// ("1 John"), capped at maxBookWords words plus the prefix. Returns "" when
// no words are pending.
func bookFromWords(words []string) string {
	if len(words) == 0 {
		return ""
	}

	start := len(words) - 1
	for start >= 2 && len(words)-start < maxBookWords &&
		strings.EqualFold(words[start-1], "of") {
		start -= 2
	}
	if start >= 1 && isDigits(words[start-1]) {
		start--
	}

	parts := make([]string, 0, len(words)-start)
	for _, w := range words[start:] {
		parts = append(parts, titleWord(w))
	}
	return strings.Join(parts, " ")
}

// titleWord upper-cases the first alphabetic character of w, leaving the
// rest untouched. Connective "of" stays lower-case so multi-word books read
// naturally ("Song of Solomon").
func titleWord(w string) string {
	if strings.EqualFold(w, "of") {
		return "of"
	}
	runes := []rune(w)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
	}
	return string(runes)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
