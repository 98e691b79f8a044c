package app

import (
	"html"
	"strings"
)

// chatToHTML converts the small chat markup produced by Selah's handlers
// into HTML suitable for a Matrix m.text event with
// format=org.matrix.custom.html.
//
// Supported constructs (in order of processing):
//   - Quoted lines  >…       → <blockquote>…</blockquote> (runs merged)
//   - Bold  *…* and **…**    → <strong>…</strong>
//   - Italic  _…_            → <em>…</em>
//   - Bullets  •             → left as-is
//   - Newlines               → <br/>
func chatToHTML(text string) string {
	var out strings.Builder
	lines := strings.Split(text, "\n")
	inQuote := false
	for i, line := range lines {
		quoted := strings.HasPrefix(line, ">")
		switch {
		case quoted && !inQuote:
			out.WriteString("<blockquote>")
			inQuote = true
		case !quoted && inQuote:
			out.WriteString("</blockquote>")
			inQuote = false
		case i > 0:
			out.WriteString("<br/>")
		}
		out.WriteString(inlineHTML(strings.TrimPrefix(line, ">")))
	}
	if inQuote {
		out.WriteString("</blockquote>")
	}
	return out.String()
}

// inlineHTML escapes a line and applies bold/italic spans.
func inlineHTML(line string) string {
	escaped := html.EscapeString(line)
	escaped = replacePairs(escaped, "**", "<strong>", "</strong>")
	escaped = replacePairs(escaped, "*", "<strong>", "</strong>")
	escaped = replacePairs(escaped, "_", "<em>", "</em>")
	return escaped
}

// replacePairs swaps alternating occurrences of marker with open/close tags.
// An unpaired trailing marker is left untouched.
func replacePairs(s, marker, open, close string) string {
	if strings.Count(s, marker) < 2 {
		return s
	}
	var out strings.Builder
	opened := false
	for {
		idx := strings.Index(s, marker)
		if idx < 0 {
			break
		}
		// Leave a lone closing marker alone when nothing remains to pair it.
		if !opened && strings.Count(s[idx+len(marker):], marker) == 0 {
			break
		}
		out.WriteString(s[:idx])
		if opened {
			out.WriteString(close)
		} else {
			out.WriteString(open)
		}
		opened = !opened
		s = s[idx+len(marker):]
	}
	out.WriteString(s)
	return out.String()
}
