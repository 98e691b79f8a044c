// Package passage reformats the HTML passage bodies returned by the
// scripture-lookup service into chat markup.
//
// The service returns loosely structured HTML: bolded chapter:verse markers,
// optional section headings glued directly onto the following verse, inline
// bold/italic markup, and numeric entities. Formatting parses the body into
// section records (heading-or-none, verse marker, trailing text), renders
// each section as quoted chat lines, and splices the resolved book name back
// in front of each verse marker by pairing sections with the extractor's
// citations by index.
package passage

import (
	"regexp"
	"strings"

	"github.com/bdobrica/Selah/internal/selah/ref"
)

// section is one heading + verse-marker + body unit of a passage response.
type section struct {
	heading string // plain heading text, "" when the verse has no heading
	lead    string // raw HTML between the heading and the marker, usually ""
	marker  string // bare chapter:verse marker, e.g. "3:16"
	body    string // raw HTML between this marker and the next section
}

var (
	headingRe = regexp.MustCompile(`<h[1-9][^>]*>(.*?)</h[1-9]>`)
	markerRe  = regexp.MustCompile(`<b>\s*(\d+:\d+)\s*</b>`)
	tagRe     = regexp.MustCompile(`<[^>]*>`)
)

// entityReplacer maps the numeric entities the service emits onto plain
// chat-safe characters.
var entityReplacer = strings.NewReplacer(
	"&#8211;", "-", // en dash
	"&#8212;", "-", // em dash
	"&#8216;", "'",
	"&#8217;", "'",
	"&#8220;", "\"",
	"&#8221;", "\"",
	"&#8230;", "...",
)

// inlineReplacer remaps inline tags onto chat markup and turns paragraph
// opens into quoted line breaks. Closing </p> falls to the generic tag strip.
var inlineReplacer = strings.NewReplacer(
	"<b>", "*",
	"</b>", "*",
	"<i>", "_",
	"</i>", "_",
)

var paragraphRe = regexp.MustCompile(`<p[^>]*>`)

// Format transforms an HTML passage body into quoted chat markup, attaching
// each citation's book name to the verse section at the same position.
// Citations must be in the order used to build the lookup query; a section
// without a paired citation keeps its bare verse marker, and surplus
// citations are ignored (the mismatch is the lookup service reordering or
// merging verses, which this layer does not defend against).
func Format(body string, citations []ref.Citation) string {
	secs, preamble := parseSections(body)

	var lines []string
	if pre := renderText(preamble); pre != "" {
		lines = append(lines, quoteLine(pre))
	}

	for i, s := range secs {
		if s.heading != "" {
			lines = append(lines, ">*"+renderText(s.heading)+"*")
		}
		if lead := renderText(s.lead); lead != "" {
			lines = append(lines, quoteLine(lead))
		}

		title := s.marker
		if i < len(citations) {
			title = citations[i].Book + " " + s.marker
		}

		line := ">*" + title + "*"
		if text := renderText(s.body); text != "" {
			line += " " + text
		}
		lines = append(lines, line)
	}

	return trimLeadingQuotes(strings.Join(lines, "\n"))
}

// parseSections splits a raw HTML body at its bolded chapter:verse markers.
// A heading element between two markers attaches to the section that
// follows it, including the case where other bolded text sits between the
// heading and the marker. Text before the first marker that belongs to no
// heading is returned as the preamble.
func parseSections(body string) ([]section, string) {
	markers := markerRe.FindAllStringSubmatchIndex(body, -1)
	if len(markers) == 0 {
		return nil, body
	}

	headings := headingRe.FindAllStringSubmatchIndex(body, -1)

	secs := make([]section, 0, len(markers))
	preambleEnd := markers[0][0]

	for i, m := range markers {
		s := section{marker: body[m[2]:m[3]]}

		// Body runs from the end of this marker to the start of the next
		// section's heading (or marker when it has none).
		bodyEnd := len(body)
		if i+1 < len(markers) {
			bodyEnd = markers[i+1][0]
		}

		// Attach the nearest heading that sits between the previous marker
		// and this one.
		prevEnd := 0
		if i > 0 {
			prevEnd = markers[i-1][1]
		}
		for _, h := range headings {
			if h[0] >= prevEnd && h[1] <= m[0] {
				s.heading = body[h[2]:h[3]]
				// Bolded intro text glued between the heading and the verse
				// marker keeps its own quoted line under the heading.
				s.lead = body[h[1]:m[0]]
				if i == 0 && h[0] < preambleEnd {
					preambleEnd = h[0]
				}
			}
		}
		if i+1 < len(markers) {
			// Keep the next section's heading out of this body.
			for _, h := range headings {
				if h[0] >= m[1] && h[1] <= markers[i+1][0] && h[0] < bodyEnd {
					bodyEnd = h[0]
				}
			}
		}

		s.body = body[m[1]:bodyEnd]
		secs = append(secs, s)
	}

	return secs, body[:preambleEnd]
}

// renderText converts one fragment of passage HTML into chat markup:
// bold/italic tags become * and _ markers, numeric entities become plain
// characters, paragraph opens become quoted line breaks, and every other
// tag is stripped.
func renderText(s string) string {
	s = inlineReplacer.Replace(s)
	s = entityReplacer.Replace(s)
	s = paragraphRe.ReplaceAllString(s, "\n>")
	s = StripTags(s)
	return strings.TrimSpace(s)
}

// StripTags removes every remaining HTML tag. It is idempotent: text with
// no tags passes through unchanged.
func StripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

// quoteLine prefixes a rendered fragment with ">" unless a paragraph break
// inside it already put one there.
func quoteLine(s string) string {
	if strings.HasPrefix(s, ">") {
		return s
	}
	return ">" + s
}

// trimLeadingQuotes drops blank or quote-only lines before the first line
// with real content.
func trimLeadingQuotes(s string) string {
	lines := strings.Split(s, "\n")
	start := 0
	for start < len(lines) {
		t := strings.TrimSpace(lines[start])
		if t != "" && t != ">" {
			break
		}
		start++
	}
	return strings.Join(lines[start:], "\n")
}
