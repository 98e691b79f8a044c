// Package dialog implements the yes/no confirmation exchange that gates a
// conversationally detected set of citations before the passage is fetched.
//
// When citations are detected outside an explicit command, the bot lists
// what it understood and asks for confirmation. Each following turn from the
// same sender in the same room is classified into one of three outcomes:
// proceed with the fetch, abort, or re-ask the question. No reply to a
// pending dialog can fail fatally; anything unrecognized degrades to a
// re-prompt, and stale dialogs expire through the store's TTL sweep.
package dialog

import (
	"strings"

	"github.com/bdobrica/Selah/internal/selah/ref"
)

// Kind is the classification of one confirmation turn.
type Kind int

const (
	// KindReprompt re-asks the question; the pending state is unchanged.
	KindReprompt Kind = iota
	// KindProceed confirms the fetch; Outcome.Query carries the lookup query.
	KindProceed
	// KindAbort declines the fetch; the dialog is over.
	KindAbort
)

// Outcome is the result of classifying one user reply to a pending dialog.
type Outcome struct {
	Kind Kind
	// Prompt is the text to re-ask with (KindReprompt only).
	Prompt string
	// Query is the canonical lookup query re-derived from the pending
	// citations (KindProceed only).
	Query string
}

// Prompt builds the two-line confirmation message for a freshly detected
// citation list: what was understood, then the yes/no question.
func Prompt(cits []ref.Citation) string {
	if len(cits) > 1 {
		return "I found these scripture references:" + ListRefs(cits) + "\n" + question(true)
	}
	return "I found this scripture reference:" + ListRefs(cits) + "\n" + question(false)
}

// ListRefs joins the citations' full references for human-readable listing,
// with a leading space: " A", " A and B", " A, B, and C".
func ListRefs(cits []ref.Citation) string {
	switch len(cits) {
	case 0:
		return ""
	case 1:
		return " " + cits[0].FullRef
	case 2:
		return " " + cits[0].FullRef + " and " + cits[1].FullRef
	}

	var sb strings.Builder
	for i, c := range cits {
		switch {
		case i == 0:
			sb.WriteString(" ")
		case i == len(cits)-1:
			sb.WriteString(", and ")
		default:
			sb.WriteString(", ")
		}
		sb.WriteString(c.FullRef)
	}
	return sb.String()
}

// OnReply classifies the user's next turn against the pending state.
// A reply containing "yes" (case-insensitive) wins over one containing
// "no"; a reply containing neither, including an empty one, re-prompts.
func OnReply(text string, st *State) Outcome {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "yes"):
		return Outcome{Kind: KindProceed, Query: ref.CanonicalQuery(st.Citations)}
	case strings.Contains(lower, "no"):
		return Outcome{Kind: KindAbort}
	default:
		return Outcome{
			Kind:   KindReprompt,
			Prompt: "Whoops, I'm still waiting for a yes or no.\n" + question(st.Plural()),
		}
	}
}

func question(plural bool) string {
	if plural {
		return "Would you like me to post them? (yes or no)"
	}
	return "Would you like me to post it? (yes or no)"
}
