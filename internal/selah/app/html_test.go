package app

import "testing"

func TestChatToHTML_QuotedLines(t *testing.T) {
	in := "Here's your verse!\n>*John 3:16* For God so loved the world.\n>*John 3:17* For God did not send his Son to condemn."
	got := chatToHTML(in)
	want := "Here&#39;s your verse!<blockquote><strong>John 3:16</strong> For God so loved the world.<br/><strong>John 3:17</strong> For God did not send his Son to condemn.</blockquote>"
	if got != want {
		t.Errorf("chatToHTML:\n got %q\nwant %q", got, want)
	}
}

func TestChatToHTML_PlainLines(t *testing.T) {
	got := chatToHTML("line one\nline two")
	want := "line one<br/>line two"
	if got != want {
		t.Errorf("chatToHTML: got %q, want %q", got, want)
	}
}

func TestChatToHTML_Inline(t *testing.T) {
	got := chatToHTML("**Selah**\nsome _emphasis_ here")
	want := "<strong>Selah</strong><br/>some <em>emphasis</em> here"
	if got != want {
		t.Errorf("chatToHTML: got %q, want %q", got, want)
	}
}

func TestChatToHTML_EscapesHTML(t *testing.T) {
	got := chatToHTML("<script>alert(1)</script>")
	if got != "&lt;script&gt;alert(1)&lt;/script&gt;" {
		t.Errorf("markup not escaped: %q", got)
	}
}

func TestChatToHTML_UnpairedMarkerUntouched(t *testing.T) {
	got := chatToHTML("posting at 9_30 today")
	if got != "posting at 9_30 today" {
		t.Errorf("lone marker rewritten: %q", got)
	}
}

func TestChatToHTML_QuoteThenPlain(t *testing.T) {
	got := chatToHTML(">quoted\nplain after")
	want := "<blockquote>quoted</blockquote>plain after"
	if got != want {
		t.Errorf("chatToHTML: got %q, want %q", got, want)
	}
}
