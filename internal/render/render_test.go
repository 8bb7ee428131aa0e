package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/lexbrief/internal/domain"
)

func TestBulletize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"three sentences pair then single", "A. B. C.", "• A. B.\n\n• C."},
		{"four sentences", "One! Two? Three. Four.", "• One! Two?\n\n• Three. Four."},
		{"paragraph local", "First para.\n\nSecond para.", "• First para.\n\n• Second para."},
		{"whitespace only separator line", "First.\n   \nSecond.", "• First.\n\n• Second."},
		{"no terminator", "Held that the duty applies", "• Held that the duty applies"},
		{"abbreviation without space is not a cut", "See s.3(1) of the Act. It applies.", "• See s.3(1) of the Act. It applies."},
		{"newline counts as whitespace", "Facts.\nIssues.", "• Facts. Issues."},
		{"empty", "", ""},
		{"blank", "  \n\n  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bulletize(tt.in))
		})
	}
}

func TestBulletize_ParagraphsNeverMerge(t *testing.T) {
	out := Bulletize("Only sentence here.\n\nAnother lone sentence.")
	bullets := strings.Split(out, "\n\n")
	require.Len(t, bullets, 2)
	for _, b := range bullets {
		assert.True(t, strings.HasPrefix(b, Bullet))
		assert.Equal(t, 1, strings.Count(b, "."))
	}
}

func TestSplitSentences_KeepsInnerText(t *testing.T) {
	assert.Equal(t,
		[]string{"The court held X.", "Appeal dismissed!", "Costs?"},
		splitSentences("The court held X.  Appeal dismissed!\tCosts?"))
}

func collect(t *testing.T, r *Revealer, id string) []Frame {
	t.Helper()
	var frames []Frame
	timeout := time.After(5 * time.Second)
	for {
		select {
		case f := <-r.Frames():
			if f.MessageID != id {
				continue
			}
			frames = append(frames, f)
			if f.Done {
				return frames
			}
		case <-timeout:
			t.Fatalf("reveal of %s did not finish", id)
		}
	}
}

func TestRevealer_RevealsOneRunePerFrame(t *testing.T) {
	r := NewRevealer(time.Millisecond)
	defer r.Stop()

	r.Start("m1", "Héllo")
	frames := collect(t, r, "m1")

	require.Len(t, frames, 5)
	assert.Equal(t, "H", frames[0].Visible)
	assert.Equal(t, "H"+Caret, frames[0].Text())
	assert.Equal(t, "Hé", frames[1].Visible)
	assert.Equal(t, "Héllo", frames[4].Visible)
	assert.True(t, frames[4].Done)
	assert.Equal(t, "Héllo", frames[4].Text())
}

func TestRevealer_RestartCancelsPrevious(t *testing.T) {
	r := NewRevealer(time.Millisecond)
	defer r.Stop()

	r.Start("old", strings.Repeat("x", 1000))
	first := <-r.Frames()
	assert.Equal(t, "old", first.MessageID)

	r.Start("new", "abc")
	assert.Equal(t, "new", r.Current())

	var sawOldAfterRestart int
	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case f := <-r.Frames():
			if f.MessageID == "old" {
				sawOldAfterRestart++
				continue
			}
			done = f.Done
		case <-timeout:
			t.Fatal("new reveal did not finish")
		}
	}
	// at most one frame from the cancelled reveal can race the restart
	assert.LessOrEqual(t, sawOldAfterRestart, 1)
}

func TestRevealer_StopEndsReveal(t *testing.T) {
	r := NewRevealer(time.Millisecond)
	r.Start("m", strings.Repeat("y", 1000))
	<-r.Frames()

	r.Stop()
	assert.Empty(t, r.Current())

	select {
	case f := <-r.Frames():
		t.Fatalf("unexpected frame after Stop: %+v", f)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestRevealer_ZeroIntervalSingleFrame(t *testing.T) {
	r := NewRevealer(0)
	defer r.Stop()

	r.Start("m", "all at once")
	f := <-r.Frames()
	assert.True(t, f.Done)
	assert.Equal(t, "all at once", f.Visible)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "03:04 PM", FormatClock(time.Date(2024, 1, 1, 15, 4, 0, 0, time.Local)))
	assert.Equal(t, "09:30 AM", FormatClock(time.Date(2024, 1, 1, 9, 30, 0, 0, time.Local)))
	assert.Equal(t, "12:00 AM", FormatClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)))
}

func TestHTML_CoversMarkdownBasics(t *testing.T) {
	md := "# Holding\n\n**bold** and *italic* with `code` and [link](https://example.com)\n\n- one\n- two\n\n1. first\n\n> quoted\n\n---\n"
	out, err := HTML(md)
	require.NoError(t, err)

	for _, want := range []string{
		"<h1>Holding</h1>", "<strong>bold</strong>", "<em>italic</em>", "<code>code</code>",
		`<a href="https://example.com">link</a>`, "<ul>", "<ol>", "<blockquote>", "<hr>",
	} {
		assert.Contains(t, out, want)
	}
}

func TestHTML_DropsRawHTML(t *testing.T) {
	out, err := HTML("before <script>alert(1)</script> after")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestTerminalRenderer(t *testing.T) {
	tr, err := NewTerminalRenderer("notty", 60)
	require.NoError(t, err)
	assert.Equal(t, 60, tr.Width())

	out := tr.Render("**Verdict:** appeal allowed")
	assert.Contains(t, out, "Verdict")
	assert.Contains(t, out, "appeal allowed")

	var nilRenderer *TerminalRenderer
	assert.Equal(t, "raw", nilRenderer.Render("raw"))
}

func TestPrecedentsMarkdown(t *testing.T) {
	assert.Empty(t, PrecedentsMarkdown(nil))

	out := PrecedentsMarkdown([]domain.Precedent{
		{CaseName: "Donoghue v Stevenson", Excerpt: "neighbour\nprinciple"},
		{CaseName: "", Excerpt: ""},
	})
	assert.Contains(t, out, "1. **Donoghue v Stevenson**")
	assert.Contains(t, out, "> neighbour principle")
	assert.Contains(t, out, "2. **Unnamed case**")
}

func TestAssistantMarkdown(t *testing.T) {
	assert.Equal(t, "• A. B.\n\n• C.", AssistantMarkdown("A. B. C."))
}
