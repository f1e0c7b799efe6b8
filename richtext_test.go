package slideshow

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func boolPtr(b bool) *bool { return &b }

func TestRichTextApply(t *testing.T) {
	rt := NewRichText("hello world")
	rt.Apply(0, 5, AttrPatch{Bold: boolPtr(true)})

	runs := rt.Runs()
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d: %+v", len(runs), runs)
	}
	if runs[0].Text != "hello" || !runs[0].Attrs.Bold {
		t.Errorf("first run = %+v", runs[0])
	}
	if runs[1].Text != " world" || runs[1].Attrs.Bold {
		t.Errorf("second run = %+v", runs[1])
	}

	// Unbolding restores a single run.
	rt.Apply(0, 5, AttrPatch{Bold: boolPtr(false)})
	if len(rt.Spans) != 1 {
		t.Errorf("expected merged span, got %+v", rt.Spans)
	}
}

func TestRichTextApplyOutOfRange(t *testing.T) {
	rt := NewRichText("abc")
	rt.Apply(2, 100, AttrPatch{Italic: boolPtr(true)})
	if got := rt.Runs(); len(got) != 2 || got[1].Text != "c" || !got[1].Attrs.Italic {
		t.Errorf("runs = %+v", got)
	}
	rt.Apply(3, 1, AttrPatch{Bold: boolPtr(true)})
	for _, r := range rt.Runs() {
		if r.Attrs.Bold {
			t.Error("empty range changed attributes")
		}
	}
}

func TestRichTextSplitAt(t *testing.T) {
	rt := NewRichText("abcdef")
	if i := rt.SplitAt(3); i != 1 {
		t.Errorf("SplitAt(3) = %d", i)
	}
	if i := rt.SplitAt(3); i != 1 {
		t.Errorf("second SplitAt(3) = %d", i)
	}
	if i := rt.SplitAt(6); i != 2 {
		t.Errorf("SplitAt(end) = %d", i)
	}
	rt.Merge()
	if len(rt.Spans) != 1 {
		t.Errorf("Merge left %d spans", len(rt.Spans))
	}
}

func TestRichTextInsertInheritsPrecedingRun(t *testing.T) {
	rt := NewRichText("ab")
	rt.Apply(0, 1, AttrPatch{Bold: boolPtr(true)})
	rt.Insert(1, "XY")
	if rt.Text != "aXYb" {
		t.Fatalf("text = %q", rt.Text)
	}
	runs := rt.Runs()
	if runs[0].Text != "aXY" || !runs[0].Attrs.Bold || runs[1].Text != "b" {
		t.Errorf("runs = %+v", runs)
	}

	rt.Insert(0, ">")
	if rt.Runs()[0].Text != ">aXY" {
		t.Errorf("insert at start: %+v", rt.Runs())
	}
}

func TestRichTextInsertIntoEmpty(t *testing.T) {
	rt := NewRichText("")
	rt.Insert(0, "héllo")
	if len(rt.Spans) != 1 || rt.Spans[0].End != 5 {
		t.Errorf("spans = %+v", rt.Spans)
	}
}

func TestRichTextDelete(t *testing.T) {
	rt := NewRichText("one two three")
	rt.Apply(4, 7, AttrPatch{Underline: boolPtr(true)})
	rt.Delete(3, 8)
	if rt.Text != "onethree" {
		t.Fatalf("text = %q", rt.Text)
	}
	if len(rt.Spans) != 1 || rt.Spans[0].End != 8 {
		t.Errorf("deleted span not dropped: %+v", rt.Spans)
	}
}

func TestComponentRichTextRepairsSpans(t *testing.T) {
	c := Component{Content: "abcdef", Spans: []Span{
		{Start: 4, End: 10, Attrs: TextAttrs{Bold: true}},
		{Start: 1, End: 2, Attrs: TextAttrs{Italic: true}},
	}}
	rt := c.RichText()
	want := []string{"a", "b", "cd", "ef"}
	runs := rt.Runs()
	if len(runs) != len(want) {
		t.Fatalf("runs = %+v", runs)
	}
	for i, w := range want {
		if runs[i].Text != w {
			t.Errorf("run %d = %q, want %q", i, runs[i].Text, w)
		}
	}
}

// covers reports whether the spans tile [0, Len()) in order.
func covers(rt *RichText) bool {
	pos := 0
	for _, s := range rt.Spans {
		if s.Start != pos || s.End <= s.Start {
			return false
		}
		pos = s.End
	}
	return pos == rt.Len()
}

func TestPropertyRichTextCoverage(t *testing.T) {
	properties := gopter.NewProperties(nil)

	edit := gopter.CombineGens(gen.IntRange(0, 2), gen.IntRange(0, 30), gen.IntRange(0, 30), gen.AlphaString())

	properties.Property("spans always tile the text", prop.ForAll(
		func(text string, edits [][]interface{}) bool {
			rt := NewRichText(text)
			for _, e := range edits {
				a, b, s := e[1].(int), e[2].(int), e[3].(string)
				switch e[0].(int) {
				case 0:
					rt.Apply(a, b, AttrPatch{Bold: boolPtr(a%2 == 0)})
				case 1:
					rt.Insert(a, s)
				case 2:
					rt.Delete(a, b)
				}
				if !covers(rt) {
					return false
				}
			}
			return true
		},
		gen.AlphaString(), gen.SliceOfN(20, edit),
	))

	properties.TestingRun(t)
}
