package devverse

import (
	"reflect"
	"testing"
)

func TestTextWrapsAtWordBoundaries(t *testing.T) {
	n := NewText("t", "one two three four", fixedFont{})
	n.TextBlock.WrapWidth = 80 // eight glyphs

	got := n.TextBlock.Lines()
	want := []string{"one two", "three", "four"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lines = %q, want %q", got, want)
	}
	w, h := n.TextBlock.Size()
	if w != 70 || h != 3*fixedLineHeight {
		t.Errorf("Size = (%v, %v), want (70, %v)", w, h, 3*fixedLineHeight)
	}
}

func TestTextLongWordGetsOwnLine(t *testing.T) {
	n := NewText("t", "a supercalifragilistic b", fixedFont{})
	n.TextBlock.WrapWidth = 50
	got := n.TextBlock.Lines()
	want := []string{"a", "supercalifragilistic", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lines = %q, want %q", got, want)
	}
}

func TestTextNewlinesKeepEmptyLines(t *testing.T) {
	n := NewText("t", "first\n\nthird", fixedFont{})
	got := n.TextBlock.Lines()
	want := []string{"first", "", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lines = %q, want %q", got, want)
	}
}

func TestTextAlignmentOffset(t *testing.T) {
	n := NewText("t", "abcd\nab", fixedFont{})
	tb := n.TextBlock
	lines := tb.layout()

	tb.Align = TextAlignCenter
	if off := tb.lineOffset(lines[1]); off != 10 {
		t.Errorf("center offset = %v, want 10", off)
	}
	tb.Align = TextAlignRight
	if off := tb.lineOffset(lines[1]); off != 20 {
		t.Errorf("right offset = %v, want 20", off)
	}
	tb.Align = TextAlignLeft
	if off := tb.lineOffset(lines[1]); off != 0 {
		t.Errorf("left offset = %v, want 0", off)
	}
}

func TestTextLineHeightOverride(t *testing.T) {
	n := NewText("t", "a\nb", fixedFont{})
	n.TextBlock.LineHeight = 30
	if _, h := n.TextBlock.Size(); h != 60 {
		t.Errorf("height = %v, want 60", h)
	}
}

func TestTextNilFont(t *testing.T) {
	n := NewText("t", "hello", nil)
	if w, h := n.TextBlock.Size(); w != 0 || h != 0 {
		t.Errorf("Size = (%v, %v), want zero without a font", w, h)
	}
	if len(n.TextBlock.Lines()) != 0 {
		t.Error("expected no lines without a font")
	}
}

func TestTextSetWrapWidthRelayouts(t *testing.T) {
	n := NewText("t", "aa bb", fixedFont{})
	if got := len(n.TextBlock.Lines()); got != 1 {
		t.Fatalf("lines = %d, want 1", got)
	}
	n.TextBlock.SetWrapWidth(30)
	if got := len(n.TextBlock.Lines()); got != 2 {
		t.Errorf("lines = %d after narrowing, want 2", got)
	}
}
