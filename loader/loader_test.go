package loader

import (
	"testing"

	"github.com/ledongthuc/pdf"
)

func char(s string, x, y, w float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: w, FontSize: 10}
}

func TestGroupWordsMergesAdjacentChars(t *testing.T) {
	l := New()

	// "收入" as two tightly packed characters, then a number after a wide gap.
	texts := []pdf.Text{
		char("收", 50, 700, 10),
		char("入", 60.5, 700, 10),
		char("1", 150, 700, 5),
		char(",", 155, 700, 3),
		char("2", 158, 700, 5),
		char("3", 163, 700, 5),
		char("4", 168, 700, 5),
	}

	frags := l.groupWords(texts)
	if len(frags) != 2 {
		t.Fatalf("fragments = %d, want 2", len(frags))
	}
	if frags[0].Text != "收入" {
		t.Errorf("first fragment = %q, want 收入", frags[0].Text)
	}
	if frags[1].Text != "1,234" {
		t.Errorf("second fragment = %q, want 1,234", frags[1].Text)
	}
	if got := frags[0].BBox.Right(); got != 70.5 {
		t.Errorf("merged right edge = %v, want 70.5", got)
	}
}

func TestGroupWordsSeparatesRows(t *testing.T) {
	l := New()

	texts := []pdf.Text{
		char("a", 50, 700, 5),
		char("b", 55, 700, 5),
		char("c", 50, 680, 5),
	}

	frags := l.groupWords(texts)
	if len(frags) != 2 {
		t.Fatalf("fragments = %d, want 2", len(frags))
	}
	if frags[0].Text != "ab" || frags[1].Text != "c" {
		t.Errorf("fragments = %q, %q; want ab, c", frags[0].Text, frags[1].Text)
	}
	if frags[0].BBox.Y <= frags[1].BBox.Y {
		t.Errorf("rows out of order: first Y %v, second Y %v", frags[0].BBox.Y, frags[1].BBox.Y)
	}
}

func TestGroupWordsBaselineJitter(t *testing.T) {
	l := New()

	// Slight baseline wobble within the tolerance stays one row.
	texts := []pdf.Text{
		char("x", 50, 700, 5),
		char("y", 55, 701.5, 5),
	}

	frags := l.groupWords(texts)
	if len(frags) != 1 {
		t.Fatalf("fragments = %d, want 1", len(frags))
	}
	if frags[0].Text != "xy" {
		t.Errorf("fragment = %q, want xy", frags[0].Text)
	}
}

func TestGroupWordsSkipsEmptyAndNewlines(t *testing.T) {
	l := New()

	texts := []pdf.Text{
		char("a", 50, 700, 5),
		char("\n", 55, 700, 0),
		char("", 60, 700, 0),
	}

	frags := l.groupWords(texts)
	if len(frags) != 1 || frags[0].Text != "a" {
		t.Fatalf("fragments = %v, want single %q", frags, "a")
	}
}

func TestRulesFromRects(t *testing.T) {
	rects := []pdf.Rect{
		// Thin horizontal strip.
		{Min: pdf.Point{X: 50, Y: 699}, Max: pdf.Point{X: 300, Y: 700}},
		// Thin vertical strip.
		{Min: pdf.Point{X: 100, Y: 600}, Max: pdf.Point{X: 101, Y: 700}},
		// Thick shaded box, not a rule.
		{Min: pdf.Point{X: 50, Y: 650}, Max: pdf.Point{X: 300, Y: 680}},
	}

	rules := rulesFromRects(rects, 2.5)
	if len(rules) != 2 {
		t.Fatalf("rules = %d, want 2", len(rules))
	}
	if !rules[0].IsHorizontal() {
		t.Errorf("first rule should be horizontal: %+v", rules[0])
	}
	if rules[0].Length() != 250 {
		t.Errorf("horizontal length = %v, want 250", rules[0].Length())
	}
	if !rules[1].IsVertical() {
		t.Errorf("second rule should be vertical: %+v", rules[1])
	}
	if rules[1].Start.Y != 600 || rules[1].End.Y != 700 {
		t.Errorf("vertical extent = %v..%v, want 600..700", rules[1].Start.Y, rules[1].End.Y)
	}
}

func TestPageExtentCoversContent(t *testing.T) {
	l := New()

	texts := []pdf.Text{char("a", 500, 750, 10)}
	page := l.loadPageContent(1, texts, []pdf.Rect{
		{Min: pdf.Point{X: 0, Y: 99}, Max: pdf.Point{X: 595, Y: 100}},
	})

	if page.Width != 595 {
		t.Errorf("width = %v, want 595", page.Width)
	}
	if page.Height != 760 {
		t.Errorf("height = %v, want 760", page.Height)
	}
}
