package model

import "math"

// TextFragment is a positioned run of text on a page. Fragments are the atoms
// the locator strategies cluster into cells; a fragment never spans more than
// one visual word or short phrase.
type TextFragment struct {
	Text     string
	BBox     BBox
	FontSize float64
}

// Rule is a drawn line segment, typically a table border or separator.
type Rule struct {
	Start Point
	End   Point
	Width float64
}

// IsHorizontal returns true when the rule runs left-to-right within tolerance.
func (r Rule) IsHorizontal() bool {
	return math.Abs(r.Start.Y-r.End.Y) < 2.0
}

// IsVertical returns true when the rule runs top-to-bottom within tolerance.
func (r Rule) IsVertical() bool {
	return math.Abs(r.Start.X-r.End.X) < 2.0
}

// Length returns the Euclidean length of the rule.
func (r Rule) Length() float64 {
	return r.Start.Distance(r.End)
}

// BBox returns the bounding box covering the rule.
func (r Rule) BBox() BBox {
	x := math.Min(r.Start.X, r.End.X)
	y := math.Min(r.Start.Y, r.End.Y)
	return BBox{
		X:      x,
		Y:      y,
		Width:  math.Abs(r.End.X - r.Start.X),
		Height: math.Abs(r.End.Y - r.Start.Y),
	}
}

// Page holds the extracted content of a single PDF page. Pages are produced
// by the loader or supplied directly by callers; the pipeline never mutates
// a Page after construction.
type Page struct {
	Number    int // 1-based
	Width     float64
	Height    float64
	Fragments []TextFragment
	Rules     []Rule
}

// HorizontalRules returns the subset of rules that are horizontal.
func (p *Page) HorizontalRules() []Rule {
	var out []Rule
	for _, r := range p.Rules {
		if r.IsHorizontal() {
			out = append(out, r)
		}
	}
	return out
}

// VerticalRules returns the subset of rules that are vertical.
func (p *Page) VerticalRules() []Rule {
	var out []Rule
	for _, r := range p.Rules {
		if r.IsVertical() {
			out = append(out, r)
		}
	}
	return out
}

// FragmentsIn returns the fragments whose centers fall inside the region.
func (p *Page) FragmentsIn(region BBox) []TextFragment {
	var out []TextFragment
	for _, f := range p.Fragments {
		if region.Contains(f.BBox.Center()) {
			out = append(out, f)
		}
	}
	return out
}
