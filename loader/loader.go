// Package loader reads PDF documents into page models. It groups the raw
// per-character text elements into word fragments and turns drawn rectangles
// into rules for the locator strategies.
package loader

import (
	"math"
	"sort"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"

	"fintab/model"
)

// Loader reads a PDF into pages.
type Loader struct {
	// RowTolerance is the baseline distance within which characters share a
	// visual line.
	RowTolerance float64

	// WordSpaceMultiplier scales the font size into the gap that separates
	// words.
	WordSpaceMultiplier float64

	// ThinRuleMax treats rectangles at most this thick as drawn rules.
	ThinRuleMax float64
}

// New creates a loader with default settings.
func New() *Loader {
	return &Loader{
		RowTolerance:        3.0,
		WordSpaceMultiplier: 0.3,
		ThinRuleMax:         2.5,
	}
}

// Load reads the document and returns its pages. Pages is an optional
// 1-based selection; nil means all pages. Open errors (password-protected or
// corrupt files) fail the whole document immediately.
func (l *Loader) Load(path string, pages map[int]bool) ([]*model.Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	total := reader.NumPage()
	var out []*model.Page
	for n := 1; n <= total; n++ {
		if pages != nil && !pages[n] {
			continue
		}
		p := reader.Page(n)
		if p.V.IsNull() {
			continue
		}
		out = append(out, l.loadPage(n, p))
	}
	return out, nil
}

// loadPage converts one PDF page into the page model.
func (l *Loader) loadPage(number int, p pdf.Page) *model.Page {
	content := p.Content()
	return l.loadPageContent(number, content.Text, content.Rect)
}

func (l *Loader) loadPageContent(number int, texts []pdf.Text, rects []pdf.Rect) *model.Page {
	page := &model.Page{
		Number:    number,
		Fragments: l.groupWords(texts),
		Rules:     rulesFromRects(rects, l.ThinRuleMax),
	}
	page.Width, page.Height = pageExtent(page)
	return page
}

// groupWords merges per-character text elements into word fragments: bucket
// into visual rows by baseline, then split on gaps wider than a word space.
func (l *Loader) groupWords(texts []pdf.Text) []model.TextFragment {
	var chars []pdf.Text
	for _, t := range texts {
		if t.S == "" || t.S == "\n" || t.S == "\r" {
			continue
		}
		chars = append(chars, t)
	}
	if len(chars) == 0 {
		return nil
	}

	rows := l.groupIntoRows(chars)

	var fragments []model.TextFragment
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].X < row[j].X
		})

		var cur *model.TextFragment
		for _, t := range row {
			threshold := l.WordSpaceMultiplier * t.FontSize
			if threshold <= 0 {
				threshold = 3.0
			}

			if cur != nil && t.X-cur.BBox.Right() <= threshold {
				cur.Text += t.S
				cur.BBox.Width = t.X + t.W - cur.BBox.X
				if t.FontSize > cur.BBox.Height {
					cur.BBox.Height = t.FontSize
				}
				continue
			}
			if cur != nil {
				fragments = append(fragments, *cur)
			}
			cur = &model.TextFragment{
				Text:     t.S,
				BBox:     model.NewBBox(t.X, t.Y, t.W, t.FontSize),
				FontSize: t.FontSize,
			}
		}
		if cur != nil {
			fragments = append(fragments, *cur)
		}
	}

	return fragments
}

// groupIntoRows buckets characters by baseline within the row tolerance,
// ordered top to bottom.
func (l *Loader) groupIntoRows(chars []pdf.Text) [][]pdf.Text {
	sorted := make([]pdf.Text, len(chars))
	copy(sorted, chars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var rows [][]pdf.Text
	for _, t := range sorted {
		if len(rows) > 0 {
			last := rows[len(rows)-1]
			if math.Abs(last[0].Y-t.Y) <= l.RowTolerance {
				rows[len(rows)-1] = append(last, t)
				continue
			}
		}
		rows = append(rows, []pdf.Text{t})
	}
	return rows
}

// rulesFromRects converts thin filled rectangles into line rules. Wide flat
// rectangles become horizontal rules, tall narrow ones vertical; anything
// thicker is decoration and is ignored.
func rulesFromRects(rects []pdf.Rect, thinMax float64) []model.Rule {
	var rules []model.Rule
	for _, r := range rects {
		w := math.Abs(r.Max.X - r.Min.X)
		h := math.Abs(r.Max.Y - r.Min.Y)
		switch {
		case h <= thinMax && w > h:
			y := (r.Min.Y + r.Max.Y) / 2
			rules = append(rules, model.Rule{
				Start: model.Point{X: math.Min(r.Min.X, r.Max.X), Y: y},
				End:   model.Point{X: math.Max(r.Min.X, r.Max.X), Y: y},
				Width: h,
			})
		case w <= thinMax && h > w:
			x := (r.Min.X + r.Max.X) / 2
			rules = append(rules, model.Rule{
				Start: model.Point{X: x, Y: math.Min(r.Min.Y, r.Max.Y)},
				End:   model.Point{X: x, Y: math.Max(r.Min.Y, r.Max.Y)},
				Width: w,
			})
		}
	}
	return rules
}

// pageExtent derives page bounds from the content extents. The reader does
// not expose the media box directly, and downstream geometry only needs a
// bound that covers the content.
func pageExtent(p *model.Page) (width, height float64) {
	for _, f := range p.Fragments {
		width = math.Max(width, f.BBox.Right())
		height = math.Max(height, f.BBox.Top())
	}
	for _, r := range p.Rules {
		width = math.Max(width, math.Max(r.Start.X, r.End.X))
		height = math.Max(height, math.Max(r.Start.Y, r.End.Y))
	}
	return width, height
}
