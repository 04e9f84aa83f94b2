package builder

import (
	"math"
	"sort"
	"strings"

	"fintab/model"
)

// titleKeywords are substrings a short statement title is expected to carry.
var titleKeywords = []string{
	"摘要", "概要", "概覽", "综", "綜", "财务", "財務", "收益",
}

// DetectTitle looks for a short statement title in the page region above the
// table's top edge. Fragments there are bucketed into visual lines; the
// topmost line holding 2 to 20 CJK characters and a title keyword (or the
// character 表) wins, truncated to the configured length. Returns "" when
// nothing qualifies.
func (b *Builder) DetectTitle(page *model.Page, tableTop float64) string {
	if page == nil {
		return ""
	}

	type line struct {
		key   float64
		parts []model.TextFragment
	}
	lines := make(map[float64]*line)

	for _, frag := range page.Fragments {
		if frag.BBox.Bottom() < tableTop {
			continue
		}
		// Bucket by distance from the page top so nearly level fragments
		// share a line.
		key := math.Round((page.Height-frag.BBox.Top())/3) * 3
		l, ok := lines[key]
		if !ok {
			l = &line{key: key}
			lines[key] = l
		}
		l.parts = append(l.parts, frag)
	}
	if len(lines) == 0 {
		return ""
	}

	ordered := make([]*line, 0, len(lines))
	for _, l := range lines {
		ordered = append(ordered, l)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].key < ordered[j].key
	})

	for _, l := range ordered {
		sort.SliceStable(l.parts, func(i, j int) bool {
			return l.parts[i].BBox.Left() < l.parts[j].BBox.Left()
		})
		var sb strings.Builder
		for _, frag := range l.parts {
			sb.WriteString(frag.Text)
		}
		s := strings.TrimSpace(sb.String())
		if s == "" {
			continue
		}

		cn := model.HanCount(s)
		if cn < 2 || cn > 20 {
			continue
		}
		if strings.Contains(s, "表") || containsAny(s, titleKeywords) {
			return model.TruncateRunes(s, b.config.TitleMaxRunes)
		}
	}

	return ""
}
