package score

import (
	"strings"
	"testing"

	"fintab/model"
)

func mustTable(t *testing.T, page int, columns []string, grid [][]string) *model.StructuredTable {
	t.Helper()

	rows := make([]model.Row, len(grid))
	for i, cells := range grid {
		row := make(model.Row, len(columns))
		for j, col := range columns {
			if j < len(cells) {
				row[col] = cells[j]
			} else {
				row[col] = ""
			}
		}
		rows[i] = row
	}
	table, err := model.NewStructuredTable(page, "", columns, rows)
	if err != nil {
		t.Fatalf("NewStructuredTable: %v", err)
	}
	return table
}

// statementTable is a well-formed income-statement shape: label column,
// note column, two numeric year columns.
func statementTable(t *testing.T, page int) *model.StructuredTable {
	columns := []string{"Item", "附註", "2023年", "2022年"}
	grid := [][]string{
		{"收入", "3", "1,234", "1,100"},
		{"銷售成本", "4", "(456)", "(400)"},
		{"毛利", "", "778", "700"},
		{"其他收益", "5", "90", "85"},
		{"除稅前溢利", "", "868", "785"},
		{"稅項", "6", "(120)", "(110)"},
		{"本期溢利", "", "748", "675"},
	}
	return mustTable(t, page, columns, grid)
}

// proseTable wraps narrative paragraphs in table shape.
func proseTable(t *testing.T, page int) *model.StructuredTable {
	long := strings.Repeat("本集團業務持續增長", 6)
	columns := []string{"Item", "A", "B"}
	grid := [][]string{
		{long, "", ""},
		{long, "", ""},
		{long, "", ""},
		{long, "", ""},
	}
	return mustTable(t, page, columns, grid)
}

func TestScorePrefersStatementLayout(t *testing.T) {
	s := New()

	good := s.Score(statementTable(t, 1))
	bad := s.Score(proseTable(t, 1))
	if good <= bad {
		t.Errorf("statement layout should outscore prose: %v <= %v", good, bad)
	}
}

func TestScoreStatementKeywordBonus(t *testing.T) {
	s := New()

	plain := statementTable(t, 1)
	titled := statementTable(t, 1)
	titled.Title = "綜合收益表"

	if s.Score(titled) <= s.Score(plain) {
		t.Error("a statement title should raise the score")
	}
}

func TestHasNoteColumn(t *testing.T) {
	s := New()

	byHeader := mustTable(t, 1, []string{"Item", "附註", "2023年"}, [][]string{
		{"收入", "", "1,234"},
		{"稅項", "", "(1,120)"},
	})
	if !s.hasNoteColumn(byHeader, byHeader.Grid()) {
		t.Error("附註 header should mark a note column")
	}

	byValues := mustTable(t, 1, []string{"Item", "N", "2023年"}, [][]string{
		{"收入", "三", "1,234"},
		{"稅項", "12", "(1,120)"},
	})
	if !s.hasNoteColumn(byValues, byValues.Grid()) {
		t.Error("short-numeral dominance should mark a note column")
	}

	none := mustTable(t, 1, []string{"Item", "X", "2023年"}, [][]string{
		{"收入", "abcdef", "1,234"},
		{"稅項", "ghijkl", "(1,120)"},
	})
	if s.hasNoteColumn(none, none.Grid()) {
		t.Error("table without note markers misdetected")
	}
}

func selectable(page int, score float64) *model.StructuredTable {
	return &model.StructuredTable{
		Page:    page,
		Columns: []string{"Item"},
		Score:   score,
	}
}

func TestSelectTopPerPage(t *testing.T) {
	in := []*model.StructuredTable{
		selectable(1, 40),
		selectable(1, 90),
		selectable(1, 60),
		selectable(1, 90),
		selectable(1, 10),
	}

	out := SelectTopPerPage(in, 2)
	if len(out) != 2 {
		t.Fatalf("expected 2 selected, got %d", len(out))
	}
	// The two 90s win; the tie keeps both in input order.
	if out[0] != in[1] || out[1] != in[3] {
		t.Errorf("wrong tables selected")
	}
	// The input set stays intact.
	if len(in) != 5 {
		t.Errorf("selection must not modify the input")
	}
}

func TestSelectTopPerPageGroupsByPage(t *testing.T) {
	in := []*model.StructuredTable{
		selectable(1, 50),
		selectable(2, 10),
		selectable(1, 70),
		selectable(2, 20),
		selectable(2, 30),
	}

	out := SelectTopPerPage(in, 2)
	if len(out) != 4 {
		t.Fatalf("expected 4 selected (2 per page), got %d", len(out))
	}

	perPage := map[int]int{}
	for _, table := range out {
		perPage[table.Page]++
	}
	if perPage[1] != 2 || perPage[2] != 2 {
		t.Errorf("per-page counts = %v", perPage)
	}
}

func TestSelectTopPerPageFewerThanK(t *testing.T) {
	in := []*model.StructuredTable{selectable(1, 10)}

	out := SelectTopPerPage(in, 2)
	if len(out) != 1 {
		t.Errorf("expected the single table selected, got %d", len(out))
	}
}

func TestScoreEmptyTable(t *testing.T) {
	s := New()
	table := &model.StructuredTable{Columns: []string{"Item"}}
	got := s.Score(table)
	if got > -1e8 {
		t.Errorf("empty table should score effectively minus infinity, got %v", got)
	}
}
