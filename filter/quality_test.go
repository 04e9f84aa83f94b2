package filter

import (
	"fmt"
	"strings"
	"testing"

	"fintab/model"
)

// tableOf builds a structured table with the given shape, filling cells with
// distinct short values unless overridden.
func tableOf(t *testing.T, rows, cols int, override func(i, j int) (string, bool)) *model.StructuredTable {
	t.Helper()

	columns := make([]string, cols)
	columns[0] = "Item"
	for j := 1; j < cols; j++ {
		columns[j] = fmt.Sprintf("Col%d", j+1)
	}

	data := make([]model.Row, rows)
	for i := 0; i < rows; i++ {
		row := make(model.Row, cols)
		for j, col := range columns {
			val := fmt.Sprintf("v%d%d", i, j)
			if override != nil {
				if v, ok := override(i, j); ok {
					val = v
				}
			}
			row[col] = val
		}
		data[i] = row
	}

	table, err := model.NewStructuredTable(1, "", columns, data)
	if err != nil {
		t.Fatalf("NewStructuredTable: %v", err)
	}
	return table
}

func TestEvaluateKeepsHealthyTable(t *testing.T) {
	f := New()
	table := tableOf(t, 8, 4, nil)

	v := f.Evaluate(table)
	if !v.Keep {
		t.Errorf("healthy table dropped: %s", v.Reason)
	}
}

func TestEvaluateMinColumns(t *testing.T) {
	f := New()
	table := tableOf(t, 10, 2, nil)

	v := f.Evaluate(table)
	if v.Keep || v.Reason != ReasonTooFewColumns {
		t.Errorf("verdict = %+v, want drop for %s", v, ReasonTooFewColumns)
	}
}

func TestEvaluateMinRowsBoundary(t *testing.T) {
	f := New()

	// Six data rows is one short; seven is enough.
	if v := f.Evaluate(tableOf(t, 6, 3, nil)); v.Keep || v.Reason != ReasonTooFewRows {
		t.Errorf("3x6 verdict = %+v, want drop for %s", v, ReasonTooFewRows)
	}
	if v := f.Evaluate(tableOf(t, 7, 3, nil)); !v.Keep {
		t.Errorf("3x7 dropped: %s", v.Reason)
	}
}

func TestEvaluateTextHeavy(t *testing.T) {
	f := New()
	long := strings.Repeat("業", 21)

	// Nine cells over the long-text mark exceeds the allowance of eight.
	table := tableOf(t, 9, 4, func(i, j int) (string, bool) {
		if j == 1 {
			return long, true
		}
		return "", false
	})

	v := f.Evaluate(table)
	if v.Keep || v.Reason != ReasonTextHeavy {
		t.Errorf("verdict = %+v, want drop for %s", v, ReasonTextHeavy)
	}
}

func TestEvaluateLongCell(t *testing.T) {
	f := New()
	long := strings.Repeat("務", 30)

	table := tableOf(t, 8, 4, func(i, j int) (string, bool) {
		if i == 2 && j == 1 {
			return long, true
		}
		return "", false
	})

	v := f.Evaluate(table)
	if v.Keep || v.Reason != ReasonLongCell {
		t.Errorf("verdict = %+v, want drop for %s", v, ReasonLongCell)
	}
}

func TestEvaluateLongCellIgnoresSpaces(t *testing.T) {
	f := New()
	// 29 CJK chars with spaces in between stays under the threshold.
	cell := strings.Repeat("務 ", 29)

	table := tableOf(t, 8, 4, func(i, j int) (string, bool) {
		if i == 0 && j == 1 {
			return cell, true
		}
		return "", false
	})

	if v := f.Evaluate(table); !v.Keep {
		t.Errorf("spaced 29-char cell dropped: %s", v.Reason)
	}
}

func TestEvaluateEmptyRatioBoundary(t *testing.T) {
	f := New()

	// 10x10: exactly 30 empty cells is kept, 31 is dropped.
	atLimit := tableOf(t, 10, 10, func(i, j int) (string, bool) {
		if i*10+j < 30 {
			return "", true
		}
		return "", false
	})
	if v := f.Evaluate(atLimit); !v.Keep {
		t.Errorf("table at exactly 30%% empty dropped: %s", v.Reason)
	}

	overLimit := tableOf(t, 10, 10, func(i, j int) (string, bool) {
		if i*10+j < 31 {
			return "", true
		}
		return "", false
	})
	v := f.Evaluate(overLimit)
	if v.Keep || v.Reason != ReasonEmptyRatio {
		t.Errorf("verdict = %+v, want drop for %s", v, ReasonEmptyRatio)
	}
}

func TestEvaluateEmptyRunNarrowTable(t *testing.T) {
	f := New()

	// A 3-column table with 6 consecutive blanks down one column is dropped.
	table := tableOf(t, 10, 3, func(i, j int) (string, bool) {
		if j == 2 && i < 6 {
			return "", true
		}
		return "", false
	})

	v := f.Evaluate(table)
	if v.Keep || v.Reason != ReasonEmptyRun {
		t.Errorf("verdict = %+v, want drop for %s", v, ReasonEmptyRun)
	}
}

func TestEvaluateEmptyRunWideTableKept(t *testing.T) {
	f := New()

	// The same run in a 5-column table is tolerated. Keep the overall empty
	// ratio under the limit.
	table := tableOf(t, 10, 5, func(i, j int) (string, bool) {
		if j == 4 && i < 6 {
			return "", true
		}
		return "", false
	})

	if v := f.Evaluate(table); !v.Keep {
		t.Errorf("wide table with empty run dropped: %s", v.Reason)
	}
}

func TestEvaluateScriptHeavy(t *testing.T) {
	f := New()

	table := tableOf(t, 8, 3, func(i, j int) (string, bool) {
		return "業務概覽", true
	})

	v := f.Evaluate(table)
	if v.Keep || v.Reason != ReasonScriptHeavy {
		t.Errorf("verdict = %+v, want drop for %s", v, ReasonScriptHeavy)
	}
}
