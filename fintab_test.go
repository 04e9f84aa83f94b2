package fintab

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"fintab/builder"
	"fintab/model"
)

func frag(text string, x, y, w float64) model.TextFragment {
	return model.TextFragment{
		Text:     text,
		BBox:     model.NewBBox(x, y, w, 10),
		FontSize: 10,
	}
}

// incomeStatementPage lays out a small borderless income statement: a header
// row and eight data rows in three well-separated columns.
func incomeStatementPage(number int) *model.Page {
	rows := [][3]string{
		{"項目", "2023年", "2022年"},
		{"收入", "1,234", "5,678"},
		{"收益總額", "2,345", "6,789"},
		{"毛利", "3,456", "7,890"},
		{"經營溢利", "4,567", "8,901"},
		{"除稅前溢利", "5,678", "9,012"},
		{"稅項", "6,789", "1,023"},
		{"本期溢利", "7,890", "2,034"},
		{"每股盈利", "8,901", "3,045"},
	}

	page := &model.Page{Number: number, Width: 600, Height: 800}
	y := 180.0
	for _, row := range rows {
		page.Fragments = append(page.Fragments,
			frag(row[0], 50, y, 40),
			frag(row[1], 150, y, 30),
			frag(row[2], 250, y, 30),
		)
		y -= 10
	}
	return page
}

func TestExtractTablesEndToEnd(t *testing.T) {
	page := incomeStatementPage(1)

	result, err := FromPages("report", []*model.Page{page}).ExtractTables(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Tables) != 1 {
		t.Fatalf("tables = %d, want 1: %+v", len(result.Tables), result.Diagnostics)
	}
	table := result.Tables[0]

	want := []string{"Item", "2023年", "2022年"}
	if !reflect.DeepEqual(table.Columns, want) {
		t.Errorf("columns = %v, want %v", table.Columns, want)
	}
	if len(table.Rows) != 8 {
		t.Errorf("rows = %d, want 8", len(table.Rows))
	}
	if table.Rows[0]["Item"] != "收入" || table.Rows[0]["2023年"] != "1,234" {
		t.Errorf("first row = %v", table.Rows[0])
	}
	if table.Page != 1 || table.Index != 1 {
		t.Errorf("page/index = %d/%d, want 1/1", table.Page, table.Index)
	}

	if len(result.Selected) != 1 {
		t.Fatalf("selected = %d, want 1", len(result.Selected))
	}
	if result.Selected[0] != table {
		t.Error("selected table should be the kept table itself")
	}
	if result.Diagnostics.PagesProcessed != 1 {
		t.Errorf("pages processed = %d, want 1", result.Diagnostics.PagesProcessed)
	}
	if result.Diagnostics.Candidates < 1 {
		t.Errorf("candidates = %d, want at least 1", result.Diagnostics.Candidates)
	}
}

func TestExtractTablesWritesCSV(t *testing.T) {
	root := t.TempDir()
	page := incomeStatementPage(1)

	result, err := FromPages("年報2023", []*model.Page{page}).
		OutputRoot(root).
		ExtractTables(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(result.FullFiles) != 1 || len(result.SelectedFiles) != 1 {
		t.Fatalf("files = %d full, %d selected; want 1 and 1",
			len(result.FullFiles), len(result.SelectedFiles))
	}
	if result.Diagnostics.WriteFailures != 0 {
		t.Errorf("write failures = %d", result.Diagnostics.WriteFailures)
	}

	data, err := os.ReadFile(result.FullFiles[0])
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	if !strings.HasPrefix(body, "\xEF\xBB\xBF") {
		t.Error("missing UTF-8 BOM")
	}
	if !strings.Contains(body, "收入") {
		t.Error("data row missing from CSV")
	}

	sel, err := os.ReadFile(result.SelectedFiles[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(sel) != body {
		t.Error("selected copy differs from full file")
	}
	if filepath.Dir(result.FullFiles[0]) == filepath.Dir(result.SelectedFiles[0]) {
		t.Error("full and selected sets should live in separate directories")
	}
}

func TestExtractTablesReportsBuilderDrops(t *testing.T) {
	// A clean grid of prose with no digits and no statement markers: the
	// locators find it, but the builder gate rejects it, and that rejection
	// must surface in the diagnostics rather than vanish.
	rows := [][3]string{
		{"部門", "地區", "備註"},
		{"零售", "香港", "無"},
		{"批發", "澳門", "無"},
	}
	page := &model.Page{Number: 1, Width: 600, Height: 800}
	y := 180.0
	for _, row := range rows {
		page.Fragments = append(page.Fragments,
			frag(row[0], 50, y, 40),
			frag(row[1], 150, y, 40),
			frag(row[2], 250, y, 40),
		)
		y -= 10
	}

	result, err := FromPages("report", []*model.Page{page}).ExtractTables(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Tables) != 0 {
		t.Fatalf("tables = %d, want 0", len(result.Tables))
	}
	if result.Diagnostics.Candidates < 1 {
		t.Fatalf("candidates = %d, want at least 1", result.Diagnostics.Candidates)
	}
	if result.Diagnostics.Dropped[builder.ReasonGatedOut] < 1 {
		t.Errorf("dropped = %v, want a %q count", result.Diagnostics.Dropped, builder.ReasonGatedOut)
	}
}

func TestExtractTablesIsRepeatable(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	pages := []*model.Page{incomeStatementPage(1)}

	first, err := FromPages("report", pages).
		OutputRoot(rootA).
		ExtractTables(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := FromPages("report", pages).
		OutputRoot(rootB).
		ExtractTables(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(first.Tables) != len(second.Tables) {
		t.Fatalf("runs disagree: %d vs %d tables", len(first.Tables), len(second.Tables))
	}
	for i := range first.Tables {
		if !reflect.DeepEqual(first.Tables[i].Grid(), second.Tables[i].Grid()) {
			t.Errorf("table %d differs between runs", i)
		}
	}

	compareFiles := func(a, b []string) {
		t.Helper()
		if len(a) != len(b) {
			t.Fatalf("runs wrote %d vs %d files", len(a), len(b))
		}
		for i := range a {
			if filepath.Base(a[i]) != filepath.Base(b[i]) {
				t.Errorf("file %d named %q vs %q", i, filepath.Base(a[i]), filepath.Base(b[i]))
				continue
			}
			da, err := os.ReadFile(a[i])
			if err != nil {
				t.Fatal(err)
			}
			db, err := os.ReadFile(b[i])
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(da, db) {
				t.Errorf("file %q differs between runs", filepath.Base(a[i]))
			}
		}
	}
	compareFiles(first.FullFiles, second.FullFiles)
	compareFiles(first.SelectedFiles, second.SelectedFiles)
}

func TestConfigurationMethodsDoNotMutate(t *testing.T) {
	base := Open("report.pdf")
	withPages := base.Pages(1, 2)
	if len(base.options.pages) != 0 {
		t.Error("Pages mutated the original extractor")
	}
	if got := withPages.Pages(5); len(withPages.options.pages) != 2 || len(got.options.pages) != 3 {
		t.Error("Pages should accumulate on the new instance only")
	}
}

func TestParsePageRanges(t *testing.T) {
	got, err := ParsePageRanges("1-3, 7,10-11")
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 2, 3, 7, 10, 11}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pages = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "abc", "5-2", "0-3"} {
		if _, err := ParsePageRanges(bad); err == nil {
			t.Errorf("ParsePageRanges(%q) should fail", bad)
		}
	}
}

func TestDocNameFromPath(t *testing.T) {
	cases := map[string]string{
		"reports/2023/annual.pdf": "annual",
		"annual.pdf":              "annual",
		"annual":                  "annual",
		`C:\docs\年報.pdf`:          "年報",
	}
	for in, want := range cases {
		if got := docNameFromPath(in); got != want {
			t.Errorf("docNameFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}
