package csvout

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fintab/model"
)

func sampleTable(page, index int, title string) *model.StructuredTable {
	return &model.StructuredTable{
		Page:    page,
		Index:   index,
		Title:   title,
		Columns: []string{"Item", "2023", "2022"},
		Rows: []model.Row{
			{"Item": "收入", "2023": "1,234", "2022": "1,100"},
			{"Item": "稅項", "2023": "(120)", "2022": "(110)"},
		},
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"report 2023.pdf", "report_2023.pdf"},
		{"a/b\\c:d", "a_b_c_d"},
		{"年報2023", "年報2023"},
		{"plain-name_1.csv", "plain-name_1.csv"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileName(t *testing.T) {
	got := FileName("annual report", 12, 3)
	if got != "annual_report_page12_table3.csv" {
		t.Errorf("FileName = %q", got)
	}
}

func TestWriteFull(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, "report")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	path, err := w.WriteFull(sampleTable(1, 1, "綜合收益表"))
	if err != nil {
		t.Fatalf("WriteFull: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("file should start with a UTF-8 BOM")
	}

	lines := bytes.Split(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}), []byte("\n"))
	if string(lines[0]) != "Item,2023,2022" {
		t.Errorf("header line = %q", lines[0])
	}
	if string(lines[1]) != "綜合收益表,," {
		t.Errorf("title line = %q", lines[1])
	}
	if string(lines[2]) != "收入,\"1,234\",\"1,100\"" {
		t.Errorf("data line = %q", lines[2])
	}
}

func TestWriteFullWithoutTitle(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, "report")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	path, err := w.WriteFull(sampleTable(1, 1, ""))
	if err != nil {
		t.Fatalf("WriteFull: %v", err)
	}

	data, _ := os.ReadFile(path)
	lines := bytes.Split(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}), []byte("\n"))
	if string(lines[1]) != "收入,\"1,234\",\"1,100\"" {
		t.Errorf("first data line = %q, title row should be absent", lines[1])
	}
}

func TestCopySelectedLeavesOriginal(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, "report")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	full, err := w.WriteFull(sampleTable(2, 1, ""))
	if err != nil {
		t.Fatalf("WriteFull: %v", err)
	}

	sel, err := w.CopySelected(full)
	if err != nil {
		t.Fatalf("CopySelected: %v", err)
	}

	if _, err := os.Stat(full); err != nil {
		t.Errorf("original missing after copy: %v", err)
	}

	a, _ := os.ReadFile(full)
	b, _ := os.ReadFile(sel)
	if !bytes.Equal(a, b) {
		t.Error("selected copy differs from the original")
	}
	if filepath.Dir(sel) != w.Dirs().Selected {
		t.Errorf("copy landed in %s", filepath.Dir(sel))
	}
}

func TestDocumentDirsIdempotent(t *testing.T) {
	root := t.TempDir()

	first, err := DocumentDirs(root, "doc")
	if err != nil {
		t.Fatalf("DocumentDirs: %v", err)
	}
	second, err := DocumentDirs(root, "doc")
	if err != nil {
		t.Fatalf("DocumentDirs again: %v", err)
	}
	if first != second {
		t.Errorf("dirs changed between calls: %+v vs %+v", first, second)
	}
}
