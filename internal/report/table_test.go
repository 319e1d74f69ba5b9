package report

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"ID", "Started", "Total"}
	rows := [][]string{
		{"1", "2024-01-02 09:00", "12"},
		{"12", "2024-01-03 17:30", "3"},
	}
	rightAlign := map[int]bool{0: true, 2: true}

	lines := FormatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "ID Started          Total" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != " 1 2024-01-02 09:00    12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "12 2024-01-03 17:30     3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := FormatTable([]string{"Trend", "N"}, [][]string{{"▁▂", "1"}, {"ab", "2"}}, nil)
	if lines[1] != "▁▂    1" || lines[2] != "ab    2" {
		t.Fatalf("unexpected lines %q", lines)
	}
}
