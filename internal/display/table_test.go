package display

import (
	"strings"
	"testing"
)

func plain(t *testing.T) {
	t.Helper()
	SetEnabled(false)
}

func styled(t *testing.T) {
	t.Helper()
	SetEnabled(true)
	t.Cleanup(func() { SetEnabled(false) })
}

func scheduleTable() *Table {
	tbl := NewTable([]string{"Prayer", "Time"})
	tbl.AddRow([]string{"Fajr", "05:17"})
	tbl.AddRow([]string{"Dhuhr", "12:13"})
	tbl.AddRow([]string{"Asr", "15:02*"})
	return tbl
}

func TestTable_RenderPlain(t *testing.T) {
	plain(t)

	want := []string{
		"  Prayer  Time",
		"  ──────  ──────",
		"  Fajr    05:17",
		"  Dhuhr   12:13",
		"  Asr     15:02*",
	}
	got := strings.Split(strings.TrimSuffix(scheduleTable().Render(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("Render() gave %d lines, want %d:\n%s", len(got), len(want), strings.Join(got, "\n"))
	}
	for i := range want {
		if line := strings.TrimRight(got[i], " "); line != want[i] {
			t.Errorf("line %d = %q, want %q", i, line, want[i])
		}
	}
}

func TestTable_NoHeaders(t *testing.T) {
	tbl := NewTable(nil)
	tbl.AddRow([]string{"orphan"})
	if got := tbl.Render(); got != "" {
		t.Errorf("Render() = %q, want empty", got)
	}
}

func TestTable_ExtraCellsIgnored(t *testing.T) {
	plain(t)

	tbl := NewTable([]string{"Date"})
	tbl.AddRow([]string{"Sun 01 Mar", "unexpected"})
	if got := tbl.Render(); strings.Contains(got, "unexpected") {
		t.Errorf("cell beyond the headers was rendered:\n%s", got)
	}
}

func TestTable_RowStyles(t *testing.T) {
	styled(t)

	tbl := scheduleTable()
	tbl.SetDimRow(0)
	tbl.SetHighlightRow(1)
	lines := strings.Split(tbl.Render(), "\n")

	// header, separator, then one line per row
	tests := []struct {
		line   int
		styled bool
	}{
		{2, true},  // dimmed Fajr
		{3, true},  // highlighted Dhuhr
		{4, false}, // Asr untouched
	}
	for _, tt := range tests {
		if got := strings.Contains(lines[tt.line], "\033["); got != tt.styled {
			t.Errorf("line %d %q styled = %v, want %v", tt.line, lines[tt.line], got, tt.styled)
		}
	}
}

func TestTable_HighlightWinsOverDim(t *testing.T) {
	styled(t)

	a := scheduleTable()
	a.SetHighlightRow(0)
	b := scheduleTable()
	b.SetHighlightRow(0)
	b.SetDimRow(0)

	if a.Render() != b.Render() {
		t.Error("dimming a highlighted row changed its rendering")
	}
}

func TestFormatRow(t *testing.T) {
	tests := []struct {
		name   string
		cells  []string
		widths []int
		want   string
	}{
		{"padded", []string{"Isha", "19:10"}, []int{7, 5}, "Isha     19:10"},
		{"missing cell", []string{"Fajr"}, []int{4, 3}, "Fajr     "},
		{"wide rune", []string{"→", "x"}, []int{3, 1}, "→    x"},
		{"overflow kept", []string{"Maghrib", "x"}, []int{3, 1}, "Maghrib  x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRow(tt.cells, tt.widths); got != tt.want {
				t.Errorf("formatRow = %q, want %q", got, tt.want)
			}
		})
	}
}
