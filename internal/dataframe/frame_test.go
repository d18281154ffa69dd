package dataframe

import (
	"math"
	"strings"
	"testing"
	"time"
)

func sample() *Frame {
	return New(
		[]string{"name", "age", "score", "active", "joined"},
		[][]string{
			{"alice", "30", "91.5", "true", "2024-01-02"},
			{"bob", "25", "78.25", "false", "2024-06-30"},
			{"carol", "41", "88", "true", "2025-02-14"},
		},
	)
}

func TestTypeInference(t *testing.T) {
	f := sample()

	tests := []struct {
		col  string
		kind Kind
	}{
		{"name", KindString},
		{"age", KindInt},
		{"score", KindFloat},
		{"active", KindBool},
		{"joined", KindTime},
	}
	for _, tc := range tests {
		c, ok := f.Column(tc.col)
		if !ok {
			t.Fatalf("missing column %s", tc.col)
		}
		if c.Kind != tc.kind {
			t.Errorf("column %s kind = %s, want %s", tc.col, c.Kind, tc.kind)
		}
	}
}

func TestInferenceMixedFallsBack(t *testing.T) {
	f := New([]string{"v"}, [][]string{{"1"}, {"2.5"}, {"x"}})
	c, _ := f.Column("v")
	if c.Kind != KindString {
		t.Errorf("kind = %s, want string", c.Kind)
	}

	f = New([]string{"v"}, [][]string{{"1"}, {"2.5"}})
	c, _ = f.Column("v")
	if c.Kind != KindFloat {
		t.Errorf("kind = %s, want float64", c.Kind)
	}
}

func TestInferenceMissingValues(t *testing.T) {
	f := New([]string{"v"}, [][]string{{"1"}, {""}, {"3"}})
	c, _ := f.Column("v")
	if c.Kind != KindInt {
		t.Errorf("kind = %s, want int64", c.Kind)
	}
	if c.Cells[1] != nil {
		t.Errorf("empty cell = %v, want nil", c.Cells[1])
	}
	n, err := f.Count("v")
	if err != nil || n != 2 {
		t.Errorf("Count = %d, %v", n, err)
	}
}

func TestInferenceAllEmptyIsString(t *testing.T) {
	f := New([]string{"v"}, [][]string{{""}, {""}})
	c, _ := f.Column("v")
	if c.Kind != KindString {
		t.Errorf("kind = %s, want string", c.Kind)
	}
}

func TestShape(t *testing.T) {
	f := sample()
	if f.Rows() != 3 || f.Cols() != 5 {
		t.Errorf("shape = %d × %d", f.Rows(), f.Cols())
	}
	if f.Shape() != "(3, 5)" {
		t.Errorf("Shape() = %q", f.Shape())
	}
}

func TestRaggedRecords(t *testing.T) {
	f := New([]string{"a", "b"}, [][]string{{"1"}, {"2", "3", "ignored"}})
	if f.Rows() != 2 || f.Cols() != 2 {
		t.Fatalf("shape = %s", f.Shape())
	}
	if f.Cell(0, 1) != nil {
		t.Errorf("padded cell = %v", f.Cell(0, 1))
	}
	if f.Cell(1, 1) != int64(3) {
		t.Errorf("cell(1,1) = %v", f.Cell(1, 1))
	}
}

func TestHead(t *testing.T) {
	f := sample().Head(2)
	if f.Rows() != 2 {
		t.Errorf("rows = %d", f.Rows())
	}
	if f.Cell(0, 0) != "alice" {
		t.Errorf("cell(0,0) = %v", f.Cell(0, 0))
	}

	if n := sample().Head(10).Rows(); n != 3 {
		t.Errorf("over-long head rows = %d", n)
	}
}

func TestSelect(t *testing.T) {
	f, err := sample().Select([]string{"score", "name"})
	if err != nil {
		t.Fatal(err)
	}
	if got := f.ColumnNames(); got[0] != "score" || got[1] != "name" {
		t.Errorf("columns = %v", got)
	}

	if _, err := sample().Select([]string{"nope"}); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestFilter(t *testing.T) {
	f := sample()
	out := f.Filter(func(row int) bool {
		v, _ := Float64(f.Cell(row, 1))
		return v >= 30
	})
	if out.Rows() != 2 {
		t.Errorf("filtered rows = %d", out.Rows())
	}
	if out.Cell(1, 0) != "carol" {
		t.Errorf("cell(1,0) = %v", out.Cell(1, 0))
	}
}

func TestStats(t *testing.T) {
	f := sample()

	if sum, err := f.Sum("age"); err != nil || sum != 96 {
		t.Errorf("Sum = %v, %v", sum, err)
	}
	if mean, err := f.Mean("age"); err != nil || mean != 32 {
		t.Errorf("Mean = %v, %v", mean, err)
	}
	if min, err := f.Min("score"); err != nil || min != 78.25 {
		t.Errorf("Min = %v, %v", min, err)
	}
	if max, err := f.Max("score"); err != nil || max != 91.5 {
		t.Errorf("Max = %v, %v", max, err)
	}

	if _, err := f.Sum("name"); err == nil {
		t.Error("expected error summing string column")
	}
	if _, err := f.Sum("nope"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestStatsAllMissing(t *testing.T) {
	f := New([]string{"v", "w"}, [][]string{{"", "1"}, {"", "2"}})
	// v infers as string (all empty), so Mean must refuse it.
	if _, err := f.Mean("v"); err == nil {
		t.Error("expected error for all-missing column mean")
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{int64(-3), "-3"},
		{2.5, "2.5"},
		{math.Inf(-1), "-Inf"},
		{true, "true"},
		{"x", "x"},
		{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "2024-01-02 00:00:00"},
	}
	for _, tc := range tests {
		if got := FormatCell(tc.in); got != tc.want {
			t.Errorf("FormatCell(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSummary(t *testing.T) {
	s := sample().Summary()
	for _, want := range []string{
		"Shape: 3 rows × 5 columns",
		"Columns: name, age, score, active, joined",
		"Data types:",
		"int64",
		"float64",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestHTML(t *testing.T) {
	h := sample().HTML()
	if !strings.Contains(h, "<table") || !strings.Contains(h, "</table>") {
		t.Fatalf("not a table:\n%s", h)
	}
	if !strings.Contains(h, "<th>age</th>") {
		t.Error("missing header cell")
	}
	if !strings.Contains(h, "<td>alice</td>") {
		t.Error("missing body cell")
	}

	f := New([]string{"x"}, [][]string{{"<script>"}})
	if !strings.Contains(f.HTML(), "&lt;script&gt;") {
		t.Error("cell text not escaped")
	}
}

func TestStringRender(t *testing.T) {
	s := sample().String()
	if !strings.Contains(s, "alice") || !strings.Contains(s, "score") {
		t.Errorf("text render missing content:\n%s", s)
	}
}
