package dataframe

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"
)

// maxRenderRows caps how many rows String and HTML emit.
const maxRenderRows = 50

// FormatCell renders a single cell for display. Missing values render
// as an empty string. Floats always use an ASCII minus sign and drop
// the exponent form for readability.
func FormatCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	case string:
		return v
	}
	return fmt.Sprint(cell)
}

// Shape returns the "(rows, cols)" form used throughout tool output.
func (f *Frame) Shape() string {
	return fmt.Sprintf("(%d, %d)", f.Rows(), f.Cols())
}

// Summary returns the human-readable load summary: shape, column
// names, and inferred types.
func (f *Frame) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shape: %d rows × %d columns\n", f.Rows(), f.Cols())
	fmt.Fprintf(&b, "Columns: %s\n", strings.Join(f.ColumnNames(), ", "))
	b.WriteString("Data types:\n")
	b.WriteString(f.dtypes())
	return b.String()
}

// dtypes renders an aligned name/type listing, one column per line.
func (f *Frame) dtypes() string {
	width := 0
	for _, c := range f.cols {
		if len(c.Name) > width {
			width = len(c.Name)
		}
	}
	var b strings.Builder
	for i, c := range f.cols {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-*s    %s", width, c.Name, c.Kind)
	}
	return b.String()
}

// String renders the frame as an aligned text grid, truncated to
// maxRenderRows rows.
func (f *Frame) String() string {
	if f.Cols() == 0 {
		return "(empty frame)"
	}

	rows := f.Rows()
	truncated := false
	if rows > maxRenderRows {
		rows = maxRenderRows
		truncated = true
	}

	widths := make([]int, f.Cols())
	for i, c := range f.cols {
		widths[i] = len(c.Name)
		for r := 0; r < rows; r++ {
			if n := len(FormatCell(c.Cells[r])); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	for i, c := range f.cols {
		if i > 0 {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "%-*s", widths[i], c.Name)
	}
	for r := 0; r < rows; r++ {
		b.WriteByte('\n')
		for i, c := range f.cols {
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-*s", widths[i], FormatCell(c.Cells[r]))
		}
	}
	if truncated {
		fmt.Fprintf(&b, "\n... (%d rows total)", f.Rows())
	}
	return b.String()
}

// HTML renders the frame as an embedded HTML table, truncated to
// maxRenderRows rows. Cell text is escaped.
func (f *Frame) HTML() string {
	rows := f.Rows()
	truncated := false
	if rows > maxRenderRows {
		rows = maxRenderRows
		truncated = true
	}

	var b strings.Builder
	b.WriteString("<table border=\"1\">\n<thead>\n<tr>")
	for _, c := range f.cols {
		fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(c.Name))
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")
	for r := 0; r < rows; r++ {
		b.WriteString("<tr>")
		for _, c := range f.cols {
			fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(FormatCell(c.Cells[r])))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>")
	if truncated {
		fmt.Fprintf(&b, "\n<p>... (%d rows total)</p>", f.Rows())
	}
	return b.String()
}
