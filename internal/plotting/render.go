package plotting

import (
	"fmt"
	"io"
	"strconv"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
)

// Fixed canvas size for rendered artifacts.
const (
	RenderWidth  = 900
	RenderHeight = 500
)

// RenderSettings carries per-session rendering configuration.
type RenderSettings struct {
	// Font labels axes and titles. Nil falls back to the go-chart
	// built-in font.
	Font *truetype.Font
}

// asciiFloatFormatter formats axis values with a plain ASCII minus
// sign and no exponent form for the usual magnitudes.
func asciiFloatFormatter(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'g', 4, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'g', 4, 32)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprint(v)
}

// RenderPNG rasterizes the figure to w. Figures with bar data render
// as bar charts; otherwise the XY series render on a shared chart.
func (f *Figure) RenderPNG(w io.Writer, settings RenderSettings) error {
	if f.Empty() {
		return fmt.Errorf("figure has no data")
	}
	if len(f.BarValues) > 0 {
		return f.renderBars(w, settings)
	}
	return f.renderXY(w, settings)
}

func (f *Figure) renderXY(w io.Writer, settings RenderSettings) error {
	series := make([]chart.Series, 0, len(f.XY))
	for _, s := range f.XY {
		cs := chart.ContinuousSeries{
			Name:    s.Name,
			XValues: s.X,
			YValues: s.Y,
		}
		if s.Kind == KindScatter {
			cs.Style = chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
			}
		}
		series = append(series, cs)
	}

	ch := chart.Chart{
		Title:  f.Title,
		Width:  RenderWidth,
		Height: RenderHeight,
		Font:   settings.Font,
		XAxis: chart.XAxis{
			Name:           f.XLabel,
			ValueFormatter: asciiFloatFormatter,
		},
		YAxis: chart.YAxis{
			Name:           f.YLabel,
			ValueFormatter: asciiFloatFormatter,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		Series: series,
	}

	if named := namedSeries(f.XY); named > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func (f *Figure) renderBars(w io.Writer, settings RenderSettings) error {
	bars := make([]chart.Value, 0, len(f.BarValues))
	for i, v := range f.BarValues {
		label := ""
		if i < len(f.BarLabels) {
			label = f.BarLabels[i]
		}
		bars = append(bars, chart.Value{Label: label, Value: v})
	}

	ch := chart.BarChart{
		Title:  f.Title,
		Width:  RenderWidth,
		Height: RenderHeight,
		Font:   settings.Font,
		YAxis: chart.YAxis{
			Name:           f.YLabel,
			ValueFormatter: asciiFloatFormatter,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		BarWidth: 40,
		Bars:     bars,
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

func namedSeries(series []Series) int {
	n := 0
	for _, s := range series {
		if s.Name != "" {
			n++
		}
	}
	return n
}
