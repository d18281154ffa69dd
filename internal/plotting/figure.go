// Package plotting implements the figure model behind the code runner's
// plot bindings: figures are accumulated during one execution, then
// rasterized to PNG artifacts and closed.
package plotting

// SeriesKind selects how an XY series is drawn.
type SeriesKind int

const (
	KindLine SeriesKind = iota
	KindScatter
)

// Series is one XY data series on a figure.
type Series struct {
	Kind SeriesKind
	Name string
	X    []float64
	Y    []float64
}

// Figure is an in-memory chart under construction. A figure holds
// either XY series or bars; when both are present, bars win at render
// time.
type Figure struct {
	Title  string
	XLabel string
	YLabel string

	XY        []Series
	BarLabels []string
	BarValues []float64

	closed bool
}

// AddLine appends a line series.
func (f *Figure) AddLine(name string, x, y []float64) {
	f.XY = append(f.XY, Series{Kind: KindLine, Name: name, X: x, Y: y})
}

// AddScatter appends a scatter series.
func (f *Figure) AddScatter(name string, x, y []float64) {
	f.XY = append(f.XY, Series{Kind: KindScatter, Name: name, X: x, Y: y})
}

// SetBars replaces the figure's bar data.
func (f *Figure) SetBars(labels []string, values []float64) {
	f.BarLabels = labels
	f.BarValues = values
}

// Empty reports whether the figure has no data to draw.
func (f *Figure) Empty() bool {
	return len(f.XY) == 0 && len(f.BarValues) == 0
}

// Close marks the figure as discarded. Closed figures are skipped by
// Registry.Open.
func (f *Figure) Close() { f.closed = true }

// Closed reports whether the figure has been closed.
func (f *Figure) Closed() bool { return f.closed }

// Registry tracks every figure created during one execution, in
// creation order.
type Registry struct {
	figs []*Figure
}

// NewRegistry creates an empty figure registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewFigure creates and tracks a new figure.
func (r *Registry) NewFigure() *Figure {
	f := &Figure{}
	r.figs = append(r.figs, f)
	return f
}

// Open returns the figures not yet closed, in creation order.
func (r *Registry) Open() []*Figure {
	var out []*Figure
	for _, f := range r.figs {
		if !f.closed {
			out = append(out, f)
		}
	}
	return out
}

// OpenCount returns the number of figures not yet closed.
func (r *Registry) OpenCount() int {
	return len(r.Open())
}

// Count returns the total number of figures ever created.
func (r *Registry) Count() int {
	return len(r.figs)
}

// CloseFrom closes every figure created at index n or later. The code
// runner uses this to discard figures spawned by the best-effort
// trailing-expression re-evaluation, which would otherwise duplicate
// charts the snippet already drew.
func (r *Registry) CloseFrom(n int) {
	for i := n; i < len(r.figs); i++ {
		r.figs[i].closed = true
	}
}

// CloseAll closes every tracked figure.
func (r *Registry) CloseAll() {
	for _, f := range r.figs {
		f.closed = true
	}
}
