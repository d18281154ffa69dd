// Package session holds the per-conversation analysis state: the
// current loaded table and the render settings the code runner uses.
// Passing a Session into each tool keeps the tools free of package
// globals and leaves room for multi-session use later.
package session

import (
	"github.com/datasage-io/datasage/internal/dataframe"
)

// Session is the mutable state shared by the three analysis tools.
// Tools are invoked sequentially; Session is not safe for concurrent
// use.
type Session struct {
	// Frame is the Loaded Table. Nil until a load succeeds; a new
	// load unconditionally replaces it.
	Frame *dataframe.Frame

	// PlotsDir is the shared directory plot artifacts are written to.
	PlotsDir string

	// PlotOrigin is the URL origin embedded in artifact references,
	// e.g. "http://localhost:8001".
	PlotOrigin string

	// Visualization gates chart generation in the code runner.
	Visualization bool

	// MaxOutputLength caps the text the code runner returns;
	// zero means no cap.
	MaxOutputLength int
}

// New creates a Session with no table loaded.
func New(plotsDir, plotOrigin string) *Session {
	return &Session{
		PlotsDir:      plotsDir,
		PlotOrigin:    plotOrigin,
		Visualization: true,
	}
}

// Loaded reports whether a table has been loaded.
func (s *Session) Loaded() bool { return s.Frame != nil }

// SetFrame replaces the Loaded Table.
func (s *Session) SetFrame(f *dataframe.Frame) { s.Frame = f }
