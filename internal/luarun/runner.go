// Package luarun implements the code execution tool: it runs a Lua
// snippet against the session's loaded table, captures printed output,
// rasterizes any figures the snippet produced, and returns a single
// textual result.
package luarun

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"

	"github.com/datasage-io/datasage/internal/plotting"
	"github.com/datasage-io/datasage/internal/session"
)

// Fixed result strings. The conversation layer and tests rely on these
// exact values.
const (
	NoTableMessage  = "Error: No table loaded. Please load a CSV file first using the load_csv tool."
	NoOutputMessage = "Code executed successfully (no output produced)."
	ErrorPrefix     = "Error executing code: "

	visStart = "<!-- VISUALIZATION OUTPUT -->"
	visEnd   = "<!-- END VISUALIZATION OUTPUT -->"

	fontWarning = "Warning: No Korean font found. Korean text may not display correctly."
)

// Runner executes snippets against a Session. One execution at a time;
// the runner blocks its caller for the full duration of the snippet.
type Runner struct {
	logger  *slog.Logger
	session *session.Session
}

// New creates a Runner bound to a session.
func New(logger *slog.Logger, sess *session.Session) *Runner {
	return &Runner{logger: logger, session: sess}
}

// Execute runs a snippet and returns the combined textual result.
// Faults never escape as errors; every failure mode is folded into the
// returned string.
func (r *Runner) Execute(code string) string {
	return r.run(code, plotting.NewRegistry())
}

// run executes against an explicit figure registry.
func (r *Runner) run(code string, figures *plotting.Registry) string {
	if !r.session.Loaded() {
		return NoTableMessage
	}

	// Figures are closed on every exit path, including faults.
	defer figures.CloseAll()

	var out bytes.Buffer
	settings := r.renderSettings(&out)

	L := lua.NewState()
	defer L.Close()

	bindPrint(L, &out)
	registerFrameType(L)
	registerStats(L)
	L.SetGlobal("df", frameUserData(L, r.session.Frame))
	if r.session.Visualization {
		registerPlot(L, figures)
	}

	start := time.Now()
	printed, err := execChunk(L, code, &out)
	if err != nil {
		// A fault aborts and replaces any pending textual output.
		r.logger.Debug("snippet fault", "error", err, "elapsed", time.Since(start).Round(time.Millisecond))
		return ErrorPrefix + luaErrorMessage(err)
	}
	r.logger.Debug("snippet done", "elapsed", time.Since(start).Round(time.Millisecond))

	if !printed {
		// Best-effort: surface a trailing bare expression. Faults here
		// are swallowed and never affect the primary result. Figures
		// spawned by the re-evaluation are discarded so a trailing
		// plot.* call does not produce a duplicate chart.
		created := figures.Count()
		autoPrintTrailing(L, code, &out)
		figures.CloseFrom(created)
	}

	output := r.capOutput(out.String())

	if r.session.Visualization {
		refs, err := r.saveFigures(figures, settings)
		if err != nil {
			return ErrorPrefix + err.Error()
		}
		if len(refs) > 0 {
			if output != "" {
				output += "\n\n"
			}
			output += visStart + "\n" + strings.Join(refs, "\n") + "\n" + visEnd
		}
	}

	if output == "" {
		return NoOutputMessage
	}
	return output
}

// execChunk compiles and runs the snippet. A snippet that is a single
// bare expression is not a valid Lua chunk, so on a compile failure it
// retries as "return <code>" and prints the results, the way the Lua
// REPL does. The bool reports whether results were printed that way.
func execChunk(L *lua.LState, code string, out *bytes.Buffer) (bool, error) {
	fn, compileErr := L.LoadString(code)
	if compileErr != nil {
		exprFn, exprErr := L.LoadString("return " + code)
		if exprErr != nil {
			return false, compileErr
		}
		base := L.GetTop()
		L.Push(exprFn)
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			L.SetTop(base)
			return false, err
		}
		for i := base + 1; i <= L.GetTop(); i++ {
			printValue(L, L.Get(i), out)
		}
		L.SetTop(base)
		return true, nil
	}
	L.Push(fn)
	return false, L.PCall(0, 0, nil)
}

// renderSettings picks the label font for this execution. The warning
// for a missing Korean font is part of the captured output, matching
// the tool's contract.
func (r *Runner) renderSettings(out *bytes.Buffer) plotting.RenderSettings {
	if !r.session.Visualization {
		return plotting.RenderSettings{}
	}
	font, name := plotting.KoreanFont()
	if font == nil {
		fmt.Fprintln(out, fontWarning)
		return plotting.RenderSettings{Font: plotting.DefaultFont()}
	}
	r.logger.Debug("selected plot font", "font", name)
	return plotting.RenderSettings{Font: font}
}

// capOutput truncates the textual output to the session's limit. The
// cap applies before artifact references are appended so links are
// never cut mid-line.
func (r *Runner) capOutput(s string) string {
	limit := r.session.MaxOutputLength
	if limit <= 0 || len(s) <= limit {
		return s
	}
	// Back off to a rune boundary so the cut never leaves a partial
	// UTF-8 sequence at the truncation point.
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + "\n... (output truncated)"
}

// saveFigures rasterizes every open figure in creation order, closing
// each one, and returns the markdown artifact references.
func (r *Runner) saveFigures(figures *plotting.Registry, settings plotting.RenderSettings) ([]string, error) {
	open := figures.Open()
	if len(open) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(r.session.PlotsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create plots directory: %v", err)
	}

	var refs []string
	for _, fig := range open {
		if fig.Empty() {
			fig.Close()
			continue
		}

		name := artifactName(time.Now())
		path := filepath.Join(r.session.PlotsDir, name)

		file, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create plot file: %v", err)
		}
		err = fig.RenderPNG(file, settings)
		file.Close()
		if err != nil {
			os.Remove(path)
			return nil, err
		}
		fig.Close()

		refs = append(refs, fmt.Sprintf("![Visualization %d](%s/%s)", len(refs)+1, r.session.PlotOrigin, name))
		r.logger.Debug("plot saved", "file", name)
	}
	return refs, nil
}

// artifactName builds a collision-resistant file name from the current
// timestamp and a short random hex suffix.
func artifactName(now time.Time) string {
	return fmt.Sprintf("plot_%s_%s.png", now.Format("20060102_150405"), uuid.NewString()[:8])
}

// luaErrorMessage extracts the bare Lua error message, without the Go
// wrapper or stack trace.
func luaErrorMessage(err error) string {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		return apiErr.Object.String()
	}
	return err.Error()
}
