package luarun

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/datasage-io/datasage/internal/plotting"
)

const figureTypeName = "figure"

// registerPlot installs the plot module backed by this execution's
// figure registry. Figures accumulate until the runner rasterizes and
// closes them after the snippet finishes.
func registerPlot(L *lua.LState, figures *plotting.Registry) {
	mt := L.NewTypeMetatable(figureTypeName)
	L.SetField(mt, "__index", L.NewFunction(figureIndex))

	mod := L.NewTable()
	L.SetField(mod, "figure", L.NewFunction(func(L *lua.LState) int {
		fig := figures.NewFigure()
		fig.Title = L.OptString(1, "")
		L.Push(figureUserData(L, fig))
		return 1
	}))

	// Shortcuts that create a single-series figure in one call.
	L.SetField(mod, "line", L.NewFunction(func(L *lua.LState) int {
		fig := figures.NewFigure()
		fig.AddLine("", luaFloats(L, 1), luaFloats(L, 2))
		fig.Title = L.OptString(3, "")
		L.Push(figureUserData(L, fig))
		return 1
	}))
	L.SetField(mod, "scatter", L.NewFunction(func(L *lua.LState) int {
		fig := figures.NewFigure()
		fig.AddScatter("", luaFloats(L, 1), luaFloats(L, 2))
		fig.Title = L.OptString(3, "")
		L.Push(figureUserData(L, fig))
		return 1
	}))
	L.SetField(mod, "bar", L.NewFunction(func(L *lua.LState) int {
		fig := figures.NewFigure()
		fig.SetBars(luaStrings(L, 1), luaFloats(L, 2))
		fig.Title = L.OptString(3, "")
		L.Push(figureUserData(L, fig))
		return 1
	}))

	L.SetGlobal("plot", mod)
}

func figureUserData(L *lua.LState, fig *plotting.Figure) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = fig
	L.SetMetatable(ud, L.GetTypeMetatable(figureTypeName))
	return ud
}

func checkFigure(L *lua.LState) *plotting.Figure {
	ud := L.CheckUserData(1)
	if fig, ok := ud.Value.(*plotting.Figure); ok {
		return fig
	}
	L.ArgError(1, "figure expected")
	return nil
}

var figureMethods = map[string]lua.LGFunction{
	"line": func(L *lua.LState) int {
		checkFigure(L).AddLine(L.OptString(4, ""), luaFloats(L, 2), luaFloats(L, 3))
		return 0
	},
	"scatter": func(L *lua.LState) int {
		checkFigure(L).AddScatter(L.OptString(4, ""), luaFloats(L, 2), luaFloats(L, 3))
		return 0
	},
	"bar": func(L *lua.LState) int {
		checkFigure(L).SetBars(luaStrings(L, 2), luaFloats(L, 3))
		return 0
	},
	"title": func(L *lua.LState) int {
		checkFigure(L).Title = L.CheckString(2)
		return 0
	},
	"xlabel": func(L *lua.LState) int {
		checkFigure(L).XLabel = L.CheckString(2)
		return 0
	},
	"ylabel": func(L *lua.LState) int {
		checkFigure(L).YLabel = L.CheckString(2)
		return 0
	},
	"close": func(L *lua.LState) int {
		checkFigure(L).Close()
		return 0
	},
}

func figureIndex(L *lua.LState) int {
	key := L.CheckString(2)
	if m, ok := figureMethods[key]; ok {
		L.Push(L.NewFunction(m))
		return 1
	}
	L.Push(lua.LNil)
	return 1
}

// luaStrings reads a table argument as display strings.
func luaStrings(L *lua.LState, arg int) []string {
	tbl := L.CheckTable(arg)
	out := make([]string, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		out = append(out, lua.LVAsString(L.ToStringMeta(tbl.RawGetInt(i))))
	}
	return out
}
