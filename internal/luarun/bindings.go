package luarun

import (
	"fmt"
	"io"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/datasage-io/datasage/internal/dataframe"
)

const frameTypeName = "dataframe"

// bindPrint rebinds the global print so all snippet output lands in
// the capture buffer. tostring metamethods are honored.
func bindPrint(L *lua.LState, out io.Writer) {
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, 0, top)
		for i := 1; i <= top; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		fmt.Fprintln(out, strings.Join(parts, "\t"))
		return 0
	}))
}

// registerFrameType installs the dataframe userdata metatable.
func registerFrameType(L *lua.LState) {
	mt := L.NewTypeMetatable(frameTypeName)
	L.SetField(mt, "__index", L.NewFunction(frameIndex))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(checkFrame(L).String()))
		return 1
	}))
}

// frameUserData wraps a Frame for use inside the Lua state.
func frameUserData(L *lua.LState, f *dataframe.Frame) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = f
	L.SetMetatable(ud, L.GetTypeMetatable(frameTypeName))
	return ud
}

func checkFrame(L *lua.LState) *dataframe.Frame {
	ud := L.CheckUserData(1)
	if f, ok := ud.Value.(*dataframe.Frame); ok {
		return f
	}
	L.ArgError(1, "dataframe expected")
	return nil
}

var frameMethods = map[string]lua.LGFunction{
	"head":    frameHead,
	"select":  frameSelect,
	"filter":  frameFilter,
	"column":  frameColumn,
	"sum":     frameStat((*dataframe.Frame).Sum),
	"mean":    frameStat((*dataframe.Frame).Mean),
	"min":     frameStat((*dataframe.Frame).Min),
	"max":     frameStat((*dataframe.Frame).Max),
	"count":   frameCount,
	"html":    frameHTML,
	"summary": frameSummary,
}

// frameIndex serves both properties (shape, columns, rows, cols) and
// methods on the df binding.
func frameIndex(L *lua.LState) int {
	f := checkFrame(L)
	key := L.CheckString(2)

	switch key {
	case "shape":
		L.Push(shapeTable(L, f))
		return 1
	case "columns":
		tbl := L.NewTable()
		for _, name := range f.ColumnNames() {
			tbl.Append(lua.LString(name))
		}
		L.Push(tbl)
		return 1
	case "rows":
		L.Push(lua.LNumber(f.Rows()))
		return 1
	case "cols":
		L.Push(lua.LNumber(f.Cols()))
		return 1
	}

	if m, ok := frameMethods[key]; ok {
		L.Push(L.NewFunction(m))
		return 1
	}
	L.Push(lua.LNil)
	return 1
}

// shapeTable builds {rows, cols} with a __tostring rendering the
// familiar "(rows, cols)" form.
func shapeTable(L *lua.LState, f *dataframe.Frame) *lua.LTable {
	tbl := L.NewTable()
	tbl.Append(lua.LNumber(f.Rows()))
	tbl.Append(lua.LNumber(f.Cols()))

	mt := L.NewTable()
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		t := L.CheckTable(1)
		L.Push(lua.LString(fmt.Sprintf("(%v, %v)", t.RawGetInt(1), t.RawGetInt(2))))
		return 1
	}))
	L.SetMetatable(tbl, mt)
	return tbl
}

func frameHead(L *lua.LState) int {
	f := checkFrame(L)
	n := L.OptInt(2, 5)
	L.Push(frameUserData(L, f.Head(n)))
	return 1
}

// frameSelect accepts either a single table of names or vararg strings.
func frameSelect(L *lua.LState) int {
	f := checkFrame(L)

	var names []string
	if tbl, ok := L.Get(2).(*lua.LTable); ok {
		tbl.ForEach(func(_, v lua.LValue) {
			names = append(names, lua.LVAsString(v))
		})
	} else {
		for i := 2; i <= L.GetTop(); i++ {
			names = append(names, L.CheckString(i))
		}
	}

	out, err := f.Select(names)
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(frameUserData(L, out))
	return 1
}

// frameFilter keeps the rows for which the predicate returns a truthy
// value. The predicate receives a table keyed by column name.
func frameFilter(L *lua.LState) int {
	f := checkFrame(L)
	fn := L.CheckFunction(2)
	names := f.ColumnNames()

	out := f.Filter(func(row int) bool {
		rowTbl := L.NewTable()
		for c, name := range names {
			rowTbl.RawSetString(name, cellToLua(f.Cell(row, c)))
		}
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, rowTbl); err != nil {
			L.RaiseError("%v", luaErrorMessage(err))
		}
		keep := lua.LVAsBool(L.Get(-1))
		L.Pop(1)
		return keep
	})

	L.Push(frameUserData(L, out))
	return 1
}

func frameColumn(L *lua.LState) int {
	f := checkFrame(L)
	name := L.CheckString(2)

	col, ok := f.Column(name)
	if !ok {
		L.RaiseError("no such column: %s", name)
	}

	tbl := L.NewTable()
	for _, cell := range col.Cells {
		tbl.Append(cellToLua(cell))
	}
	L.Push(tbl)
	return 1
}

// frameStat adapts a numeric aggregate into a Lua method.
func frameStat(agg func(*dataframe.Frame, string) (float64, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		f := checkFrame(L)
		name := L.CheckString(2)
		v, err := agg(f, name)
		if err != nil {
			L.RaiseError("%v", err)
		}
		L.Push(lua.LNumber(v))
		return 1
	}
}

func frameCount(L *lua.LState) int {
	f := checkFrame(L)
	n, err := f.Count(L.CheckString(2))
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(n))
	return 1
}

func frameHTML(L *lua.LState) int {
	L.Push(lua.LString(checkFrame(L).HTML()))
	return 1
}

func frameSummary(L *lua.LState) int {
	L.Push(lua.LString(checkFrame(L).Summary()))
	return 1
}

// cellToLua converts a frame cell into the equivalent Lua value.
// Missing cells map to nil.
func cellToLua(cell any) lua.LValue {
	switch v := cell.(type) {
	case nil:
		return lua.LNil
	case int64:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case bool:
		return lua.LBool(v)
	case time.Time:
		return lua.LString(dataframe.FormatCell(v))
	case string:
		return lua.LString(v)
	}
	return lua.LString(fmt.Sprint(cell))
}

// registerStats installs a small helper module for aggregating plain
// Lua number tables, handy for values produced by df:column.
func registerStats(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "sum", L.NewFunction(statsFold(func(acc, v float64) float64 { return acc + v }, 0)))
	L.SetField(mod, "count", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(len(luaFloats(L, 1))))
		return 1
	}))
	L.SetField(mod, "mean", L.NewFunction(func(L *lua.LState) int {
		vals := luaFloats(L, 1)
		if len(vals) == 0 {
			L.RaiseError("mean of empty table")
		}
		var sum float64
		for _, v := range vals {
			sum += v
		}
		L.Push(lua.LNumber(sum / float64(len(vals))))
		return 1
	}))
	L.SetField(mod, "min", L.NewFunction(statsExtreme(func(a, b float64) bool { return b < a })))
	L.SetField(mod, "max", L.NewFunction(statsExtreme(func(a, b float64) bool { return b > a })))
	L.SetGlobal("stats", mod)
}

func statsFold(fn func(acc, v float64) float64, init float64) lua.LGFunction {
	return func(L *lua.LState) int {
		acc := init
		for _, v := range luaFloats(L, 1) {
			acc = fn(acc, v)
		}
		L.Push(lua.LNumber(acc))
		return 1
	}
}

func statsExtreme(better func(cur, candidate float64) bool) lua.LGFunction {
	return func(L *lua.LState) int {
		vals := luaFloats(L, 1)
		if len(vals) == 0 {
			L.RaiseError("extreme of empty table")
		}
		best := vals[0]
		for _, v := range vals[1:] {
			if better(best, v) {
				best = v
			}
		}
		L.Push(lua.LNumber(best))
		return 1
	}
}

// luaFloats reads a table argument as numbers, skipping nil holes.
func luaFloats(L *lua.LState, arg int) []float64 {
	tbl := L.CheckTable(arg)
	out := make([]float64, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		if n, ok := tbl.RawGetInt(i).(lua.LNumber); ok {
			out = append(out, float64(n))
		}
	}
	return out
}
