package luarun

import (
	"bytes"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/datasage-io/datasage/internal/dataframe"
)

// luaStatementKeywords are the leading words that mark a line as a
// statement rather than a bare expression.
var luaStatementKeywords = map[string]bool{
	"local":    true,
	"function": true,
	"if":       true,
	"for":      true,
	"while":    true,
	"repeat":   true,
	"return":   true,
	"do":       true,
	"break":    true,
	"goto":     true,
	"end":      true,
	"until":    true,
	"else":     true,
	"elseif":   true,
}

// autoPrintTrailing inspects the last non-empty line of the snippet
// and, if it looks like a bare expression, evaluates it in the same
// state and prints a non-nil result. A table result (a frame) is
// rendered as an embedded HTML table. Every fault in here is swallowed.
func autoPrintTrailing(L *lua.LState, code string, out *bytes.Buffer) {
	line := lastNonEmptyLine(code)
	if !looksLikeExpression(line) {
		return
	}

	fn, err := L.LoadString("return " + line)
	if err != nil {
		return
	}

	base := L.GetTop()
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		L.SetTop(base)
		return
	}
	defer L.SetTop(base)

	if L.GetTop() <= base {
		return
	}
	printValue(L, L.Get(base+1), out)
}

// printValue appends v to the captured output. A frame renders as an
// embedded HTML table; nil prints nothing.
func printValue(L *lua.LState, v lua.LValue, out *bytes.Buffer) {
	if v == lua.LNil {
		return
	}
	if ud, ok := v.(*lua.LUserData); ok {
		if frame, ok := ud.Value.(*dataframe.Frame); ok {
			fmt.Fprintln(out, frame.HTML())
			return
		}
	}
	fmt.Fprintln(out, L.ToStringMeta(v).String())
}

func lastNonEmptyLine(code string) string {
	lines := strings.Split(code, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// looksLikeExpression reports whether line is plausibly a bare
// expression: not a comment, not led by a statement keyword, and free
// of assignment.
func looksLikeExpression(line string) bool {
	if line == "" || strings.HasPrefix(line, "--") {
		return false
	}
	if luaStatementKeywords[firstWord(line)] {
		return false
	}
	return !containsAssignment(line)
}

func firstWord(line string) string {
	for i, r := range line {
		isWord := r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(i > 0 && r >= '0' && r <= '9')
		if !isWord {
			return line[:i]
		}
	}
	return line
}

// containsAssignment detects a standalone '=' that is not part of the
// comparison operators ==, ~=, <=, or >=.
func containsAssignment(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '=' {
			continue
		}
		prevComparison := i > 0 && strings.ContainsRune("=~<>", rune(s[i-1]))
		nextEquals := i+1 < len(s) && s[i+1] == '='
		if prevComparison || nextEquals {
			if nextEquals {
				i++ // skip the second '=' of ==
			}
			continue
		}
		return true
	}
	return false
}
