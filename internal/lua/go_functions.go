package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// registerGoFunctions exposes Go functions to the given Lua state.
func (e *Engine) registerGoFunctions(L *lua.LState) {
	L.SetGlobal("pin", L.NewFunction(e.luaPin))
	L.SetGlobal("label", L.NewFunction(e.luaLabel))
	L.SetGlobal("print", L.NewFunction(e.luaPrint))
}

// luaPrint joins its arguments like the stock print, but into the log.
func (e *Engine) luaPrint(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	e.log.Infof("[script] %s", strings.Join(parts, "\t"))
	return 0
}

// luaPin turns a board label ("D1") into its GPIO number.
func (e *Engine) luaPin(L *lua.LState) int {
	gpio, err := e.board.Pin(L.CheckString(1))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(gpio))
	return 1
}

// luaLabel is the inverse of pin, handy for print().
func (e *Engine) luaLabel(L *lua.LState) int {
	L.Push(lua.LString(e.board.Label(L.CheckInt(1))))
	return 1
}
