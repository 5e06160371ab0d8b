package action

import (
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/zahedbri/e107/pkg/ajax"
)

// moduleContext holds the state shared between Lua module functions and the
// Go engine. Each script gets its own moduleContext. The batch field is the
// command sequence being built by the handler currently executing; dispatch
// is serialized per script, so only one handler touches it at a time.
// handlers has its own mutex: a handler may call e107.on mid-dispatch while
// another goroutine lists actions or looks one up.
type moduleContext struct {
	name     string
	logger   zerolog.Logger
	mu       sync.Mutex
	handlers map[string]*lua.LFunction
	batch    []ajax.Command
}

// handler returns the registered function for an action, if any.
func (ctx *moduleContext) handler(name string) (*lua.LFunction, bool) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	fn, ok := ctx.handlers[name]
	return fn, ok
}

// actionNames returns the registered action names, sorted.
func (ctx *moduleContext) actionNames() []string {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	names := make([]string, 0, len(ctx.handlers))
	for name := range ctx.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// registerModule creates the global "e107" table with the action
// registration function and the command builders.
func registerModule(L *lua.LState, ctx *moduleContext) {
	mod := L.NewTable()

	L.SetField(mod, "script", lua.LString(ctx.name))
	L.SetField(mod, "on", L.NewFunction(ctx.luaOn))
	L.SetField(mod, "alert", L.NewFunction(ctx.luaAlert))
	L.SetField(mod, "insert", L.NewFunction(ctx.luaInsert))
	L.SetField(mod, "remove", L.NewFunction(ctx.luaRemove))
	L.SetField(mod, "css", L.NewFunction(ctx.luaCSS))
	L.SetField(mod, "settings", L.NewFunction(ctx.luaSettings))
	L.SetField(mod, "data", L.NewFunction(ctx.luaData))
	L.SetField(mod, "invoke", L.NewFunction(ctx.luaInvoke))
	L.SetField(mod, "raw", L.NewFunction(ctx.luaRaw))
	L.SetField(mod, "log", L.NewFunction(ctx.luaLog))

	L.SetGlobal("e107", mod)
}

// luaOn registers an action handler: e107.on(name, handler)
func (ctx *moduleContext) luaOn(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	ctx.mu.Lock()
	_, dup := ctx.handlers[name]
	ctx.handlers[name] = fn
	ctx.mu.Unlock()

	if dup {
		ctx.logger.Warn().
			Str("action", name).
			Msg("action handler re-registered, replacing previous")
	}

	ctx.logger.Debug().
		Str("action", name).
		Msg("registered action handler")

	return 0
}

// luaAlert appends an alert command: e107.alert(text)
func (ctx *moduleContext) luaAlert(L *lua.LState) int {
	ctx.batch = append(ctx.batch, ajax.Alert(L.CheckString(1)))
	return 0
}

// luaInsert appends an insert command: e107.insert(target, method, html)
func (ctx *moduleContext) luaInsert(L *lua.LState) int {
	target := L.CheckString(1)
	method := L.CheckString(2)
	html := L.CheckString(3)
	ctx.batch = append(ctx.batch, ajax.Insert(target, method, html))
	return 0
}

// luaRemove appends a remove command: e107.remove(target)
func (ctx *moduleContext) luaRemove(L *lua.LState) int {
	ctx.batch = append(ctx.batch, ajax.Remove(L.CheckString(1)))
	return 0
}

// luaCSS appends a css command: e107.css(target, properties)
func (ctx *moduleContext) luaCSS(L *lua.LState) int {
	target := L.CheckString(1)
	props := TableToStringMap(L.CheckTable(2))
	ctx.batch = append(ctx.batch, ajax.CSS(target, props))
	return 0
}

// luaSettings appends a settings command: e107.settings(table)
func (ctx *moduleContext) luaSettings(L *lua.LState) int {
	raw := TableToMap(L.CheckTable(1))
	settings, ok := raw.(map[string]any)
	if !ok {
		L.ArgError(1, "expected a table with string keys")
		return 0
	}
	ctx.batch = append(ctx.batch, ajax.Settings(settings))
	return 0
}

// luaData appends a data command: e107.data(target, name, value)
func (ctx *moduleContext) luaData(L *lua.LState) int {
	target := L.CheckString(1)
	name := L.CheckString(2)
	value := LuaToGo(L.Get(3))
	ctx.batch = append(ctx.batch, ajax.Data(target, name, value))
	return 0
}

// luaInvoke appends an invoke command: e107.invoke(target, method, args?)
// args is an optional array table; its order is preserved.
func (ctx *moduleContext) luaInvoke(L *lua.LState) int {
	target := L.CheckString(1)
	method := L.CheckString(2)

	var args []any
	if L.GetTop() >= 3 {
		switch v := TableToMap(L.CheckTable(3)).(type) {
		case []any:
			args = v
		case map[string]any:
			// An empty Lua table converts to an empty map; treat it as no args.
			if len(v) != 0 {
				L.ArgError(3, "expected an array table")
				return 0
			}
		}
	}
	ctx.batch = append(ctx.batch, ajax.Invoke(target, method, args...))
	return 0
}

// luaRaw appends an arbitrary entry serialized as-is: e107.raw(table)
func (ctx *moduleContext) luaRaw(L *lua.LState) int {
	raw := TableToMap(L.CheckTable(1))
	entry, ok := raw.(map[string]any)
	if !ok {
		L.ArgError(1, "expected a table with string keys")
		return 0
	}
	ctx.batch = append(ctx.batch, ajax.Raw(entry))
	return 0
}

// luaLog logs a message: e107.log(level, message)
func (ctx *moduleContext) luaLog(L *lua.LState) int {
	level := L.CheckString(1)
	message := L.CheckString(2)

	switch strings.ToLower(level) {
	case "debug":
		ctx.logger.Debug().Msg(message)
	case "info":
		ctx.logger.Info().Msg(message)
	case "warn":
		ctx.logger.Warn().Msg(message)
	case "error":
		ctx.logger.Error().Msg(message)
	default:
		ctx.logger.Info().Msg(message)
	}

	return 0
}
