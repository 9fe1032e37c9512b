// Package lua evaluates configuration scripts written in Lua.
//
// A script assigns globals named after configuration fields, mirroring the
// #define style of the firmware template:
//
//	wifi_ssid = "lab"
//	motor1_pin_forward = pin("D1")
//	turn_duration_90 = 500
package lua

import (
	"context"
	"errors"
	"fmt"
	"time"

	"robot-controller/internal/board"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 2 * time.Second

// Engine runs scripts in a fresh sandboxed state per call.
type Engine struct {
	board   board.Profile
	timeout time.Duration
	log     *logrus.Entry
}

// NewEngine creates an engine that resolves pin labels against profile.
func NewEngine(profile board.Profile) *Engine {
	return &Engine{
		board:   profile,
		timeout: DefaultTimeout,
		log:     logrus.WithField("component", "lua"),
	}
}

// WithTimeout returns a copy of the engine using d as the per-script limit.
func (e *Engine) WithTimeout(d time.Duration) *Engine {
	cp := *e
	cp.timeout = d
	return &cp
}

// EvaluateFile runs the script at path and returns the globals listed in names
// that the script assigned.
func (e *Engine) EvaluateFile(ctx context.Context, path string, names []string) (map[string]any, error) {
	scriptPath, err := checkScriptPath(path)
	if err != nil {
		return nil, err
	}
	return e.execute(ctx, scriptPath, names, func(L *lua.LState) error {
		return L.DoFile(scriptPath)
	})
}

// EvaluateString runs code as if it were a file called name.
func (e *Engine) EvaluateString(ctx context.Context, name, code string, names []string) (map[string]any, error) {
	return e.execute(ctx, name, names, func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// execute is a helper to run Lua code using a fresh state and the provided executor function.
func (e *Engine) execute(ctx context.Context, name string, names []string, executor func(*lua.LState) error) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	L, err := newSandbox()
	if err != nil {
		return nil, err
	}
	defer L.Close()
	L.SetContext(ctx)
	e.registerGoFunctions(L)

	e.log.Debugf("Evaluating script '%s'", name)
	if err := executor(L); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("script '%s' did not finish within %s", name, e.timeout)
		}
		return nil, fmt.Errorf("script '%s': %w", name, err)
	}

	values := make(map[string]any, len(names))
	for _, n := range names {
		v, err := toGo(L.GetGlobal(n))
		if err != nil {
			return nil, fmt.Errorf("script '%s': global %s: %w", name, n, err)
		}
		if v != nil {
			values[n] = v
		}
	}
	return values, nil
}

// newSandbox opens only the libraries a configuration script needs.
func newSandbox() (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("failed to open lua library %s: %w", lib.name, err)
		}
	}
	// The base library can still reach the filesystem.
	for _, fn := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(fn, lua.LNil)
	}
	return L, nil
}

func toGo(v lua.LValue) (any, error) {
	switch val := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LString:
		return string(val), nil
	case lua.LNumber:
		return float64(val), nil
	case lua.LBool:
		return bool(val), nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", v.Type())
	}
}
