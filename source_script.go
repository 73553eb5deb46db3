// FILE: lixenwraith/layerconf/source_script.go
package layerconf

import (
	"errors"
	"fmt"
	"math"
	"os"

	lua "github.com/yuin/gopher-lua"
)

// NewScriptFile runs a Lua file once and exposes its global assignments as a props source.
//
// The script runs in a sandbox: only the base, table, string and math libraries are loaded,
// file loading functions are removed, and assignments land in a private environment so
// library globals are not part of the namespace. Lua tables become map[string]any (or []any for
// sequences), integral numbers become int64, other numbers float64. Functions are dropped.
//
// A missing file fails with ErrSourceLoad unless TolerateMissing(true) is given, in which case
// the source is permanently empty. Script errors always fail.
func NewScriptFile(path string, opts ...SourceOption) (*PropsSource, error) {
	o := applySourceOptions(fileBaseName(path), opts)
	src := &PropsSource{base: newBase(KindScript, o)}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && o.tolerate(false) {
			return src, nil
		}
		return nil, fmt.Errorf("%w: script file '%s': %w", ErrSourceLoad, path, err)
	}

	namespace, err := runScript(path)
	if err != nil {
		return nil, fmt.Errorf("%w: script file '%s': %w", ErrSourceLoad, path, err)
	}
	src.obj = namespace
	return src, nil
}

// scriptCallStackSize bounds recursion in config scripts
const scriptCallStackSize = 256

// runScript executes the file and returns the globals it defined.
func runScript(path string) (map[string]any, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: scriptCallStackSize,
	})
	defer L.Close()

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
			return nil, fmt.Errorf("failed to open lua library %s: %w", lib.name, err)
		}
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module", "collectgarbage"} {
		L.SetGlobal(name, lua.LNil)
	}

	fn, err := L.LoadFile(path)
	if err != nil {
		return nil, err
	}

	// Reads fall back to the library globals, writes stay in env.
	env := L.NewTable()
	meta := L.NewTable()
	meta.RawSetString("__index", L.G.Global)
	L.SetMetatable(env, meta)
	L.SetFEnv(fn, env)

	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, err
	}

	namespace := make(map[string]any)
	env.ForEach(func(k, v lua.LValue) {
		if key, ok := k.(lua.LString); ok {
			if value := fromLua(v); value != nil {
				namespace[string(key)] = value
			}
		}
	})
	return namespace, nil
}

// fromLua converts a Lua value to its Go counterpart; functions and other userdata yield nil.
func fromLua(v lua.LValue) any {
	switch lv := v.(type) {
	case lua.LBool:
		return bool(lv)
	case lua.LString:
		return string(lv)
	case lua.LNumber:
		// float64(math.MaxInt64) is 2^63, which does not fit an int64
		f := float64(lv)
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f)
		}
		return f
	case *lua.LTable:
		return fromLuaTable(lv)
	default:
		return nil
	}
}

func fromLuaTable(t *lua.LTable) any {
	if n := t.Len(); n > 0 {
		seq := true
		count := 0
		t.ForEach(func(k, _ lua.LValue) {
			count++
			if _, ok := k.(lua.LNumber); !ok {
				seq = false
			}
		})
		if seq && count == n {
			list := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				list = append(list, fromLua(t.RawGetInt(i)))
			}
			return list
		}
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			if num, isNum := k.(lua.LNumber); isNum {
				key = lua.LString(num.String())
			} else {
				return
			}
		}
		if value := fromLua(v); value != nil {
			m[string(key)] = value
		}
	})
	return m
}
