package scripting

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// adjustScoreHook is the Lua function a doctrine script may define:
//
//	function adjust_score(character_id, action_type, priority) return delta end
const adjustScoreHook = "adjust_score"

// Doctrine wraps a loaded doctrine script and satisfies the engine's
// HookCaller interface. Every failure mode (missing function, runtime
// error, non-number return, instruction-limit hit) degrades to a zero
// delta; a doctrine script can bias decisions but never break a turn.
type Doctrine struct {
	mu        sync.Mutex
	state     *lua.LState
	instLimit int
	logger    *zap.Logger
}

// LoadDoctrine loads and executes the script at path inside a fresh
// sandboxed VM.
//
// Precondition: logger must not be nil.
// Postcondition: returns a ready Doctrine or a non-nil error; the caller
// must Close() the Doctrine when done.
func LoadDoctrine(path string, instLimit int, logger *zap.Logger) (*Doctrine, error) {
	if logger == nil {
		panic("scripting.LoadDoctrine: logger must not be nil")
	}
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	L := NewSandboxedState(instLimit)
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("scripting.LoadDoctrine: executing %q: %w", path, err)
	}
	return &Doctrine{state: L, instLimit: instLimit, logger: logger}, nil
}

// AdjustScore calls the script's adjust_score hook and returns its integer
// delta. Missing hook, script failure, or a non-number return all yield 0.
//
// Safe for use from a single evaluation goroutine; the internal mutex only
// guards against accidental concurrent callers.
func (d *Doctrine) AdjustScore(characterID, actionType string, priority int) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	fn := d.state.GetGlobal(adjustScoreHook)
	if fn == lua.LNil {
		return 0
	}

	// Fresh instruction budget per call; the sandbox context is consumed
	// opcode by opcode and must not starve later hooks.
	ctx, cancel := newCountingContext(d.instLimit)
	d.state.SetContext(ctx)
	defer cancel()

	err := d.state.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
		lua.LString(characterID), lua.LString(actionType), lua.LNumber(priority))
	if err != nil {
		d.logger.Warn("doctrine hook failed",
			zap.String("hook", adjustScoreHook),
			zap.String("character", characterID),
			zap.Error(err),
		)
		return 0
	}
	ret := d.state.Get(-1)
	d.state.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0
	}
	return int(n)
}

// Close releases the underlying Lua VM.
func (d *Doctrine) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Close()
}
