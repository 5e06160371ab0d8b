// Package action loads sandboxed Lua scripts that build client-update
// command batches. Each script registers named action handlers; the web
// front dispatches incoming requests to them by name.
package action

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/zahedbri/e107/pkg/ajax"
)

// ErrUnknownAction is returned by Dispatch when no script registered the action.
var ErrUnknownAction = errors.New("unknown action")

// Info describes a loaded script for the control API.
type Info struct {
	Name       string    `json:"name"`
	FilePath   string    `json:"file_path"`
	Actions    []string  `json:"actions"`
	LoadedAt   time.Time `json:"loaded_at"`
	Dispatches int64     `json:"dispatches"`
	Errors     int64     `json:"errors"`
}

// scriptState tracks a loaded script and its isolated Lua VM.
// mu serializes dispatches: an LState is not safe for concurrent use.
// closed is set under mu when the LState is closed; a dispatch that
// looked the script up before a reload swapped it out must re-check it.
type scriptState struct {
	name           string
	filePath       string
	L              *lua.LState
	modCtx         *moduleContext
	loadedAt       time.Time
	dispatches     atomic.Int64
	errors         atomic.Int64
	handlerTimeout time.Duration
	mu             sync.Mutex
	closed         bool
}

// Engine manages Lua action scripts and dispatches requests to their handlers.
type Engine struct {
	mu             sync.RWMutex
	scripts        map[string]*scriptState
	logger         zerolog.Logger
	dir            string
	handlerTimeout time.Duration
}

// New creates an action engine. Scripts are loaded separately by LoadDir.
// handlerTimeout limits how long a single handler call may run (0 = no limit).
func New(dir string, handlerTimeout time.Duration, logger zerolog.Logger) *Engine {
	return &Engine{
		scripts:        make(map[string]*scriptState),
		logger:         logger.With().Str("component", "action").Logger(),
		dir:            dir,
		handlerTimeout: handlerTimeout,
	}
}

// Stop unloads all scripts and closes their LStates.
func (e *Engine) Stop() {
	e.mu.Lock()
	old := e.scripts
	e.scripts = make(map[string]*scriptState)
	e.mu.Unlock()

	for _, ss := range old {
		e.stopScript(ss)
	}

	e.logger.Info().Msg("action engine stopped")
}

// Scripts returns a snapshot of all loaded scripts.
func (e *Engine) Scripts() []Info {
	e.mu.RLock()
	defer e.mu.RUnlock()

	infos := make([]Info, 0, len(e.scripts))
	for _, ss := range e.scripts {
		infos = append(infos, Info{
			Name:       ss.name,
			FilePath:   ss.filePath,
			Actions:    ss.modCtx.actionNames(),
			LoadedAt:   ss.loadedAt,
			Dispatches: ss.dispatches.Load(),
			Errors:     ss.errors.Load(),
		})
	}
	return infos
}

// Count returns the number of loaded scripts.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.scripts)
}

// LoadScript loads a single Lua file as an action script.
func (e *Engine) LoadScript(name, filePath string) error {
	scriptLogger := e.logger.With().Str("script", name).Logger()

	L := NewSandboxedState(name, scriptLogger)
	modCtx := &moduleContext{
		name:     name,
		logger:   scriptLogger,
		handlers: make(map[string]*lua.LFunction),
	}
	registerModule(L, modCtx)

	if err := L.DoFile(filePath); err != nil {
		L.Close()
		return fmt.Errorf("load %s: %w", filePath, err)
	}

	ss := &scriptState{
		name:           name,
		filePath:       filePath,
		L:              L,
		modCtx:         modCtx,
		loadedAt:       time.Now(),
		handlerTimeout: e.handlerTimeout,
	}

	// Atomically swap the map entry — stop the old script OUTSIDE the lock
	// so a dispatch in flight on it can finish first.
	e.mu.Lock()
	old := e.scripts[name]
	for action := range modCtx.handlers {
		for otherName, other := range e.scripts {
			if otherName == name {
				continue
			}
			if _, ok := other.modCtx.handler(action); ok {
				scriptLogger.Warn().
					Str("action", action).
					Str("also_in", otherName).
					Msg("action registered by multiple scripts, lowest script name wins")
			}
		}
	}
	e.scripts[name] = ss
	e.mu.Unlock()

	if old != nil {
		e.stopScript(old)
	}

	scriptLogger.Info().
		Int("actions", len(modCtx.handlers)).
		Msg("loaded script")

	return nil
}

// UnloadScript stops and removes a script by name.
func (e *Engine) UnloadScript(name string) {
	e.mu.Lock()
	ss, ok := e.scripts[name]
	if ok {
		delete(e.scripts, name)
	}
	e.mu.Unlock()

	if ok {
		e.stopScript(ss)
		e.logger.Info().Str("script", name).Msg("unloaded script")
	}
}

// findHandler locates the script registering action. Scripts are scanned in
// name order so a duplicate registration resolves the same way every time.
func (e *Engine) findHandler(action string) (*scriptState, *lua.LFunction) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.scripts))
	for name := range e.scripts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if fn, ok := e.scripts[name].modCtx.handler(action); ok {
			return e.scripts[name], fn
		}
	}
	return nil, nil
}

// Dispatch runs the handler registered for action with the given request
// params and returns the command batch it built. Scripts are dispatched one
// request at a time; params and the returned batch are owned by the caller.
func (e *Engine) Dispatch(action string, params map[string]any) ([]ajax.Command, error) {
	for {
		ss, fn := e.findHandler(action)
		if ss == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
		}

		ss.mu.Lock()
		if ss.closed {
			// A reload swapped this script out between lookup and lock;
			// its LState is gone. Look up the replacement.
			ss.mu.Unlock()
			continue
		}

		ss.modCtx.batch = nil
		paramsTable := MapToTable(ss.L, params)

		if err := ss.callHandler(fn, action, paramsTable); err != nil {
			ss.mu.Unlock()
			return nil, err
		}

		ss.dispatches.Add(1)
		batch := ss.modCtx.batch
		ss.modCtx.batch = nil
		ss.mu.Unlock()
		return batch, nil
	}
}

// callHandler invokes a single Lua handler with an optional execution timeout.
// Caller holds ss.mu.
func (ss *scriptState) callHandler(fn *lua.LFunction, action string, paramsTable *lua.LTable) error {
	var cancel context.CancelFunc
	if ss.handlerTimeout > 0 {
		var ctx context.Context
		ctx, cancel = context.WithTimeout(context.Background(), ss.handlerTimeout)
		ss.L.SetContext(ctx)
	}

	err := ss.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, paramsTable)

	if cancel != nil {
		timedOut := ss.L.Context() != nil && ss.L.Context().Err() != nil
		cancel()
		ss.L.SetContext(nil)
		if err != nil && timedOut {
			ss.errors.Add(1)
			ss.modCtx.logger.Error().
				Dur("timeout", ss.handlerTimeout).
				Str("action", action).
				Msg("handler timed out")
			return fmt.Errorf("action %s: handler timed out after %s", action, ss.handlerTimeout)
		}
	}

	if err != nil {
		ss.errors.Add(1)
		ss.modCtx.logger.Error().
			Err(err).
			Str("action", action).
			Msg("handler error")
		return fmt.Errorf("action %s: %w", action, err)
	}

	return nil
}

// stopScript waits out any dispatch in flight, then closes the LState.
func (e *Engine) stopScript(ss *scriptState) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.closed = true
	ss.L.Close()
}
