// Package script runs user-supplied Lua response rules for agent previews.
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/mpataki/agentbuilder/internal/models"
)

const DefaultTimeout = time.Second

var ErrNoRespond = errors.New("script must define a 'respond' function")

// Runtime executes a Lua script in a sandboxed environment. The script
// defines respond(input, agent); returning nil declines and lets the caller
// fall back to its default reply.
type Runtime struct {
	name    string
	source  string
	timeout time.Duration
	log     *zap.Logger
	logs    []string
}

type Option func(*Runtime)

func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) { r.timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Runtime) { r.log = l }
}

// Load reads and compiles the script at path.
func Load(path string, opts ...Option) (*Runtime, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return New(filepath.Base(path), string(src), opts...)
}

// New checks that source loads and defines respond.
func New(name, source string, opts ...Option) (*Runtime, error) {
	r := &Runtime{
		name:    name,
		source:  source,
		timeout: DefaultTimeout,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	L := r.newState()
	defer L.Close()
	if err := r.load(L); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Runtime) Name() string { return r.name }

// Respond calls respond(input, agent) in a fresh state. ok is false when the
// script returned nil or an empty string.
func (r *Runtime) Respond(ctx context.Context, input string, cfg *models.AgentConfig) (reply string, ok bool, err error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	L := r.newState()
	defer L.Close()
	L.SetContext(ctx)

	if err := r.load(L); err != nil {
		return "", false, err
	}

	L.Push(L.GetGlobal("respond"))
	L.Push(lua.LString(input))
	L.Push(agentTable(L, cfg))
	if err := L.PCall(2, 1, nil); err != nil {
		return "", false, fmt.Errorf("script %s failed: %w", r.name, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	switch v := ret.(type) {
	case *lua.LNilType:
		return "", false, nil
	case lua.LString:
		s := strings.TrimSpace(string(v))
		return s, s != "", nil
	default:
		return "", false, fmt.Errorf("script %s: respond returned %s, want string or nil", r.name, ret.Type())
	}
}

// Logs returns messages passed to log() so far.
func (r *Runtime) Logs() []string {
	return append([]string(nil), r.logs...)
}

func (r *Runtime) newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	r.registerAPI(L)
	return L
}

func (r *Runtime) load(L *lua.LState) error {
	if err := L.DoString(r.source); err != nil {
		return fmt.Errorf("failed to load script %s: %w", r.name, err)
	}
	if fn, ok := L.GetGlobal("respond").(*lua.LFunction); !ok || fn == nil {
		return ErrNoRespond
	}
	return nil
}

// openSafeLibs loads base, table, string and math without file access,
// dynamic loading or randomness.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	for _, name := range []string{"loadfile", "dofile", "load", "loadstring", "print", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}

	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		L.SetField(tbl, "random", lua.LNil)
		L.SetField(tbl, "randomseed", lua.LNil)
	}
}

func (r *Runtime) registerAPI(L *lua.LState) {
	L.SetGlobal("log", L.NewFunction(r.luaLog))
	L.SetGlobal("contains", L.NewFunction(luaContains))
}

// luaLog implements log(message)
func (r *Runtime) luaLog(L *lua.LState) int {
	msg := L.CheckString(1)
	r.logs = append(r.logs, msg)
	r.log.Debug("script log", zap.String("script", r.name), zap.String("message", msg))
	return 0
}

// luaContains implements contains(text, needle), case-insensitive
func luaContains(L *lua.LState) int {
	text := strings.ToLower(L.CheckString(1))
	needle := strings.ToLower(L.CheckString(2))
	L.Push(lua.LBool(strings.Contains(text, needle)))
	return 1
}

func agentTable(L *lua.LState, cfg *models.AgentConfig) *lua.LTable {
	tbl := L.NewTable()
	L.SetField(tbl, "name", lua.LString(cfg.Name))
	L.SetField(tbl, "description", lua.LString(cfg.Description))
	L.SetField(tbl, "role", lua.LString(cfg.Role))
	L.SetField(tbl, "responsibilities", lua.LString(cfg.Responsibilities))
	L.SetField(tbl, "type", lua.LString(cfg.Type.String()))
	L.SetField(tbl, "knowledge_sources", stringList(L, cfg.KnowledgeSources))
	L.SetField(tbl, "workflows", stringList(L, cfg.Workflows))
	L.SetField(tbl, "guardrails", stringList(L, cfg.Guardrails))
	L.SetField(tbl, "starters", stringList(L, cfg.ConversationStarters))
	L.SetField(tbl, "web_search", lua.LBool(cfg.WebSearch))
	return tbl
}

func stringList(L *lua.LState, items []string) *lua.LTable {
	tbl := L.NewTable()
	for _, s := range items {
		tbl.Append(lua.LString(s))
	}
	return tbl
}

// IsScript reports whether path looks like a Lua script.
func IsScript(path string) bool {
	return filepath.Ext(path) == ".lua"
}
