package policy

import (
	"context"
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/DoyleJ11/hearts-client/internal/engine"
)

const luaEntryPoint = "choose_play"

// Lua delegates the choice to a script that defines choose_play(prompt).
//
// prompt has fields play_number, trick_suit, trick, legal and hand; the card lists are
// arrays of codes such as "QS". The function returns either a card code or a 1-based
// index into prompt.legal. A Lua state is not safe for concurrent use, so each session
// needs its own policy.
type Lua struct {
	state *lua.LState
	fn    *lua.LFunction
}

func NewLuaFile(path string) (*Lua, error) {
	if path == "" {
		return nil, fmt.Errorf("lua policy: no script given")
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lua policy: %w", err)
	}
	return NewLua(string(src))
}

func NewLua(src string) (*Lua, error) {
	L := lua.NewState()
	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("lua policy: load: %w", err)
	}
	fn, ok := L.GetGlobal(luaEntryPoint).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("lua policy: script does not define %s", luaEntryPoint)
	}
	return &Lua{state: L, fn: fn}, nil
}

func (l *Lua) Close() { l.state.Close() }

func (l *Lua) ChoosePlay(ctx context.Context, p engine.TurnPrompt) (engine.Card, error) {
	if len(p.LegalPlays) == 0 {
		return engine.Card{}, engine.Violation(engine.TagYourTurn, "turn prompt has no legal plays")
	}

	L := l.state
	L.SetContext(ctx)
	defer L.RemoveContext()

	if err := L.CallByParam(lua.P{Fn: l.fn, NRet: 1, Protect: true}, l.promptTable(p)); err != nil {
		return engine.Card{}, fmt.Errorf("lua policy: %w", err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	switch v := ret.(type) {
	case lua.LNumber:
		n := int(v)
		if n < 1 || n > len(p.LegalPlays) || lua.LNumber(n) != v {
			return engine.Card{}, fmt.Errorf("%w: index %v of %d", engine.ErrIllegalChoice, v, len(p.LegalPlays))
		}
		return p.LegalPlays[n-1], nil
	case lua.LString:
		c, err := engine.ParseCard(string(v))
		if err != nil {
			return engine.Card{}, fmt.Errorf("lua policy: %w", err)
		}
		return c, nil
	default:
		return engine.Card{}, fmt.Errorf("lua policy: %s returned %s", luaEntryPoint, ret.Type())
	}
}

func (l *Lua) promptTable(p engine.TurnPrompt) *lua.LTable {
	L := l.state
	t := L.NewTable()
	t.RawSetString("play_number", lua.LNumber(p.PlayNumber))
	t.RawSetString("trick_suit", lua.LString(p.TrickSuit))
	t.RawSetString("trick", l.cardTable(p.TrickSoFar))
	t.RawSetString("legal", l.cardTable(p.LegalPlays))
	t.RawSetString("hand", l.cardTable(p.Hand))
	return t
}

func (l *Lua) cardTable(cards []engine.Card) *lua.LTable {
	t := l.state.CreateTable(len(cards), 0)
	for _, c := range cards {
		t.Append(lua.LString(c.Code()))
	}
	return t
}
