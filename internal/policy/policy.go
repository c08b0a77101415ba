// Package policy holds the turn decision policies a session can play with.
package policy

import (
	"context"
	"fmt"

	"github.com/DoyleJ11/hearts-client/internal/engine"
)

const (
	NameFirstLegal  = "first"
	NameInteractive = "interactive"
	NameLua         = "lua"
)

// FirstLegal plays the first legal card. Deterministic: same prompt, same card.
type FirstLegal struct{}

func (FirstLegal) ChoosePlay(_ context.Context, p engine.TurnPrompt) (engine.Card, error) {
	if len(p.LegalPlays) == 0 {
		return engine.Card{}, engine.Violation(engine.TagYourTurn, "turn prompt has no legal plays")
	}
	return p.LegalPlays[0], nil
}

// New builds the named policy. script is only used by the Lua policy.
func New(name, script string) (engine.Policy, error) {
	switch name {
	case "", NameFirstLegal:
		return FirstLegal{}, nil
	case NameInteractive:
		return NewInteractive(), nil
	case NameLua:
		l, err := NewLuaFile(script)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown policy %q", name)
	}
}

// Release frees whatever a policy holds, such as a Lua state. Policies without
// resources are left alone.
func Release(p engine.Policy) {
	if c, ok := p.(interface{ Close() }); ok {
		c.Close()
	}
}
