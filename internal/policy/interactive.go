package policy

import (
	"context"
	"fmt"
	"slices"

	"github.com/pterm/pterm"

	"github.com/DoyleJ11/hearts-client/internal/engine"
)

// SelectFunc shows options and returns the chosen one.
type SelectFunc func(prompt string, options []string) (string, error)

// Interactive asks a person at the terminal which card to play.
type Interactive struct {
	choose SelectFunc
	render func(p engine.TurnPrompt)
}

func NewInteractive() *Interactive {
	return &Interactive{choose: ptermSelect, render: ptermRender}
}

// NewInteractiveWith swaps the terminal prompt, mainly for tests.
func NewInteractiveWith(choose SelectFunc) *Interactive {
	return &Interactive{choose: choose, render: func(engine.TurnPrompt) {}}
}

func (i *Interactive) ChoosePlay(ctx context.Context, p engine.TurnPrompt) (engine.Card, error) {
	if len(p.LegalPlays) == 0 {
		return engine.Card{}, engine.Violation(engine.TagYourTurn, "turn prompt has no legal plays")
	}
	if err := ctx.Err(); err != nil {
		return engine.Card{}, err
	}

	i.render(p)
	options := make([]string, len(p.LegalPlays))
	for n, c := range p.LegalPlays {
		options[n] = c.String()
	}
	picked, err := i.choose(fmt.Sprintf("Play %d: choose a card", p.PlayNumber), options)
	if err != nil {
		return engine.Card{}, fmt.Errorf("interactive select: %w", err)
	}
	n := slices.Index(options, picked)
	if n < 0 {
		return engine.Card{}, fmt.Errorf("%w: %q", engine.ErrIllegalChoice, picked)
	}
	return p.LegalPlays[n], nil
}

func ptermSelect(prompt string, options []string) (string, error) {
	return pterm.DefaultInteractiveSelect.
		WithDefaultText(prompt).
		WithOptions(options).
		Show()
}

func ptermRender(p engine.TurnPrompt) {
	trick := "(leading)"
	if len(p.TrickSoFar) > 0 {
		trick = joinCards(p.TrickSoFar)
	}
	pterm.DefaultSection.Printfln("Play %d", p.PlayNumber)
	pterm.Info.Printfln("Trick: %s  Suit: %s", trick, p.TrickSuit.Symbol())
	pterm.Info.Printfln("Hand:  %s", joinCards(p.Hand))
}

func joinCards(cards []engine.Card) string {
	out := ""
	for n, c := range cards {
		if n > 0 {
			out += " "
		}
		out += c.String()
	}
	return out
}
