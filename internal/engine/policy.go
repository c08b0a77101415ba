package engine

import "context"

// TurnPrompt is what a policy sees for one turn-response cycle.
type TurnPrompt struct {
	PlayNumber int
	TrickSoFar []Card
	TrickSuit  Suit
	LegalPlays []Card
	Hand       []Card
}

// Policy picks the card to play. Implementations must return an element of LegalPlays.
type Policy interface {
	ChoosePlay(ctx context.Context, prompt TurnPrompt) (Card, error)
}

type PolicyFunc func(ctx context.Context, prompt TurnPrompt) (Card, error)

func (f PolicyFunc) ChoosePlay(ctx context.Context, prompt TurnPrompt) (Card, error) {
	return f(ctx, prompt)
}

func promptFrom(m YourTurn) TurnPrompt {
	return TurnPrompt{
		PlayNumber: m.PlayNumber,
		TrickSoFar: m.TrickSoFar.Card,
		TrickSuit:  m.TrickSuit,
		LegalPlays: m.LegalPlays.Card,
		Hand:       m.Hand.Card,
	}
}
