package types

import (
	"fmt"

	"github.com/DoyleJ11/hearts-client/internal/engine"
)

// Inbound routes the envelope to its variant. It fails with a protocol violation when the
// tag is missing or unknown, or when the payload under the tag is absent.
func (m ServerMessage) Inbound() (engine.Inbound, error) {
	switch m.Res {
	case "":
		return nil, engine.Violation("", "message has no res tag")

	case engine.TagHello:
		if m.Hello == nil {
			return nil, missingPayload(m.Res)
		}
		return engine.Hello{SessionToken: m.Hello.SessionToken}, nil

	case engine.TagHand:
		if m.Hand == nil {
			return nil, missingPayload(m.Res)
		}
		return engine.Hand{Cards: m.Hand.Cards}, nil

	case engine.TagCardPlayed:
		if m.CardPlayed == nil {
			return nil, missingPayload(m.Res)
		}
		p := m.CardPlayed
		return engine.CardPlayed{PlayNumber: p.PlayNumber, Player: p.Player, Card: p.Card}, nil

	case engine.TagYourTurn:
		if m.YourTurn == nil {
			return nil, missingPayload(m.Res)
		}
		p := m.YourTurn
		return engine.YourTurn{
			PlayNumber: p.PlayNumber,
			TrickSoFar: p.TrickSoFar,
			TrickSuit:  p.TrickSuit,
			LegalPlays: p.LegalPlays,
			Hand:       p.Hand,
		}, nil

	case engine.TagTrickResult:
		if m.TrickResult == nil {
			return nil, missingPayload(m.Res)
		}
		return engine.TrickResult{TrickWinner: m.TrickResult.TrickWinner, Points: m.TrickResult.Points}, nil

	case engine.TagHandResult:
		if m.HandResult == nil {
			return nil, missingPayload(m.Res)
		}
		p := m.HandResult
		return engine.HandResult{
			Scores:          p.Scores,
			Totals:          p.Totals,
			ReferenceScores: p.ReferenceScores,
			ReferenceTotals: p.ReferenceTotals,
		}, nil

	case engine.TagGameResult:
		if m.GameResult == nil {
			return nil, missingPayload(m.Res)
		}
		p := m.GameResult
		return engine.GameResult{Winner: p.Winner, Totals: p.Totals, ReferenceTotals: p.ReferenceTotals}, nil

	default:
		return nil, engine.Violation(m.Res, "no handler registered")
	}
}

func missingPayload(tag string) error {
	return engine.Violation(tag, "payload missing")
}

// NewClientMessage encodes an outbound variant into the wire envelope.
func NewClientMessage(out engine.Outbound) (ClientMessage, error) {
	switch msg := out.(type) {
	case engine.Login:
		return ClientMessage{Player: &Player{Name: msg.Identity.Name, Email: msg.Identity.Email}}, nil
	case engine.StartGame:
		return ClientMessage{SessionToken: msg.SessionToken, StartGame: &StartGame{}}, nil
	case engine.MyPlay:
		return ClientMessage{SessionToken: msg.SessionToken, MyPlay: &MyPlay{Card: msg.Card}}, nil
	default:
		return ClientMessage{}, fmt.Errorf("encode: unsupported outbound %T", out)
	}
}

// Kind names the populated payload, for logging.
func (m ClientMessage) Kind() string {
	switch {
	case m.Player != nil:
		return "player"
	case m.StartGame != nil:
		return "startGame"
	case m.MyPlay != nil:
		return "myPlay"
	}
	return "empty"
}
