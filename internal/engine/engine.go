package engine

import (
	"context"
	"fmt"
	"maps"
)

type Phase string

const (
	PhaseUnauthenticated      Phase = "unauthenticated"
	PhaseAwaitingHello        Phase = "awaiting_hello"
	PhaseIdle                 Phase = "idle"
	PhaseInHand               Phase = "in_hand"
	PhaseAwaitingContinuation Phase = "awaiting_continuation"
	PhaseTerminal             Phase = "terminal"
)

type ScheduleOp int

const (
	ScheduleNone ScheduleOp = iota
	ScheduleArm
	ScheduleDisarm
)

// Reaction is what the event loop must do after a transition: at most one send,
// at most one scheduler operation, and optionally end the stream.
type Reaction struct {
	Send     Outbound
	Schedule ScheduleOp
	End      bool
}

// Session is the client's view of one game session. The token is set once, from hello.
type Session struct {
	Phase    Phase
	Token    string
	HasToken bool
	Identity Identity
	Hand     []Card

	HandsCompleted int
	TricksSeen     int
	PlaysMade      int
	Totals         map[string]int
	Winner         string
}

func NewSession() Session {
	return Session{Phase: PhaseUnauthenticated}
}

// Authenticate produces the identity message. It is the only send allowed before hello.
func Authenticate(s Session, id Identity) (Reaction, Session, error) {
	if s.Phase == PhaseTerminal {
		return Reaction{}, s, ErrTerminal
	}
	if s.Phase != PhaseUnauthenticated {
		return Reaction{}, s, ErrAlreadyLoggedIn
	}
	next := s
	next.Identity = id
	next.Phase = PhaseAwaitingHello
	return Reaction{Send: Login{Identity: id}}, next, nil
}

// Continue handles a continuation firing. Outside AwaitingContinuation it is stale and does nothing.
func Continue(s Session) (Reaction, Session) {
	if s.Phase != PhaseAwaitingContinuation {
		return Reaction{}, s
	}
	next := s
	next.Phase = PhaseIdle
	return Reaction{Send: StartGame{SessionToken: s.Token}}, next
}

// Abort forces the session into Terminal after a fatal fault.
func Abort(s Session) (Reaction, Session) {
	next := s
	next.Phase = PhaseTerminal
	return Reaction{Schedule: ScheduleDisarm}, next
}

// Apply runs the handler for one inbound message.
func Apply(ctx context.Context, s Session, in Inbound, policy Policy) (Reaction, Session, error) {
	if s.Phase == PhaseTerminal {
		return Reaction{}, s, ErrTerminal
	}
	if in == nil {
		return Reaction{}, s, Violation("", "nil message")
	}
	next := s

	switch msg := in.(type) {
	case Hello:
		if s.Phase != PhaseAwaitingHello || s.HasToken {
			return Reaction{}, s, outOfPhase(msg, s.Phase)
		}
		if msg.SessionToken == "" {
			return Reaction{}, s, Violation(msg.Tag(), "empty session token")
		}
		next.Token = msg.SessionToken
		next.HasToken = true
		next.Phase = PhaseIdle
		return Reaction{Send: StartGame{SessionToken: next.Token}}, next, nil

	case Hand:
		if s.Phase != PhaseIdle && s.Phase != PhaseInHand {
			return Reaction{}, s, outOfPhase(msg, s.Phase)
		}
		next.Hand = append([]Card(nil), msg.Cards...)
		next.Phase = PhaseInHand
		return Reaction{}, next, nil

	case CardPlayed:
		if s.Phase != PhaseInHand {
			return Reaction{}, s, outOfPhase(msg, s.Phase)
		}
		return Reaction{}, next, nil

	case YourTurn:
		if s.Phase != PhaseInHand {
			return Reaction{}, s, outOfPhase(msg, s.Phase)
		}
		if msg.LegalPlays.Len() == 0 {
			return Reaction{}, s, Violation(msg.Tag(), "turn prompt has no legal plays")
		}
		card, err := policy.ChoosePlay(ctx, promptFrom(msg))
		if err != nil {
			return Reaction{}, s, fmt.Errorf("choose play %d: %w", msg.PlayNumber, err)
		}
		if !msg.LegalPlays.Contains(card) {
			return Reaction{}, s, fmt.Errorf("%w: %s not in %v", ErrIllegalChoice, card, msg.LegalPlays.Strings())
		}
		next.PlaysMade++
		return Reaction{Send: MyPlay{SessionToken: s.Token, Card: card}}, next, nil

	case TrickResult:
		if s.Phase != PhaseInHand {
			return Reaction{}, s, outOfPhase(msg, s.Phase)
		}
		next.TricksSeen++
		return Reaction{}, next, nil

	case HandResult:
		if s.Phase != PhaseInHand {
			return Reaction{}, s, outOfPhase(msg, s.Phase)
		}
		next.HandsCompleted++
		next.Totals = maps.Clone(msg.Totals)
		next.Hand = nil
		next.Phase = PhaseAwaitingContinuation
		return Reaction{Schedule: ScheduleArm}, next, nil

	case GameResult:
		if s.Phase == PhaseUnauthenticated || s.Phase == PhaseAwaitingHello {
			return Reaction{}, s, outOfPhase(msg, s.Phase)
		}
		next.Winner = msg.Winner
		next.Totals = maps.Clone(msg.Totals)
		next.Hand = nil
		next.Phase = PhaseTerminal
		return Reaction{Schedule: ScheduleDisarm, End: true}, next, nil

	default:
		return Reaction{}, s, Violation(in.Tag(), "no handler")
	}
}

func outOfPhase(in Inbound, p Phase) error {
	return Violation(in.Tag(), "unexpected in phase %s", p)
}
