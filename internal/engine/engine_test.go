package engine

import (
	"context"
	"errors"
	"testing"
)

func firstLegal() Policy {
	return PolicyFunc(func(_ context.Context, p TurnPrompt) (Card, error) {
		return p.LegalPlays[0], nil
	})
}

func loggedIn(t *testing.T) Session {
	t.Helper()
	_, s, err := Authenticate(NewSession(), Identity{Name: "Jim", Email: "jim@example.com"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	_, s, err = Apply(context.Background(), s, Hello{SessionToken: "T1"}, firstLegal())
	if err != nil {
		t.Fatalf("hello: %v", err)
	}
	return s
}

func inHand(t *testing.T) Session {
	t.Helper()
	s := loggedIn(t)
	_, s, err := Apply(context.Background(), s, Hand{Cards: MustParseCards("2C", "9D")}, firstLegal())
	if err != nil {
		t.Fatalf("hand: %v", err)
	}
	return s
}

func TestLogin_SendsIdentityOnce(t *testing.T) {
	id := Identity{Name: "Jim", Email: "jim@example.com"}
	r, s, err := Authenticate(NewSession(), id)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if r.Send != (Login{Identity: id}) {
		t.Fatalf("got send %#v", r.Send)
	}
	if s.Phase != PhaseAwaitingHello {
		t.Fatalf("want %s, got %s", PhaseAwaitingHello, s.Phase)
	}

	if _, _, err := Authenticate(s, id); !errors.Is(err, ErrAlreadyLoggedIn) {
		t.Fatalf("want ErrAlreadyLoggedIn, got %v", err)
	}
}

func TestHello_CapturesTokenAndStartsGame(t *testing.T) {
	_, s, _ := Authenticate(NewSession(), Identity{Name: "Jim"})
	r, s, err := Apply(context.Background(), s, Hello{SessionToken: "T1"}, firstLegal())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if r.Send != (StartGame{SessionToken: "T1"}) {
		t.Fatalf("got send %#v", r.Send)
	}
	if s.Phase != PhaseIdle || s.Token != "T1" || !s.HasToken {
		t.Fatalf("unexpected session %+v", s)
	}
}

func TestHello_TokenNeverReassigned(t *testing.T) {
	s := loggedIn(t)
	_, after, err := Apply(context.Background(), s, Hello{SessionToken: "T2"}, firstLegal())
	if !errors.Is(err, ErrProtocolViolation) {
		t.Fatalf("want ErrProtocolViolation, got %v", err)
	}
	if after.Token != "T1" {
		t.Fatalf("token reassigned to %q", after.Token)
	}
}

func TestYourTurn_PlaysFirstLegal(t *testing.T) {
	s := inHand(t)
	turn := YourTurn{
		PlayNumber: 1,
		LegalPlays: CardList{Card: MustParseCards("2C", "9D")},
		Hand:       CardList{Card: MustParseCards("2C", "9D")},
	}
	r, s, err := Apply(context.Background(), s, turn, firstLegal())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := MyPlay{SessionToken: "T1", Card: MustParseCards("2C")[0]}
	if r.Send != want {
		t.Fatalf("got %#v, want %#v", r.Send, want)
	}
	if s.Phase != PhaseInHand || s.PlaysMade != 1 {
		t.Fatalf("unexpected session %+v", s)
	}
}

func TestYourTurn_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		turn    YourTurn
		policy  Policy
		wantErr error
	}{
		{
			name:    "empty legal plays",
			turn:    YourTurn{PlayNumber: 1},
			policy:  firstLegal(),
			wantErr: ErrProtocolViolation,
		},
		{
			name: "policy picks an illegal card",
			turn: YourTurn{PlayNumber: 1, LegalPlays: CardList{Card: MustParseCards("2C")}},
			policy: PolicyFunc(func(context.Context, TurnPrompt) (Card, error) {
				return MustParseCards("QS")[0], nil
			}),
			wantErr: ErrIllegalChoice,
		},
		{
			name: "policy fails",
			turn: YourTurn{PlayNumber: 1, LegalPlays: CardList{Card: MustParseCards("2C")}},
			policy: PolicyFunc(func(context.Context, TurnPrompt) (Card, error) {
				return Card{}, context.Canceled
			}),
			wantErr: context.Canceled,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := inHand(t)
			r, _, err := Apply(context.Background(), s, tc.turn, tc.policy)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			if r.Send != nil {
				t.Fatalf("expected no send, got %#v", r.Send)
			}
		})
	}
}

func TestHandResult_ArmsContinuation(t *testing.T) {
	s := inHand(t)
	r, s, err := Apply(context.Background(), s, HandResult{Totals: map[string]int{"P1": 3}}, firstLegal())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if r.Schedule != ScheduleArm || r.Send != nil {
		t.Fatalf("unexpected reaction %#v", r)
	}
	if s.Phase != PhaseAwaitingContinuation || s.HandsCompleted != 1 || s.Totals["P1"] != 3 {
		t.Fatalf("unexpected session %+v", s)
	}

	r, s = Continue(s)
	if r.Send != (StartGame{SessionToken: "T1"}) {
		t.Fatalf("continue: got send %#v", r.Send)
	}
	if s.Phase != PhaseIdle {
		t.Fatalf("continue: want idle, got %s", s.Phase)
	}
}

func TestContinue_StaleIsNoop(t *testing.T) {
	s := inHand(t)
	r, after := Continue(s)
	if r.Send != nil || after.Phase != PhaseInHand {
		t.Fatalf("stale continuation acted: %#v %s", r, after.Phase)
	}
}

func TestGameResult_EndsSession(t *testing.T) {
	s := inHand(t)
	_, s, _ = Apply(context.Background(), s, HandResult{}, firstLegal())

	r, s, err := Apply(context.Background(), s, GameResult{Winner: "P2"}, firstLegal())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if r.Schedule != ScheduleDisarm || !r.End || r.Send != nil {
		t.Fatalf("unexpected reaction %#v", r)
	}
	if s.Phase != PhaseTerminal || s.Winner != "P2" {
		t.Fatalf("unexpected session %+v", s)
	}

	if _, _, err := Apply(context.Background(), s, Hand{}, firstLegal()); !errors.Is(err, ErrTerminal) {
		t.Fatalf("want ErrTerminal after game result, got %v", err)
	}
	if r, _ := Continue(s); r.Send != nil {
		t.Fatalf("continuation sent after terminal")
	}
}

func TestGameResult_AcceptedAfterContinuationFired(t *testing.T) {
	cases := []struct {
		name  string
		setup func(t *testing.T) Session
	}{
		{name: "idle after continuation", setup: func(t *testing.T) Session {
			s := inHand(t)
			_, s, _ = Apply(context.Background(), s, HandResult{}, firstLegal())
			_, s = Continue(s)
			return s
		}},
		{name: "idle after hello", setup: loggedIn},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.setup(t)
			if s.Phase != PhaseIdle {
				t.Fatalf("setup: want idle, got %s", s.Phase)
			}
			r, after, err := Apply(context.Background(), s, GameResult{Winner: "P1"}, firstLegal())
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if r.Schedule != ScheduleDisarm || !r.End || r.Send != nil {
				t.Fatalf("unexpected reaction %#v", r)
			}
			if after.Phase != PhaseTerminal || after.Winner != "P1" {
				t.Fatalf("unexpected session %+v", after)
			}
		})
	}
}

func TestOutOfPhaseMessagesAreViolations(t *testing.T) {
	cases := []struct {
		name  string
		setup func(t *testing.T) Session
		msg   Inbound
	}{
		{name: "hand before hello", setup: func(*testing.T) Session { return NewSession() }, msg: Hand{}},
		{name: "turn before hand", setup: loggedIn, msg: YourTurn{LegalPlays: CardList{Card: MustParseCards("2C")}}},
		{name: "trick result while idle", setup: loggedIn, msg: TrickResult{}},
		{name: "hand result while idle", setup: loggedIn, msg: HandResult{}},
		{name: "game result before hello", setup: func(*testing.T) Session { return NewSession() }, msg: GameResult{}},
		{name: "empty token", setup: func(*testing.T) Session { return Session{Phase: PhaseAwaitingHello} }, msg: Hello{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.setup(t)
			_, after, err := Apply(context.Background(), s, tc.msg, firstLegal())
			if !errors.Is(err, ErrProtocolViolation) {
				t.Fatalf("want ErrProtocolViolation, got %v", err)
			}
			if after.Phase != s.Phase {
				t.Fatalf("phase changed on violation: %s -> %s", s.Phase, after.Phase)
			}
		})
	}
}

func TestTransportError_MatchesSentinelAndCause(t *testing.T) {
	cause := errors.New("boom")
	err := error(&TransportError{Op: "recv", Err: cause})
	if !errors.Is(err, ErrTransportFailure) || !errors.Is(err, cause) {
		t.Fatalf("errors.Is failed for %v", err)
	}
}
