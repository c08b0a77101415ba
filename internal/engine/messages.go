package engine

import "github.com/DoyleJ11/hearts-client/pkg/types"

// Inbound is the closed set of messages the authority pushes to a client.
type Inbound interface {
	Tag() string
	isInbound()
}

type Hello struct {
	SessionToken string
}

type Hand struct {
	Cards []Card
}

type CardPlayed struct {
	PlayNumber int
	Player     string
	Card       Card
}

// YourTurn is the turn prompt. LegalPlays is never empty for a well-behaved authority.
type YourTurn struct {
	PlayNumber int
	TrickSoFar CardList
	TrickSuit  Suit
	LegalPlays CardList
	Hand       CardList
}

type TrickResult struct {
	TrickWinner string
	Points      int
}

type HandResult struct {
	Scores          map[string]int
	Totals          map[string]int
	ReferenceScores map[string]int
	ReferenceTotals map[string]int
}

type GameResult struct {
	Winner          string
	Totals          map[string]int
	ReferenceTotals map[string]int
}

const (
	TagHello       = types.TagHello
	TagHand        = types.TagHand
	TagCardPlayed  = types.TagCardPlayed
	TagYourTurn    = types.TagYourTurn
	TagTrickResult = types.TagTrickResult
	TagHandResult  = types.TagHandResult
	TagGameResult  = types.TagGameResult
)

func (Hello) Tag() string       { return TagHello }
func (Hand) Tag() string        { return TagHand }
func (CardPlayed) Tag() string  { return TagCardPlayed }
func (YourTurn) Tag() string    { return TagYourTurn }
func (TrickResult) Tag() string { return TagTrickResult }
func (HandResult) Tag() string  { return TagHandResult }
func (GameResult) Tag() string  { return TagGameResult }

func (Hello) isInbound()       {}
func (Hand) isInbound()        {}
func (CardPlayed) isInbound()  {}
func (YourTurn) isInbound()    {}
func (TrickResult) isInbound() {}
func (HandResult) isInbound()  {}
func (GameResult) isInbound()  {}

// Outbound is the closed set of messages a client sends.
type Outbound interface{ isOutbound() }

type Identity struct {
	Name  string
	Email string
}

type Login struct {
	Identity Identity
}

type StartGame struct {
	SessionToken string
}

type MyPlay struct {
	SessionToken string
	Card         Card
}

func (Login) isOutbound()     {}
func (StartGame) isOutbound() {}
func (MyPlay) isOutbound()    {}
