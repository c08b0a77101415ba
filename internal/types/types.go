package types

import "github.com/DoyleJ11/hearts-client/internal/engine"

// ClientMessage is the client -> authority envelope. Exactly one payload field is set.
type ClientMessage struct {
	SessionToken string     `json:"sessionToken,omitempty"`
	Player       *Player    `json:"player,omitempty"`
	StartGame    *StartGame `json:"startGame,omitempty"`
	MyPlay       *MyPlay    `json:"myPlay,omitempty"`
}

type Player struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type StartGame struct{}

type MyPlay struct {
	Card engine.Card `json:"card"`
}

// ServerMessage is the authority -> client envelope. Res names the populated payload.
type ServerMessage struct {
	Res         string       `json:"res"`
	Hello       *Hello       `json:"hello,omitempty"`
	Hand        *Hand        `json:"hand,omitempty"`
	CardPlayed  *CardPlayed  `json:"cardPlayed,omitempty"`
	YourTurn    *YourTurn    `json:"yourTurn,omitempty"`
	TrickResult *TrickResult `json:"trickResult,omitempty"`
	HandResult  *HandResult  `json:"handResult,omitempty"`
	GameResult  *GameResult  `json:"gameResult,omitempty"`
}

type Hello struct {
	SessionToken string `json:"sessionToken"`
}

type Hand struct {
	Cards []engine.Card `json:"cards"`
}

type CardPlayed struct {
	PlayNumber int         `json:"playNumber"`
	Player     string      `json:"player"`
	Card       engine.Card `json:"card"`
}

type YourTurn struct {
	PlayNumber int             `json:"playNumber"`
	TrickSoFar engine.CardList `json:"trickSoFar"`
	TrickSuit  engine.Suit     `json:"trickSuit,omitempty"`
	LegalPlays engine.CardList `json:"legalPlays"`
	Hand       engine.CardList `json:"hand"`
}

type TrickResult struct {
	TrickWinner string `json:"trickWinner"`
	Points      int    `json:"points"`
}

type HandResult struct {
	Scores          map[string]int `json:"scores,omitempty"`
	Totals          map[string]int `json:"totals,omitempty"`
	ReferenceScores map[string]int `json:"referenceScores,omitempty"`
	ReferenceTotals map[string]int `json:"referenceTotals,omitempty"`
}

type GameResult struct {
	Winner          string         `json:"winner"`
	Totals          map[string]int `json:"totals,omitempty"`
	ReferenceTotals map[string]int `json:"referenceTotals,omitempty"`
}
