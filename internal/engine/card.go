package engine

import (
	"fmt"
	"strings"
)

type Suit string

const (
	SuitNone     Suit = ""
	SuitClubs    Suit = "C"
	SuitDiamonds Suit = "D"
	SuitSpades   Suit = "S"
	SuitHearts   Suit = "H"
)

func (s Suit) Valid() bool {
	switch s {
	case SuitClubs, SuitDiamonds, SuitSpades, SuitHearts:
		return true
	}
	return false
}

func (s Suit) Symbol() string {
	switch s {
	case SuitClubs:
		return "♣"
	case SuitDiamonds:
		return "♦"
	case SuitSpades:
		return "♠"
	case SuitHearts:
		return "♥"
	}
	return "-"
}

// Rank runs 2..14, with 11..14 for jack, queen, king and ace.
type Rank int

const (
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
	RankAce   Rank = 14
)

const rankLetters = "23456789TJQKA"

func (r Rank) Valid() bool { return r >= 2 && r <= RankAce }

func (r Rank) letter() byte {
	if !r.Valid() {
		return '?'
	}
	return rankLetters[r-2]
}

type Card struct {
	Rank Rank
	Suit Suit
}

// Code is the wire form, e.g. "2C", "TD", "QS".
func (c Card) Code() string {
	return string([]byte{c.Rank.letter()}) + string(c.Suit)
}

// String renders the card for people, e.g. "2♣".
func (c Card) String() string {
	r := string(c.Rank.letter())
	if c.Rank == 10 {
		r = "10"
	}
	return r + c.Suit.Symbol()
}

func (c Card) MarshalText() ([]byte, error) {
	if !c.Rank.Valid() || !c.Suit.Valid() {
		return nil, fmt.Errorf("invalid card %d%s", c.Rank, c.Suit)
	}
	return []byte(c.Code()), nil
}

func (c *Card) UnmarshalText(b []byte) error {
	parsed, err := ParseCard(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard accepts "2C", "TD", "10H" and lower case variants.
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("parse card %q: too short", s)
	}
	rankPart, suitPart := s[:len(s)-1], Suit(s[len(s)-1:])
	if !suitPart.Valid() {
		return Card{}, fmt.Errorf("parse card %q: unknown suit", s)
	}
	if rankPart == "10" {
		rankPart = "T"
	}
	if len(rankPart) != 1 {
		return Card{}, fmt.Errorf("parse card %q: unknown rank", s)
	}
	i := strings.IndexByte(rankLetters, rankPart[0])
	if i < 0 {
		return Card{}, fmt.Errorf("parse card %q: unknown rank", s)
	}
	return Card{Rank: Rank(i + 2), Suit: suitPart}, nil
}

func MustParseCards(codes ...string) []Card {
	cards := make([]Card, 0, len(codes))
	for _, code := range codes {
		c, err := ParseCard(code)
		if err != nil {
			panic(err)
		}
		cards = append(cards, c)
	}
	return cards
}

// CardList mirrors the authority's repeated-card wrapper ({"card": [...]}).
type CardList struct {
	Card []Card `json:"card"`
}

func (l CardList) Contains(c Card) bool {
	for _, have := range l.Card {
		if have == c {
			return true
		}
	}
	return false
}

func (l CardList) Len() int { return len(l.Card) }

func (l CardList) Strings() []string {
	out := make([]string, len(l.Card))
	for i, c := range l.Card {
		out[i] = c.String()
	}
	return out
}
