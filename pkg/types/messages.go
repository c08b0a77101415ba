package types

// Client -> Authority (one payload per envelope, token on everything after login)
// player:
//   name: string
//   email: string
//
// startGame: {}            sessionToken required
//
// myPlay:                  sessionToken required
//   card: string           e.g. "2C", "TD", "QS"
//
// Authority -> Client ("res" names the populated payload)
// hello:       sessionToken
// hand:        cards[]
// cardPlayed:  playNumber, player, card
// yourTurn:    playNumber, trickSoFar{card[]}, trickSuit, legalPlays{card[]}, hand{card[]}
// trickResult: trickWinner, points
// handResult:  scores, totals, referenceScores, referenceTotals
// gameResult:  winner, totals, referenceTotals

const (
	TagHello       = "hello"
	TagHand        = "hand"
	TagCardPlayed  = "cardPlayed"
	TagYourTurn    = "yourTurn"
	TagTrickResult = "trickResult"
	TagHandResult  = "handResult"
	TagGameResult  = "gameResult"
)
