package types

import "time"

// SessionView is the status API's view of one seat.
type SessionView struct {
	ID             string         `json:"id"`
	Seat           int            `json:"seat"`
	Name           string         `json:"name"`
	Phase          string         `json:"phase"`
	HasToken       bool           `json:"has_token"`
	Hand           []string       `json:"hand,omitempty"`
	HandsCompleted int            `json:"hands_completed"`
	TricksSeen     int            `json:"tricks_seen"`
	PlaysMade      int            `json:"plays_made"`
	Totals         map[string]int `json:"totals,omitempty"`
	Winner         string         `json:"winner,omitempty"`
	ContinueArmed  bool           `json:"continue_armed"`
	Err            string         `json:"error,omitempty"`
	// HandsRecorded is filled in from the history store when one is configured.
	HandsRecorded *int64 `json:"hands_recorded,omitempty"`
}

// GameView is one finished game from the history store.
type GameView struct {
	SessionID  string         `json:"session_id"`
	Player     string         `json:"player"`
	Winner     string         `json:"winner"`
	Hands      int            `json:"hands"`
	Totals     map[string]int `json:"totals,omitempty"`
	FinishedAt time.Time      `json:"finished_at"`
}
